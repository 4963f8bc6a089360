/*
 * torsion.go, part of qcs.
 *
 * Copyright 2026 The qcs developers
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package qcs

import "sort"

// PropDihedrals is the Molecule property key under which workflow stages
// attach a TorsionIndexer.
const PropDihedrals = "dihedrals"

// TorsionIndexer records which torsions of a molecule have been selected
// for driving. Proper torsions are keyed by their central bond with the
// endpoints in ascending order, so the same rotatable bond selected from
// either direction collapses to one record. Impropers are keyed by their
// central atom.
type TorsionIndexer struct {
	Torsions  map[[2]int][4]int
	Impropers map[int][4]int
}

// NewTorsionIndexer returns an empty indexer.
func NewTorsionIndexer() *TorsionIndexer {
	return &TorsionIndexer{
		Torsions:  make(map[[2]int][4]int),
		Impropers: make(map[int][4]int),
	}
}

func centralBond(d [4]int) [2]int {
	if d[1] <= d[2] {
		return [2]int{d[1], d[2]}
	}
	return [2]int{d[2], d[1]}
}

// AddTorsion records a proper torsion selection. A torsion over an
// already selected central bond is a duplicate and is dropped.
func (T *TorsionIndexer) AddTorsion(d [4]int) {
	key := centralBond(d)
	if _, ok := T.Torsions[key]; !ok {
		T.Torsions[key] = d
	}
}

// AddImproper records an improper torsion selection, keyed by its central
// atom d[1].
func (T *TorsionIndexer) AddImproper(d [4]int) {
	if _, ok := T.Impropers[d[1]]; !ok {
		T.Impropers[d[1]] = d
	}
}

// NTorsions returns the total number of selections held.
func (T *TorsionIndexer) NTorsions() int {
	return len(T.Torsions) + len(T.Impropers)
}

// Copy returns a deep copy of the indexer.
func (T *TorsionIndexer) Copy() *TorsionIndexer {
	newt := NewTorsionIndexer()
	for k, v := range T.Torsions {
		newt.Torsions[k] = v
	}
	for k, v := range T.Impropers {
		newt.Impropers[k] = v
	}
	return newt
}

// Update fuses another indexer into this one, passing every atom index of
// other through the mapping m first. Selections over a central bond or
// atom already present here are kept as they are; new ones accumulate.
func (T *TorsionIndexer) Update(other *TorsionIndexer, m map[int]int) {
	for _, d := range other.Torsions {
		T.AddTorsion([4]int{m[d[0]], m[d[1]], m[d[2]], m[d[3]]})
	}
	for _, d := range other.Impropers {
		T.AddImproper([4]int{m[d[0]], m[d[1]], m[d[2]], m[d[3]]})
	}
}

// Dihedrals lists every selection in a deterministic order, proper
// torsions first.
func (T *TorsionIndexer) Dihedrals() [][4]int {
	keys := make([][2]int, 0, len(T.Torsions))
	for k := range T.Torsions {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i][0] != keys[j][0] {
			return keys[i][0] < keys[j][0]
		}
		return keys[i][1] < keys[j][1]
	})
	out := make([][4]int, 0, T.NTorsions())
	for _, k := range keys {
		out = append(out, T.Torsions[k])
	}
	centers := make([]int, 0, len(T.Impropers))
	for c := range T.Impropers {
		centers = append(centers, c)
	}
	sort.Ints(centers)
	for _, c := range centers {
		out = append(out, T.Impropers[c])
	}
	return out
}
