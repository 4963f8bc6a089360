/*
 * molecule.go, part of qcs.
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

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Molecule is a molecular topology plus zero or more 3D conformers and a
// free-form property bag. Conformers are Nx3 matrices in Angstrom, one row
// per atom, in the same order as Atoms.
type Molecule struct {
	Atoms      []*Atom
	Bonds      []*Bond
	Conformers []*mat.Dense
	Props      map[string]interface{}
}

// NewMolecule makes a molecule from the given atoms and bonds. It returns
// an error on a nil atom slice or on a bond referencing an atom that does
// not exist. It does not check for chemical sanity.
func NewMolecule(atoms []*Atom, bonds []*Bond) (*Molecule, error) {
	if atoms == nil {
		return nil, &ValidationError{Message: "supplied a nil atom slice"}
	}
	for _, b := range bonds {
		if b.At1 < 0 || b.At1 >= len(atoms) || b.At2 < 0 || b.At2 >= len(atoms) || b.At1 == b.At2 {
			return nil, &ValidationError{Message: fmt.Sprintf("bond %d-%d references a non-existing atom", b.At1, b.At2)}
		}
	}
	M := new(Molecule)
	M.Atoms = atoms
	M.Bonds = bonds
	M.Props = make(map[string]interface{})
	return M, nil
}

// Len returns the number of atoms in the molecule.
func (M *Molecule) Len() int {
	return len(M.Atoms)
}

// Atom returns the Atom corresponding to the index i. Panics if out of
// range, the usual convention for fundamental accessors.
func (M *Molecule) Atom(i int) *Atom {
	return M.Atoms[i]
}

// NConformers returns the number of conformers stored in the molecule.
func (M *Molecule) NConformers() int {
	return len(M.Conformers)
}

// Bonded returns whether atoms i and j share a bond.
func (M *Molecule) Bonded(i, j int) bool {
	for _, b := range M.Bonds {
		if (b.At1 == i && b.At2 == j) || (b.At1 == j && b.At2 == i) {
			return true
		}
	}
	return false
}

// Neighbors returns the indices of the atoms bonded to atom i, in
// ascending order.
func (M *Molecule) Neighbors(i int) []int {
	var n []int
	for _, b := range M.Bonds {
		if b.At1 == i {
			n = append(n, b.At2)
		} else if b.At2 == i {
			n = append(n, b.At1)
		}
	}
	sort.Ints(n)
	return n
}

// Elements returns the set of element symbols present in the molecule.
func (M *Molecule) Elements() map[string]bool {
	els := make(map[string]bool)
	for _, at := range M.Atoms {
		els[at.Symbol] = true
	}
	return els
}

// AddConformer appends a conformer to the molecule. It returns an error
// if the dimensions do not match the topology.
func (M *Molecule) AddConformer(conf *mat.Dense) error {
	r, c := conf.Dims()
	if r != M.Len() || c != 3 {
		return &ValidationError{Message: fmt.Sprintf("conformer dimensions %dx%d do not match a %d-atom molecule", r, c, M.Len())}
	}
	M.Conformers = append(M.Conformers, conf)
	return nil
}

// HasConformer reports whether an exactly equal conformer is already
// stored. The comparison is an exact floating point match, kept for
// compatibility with the archive staging behavior. This is a known
// precision hazard: a conformer differing by rounding only is treated as
// new.
func (M *Molecule) HasConformer(conf *mat.Dense) bool {
	for _, old := range M.Conformers {
		if confEqual(old, conf) {
			return true
		}
	}
	return false
}

func confEqual(a, b *mat.Dense) bool {
	ra, ca := a.Dims()
	rb, cb := b.Dims()
	if ra != rb || ca != cb {
		return false
	}
	for i := 0; i < ra; i++ {
		for j := 0; j < ca; j++ {
			if a.At(i, j) != b.At(i, j) {
				return false
			}
		}
	}
	return true
}

// Copy returns a deep copy of the molecule. The property bag is copied
// shallowly except for torsion indexers, which know how to copy
// themselves.
func (M *Molecule) Copy() *Molecule {
	newmol := new(Molecule)
	newmol.Atoms = make([]*Atom, 0, len(M.Atoms))
	for _, at := range M.Atoms {
		newmol.Atoms = append(newmol.Atoms, at.Copy())
	}
	newmol.Bonds = make([]*Bond, 0, len(M.Bonds))
	for _, b := range M.Bonds {
		newmol.Bonds = append(newmol.Bonds, b.Copy())
	}
	newmol.Conformers = make([]*mat.Dense, 0, len(M.Conformers))
	for _, conf := range M.Conformers {
		newmol.Conformers = append(newmol.Conformers, mat.DenseCopyOf(conf))
	}
	newmol.Props = make(map[string]interface{}, len(M.Props))
	for k, v := range M.Props {
		if ti, ok := v.(*TorsionIndexer); ok {
			newmol.Props[k] = ti.Copy()
			continue
		}
		newmol.Props[k] = v
	}
	return newmol
}

// Remap returns a fresh molecule with atoms relabeled through the
// permutation m, where m[i] is the new index of the atom currently at i.
// Conformer rows and bond endpoints are relabeled along. The receiver is
// never mutated. An incomplete or non-bijective mapping is an error.
func (M *Molecule) Remap(m map[int]int) (*Molecule, error) {
	n := M.Len()
	if len(m) != n {
		return nil, &ValidationError{Message: fmt.Sprintf("atom mapping has %d entries for a %d-atom molecule", len(m), n)}
	}
	seen := make([]bool, n)
	for _, v := range m {
		if v < 0 || v >= n || seen[v] {
			return nil, &ValidationError{Message: "atom mapping is not a permutation"}
		}
		seen[v] = true
	}
	newmol := new(Molecule)
	newmol.Atoms = make([]*Atom, n)
	for i, at := range M.Atoms {
		newmol.Atoms[m[i]] = at.Copy()
	}
	newmol.Bonds = make([]*Bond, 0, len(M.Bonds))
	for _, b := range M.Bonds {
		nb := b.Copy()
		nb.At1 = m[b.At1]
		nb.At2 = m[b.At2]
		newmol.Bonds = append(newmol.Bonds, nb)
	}
	newmol.Conformers = make([]*mat.Dense, 0, len(M.Conformers))
	for _, conf := range M.Conformers {
		nc := mat.NewDense(n, 3, nil)
		for i := 0; i < n; i++ {
			nc.Set(m[i], 0, conf.At(i, 0))
			nc.Set(m[i], 1, conf.At(i, 1))
			nc.Set(m[i], 2, conf.At(i, 2))
		}
		newmol.Conformers = append(newmol.Conformers, nc)
	}
	newmol.Props = make(map[string]interface{}, len(M.Props))
	for k, v := range M.Props {
		newmol.Props[k] = v
	}
	return newmol, nil
}
