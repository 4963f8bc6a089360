/*
 * refine.go, part of qcs.
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

package identity

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	qcs "github.com/goqcs/qcs"
	"gonum.org/v1/gonum/graph/simple"
)

// bondGraph adapts a molecule to a gonum weighted graph, with bond orders
// as edge weights.
func bondGraph(mol *qcs.Molecule) *simple.WeightedUndirectedGraph {
	g := simple.NewWeightedUndirectedGraph(0, 0)
	for i := 0; i < mol.Len(); i++ {
		g.AddNode(simple.Node(i))
	}
	for _, b := range mol.Bonds {
		g.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(b.At1), T: simple.Node(b.At2), W: b.Order})
	}
	return g
}

// refine computes stable atom colors for all given molecules at once, by
// iterative neighborhood refinement with a dictionary shared across
// molecules. Sharing the dictionary makes the resulting integer colors
// directly comparable between molecules, which the aligner relies on.
func refine(mols []*qcs.Molecule) [][]int {
	graphs := make([]*simple.WeightedUndirectedGraph, len(mols))
	sigs := make([][]string, len(mols))
	total := 0
	for mi, mol := range mols {
		graphs[mi] = bondGraph(mol)
		sigs[mi] = make([]string, mol.Len())
		for i := 0; i < mol.Len(); i++ {
			at := mol.Atom(i)
			deg := len(mol.Neighbors(i))
			sigs[mi][i] = fmt.Sprintf("%s:%g:%d", at.Symbol, at.Charge, deg)
		}
		total += mol.Len()
	}
	colors := rank(sigs)
	for round := 0; round < total; round++ {
		next := make([][]string, len(mols))
		for mi, mol := range mols {
			next[mi] = make([]string, mol.Len())
			for i := 0; i < mol.Len(); i++ {
				var nb []string
				it := graphs[mi].From(int64(i))
				for it.Next() {
					j := int(it.Node().ID())
					w := graphs[mi].WeightedEdge(int64(i), int64(j)).Weight()
					nb = append(nb, strconv.Itoa(colors[mi][j])+":"+strconv.FormatFloat(w, 'g', -1, 64))
				}
				sort.Strings(nb)
				next[mi][i] = strconv.Itoa(colors[mi][i]) + "(" + strings.Join(nb, ",") + ")"
			}
		}
		newcolors := rank(next)
		if samePartition(colors, newcolors) {
			break
		}
		colors = newcolors
	}
	return colors
}

// rank maps signature strings to dense integer colors, shared across all
// molecules.
func rank(sigs [][]string) [][]int {
	uniq := make(map[string]bool)
	for _, ms := range sigs {
		for _, s := range ms {
			uniq[s] = true
		}
	}
	sorted := make([]string, 0, len(uniq))
	for s := range uniq {
		sorted = append(sorted, s)
	}
	sort.Strings(sorted)
	idx := make(map[string]int, len(sorted))
	for i, s := range sorted {
		idx[s] = i
	}
	out := make([][]int, len(sigs))
	for mi, ms := range sigs {
		out[mi] = make([]int, len(ms))
		for i, s := range ms {
			out[mi][i] = idx[s]
		}
	}
	return out
}

func samePartition(a, b [][]int) bool {
	for mi := range a {
		for i := range a[mi] {
			if a[mi][i] != b[mi][i] {
				return false
			}
		}
	}
	return true
}

// canonicalOrder finds the atom ordering that minimizes the serialized
// form of the molecule, using refinement colors to cut the search down to
// ties within color classes. Returns order with order[new] = old.
func canonicalOrder(mol *qcs.Molecule) []int {
	n := mol.Len()
	colors := refine([]*qcs.Molecule{mol})[0]
	used := make([]bool, n)
	order := make([]int, 0, n)
	var best string
	var bestOrder []int
	var rec func()
	rec = func() {
		if len(order) == n {
			s := serialize(mol, order)
			if best == "" || s < best {
				best = s
				bestOrder = append([]int(nil), order...)
			}
			return
		}
		//prefer atoms attached to the already placed ones; this keeps
		//the search connected and the branching small
		cands := candidateAtoms(mol, colors, used, order)
		for _, i := range cands {
			used[i] = true
			order = append(order, i)
			rec()
			order = order[:len(order)-1]
			used[i] = false
		}
	}
	rec()
	return bestOrder
}

func candidateAtoms(mol *qcs.Molecule, colors []int, used []bool, order []int) []int {
	n := mol.Len()
	adjacent := make([]bool, n)
	anyAdjacent := false
	for _, p := range order {
		for _, nb := range mol.Neighbors(p) {
			if !used[nb] {
				adjacent[nb] = true
				anyAdjacent = true
			}
		}
	}
	minc := -1
	var cands []int
	for i := 0; i < n; i++ {
		if used[i] {
			continue
		}
		if anyAdjacent && !adjacent[i] {
			continue
		}
		if minc == -1 || colors[i] < minc {
			minc = colors[i]
			cands = cands[:0]
		}
		if colors[i] == minc {
			cands = append(cands, i)
		}
	}
	return cands
}

// match backtracks over color-compatible atom assignments from a to b,
// checking bond structure as it goes. Returns the mapping a index -> b
// index, or false when the molecules are not isomorphic.
func match(a, b *qcs.Molecule, ca, cb []int) (map[int]int, bool) {
	n := a.Len()
	if !sameColorCounts(ca, cb) {
		return nil, false
	}
	ga := bondGraph(a)
	gb := bondGraph(b)
	assign := make([]int, n) //a index -> b index
	usedb := make([]bool, n)
	for i := range assign {
		assign[i] = -1
	}
	var rec func(i int) bool
	rec = func(i int) bool {
		if i == n {
			return true
		}
		for j := 0; j < n; j++ {
			if usedb[j] || ca[i] != cb[j] {
				continue
			}
			if !consistent(ga, gb, assign, i, j) {
				continue
			}
			assign[i] = j
			usedb[j] = true
			if rec(i + 1) {
				return true
			}
			assign[i] = -1
			usedb[j] = false
		}
		return false
	}
	if !rec(0) {
		return nil, false
	}
	m := make(map[int]int, n)
	for i, j := range assign {
		m[i] = j
	}
	return m, true
}

func sameColorCounts(ca, cb []int) bool {
	counts := make(map[int]int)
	for _, c := range ca {
		counts[c]++
	}
	for _, c := range cb {
		counts[c]--
	}
	for _, v := range counts {
		if v != 0 {
			return false
		}
	}
	return true
}

// consistent checks that mapping a-atom i onto b-atom j preserves bonds
// and bond orders against every previously assigned atom.
func consistent(ga, gb *simple.WeightedUndirectedGraph, assign []int, i, j int) bool {
	for k, bk := range assign {
		if bk == -1 {
			continue
		}
		ha := ga.HasEdgeBetween(int64(i), int64(k))
		hb := gb.HasEdgeBetween(int64(j), int64(bk))
		if ha != hb {
			return false
		}
		if ha {
			wa := ga.WeightedEdge(int64(i), int64(k)).Weight()
			wb := gb.WeightedEdge(int64(j), int64(bk)).Weight()
			if wa != wb {
				return false
			}
		}
	}
	return true
}
