/*
 * molecule_test.go, part of qcs.
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
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func chainMolecule(Te *testing.T, symbols []string, coords ...[]float64) *Molecule {
	atoms := make([]*Atom, len(symbols))
	for i, s := range symbols {
		atoms[i] = &Atom{Symbol: s}
	}
	var bonds []*Bond
	for i := 0; i+1 < len(symbols); i++ {
		bonds = append(bonds, &Bond{At1: i, At2: i + 1, Order: 1})
	}
	mol, err := NewMolecule(atoms, bonds)
	require.NoError(Te, err)
	for _, c := range coords {
		require.NoError(Te, mol.AddConformer(mat.NewDense(len(symbols), 3, c)))
	}
	return mol
}

func TestNewMoleculeBadBond(Te *testing.T) {
	_, err := NewMolecule([]*Atom{{Symbol: "C"}}, []*Bond{{At1: 0, At2: 3, Order: 1}})
	require.Error(Te, err)
	_, err = NewMolecule(nil, nil)
	require.Error(Te, err)
}

func TestRemap(Te *testing.T) {
	mol := chainMolecule(Te, []string{"C", "C", "O"},
		[]float64{0, 0, 0, 1.5, 0, 0, 2.2, 1.2, 0})
	remapped, err := mol.Remap(map[int]int{0: 2, 1: 0, 2: 1})
	require.NoError(Te, err)
	require.Equal(Te, "C", remapped.Atom(2).Symbol)
	require.Equal(Te, "O", remapped.Atom(1).Symbol)
	require.True(Te, remapped.Bonded(2, 0))
	require.True(Te, remapped.Bonded(0, 1))
	require.False(Te, remapped.Bonded(2, 1))
	//conformer rows follow their atoms
	require.Equal(Te, 1.5, remapped.Conformers[0].At(0, 0))
	require.Equal(Te, 1.2, remapped.Conformers[0].At(1, 1))
	//the receiver is untouched
	require.Equal(Te, "C", mol.Atom(0).Symbol)
	require.Equal(Te, 0.0, mol.Conformers[0].At(0, 0))
}

func TestRemapRejectsNonPermutations(Te *testing.T) {
	mol := chainMolecule(Te, []string{"C", "C", "O"})
	_, err := mol.Remap(map[int]int{0: 0, 1: 1})
	require.Error(Te, err)
	_, err = mol.Remap(map[int]int{0: 0, 1: 0, 2: 2})
	require.Error(Te, err)
	_, err = mol.Remap(map[int]int{0: 0, 1: 1, 2: 5})
	require.Error(Te, err)
}

func TestHasConformerIsExact(Te *testing.T) {
	conf := []float64{0, 0, 0, 1.5, 0, 0, 2.2, 1.2, 0}
	mol := chainMolecule(Te, []string{"C", "C", "O"}, conf)
	require.True(Te, mol.HasConformer(mat.NewDense(3, 3, append([]float64(nil), conf...))))
	nudged := append([]float64(nil), conf...)
	nudged[3] += 1e-12
	require.False(Te, mol.HasConformer(mat.NewDense(3, 3, nudged)))
}

func TestAssignBonds(Te *testing.T) {
	mol := chainMolecule(Te, []string{"C", "C", "O"},
		[]float64{0, 0, 0, 1.5, 0, 0, 8, 0, 0})
	mol.Bonds = nil
	require.NoError(Te, AssignBonds(mol))
	require.True(Te, mol.Bonded(0, 1))
	require.False(Te, mol.Bonded(1, 2))
	require.False(Te, mol.Bonded(0, 2))
}

func TestBondAngle(Te *testing.T) {
	coord := mat.NewDense(3, 3, []float64{1, 0, 0, 0, 0, 0, 0, 1, 0})
	require.InDelta(Te, math.Pi/2, BondAngle(coord, 0, 1, 2), 1e-10)
}

func TestTorsionIndexer(Te *testing.T) {
	ti := NewTorsionIndexer()
	ti.AddTorsion([4]int{0, 1, 2, 3})
	//the reversed walk selects the same central bond
	ti.AddTorsion([4]int{3, 2, 1, 0})
	require.Equal(Te, 1, ti.NTorsions())
	ti.AddImproper([4]int{0, 4, 2, 3})
	require.Equal(Te, 2, ti.NTorsions())

	other := NewTorsionIndexer()
	other.AddTorsion([4]int{1, 2, 3, 4})
	identityMap := map[int]int{0: 0, 1: 1, 2: 2, 3: 3, 4: 4}
	ti.Update(other, identityMap)
	require.Equal(Te, 3, ti.NTorsions())
	dihedrals := ti.Dihedrals()
	require.Len(Te, dihedrals, 3)
	require.Equal(Te, [4]int{0, 1, 2, 3}, dihedrals[0])
}

func TestCleanIndex(Te *testing.T) {
	for _, c := range []struct {
		in   string
		core string
		tag  int
	}{
		{"CCO-3", "CCO", 3},
		{"CCO", "CCO", 0},
		{"2-amino-thing", "2-amino-thing", 0},
		{"2-amino-4", "2-amino", 4},
	} {
		core, tag := CleanIndex(c.in)
		require.Equal(Te, c.core, core, c.in)
		require.Equal(Te, c.tag, tag, c.in)
	}
}
