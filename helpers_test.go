/*
 * helpers_test.go, part of qcs.
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

package qcs_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	qcs "github.com/goqcs/qcs"
	"github.com/goqcs/qcs/identity"
)

// testChain builds a singly-bonded chain over the given symbols, with
// one conformer per coordinate slice.
func testChain(Te *testing.T, symbols []string, coords ...[]float64) *qcs.Molecule {
	atoms := make([]*qcs.Atom, len(symbols))
	for i, s := range symbols {
		atoms[i] = &qcs.Atom{Symbol: s}
	}
	var bonds []*qcs.Bond
	for i := 0; i+1 < len(symbols); i++ {
		bonds = append(bonds, &qcs.Bond{At1: i, At2: i + 1, Order: 1})
	}
	mol, err := qcs.NewMolecule(atoms, bonds)
	require.NoError(Te, err)
	for _, c := range coords {
		require.NoError(Te, mol.AddConformer(mat.NewDense(len(symbols), 3, c)))
	}
	return mol
}

func testAttrs(Te *testing.T, id qcs.Identity, mol *qcs.Molecule) map[string]string {
	attrs, err := qcs.MoleculeAttributes(id, mol)
	require.NoError(Te, err)
	return attrs
}

// ethanolConf and friends are heavy-atom skeletons; good enough for
// staging tests, no chemistry implied.
var ethanolConf = []float64{
	0, 0, 0,
	1.5, 0, 0,
	2.2, 1.2, 0,
}

var ethanolConfB = []float64{
	0.1, 0, 0,
	1.6, 0, 0,
	2.3, 1.2, 0.2,
}

var butaneConf = []float64{
	0, 0, 0,
	1.5, 0, 0,
	2.2, 1.3, 0,
	3.7, 1.4, 0.5,
}

var pentaneConf = []float64{
	0, 0, 0,
	1.5, 0, 0,
	2.2, 1.3, 0,
	3.7, 1.4, 0.5,
	4.4, 2.7, 0.6,
}

func ethanol(Te *testing.T, coords ...[]float64) *qcs.Molecule {
	if len(coords) == 0 {
		coords = [][]float64{ethanolConf}
	}
	return testChain(Te, []string{"C", "C", "O"}, coords...)
}

func butane(Te *testing.T) *qcs.Molecule {
	return testChain(Te, []string{"C", "C", "C", "C"}, butaneConf)
}

func newOracle() *identity.Oracle {
	return identity.New()
}
