/*
 * identity_test.go, part of qcs.
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
	"testing"

	"github.com/stretchr/testify/require"

	qcs "github.com/goqcs/qcs"
)

func chain(Te *testing.T, symbols ...string) *qcs.Molecule {
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
	return mol
}

func TestKeyOrderInvariance(Te *testing.T) {
	mol := chain(Te, "C", "C", "O")
	key, err := New().Key(mol)
	require.NoError(Te, err)
	shuffled, err := mol.Remap(map[int]int{0: 2, 1: 0, 2: 1})
	require.NoError(Te, err)
	key2, err := New().Key(shuffled)
	require.NoError(Te, err)
	require.Equal(Te, key, key2)
}

func TestKeySensitivity(Te *testing.T) {
	O := New()
	ethanolish, err := O.Key(chain(Te, "C", "C", "O"))
	require.NoError(Te, err)
	etherish, err := O.Key(chain(Te, "C", "O", "C"))
	require.NoError(Te, err)
	require.NotEqual(Te, ethanolish, etherish)

	charged := chain(Te, "C", "C", "O")
	charged.Atom(2).Charge = -1
	chargedKey, err := O.Key(charged)
	require.NoError(Te, err)
	require.NotEqual(Te, ethanolish, chargedKey)
}

func TestMappedKeyFollowsAtomOrder(Te *testing.T) {
	O := New()
	mol := chain(Te, "C", "C", "O")
	shuffled, err := mol.Remap(map[int]int{0: 2, 1: 0, 2: 1})
	require.NoError(Te, err)
	ma, err := O.MappedKey(mol)
	require.NoError(Te, err)
	mb, err := O.MappedKey(shuffled)
	require.NoError(Te, err)
	require.NotEqual(Te, ma, mb)

	rebuilt, err := O.FromKey(ma)
	require.NoError(Te, err)
	for i := 0; i < mol.Len(); i++ {
		require.Equal(Te, mol.Atom(i).Symbol, rebuilt.Atom(i).Symbol)
	}
}

func TestAlign(Te *testing.T) {
	O := New()
	a := chain(Te, "C", "C", "O")
	perm := map[int]int{0: 1, 1: 2, 2: 0}
	b, err := a.Remap(perm)
	require.NoError(Te, err)
	mapping, iso := O.Align(a, b)
	require.True(Te, iso)
	require.Len(Te, mapping, a.Len())
	for i := 0; i < a.Len(); i++ {
		require.Equal(Te, a.Atom(i).Symbol, b.Atom(mapping[i]).Symbol)
	}
	for _, bond := range a.Bonds {
		require.True(Te, b.Bonded(mapping[bond.At1], mapping[bond.At2]))
	}
}

func TestAlignRejectsNonIsomorphic(Te *testing.T) {
	O := New()
	_, iso := O.Align(chain(Te, "C", "C", "O"), chain(Te, "C", "O", "C"))
	require.False(Te, iso)
	_, iso = O.Align(chain(Te, "C", "C"), chain(Te, "C", "C", "C"))
	require.False(Te, iso)
}

func TestFromKeyRoundTrip(Te *testing.T) {
	O := New()
	mol := chain(Te, "C", "N", "C", "O")
	mol.Atom(1).Charge = 1
	key, err := O.Key(mol)
	require.NoError(Te, err)
	rebuilt, err := O.FromKey(key)
	require.NoError(Te, err)
	key2, err := O.Key(rebuilt)
	require.NoError(Te, err)
	require.Equal(Te, key, key2)
}

func TestFromKeyMalformed(Te *testing.T) {
	O := New()
	for _, bad := range []string{"", "nonsense", "QCS1;C:0", "QCS1;C:x;"} {
		_, err := O.FromKey(bad)
		require.Error(Te, err, "key %q", bad)
	}
}

func TestKeyEmptyMolecule(Te *testing.T) {
	O := New()
	_, err := O.Key(nil)
	require.Error(Te, err)
	empty, merr := qcs.NewMolecule([]*qcs.Atom{}, nil)
	require.NoError(Te, merr)
	_, err = O.Key(empty)
	require.Error(Te, err)
}
