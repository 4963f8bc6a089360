/*
 * constraint_test.go, part of qcs.
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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConstraintArity(Te *testing.T) {
	cs := NewConstraintSet()
	require.NoError(Te, cs.AddFreeze("distance", 0, 1))
	require.NoError(Te, cs.AddSet("angle", 109.5, 0, 1, 2))
	require.NoError(Te, cs.AddFreeze("xyz", 4))

	var cerr *ConstraintError
	require.ErrorAs(Te, cs.AddFreeze("distance", 0, 1, 2), &cerr)
	require.ErrorAs(Te, cs.AddFreeze("dihedral", 0, 1, 2), &cerr)
	require.ErrorAs(Te, cs.AddFreeze("bend", 0, 1, 2), &cerr)
	require.ErrorAs(Te, cs.AddSet("distance", 1.5, 0, 0), &cerr)
	require.Equal(Te, 2, len(cs.Freeze))
	require.Equal(Te, 1, len(cs.Set))
}

func TestConstraintSetEqualIgnoresOrder(Te *testing.T) {
	a := NewConstraintSet()
	require.NoError(Te, a.AddFreeze("distance", 0, 1))
	require.NoError(Te, a.AddFreeze("angle", 0, 1, 2))
	b := NewConstraintSet()
	require.NoError(Te, b.AddFreeze("angle", 0, 1, 2))
	require.NoError(Te, b.AddFreeze("distance", 0, 1))
	require.True(Te, a.Equal(b))

	require.NoError(Te, b.AddSet("dihedral", 120, 0, 1, 2, 3))
	require.False(Te, a.Equal(b))

	//same shape, different target value
	c := NewConstraintSet()
	require.NoError(Te, c.AddSet("distance", 1.5, 0, 1))
	d := NewConstraintSet()
	require.NoError(Te, d.AddSet("distance", 1.6, 0, 1))
	require.False(Te, c.Equal(d))
}

func TestConstraintRemap(Te *testing.T) {
	cs := NewConstraintSet()
	require.NoError(Te, cs.AddFreeze("distance", 0, 2))
	remapped, err := cs.Remap(map[int]int{0: 1, 1: 2, 2: 0})
	require.NoError(Te, err)
	require.Equal(Te, []int{1, 0}, remapped.Freeze[0].Indices)
	//the original is untouched
	require.Equal(Te, []int{0, 2}, cs.Freeze[0].Indices)

	_, err = cs.Remap(map[int]int{0: 1})
	require.Error(Te, err)
}

func TestConstraintValidate(Te *testing.T) {
	mol := chainMolecule(Te, []string{"C", "C", "O"})
	cs := NewConstraintSet()
	require.NoError(Te, cs.AddFreeze("distance", 0, 2))
	require.NoError(Te, cs.Validate(mol))
	require.NoError(Te, cs.AddFreeze("distance", 0, 7))
	var cerr *ConstraintError
	require.ErrorAs(Te, cs.Validate(mol), &cerr)
}

func TestConstraintSetNilReceiver(Te *testing.T) {
	//a dataset loaded from a file whose entry omits "constraints" holds
	//a nil set; every operation must treat it as empty
	var cs *ConstraintSet
	require.False(Te, cs.HasConstraints())
	require.NotNil(Te, cs.Copy())
	require.True(Te, cs.Equal(NewConstraintSet()))
	withFreeze := NewConstraintSet()
	require.NoError(Te, withFreeze.AddFreeze("xyz", 0))
	require.False(Te, cs.Equal(withFreeze))
	remapped, err := cs.Remap(map[int]int{0: 0})
	require.NoError(Te, err)
	require.False(Te, remapped.HasConstraints())
	require.NoError(Te, cs.Validate(chainMolecule(Te, []string{"C"})))

	entry := &Entry{Index: "bare"}
	require.NotNil(Te, entry.Copy().Constraints)
	require.NotContains(Te, entry.FormattedKeywords(), "constraints")
}

func TestConstraintSetFromKeywords(Te *testing.T) {
	//the generic map shape a JSON load produces
	raw := map[string]interface{}{
		"freeze": []interface{}{
			map[string]interface{}{"type": "distance", "indices": []interface{}{0, 1}},
		},
		"set": []interface{}{
			map[string]interface{}{"type": "dihedral", "indices": []interface{}{0, 1, 2, 3}, "value": 120.0},
		},
	}
	cs, err := constraintSetFromKeywords(raw)
	require.NoError(Te, err)
	require.Len(Te, cs.Freeze, 1)
	require.Len(Te, cs.Set, 1)
	require.NotNil(Te, cs.Set[0].Value)
	require.Equal(Te, 120.0, *cs.Set[0].Value)

	typed := NewConstraintSet()
	require.NoError(Te, typed.AddFreeze("xyz", 2))
	cs2, err := constraintSetFromKeywords(typed)
	require.NoError(Te, err)
	require.True(Te, typed.Equal(cs2))
}
