/*
 * combine_test.go, part of qcs.
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

	qcs "github.com/goqcs/qcs"
)

func TestCombineTypeMismatch(Te *testing.T) {
	id := newOracle()
	var cerr *qcs.DatasetCombinationError
	_, err := qcs.NewDataset(id).Combine(qcs.NewOptimizationDataset(id))
	require.ErrorAs(Te, err, &cerr)
}

func TestCombinePlain(Te *testing.T) {
	id := newOracle()
	ds1 := qcs.NewDataset(id)
	mol1 := ethanol(Te, ethanolConf)
	require.NoError(Te, ds1.AddMolecule("ethanol", mol1, testAttrs(Te, id, mol1), nil, nil))

	ds2 := qcs.NewDataset(id)
	//same molecule, another conformer, shuffled atom order
	mol2, err := ethanol(Te, ethanolConfB).Remap(map[int]int{0: 2, 1: 1, 2: 0})
	require.NoError(Te, err)
	require.NoError(Te, ds2.AddMolecule("ethanol-other", mol2, testAttrs(Te, id, mol2), nil, nil))
	//and a molecule ds1 has not seen
	mol3 := butane(Te)
	require.NoError(Te, ds2.AddMolecule("butane", mol3, testAttrs(Te, id, mol3), nil, nil))

	combined, err := ds1.Combine(ds2)
	require.NoError(Te, err)
	require.Len(Te, combined.Entries, 2)
	require.Equal(Te, 1, len(ds1.Entries["ethanol"].InitialMolecules))
	fused := combined.Entries["ethanol"]
	require.Len(Te, fused.InitialMolecules, 2)
	//the transferred geometry landed in the kept atom frame: row 0 of
	//the fused conformer belongs to the first-seen carbon
	require.Equal(Te, ethanolConfB[0], fused.InitialMolecules[1].Coords[0])
	require.True(Te, combined.Metadata.Elements["C"])

	//combining the same increment again changes nothing
	again, err := combined.Combine(ds2)
	require.NoError(Te, err)
	require.Len(Te, again.Entries, 2)
	require.Len(Te, again.Entries["ethanol"].InitialMolecules, 2)
	require.Len(Te, again.Entries["butane"].InitialMolecules, 1)
}

func TestCombineConstraintAware(Te *testing.T) {
	id := newOracle()
	//propanol rather than butane: no symmetry, so the alignment between
	//entries is unique
	chain := []string{"C", "C", "C", "O"}
	ds1 := qcs.NewOptimizationDataset(id)
	mol := testChain(Te, chain, butaneConf)
	require.NoError(Te, ds1.AddMolecule("propanol", mol, testAttrs(Te, id, mol), nil, nil))
	require.NoError(Te, ds1.Entries["propanol"].AddConstraint("freeze", "dihedral", 0, 0, 1, 2, 3))

	//same molecule under a different constraint: must stay separate
	ds2 := qcs.NewOptimizationDataset(id)
	mol2 := testChain(Te, chain, butaneConf)
	require.NoError(Te, ds2.AddMolecule("propanol", mol2, testAttrs(Te, id, mol2), nil, nil))
	require.NoError(Te, ds2.Entries["propanol"].AddConstraint("freeze", "distance", 0, 0, 1))

	combined, err := ds1.Combine(ds2)
	require.NoError(Te, err)
	require.Len(Te, combined.Entries, 2)
	require.NotNil(Te, combined.Entries["propanol"])
	//disambiguated as root plus the geometries under the scanned entry
	require.NotNil(Te, combined.Entries["propanol-1"])

	//same molecule under the same constraint: geometries fuse
	ds3 := qcs.NewOptimizationDataset(id)
	shifted := testChain(Te, chain, butaneConf)
	shifted.Conformers[0].Set(0, 0, 0.2)
	require.NoError(Te, ds3.AddMolecule("propanol", shifted, testAttrs(Te, id, shifted), nil, nil))
	require.NoError(Te, ds3.Entries["propanol"].AddConstraint("freeze", "dihedral", 0, 0, 1, 2, 3))

	fused, err := ds1.Combine(ds3)
	require.NoError(Te, err)
	require.Len(Te, fused.Entries, 1)
	require.Len(Te, fused.Entries["propanol"].InitialMolecules, 2)

	//and fusing is idempotent
	again, err := fused.Combine(ds3)
	require.NoError(Te, err)
	require.Len(Te, again.Entries, 1)
	require.Len(Te, again.Entries["propanol"].InitialMolecules, 2)
}

func TestCombineDihedralAware(Te *testing.T) {
	id := newOracle()
	//butanol rather than pentane, for a symmetry-free alignment
	chain := []string{"C", "C", "C", "C", "O"}
	ds1 := qcs.NewTorsionDriveDataset(id)
	mol := testChain(Te, chain, pentaneConf)
	require.NoError(Te, ds1.AddMolecule("butanol", mol, testAttrs(Te, id, mol), nil, nil, [4]int{0, 1, 2, 3}))

	//same molecule, same central bond walked backwards: the scans fuse
	ds2 := qcs.NewTorsionDriveDataset(id)
	shifted := testChain(Te, chain, pentaneConf)
	shifted.Conformers[0].Set(4, 2, 0.9)
	require.NoError(Te, ds2.AddMolecule("butanol-back", shifted, testAttrs(Te, id, shifted), nil, nil, [4]int{3, 2, 1, 0}))

	combined, err := ds1.Combine(ds2)
	require.NoError(Te, err)
	require.Len(Te, combined.Entries, 1)
	require.Len(Te, combined.Entries["butanol"].InitialMolecules, 2)

	//a scan over a different central bond stays its own entry
	ds3 := qcs.NewTorsionDriveDataset(id)
	mol3 := testChain(Te, chain, pentaneConf)
	require.NoError(Te, ds3.AddMolecule("butanol-far", mol3, testAttrs(Te, id, mol3), nil, nil, [4]int{1, 2, 3, 4}))

	separate, err := ds1.Combine(ds3)
	require.NoError(Te, err)
	require.Len(Te, separate.Entries, 2)
	require.NotNil(Te, separate.Entries["butanol"])
	require.NotNil(Te, separate.Entries["butanol-far"])
}
