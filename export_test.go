/*
 * export_test.go, part of qcs.
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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	qcs "github.com/goqcs/qcs"
)

func exportTestDataset(Te *testing.T) *qcs.Dataset {
	id := newOracle()
	ds := qcs.NewOptimizationDataset(id)
	mol := ethanol(Te, ethanolConf, ethanolConfB)
	require.NoError(Te, ds.AddMolecule("ethanol", mol, testAttrs(Te, id, mol), nil, nil))
	require.NoError(Te, ds.Entries["ethanol"].AddConstraint("freeze", "distance", 0, 0, 1))
	other := butane(Te)
	require.NoError(Te, ds.AddMolecule("butane", other, testAttrs(Te, id, other), nil, nil))
	return ds
}

func TestExportRoundTrip(Te *testing.T) {
	ds := exportTestDataset(Te)
	dir := Te.TempDir()
	for _, name := range []string{"ds.json", "ds.yaml", "ds.json.zst", "ds.json.gz"} {
		path := filepath.Join(dir, name)
		require.NoError(Te, ds.Export(path), name)
		loaded, err := qcs.Load(path)
		require.NoError(Te, err, name)
		loaded.SetIdentity(newOracle())
		require.Equal(Te, ds.Name, loaded.Name, name)
		require.Equal(Te, ds.Type, loaded.Type, name)
		require.Len(Te, loaded.Entries, 2, name)
		require.Equal(Te, ds.NRecords(), loaded.NRecords(), name)
		entry := loaded.Entries["ethanol"]
		require.NotNil(Te, entry, name)
		require.Equal(Te, ds.Entries["ethanol"].Attributes, entry.Attributes, name)
		require.True(Te, ds.Entries["ethanol"].Constraints.Equal(entry.Constraints), name)
		require.Equal(Te, ds.Entries["ethanol"].InitialMolecules[0].Coords, entry.InitialMolecules[0].Coords, name)

		//the loaded dataset still knows how to look molecules up
		hits, err := loaded.GetMoleculeEntry(ethanol(Te))
		require.NoError(Te, err, name)
		require.Equal(Te, []string{"ethanol"}, hits, name)
	}
}

func TestExportUnsupportedFiletype(Te *testing.T) {
	ds := exportTestDataset(Te)
	var uerr *qcs.UnsupportedFiletypeError
	require.ErrorAs(Te, ds.Export(filepath.Join(Te.TempDir(), "ds.xyz")), &uerr)
	_, err := qcs.Load(filepath.Join(Te.TempDir(), "missing.tar"))
	require.Error(Te, err)
}

func TestCompressedExportIsCompressed(Te *testing.T) {
	ds := exportTestDataset(Te)
	dir := Te.TempDir()
	plain := filepath.Join(dir, "ds.json")
	packed := filepath.Join(dir, "ds.json.zst")
	require.NoError(Te, ds.Export(plain))
	require.NoError(Te, ds.Export(packed))
	pstat, err := os.Stat(plain)
	require.NoError(Te, err)
	zstat, err := os.Stat(packed)
	require.NoError(Te, err)
	require.Less(Te, zstat.Size(), pstat.Size())
}

func TestMoleculesToFile(Te *testing.T) {
	ds := exportTestDataset(Te)
	dir := Te.TempDir()

	smi := filepath.Join(dir, "mols.smi")
	require.NoError(Te, ds.MoleculesToFile(smi))
	raw, err := os.ReadFile(smi)
	require.NoError(Te, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(Te, lines, 2)
	require.Equal(Te, ds.Entries["ethanol"].Attributes[qcs.AttrCanonicalSmiles], lines[0])

	var uerr *qcs.UnsupportedFiletypeError
	require.ErrorAs(Te, ds.MoleculesToFile(filepath.Join(dir, "mols.pdb")), &uerr)
}
