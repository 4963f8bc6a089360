/*
 * combine.go, part of qcs.
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

import "fmt"

// Combine merges another dataset into a deep copy of this one and
// returns the result. Neither input is mutated, and a failed merge
// leaves no partial state behind. The merge policy follows the dataset
// type: plain geometry fusion for single-point datasets, constraint
// aware fusion for optimizations, central-bond matching for torsion
// drives. Datasets of different types cannot be combined. Combining the
// same increment twice is a no-op the second time: geometries already
// present are recognized by exact coordinate match and skipped.
func (D *Dataset) Combine(other *Dataset) (*Dataset, error) {
	if D.Type != other.Type {
		err := &DatasetCombinationError{Message: fmt.Sprintf("the datasets must be the same type, you can not add types %s and %s", D.Type, other.Type)}
		err.Decorate("Combine")
		return nil, err
	}
	newd := D.Copy()
	for el := range other.Metadata.Elements {
		newd.Metadata.Elements[el] = true
	}
	var err error
	switch D.Type {
	case OptimizationDatasetType:
		err = combineConstraintAware(newd, other)
	case TorsionDriveDatasetType:
		err = combineDihedralAware(newd, other)
	default:
		err = combinePlain(newd, other)
	}
	if err != nil {
		return nil, err
	}
	return newd, nil
}

func (D *Dataset) insertEntry(entry *Entry) {
	if _, exists := D.Entries[entry.Index]; !exists {
		D.order = append(D.order, entry.Index)
	}
	D.Entries[entry.Index] = entry
}

// alignEntries reconstructs both entry molecules and returns the
// incoming molecule together with its atom mapping onto the current
// one. Entries under the same identity key must align; anything else is
// a broken identity function.
func alignEntries(id Identity, entry, current *Entry) (*Molecule, map[int]int, error) {
	emol, err := entry.Molecule(id)
	if err != nil {
		return nil, nil, err
	}
	cmol, err := current.Molecule(id)
	if err != nil {
		return nil, nil, err
	}
	mapping, iso := id.Align(emol, cmol)
	if !iso {
		ierr := &IntegrityError{Message: fmt.Sprintf("entries %q and %q share an identity key but do not align; the identity function is broken", entry.Index, current.Index)}
		ierr.Decorate("alignEntries")
		return nil, nil, ierr
	}
	return emol, mapping, nil
}

// transferGeometries remaps the incoming entry's conformers into the
// current entry's atom frame and appends every geometry not already
// staged there.
func transferGeometries(id Identity, entry, current *Entry) error {
	emol, mapping, err := alignEntries(id, entry, current)
	if err != nil {
		return err
	}
	remapped, rerr := emol.Remap(mapping)
	if rerr != nil {
		ierr := &IntegrityError{Message: fmt.Sprintf("the alignment of entry %q is not a usable permutation: %v", entry.Index, rerr)}
		ierr.Decorate("transferGeometries")
		return ierr
	}
	var extras map[string]interface{}
	if len(current.InitialMolecules) > 0 {
		extras = current.InitialMolecules[0].Extras
	}
	for _, conf := range remapped.Conformers {
		ex := make(map[string]interface{}, len(extras))
		for k, v := range extras {
			ex[k] = v
		}
		current.addGeometry(geometryFromConformer(conf, ex))
	}
	return nil
}

// combinePlain fuses by molecule identity alone: an incoming entry for a
// known molecule only contributes whatever conformers the existing entry
// does not already stage.
func combinePlain(newd *Dataset, other *Dataset) error {
	for _, entry := range other.EntryList() {
		emol, err := entry.Molecule(newd.id)
		if err != nil {
			return err
		}
		hits, err := newd.GetMoleculeEntry(emol)
		if err != nil {
			return err
		}
		if len(hits) == 0 {
			newd.insertEntry(entry.Copy())
			continue
		}
		if err := transferGeometries(newd.id, entry, newd.Entries[hits[0]]); err != nil {
			return err
		}
	}
	return nil
}

// combineConstraintAware fuses an incoming entry only into an existing
// entry whose constraint set, after remapping through the alignment, is
// structurally equal. When no candidate matches, the entry is kept
// separate under a disambiguated index: the index root plus a tag offset
// by the geometries already stored under the scanned candidates.
func combineConstraintAware(newd *Dataset, other *Dataset) error {
	for _, entry := range other.EntryList() {
		emol, err := entry.Molecule(newd.id)
		if err != nil {
			return err
		}
		hits, err := newd.GetMoleculeEntry(emol)
		if err != nil {
			return err
		}
		if len(hits) == 0 {
			newd.insertEntry(entry.Copy())
			continue
		}
		records := 0
		fused := false
		for _, hit := range hits {
			current := newd.Entries[hit]
			records += len(current.InitialMolecules)
			_, mapping, aerr := alignEntries(newd.id, entry, current)
			if aerr != nil {
				return aerr
			}
			remappedCS, cerr := entry.Constraints.Remap(mapping)
			if cerr != nil {
				return cerr
			}
			if current.Constraints.Equal(remappedCS) {
				if terr := transferGeometries(newd.id, entry, current); terr != nil {
					return terr
				}
				fused = true
				break
			}
		}
		if !fused {
			core, tag := CleanIndex(entry.Index)
			newe := entry.Copy()
			newe.Index = fmt.Sprintf("%s-%d", core, tag+records)
			newd.insertEntry(newe)
		}
	}
	return nil
}

// combineDihedralAware matches entries on the central bonds of their
// torsion selections rather than on constraints: when every central bond
// of an existing candidate, taken in both directions, also appears in
// the incoming entry's remapped selection, the two describe the same
// scan and their geometries fuse. The first matching candidate wins; an
// entry matching none is inserted under its original index.
func combineDihedralAware(newd *Dataset, other *Dataset) error {
	for _, entry := range other.EntryList() {
		emol, err := entry.Molecule(newd.id)
		if err != nil {
			return err
		}
		hits, err := newd.GetMoleculeEntry(emol)
		if err != nil {
			return err
		}
		fused := false
		for _, hit := range hits {
			current := newd.Entries[hit]
			_, mapping, aerr := alignEntries(newd.id, entry, current)
			if aerr != nil {
				return aerr
			}
			currentBonds := make(map[[2]int]bool)
			for _, d := range current.Dihedrals {
				currentBonds[[2]int{d[1], d[2]}] = true
				currentBonds[[2]int{d[2], d[1]}] = true
			}
			otherBonds := make(map[[2]int]bool)
			for _, d := range entry.Dihedrals {
				otherBonds[[2]int{mapping[d[1]], mapping[d[2]]}] = true
				otherBonds[[2]int{mapping[d[2]], mapping[d[1]]}] = true
			}
			missing := false
			for bond := range currentBonds {
				if !otherBonds[bond] {
					missing = true
					break
				}
			}
			if missing {
				continue
			}
			if terr := transferGeometries(newd.id, entry, current); terr != nil {
				return terr
			}
			fused = true
			break
		}
		if !fused {
			newd.insertEntry(entry.Copy())
		}
	}
	return nil
}
