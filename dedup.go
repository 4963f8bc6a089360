/*
 * dedup.go, part of qcs.
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

	"go.uber.org/zap"
)

// DedupInfo names and describes the workflow stage a Deduplicator is
// collecting results for; it travels into the filter ledger of the
// dataset the results end up in.
type DedupInfo struct {
	Name        string
	Description map[string]string
	Provenance  map[string]string
}

// Deduplicator ingests a stream of candidate molecules and partitions it
// into kept and filtered, fusing the conformers and torsion selections of
// duplicates into the first-seen copy of each molecule. The first
// occurrence under a canonical key fixes the retained atom ordering; all
// later duplicates are remapped onto it, so input order is part of the
// contract. One Deduplicator is constructed per ingestion batch; the
// dedup tables are owned instance state, never shared.
type Deduplicator struct {
	info     DedupInfo
	id       Identity
	log      *zap.Logger
	kept     map[string]*Molecule
	rejected map[string]*Molecule
	order    []string
	rejOrder []string
}

// NewDeduplicator returns a Deduplicator for one batch. A nil logger
// disables progress logging.
func NewDeduplicator(info DedupInfo, id Identity, log *zap.Logger) *Deduplicator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Deduplicator{
		info:     info,
		id:       id,
		kept:     make(map[string]*Molecule),
		rejected: make(map[string]*Molecule),
		log:      log,
	}
}

// Info returns the stage information this batch was created with.
func (D *Deduplicator) Info() DedupInfo {
	return D.info
}

// Add ingests one candidate molecule. New canonical keys are inserted
// as-is; duplicates are aligned onto the kept copy and their torsion
// selections and unseen conformers transferred in the kept copy's atom
// frame. A key collision between molecules the oracle cannot align is a
// violated invariant and comes back as *IntegrityError: equal keys must
// mean isomorphic molecules, and there is no safe recovery from a merge
// of unrelated structures.
func (D *Deduplicator) Add(mol *Molecule) error {
	key, err := D.id.Key(mol)
	if err != nil {
		return err
	}
	cur, dup := D.kept[key]
	if !dup {
		D.kept[key] = mol
		D.order = append(D.order, key)
		D.log.Debug("molecule kept", zap.String("key", key), zap.Int("conformers", mol.NConformers()))
		return nil
	}
	mapping, iso := D.id.Align(mol, cur)
	if !iso {
		ierr := &IntegrityError{Message: fmt.Sprintf("canonical key collision on %q between non-isomorphic molecules; the identity function is broken", key)}
		ierr.Decorate("Add")
		return ierr
	}
	//transfer any torsion selections through the alignment
	if raw, ok := mol.Props[PropDihedrals]; ok {
		if ti, ok := raw.(*TorsionIndexer); ok {
			current, ok := cur.Props[PropDihedrals].(*TorsionIndexer)
			if !ok {
				current = NewTorsionIndexer()
			}
			current.Update(ti, mapping)
			cur.Props[PropDihedrals] = current
		}
	}
	if mol.NConformers() == 0 {
		//already in the list and no coordinates to transfer
		return nil
	}
	remapped, rerr := mol.Remap(mapping)
	if rerr != nil {
		ierr := &IntegrityError{Message: fmt.Sprintf("the alignment for key %q is not a usable permutation: %v", key, rerr)}
		ierr.Decorate("Add")
		return ierr
	}
	added := 0
	for _, conf := range remapped.Conformers {
		if !cur.HasConformer(conf) {
			cur.Conformers = append(cur.Conformers, conf)
			added++
		}
	}
	D.log.Debug("duplicate fused", zap.String("key", key), zap.Int("new_conformers", added))
	return nil
}

// Filter moves a molecule out of the kept set and records it as
// rejected. Filtering a molecule that was never added is fine; so is
// filtering one twice. A rejected key stays rejected: re-adding the same
// molecule later targets the kept set only and does not clear the
// rejection.
func (D *Deduplicator) Filter(mol *Molecule) error {
	key, err := D.id.Key(mol)
	if err != nil {
		return err
	}
	if _, ok := D.kept[key]; ok {
		delete(D.kept, key)
		for i, k := range D.order {
			if k == key {
				D.order = append(D.order[:i], D.order[i+1:]...)
				break
			}
		}
	}
	if _, ok := D.rejected[key]; !ok {
		D.rejected[key] = mol
		D.rejOrder = append(D.rejOrder, key)
		D.log.Info("molecule filtered", zap.String("stage", D.info.Name), zap.String("key", key))
	}
	return nil
}

// Molecules lists the kept molecules in first-seen order.
func (D *Deduplicator) Molecules() []*Molecule {
	out := make([]*Molecule, 0, len(D.order))
	for _, key := range D.order {
		out = append(out, D.kept[key])
	}
	return out
}

// Filtered lists the rejected molecules in the order they were filtered.
func (D *Deduplicator) Filtered() []*Molecule {
	out := make([]*Molecule, 0, len(D.rejOrder))
	for _, key := range D.rejOrder {
		out = append(out, D.rejected[key])
	}
	return out
}

// NMolecules returns the number of kept molecules.
func (D *Deduplicator) NMolecules() int {
	return len(D.kept)
}

// NConformers returns the total conformer count across the kept
// molecules.
func (D *Deduplicator) NConformers() int {
	total := 0
	for _, mol := range D.kept {
		total += mol.NConformers()
	}
	return total
}

// NFiltered returns the number of rejected molecules.
func (D *Deduplicator) NFiltered() int {
	return len(D.rejected)
}
