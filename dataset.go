/*
 * dataset.go, part of qcs.
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
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"go.uber.org/zap"
)

// Dataset type tags. The tag selects the merge policy and the staging
// shape at submission.
const (
	DataSetType             = "DataSet"
	OptimizationDatasetType = "OptimizationDataset"
	TorsionDriveDatasetType = "TorsiondriveDataset"
)

// The filter stage molecules failing entry construction are recorded
// under.
const schemaIssuesStage = "SchemaIssues"

// Metadata is the collection-level description submitted alongside a
// dataset.
type Metadata struct {
	CollectionType     string          `json:"collection_type" yaml:"collection_type"`
	DatasetName        string          `json:"dataset_name" yaml:"dataset_name"`
	ShortDescription   string          `json:"short_description,omitempty" yaml:"short_description,omitempty"`
	LongDescription    string          `json:"long_description,omitempty" yaml:"long_description,omitempty"`
	LongDescriptionURL string          `json:"long_description_url,omitempty" yaml:"long_description_url,omitempty"`
	Elements           map[string]bool `json:"elements" yaml:"elements"`
}

// Validate checks that the metadata is complete enough to open a new
// collection on the archive. The rules mirror the archive-side schema:
// names and descriptions are required, descriptions must not be trivially
// short, and the long description URL must parse as a URL when given.
func (M *Metadata) Validate() error {
	err := validation.ValidateStruct(M,
		validation.Field(&M.CollectionType, validation.Required),
		validation.Field(&M.DatasetName, validation.Required),
		validation.Field(&M.ShortDescription, validation.Required, validation.Length(8, 0)),
		validation.Field(&M.LongDescription, validation.Required, validation.Length(8, 0)),
		validation.Field(&M.LongDescriptionURL, is.URL),
	)
	if err != nil {
		derr := &DatasetInputError{Message: fmt.Sprintf("the dataset metadata is incomplete: %v", err)}
		derr.Decorate("Validate")
		return derr
	}
	return nil
}

// Copy returns a deep copy of the metadata.
func (M *Metadata) Copy() *Metadata {
	newm := *M
	newm.Elements = make(map[string]bool, len(M.Elements))
	for k, v := range M.Elements {
		newm.Elements[k] = v
	}
	return &newm
}

// Dataset holds all molecules and calculation settings of one submission
// prior to contact with the archive, along with the audit trail of
// everything filtered on the way in. Entries are keyed by their index;
// the key always equals the entry's own Index field.
type Dataset struct {
	Name          string                   `json:"dataset_name" yaml:"dataset_name"`
	Tagline       string                   `json:"dataset_tagline" yaml:"dataset_tagline"`
	Type          string                   `json:"dataset_type" yaml:"dataset_type"`
	Description   string                   `json:"description" yaml:"description"`
	Maxiter       int                      `json:"maxiter" yaml:"maxiter"`
	Driver        string                   `json:"driver" yaml:"driver"`
	SCFProperties []string                 `json:"scf_properties" yaml:"scf_properties"`
	Priority      string                   `json:"priority" yaml:"priority"`
	ComputeTag    string                   `json:"compute_tag" yaml:"compute_tag"`
	Tags          []string                 `json:"dataset_tags" yaml:"dataset_tags"`
	Metadata      *Metadata                `json:"metadata" yaml:"metadata"`
	Provenance    map[string]string        `json:"provenance" yaml:"provenance"`
	Entries       map[string]*Entry        `json:"dataset" yaml:"dataset"`
	FilterLedger  map[string]*FilterRecord `json:"filtered_molecules" yaml:"filtered_molecules"`
	QCSpecs       map[string]*QCSpec       `json:"qc_specifications" yaml:"qc_specifications"`

	//torsiondrive settings; ignored by the other dataset types
	GridSpacings     []int    `json:"grid_spacings,omitempty" yaml:"grid_spacings,omitempty"`
	EnergyUpperLimit float64  `json:"energy_upper_limit,omitempty" yaml:"energy_upper_limit,omitempty"`
	DihedralRanges   [][2]int `json:"dihedral_ranges,omitempty" yaml:"dihedral_ranges,omitempty"`

	id    Identity
	log   *zap.Logger
	order []string
}

func newDataset(id Identity, dstype, name, tagline, description, driver string) *Dataset {
	D := &Dataset{
		Name:          name,
		Tagline:       tagline,
		Type:          dstype,
		Description:   description,
		Maxiter:       200,
		Driver:        driver,
		SCFProperties: []string{"dipole", "quadrupole", "wiberg_lowdin_indices", "mayer_indices"},
		Priority:      "normal",
		ComputeTag:    "qcs",
		Tags:          []string{"qcs"},
		Metadata: &Metadata{
			CollectionType: dstype,
			DatasetName:    name,
			Elements:       make(map[string]bool),
		},
		Provenance:   make(map[string]string),
		Entries:      make(map[string]*Entry),
		FilterLedger: make(map[string]*FilterRecord),
		QCSpecs:      make(map[string]*QCSpec),
		id:           id,
		log:          zap.NewNop(),
	}
	D.Metadata.ShortDescription = tagline
	D.Metadata.LongDescription = description
	return D
}

// NewDataset makes an empty single-point dataset: every conformer of
// every entry becomes one energy evaluation.
func NewDataset(id Identity) *Dataset {
	return newDataset(id, DataSetType, "DataSet",
		"Single point evaluations.", "A basic dataset using the energy driver.", "energy")
}

// NewOptimizationDataset makes an empty geometry-optimization dataset.
// The driver is pinned to gradient.
func NewOptimizationDataset(id Identity) *Dataset {
	return newDataset(id, OptimizationDatasetType, "OptimizationDataset",
		"Geometry optimizations.", "An optimization dataset using geometric.", "gradient")
}

// NewTorsionDriveDataset makes an empty torsion-scan dataset. Each entry
// is one drive over its selected dihedrals; conformers of the entry seed
// the scan.
func NewTorsionDriveDataset(id Identity) *Dataset {
	D := newDataset(id, TorsionDriveDatasetType, "TorsionDriveDataset",
		"Torsion drive scans.", "A torsiondrive dataset using geometric.", "gradient")
	D.GridSpacings = []int{15}
	D.EnergyUpperLimit = 0.05
	return D
}

// SetLogger installs a structured logger for filter and submission
// events. A nil logger disables them.
func (D *Dataset) SetLogger(log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	D.log = log
}

// SetIdentity installs the identity oracle. Needed after loading a
// dataset from file, since the oracle is runtime state and is never
// serialized.
func (D *Dataset) SetIdentity(id Identity) {
	D.id = id
}

// AddMolecule attempts to build an entry for the molecule under the
// given index and insert it. A schema-level failure does not abort the
// batch: the molecule is recorded in the filter ledger under the
// "SchemaIssues" stage and AddMolecule returns nil. Malformed constraint
// or torsion specifications propagate instead, leaving the dataset
// untouched.
func (D *Dataset) AddMolecule(index string, mol *Molecule, attributes map[string]string, extras, keywords map[string]interface{}, dihedrals ...[4]int) error {
	entry, err := NewEntry(index, mol, attributes, extras, keywords, dihedrals...)
	if err != nil {
		if _, schema := err.(*ValidationError); schema {
			D.log.Info("molecule filtered on schema grounds", zap.String("index", index), zap.Error(err))
			return D.FilterMolecules([]*Molecule{mol}, schemaIssuesStage,
				map[string]interface{}{
					"component_name":        schemaIssuesStage,
					"component_description": "The molecule was removed as a valid schema could not be made",
				}, D.Provenance)
		}
		return err
	}
	if entry.Attributes[AttrIdentityKey] == "" {
		key, kerr := D.id.Key(mol)
		if kerr != nil {
			return kerr
		}
		entry.Attributes[AttrIdentityKey] = key
	}
	if _, exists := D.Entries[index]; !exists {
		D.order = append(D.order, index)
	}
	D.Entries[index] = entry
	for el := range mol.Elements() {
		D.Metadata.Elements[el] = true
	}
	return nil
}

// FilterMolecules records the molecules as rejected by the named stage.
// Repeat filtering under one stage name extends the existing record.
func (D *Dataset) FilterMolecules(mols []*Molecule, stage string, description map[string]interface{}, provenance map[string]string) error {
	keys := make([]string, 0, len(mols))
	for _, mol := range mols {
		key, err := D.id.Key(mol)
		if err != nil {
			return err
		}
		keys = append(keys, key)
	}
	if record, ok := D.FilterLedger[stage]; ok {
		record.Molecules = append(record.Molecules, keys...)
		return nil
	}
	D.FilterLedger[stage] = &FilterRecord{
		Name:        stage,
		Description: description,
		Provenance:  provenance,
		Molecules:   keys,
	}
	return nil
}

// entryOrder returns the entry indices in insertion order, falling back
// to a sorted order for datasets loaded from file.
func (D *Dataset) entryOrder() []string {
	if len(D.order) == len(D.Entries) {
		return D.order
	}
	keys := make([]string, 0, len(D.Entries))
	for k := range D.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// EntryList returns the entries in deterministic order.
func (D *Dataset) EntryList() []*Entry {
	out := make([]*Entry, 0, len(D.Entries))
	for _, k := range D.entryOrder() {
		out = append(out, D.Entries[k])
	}
	return out
}

// GetMoleculeEntry searches the dataset for entries holding exactly this
// molecule, irrespective of atom ordering, and returns their indices.
func (D *Dataset) GetMoleculeEntry(mol *Molecule) ([]string, error) {
	key, err := D.id.Key(mol)
	if err != nil {
		return nil, err
	}
	var hits []string
	for _, entry := range D.EntryList() {
		ekey, kerr := D.entryKey(entry)
		if kerr != nil {
			return nil, kerr
		}
		if ekey == key {
			hits = append(hits, entry.Index)
		}
	}
	return hits, nil
}

// entryKey returns the order-invariant identity key of an entry, taking
// the stored attribute when present and recomputing it from the mapped
// serialization otherwise.
func (D *Dataset) entryKey(entry *Entry) (string, error) {
	if key := entry.Attributes[AttrIdentityKey]; key != "" {
		return key, nil
	}
	mol, err := D.id.FromKey(entry.Attributes[AttrCanonicalSmiles])
	if err != nil {
		return "", err
	}
	return D.id.Key(mol)
}

// NMolecules counts the unique molecules in the dataset. For plain
// datasets every entry is unique by construction; optimization and
// torsiondrive datasets may hold several entries per molecule, so the
// count collapses them by canonical identity.
func (D *Dataset) NMolecules() int {
	if D.Type == DataSetType {
		return len(D.Entries)
	}
	uniq := make(map[string]bool)
	for _, entry := range D.Entries {
		key, err := D.entryKey(entry)
		if err != nil {
			//an unreconstructable entry still occupies one slot
			key = entry.Attributes[AttrCanonicalSmiles]
		}
		uniq[key] = true
	}
	return len(uniq)
}

// NRecords counts the archive records submission would create: one per
// staged geometry, except for torsion drives, which submit one record
// per entry.
func (D *Dataset) NRecords() int {
	if D.Type == TorsionDriveDatasetType {
		return len(D.Entries)
	}
	total := 0
	for _, entry := range D.Entries {
		total += len(entry.InitialMolecules)
	}
	return total
}

// NConformers counts the geometries staged across all entries.
func (D *Dataset) NConformers() int {
	total := 0
	for _, entry := range D.Entries {
		total += len(entry.InitialMolecules)
	}
	return total
}

// NFiltered counts the molecules rejected across all filtering stages.
func (D *Dataset) NFiltered() int {
	total := 0
	for _, record := range D.FilterLedger {
		total += len(record.Molecules)
	}
	return total
}

// NComponents counts the filtering stages that ran while building this
// dataset.
func (D *Dataset) NComponents() int {
	return len(D.FilterLedger)
}

// Copy returns a deep copy of the dataset, sharing only the identity
// oracle and logger.
func (D *Dataset) Copy() *Dataset {
	newd := *D
	newd.SCFProperties = append([]string(nil), D.SCFProperties...)
	newd.Tags = append([]string(nil), D.Tags...)
	newd.GridSpacings = append([]int(nil), D.GridSpacings...)
	newd.DihedralRanges = append([][2]int(nil), D.DihedralRanges...)
	newd.Metadata = D.Metadata.Copy()
	newd.Provenance = make(map[string]string, len(D.Provenance))
	for k, v := range D.Provenance {
		newd.Provenance[k] = v
	}
	newd.Entries = make(map[string]*Entry, len(D.Entries))
	for k, v := range D.Entries {
		newd.Entries[k] = v.Copy()
	}
	newd.FilterLedger = make(map[string]*FilterRecord, len(D.FilterLedger))
	for k, v := range D.FilterLedger {
		newd.FilterLedger[k] = v.Copy()
	}
	newd.QCSpecs = make(map[string]*QCSpec, len(D.QCSpecs))
	for k, v := range D.QCSpecs {
		newd.QCSpecs[k] = v.Copy()
	}
	newd.order = append([]string(nil), D.order...)
	return &newd
}

// CleanIndex splits a trailing numeric tag off an entry index:
// "CCO-3" gives ("CCO", 3), "CCO" gives ("CCO", 0). Merges and staged
// submissions use the tag to disambiguate multiple records under one
// index root.
func CleanIndex(index string) (string, int) {
	cut := strings.LastIndex(index, "-")
	if cut == -1 {
		return index, 0
	}
	tag, err := strconv.Atoi(index[cut+1:])
	if err != nil {
		return index, 0
	}
	return index[:cut], tag
}
