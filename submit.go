/*
 * submit.go, part of qcs.
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
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// QCSpec names one level of theory to run the dataset under: a method
// and basis for a given program, plus storage options.
type QCSpec struct {
	SpecName          string `json:"spec_name" yaml:"spec_name"`
	Method            string `json:"method" yaml:"method"`
	Basis             string `json:"basis,omitempty" yaml:"basis,omitempty"`
	Program           string `json:"program" yaml:"program"`
	SpecDescription   string `json:"spec_description" yaml:"spec_description"`
	StoreWavefunction bool   `json:"store_wavefunction,omitempty" yaml:"store_wavefunction,omitempty"`
}

// Copy returns a copy of the spec.
func (Q *QCSpec) Copy() *QCSpec {
	newq := *Q
	return &newq
}

// AddQCSpec registers a computation spec under its name. Names must be
// unique within a dataset.
func (D *Dataset) AddQCSpec(spec *QCSpec) error {
	if spec == nil || spec.SpecName == "" {
		err := &DatasetInputError{Message: "a qc specification needs a non-empty name"}
		err.Decorate("AddQCSpec")
		return err
	}
	if _, taken := D.QCSpecs[spec.SpecName]; taken {
		err := &DatasetInputError{Message: fmt.Sprintf("a specification is already stored under the name %q, choose another name or clear the specs first", spec.SpecName)}
		err.Decorate("AddQCSpec")
		return err
	}
	D.QCSpecs[spec.SpecName] = spec.Copy()
	return nil
}

// ClearQCSpecs removes every registered computation spec.
func (D *Dataset) ClearQCSpecs() {
	D.QCSpecs = make(map[string]*QCSpec)
}

// CheckQCSpecs fails when the dataset has no specs to submit under, or
// when any registered spec is missing its method or program.
func (D *Dataset) CheckQCSpecs() error {
	if len(D.QCSpecs) == 0 {
		err := &DatasetInputError{Message: "there are no computation specs registered, add at least one before submitting"}
		err.Decorate("CheckQCSpecs")
		return err
	}
	for name, spec := range D.QCSpecs {
		if spec.Method == "" || spec.Program == "" {
			err := &DatasetInputError{Message: fmt.Sprintf("the spec %q is incomplete: both method and program are required", name)}
			err.Decorate("CheckQCSpecs")
			return err
		}
	}
	return nil
}

// ComputeResponse reports the outcome of one compute request: the record
// ids the archive assigned, and how many were newly created versus
// already present.
type ComputeResponse struct {
	IDs       []string
	Submitted int
	Existing  int
}

// Client is the narrow surface of the archive this library submits
// through. Implementations wrap a live connection; tests use an
// in-memory fake. All methods must be idempotent with respect to
// re-submission of the same payload.
type Client interface {
	//AddEntries stages the named records of a dataset on the archive.
	AddEntries(datasetName, datasetType string, entries []*Entry) error
	//AddCompute requests computation of every staged record of the
	//dataset under the given spec.
	AddCompute(datasetName string, spec *QCSpec) (*ComputeResponse, error)
	//StoreKeywords persists a keyword set under an alias, replacing any
	//previous set stored under it.
	StoreKeywords(alias string, keywords map[string]interface{}) error
}

// CoverageFunc reports which of the given elements a program cannot
// treat. Elements arrive sorted; the returned slice holds the uncovered
// subset, empty when the program covers everything asked of it.
type CoverageFunc func(method string, elements []string) []string

// BasisCoverage maps a program name to its element-coverage check.
// Programs absent from the registry are assumed to cover everything;
// register a func to make a program's limits known. The built-in tables
// cover the ANI model chemistries, the openmm force-field elements, and
// the unrestricted rdkit and xtb programs.
var BasisCoverage = map[string]CoverageFunc{
	"torchani": aniCoverage,
	"openmm":   tableCoverage("C", "H", "N", "O", "P", "S", "Cl", "Br", "F", "I"),
	"rdkit":    coverAll,
	"xtb":      coverAll,
}

func coverAll(method string, elements []string) []string { return nil }

func tableCoverage(covered ...string) CoverageFunc {
	table := make(map[string]bool, len(covered))
	for _, el := range covered {
		table[el] = true
	}
	return func(method string, elements []string) []string {
		var missing []string
		for _, el := range elements {
			if !table[el] {
				missing = append(missing, el)
			}
		}
		return missing
	}
}

// aniCoverage dispatches on the ANI generation named by the method. The
// first-generation potentials only treat CHNO; ani2x adds S, F and Cl.
func aniCoverage(method string, elements []string) []string {
	switch strings.ToLower(method) {
	case "ani2x":
		return tableCoverage("C", "H", "N", "O", "S", "F", "Cl")(method, elements)
	default:
		return tableCoverage("C", "H", "N", "O")(method, elements)
	}
}

// MissingBasisCoverage reports, per registered spec, the dataset
// elements its program cannot treat. Specs with full coverage map to an
// empty slice.
func (D *Dataset) MissingBasisCoverage() map[string][]string {
	elements := make([]string, 0, len(D.Metadata.Elements))
	for el := range D.Metadata.Elements {
		elements = append(elements, el)
	}
	sort.Strings(elements)
	out := make(map[string][]string, len(D.QCSpecs))
	for name, spec := range D.QCSpecs {
		cover, known := BasisCoverage[strings.ToLower(spec.Program)]
		if !known {
			out[name] = nil
			continue
		}
		out[name] = cover(spec.Method, elements)
	}
	return out
}

// Submit stages the dataset on the archive through the client and
// requests computation under every registered spec. Before touching the
// client it validates the metadata, the specs and the basis coverage;
// an element outside a spec's reach aborts the submission with a
// MissingBasisCoverageError unless ignoreErrors is set, in which case
// the gap is only logged. The keyword set of every entry is stored
// first, then records are staged according to the dataset type: one
// record per geometry for single points and optimizations, with index
// tags disambiguating multiple geometries of one entry, and one record
// per entry for torsion drives. The returned map holds one compute
// response per spec name.
func (D *Dataset) Submit(client Client, ignoreErrors bool) (map[string]*ComputeResponse, error) {
	if client == nil {
		err := &DatasetInputError{Message: "cannot submit without a client"}
		err.Decorate("Submit")
		return nil, err
	}
	if err := D.Metadata.Validate(); err != nil {
		return nil, err
	}
	if err := D.CheckQCSpecs(); err != nil {
		return nil, err
	}
	missing := D.MissingBasisCoverage()
	for name, gap := range missing {
		if len(gap) == 0 {
			continue
		}
		if !ignoreErrors {
			err := &MissingBasisCoverageError{Missing: missing}
			err.Decorate("Submit")
			return nil, err
		}
		D.log.Warn("submitting despite a basis coverage gap", zap.String("spec", name), zap.Strings("elements", gap))
	}
	staged, err := D.stageEntries()
	if err != nil {
		return nil, err
	}
	for _, entry := range staged {
		kw := entry.FormattedKeywords()
		if len(kw) == 0 {
			continue
		}
		if kerr := client.StoreKeywords(entry.Index, kw); kerr != nil {
			return nil, kerr
		}
	}
	if err := client.AddEntries(D.Name, D.Type, staged); err != nil {
		return nil, err
	}
	responses := make(map[string]*ComputeResponse, len(D.QCSpecs))
	for name, spec := range D.QCSpecs {
		resp, cerr := client.AddCompute(D.Name, spec)
		if cerr != nil {
			return nil, cerr
		}
		D.log.Info("compute requested",
			zap.String("spec", name),
			zap.Int("submitted", resp.Submitted),
			zap.Int("existing", resp.Existing))
		responses[name] = resp
	}
	//stamped only once everything went through, so a failed submission
	//leaves the dataset as it was
	D.Provenance["submission_uuid"] = uuid.NewString()
	return responses, nil
}

// stageEntries flattens the dataset into the records the archive will
// hold. Torsion drives submit whole entries; the other types split an
// entry into one record per geometry, tagging the indices so that
// records of one molecule stay distinguishable.
func (D *Dataset) stageEntries() ([]*Entry, error) {
	if D.Type == TorsionDriveDatasetType {
		staged := make([]*Entry, 0, len(D.Entries))
		for _, entry := range D.EntryList() {
			staged = append(staged, entry.Copy())
		}
		return staged, nil
	}
	var staged []*Entry
	for _, entry := range D.EntryList() {
		if len(entry.InitialMolecules) <= 1 {
			staged = append(staged, entry.Copy())
			continue
		}
		core, tag := CleanIndex(entry.Index)
		for i, geom := range entry.InitialMolecules {
			record := entry.Copy()
			record.Index = fmt.Sprintf("%s-%d", core, tag+i)
			record.InitialMolecules = []*Geometry{geom.Copy()}
			staged = append(staged, record)
		}
	}
	return staged, nil
}
