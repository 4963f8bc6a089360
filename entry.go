/*
 * entry.go, part of qcs.
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
	"math"

	"gonum.org/v1/gonum/mat"
)

//a torsion straighter than this is considered linear and cannot be driven
const linearLimit = 175.0 * math.Pi / 180.0

// Geometry is one staged conformer of an entry: flat row-major Nx3
// coordinates in Angstrom plus the extras passed through to the archive.
// Every geometry of an entry carries the entry's canonical identity
// string in its extras.
type Geometry struct {
	Coords []float64              `json:"coords" yaml:"coords"`
	Extras map[string]interface{} `json:"extras,omitempty" yaml:"extras,omitempty"`
}

// Copy returns a deep copy of the geometry record.
func (G *Geometry) Copy() *Geometry {
	newg := new(Geometry)
	newg.Coords = append([]float64(nil), G.Coords...)
	newg.Extras = make(map[string]interface{}, len(G.Extras))
	for k, v := range G.Extras {
		newg.Extras[k] = v
	}
	return newg
}

// Equal compares coordinates for an exact floating point match. Kept
// exact, not tolerance based, for archive compatibility; a geometry
// differing by rounding only counts as new.
func (G *Geometry) Equal(other *Geometry) bool {
	if len(G.Coords) != len(other.Coords) {
		return false
	}
	for i, v := range G.Coords {
		if other.Coords[i] != v {
			return false
		}
	}
	return true
}

// Matrix returns the coordinates as an Nx3 matrix.
func (G *Geometry) Matrix() (*mat.Dense, error) {
	if len(G.Coords)%3 != 0 {
		err := &ValidationError{Message: fmt.Sprintf("geometry holds %d coordinates, not a multiple of 3", len(G.Coords))}
		err.Decorate("Matrix")
		return nil, err
	}
	return mat.NewDense(len(G.Coords)/3, 3, append([]float64(nil), G.Coords...)), nil
}

func geometryFromConformer(conf *mat.Dense, extras map[string]interface{}) *Geometry {
	r, _ := conf.Dims()
	g := &Geometry{Coords: make([]float64, 0, r*3), Extras: extras}
	for i := 0; i < r; i++ {
		g.Coords = append(g.Coords, conf.At(i, 0), conf.At(i, 1), conf.At(i, 2))
	}
	return g
}

// Entry is one unique-molecule submission record: the canonical
// attributes of the molecule, its staged geometries, an optional torsion
// selection and the constraints under which it will be computed. Entries
// are built once, validated at construction, and only ever grow new
// geometries through dataset merges.
type Entry struct {
	Index            string                 `json:"index" yaml:"index"`
	Attributes       map[string]string      `json:"attributes" yaml:"attributes"`
	InitialMolecules []*Geometry            `json:"initial_molecules" yaml:"initial_molecules"`
	Dihedrals        [][4]int               `json:"dihedrals,omitempty" yaml:"dihedrals,omitempty"`
	Constraints      *ConstraintSet         `json:"constraints,omitempty" yaml:"constraints,omitempty"`
	Keywords         map[string]interface{} `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Extras           map[string]interface{} `json:"extras,omitempty" yaml:"extras,omitempty"`
}

// NewEntry builds and validates a dataset entry for the given molecule.
// The molecule is never mutated; if it carries no conformers one is
// synthesized through DefaultConformers. Schema problems (missing
// canonical attributes, broken geometry) come back as *ValidationError;
// malformed constraints as *ConstraintError; torsion selections that are
// linear or not connected as *DihedralConnectionError. The two latter
// kinds indicate caller logic errors and must not be swallowed.
func NewEntry(index string, mol *Molecule, attributes map[string]string, extras, keywords map[string]interface{}, dihedrals ...[4]int) (*Entry, error) {
	if attributes == nil || attributes[AttrCanonicalSmiles] == "" {
		err := &ValidationError{Message: fmt.Sprintf("the attributes for entry %q are missing the canonical mapped identity", index)}
		err.Decorate("NewEntry")
		return nil, err
	}
	if mol == nil {
		err := &ValidationError{Message: fmt.Sprintf("no molecule supplied for entry %q", index)}
		err.Decorate("NewEntry")
		return nil, err
	}
	E := new(Entry)
	E.Index = index
	E.Attributes = make(map[string]string, len(attributes))
	for k, v := range attributes {
		E.Attributes[k] = v
	}
	E.Extras = make(map[string]interface{}, len(extras))
	for k, v := range extras {
		E.Extras[k] = v
	}
	E.Keywords = make(map[string]interface{}, len(keywords))
	for k, v := range keywords {
		E.Keywords[k] = v
	}
	E.Constraints = NewConstraintSet()

	//constraints embedded in the keywords are promoted to the dedicated
	//field before validation
	if raw, ok := E.Keywords["constraints"]; ok {
		cs, err := constraintSetFromKeywords(raw)
		if err != nil {
			return nil, err
		}
		E.Constraints = cs
		delete(E.Keywords, "constraints")
	}

	work := mol.Copy()
	if work.NConformers() == 0 {
		if err := DefaultConformers.Generate(work, 1); err != nil {
			verr := &ValidationError{Message: fmt.Sprintf("conformer synthesis failed for entry %q: %v", index, err)}
			verr.Decorate("NewEntry")
			return nil, verr
		}
	}
	for _, conf := range work.Conformers {
		g := geometryFromConformer(conf, E.geometryExtras())
		if err := checkGeometry(g); err != nil {
			return nil, err
		}
		E.InitialMolecules = append(E.InitialMolecules, g)
	}

	if err := E.Constraints.Validate(work); err != nil {
		return nil, err
	}

	for _, torsion := range dihedrals {
		if err := checkLinearTorsion(torsion, work); err != nil {
			return nil, err
		}
		if err := checkTorsionConnection(torsion, work); err != nil {
			if err := checkImproperConnection(torsion, work); err != nil {
				derr := &DihedralConnectionError{
					Torsion: torsion,
					Message: fmt.Sprintf("the dihedral %v for the molecule of entry %q is not a valid proper/improper torsion", torsion, index),
				}
				derr.Decorate("NewEntry")
				return nil, derr
			}
		}
		E.Dihedrals = append(E.Dihedrals, torsion)
	}
	return E, nil
}

// geometryExtras builds the extras map stamped onto each geometry: the
// entry extras plus the canonical identity string.
func (E *Entry) geometryExtras() map[string]interface{} {
	ex := make(map[string]interface{}, len(E.Extras)+1)
	for k, v := range E.Extras {
		ex[k] = v
	}
	ex[AttrCanonicalSmiles] = E.Attributes[AttrCanonicalSmiles]
	return ex
}

func checkGeometry(g *Geometry) error {
	for i, v := range g.Coords {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			err := &ValidationError{Message: fmt.Sprintf("geometry coordinate %d is not a finite number", i)}
			err.Decorate("checkGeometry")
			return err
		}
	}
	return nil
}

func torsionIndicesSane(torsion [4]int, mol *Molecule) error {
	seen := make(map[int]bool, 4)
	for _, i := range torsion {
		if i < 0 || i >= mol.Len() {
			return &DihedralConnectionError{
				Torsion: torsion,
				Message: fmt.Sprintf("the dihedral %v references atom %d, not present in the %d-atom molecule", torsion, i, mol.Len()),
			}
		}
		if seen[i] {
			return &DihedralConnectionError{
				Torsion: torsion,
				Message: fmt.Sprintf("the dihedral %v repeats atom %d", torsion, i),
			}
		}
		seen[i] = true
	}
	return nil
}

// checkLinearTorsion rejects torsions whose bond angles at either central
// atom are straight in the first conformer; a linear torsion cannot be
// driven.
func checkLinearTorsion(torsion [4]int, mol *Molecule) error {
	if err := torsionIndicesSane(torsion, mol); err != nil {
		err.(*DihedralConnectionError).Decorate("checkLinearTorsion")
		return err
	}
	if mol.NConformers() == 0 {
		return nil
	}
	coord := mol.Conformers[0]
	for _, trio := range [][3]int{{torsion[0], torsion[1], torsion[2]}, {torsion[1], torsion[2], torsion[3]}} {
		if BondAngle(coord, trio[0], trio[1], trio[2]) >= linearLimit {
			err := &DihedralConnectionError{
				Torsion: torsion,
				Message: fmt.Sprintf("the dihedral %v is linear at atoms %v and cannot be driven", torsion, trio),
			}
			err.Decorate("checkLinearTorsion")
			return err
		}
	}
	return nil
}

// checkTorsionConnection verifies the proper-torsion chain: atoms 0-1,
// 1-2 and 2-3 must each share a bond.
func checkTorsionConnection(torsion [4]int, mol *Molecule) error {
	for i := 0; i < 3; i++ {
		if !mol.Bonded(torsion[i], torsion[i+1]) {
			err := &DihedralConnectionError{
				Torsion: torsion,
				Message: fmt.Sprintf("atoms %d and %d of the dihedral %v are not bonded", torsion[i], torsion[i+1], torsion),
			}
			err.Decorate("checkTorsionConnection")
			return err
		}
	}
	return nil
}

// checkImproperConnection verifies the improper shape: the central atom
// at position 1 must be bonded to the other three.
func checkImproperConnection(improper [4]int, mol *Molecule) error {
	for _, i := range []int{0, 2, 3} {
		if !mol.Bonded(improper[1], improper[i]) {
			err := &DihedralConnectionError{
				Torsion: improper,
				Message: fmt.Sprintf("central atom %d of the improper %v is not bonded to atom %d", improper[1], improper, improper[i]),
			}
			err.Decorate("checkImproperConnection")
			return err
		}
	}
	return nil
}

// Molecule rebuilds the working molecule of the entry from its canonical
// attributes, attaching every staged geometry as a conformer.
func (E *Entry) Molecule(id Identity) (*Molecule, error) {
	mol, err := id.FromKey(E.Attributes[AttrCanonicalSmiles])
	if err != nil {
		return nil, err
	}
	for _, g := range E.InitialMolecules {
		conf, merr := g.Matrix()
		if merr != nil {
			return nil, merr
		}
		if aerr := mol.AddConformer(conf); aerr != nil {
			return nil, aerr
		}
	}
	return mol, nil
}

// Copy returns a deep copy of the entry.
func (E *Entry) Copy() *Entry {
	newe := new(Entry)
	newe.Index = E.Index
	newe.Attributes = make(map[string]string, len(E.Attributes))
	for k, v := range E.Attributes {
		newe.Attributes[k] = v
	}
	for _, g := range E.InitialMolecules {
		newe.InitialMolecules = append(newe.InitialMolecules, g.Copy())
	}
	newe.Dihedrals = append([][4]int(nil), E.Dihedrals...)
	newe.Constraints = E.Constraints.Copy()
	newe.Keywords = make(map[string]interface{}, len(E.Keywords))
	for k, v := range E.Keywords {
		newe.Keywords[k] = v
	}
	newe.Extras = make(map[string]interface{}, len(E.Extras))
	for k, v := range E.Extras {
		newe.Extras[k] = v
	}
	return newe
}

// AddConstraint adds a new constraint of the given kind ("freeze" or
// "set") and type to the entry. Set constraints read their target from
// value. The indices are checked against the entry's atom count, so a
// validated entry stays valid.
func (E *Entry) AddConstraint(kind, ctype string, value float64, indices ...int) error {
	if E.Constraints == nil {
		E.Constraints = NewConstraintSet()
	}
	natoms := 0
	if len(E.InitialMolecules) > 0 {
		natoms = len(E.InitialMolecules[0].Coords) / 3
	}
	for _, i := range indices {
		if i < 0 || i >= natoms {
			err := &ConstraintError{Message: fmt.Sprintf("the %s constraint references atom %d, not present in the %d-atom molecule of entry %q", ctype, i, natoms, E.Index)}
			err.Decorate("AddConstraint")
			return err
		}
	}
	switch kind {
	case "freeze":
		return E.Constraints.AddFreeze(ctype, indices...)
	case "set":
		return E.Constraints.AddSet(ctype, value, indices...)
	default:
		err := &ConstraintError{Message: fmt.Sprintf("the constraint kind %q is not available, choose from freeze or set", kind)}
		err.Decorate("AddConstraint")
		return err
	}
}

// FormattedKeywords returns the entry keywords with the constraints
// folded back in, the shape the archive expects.
func (E *Entry) FormattedKeywords() map[string]interface{} {
	kw := make(map[string]interface{}, len(E.Keywords)+1)
	for k, v := range E.Keywords {
		kw[k] = v
	}
	if E.Constraints.HasConstraints() {
		kw["constraints"] = E.Constraints.Copy()
	}
	return kw
}

// addGeometry appends a geometry unless an exactly equal one is already
// staged. Reports whether the geometry was added.
func (E *Entry) addGeometry(g *Geometry) bool {
	for _, old := range E.InitialMolecules {
		if old.Equal(g) {
			return false
		}
	}
	E.InitialMolecules = append(E.InitialMolecules, g)
	return true
}
