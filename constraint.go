/*
 * constraint.go, part of qcs.
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
	"encoding/json"
	"fmt"
)

// Constraint types and the number of atom indices each takes.
var constraintArity = map[string]int{
	"distance": 2,
	"angle":    3,
	"dihedral": 4,
	"xyz":      1,
}

// Constraint is a single geometric restriction applied during an
// optimization: a distance, angle, dihedral or atom position, either
// frozen at its current value or set to Value.
type Constraint struct {
	Type    string   `json:"type" yaml:"type"`
	Indices []int    `json:"indices" yaml:"indices"`
	Value   *float64 `json:"value,omitempty" yaml:"value,omitempty"`
}

// Copy returns a copy of the Constraint object.
func (C *Constraint) Copy() *Constraint {
	newc := new(Constraint)
	newc.Type = C.Type
	newc.Indices = append([]int(nil), C.Indices...)
	if C.Value != nil {
		v := *C.Value
		newc.Value = &v
	}
	return newc
}

// Equal is structural equality: type, indices in order, and value.
func (C *Constraint) Equal(other *Constraint) bool {
	if C.Type != other.Type || len(C.Indices) != len(other.Indices) {
		return false
	}
	for i, v := range C.Indices {
		if other.Indices[i] != v {
			return false
		}
	}
	if (C.Value == nil) != (other.Value == nil) {
		return false
	}
	if C.Value != nil && *C.Value != *other.Value {
		return false
	}
	return true
}

// ConstraintSet is the ordered collection of freeze and set constraints
// attached to an Entry.
type ConstraintSet struct {
	Freeze []*Constraint `json:"freeze,omitempty" yaml:"freeze,omitempty"`
	Set    []*Constraint `json:"set,omitempty" yaml:"set,omitempty"`
}

// NewConstraintSet returns an empty constraint set.
func NewConstraintSet() *ConstraintSet {
	return &ConstraintSet{}
}

func checkConstraint(ctype string, indices []int, value *float64) error {
	arity, ok := constraintArity[ctype]
	if !ok {
		return &ConstraintError{Message: fmt.Sprintf("the constraint type %q is not available, choose from distance, angle, dihedral or xyz", ctype)}
	}
	if len(indices) != arity {
		return &ConstraintError{Message: fmt.Sprintf("a %s constraint takes %d atom indices, got %d", ctype, arity, len(indices))}
	}
	seen := make(map[int]bool, len(indices))
	for _, i := range indices {
		if seen[i] {
			return &ConstraintError{Message: fmt.Sprintf("the constraint indices %v repeat atom %d", indices, i)}
		}
		seen[i] = true
	}
	return nil
}

// AddFreeze appends a freeze constraint of the given type.
func (CS *ConstraintSet) AddFreeze(ctype string, indices ...int) error {
	if err := checkConstraint(ctype, indices, nil); err != nil {
		err.(*ConstraintError).Decorate("AddFreeze")
		return err
	}
	CS.Freeze = append(CS.Freeze, &Constraint{Type: ctype, Indices: indices})
	return nil
}

// AddSet appends a set constraint of the given type fixing it at value.
func (CS *ConstraintSet) AddSet(ctype string, value float64, indices ...int) error {
	if err := checkConstraint(ctype, indices, &value); err != nil {
		err.(*ConstraintError).Decorate("AddSet")
		return err
	}
	CS.Set = append(CS.Set, &Constraint{Type: ctype, Indices: indices, Value: &value})
	return nil
}

// HasConstraints reports whether the set holds any constraint at all.
func (CS *ConstraintSet) HasConstraints() bool {
	return CS != nil && (len(CS.Freeze) > 0 || len(CS.Set) > 0)
}

// Copy returns a deep copy of the set. A nil set copies to an empty one.
func (CS *ConstraintSet) Copy() *ConstraintSet {
	newcs := NewConstraintSet()
	if CS == nil {
		return newcs
	}
	for _, c := range CS.Freeze {
		newcs.Freeze = append(newcs.Freeze, c.Copy())
	}
	for _, c := range CS.Set {
		newcs.Set = append(newcs.Set, c.Copy())
	}
	return newcs
}

// Equal compares two sets structurally, ignoring the order in which
// constraints were added. A nil set equals an empty one.
func (CS *ConstraintSet) Equal(other *ConstraintSet) bool {
	if CS.HasConstraints() != other.HasConstraints() {
		return false
	}
	if CS == nil || other == nil {
		return true
	}
	return sameConstraints(CS.Freeze, other.Freeze) && sameConstraints(CS.Set, other.Set)
}

func sameConstraints(a, b []*Constraint) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
outer:
	for _, ca := range a {
		for i, cb := range b {
			if !used[i] && ca.Equal(cb) {
				used[i] = true
				continue outer
			}
		}
		return false
	}
	return true
}

// Remap returns a copy of the set with every atom index passed through
// the permutation m. Indices missing from the mapping are an error.
func (CS *ConstraintSet) Remap(m map[int]int) (*ConstraintSet, error) {
	newcs := CS.Copy()
	for _, group := range [][]*Constraint{newcs.Freeze, newcs.Set} {
		for _, c := range group {
			for i, idx := range c.Indices {
				mapped, ok := m[idx]
				if !ok {
					err := &ConstraintError{Message: fmt.Sprintf("atom index %d of a %s constraint is missing from the atom mapping", idx, c.Type)}
					err.Decorate("Remap")
					return nil, err
				}
				c.Indices[i] = mapped
			}
		}
	}
	return newcs, nil
}

// Validate checks every constraint against the molecule it will restrict:
// indices must reference existing atoms and set constraints must carry a
// value.
func (CS *ConstraintSet) Validate(mol *Molecule) error {
	if CS == nil {
		return nil
	}
	for _, c := range CS.Freeze {
		if err := validateAgainst(c, mol, false); err != nil {
			return err
		}
	}
	for _, c := range CS.Set {
		if err := validateAgainst(c, mol, true); err != nil {
			return err
		}
	}
	return nil
}

func validateAgainst(c *Constraint, mol *Molecule, needsValue bool) error {
	if err := checkConstraint(c.Type, c.Indices, c.Value); err != nil {
		err.(*ConstraintError).Decorate("Validate")
		return err
	}
	if needsValue && c.Value == nil {
		err := &ConstraintError{Message: fmt.Sprintf("the set constraint %v on atoms %v requires a value", c.Type, c.Indices)}
		err.Decorate("Validate")
		return err
	}
	for _, i := range c.Indices {
		if i < 0 || i >= mol.Len() {
			err := &ConstraintError{Message: fmt.Sprintf("the %s constraint references atom %d, not present in the %d-atom molecule", c.Type, i, mol.Len())}
			err.Decorate("Validate")
			return err
		}
	}
	return nil
}

// constraintSetFromKeywords promotes an embedded constraints structure
// out of an entry keyword map. It accepts either a typed *ConstraintSet
// or the generic map shape a JSON or YAML load produces.
func constraintSetFromKeywords(v interface{}) (*ConstraintSet, error) {
	if cs, ok := v.(*ConstraintSet); ok {
		return cs.Copy(), nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		verr := &ValidationError{Message: fmt.Sprintf("cannot interpret the embedded constraints structure: %v", err)}
		verr.Decorate("constraintSetFromKeywords")
		return nil, verr
	}
	cs := NewConstraintSet()
	if err := json.Unmarshal(raw, cs); err != nil {
		verr := &ValidationError{Message: fmt.Sprintf("cannot interpret the embedded constraints structure: %v", err)}
		verr.Decorate("constraintSetFromKeywords")
		return nil, verr
	}
	return cs, nil
}
