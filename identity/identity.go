/*
 * identity.go, part of qcs.
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

// Package identity implements the canonical-identity and isomorphism
// capabilities behind molecular deduplication: an order-invariant key for
// a molecular topology, an atom-index alignment between isomorphic
// molecules, and reconstruction of a topology from its key. The key is
// computed by iterative color refinement over the bond graph followed by
// an exhaustive tie break, so equal keys imply isomorphic graphs for the
// structures this refinement distinguishes. Deployments with toolkit
// access can swap in an adapter satisfying qcs.Identity instead.
package identity

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	qcs "github.com/goqcs/qcs"
)

const keyPrefix = "QCS1"

// Error is the identity failure type. It implements the qcs Error
// contract.
type Error struct {
	Message string
	deco    []string
}

func (err *Error) Error() string { return err.Message }

// Decorate adds dec to the error decoration slice and returns the slice.
// An empty string only retrieves the current value.
func (err *Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

// Oracle is the default, stateless implementation of qcs.Identity.
type Oracle struct{}

// New returns a ready-to-use Oracle.
func New() *Oracle {
	return &Oracle{}
}

// Key returns the canonical identity string of mol. It fails on an empty
// molecule, the only topology this scheme cannot canonicalize.
func (O *Oracle) Key(mol *qcs.Molecule) (string, error) {
	if mol == nil || mol.Len() == 0 {
		err := &Error{Message: "cannot canonicalize an empty molecule"}
		err.Decorate("Key")
		return "", err
	}
	order := canonicalOrder(mol)
	return serialize(mol, order), nil
}

// MappedKey serializes mol in its current atom order, so that FromKey
// rebuilds a molecule with the identical atom numbering.
func (O *Oracle) MappedKey(mol *qcs.Molecule) (string, error) {
	if mol == nil || mol.Len() == 0 {
		err := &Error{Message: "cannot serialize an empty molecule"}
		err.Decorate("MappedKey")
		return "", err
	}
	order := make([]int, mol.Len())
	for i := range order {
		order[i] = i
	}
	return serialize(mol, order), nil
}

// Align returns an atom-index mapping from a onto b if the molecules are
// isomorphic (same elements, charges and bond structure up to
// relabeling). Non-isomorphism is a normal outcome, not an error.
func (O *Oracle) Align(a, b *qcs.Molecule) (map[int]int, bool) {
	if a == nil || b == nil || a.Len() != b.Len() || len(a.Bonds) != len(b.Bonds) {
		return nil, false
	}
	colors := refine([]*qcs.Molecule{a, b})
	return match(a, b, colors[0], colors[1])
}

// FromKey rebuilds the topology encoded in a canonical key: atoms with
// their formal charges, and bonds with their orders. No geometry.
func (O *Oracle) FromKey(key string) (*qcs.Molecule, error) {
	parts := strings.Split(key, ";")
	if len(parts) != 3 || parts[0] != keyPrefix {
		err := &Error{Message: fmt.Sprintf("malformed identity key %q", key)}
		err.Decorate("FromKey")
		return nil, err
	}
	var atoms []*qcs.Atom
	for _, tok := range strings.Split(parts[1], "|") {
		if tok == "" {
			continue
		}
		fields := strings.Split(tok, ":")
		if len(fields) != 2 {
			err := &Error{Message: fmt.Sprintf("malformed atom token %q in identity key", tok)}
			err.Decorate("FromKey")
			return nil, err
		}
		charge, cerr := strconv.ParseFloat(fields[1], 64)
		if cerr != nil {
			err := &Error{Message: fmt.Sprintf("malformed charge in atom token %q: %v", tok, cerr)}
			err.Decorate("FromKey")
			return nil, err
		}
		atoms = append(atoms, &qcs.Atom{Symbol: fields[0], Charge: charge})
	}
	var bonds []*qcs.Bond
	if parts[2] != "" {
		for _, tok := range strings.Split(parts[2], "|") {
			var at1, at2 int
			var order float64
			if _, serr := fmt.Sscanf(tok, "%d-%d:%g", &at1, &at2, &order); serr != nil {
				err := &Error{Message: fmt.Sprintf("malformed bond token %q in identity key", tok)}
				err.Decorate("FromKey")
				return nil, err
			}
			bonds = append(bonds, &qcs.Bond{At1: at1, At2: at2, Order: order})
		}
	}
	mol, merr := qcs.NewMolecule(atoms, bonds)
	if merr != nil {
		err := &Error{Message: merr.Error()}
		err.Decorate("FromKey")
		return nil, err
	}
	return mol, nil
}

// serialize writes the molecule in the atom order given by order, where
// order[new] = old.
func serialize(mol *qcs.Molecule, order []int) string {
	n := mol.Len()
	inv := make([]int, n) //inv[old] = new
	for newi, oldi := range order {
		inv[oldi] = newi
	}
	atoms := make([]string, n)
	for newi, oldi := range order {
		at := mol.Atom(oldi)
		atoms[newi] = at.Symbol + ":" + strconv.FormatFloat(at.Charge, 'g', -1, 64)
	}
	bonds := make([]string, 0, len(mol.Bonds))
	for _, b := range mol.Bonds {
		i, j := inv[b.At1], inv[b.At2]
		if i > j {
			i, j = j, i
		}
		bonds = append(bonds, fmt.Sprintf("%d-%d:%s", i, j, strconv.FormatFloat(b.Order, 'g', -1, 64)))
	}
	sort.Strings(bonds)
	return keyPrefix + ";" + strings.Join(atoms, "|") + ";" + strings.Join(bonds, "|")
}
