/*
 * errors.go, part of qcs.
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

// Error is the interface implemented by every error type in this library.
// The Decorate method allows adding information to an error as it is passed
// up the call stack, without changing its type or wrapping it. Each call
// returns the current decoration slice. Passing an empty string only
// retrieves the slice.
type Error interface {
	error
	Decorate(string) []string
}

// decoration is embedded by the concrete error types to share the
// Decorate bookkeeping.
type decoration struct {
	deco []string
}

func (d *decoration) Decorate(dec string) []string {
	if dec != "" {
		d.deco = append(d.deco, dec)
	}
	return d.deco
}

// ValidationError covers schema-level problems with a single candidate
// molecule or entry: missing canonical attributes, malformed geometry
// records, failed conformer synthesis. Dataset.AddMolecule recovers from
// these by routing the molecule into the filter ledger.
type ValidationError struct {
	decoration
	Message string
}

func (err *ValidationError) Error() string { return err.Message }

// ConstraintError signals a malformed geometric constraint: wrong index
// arity for its type, out of range or repeated atom indices, or a missing
// value on a set-type constraint. It propagates to the caller.
type ConstraintError struct {
	decoration
	Message string
}

func (err *ConstraintError) Error() string { return err.Message }

// DihedralConnectionError signals a requested torsion that is neither a
// connected proper torsion nor a valid improper, or that is linear. It
// propagates: a bad torsion selection is a caller logic error, not routine
// data noise.
type DihedralConnectionError struct {
	decoration
	Torsion [4]int
	Message string
}

func (err *DihedralConnectionError) Error() string { return err.Message }

// DatasetCombinationError fires when two datasets of different declared
// types are combined. No partial merge takes place.
type DatasetCombinationError struct {
	decoration
	Message string
}

func (err *DatasetCombinationError) Error() string { return err.Message }

// DatasetInputError signals missing or invalid dataset-level metadata
// detected before submission.
type DatasetInputError struct {
	decoration
	Message string
}

func (err *DatasetInputError) Error() string { return err.Message }

// MissingBasisCoverageError fires before any archive interaction when a
// compute specification's basis does not cover every element in the
// dataset.
type MissingBasisCoverageError struct {
	decoration
	Missing map[string][]string //spec name -> uncovered element symbols
}

func (err *MissingBasisCoverageError) Error() string {
	return fmt.Sprintf("the selected basis sets do not cover all elements in the dataset: %v", err.Missing)
}

// UnsupportedFiletypeError fires on export or visualization calls with a
// file extension this library cannot produce.
type UnsupportedFiletypeError struct {
	decoration
	Filetype string
}

func (err *UnsupportedFiletypeError) Error() string {
	return fmt.Sprintf("the requested file type %q is not supported", err.Filetype)
}

// IntegrityError signals a violated internal invariant, such as two
// molecules sharing a canonical key while the alignment oracle reports
// them as non-isomorphic. There is no recovery path.
type IntegrityError struct {
	decoration
	Message string
}

func (err *IntegrityError) Error() string { return err.Message }
