/*
 * bonds.go, part of qcs.
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

// AssignBonds perceives bonds for the molecule from the geometry of its
// first conformer, based on a simple distance criterium similar to that
// described in DOI:10.1186/1758-2946-3-33. Existing bonds are replaced.
// It might get slow for large systems; it is not meant for proteins or
// macromolecules.
func AssignBonds(mol *Molecule) error {
	if mol.NConformers() == 0 {
		err := &ValidationError{Message: "cannot assign bonds to a molecule without conformers"}
		err.Decorate("AssignBonds")
		return err
	}
	coord := mol.Conformers[0]
	tot := mol.Len()
	bonds := make([]*Bond, 0, 10)
	for i := 0; i < tot; i++ {
		cov1 := symbolCovrad[mol.Atom(i).Symbol]
		if cov1 == 0 {
			err := &ValidationError{Message: fmt.Sprintf("couldn't find the covalent radius for %s %d", mol.Atom(i).Symbol, i)}
			err.Decorate("AssignBonds")
			return err
		}
		for j := i + 1; j < tot; j++ {
			cov2 := symbolCovrad[mol.Atom(j).Symbol]
			if cov2 == 0 {
				err := &ValidationError{Message: fmt.Sprintf("couldn't find the covalent radius for %s %d", mol.Atom(j).Symbol, j)}
				err.Decorate("AssignBonds")
				return err
			}
			d := atomDist(coord, i, j)
			if d < cov1+cov2+bondtol && d > tooclose {
				bonds = append(bonds, &Bond{At1: i, At2: j})
			}
		}
	}
	mol.Bonds = bonds
	return nil
}

func atomDist(coord *mat.Dense, i, j int) float64 {
	dx := coord.At(i, 0) - coord.At(j, 0)
	dy := coord.At(i, 1) - coord.At(j, 1)
	dz := coord.At(i, 2) - coord.At(j, 2)
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
