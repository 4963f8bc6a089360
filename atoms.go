/*
 * atoms.go, part of qcs.
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

// Atom holds the per-atom information of a molecule, except for the
// coordinates, which live in the conformer matrices of the Molecule.
type Atom struct {
	Symbol string  `json:"symbol"`
	Charge float64 `json:"charge,omitempty"`
}

// Copy returns a copy of the Atom object.
func (A *Atom) Copy() *Atom {
	if A == nil {
		panic("attempted to copy a nil atom")
	}
	newat := new(Atom)
	newat.Symbol = A.Symbol
	newat.Charge = A.Charge
	return newat
}

// Bond is a covalent bond between two atoms, identified by their indices
// in the owning Molecule. Order 0 means undetermined.
type Bond struct {
	At1   int     `json:"at1"`
	At2   int     `json:"at2"`
	Order float64 `json:"order,omitempty"`
}

// Copy returns a copy of the Bond object.
func (B *Bond) Copy() *Bond {
	newb := new(Bond)
	newb.At1 = B.At1
	newb.At2 = B.At2
	newb.Order = B.Order
	return newb
}

// Cross returns the atom index at the other end of the bond from origin.
// It panics if origin is in neither end, as that is a programming error.
func (B *Bond) Cross(origin int) int {
	if origin == B.At1 {
		return B.At2
	}
	if origin == B.At2 {
		return B.At1
	}
	panic("trying to cross a bond: the origin atom given is not present in the bond")
}

//constants from DOI:10.1186/1758-2946-3-33
const (
	tooclose = 0.63
	bondtol  = 0.45
	toofar   = 3
)

var symbolCovrad = map[string]float64{
	"H":  0.4, //0.31. A longer radius is harmless for H, which can only have one bond anyway.
	"C":  0.76, //the sp3 radius
	"O":  0.66,
	"N":  0.71,
	"P":  1.07,
	"S":  1.05,
	"Se": 1.2,
	"K":  2.03,
	"Ca": 1.76,
	"Mg": 1.41,
	"Cl": 1.02,
	"Na": 1.66,
	"Cu": 1.32,
	"Zn": 1.22,
	"Co": 1.5,  //hs
	"Fe": 1.52, //hs
	"Mn": 1.61, //hs
	"Cr": 1.39,
	"Si": 1.11,
	"Be": 0.96,
	"F":  0.57,
	"Br": 1.2,
	"I":  1.39,
}
