/*
 * geom.go, part of qcs.
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
	"math"

	"gonum.org/v1/gonum/mat"
)

//used to correct floating point errors. Everything equal or less than this
//is considered zero.
const appzero float64 = 0.0000001

type vec3 [3]float64

func rowVec(coord *mat.Dense, i int) vec3 {
	return vec3{coord.At(i, 0), coord.At(i, 1), coord.At(i, 2)}
}

func (v vec3) sub(w vec3) vec3 {
	return vec3{v[0] - w[0], v[1] - w[1], v[2] - w[2]}
}

func (v vec3) dot(w vec3) float64 {
	return v[0]*w[0] + v[1]*w[1] + v[2]*w[2]
}

func (v vec3) cross(w vec3) vec3 {
	return vec3{
		v[1]*w[2] - v[2]*w[1],
		v[2]*w[0] - v[0]*w[2],
		v[0]*w[1] - v[1]*w[0],
	}
}

func (v vec3) norm() float64 {
	return math.Sqrt(v.dot(v))
}

func (v vec3) scale(f float64) vec3 {
	return vec3{v[0] * f, v[1] * f, v[2] * f}
}

// Angle takes 2 vectors and calculates the angle in radians between them.
// It does not check for correctness or return errors!
func Angle(v1, v2 vec3) float64 {
	normproduct := v1.norm() * v2.norm()
	argument := v1.dot(v2) / normproduct
	//Take care of floating point math errors
	if math.Abs(argument-1) <= appzero {
		argument = 1
	} else if math.Abs(argument+1) <= appzero {
		argument = -1
	}
	angle := math.Acos(argument)
	if math.Abs(angle) <= appzero {
		return 0.00
	}
	return angle
}

// BondAngle returns the angle in radians formed at atom j by atoms i, j
// and k in the given conformer.
func BondAngle(coord *mat.Dense, i, j, k int) float64 {
	a := rowVec(coord, i)
	b := rowVec(coord, j)
	c := rowVec(coord, k)
	return Angle(a.sub(b), c.sub(b))
}

// DihedralAngle returns the dihedral angle in radians between the planes
// defined by atoms i,j,k and j,k,l in the given conformer.
func DihedralAngle(coord *mat.Dense, i, j, k, l int) float64 {
	a := rowVec(coord, i)
	b := rowVec(coord, j)
	c := rowVec(coord, k)
	d := rowVec(coord, l)
	bma := b.sub(a)
	cmb := c.sub(b)
	dmc := d.sub(c)
	first := bma.scale(cmb.norm()).dot(cmb.cross(dmc))
	second := bma.cross(cmb).dot(cmb.cross(dmc))
	return math.Atan2(first, second)
}
