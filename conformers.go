/*
 * conformers.go, part of qcs.
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

// ConformerGenerator is the capability contract for synthesizing 3D
// conformers for a molecule that arrived without geometry. Real
// deployments adapt a cheminformatics toolkit; the default is a cheap
// deterministic embedding good enough for staging and validation.
type ConformerGenerator interface {
	//Generate appends up to n synthesized conformers to mol.
	Generate(mol *Molecule, n int) error
}

// DefaultConformers is the generator used by Entry construction when the
// source molecule carries no geometry.
var DefaultConformers ConformerGenerator = &embedGenerator{}

// embedGenerator places atoms by walking the bond graph breadth-first,
// using covalent radii for bond lengths and a fixed fan of directions per
// atom. The result is not a physical geometry, only a connectivity-true
// embedding: bonded atoms end up at bonding distance, unbonded ones far
// enough apart not to be perceived as bonded.
type embedGenerator struct{}

var embedFan = []vec3{
	{1, 0, 0},
	{-0.33, 0.94, 0},
	{-0.33, -0.47, 0.82},
	{-0.33, -0.47, -0.82},
	{0.33, 0.47, 0.82},
	{0.33, 0.47, -0.82},
}

func (g *embedGenerator) Generate(mol *Molecule, n int) error {
	if n < 1 {
		return nil
	}
	tot := mol.Len()
	if tot == 0 {
		return &ValidationError{Message: "cannot generate conformers for an empty molecule"}
	}
	for c := 0; c < n; c++ {
		coords := mat.NewDense(tot, 3, nil)
		placed := make([]bool, tot)
		//a small twist per conformer keeps repeated syntheses distinct
		twist := float64(c) * 0.1
		queue := make([]int, 0, tot)
		fragment := 0
		for start := 0; start < tot; start++ {
			if placed[start] {
				continue
			}
			//disconnected fragments are spread along x
			coords.Set(start, 0, float64(fragment)*10.0+twist)
			fragment++
			placed[start] = true
			queue = append(queue, start)
			for len(queue) > 0 {
				cur := queue[0]
				queue = queue[1:]
				fan := 0
				for _, nb := range mol.Neighbors(cur) {
					if placed[nb] {
						continue
					}
					dist := bondLength(mol.Atom(cur).Symbol, mol.Atom(nb).Symbol)
					dir := embedFan[fan%len(embedFan)]
					if fan >= len(embedFan) {
						dir = dir.scale(1.0 + 0.1*float64(fan))
					}
					f := dist / dir.norm()
					coords.Set(nb, 0, coords.At(cur, 0)+dir[0]*f)
					coords.Set(nb, 1, coords.At(cur, 1)+dir[1]*f+twist)
					coords.Set(nb, 2, coords.At(cur, 2)+dir[2]*f)
					placed[nb] = true
					queue = append(queue, nb)
					fan++
				}
			}
		}
		if err := mol.AddConformer(coords); err != nil {
			return err
		}
	}
	return nil
}

func bondLength(sym1, sym2 string) float64 {
	cov1 := symbolCovrad[sym1]
	cov2 := symbolCovrad[sym2]
	if cov1 == 0 || cov2 == 0 {
		return 1.5
	}
	return math.Min(cov1+cov2+bondtol*0.5, cov1+cov2+bondtol-0.01)
}
