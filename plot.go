/*
 * plot.go, part of qcs.
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
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// PlotRecords renders a bar chart of the geometries staged per entry,
// a quick visual check of how conformers distribute over a dataset
// before submission. The output format follows the extension; png, svg
// and pdf are supported.
func (D *Dataset) PlotRecords(filename string) error {
	ext := extension(filename)
	if ext != "png" && ext != "svg" && ext != "pdf" {
		uerr := &UnsupportedFiletypeError{Filetype: ext}
		uerr.Decorate("PlotRecords")
		return uerr
	}
	entries := D.EntryList()
	counts := make(plotter.Values, len(entries))
	labels := make([]string, len(entries))
	for i, entry := range entries {
		counts[i] = float64(len(entry.InitialMolecules))
		labels[i] = entry.Index
	}
	p := plot.New()
	p.Title.Text = D.Name
	p.Y.Label.Text = "Staged geometries"
	p.Y.Min = 0
	bars, err := plotter.NewBarChart(counts, vg.Points(20))
	if err != nil {
		return err
	}
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(labels...)
	width := vg.Length(len(entries)) * vg.Points(30)
	if width < 4*vg.Inch {
		width = 4 * vg.Inch
	}
	return p.Save(width, 4*vg.Inch, filename)
}
