/*
 * filter.go, part of qcs.
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

// FilterRecord is the audit trail of one filtering stage: which component
// ran, how it was configured, and the canonical identity strings of every
// molecule it rejected. Filtering again under the same stage name extends
// the rejected list of the existing record.
type FilterRecord struct {
	Name        string                 `json:"component_name" yaml:"component_name"`
	Description map[string]interface{} `json:"component_description" yaml:"component_description"`
	Provenance  map[string]string      `json:"component_provenance" yaml:"component_provenance"`
	Molecules   []string               `json:"molecules" yaml:"molecules"`
}

// Copy returns a deep copy of the record.
func (F *FilterRecord) Copy() *FilterRecord {
	newf := new(FilterRecord)
	newf.Name = F.Name
	newf.Description = make(map[string]interface{}, len(F.Description))
	for k, v := range F.Description {
		newf.Description[k] = v
	}
	newf.Provenance = make(map[string]string, len(F.Provenance))
	for k, v := range F.Provenance {
		newf.Provenance[k] = v
	}
	newf.Molecules = append([]string(nil), F.Molecules...)
	return newf
}
