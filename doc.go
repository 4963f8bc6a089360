/*
 * doc.go, part of qcs.
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

/*
Package qcs builds, deduplicates and stages datasets of quantum chemistry
calculations prior to their submission to a compute archive.

The pipeline starts from molecules, each a topology with formal charges,
bond orders and any number of conformers. A Deduplicator collapses a
stream of molecules by canonical identity, fusing the conformers and
torsion selections of duplicates onto the first-seen copy while keeping
its atom ordering. Surviving molecules become dataset entries: the
canonical attributes, staged geometries, geometric constraints and
torsion selections of one unique molecule. A Dataset collects entries
next to the audit trail of everything filtered on the way in, merges
with other datasets under a policy set by its type tag, and finally
stages itself on an archive through the narrow Client interface.

Molecular identity is pluggable. The identity subpackage provides a
self-contained graph-canonicalization oracle; adapters around external
cheminformatics toolkits can replace it through the Identity interface.

All errors implement the local Error interface, which extends the
standard one with stack decoration.
*/
package qcs
