/*
 * oracle.go, part of qcs.
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

// Identity is the boundary to the canonical-identity and isomorphism
// capabilities this library builds deduplication on. The identity
// subpackage provides a self-contained implementation; adapters around
// external cheminformatics toolkits satisfy the same interface.
type Identity interface {
	//Key produces a string invariant to atom ordering and conformers,
	//sensitive to topology, elements and formal charges. Equal keys are
	//assumed to imply isomorphic molecules; the Deduplicator re-checks
	//that assumption wherever it is consumed.
	Key(mol *Molecule) (string, error)

	//MappedKey serializes the molecule in its current atom order, the
	//way a mapped SMILES would. Reconstructing through FromKey yields a
	//molecule whose atom i is the input's atom i, which is what lets
	//stored geometries keep their meaning.
	MappedKey(mol *Molecule) (string, error)

	//Align returns an atom-index mapping from a onto b if the two
	//molecules are isomorphic. Non-isomorphism is a normal outcome,
	//reported by the second return value, not an error.
	Align(a, b *Molecule) (map[int]int, bool)

	//FromKey reconstructs the topology encoded in a key, canonical or
	//mapped: atoms, charges and bonds, with no geometry.
	FromKey(key string) (*Molecule, error)
}

// AttrCanonicalSmiles is the canonical-attributes key under which every
// Entry stores the order-preserving mapped identity string of its
// molecule, produced by Identity.MappedKey and consumed by
// Identity.FromKey.
const AttrCanonicalSmiles = "canonical_mapped_smiles"

// AttrIdentityKey is the canonical-attributes key holding the
// order-invariant identity hash from Identity.Key, the value
// deduplication and entry lookup compare.
const AttrIdentityKey = "identity_key"

// MoleculeAttributes builds the canonical attribute map entries are
// constructed with: the mapped serialization plus the order-invariant
// identity hash.
func MoleculeAttributes(id Identity, mol *Molecule) (map[string]string, error) {
	mapped, err := id.MappedKey(mol)
	if err != nil {
		return nil, err
	}
	key, err := id.Key(mol)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		AttrCanonicalSmiles: mapped,
		AttrIdentityKey:     key,
	}, nil
}
