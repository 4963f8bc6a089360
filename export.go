/*
 * export.go, part of qcs.
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
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"
)

// Export writes the dataset to a file, with the format chosen by the
// extension: .json, .yaml or .yml plain, .zst or .gz holding compressed
// JSON. Anything else fails with an UnsupportedFiletypeError. The
// identity oracle and the logger are runtime state and are not written;
// reinstall them with SetIdentity and SetLogger after loading.
func (D *Dataset) Export(filename string) error {
	ext := extension(filename)
	var raw []byte
	var err error
	switch ext {
	case "json", "zst", "gz":
		raw, err = json.MarshalIndent(D, "", " ")
	case "yaml", "yml":
		raw, err = yaml.Marshal(D)
	default:
		uerr := &UnsupportedFiletypeError{Filetype: ext}
		uerr.Decorate("Export")
		return uerr
	}
	if err != nil {
		return err
	}
	fout, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer fout.Close()
	switch ext {
	case "zst":
		zw, zerr := zstd.NewWriter(fout)
		if zerr != nil {
			return zerr
		}
		if _, werr := zw.Write(raw); werr != nil {
			zw.Close()
			return werr
		}
		return zw.Close()
	case "gz":
		gw := gzip.NewWriter(fout)
		if _, werr := gw.Write(raw); werr != nil {
			gw.Close()
			return werr
		}
		return gw.Close()
	default:
		_, werr := fout.Write(raw)
		return werr
	}
}

// Load reads a dataset written by Export. The returned dataset has no
// identity oracle; call SetIdentity before any operation that touches
// molecular identity.
func Load(filename string) (*Dataset, error) {
	ext := extension(filename)
	fin, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer fin.Close()
	var raw []byte
	switch ext {
	case "zst":
		zr, zerr := zstd.NewReader(fin)
		if zerr != nil {
			return nil, zerr
		}
		raw, err = io.ReadAll(zr)
		zr.Close()
	case "gz":
		gr, gerr := gzip.NewReader(fin)
		if gerr != nil {
			return nil, gerr
		}
		raw, err = io.ReadAll(gr)
		gr.Close()
	case "json", "yaml", "yml":
		raw, err = io.ReadAll(fin)
	default:
		uerr := &UnsupportedFiletypeError{Filetype: ext}
		uerr.Decorate("Load")
		return nil, uerr
	}
	if err != nil {
		return nil, err
	}
	D := new(Dataset)
	if ext == "yaml" || ext == "yml" {
		err = yaml.Unmarshal(raw, D)
	} else {
		err = json.Unmarshal(raw, D)
	}
	if err != nil {
		return nil, err
	}
	return D, nil
}

// MoleculesToFile writes the identity strings of every entry, one per
// line and in entry order. The extension picks the content: .smi writes
// the order-preserving mapped strings, .txt the order-invariant keys.
func (D *Dataset) MoleculesToFile(filename string) error {
	ext := extension(filename)
	if ext != "smi" && ext != "txt" {
		uerr := &UnsupportedFiletypeError{Filetype: ext}
		uerr.Decorate("MoleculesToFile")
		return uerr
	}
	fout, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer fout.Close()
	for _, entry := range D.EntryList() {
		line := entry.Attributes[AttrCanonicalSmiles]
		if ext == "txt" {
			key, kerr := D.entryKey(entry)
			if kerr != nil {
				return kerr
			}
			line = key
		}
		if _, werr := io.WriteString(fout, line+"\n"); werr != nil {
			return werr
		}
	}
	return nil
}

func extension(filename string) string {
	cut := strings.LastIndex(filename, ".")
	if cut == -1 {
		return ""
	}
	return strings.ToLower(filename[cut+1:])
}
