// exifcore reads and writes metadata embedded in still-image and video
// container files.
// Copyright (C) 2026  Matt F
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package tiff

import (
	"fmt"

	"github.com/ma-tf/exifcore/pkg/metadata"
)

// DecodeOptions configures Decode. SkipThreshold, when non-zero, drops
// entries whose type code is not a known TIFF type and whose payload
// exceeds it (spec.md §4.5); tags are not checked against any tag
// table, so an entry of a known type is kept whatever its tag.
type DecodeOptions struct {
	SkipThreshold int
}

// Decode walks dir depth-first in document order and flattens it into
// a MetadataSet, resolving DataEntry/SizeEntry pairs to data-area
// bytes along the way.
func Decode(dir *Directory, opts DecodeOptions) (*metadata.MetadataSet, error) {
	set := metadata.NewMetadataSet()

	for d := dir; d != nil; d = d.Next {
		if err := decodeDirectory(d, set, opts); err != nil {
			return nil, err
		}
	}

	return set, nil
}

func decodeDirectory(d *Directory, set *metadata.MetadataSet, opts DecodeOptions) error {
	for _, n := range d.Entries {
		if err := decodeNode(n, d.Grp, set, opts); err != nil {
			return err
		}
	}

	return nil
}

func decodeNode(n Node, group metadata.Group, set *metadata.MetadataSet, opts DecodeOptions) error {
	switch e := n.(type) {
	case *Entry:
		return decodeEntry(e, group, set, opts)

	case *DataEntry:
		v, err := entryValue(&e.Entry)
		if err != nil {
			return nil //nolint:nilerr
		}

		if e.Data != nil {
			v.SetDataArea(e.Data)
		}

		set.Insert(metadata.Key{Family: metadata.FamilyExif, Group: group, Tag: e.Tag}, v)

		return nil

	case *SizeEntry:
		return decodeEntry(&e.Entry, group, set, opts)

	case *SubIfdEntry:
		for _, child := range e.Children {
			for d := child; d != nil; d = d.Next {
				if err := decodeDirectory(d, set, opts); err != nil {
					return err
				}
			}
		}

		return nil

	case *MakerNoteEntry:
		if e.Note == nil {
			return decodeEntry(&e.Entry, group, set, opts)
		}

		for d := e.Note.Dir; d != nil; d = d.Next {
			if err := decodeDirectory(d, set, opts); err != nil {
				return err
			}
		}

		return nil

	case *BinaryArrayEntry:
		for _, f := range e.Fields {
			v, err := metadata.NewValue(f.TypeCode, 1, f.Bytes, f.Order)
			if err != nil {
				continue
			}

			set.Insert(metadata.Key{Family: metadata.FamilyExif, Group: e.FieldGroup, Tag: f.Tag}, v)
		}

		return nil

	default:
		return fmt.Errorf("tiff: unrecognized node type %T", n)
	}
}

func decodeEntry(e *Entry, group metadata.Group, set *metadata.MetadataSet, opts DecodeOptions) error {
	if opts.SkipThreshold > 0 && !metadata.KnownType(e.TypeCode) && len(e.Raw) > opts.SkipThreshold {
		return nil
	}

	v, err := entryValue(e)
	if err != nil {
		// Unrecognized type code: the entry is kept as raw bytes but
		// cannot become a typed Value. Drop it rather than aborting
		// the rest of the directory (spec.md §4.8).
		return nil //nolint:nilerr
	}

	set.Insert(metadata.Key{Family: metadata.FamilyExif, Group: group, Tag: e.Tag}, v)

	return nil
}

func entryValue(e *Entry) (*metadata.Value, error) {
	return metadata.NewValue(e.TypeCode, e.Count, e.Raw, e.Order)
}
