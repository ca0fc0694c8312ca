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

// Package tiff implements the TIFF/Exif composite tree: header, IFD
// chain, typed entries (including sub-IFD, data-area, and binary-array
// variants), the maker-note dispatch layer, and the reader/decoder/
// encoder that move between bytes and a keyed metadata.MetadataSet.
//
// The C++ original models this as a class hierarchy routed through a
// visitor with downcasting. Go has no need for either: each node kind
// is a concrete struct, Node is the minimal interface every kind
// satisfies, and reader/decoder/encoder route over concrete kinds with
// a type switch, which is the idiomatic Go analogue of pattern
// matching on a tagged union.
package tiff

import (
	"github.com/ma-tf/exifcore/pkg/bytecodec"
	"github.com/ma-tf/exifcore/pkg/metadata"
)

// Node is satisfied by every tree element below a Header. Group
// identity is attached at construction time (or passed down during a
// visit), never resolved via a parent back-pointer.
type Node interface {
	Group() metadata.Group
}

// Header is the 8-byte TIFF header: byte-order mark, magic word, and
// the offset (relative to the header's own start) of the first IFD.
type Header struct {
	Order     bytecodec.ByteOrder
	Magic     uint16
	IFDOffset uint32
}

// StandardMagic is the TIFF magic word (spec.md §3.3).
const StandardMagic = 0x002A

// Directory is an IFD: an ordered list of entries, optionally chained
// to a "next" directory (IFD0 -> IFD1).
type Directory struct {
	Grp     metadata.Group
	Entries []Node
	Next    *Directory
	HasNext bool // whether this directory kind parses/emits a next-IFD pointer
}

// Group implements Node.
func (d *Directory) Group() metadata.Group { return d.Grp }

// Entry is a plain typed IFD entry: tag, type, count, and its raw bytes
// in the subtree's byte order.
type Entry struct {
	Tag      uint16
	TypeCode metadata.TypeCode
	Count    uint32
	Raw      []byte
	Offset   uint32 // valid only when !Inline
	Inline   bool
	Grp      metadata.Group
	Order    bytecodec.ByteOrder
}

// Group implements Node.
func (e *Entry) Group() metadata.Group { return e.Grp }

// DataEntry is an entry whose value is an offset to a side buffer (a
// JPEG preview, for instance), tied by tag to a SizeEntry elsewhere in
// the same directory that carries the length.
type DataEntry struct {
	Entry
	SizeTag uint16
	Data    []byte
}

// SizeEntry is the dual of DataEntry: it carries the byte length for a
// DataEntry elsewhere in the same directory.
type SizeEntry struct {
	Entry
	DataTag uint16
}

// SubIfdEntry is an entry whose value is one or more offsets, each
// pointing to a nested Directory (the standard Exif/GPS/Interop
// sub-IFDs, or camera sub-image IFDs).
type SubIfdEntry struct {
	Entry
	Children []*Directory
}

// MakerNoteEntry is an UNDEFINED-typed entry whose payload was handed
// to the maker-note dispatcher. The reader and RebuildTree always set
// Note; when the vendor cannot be identified and the payload does not
// parse as a plain IFD, the reader keeps it as a plain *Entry of opaque
// bytes instead of a MakerNoteEntry.
type MakerNoteEntry struct {
	Entry
	Note *IfdMakerNote
}

// IfdMakerNote composes an optional vendor header block with one
// directory, parsed under a (possibly overridden) ReaderState that
// applies only to this subtree.
type IfdMakerNote struct {
	HeaderBlock []byte
	State       ReaderState
	Dir         *Directory
	VendorGroup metadata.Group
}

// Group implements Node.
func (n *IfdMakerNote) Group() metadata.Group { return n.VendorGroup }

// BinaryArrayField is one fixed-layout field inside a BinaryArrayEntry,
// e.g. one Canon CameraSettings SHORT.
type BinaryArrayField struct {
	Index    int
	Tag      uint16
	TypeCode metadata.TypeCode
	Order    bytecodec.ByteOrder
	Bytes    []byte
}

// BinaryArrayEntry is an entry whose payload is a fixed-layout binary
// record (Canon CameraSettings/ShotInfo/CustomFunctions, for instance);
// each field is exposed as a virtual child with its own synthetic
// group and tag.
type BinaryArrayEntry struct {
	Entry
	FieldGroup metadata.Group
	Fields     []BinaryArrayField
}
