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

// Package ciff implements the CIFF container used by Canon CRW raw
// files: a HEAPCCDR-signed header, a trailer-located directory at the
// end of every heap region, and a dual-map decoder/encoder that moves
// values between CIFF entries and Exif keys (spec.md §3.4/§4.7/§6.6).
//
// Unlike the TIFF tree, a CIFF heap's index sits at the *end* of the
// region it describes rather than the front, so the reader always
// parses a region back-to-front: count, then entries, then (for any
// entry whose directory bit is set) a recursive descent into the
// nested region the entry's (size, offset) pair names.
package ciff

import (
	"fmt"

	"github.com/ma-tf/exifcore/pkg/bytecodec"
)

// Signature is the 8-byte CIFF container marker at header offset 6.
const Signature = "HEAPCCDR"

// HeaderSize is the fixed size of a CIFF header (spec.md §6.6).
const HeaderSize = 26

// Header is the fixed 26-byte CIFF preamble: byte order, the HEAPCCDR
// signature (verified, not stored), and the offset of the root heap's
// data region.
type Header struct {
	Order      bytecodec.ByteOrder
	RootOffset uint32
}

// Tag bit layout (Open Question resolution, DESIGN.md): the real
// Exiv2 TypeId/DataLocId enums that crwimage.hpp declares are defined
// in a header this corpus does not carry, so the split below is fixed
// here rather than transcribed:
//
//   bit 15        tagDirFlag  — set iff the entry's value is itself a
//                               nested heap (directory) to recurse into
//   bits 13..11   tagTypeMask — element type, independent of storage
//   bits 13..0    tagIDMask   — the (type, id) pair used as the dual
//                               map's dictionary key, matching
//                               CiffComponent::tagId()'s "tag_ & 0x3fff"
//
// Inline-vs-referenced storage is NOT taken from the tag at all: it is
// size-driven. spec.md §6.6's wire table is the more precise of the
// spec's two descriptions here — "2 4 size" is always a genuine,
// separately-read byte count, and only the trailing 4-byte "offset"
// sub-field doubles as the inline payload ("6 4 offset within region,
// OR inline bytes when storage=inline") — so inline capacity is 4
// bytes, not the 8 the looser §4.7 prose suggests.
const (
	tagDirFlag   uint16 = 0x8000
	tagTypeMask  uint16 = 0x3800
	tagTypeShift        = 11
	tagIDMask    uint16 = 0x3fff

	inlineSizeCeiling = 4
)

// Element type codes, encoded in tag bits 13..11.
const (
	ElemByte  = 0
	ElemASCII = 1
	ElemShort = 2
	ElemLong  = 3
	ElemMix   = 4
	ElemSub1  = 5
	ElemSub2  = 6
)

// ReadHeader parses the fixed 26-byte CIFF header at the start of buf.
func ReadHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, fmt.Errorf("ciff header: %w", ErrTruncated)
	}

	var order bytecodec.ByteOrder

	switch {
	case buf[0] == 'I' && buf[1] == 'I':
		order = bytecodec.LittleEndian
	case buf[0] == 'M' && buf[1] == 'M':
		order = bytecodec.BigEndian
	default:
		return Header{}, fmt.Errorf("ciff header: %w", ErrBadMagic)
	}

	if string(buf[6:14]) != Signature {
		return Header{}, fmt.Errorf("ciff header: %w", ErrBadMagic)
	}

	rootOff := bytecodec.GetU32(buf[14:18], order)

	return Header{Order: order, RootOffset: rootOff}, nil
}

// SerializeHeader renders hdr back into its 26-byte wire form: a
// 4-byte header-length field at offset 2 (fixed 0x1a, the real CRW
// convention per original_source/src/crwimage.cpp's header parse),
// the signature at offset 6, the root offset at offset 14, and eight
// trailing zero bytes to round out the fixed 26-byte size.
func SerializeHeader(hdr Header) []byte {
	out := make([]byte, HeaderSize)

	if hdr.Order == bytecodec.BigEndian {
		copy(out[0:2], "MM")
	} else {
		copy(out[0:2], "II")
	}

	bytecodec.PutU32(out[2:6], HeaderSize, hdr.Order)
	copy(out[6:14], Signature)
	bytecodec.PutU32(out[14:18], hdr.RootOffset, hdr.Order)

	return out
}
