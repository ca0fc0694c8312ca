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
	"bytes"
	"strings"

	"github.com/ma-tf/exifcore/pkg/bytecodec"
	"github.com/ma-tf/exifcore/pkg/metadata"
)

// makerNoteVendor describes one row of the maker-note dispatch table
// (spec.md §4.4), grounded on Exiv2's tiffimage.cpp maker-note creator
// registrations (original_source/).
type makerNoteVendor struct {
	group      metadata.Group
	headerSize int
	// match reports whether raw (the maker-note payload) carries this
	// vendor's signature, and if so the IFD start offset relative to
	// the maker-note's own start.
	match func(raw []byte) (ifdStart int, ok bool)
	// order, when non-zero, forces the subtree's byte order
	// regardless of the host TIFF's order (Fujifilm is always LE).
	order bytecodec.ByteOrder
	// baseFromPayload means offsets inside the subtree are measured
	// from the maker-note payload start, not the outer TIFF base.
	baseFromPayload bool
	hasNext         bool
}

func olympusMatch(raw []byte) (int, bool) {
	if len(raw) >= 8 && bytes.Equal(raw[0:5], []byte("OLYMP")) {
		return 8, true
	}

	return 0, false
}

func fujiMatch(raw []byte) (int, bool) {
	if len(raw) >= 12 && bytes.Equal(raw[0:8], []byte("FUJIFILM")) {
		return 12, true
	}

	return 0, false
}

func nikon2Match(raw []byte) (int, bool) {
	if len(raw) >= 8 && bytes.HasPrefix(raw, []byte("Nikon\x00\x00\x01")) {
		return 8, true
	}

	return 0, false
}

func nikon3Match(raw []byte) (int, bool) {
	if len(raw) >= 18 && bytes.HasPrefix(raw, []byte("Nikon\x00\x02\x10")) {
		return 10, true // embedded TIFF header starts at byte 10; IFD offset read from it
	}

	return 0, false
}

func panasonicMatch(raw []byte) (int, bool) {
	if len(raw) >= 12 && bytes.HasPrefix(raw, []byte("Panasonic\x00\x00\x00")) {
		return 12, true
	}

	return 0, false
}

func sigmaMatch(raw []byte) (int, bool) {
	if len(raw) >= 10 && (bytes.HasPrefix(raw, []byte("SIGMA\x00\x00\x00")) || bytes.HasPrefix(raw, []byte("FOVEON\x00\x00"))) {
		return 10, true
	}

	return 0, false
}

func sony1Match(raw []byte) (int, bool) {
	if len(raw) >= 12 && bytes.HasPrefix(raw, []byte("SONY DSC \x00\x00\x00")) {
		return 12, true
	}

	return 0, false
}

// readMakerNote dispatches the maker-note payload in entry.Raw to the
// vendor the host's Exif.Image.Make string selects, per spec.md §4.4.
//
// Most vendors "inherit" their offset base: non-inline values inside
// the maker-note directory are still measured from the outer TIFF
// header, a historical firmware quirk. Fujifilm and Nikon3 are the
// documented exceptions, each self-contained with its own base.
func (r *Reader) readMakerNote(buf []byte, entry Entry, state ReaderState) (Node, error) {
	vendorGroup, newBase, ifdOffset, headerLen, order, ok := dispatchMakerNote(r.lastSeenMake, entry.Raw, state.Base, entry.Offset)
	if !ok {
		// Unrecognized make: try a plain IFD parse in the inherited
		// state, falling back to opaque bytes.
		dir, err := r.readDirectory(buf, entry.Offset, metadata.GroupPhoto, state, false)
		if err != nil {
			return &entry, nil //nolint:nilerr // opaque fallback per spec.md §4.4
		}

		note := &IfdMakerNote{HeaderBlock: nil, State: state, Dir: dir, VendorGroup: metadata.GroupPhoto}

		return &MakerNoteEntry{Entry: entry, Note: note}, nil
	}

	var header []byte
	if headerLen > 0 && headerLen <= len(entry.Raw) {
		header = append([]byte(nil), entry.Raw[:headerLen]...)
	}

	if order == bytecodec.Invalid {
		order = state.Order
	}

	subState := state.WithOverride(order, newBase, state.Creator)

	dir, err := r.readDirectory(buf, ifdOffset, vendorGroup, subState, vendorGroup == metadata.GroupSony2)
	if err != nil {
		return nil, err
	}

	note := &IfdMakerNote{HeaderBlock: header, State: subState, Dir: dir, VendorGroup: vendorGroup}

	return &MakerNoteEntry{Entry: entry, Note: note}, nil
}

// dispatchMakerNote resolves the vendor row for make and returns the
// group, the subtree's base offset, the IFD offset relative to that
// base, the vendor header length, and the subtree byte order.
// outerBase/entryOffset are the enclosing directory's ReaderState.Base
// and the maker-note entry's own offset field; "inherits" vendors keep
// outerBase unchanged (a firmware quirk: their internal pointers are
// still TIFF-header-relative), while Fujifilm and Nikon3 rebase to
// their own payload.
func dispatchMakerNote(make string, payload []byte, outerBase, entryOffset uint32) (group metadata.Group, base uint32, ifdOffset uint32, headerLen int, order bytecodec.ByteOrder, ok bool) {
	payloadAbsStart := outerBase + entryOffset

	switch {
	case strings.HasPrefix(make, "Canon"):
		return metadata.GroupCanon, outerBase, entryOffset, 0, 0, true

	case strings.HasPrefix(make, "OLYMPUS"):
		if start, matched := olympusMatch(payload); matched {
			return metadata.GroupOlympus, outerBase, entryOffset + uint32(start), 8, 0, true
		}

	case strings.HasPrefix(make, "FUJIFILM"):
		if start, matched := fujiMatch(payload); matched {
			fujiOrder := bytecodec.LittleEndian
			ifdOff := bytecodec.GetU32(payload[start-4:start], fujiOrder)

			return metadata.GroupFuji, payloadAbsStart, ifdOff, 12, fujiOrder, true
		}

	case strings.HasPrefix(make, "NIKON"):
		if start, matched := nikon3Match(payload); matched {
			embeddedBase := payloadAbsStart + uint32(start)
			embeddedOrder := bytecodec.BigEndian
			if payload[start] == 'I' {
				embeddedOrder = bytecodec.LittleEndian
			}

			ifdOff := bytecodec.GetU32(payload[start+4:start+8], embeddedOrder)

			return metadata.GroupNikon3, embeddedBase, ifdOff, 18, embeddedOrder, true
		}

		if start, matched := nikon2Match(payload); matched {
			return metadata.GroupNikon2, outerBase, entryOffset + uint32(start), 8, 0, true
		}

		return metadata.GroupNikon1, outerBase, entryOffset, 0, 0, true

	case strings.HasPrefix(make, "Panasonic"):
		if start, matched := panasonicMatch(payload); matched {
			return metadata.GroupPanasonic, outerBase, entryOffset + uint32(start), 12, 0, true
		}

	case strings.HasPrefix(make, "SIGMA"), strings.HasPrefix(make, "FOVEON"):
		if start, matched := sigmaMatch(payload); matched {
			return metadata.GroupSigma, outerBase, entryOffset + uint32(start), 10, 0, true
		}

	case strings.HasPrefix(make, "SONY"):
		if start, matched := sony1Match(payload); matched {
			return metadata.GroupSony1, outerBase, entryOffset + uint32(start), 12, 0, true
		}
		// Sony2: no signature, no header, but (unlike most no-header
		// vendors) the directory does carry a next-IFD pointer.
		return metadata.GroupSony2, outerBase, entryOffset, 0, 0, true

	case strings.HasPrefix(make, "KONICA MINOLTA"), strings.HasPrefix(make, "Minolta"):
		return metadata.GroupMinolta, outerBase, entryOffset, 0, 0, true
	}

	return "", 0, 0, 0, 0, false
}
