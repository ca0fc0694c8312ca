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

package ciff

import (
	"fmt"
	"log/slog"

	"github.com/ma-tf/exifcore/pkg/bytecodec"
)

const dirEntrySize = 10

// Reader parses a CIFF blob into a Header plus a synthetic root
// Component whose Children are the root heap's entries.
type Reader struct {
	log *slog.Logger
}

// NewReader builds a Reader that logs skipped/truncated entries to
// logger. A nil logger falls back to slog.Default().
func NewReader(logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}

	return &Reader{log: logger}
}

// Read parses buf's header and its root heap, recursing into every
// nested directory component.
func (r *Reader) Read(buf []byte) (*Component, Header, error) {
	hdr, err := ReadHeader(buf)
	if err != nil {
		return nil, Header{}, err
	}

	root := &Component{Dir: 0}

	children, err := r.readRegion(buf, hdr.Order, uint64(hdr.RootOffset), uint64(len(buf)), 0)
	if err != nil {
		return nil, hdr, err
	}

	root.Children = children

	return root, hdr, nil
}

// readRegion parses the trailer-located directory at the end of
// buf[start:end] (spec.md §6.6): the last 4 bytes hold a terminator
// offset (the directory's own start; not read here), the preceding
// 2 bytes hold the entry count, and the
// preceding 10*N bytes are the entries themselves, in tag-ascending
// order on the wire.
func (r *Reader) readRegion(buf []byte, order bytecodec.ByteOrder, start, end uint64, dirID uint16) ([]*Component, error) {
	const trailerSize = 6 // 2-byte count + 4-byte terminator offset

	if end < start+trailerSize || end > uint64(len(buf)) {
		return nil, fmt.Errorf("ciff region [%#x,%#x): %w", start, end, ErrTruncated)
	}

	count := bytecodec.GetU16(buf[end-trailerSize:end-4], order)
	entriesSize := uint64(count) * dirEntrySize
	entriesStart := end - trailerSize - entriesSize

	if entriesStart < start {
		return nil, fmt.Errorf("ciff region [%#x,%#x): %w", start, end, ErrTruncated)
	}

	components := make([]*Component, 0, count)

	for i := uint16(0); i < count; i++ {
		raw := buf[entriesStart+uint64(i)*dirEntrySize : entriesStart+uint64(i+1)*dirEntrySize]

		comp, err := r.readEntry(buf, order, raw, start, end, dirID)
		if err != nil {
			r.log.Warn("skipping ciff entry", "region_start", start, "index", i, "error", err)
			continue
		}

		components = append(components, comp)
	}

	return components, nil
}

func (r *Reader) readEntry(buf []byte, order bytecodec.ByteOrder, raw []byte, regionStart, regionEnd uint64, dirID uint16) (*Component, error) {
	tag := bytecodec.GetU16(raw[0:2], order)
	size := bytecodec.GetU32(raw[2:6], order)

	comp := &Component{Tag: tag, Dir: dirID, Size: size}

	if size <= inlineSizeCeiling {
		comp.Inline = true
		comp.Data = append([]byte(nil), raw[6:6+size]...)
	} else {
		off := bytecodec.GetU32(raw[6:10], order)
		absStart := regionStart + uint64(off)
		absEnd := absStart + uint64(size)

		if absEnd > uint64(len(buf)) || absStart < regionStart {
			return nil, fmt.Errorf("entry tag %#x: %w", tag, ErrTruncated)
		}

		comp.Offset = absStart
		comp.Data = append([]byte(nil), buf[absStart:absEnd]...)

		if comp.IsDirectory() {
			children, err := r.readRegion(buf, order, absStart, absEnd, comp.TagID())
			if err != nil {
				r.log.Warn("skipping nested ciff directory", "tag", tag, "error", err)
			} else {
				comp.Children = children
			}
		}
	}

	return comp, nil
}
