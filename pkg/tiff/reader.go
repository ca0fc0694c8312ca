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
	"log/slog"

	"github.com/ma-tf/exifcore/pkg/bytecodec"
	"github.com/ma-tf/exifcore/pkg/metadata"
)

const (
	entrySize  = 12
	dirCountSz = 2
	nextPtrSz  = 4
)

// Reader parses a TIFF/Exif blob into a Header plus a Directory chain.
// It holds no state across calls; every parse starts from a fresh
// ReaderState derived from the blob's own header.
type Reader struct {
	log *slog.Logger

	// lastSeenMake tracks Exif.Image.Make as IFD0 is scanned, so a
	// later MakerNote entry in the same directory knows which vendor
	// table to consult (spec.md §4.4). Reset at the start of each
	// top-level parse; never read concurrently (§5, single-threaded).
	lastSeenMake string
}

// NewReader builds a Reader that logs skipped/truncated entries to
// logger. A nil logger falls back to slog.Default(), matching the
// teacher's service constructors.
func NewReader(logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}

	return &Reader{log: logger}
}

// ReadHeader parses the 8-byte TIFF header at the start of buf.
func ReadHeader(buf []byte) (Header, error) {
	if len(buf) < 8 {
		return Header{}, fmt.Errorf("tiff header: %w", ErrTruncated)
	}

	var order bytecodec.ByteOrder

	switch string(buf[0:2]) {
	case "II":
		order = bytecodec.LittleEndian
	case "MM":
		order = bytecodec.BigEndian
	default:
		return Header{}, fmt.Errorf("tiff header: %w", ErrBadMagic)
	}

	magic := bytecodec.GetU16(buf[2:4], order)
	ifdOff := bytecodec.GetU32(buf[4:8], order)

	return Header{Order: order, Magic: magic, IFDOffset: ifdOff}, nil
}

// ReadIFD0 parses a blob starting from its TIFF header and returns the
// IFD0 directory (chained to IFD1 via Next/HasNext when present).
func (r *Reader) ReadIFD0(buf []byte, group metadata.Group) (*Directory, Header, error) {
	hdr, err := ReadHeader(buf)
	if err != nil {
		return nil, Header{}, err
	}

	r.lastSeenMake = ""
	state := DefaultState(hdr.Order)

	dir, err := r.readDirectory(buf, hdr.IFDOffset, group, state, true)
	if err != nil {
		return nil, hdr, err
	}

	return dir, hdr, nil
}

// readDirectory parses one IFD at buf[state.Base+offset:] under state,
// and recurses into its "next" sibling when hasNext is set.
func (r *Reader) readDirectory(buf []byte, offset uint32, group metadata.Group, state ReaderState, hasNext bool) (*Directory, error) {
	absOff := uint64(state.Base) + uint64(offset)

	next, err := state.withAncestor(uint32(absOff))
	if err != nil {
		return nil, err
	}

	state = next

	if absOff+dirCountSz > uint64(len(buf)) {
		return nil, fmt.Errorf("directory at %#x: %w", absOff, ErrTruncated)
	}

	n := bytecodec.GetU16(buf[absOff:absOff+2], state.Order)
	regionEnd := absOff + dirCountSz + uint64(n)*entrySize + nextPtrSz

	if regionEnd > uint64(len(buf)) {
		return nil, fmt.Errorf("directory at %#x: %w", absOff, ErrTruncated)
	}

	dir := &Directory{Grp: group, HasNext: hasNext}

	entryStart := absOff + dirCountSz
	for i := uint16(0); i < n; i++ {
		raw := buf[entryStart+uint64(i)*entrySize : entryStart+uint64(i+1)*entrySize]

		node, err := r.readEntry(buf, raw, group, state)
		if err != nil {
			r.log.Warn("skipping tiff entry", "offset", absOff, "index", i, "error", err)
			continue
		}

		if node != nil {
			dir.Entries = append(dir.Entries, node)
		}
	}

	r.resolveDataEntries(buf, dir, state)

	if hasNext {
		nextOff := bytecodec.GetU32(buf[regionEnd-nextPtrSz:regionEnd], state.Order)
		if nextOff != 0 {
			siblingGroup := group
			if group == metadata.GroupImage {
				siblingGroup = metadata.GroupThumbnail
			}

			sibling, err := r.readDirectory(buf, nextOff, siblingGroup, state, true)
			if err != nil {
				r.log.Warn("skipping next-ifd", "offset", nextOff, "error", err)
			} else {
				dir.Next = sibling
			}
		}
	}

	return dir, nil
}

// resolveDataEntries fetches each DataEntry's side-buffer bytes now
// that the whole directory (and therefore its paired SizeEntry) is
// known, regardless of which one appeared first on the wire.
func (r *Reader) resolveDataEntries(buf []byte, dir *Directory, state ReaderState) {
	sizes := map[uint16]uint64{}

	for _, n := range dir.Entries {
		se, ok := n.(*SizeEntry)
		if !ok {
			continue
		}

		if len(se.Raw) >= 4 {
			sizes[se.DataTag] = uint64(bytecodec.GetU32(se.Raw, se.Order))
		}
	}

	for _, n := range dir.Entries {
		de, ok := n.(*DataEntry)
		if !ok || len(de.Raw) < 4 {
			continue
		}

		size, ok := sizes[de.Tag]
		if !ok {
			continue
		}

		off := uint64(bytecodec.GetU32(de.Raw, de.Order))
		start := uint64(state.Base) + off
		end := start + size

		if end > uint64(len(buf)) {
			r.log.Warn("data entry out of range", "tag", de.Tag, "offset", off, "size", size)
			continue
		}

		de.Data = append([]byte(nil), buf[start:end]...)
	}
}

// readEntry decodes one 12-byte directory entry and dispatches it to
// the node variant state.Creator selects. An entry whose payload runs
// past the end of buf (count overflow) returns ErrTruncated, which the
// caller logs and skips.
func (r *Reader) readEntry(buf []byte, raw []byte, group metadata.Group, state ReaderState) (Node, error) {
	tag := bytecodec.GetU16(raw[0:2], state.Order)
	typeCode := metadata.TypeCode(bytecodec.GetU16(raw[2:4], state.Order))
	count := bytecodec.GetU32(raw[4:8], state.Order)

	elemSize := metadata.ElemSize(typeCode)
	if elemSize == 0 {
		// Unknown type: count each element as one byte, keep those
		// raw bytes verbatim and let the decoder decide whether to
		// surface it.
		elemSize = 1
	}

	payloadSize := uint64(count) * uint64(elemSize)

	entry := Entry{Tag: tag, TypeCode: typeCode, Count: count, Grp: group, Order: state.Order}

	var payload []byte

	if payloadSize <= 4 {
		entry.Inline = true
		payload = append([]byte(nil), raw[8:8+payloadSize]...)
	} else {
		offset := bytecodec.GetU32(raw[8:12], state.Order)
		absStart := uint64(state.Base) + uint64(offset)
		absEnd := absStart + payloadSize

		if absEnd > uint64(len(buf)) {
			return nil, fmt.Errorf("entry tag %#x: %w", tag, ErrTruncated)
		}

		entry.Offset = offset
		payload = append([]byte(nil), buf[absStart:absEnd]...)
	}

	entry.Raw = payload

	if group == metadata.GroupImage && tag == tagMake && typeCode == metadata.TypeASCII {
		r.lastSeenMake = trimASCIIBytes(payload)
	}

	kind := state.Creator(tag, group)

	switch kind {
	case KindSubIfd:
		return r.readSubIfd(buf, entry, group, state)
	case KindMakerNote:
		return r.readMakerNote(buf, entry, state)
	case KindBinaryArray:
		return r.readBinaryArray(entry, group)
	case KindDataEntry:
		return r.readDataEntry(buf, entry, state)
	case KindSizeEntry:
		return &SizeEntry{Entry: entry, DataTag: pairedDataTag(tag)}, nil
	default:
		return &entry, nil
	}
}

// pairedDataTag returns the data-entry tag paired with a known size tag.
func pairedDataTag(sizeTag uint16) uint16 {
	switch sizeTag {
	case TagJPEGInterchangeFmtLn:
		return TagJPEGInterchangeFmt
	case TagStripByteCounts:
		return TagStripOffsets
	default:
		return 0
	}
}

// readDataEntry builds a DataEntry paired with its size tag; its
// side-buffer bytes are fetched afterwards by resolveDataEntries.
func (r *Reader) readDataEntry(buf []byte, entry Entry, state ReaderState) (Node, error) {
	sizeTag := uint16(0)
	if entry.Tag == TagJPEGInterchangeFmt {
		sizeTag = TagJPEGInterchangeFmtLn
	} else if entry.Tag == TagStripOffsets {
		sizeTag = TagStripByteCounts
	}

	de := &DataEntry{Entry: entry, SizeTag: sizeTag}

	// The offset value doubles as the payload location; length is
	// resolved by resolveDataEntries once the whole directory is read,
	// since directory order is not guaranteed to put the size entry
	// first (spec.md §4.3 duplicate/any-order handling).
	return de, nil
}

// readSubIfd follows one or more u32 offsets into nested directories.
func (r *Reader) readSubIfd(buf []byte, entry Entry, parentGroup metadata.Group, state ReaderState) (Node, error) {
	childGrp, ok := childGroup(entry.Tag)
	if !ok {
		childGrp = parentGroup
	}

	n := len(entry.Raw) / 4
	if n == 0 {
		n = 1
	}

	se := &SubIfdEntry{Entry: entry}

	for i := 0; i < n; i++ {
		var off uint32
		if len(entry.Raw) >= (i+1)*4 {
			off = bytecodec.GetU32(entry.Raw[i*4:i*4+4], state.Order)
		}

		grp := childGrp
		if entry.Tag == TagSubIFDs {
			grp = nthSubImageGroup(i)
		}

		child, err := r.readDirectory(buf, off, grp, state, false)
		if err != nil {
			r.log.Warn("skipping sub-ifd", "tag", entry.Tag, "index", i, "error", err)
			continue
		}

		se.Children = append(se.Children, child)
	}

	return se, nil
}

// nthSubImageGroup returns the i'th sequential sub-image group
// (GroupSubImage1, GroupSubImage2, ...), clamped to the last defined
// slot if the directory carries more sub-IFDs than named groups.
func nthSubImageGroup(i int) metadata.Group {
	groups := []metadata.Group{
		metadata.GroupSubImage1, metadata.GroupSubImage2, metadata.GroupSubImage3,
		metadata.GroupSubImage4, metadata.GroupSubImage5, metadata.GroupSubImage6,
		metadata.GroupSubImage7, metadata.GroupSubImage8, metadata.GroupSubImage9,
	}
	if i < 0 || i >= len(groups) {
		return groups[len(groups)-1]
	}

	return groups[i]
}

// trimASCIIBytes strips trailing NUL bytes from an inline ASCII field.
func trimASCIIBytes(b []byte) string {
	end := len(b)
	for end > 0 && b[end-1] == 0 {
		end--
	}

	return string(b[:end])
}

// readBinaryArray expands a fixed-layout Canon-style array entry into
// its declared fields (spec.md §4.3 point 4).
func (r *Reader) readBinaryArray(entry Entry, group metadata.Group) (Node, error) {
	fields, fieldGroup, ok := canonArrayFields(entry.Tag, entry.Raw, entry.Order)
	if !ok {
		return &entry, nil
	}

	return &BinaryArrayEntry{Entry: entry, FieldGroup: fieldGroup, Fields: fields}, nil
}
