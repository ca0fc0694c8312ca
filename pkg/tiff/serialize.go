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

	"github.com/ma-tf/exifcore/pkg/bytecodec"
	"github.com/ma-tf/exifcore/pkg/metadata"
)

// treeWriter lays out a rebuilt Directory chain into a single
// contiguous blob. It writes depth-first: a directory's own entry
// table and immediate (plain-array) overflow are emitted first, then
// each entry that points at recursively-serialized content (a child
// sub-IFD, a maker-note body, a data-entry blob) is written right
// after, with the pointing entry's offset field patched in place once
// the child's start position is known. Patches are always applied to
// positions already behind the write cursor, so no deferred patch list
// is needed.
type treeWriter struct {
	buf   bytes.Buffer
	order bytecodec.ByteOrder
}

// SerializeHeader writes an 8-byte TIFF header.
func SerializeHeader(hdr Header) []byte {
	out := make([]byte, 8)

	if hdr.Order == bytecodec.BigEndian {
		copy(out[0:2], []byte("MM"))
	} else {
		copy(out[0:2], []byte("II"))
	}

	bytecodec.PutU16(out[2:4], hdr.Magic, hdr.Order)
	bytecodec.PutU32(out[4:8], hdr.IFDOffset, hdr.Order)

	return out
}

// SerializeTree writes an 8-byte header followed by dir's directory
// chain, and returns the complete blob. The header's IFDOffset always
// points immediately past the header (byte 8); base offset 0.
func SerializeTree(dir *Directory, order bytecodec.ByteOrder, magic uint16) []byte {
	w := &treeWriter{order: order}
	w.buf.Write(SerializeHeader(Header{Order: order, Magic: magic, IFDOffset: 8}))
	w.writeDirectoryChain(dir)

	return w.buf.Bytes()
}

func (w *treeWriter) patchU32(pos uint32, val uint32) {
	b := w.buf.Bytes()
	bytecodec.PutU32(b[pos:pos+4], val, w.order)
}

// writeDirectoryChain writes dir, then recursively its Next sibling,
// patching the u32 "next IFD" pointer once the sibling's start offset
// is known. Returns dir's own start offset.
func (w *treeWriter) writeDirectoryChain(dir *Directory) uint32 {
	dirStart := uint32(w.buf.Len())

	sorted := sortedEntries(dir.Entries)
	n := uint16(len(sorted))

	// Maker-note bodies must be fully serialized before this
	// directory's entry table is written, since the table needs each
	// entry's final byte count up front. The maker-note subtree is
	// always written self-relative (base 0): its own internal offsets
	// (if any) are resolved within makerNoteBody, not against the
	// outer file. This is a deliberate simplification from the
	// read-side "inherits outer base" quirk some vendors use; see
	// DESIGN.md.
	makerNoteBodies := map[*MakerNoteEntry][]byte{}

	for _, node := range sorted {
		mn, ok := node.(*MakerNoteEntry)
		if !ok || mn.Note == nil {
			continue
		}

		sub := &treeWriter{order: w.order}
		if mn.Note.HeaderBlock != nil {
			sub.buf.Write(mn.Note.HeaderBlock)
		}

		if mn.Note.Dir != nil {
			sub.writeDirectoryChain(mn.Note.Dir)
		}

		makerNoteBodies[mn] = sub.buf.Bytes()
	}

	header := make([]byte, dirCountSz)
	bytecodec.PutU16(header, n, w.order)
	w.buf.Write(header)

	entryTableStart := uint32(w.buf.Len())
	w.buf.Write(make([]byte, uint32(n)*entrySize))

	nextPtrPos := uint32(w.buf.Len())
	w.buf.Write(make([]byte, nextPtrSz))

	overflowCursor := uint32(w.buf.Len())

	type deferredWrite struct {
		node        Node
		offsetPos   uint32 // position of the u32 slot to patch
		arrayOffset uint32 // for multi-child sub-ifds: offset of this child's own slot within the overflow array
	}

	var deferred []deferredWrite

	for i, node := range sorted {
		entryPos := entryTableStart + uint32(i)*entrySize

		tag, typeCode, count := nodeIdentity(node)

		if mn, ok := node.(*MakerNoteEntry); ok {
			if body, ok := makerNoteBodies[mn]; ok {
				count = uint32(len(body))
			}
		}

		header := make([]byte, 8)
		bytecodec.PutU16(header[0:2], tag, w.order)
		bytecodec.PutU16(header[2:4], uint16(typeCode), w.order)
		bytecodec.PutU32(header[4:8], count, w.order)
		w.overwriteAt(entryPos, header)

		switch e := node.(type) {
		case *Entry:
			w.writePlainValue(entryPos+8, typeCode, count, e.Raw, &overflowCursor)

		case *SizeEntry:
			size := siblingDataSize(sorted, e.DataTag)
			w.overwriteAt(entryPos+8, u32bytes(size, w.order))

		case *DataEntry:
			deferred = append(deferred, deferredWrite{node: node, offsetPos: entryPos + 8})

		case *SubIfdEntry:
			if len(e.Children) == 1 {
				deferred = append(deferred, deferredWrite{node: node, offsetPos: entryPos + 8})
			} else {
				arrStart := overflowCursor
				overflowCursor += uint32(len(e.Children)) * 4
				w.buf.Write(make([]byte, uint32(len(e.Children))*4))
				bytecodec.PutU32(w.mustSlice(entryPos+8, 4), arrStart, w.order)

				for idx := range e.Children {
					deferred = append(deferred, deferredWrite{node: node, offsetPos: arrStart + uint32(idx)*4, arrayOffset: uint32(idx)})
				}
			}

		case *MakerNoteEntry:
			deferred = append(deferred, deferredWrite{node: node, offsetPos: entryPos + 8})

		case *BinaryArrayEntry:
			w.writePlainValue(entryPos+8, typeCode, count, e.Entry.Raw, &overflowCursor)
		}
	}

	// Any plain-array overflow reserved above via writePlainValue has
	// already been appended to w.buf by the time we reach here, since
	// writePlainValue writes immediately; overflowCursor tracks the
	// next free position for subsequent reservations in this loop.
	for _, d := range deferred {
		switch e := d.node.(type) {
		case *DataEntry:
			pos := uint32(w.buf.Len())
			w.buf.Write(e.Data)
			w.patchU32(d.offsetPos, pos)

		case *SubIfdEntry:
			child := e.Children[d.arrayOffset]
			start := w.writeDirectoryChain(child)
			w.patchU32(d.offsetPos, start)

		case *MakerNoteEntry:
			start := uint32(w.buf.Len())
			w.buf.Write(makerNoteBodies[e])
			w.patchU32(d.offsetPos, start)
		}
	}

	if dir.HasNext && dir.Next != nil {
		nextStart := w.writeDirectoryChain(dir.Next)
		w.patchU32(nextPtrPos, nextStart)
	}

	return dirStart
}

// writePlainValue writes count*elemSize(typeCode) bytes of payload:
// inline into the 4-byte entry slot at slotPos if it fits, else
// appended at *cursor with the offset patched into the slot.
func (w *treeWriter) writePlainValue(slotPos uint32, typeCode metadata.TypeCode, count uint32, payload []byte, cursor *uint32) {
	elemSize := metadata.ElemSize(typeCode)
	if elemSize == 0 {
		elemSize = 1
	}

	size := count * elemSize

	if size <= 4 {
		padded := make([]byte, 4)
		copy(padded, payload)
		w.overwriteAt(slotPos, padded)

		return
	}

	offset := *cursor
	w.overwriteAt(slotPos, u32bytes(offset, w.order))

	padded := append([]byte(nil), payload...)
	if len(padded) < int(size) {
		padded = append(padded, make([]byte, int(size)-len(padded))...)
	}

	w.buf.Write(padded)
	*cursor += size
}

// overwriteAt copies b into the buffer's already-written region
// starting at pos; pos+len(b) must not exceed the current length.
func (w *treeWriter) overwriteAt(pos uint32, b []byte) {
	copy(w.mustSlice(pos, uint32(len(b))), b)
}

func (w *treeWriter) mustSlice(pos, length uint32) []byte {
	return w.buf.Bytes()[pos : pos+length]
}

func u32bytes(v uint32, order bytecodec.ByteOrder) []byte {
	b := make([]byte, 4)
	bytecodec.PutU32(b, v, order)

	return b
}

// siblingDataSize looks up the byte length of the DataEntry tagged
// dataTag among siblings, used to fill in a SizeEntry's inline value.
func siblingDataSize(siblings []Node, dataTag uint16) uint32 {
	for _, n := range siblings {
		if de, ok := n.(*DataEntry); ok && de.Tag == dataTag {
			return uint32(len(de.Data))
		}
	}

	return 0
}

// nodeIdentity extracts the (tag, type, count) header fields common to
// every node kind.
func nodeIdentity(n Node) (tag uint16, typeCode metadata.TypeCode, count uint32) {
	switch e := n.(type) {
	case *Entry:
		return e.Tag, e.TypeCode, e.Count
	case *DataEntry:
		return e.Tag, e.TypeCode, e.Count
	case *SizeEntry:
		return e.Tag, e.TypeCode, e.Count
	case *SubIfdEntry:
		n := uint32(len(e.Children))
		if n == 0 {
			n = 1
		}

		return e.Tag, metadata.TypeLong, n
	case *MakerNoteEntry:
		return e.Tag, metadata.TypeUndefined, e.Count
	case *BinaryArrayEntry:
		return e.Tag, e.TypeCode, e.Count
	default:
		return 0, metadata.TypeUndefined, 0
	}
}

// sortedEntries returns entries ordered by ascending tag, stable
// (duplicate tags keep their original relative order), per spec.md
// §4.6 phase-2 layout rule.
func sortedEntries(entries []Node) []Node {
	out := append([]Node(nil), entries...)

	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && nodeTag(out[j-1]) > nodeTag(out[j]); j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}

	return out
}

func nodeTag(n Node) uint16 {
	tag, _, _ := nodeIdentity(n)
	return tag
}
