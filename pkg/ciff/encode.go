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
	"sort"

	"github.com/ma-tf/exifcore/pkg/bytecodec"
	"github.com/ma-tf/exifcore/pkg/metadata"
)

// Encode re-packs set through the dual map into a fresh CIFF blob:
// header, then a single flat root heap holding every bridged entry
// (spec.md §4.7's "Regenerate the container" step). Open Question #3
// (DESIGN.md): entries sharing a tag are emitted in crwDecodeMap's own
// declaration order before the final tag-ascending sort, which is
// stable, so duplicate-tag ties keep that order.
func Encode(set *metadata.MetadataSet, order bytecodec.ByteOrder) []byte {
	var comps []*Component

	for _, entry := range crwDecodeMap {
		if entry.encodeFn == nil {
			continue
		}

		comp, ok := entry.encodeFn(set)
		if !ok {
			continue
		}

		comps = append(comps, comp)
	}

	sort.SliceStable(comps, func(i, j int) bool { return comps[i].Tag < comps[j].Tag })

	hdr := Header{Order: order, RootOffset: HeaderSize}
	headerBytes := SerializeHeader(hdr)

	body := serializeRegion(comps, order)

	return append(headerBytes, body...)
}

// serializeRegion lays out comps as one CIFF heap: value areas first
// (referenced entries' data, in entry order), then the index (entries
// sorted by tag — comps is expected pre-sorted by the caller), then
// the entry count, then the offset to the index itself (spec.md §4.7
// "emit value areas, then the index ..., then the count, then the
// offset to the root").
func serializeRegion(comps []*Component, order bytecodec.ByteOrder) []byte {
	var values []byte

	entries := make([]byte, len(comps)*dirEntrySize)

	for i, c := range comps {
		raw := entries[i*dirEntrySize : (i+1)*dirEntrySize]
		bytecodec.PutU16(raw[0:2], c.Tag, order)

		if len(c.Data) <= inlineSizeCeiling {
			bytecodec.PutU32(raw[2:6], uint32(len(c.Data)), order)
			copy(raw[6:6+inlineSizeCeiling], c.Data)
		} else {
			bytecodec.PutU32(raw[2:6], uint32(len(c.Data)), order)
			bytecodec.PutU32(raw[6:10], uint32(len(values)), order)
			values = append(values, c.Data...)
		}
	}

	dirStart := uint32(len(values))

	out := make([]byte, 0, len(values)+len(entries)+6)
	out = append(out, values...)
	out = append(out, entries...)

	countAndTerm := make([]byte, 6)
	bytecodec.PutU16(countAndTerm[0:2], uint16(len(comps)), order)
	bytecodec.PutU32(countAndTerm[2:6], dirStart, order)
	out = append(out, countAndTerm...)

	return out
}
