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
	"github.com/ma-tf/exifcore/pkg/bytecodec"
	"github.com/ma-tf/exifcore/pkg/metadata"
)

// EntryKind selects which Node variant a creator builds for a given
// (tag, group) pair.
type EntryKind int

const (
	KindPlain EntryKind = iota
	KindDataEntry
	KindSizeEntry
	KindSubIfd
	KindMakerNote
	KindBinaryArray
)

// CreatorFunc maps a directory's group and an entry's tag to the node
// variant the reader should build. The registered standard creator
// (see creator.go) is process-wide immutable data, matching spec.md
// §9's guidance on global registries.
type CreatorFunc func(tag uint16, group metadata.Group) EntryKind

// ReaderState threads the parameters that change per subtree: byte
// order, the offset base that subtree offsets are measured from, and
// the creator table used to route entries to node variants. Maker-note
// recursion can replace all three for that subtree only.
type ReaderState struct {
	Order   bytecodec.ByteOrder
	Base    uint32
	Creator CreatorFunc

	// ancestors holds directory offsets already entered in this
	// subtree's lineage, for cycle detection (spec.md §4.3). It is
	// never mutated in place: each recursive descent extends a copy,
	// so sibling branches never see each other's ancestry.
	ancestors map[uint32]bool
}

// DefaultState returns the initial reader state: host-detected byte
// order, base offset 0, and the standard TIFF creator table.
func DefaultState(order bytecodec.ByteOrder) ReaderState {
	return ReaderState{Order: order, Base: 0, Creator: StandardCreator, ancestors: map[uint32]bool{}}
}

// withAncestor returns a copy of s whose ancestor set additionally
// contains offset, or an error if offset is already present (a cycle).
func (s ReaderState) withAncestor(offset uint32) (ReaderState, error) {
	if s.ancestors[offset] {
		return s, ErrCircularReference
	}

	next := make(map[uint32]bool, len(s.ancestors)+1)
	for k := range s.ancestors {
		next[k] = true
	}

	next[offset] = true

	clone := s
	clone.ancestors = next

	return clone, nil
}

// WithOverride returns a copy of s with order/base/creator replaced,
// used by maker-note dispatch to establish a new subtree state while
// preserving the ancestor lineage for cycle detection.
func (s ReaderState) WithOverride(order bytecodec.ByteOrder, base uint32, creator CreatorFunc) ReaderState {
	clone := s
	clone.Order = order
	clone.Base = base
	clone.Creator = creator

	return clone
}
