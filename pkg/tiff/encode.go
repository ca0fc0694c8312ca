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

// WriteMethod reports which encoder phase produced the output blob.
type WriteMethod int

const (
	NonIntrusive WriteMethod = iota
	Intrusive
)

// EncodeResult is the outcome of Encode.
type EncodeResult struct {
	Blob        []byte
	Method      WriteMethod
	Oversized   bool // true iff the ceiling was still exceeded after the full filter cascade
	DroppedTags []metadata.Key
}

// previewCascadeEntry is one (length-tag, offset-tag, group) triple
// the filter cascade inspects in order (spec.md §4.6 step c).
type previewCascadeEntry struct {
	lengthTag, offsetTag uint16
	group                metadata.Group
}

var previewCascade = []previewCascadeEntry{ //nolint:gochecknoglobals // immutable filter table
	{TagJPEGInterchangeFmtLn, TagJPEGInterchangeFmt, metadata.GroupImage},
	{TagJPEGInterchangeFmtLn, TagJPEGInterchangeFmt, metadata.GroupThumbnail},
	{0x0202, 0x0201, metadata.GroupNikonPreview},
}

const (
	previewCascadeLimit = 32768
	nameLengthCeiling   = 4096
	absoluteSizeCeiling = 20 * 1024
)

// jpegForbiddenIFD0Tags are IFD0 tags JPEG hosts do not permit (filter
// cascade step a).
var jpegForbiddenIFD0Tags = map[uint16]bool{ //nolint:gochecknoglobals // immutable filter table
	0x0106: true, // PhotometricInterpretation
	TagStripOffsets:    true,
	0x0116:             true, // RowsPerStrip
	TagStripByteCounts: true,
	TagJPEGInterchangeFmt:   true,
	TagJPEGInterchangeFmtLn: true,
	TagSubIFDs:              true,
}

var droppableSubImageGroups = map[metadata.Group]bool{ //nolint:gochecknoglobals // immutable filter table
	metadata.GroupSubImage1: true, metadata.GroupSubImage2: true, metadata.GroupSubImage3: true,
	metadata.GroupSubImage4: true, metadata.GroupSubImage5: true, metadata.GroupSubImage6: true,
	metadata.GroupSubImage7: true, metadata.GroupSubImage8: true, metadata.GroupSubImage9: true,
	metadata.GroupSubThumb1: true, metadata.GroupPanaRaw: true,
	metadata.GroupIFD2: true, metadata.GroupIFD3: true,
}

// Encode merges updated into the tree decoded from original (original
// may be nil for a from-scratch write) and produces a blob no larger
// than ceiling bytes when possible, per spec.md §4.6.
//
// Phase 1 (non-intrusive) succeeds when every updated record already
// has a same-or-larger same-group-and-tag entry in the original tree;
// the bytes are overwritten in a copy of that tree, which SerializeTree
// then lays out afresh, so offsets are not kept from the original
// blob. Any record
// with no match forces phase 2: a full rebuild from updated, ascending
// by tag, followed by the filter cascade if the ceiling is still
// exceeded.
func Encode(original *Directory, hdr Header, updated *metadata.MetadataSet, ceiling int) (EncodeResult, error) {
	if original != nil {
		if blob, ok := tryNonIntrusive(original, hdr, updated, ceiling); ok {
			return EncodeResult{Blob: blob, Method: NonIntrusive}, nil
		}
	}

	return encodeIntrusive(hdr.Order, hdr.Magic, updated, ceiling)
}

// tryNonIntrusive attempts phase 1. It mutates a cloned copy of the
// tree's raw bytes in place; it never touches the directory structure
// itself (no entries added or removed).
func tryNonIntrusive(original *Directory, hdr Header, updated *metadata.MetadataSet, ceiling int) ([]byte, bool) {
	clone := cloneDirectoryChain(original)

	for i := 0; i < updated.Len(); i++ {
		rec := updated.At(i)

		entry := findEntry(clone, rec.Key.Group, rec.Key.Tag)
		if entry == nil {
			return nil, false
		}

		newBytes := rec.Value.Bytes()
		if len(newBytes) > len(entry.Raw) {
			return nil, false
		}

		copy(entry.Raw, newBytes)
		entry.Raw = entry.Raw[:len(newBytes)]
		entry.Count = rec.Value.Count()
		entry.TypeCode = rec.Value.Type()
	}

	blob := SerializeTree(clone, hdr.Order, hdr.Magic)
	if len(blob) > ceiling {
		return nil, false
	}

	return blob, true
}

// encodeIntrusive is phase 2: rebuild the tree from updated only,
// ascending by tag, then apply the filter cascade until the blob fits
// ceiling or the cascade is exhausted.
func encodeIntrusive(order bytecodec.ByteOrder, magic uint16, updated *metadata.MetadataSet, ceiling int) (EncodeResult, error) {
	working := updated.Clone()

	blob, dir := rebuildAndSerialize(order, magic, working)
	if len(blob) <= ceiling {
		return EncodeResult{Blob: blob, Method: Intrusive}, nil
	}

	var dropped []metadata.Key

	dropped = append(dropped, dropGroup(working, func(r metadata.Record) bool {
		return r.Key.Group == metadata.GroupImage && jpegForbiddenIFD0Tags[r.Key.Tag]
	})...)

	blob, dir = rebuildAndSerialize(order, magic, working)
	if len(blob) <= ceiling {
		return EncodeResult{Blob: blob, Method: Intrusive, DroppedTags: dropped}, nil
	}

	dropped = append(dropped, dropGroup(working, func(r metadata.Record) bool {
		return droppableSubImageGroups[r.Key.Group]
	})...)

	blob, dir = rebuildAndSerialize(order, magic, working)
	if len(blob) <= ceiling {
		return EncodeResult{Blob: blob, Method: Intrusive, DroppedTags: dropped}, nil
	}

	dropped = append(dropped, applyPreviewCascade(working, previewCascadeLimit)...)

	blob, dir = rebuildAndSerialize(order, magic, working)
	if len(blob) <= ceiling {
		return EncodeResult{Blob: blob, Method: Intrusive, DroppedTags: dropped}, nil
	}

	dropped = append(dropped, dropGroup(working, func(r metadata.Record) bool {
		size := int(r.Value.Size())
		return size > absoluteSizeCeiling || (size > nameLengthCeiling && isHexNamedTag(r.Key.Tag))
	})...)

	blob, _ = rebuildAndSerialize(order, magic, working)
	_ = dir

	if len(blob) > ceiling {
		return EncodeResult{Blob: blob, Method: Intrusive, Oversized: true, DroppedTags: dropped}, ErrIntrusiveOversize
	}

	return EncodeResult{Blob: blob, Method: Intrusive, DroppedTags: dropped}, nil
}

// isHexNamedTag reports whether tag has no known mnemonic name. pkg/tiff
// has no dependency on a concrete TagNamer — metadata.TagNamer is an
// interface callers inject at the display layer (pkg/tagdict is one
// implementation) — so the drop cascade falls back to a numeric-range
// heuristic: every vendor-range tag (0xC000 and above, outside the
// standard Exif block) is conservatively treated as "0x"-named,
// matching the cascade's intent of shedding unrecognized bulky
// metadata first.
func isHexNamedTag(tag uint16) bool {
	return tag >= 0xC000
}

func dropGroup(set *metadata.MetadataSet, pred func(metadata.Record) bool) []metadata.Key {
	var keys []metadata.Key

	for i := 0; i < set.Len(); i++ {
		r := set.At(i)
		if pred(r) {
			keys = append(keys, r.Key)
		}
	}

	set.Erase(pred)

	return keys
}

// applyPreviewCascade walks previewCascade in order; if a length tag's
// value sum exceeds limit, it drops the length, the offset, and every
// record in the associated group.
func applyPreviewCascade(set *metadata.MetadataSet, limit int) []metadata.Key {
	var dropped []metadata.Key

	for _, c := range previewCascade {
		rec, ok := set.FindKey(metadata.Key{Family: metadata.FamilyExif, Group: c.group, Tag: c.lengthTag})
		if !ok {
			continue
		}

		n, err := rec.Value.ToInt64(0)
		if err != nil || int(n) <= limit {
			continue
		}

		dropped = append(dropped, dropGroup(set, func(r metadata.Record) bool {
			return r.Key.Group == c.group
		})...)
	}

	return dropped
}

// rebuildAndSerialize constructs a fresh Directory tree from set
// (grouped by IFD, chained per §3.3) and serializes it.
func rebuildAndSerialize(order bytecodec.ByteOrder, magic uint16, set *metadata.MetadataSet) ([]byte, *Directory) {
	dir := RebuildTree(set)

	return SerializeTree(dir, order, magic), dir
}

// cloneDirectoryChain deep-copies a directory chain's Entry-bearing
// nodes' Raw byte slices so in-place edits never alias the original
// tree (spec.md §5 read-only-input rule).
func cloneDirectoryChain(dir *Directory) *Directory {
	if dir == nil {
		return nil
	}

	out := &Directory{Grp: dir.Grp, HasNext: dir.HasNext, Next: cloneDirectoryChain(dir.Next)}

	for _, n := range dir.Entries {
		out.Entries = append(out.Entries, cloneNode(n))
	}

	return out
}

func cloneNode(n Node) Node {
	switch e := n.(type) {
	case *Entry:
		c := *e
		c.Raw = append([]byte(nil), e.Raw...)

		return &c

	case *DataEntry:
		c := *e
		c.Raw = append([]byte(nil), e.Raw...)
		c.Data = append([]byte(nil), e.Data...)

		return &c

	case *SizeEntry:
		c := *e
		c.Raw = append([]byte(nil), e.Raw...)

		return &c

	case *SubIfdEntry:
		c := *e
		c.Raw = append([]byte(nil), e.Raw...)
		c.Children = nil

		for _, child := range e.Children {
			c.Children = append(c.Children, cloneDirectoryChain(child))
		}

		return &c

	case *MakerNoteEntry:
		c := *e
		c.Raw = append([]byte(nil), e.Raw...)

		if e.Note != nil {
			noteCopy := *e.Note
			noteCopy.Dir = cloneDirectoryChain(e.Note.Dir)
			c.Note = &noteCopy
		}

		return &c

	case *BinaryArrayEntry:
		c := *e
		c.Raw = append([]byte(nil), e.Raw...)
		c.Fields = append([]BinaryArrayField(nil), e.Fields...)

		return &c

	default:
		return n
	}
}

// findEntry locates the first Entry-bearing node in dir's chain (and
// its sub-IFDs and maker note) matching group and tag.
func findEntry(dir *Directory, group metadata.Group, tag uint16) *Entry {
	for d := dir; d != nil; d = d.Next {
		for _, n := range d.Entries {
			if e := findEntryInNode(n, group, tag); e != nil {
				return e
			}
		}
	}

	return nil
}

func findEntryInNode(n Node, group metadata.Group, tag uint16) *Entry {
	switch e := n.(type) {
	case *Entry:
		if e.Grp == group && e.Tag == tag {
			return e
		}
	case *DataEntry:
		if e.Grp == group && e.Tag == tag {
			return &e.Entry
		}
	case *SizeEntry:
		if e.Grp == group && e.Tag == tag {
			return &e.Entry
		}
	case *SubIfdEntry:
		for _, child := range e.Children {
			if found := findEntry(child, group, tag); found != nil {
				return found
			}
		}
	case *MakerNoteEntry:
		if e.Note != nil {
			if found := findEntry(e.Note.Dir, group, tag); found != nil {
				return found
			}
		}
	case *BinaryArrayEntry:
		if e.Grp == group && e.Tag == tag {
			return &e.Entry
		}
	}

	return nil
}
