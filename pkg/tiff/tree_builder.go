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

// dirRelation describes how one group's directory attaches to its
// parent: the pointer tag the parent carries, and whether the group is
// a vendor maker note, whose canonical header bytes vendorHeaderBytes
// regenerates on a from-scratch rebuild, since a flat MetadataSet retains no header
// bytes of its own (spec.md §4.4 write-back note; Open Question
// resolution #5 in DESIGN.md).
type dirRelation struct {
	parent     metadata.Group
	pointerTag uint16
	isMakerNote bool
}

var groupRelations = map[metadata.Group]dirRelation{ //nolint:gochecknoglobals // immutable relation table
	metadata.GroupPhoto:      {parent: metadata.GroupImage, pointerTag: TagExifIFDPointer},
	metadata.GroupGPSInfo:    {parent: metadata.GroupImage, pointerTag: TagGPSInfoIFDPointer},
	metadata.GroupIop:        {parent: metadata.GroupPhoto, pointerTag: TagInteropIFDPointer},
	metadata.GroupCanon:      {parent: metadata.GroupPhoto, pointerTag: TagMakerNote, isMakerNote: true},
	metadata.GroupOlympus:    {parent: metadata.GroupPhoto, pointerTag: TagMakerNote, isMakerNote: true},
	metadata.GroupFuji:       {parent: metadata.GroupPhoto, pointerTag: TagMakerNote, isMakerNote: true},
	metadata.GroupNikon1:     {parent: metadata.GroupPhoto, pointerTag: TagMakerNote, isMakerNote: true},
	metadata.GroupNikon2:     {parent: metadata.GroupPhoto, pointerTag: TagMakerNote, isMakerNote: true},
	metadata.GroupNikon3:     {parent: metadata.GroupPhoto, pointerTag: TagMakerNote, isMakerNote: true},
	metadata.GroupPanasonic:  {parent: metadata.GroupPhoto, pointerTag: TagMakerNote, isMakerNote: true},
	metadata.GroupSigma:      {parent: metadata.GroupPhoto, pointerTag: TagMakerNote, isMakerNote: true},
	metadata.GroupSony1:      {parent: metadata.GroupPhoto, pointerTag: TagMakerNote, isMakerNote: true},
	metadata.GroupSony2:      {parent: metadata.GroupPhoto, pointerTag: TagMakerNote, isMakerNote: true},
	metadata.GroupMinolta:    {parent: metadata.GroupPhoto, pointerTag: TagMakerNote, isMakerNote: true},
}

// subImageGroups lists the groups multiplexed onto the single
// TagSubIFDs pointer (spec.md §3.4).
var subImageGroups = []metadata.Group{ //nolint:gochecknoglobals // immutable ordering table
	metadata.GroupSubImage1, metadata.GroupSubImage2, metadata.GroupSubImage3,
	metadata.GroupSubImage4, metadata.GroupSubImage5, metadata.GroupSubImage6,
	metadata.GroupSubImage7, metadata.GroupSubImage8, metadata.GroupSubImage9,
}

// binaryArrayGroups maps a Canon binary-array field group back to its
// owning array tag; every such array nests under the Canon maker note
// (see buildMakerNoteEntry).
var binaryArrayGroups = map[metadata.Group]uint16{ //nolint:gochecknoglobals // immutable relation table
	metadata.GroupCanonCs: TagCanonCameraSettings,
	metadata.GroupCanonSi: TagCanonShotInfo,
	metadata.GroupCanonCf: TagCanonCustomFunctions,
}

// RebuildTree constructs a fresh Directory chain from set, grouping
// records by their Key.Group and attaching sub-IFDs, maker notes, and
// binary arrays per groupRelations. Records whose group has no known
// placement are folded into GroupImage to avoid silently losing data.
func RebuildTree(set *metadata.MetadataSet) *Directory {
	byGroup := map[metadata.Group][]metadata.Record{}

	for i := 0; i < set.Len(); i++ {
		r := set.At(i)
		g := r.Key.Group

		if _, isArrayGroup := binaryArrayGroups[g]; isArrayGroup {
			byGroup[g] = append(byGroup[g], r)
			continue
		}

		if g != metadata.GroupImage && g != metadata.GroupThumbnail && groupRelations[g].parent == "" && !isSubImageGroup(g) {
			g = metadata.GroupImage
		}

		byGroup[g] = append(byGroup[g], r)
	}

	ifd0 := buildPlainDirectory(metadata.GroupImage, byGroup[metadata.GroupImage], true)
	attachChildren(ifd0, byGroup)

	if recs, ok := byGroup[metadata.GroupThumbnail]; ok && len(recs) > 0 {
		ifd0.Next = buildPlainDirectory(metadata.GroupThumbnail, recs, true)
		attachChildren(ifd0.Next, byGroup)
	}

	return ifd0
}

func isSubImageGroup(g metadata.Group) bool {
	for _, sg := range subImageGroups {
		if sg == g {
			return true
		}
	}

	return false
}

// attachChildren adds Exif/GPS/Interop/maker-note/sub-image entries to
// dir for every child group whose dirRelation.parent is dir.Grp.
func attachChildren(dir *Directory, byGroup map[metadata.Group][]metadata.Record) {
	for group, rel := range groupRelations {
		if rel.parent != dir.Grp {
			continue
		}

		recs := byGroup[group]
		if rel.isMakerNote {
			if len(recs) == 0 && !hasBinaryArrayRecords(group, byGroup) {
				continue
			}

			dir.Entries = append(dir.Entries, buildMakerNoteEntry(group, recs, byGroup))

			continue
		}

		if len(recs) == 0 {
			continue
		}

		child := buildPlainDirectory(group, recs, false)
		attachChildren(child, byGroup)

		dir.Entries = append(dir.Entries, &SubIfdEntry{
			Entry:    Entry{Tag: rel.pointerTag, TypeCode: metadata.TypeLong, Count: 1, Grp: dir.Grp},
			Children: []*Directory{child},
		})
	}

	if dir.Grp == metadata.GroupImage {
		attachSubImages(dir, byGroup)
	}
}

func attachSubImages(dir *Directory, byGroup map[metadata.Group][]metadata.Record) {
	var children []*Directory

	for _, g := range subImageGroups {
		recs := byGroup[g]
		if len(recs) == 0 {
			continue
		}

		children = append(children, buildPlainDirectory(g, recs, false))
	}

	if len(children) == 0 {
		return
	}

	dir.Entries = append(dir.Entries, &SubIfdEntry{
		Entry:    Entry{Tag: TagSubIFDs, TypeCode: metadata.TypeLong, Count: uint32(len(children)), Grp: dir.Grp},
		Children: children,
	})
}

func hasBinaryArrayRecords(vendorGroup metadata.Group, byGroup map[metadata.Group][]metadata.Record) bool {
	if vendorGroup != metadata.GroupCanon {
		return false
	}

	for arrGroup := range binaryArrayGroups {
		if len(byGroup[arrGroup]) > 0 {
			return true
		}
	}

	return false
}

// buildMakerNoteEntry assembles a vendor maker-note directory plus its
// canonical (regenerated) header block.
func buildMakerNoteEntry(vendorGroup metadata.Group, recs []metadata.Record, byGroup map[metadata.Group][]metadata.Record) Node {
	dir := buildPlainDirectory(vendorGroup, recs, false)

	if vendorGroup == metadata.GroupCanon {
		for arrGroup, tag := range binaryArrayGroups {
			fieldRecs := byGroup[arrGroup]
			if len(fieldRecs) == 0 {
				continue
			}

			dir.Entries = append(dir.Entries, buildBinaryArrayEntry(tag, arrGroup, fieldRecs))
		}
	}

	header := vendorHeaderBytes(vendorGroup)

	note := &IfdMakerNote{HeaderBlock: header, Dir: dir, VendorGroup: vendorGroup}

	return &MakerNoteEntry{Entry: Entry{Tag: TagMakerNote, TypeCode: metadata.TypeUndefined, Grp: metadata.GroupPhoto}, Note: note}
}

// buildBinaryArrayEntry re-packs named Canon array fields back into a
// single fixed-layout entry. Field tag N occupies raw element N-1 (no
// leading element-count slot), mirroring canonArrayFields' read-side
// convention.
func buildBinaryArrayEntry(tag uint16, fieldGroup metadata.Group, recs []metadata.Record) Node {
	maxTag := 0

	for _, r := range recs {
		if int(r.Key.Tag) > maxTag {
			maxTag = int(r.Key.Tag)
		}
	}

	raw := make([]byte, maxTag*2)
	fields := make([]BinaryArrayField, 0, len(recs))

	for _, r := range recs {
		idx := int(r.Key.Tag) - 1
		if idx >= 0 && idx*2+2 <= len(raw) {
			copy(raw[idx*2:idx*2+2], r.Value.Bytes())
		}

		fields = append(fields, BinaryArrayField{Index: idx + 1, Tag: r.Key.Tag, TypeCode: r.Value.Type(), Order: r.Value.Order(), Bytes: r.Value.Bytes()})
	}

	return &BinaryArrayEntry{
		Entry:      Entry{Tag: tag, TypeCode: metadata.TypeUndefined, Count: uint32(len(raw)), Raw: raw, Grp: metadata.GroupCanon},
		FieldGroup: fieldGroup,
		Fields:     fields,
	}
}

// buildPlainDirectory builds one Directory from recs. Most records
// become a plain Entry; the JPEGInterchangeFormat/Length and
// StripOffsets/ByteCounts pairs become DataEntry/SizeEntry nodes
// instead, so a from-scratch rebuild keeps carrying the thumbnail/strip
// bytes captured in the record's data area rather than a stale offset
// integer (spec.md §8 invariant #3: round-trip preserves every
// (group, tag, type, count, bytes) tuple; binary-array and maker-note
// children are added separately by the caller).
func buildPlainDirectory(group metadata.Group, recs []metadata.Record, hasNext bool) *Directory {
	dir := &Directory{Grp: group, HasNext: hasNext}

	for _, r := range recs {
		if node := buildDataPairEntry(group, r); node != nil {
			dir.Entries = append(dir.Entries, node)
			continue
		}

		dir.Entries = append(dir.Entries, &Entry{
			Tag:      r.Key.Tag,
			TypeCode: r.Value.Type(),
			Count:    r.Value.Count(),
			Raw:      r.Value.Bytes(),
			Grp:      group,
			Order:    r.Value.Order(),
			Inline:   r.Value.Size() <= 4,
		})
	}

	return dir
}

// buildDataPairEntry emits the DataEntry/SizeEntry half of r when r's
// tag is one of the pairs StandardCreator routes to a side-buffer node
// (TagJPEGInterchangeFmt/Ln, TagStripOffsets/ByteCounts) within
// GroupImage or GroupThumbnail, the only groups StandardCreator grants
// that routing to. Returns nil for every other record so the caller
// falls back to a plain Entry.
func buildDataPairEntry(group metadata.Group, r metadata.Record) Node {
	if group != metadata.GroupImage && group != metadata.GroupThumbnail {
		return nil
	}

	entry := Entry{
		Tag:      r.Key.Tag,
		TypeCode: r.Value.Type(),
		Count:    r.Value.Count(),
		Raw:      r.Value.Bytes(),
		Grp:      group,
		Order:    r.Value.Order(),
		Inline:   r.Value.Size() <= 4,
	}

	switch r.Key.Tag {
	case TagJPEGInterchangeFmt:
		return &DataEntry{Entry: entry, SizeTag: TagJPEGInterchangeFmtLn, Data: r.Value.DataArea()}
	case TagStripOffsets:
		return &DataEntry{Entry: entry, SizeTag: TagStripByteCounts, Data: r.Value.DataArea()}
	case TagJPEGInterchangeFmtLn:
		return &SizeEntry{Entry: entry, DataTag: TagJPEGInterchangeFmt}
	case TagStripByteCounts:
		return &SizeEntry{Entry: entry, DataTag: TagStripOffsets}
	default:
		return nil
	}
}

// vendorHeaderBytes regenerates the canonical header block for a
// maker-note vendor, matching the byte sequences in spec.md §4.4/§6.5.
// Vendors with no header (Canon, Nikon1, Sony2, Minolta) return nil.
func vendorHeaderBytes(group metadata.Group) []byte {
	switch group {
	case metadata.GroupOlympus:
		return []byte("OLYMP\x00\x01\x00")
	case metadata.GroupFuji:
		return []byte("FUJIFILM\x0c\x00\x00\x00")
	case metadata.GroupNikon2:
		return []byte("Nikon\x00\x00\x01")
	case metadata.GroupNikon3:
		header := make([]byte, 18)
		copy(header, []byte("Nikon\x00\x02\x10"))
		copy(header[10:18], SerializeHeader(Header{Order: bytecodec.LittleEndian, Magic: StandardMagic, IFDOffset: 8}))

		return header
	case metadata.GroupPanasonic:
		return []byte("Panasonic\x00\x00\x00")
	case metadata.GroupSigma:
		return []byte("SIGMA\x00\x00\x00\x01\x00")
	case metadata.GroupSony1:
		return []byte("SONY DSC \x00\x00\x00")
	default:
		return nil
	}
}
