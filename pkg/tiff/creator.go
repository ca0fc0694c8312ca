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

import "github.com/ma-tf/exifcore/pkg/metadata"

// Well-known tags that route to a non-plain Node variant. Names follow
// the Exif 2.3 tag names, grounded on the Exiv2 tiffcomposite.cpp
// creator table in original_source/.
const (
	TagExifIFDPointer       = 0x8769
	TagGPSInfoIFDPointer    = 0x8825
	TagInteropIFDPointer    = 0xA005
	TagSubIFDs              = 0x014A
	TagMakerNote            = 0x927C
	TagJPEGInterchangeFmt   = 0x0201
	TagJPEGInterchangeFmtLn = 0x0202
	TagStripOffsets         = 0x0111
	TagStripByteCounts      = 0x0117
	TagCanonCameraSettings  = 0x0001
	TagCanonShotInfo        = 0x0004
	TagCanonCustomFunctions = 0x000F
	TagCanonAFInfo          = 0x0012

	tagMake = 0x010F
)

// subIfdGroup maps a sub-IFD pointer tag to the group its children
// belong to.
var subIfdGroup = map[uint16]metadata.Group{
	TagExifIFDPointer:    metadata.GroupPhoto,
	TagGPSInfoIFDPointer: metadata.GroupGPSInfo,
	TagInteropIFDPointer: metadata.GroupIop,
	TagSubIFDs:           metadata.GroupSubImage1,
}

// canonBinaryArrayTags holds the Canon maker-note tags whose payload is
// a fixed-layout binary record rather than a scalar array (spec.md
// §4.4, Exiv2 canonmn2.cpp CameraSettings/ShotInfo tables).
var canonBinaryArrayTags = map[uint16]bool{
	TagCanonCameraSettings:  true,
	TagCanonShotInfo:        true,
	TagCanonCustomFunctions: true,
}

// StandardCreator is the default (tag, group) -> EntryKind dispatch
// table used by the top-level TIFF/Exif reader. Maker-note subtrees
// are read with the same creator: readMakerNote passes it through
// ReaderState.WithOverride unchanged.
func StandardCreator(tag uint16, group metadata.Group) EntryKind {
	if group == metadata.GroupImage || group == GroupThumbnailAlias {
		switch tag {
		case TagJPEGInterchangeFmt:
			return KindDataEntry
		case TagJPEGInterchangeFmtLn:
			return KindSizeEntry
		case TagStripOffsets:
			return KindDataEntry
		case TagStripByteCounts:
			return KindSizeEntry
		}
	}

	if _, ok := subIfdGroup[tag]; ok {
		return KindSubIfd
	}

	if group == metadata.GroupPhoto && tag == TagMakerNote {
		return KindMakerNote
	}

	if group == metadata.GroupCanon && canonBinaryArrayTags[tag] {
		return KindBinaryArray
	}

	return KindPlain
}

// GroupThumbnailAlias lets StandardCreator recognize the thumbnail IFD
// (IFD1) as carrying the same JPEGInterchangeFormat/Length pairing as
// IFD0, without the reader needing a separate table per IFD index.
const GroupThumbnailAlias = metadata.GroupThumbnail

// childGroup resolves which group a SubIfdEntry's children take. Most
// pointer tags carry a single fixed group; TagSubIFDs (0x014A) assigns
// sequential sub-image groups per spec.md §3.4, computed by the reader
// from the child's position rather than looked up here.
func childGroup(tag uint16) (metadata.Group, bool) {
	g, ok := subIfdGroup[tag]
	return g, ok
}
