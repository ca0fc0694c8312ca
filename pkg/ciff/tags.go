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

import "github.com/ma-tf/exifcore/pkg/metadata"

// CIFF tag ids named in original_source/src/crwimage.hpp's CrwMap
// custom-decoder declarations (decode0x0805, decode0x080a, decode0x102a,
// decode0x102d, decode0x180e, decode0x1810, decode0x2008), plus the
// root-level embedded-preview tag crwimage.cpp's CrwParser::decode
// handles directly (0x2007). This is a representative subset, not
// Canon's full CRW tag dictionary: adding a row to crwDecodeMap is
// adding one more bridged tag, not a new code path.
const (
	TagUserComment       uint16 = 0x0805
	TagMakeModel         uint16 = 0x080a
	TagCameraSettings1   uint16 = 0x102d
	TagCameraSettings2   uint16 = 0x102a
	TagDateTime          uint16 = 0x180e
	TagImageDimensions   uint16 = 0x1810
	TagThumbnailImage    uint16 = 0x2008
	TagJPEGPreview       uint16 = 0x2007
	TagExifInformation   uint16 = 0x300c // a heap rather than a leaf: ImageProps/Exif sub-directory
	TagRootDir           uint16 = 0x0000
)

// crwDecodeEntry is one row of the dual (ciff_tag, ciff_dir) <->
// (exif_tag, group) map (spec.md §4.7).
type crwDecodeEntry struct {
	ciffTag  uint16
	ciffDir  uint16
	exifTag  uint16
	group    metadata.Group
	decodeFn func(*Component, *metadata.MetadataSet)
	encodeFn func(*metadata.MetadataSet) (*Component, bool)
}

// crwDecodeMap is the static dual-map table. A row with no custom
// decodeFn uses decodeBasic, which moves the raw element bytes across
// as-is per the tag's element type; a row with no encodeFn is not
// written back by Encode.
var crwDecodeMap = []crwDecodeEntry{ //nolint:gochecknoglobals // immutable dual-map table
	{ciffTag: TagUserComment, ciffDir: TagRootDir, exifTag: 0x9286, group: metadata.GroupPhoto,
		decodeFn: decodeUserComment, encodeFn: encodeUserComment},
	{ciffTag: TagMakeModel, ciffDir: TagRootDir, group: metadata.GroupImage,
		decodeFn: decodeMakeModel, encodeFn: encodeMakeModel},
	{ciffTag: TagCameraSettings1, ciffDir: TagRootDir, group: metadata.GroupCanonCs,
		decodeFn: decodeCameraSettings, encodeFn: encodeCameraSettings},
	{ciffTag: TagCameraSettings2, ciffDir: TagRootDir, group: metadata.GroupCanonCs,
		decodeFn: decodeCameraSettings}, // encode folds both into TagCameraSettings1; see DESIGN.md
	{ciffTag: TagDateTime, ciffDir: TagRootDir, exifTag: 0x9003, group: metadata.GroupPhoto,
		decodeFn: decodeDateTime, encodeFn: encodeDateTime},
	{ciffTag: TagImageDimensions, ciffDir: TagRootDir, group: metadata.GroupPhoto,
		decodeFn: decodeDimensions, encodeFn: encodeDimensions},
	{ciffTag: TagThumbnailImage, ciffDir: TagRootDir, group: metadata.GroupThumbnail,
		decodeFn: decodeThumbnail, encodeFn: encodeThumbnail},
	{ciffTag: TagJPEGPreview, ciffDir: TagRootDir, group: metadata.GroupImage,
		decodeFn: decodePreviewNoop, encodeFn: encodePreview},
}

// findDecodeEntry returns the dual-map row for (tag, dir), if any.
func findDecodeEntry(tag, dir uint16) (crwDecodeEntry, bool) {
	for _, e := range crwDecodeMap {
		if e.ciffTag == tag && e.ciffDir == dir {
			return e, true
		}
	}

	return crwDecodeEntry{}, false
}
