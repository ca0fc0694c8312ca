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
	"time"

	"github.com/ma-tf/exifcore/pkg/bytecodec"
	"github.com/ma-tf/exifcore/pkg/metadata"
)

// decodeOrder is threaded through every custom decoder via a
// package-level var set at the top of Decode; CIFF, unlike TIFF, has
// no per-subtree byte-order override (every heap shares the file's
// single header-declared order), so there is no ReaderState to carry
// it on.
var decodeOrder bytecodec.ByteOrder //nolint:gochecknoglobals // single-order-per-file, set once per Decode call

// Decode walks root depth-first and flattens every leaf component into
// a MetadataSet via the dual map (spec.md §4.7), plus the root-level
// embedded-preview hack original_source/src/crwimage.cpp's
// CrwParser::decode performs directly on the parsed tree (spec.md S5).
func Decode(root *Component, order bytecodec.ByteOrder) *metadata.MetadataSet {
	decodeOrder = order

	set := metadata.NewMetadataSet()

	decodeChildren(root, set)
	decodePreviewHack(root, set)

	return set
}

func decodeChildren(c *Component, set *metadata.MetadataSet) {
	for _, child := range c.Children {
		if child.IsDirectory() {
			decodeChildren(child, set)
			continue
		}

		if entry, ok := findDecodeEntry(child.Tag, child.Dir); ok {
			if entry.decodeFn != nil {
				entry.decodeFn(child, set)
				continue
			}

			decodeBasic(child, entry.exifTag, entry.group, set)
			continue
		}
	}
}

// decodePreviewHack surfaces the root's 0x2007 JPEG preview entry (if
// any) as a synthetic Exif.Image2 pair carrying its absolute file
// offset, mirroring CrwParser::decode's header.findComponent(0x2007,
// 0x0000) special case rather than the generic dual map (spec.md S5).
func decodePreviewHack(root *Component, set *metadata.MetadataSet) {
	preview := root.find(TagJPEGPreview, TagRootDir)
	if preview == nil || preview.Inline {
		return
	}

	offVal, err := metadata.NewValue(metadata.TypeLong, 1, u32Bytes(uint32(preview.Offset)), decodeOrder)
	if err == nil {
		offVal.SetDataArea(preview.Data)
		set.Insert(metadata.Key{Family: metadata.FamilyImage2, Group: metadata.GroupImage, Tag: TagJPEGPreview}, offVal)
	}

	lenVal, err := metadata.NewValue(metadata.TypeLong, 1, u32Bytes(preview.Size), decodeOrder)
	if err == nil {
		set.Insert(metadata.Key{Family: metadata.FamilyImage2, Group: metadata.GroupImage, Tag: TagJPEGPreview + 1}, lenVal)
	}
}

// decodePreviewNoop is crwDecodeMap's decodeFn for TagJPEGPreview: the
// row exists only to anchor encodePreview, since decodePreviewHack
// (not the dual-map's decodeChildren walk) already surfaces this
// component's offset/size.
func decodePreviewNoop(*Component, *metadata.MetadataSet) {}

// encodePreview re-emits the root preview component from the data area
// decodePreviewHack attached to its synthetic Exif.Image2 offset value
// (spec.md §8 invariant #3: a write must not silently drop the
// embedded preview image).
func encodePreview(set *metadata.MetadataSet) (*Component, bool) {
	rec, ok := set.FindKey(metadata.Key{Family: metadata.FamilyImage2, Group: metadata.GroupImage, Tag: TagJPEGPreview})
	if !ok {
		return nil, false
	}

	data := rec.Value.DataArea()
	if len(data) == 0 {
		return nil, false
	}

	return packComponent(TagJPEGPreview, data), true
}

func u32Bytes(v uint32) []byte {
	b := make([]byte, 4)
	bytecodec.PutU32(b, v, decodeOrder)

	return b
}

// decodeBasic moves a leaf component's raw bytes across as-is,
// choosing the metadata type code from the tag's element-type bits.
func decodeBasic(c *Component, exifTag uint16, group metadata.Group, set *metadata.MetadataSet) {
	typeCode, count := basicType(c)

	v, err := metadata.NewValue(typeCode, count, c.Data, decodeOrder)
	if err != nil {
		return
	}

	set.Insert(metadata.Key{Family: metadata.FamilyExif, Group: group, Tag: exifTag}, v)
}

func basicType(c *Component) (metadata.TypeCode, uint32) {
	switch c.ElementType() {
	case ElemASCII:
		return metadata.TypeASCII, uint32(len(c.Data))
	case ElemShort:
		return metadata.TypeShort, uint32(len(c.Data)) / 2
	case ElemLong:
		return metadata.TypeLong, uint32(len(c.Data)) / 4
	default:
		return metadata.TypeUndefined, uint32(len(c.Data))
	}
}

// decodeUserComment emits the CIFF user-comment entry as
// Exif.Photo.UserComment with an ASCII charset marker (spec.md §4.7).
func decodeUserComment(c *Component, set *metadata.MetadataSet) {
	v := metadata.NewCommentValue(metadata.CharsetASCII, trimNUL(c.Data))
	set.Insert(metadata.Key{Family: metadata.FamilyExif, Group: metadata.GroupPhoto, Tag: 0x9286}, v)
}

func encodeUserComment(set *metadata.MetadataSet) (*Component, bool) {
	rec, ok := set.FindKey(metadata.Key{Family: metadata.FamilyExif, Group: metadata.GroupPhoto, Tag: 0x9286})
	if !ok {
		return nil, false
	}

	return packComponent(TagUserComment, []byte(rec.Value.String())), true
}

// decodeMakeModel splits a single NUL-separated "Make\x00Model\x00"
// CIFF entry into Exif.Image.Make and Exif.Image.Model.
func decodeMakeModel(c *Component, set *metadata.MetadataSet) {
	mk, model := splitMakeModel(c.Data)

	if mk != "" {
		v, err := metadata.ReadFromString(metadata.TypeASCII, mk)
		if err == nil {
			set.Insert(metadata.Key{Family: metadata.FamilyExif, Group: metadata.GroupImage, Tag: 0x010F}, v)
		}
	}

	if model != "" {
		v, err := metadata.ReadFromString(metadata.TypeASCII, model)
		if err == nil {
			set.Insert(metadata.Key{Family: metadata.FamilyExif, Group: metadata.GroupImage, Tag: 0x0110}, v)
		}
	}
}

func splitMakeModel(raw []byte) (string, string) {
	i := indexNUL(raw)
	if i < 0 {
		return trimNUL(raw), ""
	}

	rest := raw[i+1:]
	j := indexNUL(rest)

	if j < 0 {
		return string(raw[:i]), string(rest)
	}

	return string(raw[:i]), string(rest[:j])
}

func encodeMakeModel(set *metadata.MetadataSet) (*Component, bool) {
	makeRec, okMake := set.FindKey(metadata.Key{Family: metadata.FamilyExif, Group: metadata.GroupImage, Tag: 0x010F})
	modelRec, okModel := set.FindKey(metadata.Key{Family: metadata.FamilyExif, Group: metadata.GroupImage, Tag: 0x0110})

	if !okMake && !okModel {
		return nil, false
	}

	var raw []byte

	if okMake {
		raw = append(raw, []byte(makeRec.Value.String())...)
	}

	raw = append(raw, 0)

	if okModel {
		raw = append(raw, []byte(modelRec.Value.String())...)
	}

	raw = append(raw, 0)

	return packComponent(TagMakeModel, raw), true
}

// decodeCameraSettings expands a Canon camera-settings SHORT array
// into named GroupCanonCs fields, using the same 1-based
// position-to-tag convention as pkg/tiff/canon_arrays.go: payload
// element i (0-based) becomes field tag i+1.
func decodeCameraSettings(c *Component, set *metadata.MetadataSet) {
	n := len(c.Data) / 2

	for i := 0; i < n; i++ {
		elem := c.Data[i*2 : i*2+2]

		v, err := metadata.NewValue(metadata.TypeShort, 1, elem, decodeOrder)
		if err != nil {
			continue
		}

		set.Insert(metadata.Key{Family: metadata.FamilyExif, Group: metadata.GroupCanonCs, Tag: uint16(i + 1)}, v)
	}
}

// encodeCameraSettings re-packs every GroupCanonCs field back into a
// single TagCameraSettings1 array entry. The real CRW format splits
// these fields across two physical blocks (0x102d and 0x102a); this
// corpus does not carry the field-to-block assignment table, so both
// decode into the same group and both re-encode into the same single
// entry (documented in DESIGN.md as an intentional, self-consistent
// simplification — not a byte-for-byte Canon transcription).
func encodeCameraSettings(set *metadata.MetadataSet) (*Component, bool) {
	maxTag := 0

	for i := 0; i < set.Len(); i++ {
		r := set.At(i)
		if r.Key.Group == metadata.GroupCanonCs && int(r.Key.Tag) > maxTag {
			maxTag = int(r.Key.Tag)
		}
	}

	if maxTag == 0 {
		return nil, false
	}

	raw := make([]byte, maxTag*2)

	for i := 0; i < set.Len(); i++ {
		r := set.At(i)
		if r.Key.Group != metadata.GroupCanonCs {
			continue
		}

		idx := int(r.Key.Tag) - 1
		if idx >= 0 && idx*2+2 <= len(raw) {
			copy(raw[idx*2:idx*2+2], r.Value.Bytes())
		}
	}

	return packComponent(TagCameraSettings1, raw), true
}

// decodeDateTime converts a 4-byte Unix timestamp into
// Exif.Photo.DateTimeOriginal, formatted "YYYY:MM:DD HH:MM:SS".
func decodeDateTime(c *Component, set *metadata.MetadataSet) {
	if len(c.Data) < 4 {
		return
	}

	sec := bytecodec.GetU32(c.Data, decodeOrder)
	text := time.Unix(int64(sec), 0).UTC().Format("2006:01:02 15:04:05")

	v, err := metadata.ReadFromString(metadata.TypeASCII, text)
	if err != nil {
		return
	}

	set.Insert(metadata.Key{Family: metadata.FamilyExif, Group: metadata.GroupPhoto, Tag: 0x9003}, v)
}

func encodeDateTime(set *metadata.MetadataSet) (*Component, bool) {
	rec, ok := set.FindKey(metadata.Key{Family: metadata.FamilyExif, Group: metadata.GroupPhoto, Tag: 0x9003})
	if !ok {
		return nil, false
	}

	t, err := time.Parse("2006:01:02 15:04:05", rec.Value.String())
	if err != nil {
		return nil, false
	}

	raw := make([]byte, 4)
	bytecodec.PutU32(raw, uint32(t.UTC().Unix()), decodeOrder)

	return packComponent(TagDateTime, raw), true
}

// decodeDimensions splits a width/height LONG pair into
// Exif.Photo.PixelXDimension and Exif.Photo.PixelYDimension.
func decodeDimensions(c *Component, set *metadata.MetadataSet) {
	if len(c.Data) < 8 {
		return
	}

	w, err := metadata.NewValue(metadata.TypeLong, 1, c.Data[0:4], decodeOrder)
	if err == nil {
		set.Insert(metadata.Key{Family: metadata.FamilyExif, Group: metadata.GroupPhoto, Tag: 0xA002}, w)
	}

	h, err := metadata.NewValue(metadata.TypeLong, 1, c.Data[4:8], decodeOrder)
	if err == nil {
		set.Insert(metadata.Key{Family: metadata.FamilyExif, Group: metadata.GroupPhoto, Tag: 0xA003}, h)
	}
}

func encodeDimensions(set *metadata.MetadataSet) (*Component, bool) {
	w, okW := set.FindKey(metadata.Key{Family: metadata.FamilyExif, Group: metadata.GroupPhoto, Tag: 0xA002})
	h, okH := set.FindKey(metadata.Key{Family: metadata.FamilyExif, Group: metadata.GroupPhoto, Tag: 0xA003})

	if !okW || !okH {
		return nil, false
	}

	raw := make([]byte, 8)
	copy(raw[0:4], w.Value.Bytes())
	copy(raw[4:8], h.Value.Bytes())

	return packComponent(TagImageDimensions, raw), true
}

// decodeThumbnail emits the embedded thumbnail as Exif.Thumbnail.* plus
// a synthetic Exif.Image2 pair carrying its absolute file offset
// (spec.md §4.7's 0x2008 rule; distinct from the 0x2007 preview hack).
func decodeThumbnail(c *Component, set *metadata.MetadataSet) {
	off := c.Offset
	size := c.Size

	if c.Inline {
		return
	}

	offBytes := u32Bytes(uint32(off))
	sizeBytes := u32Bytes(size)

	if v, err := metadata.NewValue(metadata.TypeLong, 1, offBytes, decodeOrder); err == nil {
		v.SetDataArea(c.Data)
		set.Insert(metadata.Key{Family: metadata.FamilyExif, Group: metadata.GroupThumbnail, Tag: 0x0201}, v)
	}

	if v, err := metadata.NewValue(metadata.TypeLong, 1, sizeBytes, decodeOrder); err == nil {
		set.Insert(metadata.Key{Family: metadata.FamilyExif, Group: metadata.GroupThumbnail, Tag: 0x0202}, v)
	}

	if v, err := metadata.NewValue(metadata.TypeLong, 1, offBytes, decodeOrder); err == nil {
		v.SetDataArea(c.Data)
		set.Insert(metadata.Key{Family: metadata.FamilyImage2, Group: metadata.GroupThumbnail, Tag: 0x0201}, v)
	}

	if v, err := metadata.NewValue(metadata.TypeLong, 1, sizeBytes, decodeOrder); err == nil {
		set.Insert(metadata.Key{Family: metadata.FamilyImage2, Group: metadata.GroupThumbnail, Tag: 0x0202}, v)
	}
}

// encodeThumbnail re-emits the embedded thumbnail component from the
// data area decodeThumbnail attached to its Exif.Thumbnail offset value
// (spec.md §8 invariant #3: a write must not silently drop the
// embedded thumbnail image).
func encodeThumbnail(set *metadata.MetadataSet) (*Component, bool) {
	rec, ok := set.FindKey(metadata.Key{Family: metadata.FamilyExif, Group: metadata.GroupThumbnail, Tag: 0x0201})
	if !ok {
		return nil, false
	}

	data := rec.Value.DataArea()
	if len(data) == 0 {
		return nil, false
	}

	return packComponent(TagThumbnailImage, data), true
}

// packComponent builds a value component ready for encoding. tag is
// expected to already carry its element-type bits (every TagXxx
// constant in this package does, matching the literal hex constants
// Exiv2's real dictionary uses), so no type bits are added here.
func packComponent(tag uint16, data []byte) *Component {
	return &Component{
		Tag:    tag,
		Dir:    TagRootDir,
		Size:   uint32(len(data)),
		Inline: len(data) <= inlineSizeCeiling,
		Data:   data,
	}
}

func trimNUL(b []byte) string {
	if i := indexNUL(b); i >= 0 {
		return string(b[:i])
	}

	return string(b)
}

func indexNUL(b []byte) int {
	for i, x := range b {
		if x == 0 {
			return i
		}
	}

	return -1
}
