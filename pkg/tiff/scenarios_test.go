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

package tiff_test

import (
	"bytes"
	"testing"

	"github.com/ma-tf/exifcore/pkg/bytecodec"
	"github.com/ma-tf/exifcore/pkg/metadata"
	"github.com/ma-tf/exifcore/pkg/tiff"
)

func u16le(v uint16) []byte {
	b := make([]byte, 2)
	bytecodec.PutU16(b, v, bytecodec.LittleEndian)

	return b
}

func u32le(v uint32) []byte {
	b := make([]byte, 4)
	bytecodec.PutU32(b, v, bytecodec.LittleEndian)

	return b
}

// entry12 builds one 12-byte little-endian directory entry. inline is
// the raw 4-byte value/offset slot, left-padded with zero bytes if
// shorter.
func entry12(tag uint16, typeCode metadata.TypeCode, count uint32, inline []byte) []byte {
	b := make([]byte, 12)
	copy(b[0:2], u16le(tag))
	copy(b[2:4], u16le(uint16(typeCode)))
	copy(b[4:8], u32le(count))
	copy(b[8:12], inline)

	return b
}

func header() []byte {
	out := make([]byte, 0, 8)
	out = append(out, "II"...)
	out = append(out, u16le(tiff.StandardMagic)...)
	out = append(out, u32le(8)...)

	return out
}

// TestDecodeScenarioS1MinimalRoundTrip covers spec.md's S1: a single
// inline LONG entry must decode to one record and re-encode
// byte-exact.
func TestDecodeScenarioS1MinimalRoundTrip(t *testing.T) {
	t.Parallel()

	var buf []byte
	buf = append(buf, header()...)
	buf = append(buf, u16le(1)...)
	buf = append(buf, entry12(0x0100, metadata.TypeLong, 1, u32le(640))...)
	buf = append(buf, u32le(0)...)

	r := tiff.NewReader(nil)

	dir, hdr, err := r.ReadIFD0(buf, metadata.GroupImage)
	if err != nil {
		t.Fatalf("ReadIFD0: %v", err)
	}

	set, err := tiff.Decode(dir, tiff.DecodeOptions{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if set.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", set.Len())
	}

	rec, ok := set.FindKey(metadata.Key{Family: metadata.FamilyExif, Group: metadata.GroupImage, Tag: 0x0100})
	if !ok {
		t.Fatal("ImageWidth record not found")
	}

	got, err := rec.Value.ToInt64(0)
	if err != nil || got != 640 {
		t.Errorf("ImageWidth = %d, err %v; want 640", got, err)
	}

	blob := tiff.SerializeTree(dir, hdr.Order, hdr.Magic)
	if !bytes.Equal(blob, buf) {
		t.Errorf("re-encoded blob differs from input:\n got % x\nwant % x", blob, buf)
	}
}

// TestDecodeScenarioS2InlineVsOffsetBoundary covers spec.md's S2: a
// 5-byte ASCII value must be read from an offset, a 4-byte ASCII value
// decodes inline; both trim at the first NUL.
func TestDecodeScenarioS2InlineVsOffsetBoundary(t *testing.T) {
	t.Parallel()

	t.Run("offset", func(t *testing.T) {
		t.Parallel()

		var buf []byte
		buf = append(buf, header()...)
		buf = append(buf, u16le(1)...)
		buf = append(buf, entry12(0x010f, metadata.TypeASCII, 5, u32le(26))...)
		buf = append(buf, u32le(0)...)
		buf = append(buf, []byte("Ca\x00\x00\x00")...)

		r := tiff.NewReader(nil)

		dir, _, err := r.ReadIFD0(buf, metadata.GroupImage)
		if err != nil {
			t.Fatalf("ReadIFD0: %v", err)
		}

		set, err := tiff.Decode(dir, tiff.DecodeOptions{})
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}

		rec, ok := set.FindKey(metadata.Key{Family: metadata.FamilyExif, Group: metadata.GroupImage, Tag: 0x010f})
		if !ok {
			t.Fatal("Make record not found")
		}

		if got := rec.Value.String(); got != "Ca" {
			t.Errorf("Make = %q, want %q", got, "Ca")
		}
	})

	t.Run("inline", func(t *testing.T) {
		t.Parallel()

		var buf []byte
		buf = append(buf, header()...)
		buf = append(buf, u16le(1)...)
		buf = append(buf, entry12(0x010f, metadata.TypeASCII, 4, []byte("Ca\x00\x00"))...)
		buf = append(buf, u32le(0)...)

		r := tiff.NewReader(nil)

		dir, _, err := r.ReadIFD0(buf, metadata.GroupImage)
		if err != nil {
			t.Fatalf("ReadIFD0: %v", err)
		}

		set, err := tiff.Decode(dir, tiff.DecodeOptions{})
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}

		rec, ok := set.FindKey(metadata.Key{Family: metadata.FamilyExif, Group: metadata.GroupImage, Tag: 0x010f})
		if !ok {
			t.Fatal("Make record not found")
		}

		if got := rec.Value.String(); got != "Ca" {
			t.Errorf("Make = %q, want %q", got, "Ca")
		}
	})
}

// TestDecodeScenarioS3SubIFD covers spec.md's S3: an ExifIFDPointer
// entry must descend into a child directory under the Photo group.
func TestDecodeScenarioS3SubIFD(t *testing.T) {
	t.Parallel()

	dateTime := "2020:01:02 03:04:05\x00"

	var buf []byte
	buf = append(buf, header()...)
	buf = append(buf, u16le(1)...)
	buf = append(buf, entry12(0x8769, metadata.TypeLong, 1, u32le(26))...) // child dir at 26
	buf = append(buf, u32le(0)...)
	buf = append(buf, u16le(1)...)
	buf = append(buf, entry12(0x9003, metadata.TypeASCII, uint32(len(dateTime)), u32le(44))...) // string at 44
	buf = append(buf, u32le(0)...)
	buf = append(buf, []byte(dateTime)...)

	r := tiff.NewReader(nil)

	dir, _, err := r.ReadIFD0(buf, metadata.GroupImage)
	if err != nil {
		t.Fatalf("ReadIFD0: %v", err)
	}

	set, err := tiff.Decode(dir, tiff.DecodeOptions{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	rec, ok := set.FindKey(metadata.Key{Family: metadata.FamilyExif, Group: metadata.GroupPhoto, Tag: 0x9003})
	if !ok {
		t.Fatal("DateTimeOriginal record not found")
	}

	if got := rec.Value.String(); got != "2020:01:02 03:04:05" {
		t.Errorf("DateTimeOriginal = %q, want %q", got, "2020:01:02 03:04:05")
	}
}

// TestDecodeScenarioS4CanonMakerNoteArray covers spec.md's S4: a
// headerless Canon maker note whose CameraSettings entry expands into
// one record per field.
func TestDecodeScenarioS4CanonMakerNoteArray(t *testing.T) {
	t.Parallel()

	// Layout (little-endian, single contiguous blob):
	//   [0:8)   header
	//   [8:38)  IFD0: count(2) + Make entry(12) + ExifIFDPointer entry(12) + next(4)
	//   [38:44) Make string "Canon\x00"
	//   [44:62) Photo IFD: count(2) + MakerNote entry(12) + next(4)
	//   [62:80) maker-note payload (bare IFD): count(2) + CameraSettings entry(12) + next(4)
	//   [80:86) CameraSettings raw SHORTs: 0, 2, 4
	const (
		makeStrOff     = 38
		photoIFDOff    = 44
		makerNoteOff   = 62
		cameraSettOff  = 80
		makerNoteBytes = 18 // byte length of the bare IFD at makerNoteOff
	)

	var buf []byte
	buf = append(buf, header()...)
	buf = append(buf, u16le(2)...)
	buf = append(buf, entry12(0x010f, metadata.TypeASCII, 6, u32le(makeStrOff))...)
	buf = append(buf, entry12(0x8769, metadata.TypeLong, 1, u32le(photoIFDOff))...)
	buf = append(buf, u32le(0)...)
	buf = append(buf, []byte("Canon\x00")...)

	buf = append(buf, u16le(1)...)
	buf = append(buf, entry12(0x927c, metadata.TypeUndefined, makerNoteBytes, u32le(makerNoteOff))...)
	buf = append(buf, u32le(0)...)

	buf = append(buf, u16le(1)...)
	buf = append(buf, entry12(0x0001, metadata.TypeShort, 3, u32le(cameraSettOff))...)
	buf = append(buf, u32le(0)...)

	buf = append(buf, u16le(0)...)
	buf = append(buf, u16le(2)...)
	buf = append(buf, u16le(4)...)

	if len(buf) != cameraSettOff+6 {
		t.Fatalf("test buffer layout is wrong: len = %d, want %d", len(buf), cameraSettOff+6)
	}

	r := tiff.NewReader(nil)

	dir, _, err := r.ReadIFD0(buf, metadata.GroupImage)
	if err != nil {
		t.Fatalf("ReadIFD0: %v", err)
	}

	set, err := tiff.Decode(dir, tiff.DecodeOptions{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	want := map[uint16]int64{1: 0, 2: 2, 3: 4}

	for tag, wantVal := range want {
		rec, ok := set.FindKey(metadata.Key{Family: metadata.FamilyExif, Group: metadata.GroupCanonCs, Tag: tag})
		if !ok {
			t.Fatalf("CanonCs tag %d not found", tag)
		}

		got, err := rec.Value.ToInt64(0)
		if err != nil || got != wantVal {
			t.Errorf("CanonCs[%d] = %d, err %v; want %d", tag, got, err, wantVal)
		}
	}
}

// TestEncodeRebuildRoundTrip exercises RebuildTree + SerializeTree on a
// decoded MetadataSet containing an Exif sub-IFD, verifying the
// intrusive encoder path reproduces every record after a full decode.
func TestEncodeRebuildRoundTrip(t *testing.T) {
	t.Parallel()

	dateTime := "2020:01:02 03:04:05\x00"

	var buf []byte
	buf = append(buf, header()...)
	buf = append(buf, u16le(1)...)
	buf = append(buf, entry12(0x8769, metadata.TypeLong, 1, u32le(26))...)
	buf = append(buf, u32le(0)...)
	buf = append(buf, u16le(1)...)
	buf = append(buf, entry12(0x9003, metadata.TypeASCII, uint32(len(dateTime)), u32le(44))...)
	buf = append(buf, u32le(0)...)
	buf = append(buf, []byte(dateTime)...)

	r := tiff.NewReader(nil)

	dir, hdr, err := r.ReadIFD0(buf, metadata.GroupImage)
	if err != nil {
		t.Fatalf("ReadIFD0: %v", err)
	}

	set, err := tiff.Decode(dir, tiff.DecodeOptions{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	rebuilt := tiff.RebuildTree(set)

	blob := tiff.SerializeTree(rebuilt, hdr.Order, hdr.Magic)

	r2 := tiff.NewReader(nil)

	dir2, hdr2, err := r2.ReadIFD0(blob, metadata.GroupImage)
	if err != nil {
		t.Fatalf("re-ReadIFD0: %v", err)
	}

	if hdr2.Order != hdr.Order || hdr2.Magic != hdr.Magic {
		t.Fatalf("header mismatch after rebuild: got %+v, want %+v", hdr2, hdr)
	}

	set2, err := tiff.Decode(dir2, tiff.DecodeOptions{})
	if err != nil {
		t.Fatalf("re-Decode: %v", err)
	}

	rec, ok := set2.FindKey(metadata.Key{Family: metadata.FamilyExif, Group: metadata.GroupPhoto, Tag: 0x9003})
	if !ok {
		t.Fatal("DateTimeOriginal record not found after rebuild round-trip")
	}

	if got := rec.Value.String(); got != "2020:01:02 03:04:05" {
		t.Errorf("DateTimeOriginal after rebuild = %q, want %q", got, "2020:01:02 03:04:05")
	}
}

// TestEncodeScenarioS6FilterCascade covers spec.md's S6: a NikonPreview
// IFD whose declared length exceeds the filter cascade's limit is
// dropped entirely by Encode's phase 2, leaving the small standard
// tags intact and the output at or under the caller's ceiling.
func TestEncodeScenarioS6FilterCascade(t *testing.T) {
	t.Parallel()

	set := metadata.NewMetadataSet()

	widthVal, err := metadata.NewValue(metadata.TypeLong, 1, u32le(640), bytecodec.LittleEndian)
	if err != nil {
		t.Fatalf("NewValue(width): %v", err)
	}

	set.Insert(metadata.Key{Family: metadata.FamilyExif, Group: metadata.GroupImage, Tag: 0x0100}, widthVal)

	const previewLen = 50 * 1024

	lengthVal, err := metadata.NewValue(metadata.TypeLong, 1, u32le(previewLen), bytecodec.LittleEndian)
	if err != nil {
		t.Fatalf("NewValue(length): %v", err)
	}

	set.Insert(metadata.Key{Family: metadata.FamilyExif, Group: metadata.GroupNikonPreview, Tag: 0x0202}, lengthVal)

	offsetVal, err := metadata.NewValue(metadata.TypeLong, 1, u32le(0), bytecodec.LittleEndian)
	if err != nil {
		t.Fatalf("NewValue(offset): %v", err)
	}

	set.Insert(metadata.Key{Family: metadata.FamilyExif, Group: metadata.GroupNikonPreview, Tag: 0x0201}, offsetVal)

	previewBytes := bytes.Repeat([]byte{0xAB}, previewLen)

	previewVal, err := metadata.NewValue(metadata.TypeUndefined, uint32(previewLen), previewBytes, bytecodec.LittleEndian)
	if err != nil {
		t.Fatalf("NewValue(preview body): %v", err)
	}

	set.Insert(metadata.Key{Family: metadata.FamilyExif, Group: metadata.GroupNikonPreview, Tag: 0x0203}, previewVal)

	hdr := tiff.Header{Order: bytecodec.LittleEndian, Magic: tiff.StandardMagic, IFDOffset: 8}

	const ceiling = 2000

	result, err := tiff.Encode(nil, hdr, set, ceiling)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	if result.Oversized {
		t.Fatal("Oversized = true, want false: the cascade should have shed the preview")
	}

	if len(result.Blob) > ceiling {
		t.Fatalf("len(Blob) = %d, want <= %d", len(result.Blob), ceiling)
	}

	if result.Method != tiff.Intrusive {
		t.Errorf("Method = %v, want Intrusive", result.Method)
	}

	wantDropped := map[metadata.Key]bool{
		{Family: metadata.FamilyExif, Group: metadata.GroupNikonPreview, Tag: 0x0201}: true,
		{Family: metadata.FamilyExif, Group: metadata.GroupNikonPreview, Tag: 0x0202}: true,
		{Family: metadata.FamilyExif, Group: metadata.GroupNikonPreview, Tag: 0x0203}: true,
	}

	if len(result.DroppedTags) == 0 {
		t.Fatal("DroppedTags is empty, want the NikonPreview keys")
	}

	for _, k := range result.DroppedTags {
		if !wantDropped[k] {
			t.Errorf("unexpected dropped key %+v", k)
		}

		delete(wantDropped, k)
	}

	if len(wantDropped) != 0 {
		t.Errorf("keys not reported as dropped: %+v", wantDropped)
	}

	r := tiff.NewReader(nil)

	dir, _, err := r.ReadIFD0(result.Blob, metadata.GroupImage)
	if err != nil {
		t.Fatalf("re-ReadIFD0: %v", err)
	}

	got, err := tiff.Decode(dir, tiff.DecodeOptions{})
	if err != nil {
		t.Fatalf("re-Decode: %v", err)
	}

	rec, ok := got.FindKey(metadata.Key{Family: metadata.FamilyExif, Group: metadata.GroupImage, Tag: 0x0100})
	if !ok {
		t.Fatal("ImageWidth record missing after cascade")
	}

	if v, err := rec.Value.ToInt64(0); err != nil || v != 640 {
		t.Errorf("ImageWidth = %d, err %v; want 640", v, err)
	}

	if _, ok := got.FindKey(metadata.Key{Family: metadata.FamilyExif, Group: metadata.GroupNikonPreview, Tag: 0x0202}); ok {
		t.Error("NikonPreview length tag survived the cascade")
	}
}

// TestEncodeThumbnailSurvivesIntrusiveRebuild covers spec.md §8
// invariant #3: a from-scratch RebuildTree (the path every phase-2
// write takes) must carry an IFD1 thumbnail's actual bytes, not just
// its stale offset integer, through to the re-decoded output.
func TestEncodeThumbnailSurvivesIntrusiveRebuild(t *testing.T) {
	t.Parallel()

	thumbBytes := []byte{0xFF, 0xD8, 0xFF, 0xD9, 0xAA, 0xBB, 0xCC, 0xDD}

	set := metadata.NewMetadataSet()

	width, err := metadata.NewValue(metadata.TypeLong, 1, u32le(640), bytecodec.LittleEndian)
	if err != nil {
		t.Fatalf("NewValue(width): %v", err)
	}

	set.Insert(metadata.Key{Family: metadata.FamilyExif, Group: metadata.GroupImage, Tag: 0x0100}, width)

	offVal, err := metadata.NewValue(metadata.TypeLong, 1, u32le(0xDEADBEEF), bytecodec.LittleEndian)
	if err != nil {
		t.Fatalf("NewValue(offset): %v", err)
	}

	offVal.SetDataArea(thumbBytes)
	set.Insert(metadata.Key{Family: metadata.FamilyExif, Group: metadata.GroupThumbnail, Tag: tiff.TagJPEGInterchangeFmt}, offVal)

	lenVal, err := metadata.NewValue(metadata.TypeLong, 1, u32le(uint32(len(thumbBytes))), bytecodec.LittleEndian)
	if err != nil {
		t.Fatalf("NewValue(length): %v", err)
	}

	set.Insert(metadata.Key{Family: metadata.FamilyExif, Group: metadata.GroupThumbnail, Tag: tiff.TagJPEGInterchangeFmtLn}, lenVal)

	rebuilt := tiff.RebuildTree(set)
	blob := tiff.SerializeTree(rebuilt, bytecodec.LittleEndian, tiff.StandardMagic)

	r := tiff.NewReader(nil)

	dir, _, err := r.ReadIFD0(blob, metadata.GroupImage)
	if err != nil {
		t.Fatalf("re-ReadIFD0: %v", err)
	}

	got, err := tiff.Decode(dir, tiff.DecodeOptions{})
	if err != nil {
		t.Fatalf("re-Decode: %v", err)
	}

	rec, ok := got.FindKey(metadata.Key{Family: metadata.FamilyExif, Group: metadata.GroupThumbnail, Tag: tiff.TagJPEGInterchangeFmt})
	if !ok {
		t.Fatal("thumbnail offset entry missing after rebuild")
	}

	if !bytes.Equal(rec.Value.DataArea(), thumbBytes) {
		t.Fatalf("thumbnail bytes after rebuild = %x, want %x", rec.Value.DataArea(), thumbBytes)
	}

	wRec, ok := got.FindKey(metadata.Key{Family: metadata.FamilyExif, Group: metadata.GroupImage, Tag: 0x0100})
	if !ok {
		t.Fatal("ImageWidth missing after rebuild")
	}

	if v, err := wRec.Value.ToInt64(0); err != nil || v != 640 {
		t.Errorf("ImageWidth = %d, err %v; want 640", v, err)
	}
}
