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

//go:generate mockgen -destination=./mocks/service_mock.go -package=exifcore_test github.com/ma-tf/exifcore/internal/service/exifcore Service

// Package exifcore orchestrates pkg/container, pkg/tiff, and pkg/ciff
// behind one Service: sniff the container format, hand its Exif blob
// to the right tree reader/encoder, and splice the result back.
package exifcore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/ma-tf/exifcore/internal/service/osfs"
	"github.com/ma-tf/exifcore/pkg/bytecodec"
	"github.com/ma-tf/exifcore/pkg/ciff"
	"github.com/ma-tf/exifcore/pkg/container"
	"github.com/ma-tf/exifcore/pkg/metadata"
	"github.com/ma-tf/exifcore/pkg/tiff"
)

// jpegAPP1Ceiling is the largest Exif payload that still fits one APP1
// segment: the 16-bit segment-length field caps the segment at 65535
// bytes, minus its own 2-byte length field and the 6-byte
// "Exif\x00\x00" header.
const jpegAPP1Ceiling = 0xFFFF - 2 - 6

// bareTIFFCeiling is the nominal ceiling passed to pkg/tiff.Encode for
// a bare TIFF file, which carries no host-segment size limit of its
// own; the drop cascade is effectively disabled by never tripping it.
const bareTIFFCeiling = math.MaxInt32

// format identifies which container sniff matched a file's leading
// bytes.
type format int

const (
	formatUnknown format = iota
	formatJPEG
	formatCIFF
	formatTIFF
)

func sniff(buf []byte) format {
	switch {
	case len(buf) >= 2 && buf[0] == 0xFF && buf[1] == 0xD8:
		return formatJPEG
	case len(buf) >= ciff.HeaderSize && isByteOrderMark(buf) && string(buf[6:14]) == ciff.Signature:
		return formatCIFF
	case len(buf) >= 8 && isByteOrderMark(buf):
		return formatTIFF
	default:
		return formatUnknown
	}
}

func isByteOrderMark(buf []byte) bool {
	return (buf[0] == 'I' && buf[1] == 'I') || (buf[0] == 'M' && buf[1] == 'M')
}

// Service reads and writes a file's embedded metadata, dispatching
// across JPEG (via pkg/container), CIFF (via pkg/ciff), and bare
// TIFF/Exif (via pkg/tiff) container formats.
type Service interface {
	// Read decodes the metadata embedded in the file at path.
	Read(ctx context.Context, path string) (*metadata.MetadataSet, error)

	// Write re-encodes set into the file at path. For JPEG, only the
	// APP1 Exif segment is replaced; every other segment and the scan
	// data are preserved byte-for-byte. CIFF and bare TIFF files are
	// rebuilt in full, since neither has a host structure outside the
	// metadata tree itself.
	Write(ctx context.Context, path string, set *metadata.MetadataSet) error

	// Strip removes the file's embedded metadata entirely. Only JPEG
	// supports this: CIFF and bare TIFF files have no content once
	// their metadata tree is gone, so Strip returns ErrStripUnsupported
	// for them.
	Strip(ctx context.Context, path string) error

	// ReadThumbnail extracts the raw bytes of the file's embedded
	// thumbnail/preview, using the offset and length pair each decoder
	// surfaces at Exif.Thumbnail.JPEGInterchangeFormat(Length), or, for
	// CIFF, the 0x2007 preview hack's absolute file offset.
	ReadThumbnail(ctx context.Context, path string) ([]byte, error)
}

type service struct {
	log        *slog.Logger
	fs         osfs.FileSystem
	tiffReader *tiff.Reader
	ciffReader *ciff.Reader
}

// NewService builds a Service backed by fs. A nil logger falls back to
// slog.Default(), matching the teacher's service constructors.
func NewService(log *slog.Logger, fs osfs.FileSystem) Service {
	if log == nil {
		log = slog.Default()
	}

	return &service{
		log:        log,
		fs:         fs,
		tiffReader: tiff.NewReader(log),
		ciffReader: ciff.NewReader(log),
	}
}

func (s *service) readAll(path string) ([]byte, error) {
	f, err := s.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrReadFile, path, err)
	}
	defer f.Close()

	buf, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrReadFile, path, err)
	}

	return buf, nil
}

func (s *service) writeAll(path string, buf []byte) error {
	f, err := s.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrWriteFile, path, err)
	}
	defer f.Close()

	if _, err := f.Write(buf); err != nil {
		return fmt.Errorf("%w %q: %w", ErrWriteFile, path, err)
	}

	return nil
}

func (s *service) Read(ctx context.Context, path string) (*metadata.MetadataSet, error) {
	s.log.DebugContext(ctx, "reading metadata", slog.String("path", path))

	buf, err := s.readAll(path)
	if err != nil {
		return nil, err
	}

	switch sniff(buf) {
	case formatJPEG:
		return s.readJPEGBlob(ctx, buf)
	case formatCIFF:
		return s.readCIFF(ctx, buf)
	case formatTIFF:
		return s.readTIFFBlob(ctx, buf)
	default:
		return nil, fmt.Errorf("%q: %w", path, ErrUnsupportedFormat)
	}
}

func (s *service) readJPEGBlob(ctx context.Context, buf []byte) (*metadata.MetadataSet, error) {
	var j container.JPEG
	if err := j.Parse(bytes.NewReader(buf)); err != nil {
		return nil, fmt.Errorf("jpeg: %w", err)
	}

	blob := j.Exif()
	if blob == nil {
		return nil, ErrNoExifData
	}

	return s.readTIFFBlob(ctx, blob)
}

func (s *service) readTIFFBlob(ctx context.Context, blob []byte) (*metadata.MetadataSet, error) {
	dir, _, err := s.tiffReader.ReadIFD0(blob, metadata.GroupImage)
	if err != nil {
		return nil, fmt.Errorf("tiff: %w", err)
	}

	set, err := tiff.Decode(dir, tiff.DecodeOptions{})
	if err != nil {
		return nil, fmt.Errorf("tiff decode: %w", err)
	}

	s.log.DebugContext(ctx, "decoded tiff tree", slog.Int("record_count", set.Len()))

	return set, nil
}

func (s *service) readCIFF(ctx context.Context, buf []byte) (*metadata.MetadataSet, error) {
	root, hdr, err := s.ciffReader.Read(buf)
	if err != nil {
		return nil, fmt.Errorf("ciff: %w", err)
	}

	set := ciff.Decode(root, hdr.Order)

	s.log.DebugContext(ctx, "decoded ciff heap", slog.Int("record_count", set.Len()))

	return set, nil
}

func (s *service) Write(ctx context.Context, path string, set *metadata.MetadataSet) error {
	s.log.InfoContext(ctx, "writing metadata", slog.String("path", path))

	buf, err := s.readAll(path)
	if err != nil {
		return err
	}

	var out []byte

	switch sniff(buf) {
	case formatJPEG:
		out, err = s.writeJPEG(buf, set)
	case formatCIFF:
		out, err = s.writeCIFF(buf, set)
	case formatTIFF:
		out, err = s.writeTIFF(buf, set)
	default:
		return fmt.Errorf("%q: %w", path, ErrUnsupportedFormat)
	}

	if err != nil {
		return err
	}

	return s.writeAll(path, out)
}

func (s *service) writeJPEG(buf []byte, set *metadata.MetadataSet) ([]byte, error) {
	var j container.JPEG
	if err := j.Parse(bytes.NewReader(buf)); err != nil {
		return nil, fmt.Errorf("jpeg: %w", err)
	}

	var (
		original *tiff.Directory
		hdr      tiff.Header
	)

	if blob := j.Exif(); blob != nil {
		var err error

		original, hdr, err = s.tiffReader.ReadIFD0(blob, metadata.GroupImage)
		if err != nil {
			return nil, fmt.Errorf("tiff: %w", err)
		}
	} else {
		hdr = tiff.Header{Order: bytecodec.LittleEndian, Magic: tiff.StandardMagic}
	}

	result, err := tiff.Encode(original, hdr, set, jpegAPP1Ceiling)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOversize, err)
	}

	if err := j.SetExif(result.Blob); err != nil {
		return nil, fmt.Errorf("jpeg: %w", err)
	}

	var out bytes.Buffer
	if err := j.WriteTo(&out); err != nil {
		return nil, fmt.Errorf("jpeg: %w", err)
	}

	return out.Bytes(), nil
}

func (s *service) writeTIFF(buf []byte, set *metadata.MetadataSet) ([]byte, error) {
	original, hdr, err := s.tiffReader.ReadIFD0(buf, metadata.GroupImage)
	if err != nil {
		return nil, fmt.Errorf("tiff: %w", err)
	}

	result, err := tiff.Encode(original, hdr, set, bareTIFFCeiling)
	if err != nil {
		return nil, fmt.Errorf("tiff encode: %w", err)
	}

	return result.Blob, nil
}

func (s *service) writeCIFF(buf []byte, set *metadata.MetadataSet) ([]byte, error) {
	hdr, err := ciff.ReadHeader(buf)
	if err != nil {
		return nil, fmt.Errorf("ciff: %w", err)
	}

	blob := ciff.Encode(set, hdr.Order)

	return blob, nil
}

var (
	thumbnailOffsetKey = metadata.Key{Family: metadata.FamilyExif, Group: metadata.GroupThumbnail, Tag: 0x0201}
	thumbnailLengthKey = metadata.Key{Family: metadata.FamilyExif, Group: metadata.GroupThumbnail, Tag: 0x0202}
	previewOffsetKey   = metadata.Key{Family: metadata.FamilyImage2, Group: metadata.GroupImage, Tag: ciff.TagJPEGPreview}
	previewLengthKey   = metadata.Key{Family: metadata.FamilyImage2, Group: metadata.GroupImage, Tag: ciff.TagJPEGPreview + 1}
)

func (s *service) ReadThumbnail(ctx context.Context, path string) ([]byte, error) {
	s.log.DebugContext(ctx, "reading thumbnail", slog.String("path", path))

	buf, err := s.readAll(path)
	if err != nil {
		return nil, err
	}

	switch sniff(buf) {
	case formatJPEG:
		var j container.JPEG
		if err := j.Parse(bytes.NewReader(buf)); err != nil {
			return nil, fmt.Errorf("jpeg: %w", err)
		}

		blob := j.Exif()
		if blob == nil {
			return nil, ErrNoExifData
		}

		return s.thumbnailFromTIFFBlob(ctx, blob)
	case formatTIFF:
		return s.thumbnailFromTIFFBlob(ctx, buf)
	case formatCIFF:
		return s.thumbnailFromCIFF(ctx, buf)
	default:
		return nil, fmt.Errorf("%q: %w", path, ErrUnsupportedFormat)
	}
}

func (s *service) thumbnailFromTIFFBlob(ctx context.Context, blob []byte) ([]byte, error) {
	set, err := s.readTIFFBlob(ctx, blob)
	if err != nil {
		return nil, err
	}

	return sliceThumbnail(blob, set, thumbnailOffsetKey, thumbnailLengthKey)
}

func (s *service) thumbnailFromCIFF(ctx context.Context, buf []byte) ([]byte, error) {
	root, hdr, err := s.ciffReader.Read(buf)
	if err != nil {
		return nil, fmt.Errorf("ciff: %w", err)
	}

	set := ciff.Decode(root, hdr.Order)

	s.log.DebugContext(ctx, "decoded ciff heap for thumbnail", slog.Int("record_count", set.Len()))

	return sliceThumbnail(buf, set, previewOffsetKey, previewLengthKey)
}

// sliceThumbnail slices data using the offset and length recorded
// under offKey/lenKey, both relative to the start of data.
func sliceThumbnail(
	data []byte,
	set *metadata.MetadataSet,
	offKey, lenKey metadata.Key,
) ([]byte, error) {
	offRec, ok := set.FindKey(offKey)
	if !ok {
		return nil, ErrNoThumbnail
	}

	lenRec, ok := set.FindKey(lenKey)
	if !ok {
		return nil, ErrNoThumbnail
	}

	off, err := offRec.Value.ToInt64(0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoThumbnail, err)
	}

	size, err := lenRec.Value.ToInt64(0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoThumbnail, err)
	}

	if off < 0 || size < 0 || off+size > int64(len(data)) {
		return nil, fmt.Errorf("%w: offset %d length %d exceeds %d bytes", ErrNoThumbnail, off, size, len(data))
	}

	return data[off : off+size], nil
}

func (s *service) Strip(ctx context.Context, path string) error {
	s.log.InfoContext(ctx, "stripping metadata", slog.String("path", path))

	buf, err := s.readAll(path)
	if err != nil {
		return err
	}

	if sniff(buf) != formatJPEG {
		return fmt.Errorf("%q: %w", path, ErrStripUnsupported)
	}

	var j container.JPEG
	if err := j.Parse(bytes.NewReader(buf)); err != nil {
		return fmt.Errorf("jpeg: %w", err)
	}

	j.StripExif()

	var out bytes.Buffer
	if err := j.WriteTo(&out); err != nil {
		return fmt.Errorf("jpeg: %w", err)
	}

	return s.writeAll(path, out.Bytes())
}
