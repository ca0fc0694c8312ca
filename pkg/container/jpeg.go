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

// Package container locates and splices the Exif TIFF blob carried
// inside a JPEG file's APP1 segment (spec.md §1's "external
// collaborator" boundary). It knows nothing about TIFF or CIFF
// semantics — it only finds the "Exif\x00\x00"-prefixed byte range and
// hands it to a caller, or writes a replacement back in its place.
package container

import (
	"bytes"
	"fmt"
	"io"
)

// Container is the minimal parse/serialize boundary a concrete image
// format implements. Mirrors the shape of
// tajtiattila-metadata/driver.Container (not imported — that type lives
// in a separate reference module; this package defines its own so
// exifcore has no dependency on it).
type Container interface {
	Parse(r io.Reader) error
	WriteTo(w io.Writer) error
}

const (
	markerSOI  = 0xD8
	markerEOI  = 0xD9
	markerSOS  = 0xDA
	markerAPP0 = 0xE0
	markerAPP1 = 0xE1
	markerTEM  = 0x01
)

// exifHeader is the fixed 6-byte marker every Exif APP1 payload starts
// with, distinguishing it from XMP or other APP1 uses.
var exifHeader = []byte("Exif\x00\x00")

type segment struct {
	marker byte
	raw    []byte // entire segment as it appears on the wire, FF marker included
}

// JPEG is a parsed JPEG file: every marker segment in order, the
// entropy-coded scan data as an opaque blob, and a cached index of
// which segment (if any) carries the Exif APP1 payload.
type JPEG struct {
	soi      []byte
	segments []segment
	scanData []byte
	eoi      []byte
	exifIdx  int
}

// Parse reads the whole of r into memory and splits it into its marker
// segments, stopping segment-by-segment parsing at the Start Of Scan
// (entropy-coded data has no segment framing of its own, so everything
// from there to the trailing End Of Image is kept as one opaque blob;
// grounded on tajtiattila-metadata/jpeg.Scanner's scanStateScan cutover
// and other_examples/jrm-1535-jpeg's _SCAN1/_SCAN1_ECS state split).
func (j *JPEG) Parse(r io.Reader) error {
	buf, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("container: %w", err)
	}

	if len(buf) < 2 || buf[0] != 0xFF || buf[1] != markerSOI {
		return ErrNotJPEG
	}

	*j = JPEG{soi: buf[0:2], exifIdx: -1}

	i := 2

	for i < len(buf) {
		for i+1 < len(buf) && buf[i] == 0xFF && buf[i+1] == 0xFF {
			i++ // skip JPEG fill bytes between markers
		}

		if i+1 >= len(buf) || buf[i] != 0xFF {
			return fmt.Errorf("container: byte %d: %w", i, ErrTruncated)
		}

		marker := buf[i+1]

		if marker == markerSOS {
			return j.parseScan(buf, i)
		}

		if marker == markerTEM || (marker >= 0xD0 && marker <= 0xD7) {
			j.segments = append(j.segments, segment{marker: marker, raw: buf[i : i+2]})
			i += 2

			continue
		}

		if i+4 > len(buf) {
			return fmt.Errorf("container: byte %d: %w", i, ErrTruncated)
		}

		segLen := int(buf[i+2])<<8 | int(buf[i+3])
		segEnd := i + 2 + segLen

		if segLen < 2 || segEnd > len(buf) {
			return fmt.Errorf("container: byte %d: %w", i, ErrTruncated)
		}

		raw := buf[i:segEnd]

		if marker == markerAPP1 && isExifPayload(raw) {
			j.exifIdx = len(j.segments)
		}

		j.segments = append(j.segments, segment{marker: marker, raw: raw})
		i = segEnd
	}

	return ErrMissingSOS
}

// parseScan consumes the Start Of Scan header segment at buf[sosStart:]
// and treats the remainder of the file, minus a trailing End Of Image
// marker, as opaque entropy-coded data.
func (j *JPEG) parseScan(buf []byte, sosStart int) error {
	if sosStart+4 > len(buf) {
		return fmt.Errorf("container: byte %d: %w", sosStart, ErrTruncated)
	}

	segLen := int(buf[sosStart+2])<<8 | int(buf[sosStart+3])
	segEnd := sosStart + 2 + segLen

	if segLen < 2 || segEnd > len(buf) {
		return fmt.Errorf("container: byte %d: %w", sosStart, ErrTruncated)
	}

	j.segments = append(j.segments, segment{marker: markerSOS, raw: buf[sosStart:segEnd]})

	if len(buf) < segEnd+2 || buf[len(buf)-2] != 0xFF || buf[len(buf)-1] != markerEOI {
		return ErrTruncated
	}

	j.scanData = buf[segEnd : len(buf)-2]
	j.eoi = buf[len(buf)-2:]

	return nil
}

func isExifPayload(raw []byte) bool {
	const headerStart = 4 // FF E1 (2) + length (2)

	return len(raw) >= headerStart+len(exifHeader) &&
		bytes.Equal(raw[headerStart:headerStart+len(exifHeader)], exifHeader)
}

// Exif returns the raw TIFF blob carried by the Exif APP1 segment, or
// nil if the file has none.
func (j *JPEG) Exif() []byte {
	if j.exifIdx < 0 {
		return nil
	}

	raw := j.segments[j.exifIdx].raw
	const headerStart = 4

	return raw[headerStart+len(exifHeader):]
}

// SetExif installs blob as the file's Exif APP1 payload, replacing any
// existing one. A fresh Exif segment is inserted right after APP0
// (JFIF) if present, otherwise at the very front of the segment list,
// matching where encoders conventionally place it.
func (j *JPEG) SetExif(blob []byte) error {
	payload := make([]byte, 0, len(exifHeader)+len(blob))
	payload = append(payload, exifHeader...)
	payload = append(payload, blob...)

	raw, err := buildSegment(markerAPP1, payload)
	if err != nil {
		return err
	}

	if j.exifIdx >= 0 {
		j.segments[j.exifIdx] = segment{marker: markerAPP1, raw: raw}
		return nil
	}

	insertAt := 0
	if len(j.segments) > 0 && j.segments[0].marker == markerAPP0 {
		insertAt = 1
	}

	j.segments = append(j.segments, segment{})
	copy(j.segments[insertAt+1:], j.segments[insertAt:])
	j.segments[insertAt] = segment{marker: markerAPP1, raw: raw}
	j.exifIdx = insertAt

	return nil
}

// StripExif removes the file's Exif APP1 segment, if any.
func (j *JPEG) StripExif() {
	if j.exifIdx < 0 {
		return
	}

	j.segments = append(j.segments[:j.exifIdx], j.segments[j.exifIdx+1:]...)
	j.exifIdx = -1
}

func buildSegment(marker byte, payload []byte) ([]byte, error) {
	length := len(payload) + 2
	if length > 0xFFFF {
		return nil, ErrSegmentTooLong
	}

	raw := make([]byte, 4, 4+len(payload))
	raw[0], raw[1] = 0xFF, marker
	raw[2], raw[3] = byte(length>>8), byte(length)
	raw = append(raw, payload...)

	return raw, nil
}

// WriteTo serializes j back into a complete JPEG byte stream: SOI,
// every marker segment in order (including any Exif replacement),
// scan data, then EOI.
func (j *JPEG) WriteTo(w io.Writer) error {
	if _, err := w.Write(j.soi); err != nil {
		return err
	}

	for _, s := range j.segments {
		if _, err := w.Write(s.raw); err != nil {
			return err
		}
	}

	if _, err := w.Write(j.scanData); err != nil {
		return err
	}

	_, err := w.Write(j.eoi)

	return err
}
