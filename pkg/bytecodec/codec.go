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

// Package bytecodec reads and writes the fixed-width integer, rational,
// and floating point encodings used by TIFF-family and CIFF containers.
//
// Callers are responsible for bounds-checking the byte slices they pass
// in; this package only converts bytes that are known to be present.
package bytecodec

import (
	"encoding/binary"
	"math"
)

// ByteOrder selects how multi-byte values are packed. It mirrors the
// TIFF header's 'II'/'MM' marker rather than assuming a fixed host order,
// since a single file can embed subtrees in either order.
type ByteOrder uint8

const (
	// Invalid marks a byte order that could not be determined, e.g. an
	// unrecognized TIFF header marker.
	Invalid ByteOrder = iota
	LittleEndian
	BigEndian
)

// Binary returns the stdlib binary.ByteOrder equivalent, or nil for Invalid.
func (o ByteOrder) Binary() binary.ByteOrder {
	switch o {
	case LittleEndian:
		return binary.LittleEndian
	case BigEndian:
		return binary.BigEndian
	default:
		return nil
	}
}

// String renders the TIFF header marker for the byte order.
func (o ByteOrder) String() string {
	switch o {
	case LittleEndian:
		return "II"
	case BigEndian:
		return "MM"
	default:
		return "??"
	}
}

// Rational is an unsigned numerator/denominator pair, the wire form of
// TIFF type 5.
type Rational struct {
	Num, Den uint32
}

// SRational is a signed numerator/denominator pair, the wire form of
// TIFF type 10.
type SRational struct {
	Num, Den int32
}

// GetU16 decodes a 2-byte unsigned integer at the start of b.
func GetU16(b []byte, order ByteOrder) uint16 {
	return order.Binary().Uint16(b)
}

// GetU32 decodes a 4-byte unsigned integer at the start of b.
func GetU32(b []byte, order ByteOrder) uint32 {
	return order.Binary().Uint32(b)
}

// GetI16 decodes a 2-byte signed integer at the start of b.
func GetI16(b []byte, order ByteOrder) int16 {
	return int16(GetU16(b, order))
}

// GetI32 decodes a 4-byte signed integer at the start of b.
func GetI32(b []byte, order ByteOrder) int32 {
	return int32(GetU32(b, order))
}

// GetURational decodes an 8-byte unsigned rational at the start of b.
func GetURational(b []byte, order ByteOrder) Rational {
	return Rational{
		Num: GetU32(b[0:4], order),
		Den: GetU32(b[4:8], order),
	}
}

// GetRational decodes an 8-byte signed rational at the start of b.
func GetRational(b []byte, order ByteOrder) SRational {
	return SRational{
		Num: GetI32(b[0:4], order),
		Den: GetI32(b[4:8], order),
	}
}

// GetFloat32 decodes a 4-byte IEEE-754 float at the start of b.
func GetFloat32(b []byte, order ByteOrder) float32 {
	return math.Float32frombits(GetU32(b, order))
}

// GetFloat64 decodes an 8-byte IEEE-754 double at the start of b.
func GetFloat64(b []byte, order ByteOrder) float64 {
	return math.Float64frombits(order.Binary().Uint64(b))
}

// PutU16 writes a 2-byte unsigned integer into dst and returns the byte
// count written.
func PutU16(dst []byte, v uint16, order ByteOrder) int {
	order.Binary().PutUint16(dst, v)

	return 2
}

// PutU32 writes a 4-byte unsigned integer into dst and returns the byte
// count written.
func PutU32(dst []byte, v uint32, order ByteOrder) int {
	order.Binary().PutUint32(dst, v)

	return 4
}

// PutI16 writes a 2-byte signed integer into dst and returns the byte
// count written.
func PutI16(dst []byte, v int16, order ByteOrder) int {
	return PutU16(dst, uint16(v), order)
}

// PutI32 writes a 4-byte signed integer into dst and returns the byte
// count written.
func PutI32(dst []byte, v int32, order ByteOrder) int {
	return PutU32(dst, uint32(v), order)
}

// PutURational writes an 8-byte unsigned rational into dst and returns
// the byte count written.
func PutURational(dst []byte, v Rational, order ByteOrder) int {
	PutU32(dst[0:4], v.Num, order)
	PutU32(dst[4:8], v.Den, order)

	return 8
}

// PutRational writes an 8-byte signed rational into dst and returns the
// byte count written.
func PutRational(dst []byte, v SRational, order ByteOrder) int {
	PutI32(dst[0:4], v.Num, order)
	PutI32(dst[4:8], v.Den, order)

	return 8
}

// PutFloat32 writes a 4-byte IEEE-754 float into dst and returns the
// byte count written.
func PutFloat32(dst []byte, v float32, order ByteOrder) int {
	return PutU32(dst, math.Float32bits(v), order)
}

// PutFloat64 writes an 8-byte IEEE-754 double into dst and returns the
// byte count written.
func PutFloat64(dst []byte, v float64, order ByteOrder) int {
	order.Binary().PutUint64(dst, math.Float64bits(v))

	return 8
}

// DetectByteOrder guesses the byte order of an IFD by comparing the
// entry count read both ways: real IFDs rarely have more than a few
// hundred entries, so whichever interpretation yields the smaller
// count is almost always correct. Used when a maker-note body must be
// parsed before its own byte order is otherwise known.
func DetectByteOrder(b []byte) ByteOrder {
	big := binary.BigEndian.Uint16(b)
	little := binary.LittleEndian.Uint16(b)

	if little < big {
		return LittleEndian
	}

	return BigEndian
}
