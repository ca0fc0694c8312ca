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

// Package metadata holds the typed value model and the flat, ordered,
// duplicate-tolerant keyed record set that the TIFF and CIFF decoders
// populate and the encoders consume.
package metadata

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ma-tf/exifcore/pkg/bytecodec"
)

// TypeCode identifies one of the twelve TIFF-ish scalar types, plus a
// synthetic charset-tagged text type used for comment-style values
// (e.g. Exif.Photo.UserComment) that carry an 8-byte charset marker.
type TypeCode uint16

const (
	TypeByte      TypeCode = 1
	TypeASCII     TypeCode = 2
	TypeShort     TypeCode = 3
	TypeLong      TypeCode = 4
	TypeRational  TypeCode = 5
	TypeSByte     TypeCode = 6
	TypeUndefined TypeCode = 7
	TypeSShort    TypeCode = 8
	TypeSLong     TypeCode = 9
	TypeSRational TypeCode = 10
	TypeFloat     TypeCode = 11
	TypeDouble    TypeCode = 12
	// TypeComment is synthetic: it never appears on the wire as a type
	// code, but is used internally for charset-tagged text values such
	// as Exif.Photo.UserComment.
	TypeComment TypeCode = 0x8000
)

// elemSizes gives the wire byte size of one element of each type.
var elemSizes = map[TypeCode]uint32{ //nolint:gochecknoglobals // immutable lookup table
	TypeByte:      1,
	TypeASCII:     1,
	TypeShort:     2,
	TypeLong:      4,
	TypeRational:  8,
	TypeSByte:     1,
	TypeUndefined: 1,
	TypeSShort:    2,
	TypeSLong:     4,
	TypeSRational: 8,
	TypeFloat:     4,
	TypeDouble:    8,
	TypeComment:   1,
}

// ElemSize returns the wire byte size of a single element of the given
// type, or 0 if the type code is unrecognized.
func ElemSize(t TypeCode) uint32 {
	return elemSizes[t]
}

// KnownType reports whether t is one of the twelve TIFF scalar types
// (TypeComment, being synthetic, is not considered a wire type here).
func KnownType(t TypeCode) bool {
	_, ok := elemSizes[t]

	return ok && t != TypeComment
}

// Charset markers for comment-style values (8 bytes, Exif UserComment
// convention).
const (
	CharsetASCII      = "ASCII\x00\x00\x00"
	CharsetUnicode    = "UNICODE\x00"
	CharsetJIS        = "JIS\x00\x00\x00\x00\x00"
	charsetMarkerSize = 8
)

var charsetUnspecified = strings.Repeat("\x00", charsetMarkerSize) //nolint:gochecknoglobals // constant-like

// Value owns a typed, counted, byte-encoded TIFF-ish scalar array plus
// an optional data-area side buffer (see the data-entry/size-entry
// pairing in package tiff). Values are read-only once constructed
// except through Clone, matching the "always borrow during decode,
// always own during encode" ownership rule.
type Value struct {
	typeCode TypeCode
	count    uint32
	raw      []byte // count * ElemSize(typeCode) bytes, in order's byte order
	order    bytecodec.ByteOrder
	dataArea []byte
}

// NewValue builds a Value from already-encoded bytes. For TypeASCII and
// TypeComment, raw is the literal byte payload (including any NUL
// terminator or charset marker) and count is len(raw); for every other
// type, len(raw) must equal count*ElemSize(typeCode).
func NewValue(typeCode TypeCode, count uint32, raw []byte, order bytecodec.ByteOrder) (*Value, error) {
	if typeCode != TypeASCII && typeCode != TypeComment && !KnownType(typeCode) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, typeCode)
	}

	if typeCode != TypeASCII && typeCode != TypeComment {
		want := count * ElemSize(typeCode)
		if uint32(len(raw)) != want {
			return nil, fmt.Errorf("%w: type %d count %d wants %d bytes, got %d",
				ErrValueParse, typeCode, count, want, len(raw))
		}
	}

	return &Value{typeCode: typeCode, count: count, raw: raw, order: order}, nil
}

// NewCommentValue builds a TypeComment value from a charset marker
// ("ASCII\x00\x00\x00", "UNICODE\x00", "JIS\x00\x00\x00\x00\x00", or ""
// for unspecified) and plain text.
func NewCommentValue(charset, text string) *Value {
	marker := charset
	if marker == "" {
		marker = charsetUnspecified
	}

	raw := append([]byte(marker), []byte(text)...)

	return &Value{typeCode: TypeComment, count: uint32(len(raw)), raw: raw, order: bytecodec.LittleEndian}
}

// ReadFromString parses whitespace-separated numeric tokens (or, for
// ASCII/Comment, the text verbatim) into a Value of the given type.
func ReadFromString(typeCode TypeCode, text string) (*Value, error) {
	switch typeCode {
	case TypeASCII:
		raw := append([]byte(text), 0)

		return &Value{typeCode: TypeASCII, count: uint32(len(raw)), raw: raw, order: bytecodec.LittleEndian}, nil
	case TypeComment:
		return NewCommentValue(CharsetASCII, text), nil
	}

	if !KnownType(typeCode) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, typeCode)
	}

	fields := strings.Fields(text)
	size := ElemSize(typeCode)
	raw := make([]byte, 0, uint32(len(fields))*size)
	order := bytecodec.LittleEndian

	for _, tok := range fields {
		enc, err := encodeToken(typeCode, tok, order)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrTypeMismatch, err)
		}

		raw = append(raw, enc...)
	}

	return &Value{typeCode: typeCode, count: uint32(len(fields)), raw: raw, order: order}, nil
}

func encodeToken(typeCode TypeCode, tok string, order bytecodec.ByteOrder) ([]byte, error) {
	buf := make([]byte, ElemSize(typeCode))

	switch typeCode {
	case TypeByte, TypeUndefined:
		v, err := strconv.ParseUint(tok, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrValueParse, tok, err)
		}

		buf[0] = byte(v)
	case TypeSByte:
		v, err := strconv.ParseInt(tok, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrValueParse, tok, err)
		}

		buf[0] = byte(v)
	case TypeShort:
		v, err := strconv.ParseUint(tok, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrValueParse, tok, err)
		}

		bytecodec.PutU16(buf, uint16(v), order)
	case TypeSShort:
		v, err := strconv.ParseInt(tok, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrValueParse, tok, err)
		}

		bytecodec.PutI16(buf, int16(v), order)
	case TypeLong:
		v, err := strconv.ParseUint(tok, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrValueParse, tok, err)
		}

		bytecodec.PutU32(buf, uint32(v), order)
	case TypeSLong:
		v, err := strconv.ParseInt(tok, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrValueParse, tok, err)
		}

		bytecodec.PutI32(buf, int32(v), order)
	case TypeRational, TypeSRational:
		return encodeRationalToken(typeCode, tok, order, buf)
	case TypeFloat:
		v, err := strconv.ParseFloat(tok, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrValueParse, tok, err)
		}

		bytecodec.PutFloat32(buf, float32(v), order)
	case TypeDouble:
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrValueParse, tok, err)
		}

		bytecodec.PutFloat64(buf, v, order)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, typeCode)
	}

	return buf, nil
}

func encodeRationalToken(typeCode TypeCode, tok string, order bytecodec.ByteOrder, buf []byte) ([]byte, error) {
	parts := strings.SplitN(tok, "/", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: rational %q must be num/den", ErrValueParse, tok)
	}

	if typeCode == TypeRational {
		num, err := strconv.ParseUint(parts[0], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrValueParse, tok, err)
		}

		den, err := strconv.ParseUint(parts[1], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrValueParse, tok, err)
		}

		bytecodec.PutURational(buf, bytecodec.Rational{Num: uint32(num), Den: uint32(den)}, order)

		return buf, nil
	}

	num, err := strconv.ParseInt(parts[0], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrValueParse, tok, err)
	}

	den, err := strconv.ParseInt(parts[1], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrValueParse, tok, err)
	}

	bytecodec.PutRational(buf, bytecodec.SRational{Num: int32(num), Den: int32(den)}, order)

	return buf, nil
}

// Type returns the value's type code.
func (v *Value) Type() TypeCode { return v.typeCode }

// Count returns the element count (for ASCII/Comment, the raw byte length).
func (v *Value) Count() uint32 { return v.count }

// Size returns the total encoded byte size of the value, excluding the
// data area.
func (v *Value) Size() uint32 {
	if v.typeCode == TypeASCII || v.typeCode == TypeComment {
		return uint32(len(v.raw))
	}

	return v.count * ElemSize(v.typeCode)
}

// Bytes returns the raw wire-encoded payload.
func (v *Value) Bytes() []byte { return v.raw }

// Order returns the byte order the raw payload is encoded in.
func (v *Value) Order() bytecodec.ByteOrder { return v.order }

// DataArea returns the side buffer referenced by a data-entry's value,
// or nil if none is set.
func (v *Value) DataArea() []byte { return v.dataArea }

// SetDataArea attaches a side buffer to the value (data-entry semantics:
// size is independent of Count).
func (v *Value) SetDataArea(b []byte) { v.dataArea = b }

// Clone returns a deep copy of v, safe to mutate independently.
func (v *Value) Clone() *Value {
	clone := &Value{typeCode: v.typeCode, count: v.count, order: v.order}
	clone.raw = append([]byte(nil), v.raw...)

	if v.dataArea != nil {
		clone.dataArea = append([]byte(nil), v.dataArea...)
	}

	return clone
}

// ToInt64 returns element i interpreted as a signed integer.
func (v *Value) ToInt64(i int) (int64, error) {
	if err := v.checkIndex(i); err != nil {
		return 0, err
	}

	size := int(ElemSize(v.typeCode))
	b := v.raw[i*size : i*size+size]

	switch v.typeCode {
	case TypeByte, TypeASCII, TypeUndefined, TypeComment:
		return int64(b[0]), nil
	case TypeSByte:
		return int64(int8(b[0])), nil
	case TypeShort:
		return int64(bytecodec.GetU16(b, v.order)), nil
	case TypeSShort:
		return int64(bytecodec.GetI16(b, v.order)), nil
	case TypeLong:
		return int64(bytecodec.GetU32(b, v.order)), nil
	case TypeSLong:
		return int64(bytecodec.GetI32(b, v.order)), nil
	case TypeFloat:
		return int64(bytecodec.GetFloat32(b, v.order)), nil
	case TypeDouble:
		return int64(bytecodec.GetFloat64(b, v.order)), nil
	default:
		return 0, fmt.Errorf("%w: type %d has no integer form", ErrTypeMismatch, v.typeCode)
	}
}

// ToFloat64 returns element i interpreted as a floating point number.
func (v *Value) ToFloat64(i int) (float64, error) {
	if v.typeCode == TypeRational {
		r, err := v.ToRational(i)
		if err != nil {
			return 0, err
		}

		if r.Den == 0 {
			return 0, nil
		}

		return float64(r.Num) / float64(r.Den), nil
	}

	if v.typeCode == TypeSRational {
		r, err := v.ToSRational(i)
		if err != nil {
			return 0, err
		}

		if r.Den == 0 {
			return 0, nil
		}

		return float64(r.Num) / float64(r.Den), nil
	}

	iv, err := v.ToInt64(i)

	return float64(iv), err
}

// ToRational returns element i as an unsigned rational; fails for any
// other type.
func (v *Value) ToRational(i int) (bytecodec.Rational, error) {
	if v.typeCode != TypeRational {
		return bytecodec.Rational{}, fmt.Errorf("%w: not a rational", ErrTypeMismatch)
	}

	if err := v.checkIndex(i); err != nil {
		return bytecodec.Rational{}, err
	}

	return bytecodec.GetURational(v.raw[i*8:i*8+8], v.order), nil
}

// ToSRational returns element i as a signed rational; fails for any
// other type.
func (v *Value) ToSRational(i int) (bytecodec.SRational, error) {
	if v.typeCode != TypeSRational {
		return bytecodec.SRational{}, fmt.Errorf("%w: not a signed rational", ErrTypeMismatch)
	}

	if err := v.checkIndex(i); err != nil {
		return bytecodec.SRational{}, err
	}

	return bytecodec.GetRational(v.raw[i*8:i*8+8], v.order), nil
}

// ToString renders element i as text (for ASCII/Comment, the whole
// string; for numeric types, a single formatted token).
func (v *Value) ToString(i int) (string, error) {
	switch v.typeCode {
	case TypeASCII:
		return trimASCII(v.raw), nil
	case TypeComment:
		return v.commentText(), nil
	case TypeRational:
		r, err := v.ToRational(i)
		if err != nil {
			return "", err
		}

		return fmt.Sprintf("%d/%d", r.Num, r.Den), nil
	case TypeSRational:
		r, err := v.ToSRational(i)
		if err != nil {
			return "", err
		}

		return fmt.Sprintf("%d/%d", r.Num, r.Den), nil
	case TypeFloat, TypeDouble:
		f, err := v.ToFloat64(i)
		if err != nil {
			return "", err
		}

		return strconv.FormatFloat(f, 'g', -1, 64), nil
	default:
		iv, err := v.ToInt64(i)
		if err != nil {
			return "", err
		}

		return strconv.FormatInt(iv, 10), nil
	}
}

// String renders the full value: the text for ASCII/Comment, or all
// elements space-joined for numeric types.
func (v *Value) String() string {
	if v.typeCode == TypeASCII {
		return trimASCII(v.raw)
	}

	if v.typeCode == TypeComment {
		return v.commentText()
	}

	toks := make([]string, 0, v.count)

	for i := uint32(0); i < v.count; i++ {
		s, err := v.ToString(int(i))
		if err != nil {
			continue
		}

		toks = append(toks, s)
	}

	return strings.Join(toks, " ")
}

// Charset returns the 8-byte charset marker for a TypeComment value, or
// "" for any other type.
func (v *Value) Charset() string {
	if v.typeCode != TypeComment || len(v.raw) < charsetMarkerSize {
		return ""
	}

	return string(v.raw[:charsetMarkerSize])
}

func (v *Value) commentText() string {
	if len(v.raw) < charsetMarkerSize {
		return string(v.raw)
	}

	return string(v.raw[charsetMarkerSize:])
}

func trimASCII(raw []byte) string {
	if i := indexByte(raw, 0); i >= 0 {
		return string(raw[:i])
	}

	return string(raw)
}

func indexByte(b []byte, c byte) int {
	for i, x := range b {
		if x == c {
			return i
		}
	}

	return -1
}

func (v *Value) checkIndex(i int) error {
	if i < 0 || uint32(i) >= v.count {
		return fmt.Errorf("%w: index %d, count %d", ErrOutOfRange, i, v.count)
	}

	return nil
}

// WriteToBytes writes the value's wire encoding to w, re-encoding
// numeric payloads into order if it differs from the value's stored
// order, and returns the number of bytes written.
func (v *Value) WriteToBytes(w io.Writer, order bytecodec.ByteOrder) (int, error) {
	if v.typeCode == TypeASCII || v.typeCode == TypeComment || order == v.order || ElemSize(v.typeCode) <= 1 {
		n, err := w.Write(v.raw)
		if err != nil {
			return n, fmt.Errorf("write value bytes: %w", err)
		}

		return n, nil
	}

	out := make([]byte, len(v.raw))
	size := int(ElemSize(v.typeCode))

	for i := 0; i < len(v.raw); i += size {
		copy(out[i:i+size], reencode(v.typeCode, v.raw[i:i+size], v.order, order))
	}

	n, err := w.Write(out)
	if err != nil {
		return n, fmt.Errorf("write value bytes: %w", err)
	}

	return n, nil
}

func reencode(t TypeCode, elem []byte, from, to bytecodec.ByteOrder) []byte {
	out := make([]byte, len(elem))

	switch t {
	case TypeShort, TypeSShort:
		bytecodec.PutU16(out, bytecodec.GetU16(elem, from), to)
	case TypeLong, TypeSLong, TypeFloat:
		bytecodec.PutU32(out, bytecodec.GetU32(elem, from), to)
	case TypeRational, TypeSRational:
		bytecodec.PutU32(out[0:4], bytecodec.GetU32(elem[0:4], from), to)
		bytecodec.PutU32(out[4:8], bytecodec.GetU32(elem[4:8], from), to)
	case TypeDouble:
		bytecodec.PutFloat64(out, bytecodec.GetFloat64(elem, from), to)
	default:
		copy(out, elem)
	}

	return out
}
