package metadata_test

import (
	"bytes"
	"testing"

	"github.com/ma-tf/exifcore/pkg/bytecodec"
	"github.com/ma-tf/exifcore/pkg/metadata"
)

func TestValueASCIIRoundTrip(t *testing.T) {
	t.Parallel()

	v, err := metadata.ReadFromString(metadata.TypeASCII, "Canon")
	if err != nil {
		t.Fatalf("ReadFromString: %v", err)
	}

	if got := v.String(); got != "Canon" {
		t.Errorf("String() = %q, want %q", got, "Canon")
	}

	if v.Count() != 6 {
		t.Errorf("Count() = %d, want 6 (including NUL terminator)", v.Count())
	}
}

func TestValueShortInlineCount4(t *testing.T) {
	t.Parallel()

	// "Ca\0\0" inline, count=4: must decode to "Ca".
	raw := []byte("Ca\x00\x00")

	v, err := metadata.NewValue(metadata.TypeASCII, 4, raw, bytecodec.LittleEndian)
	if err != nil {
		t.Fatalf("NewValue: %v", err)
	}

	if got := v.String(); got != "Ca" {
		t.Errorf("String() = %q, want %q", got, "Ca")
	}
}

func TestValueNumericConversions(t *testing.T) {
	t.Parallel()

	raw := make([]byte, 8)
	bytecodec.PutU32(raw[0:4], 640, bytecodec.LittleEndian)
	bytecodec.PutU32(raw[4:8], 480, bytecodec.LittleEndian)

	v, err := metadata.NewValue(metadata.TypeLong, 2, raw, bytecodec.LittleEndian)
	if err != nil {
		t.Fatalf("NewValue: %v", err)
	}

	got0, err := v.ToInt64(0)
	if err != nil || got0 != 640 {
		t.Errorf("ToInt64(0) = %d, %v, want 640, nil", got0, err)
	}

	got1, err := v.ToInt64(1)
	if err != nil || got1 != 480 {
		t.Errorf("ToInt64(1) = %d, %v, want 480, nil", got1, err)
	}

	if _, err := v.ToInt64(2); err == nil {
		t.Error("ToInt64(2) expected OutOfRange error, got nil")
	}
}

func TestValueRational(t *testing.T) {
	t.Parallel()

	raw := make([]byte, 8)
	bytecodec.PutURational(raw, bytecodec.Rational{Num: 1, Den: 3}, bytecodec.BigEndian)

	v, err := metadata.NewValue(metadata.TypeRational, 1, raw, bytecodec.BigEndian)
	if err != nil {
		t.Fatalf("NewValue: %v", err)
	}

	f, err := v.ToFloat64(0)
	if err != nil {
		t.Fatalf("ToFloat64: %v", err)
	}

	if f < 0.333 || f > 0.334 {
		t.Errorf("ToFloat64 = %v, want ~0.333", f)
	}

	s, err := v.ToString(0)
	if err != nil || s != "1/3" {
		t.Errorf("ToString = %q, %v, want 1/3, nil", s, err)
	}
}

func TestValueTypeMismatchAndUnknownType(t *testing.T) {
	t.Parallel()

	v, _ := metadata.NewValue(metadata.TypeLong, 1, []byte{0, 0, 0, 1}, bytecodec.BigEndian)
	if _, err := v.ToRational(0); err == nil {
		t.Error("ToRational on a Long value: expected ErrTypeMismatch, got nil")
	}

	if _, err := metadata.NewValue(metadata.TypeCode(99), 1, []byte{1}, bytecodec.BigEndian); err == nil {
		t.Error("NewValue with unknown type code: expected error, got nil")
	}
}

func TestValueCommentCharset(t *testing.T) {
	t.Parallel()

	v := metadata.NewCommentValue(metadata.CharsetUnicode, "hello")

	if got := v.Charset(); got != metadata.CharsetUnicode {
		t.Errorf("Charset() = %q, want %q", got, metadata.CharsetUnicode)
	}

	if got := v.String(); got != "hello" {
		t.Errorf("String() = %q, want %q (marker stripped)", got, "hello")
	}
}

func TestValueWriteToBytesReencodesOrder(t *testing.T) {
	t.Parallel()

	raw := make([]byte, 2)
	bytecodec.PutU16(raw, 1, bytecodec.LittleEndian)

	v, err := metadata.NewValue(metadata.TypeShort, 1, raw, bytecodec.LittleEndian)
	if err != nil {
		t.Fatalf("NewValue: %v", err)
	}

	var buf bytes.Buffer
	if _, err := v.WriteToBytes(&buf, bytecodec.BigEndian); err != nil {
		t.Fatalf("WriteToBytes: %v", err)
	}

	if got := bytecodec.GetU16(buf.Bytes(), bytecodec.BigEndian); got != 1 {
		t.Errorf("re-encoded value = %d, want 1", got)
	}
}

func TestValueClone(t *testing.T) {
	t.Parallel()

	v, _ := metadata.NewValue(metadata.TypeByte, 2, []byte{1, 2}, bytecodec.LittleEndian)
	c := v.Clone()
	c.Bytes()[0] = 9

	if v.Bytes()[0] == 9 {
		t.Error("Clone aliased the original byte slice")
	}
}
