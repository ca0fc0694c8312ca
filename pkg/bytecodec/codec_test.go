package bytecodec_test

import (
	"testing"

	"github.com/ma-tf/exifcore/pkg/bytecodec"
)

func TestGetPutRoundTrip(t *testing.T) {
	t.Parallel()

	for _, order := range []bytecodec.ByteOrder{bytecodec.LittleEndian, bytecodec.BigEndian} {
		buf := make([]byte, 8)

		bytecodec.PutU32(buf, 0xCAFEBABE, order)
		if got := bytecodec.GetU32(buf, order); got != 0xCAFEBABE {
			t.Errorf("order %v: GetU32 = %#x, want %#x", order, got, 0xCAFEBABE)
		}

		bytecodec.PutI32(buf, -12345, order)
		if got := bytecodec.GetI32(buf, order); got != -12345 {
			t.Errorf("order %v: GetI32 = %d, want -12345", order, got)
		}

		bytecodec.PutURational(buf, bytecodec.Rational{Num: 3, Den: 7}, order)
		if got := bytecodec.GetURational(buf, order); got.Num != 3 || got.Den != 7 {
			t.Errorf("order %v: GetURational = %+v, want {3 7}", order, got)
		}

		bytecodec.PutFloat64(buf, 3.5, order)
		if got := bytecodec.GetFloat64(buf, order); got != 3.5 {
			t.Errorf("order %v: GetFloat64 = %v, want 3.5", order, got)
		}
	}
}

func TestByteOrderString(t *testing.T) {
	t.Parallel()

	if bytecodec.LittleEndian.String() != "II" {
		t.Errorf("LittleEndian.String() = %q, want II", bytecodec.LittleEndian.String())
	}

	if bytecodec.BigEndian.String() != "MM" {
		t.Errorf("BigEndian.String() = %q, want MM", bytecodec.BigEndian.String())
	}
}

func TestDetectByteOrder(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 2)
	bytecodec.PutU16(buf, 5, bytecodec.LittleEndian)

	if got := bytecodec.DetectByteOrder(buf); got != bytecodec.LittleEndian {
		t.Errorf("DetectByteOrder = %v, want LittleEndian", got)
	}
}
