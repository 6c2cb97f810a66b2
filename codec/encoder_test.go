package codec

import (
	"bytes"
	stderrors "errors"
	"math"
	"testing"

	"github.com/wippyai/mux-codec/errors"
	"github.com/wippyai/mux-codec/shape"
)

func TestScalarEncoding(t *testing.T) {
	tests := []struct {
		name  string
		value any
		shape *shape.Shape
		want  []byte
	}{
		{"u8", uint8(0xAB), shape.U8(), []byte{0xAB}},
		{"u16", uint16(0x1234), shape.U16(), []byte{0x12, 0x34}},
		{"u32", uint32(0xDEADBEEF), shape.U32(), []byte{0xDE, 0xAD, 0xBE, 0xEF}},
		{
			"u64", uint64(0x0102030405060708), shape.U64(),
			[]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08},
		},
		{"s8 negative", int8(-1), shape.S8(), []byte{0xFF}},
		{"s16 negative", int16(-2), shape.S16(), []byte{0xFF, 0xFE}},
		{"s32 min", int32(math.MinInt32), shape.S32(), []byte{0x80, 0x00, 0x00, 0x00}},
		{
			"s64 minus one", int64(-1), shape.S64(),
			[]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
		},
		{"bool false widened", false, shape.Bool(), []byte{0x00, 0x00, 0x00, 0x00}},
		{"bool true widened", true, shape.Bool(), []byte{0x00, 0x00, 0x00, 0x01}},
		{"char ascii", 'A', shape.Char(), []byte{0x00, 0x00, 0x00, 0x41}},
		{"char astral", '\U0001F600', shape.Char(), []byte{0x00, 0x01, 0xF6, 0x00}},
		{"f32 one", float32(1.0), shape.F32(), []byte{0x3F, 0x80, 0x00, 0x00}},
		{
			"f64 one", float64(1.0), shape.F64(),
			[]byte{0x3F, 0xF0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
		},
		{"unit", nil, shape.Unit(), []byte{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := NewEncoder()
			if err := e.Encode(tc.value, tc.shape); err != nil {
				t.Fatalf("Encode error: %v", err)
			}
			if !bytes.Equal(e.Bytes(), tc.want) {
				t.Errorf("Encode(%v, %s) = % X, want % X", tc.value, tc.shape, e.Bytes(), tc.want)
			}
		})
	}
}

func TestStringEncoding(t *testing.T) {
	e := NewEncoder()
	if err := e.Encode("hi", shape.Str()); err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	want := []byte{0x00, 0x00, 0x00, 0x02, 'h', 'i'}
	if !bytes.Equal(e.Bytes(), want) {
		t.Errorf("Encode(\"hi\") = % X, want % X", e.Bytes(), want)
	}

	// Length counts bytes, not runes.
	e.Reset()
	if err := e.Encode("é", shape.Str()); err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	want = []byte{0x00, 0x00, 0x00, 0x02, 0xC3, 0xA9}
	if !bytes.Equal(e.Bytes(), want) {
		t.Errorf("Encode(\"é\") = % X, want % X", e.Bytes(), want)
	}

	// Empty strings still carry the length field.
	e.Reset()
	if err := e.Encode("", shape.Str()); err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	if !bytes.Equal(e.Bytes(), []byte{0, 0, 0, 0}) {
		t.Errorf("Encode(\"\") = % X, want 00 00 00 00", e.Bytes())
	}
}

func TestBytesEncoding(t *testing.T) {
	e := NewEncoder()
	if err := e.Encode([]byte{0xFF, 0x00}, shape.Bytes()); err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	want := []byte{0x00, 0x00, 0x00, 0x02, 0xFF, 0x00}
	if !bytes.Equal(e.Bytes(), want) {
		t.Errorf("Encode bytes = % X, want % X", e.Bytes(), want)
	}
}

func TestOptionEncoding(t *testing.T) {
	// None occupies zero bytes.
	e := NewEncoder()
	if err := e.Encode(nil, shape.OptionOf(shape.U32())); err != nil {
		t.Fatalf("Encode(nil) error: %v", err)
	}
	if e.Len() != 0 {
		t.Errorf("Encode(nil option) produced %d byte(s), want 0", e.Len())
	}

	// Some(v) is byte-identical to v alone.
	some := NewEncoder()
	if err := some.Encode(uint32(7), shape.OptionOf(shape.U32())); err != nil {
		t.Fatalf("Encode(some) error: %v", err)
	}
	bare := NewEncoder()
	if err := bare.Encode(uint32(7), shape.U32()); err != nil {
		t.Fatalf("Encode(bare) error: %v", err)
	}
	if !bytes.Equal(some.Bytes(), bare.Bytes()) {
		t.Errorf("option wrapper changed the encoding: % X vs % X", some.Bytes(), bare.Bytes())
	}

	// Pointers dereference; nil pointer is None.
	v := uint32(7)
	ptr := NewEncoder()
	if err := ptr.Encode(&v, shape.OptionOf(shape.U32())); err != nil {
		t.Fatalf("Encode(&v) error: %v", err)
	}
	if !bytes.Equal(ptr.Bytes(), bare.Bytes()) {
		t.Errorf("pointer option = % X, want % X", ptr.Bytes(), bare.Bytes())
	}
	nilPtr := NewEncoder()
	if err := nilPtr.Encode((*uint32)(nil), shape.OptionOf(shape.U32())); err != nil {
		t.Fatalf("Encode(nil ptr) error: %v", err)
	}
	if nilPtr.Len() != 0 {
		t.Errorf("nil pointer option produced %d byte(s), want 0", nilPtr.Len())
	}
}

func TestCompoundConcatenation(t *testing.T) {
	// Members concatenate with no count, padding or alignment.
	e := NewEncoder()
	tup := shape.TupleOf(shape.U8(), shape.U16(), shape.U32())
	if err := e.Encode([]any{uint8(1), uint16(2), uint32(3)}, tup); err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	want := []byte{0x01, 0x00, 0x02, 0x00, 0x00, 0x00, 0x03}
	if !bytes.Equal(e.Bytes(), want) {
		t.Errorf("tuple = % X, want % X", e.Bytes(), want)
	}

	// A struct of the same member shapes is byte-identical.
	s := NewEncoder()
	st := shape.StructOf(
		shape.Field{Name: "a", Shape: shape.U8()},
		shape.Field{Name: "b", Shape: shape.U16()},
		shape.Field{Name: "c", Shape: shape.U32()},
	)
	if err := s.Encode([]any{uint8(1), uint16(2), uint32(3)}, st); err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	if !bytes.Equal(s.Bytes(), want) {
		t.Errorf("struct = % X, want % X", s.Bytes(), want)
	}
}

func TestGoStructEncoding(t *testing.T) {
	type openRequest struct {
		SessionID uint32
		Path      string
		ok        bool // unexported, skipped
	}
	st := shape.StructOf(
		shape.Field{Name: "session_id", Shape: shape.U32()},
		shape.Field{Name: "path", Shape: shape.Str()},
	)

	e := NewEncoder()
	if err := e.Encode(openRequest{SessionID: 9, Path: "tty"}, st); err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	want := []byte{
		0x00, 0x00, 0x00, 0x09,
		0x00, 0x00, 0x00, 0x03, 't', 't', 'y',
	}
	if !bytes.Equal(e.Bytes(), want) {
		t.Errorf("Encode struct = % X, want % X", e.Bytes(), want)
	}
}

func TestVariantEncoding(t *testing.T) {
	v := shape.VariantOf(shape.Unit(), shape.U16())

	e := NewEncoder()
	if err := e.Encode(Variant{Index: 1, Value: uint16(0xBEEF)}, v); err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	want := []byte{0x00, 0x00, 0x00, 0x01, 0xBE, 0xEF}
	if !bytes.Equal(e.Bytes(), want) {
		t.Errorf("variant = % X, want % X", e.Bytes(), want)
	}

	// Unit cases are the bare 4-byte discriminant.
	e.Reset()
	if err := e.Encode(Variant{Index: 0}, v); err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	if !bytes.Equal(e.Bytes(), []byte{0, 0, 0, 0}) {
		t.Errorf("unit variant = % X, want 00 00 00 00", e.Bytes())
	}

	// Out-of-range index is caught before anything is written.
	bad := NewEncoder()
	err := bad.Encode(Variant{Index: 5}, v)
	if err == nil {
		t.Fatal("Encode(index 5 of 2) = nil error")
	}
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseEncode, Kind: errors.KindInvalidData}) {
		t.Errorf("error = %v, want encode/invalid_data", err)
	}
}

func TestSeqEncoding(t *testing.T) {
	e := NewEncoder()
	if err := e.Encode([]uint16{1, 2, 3}, shape.SeqOf(shape.U16())); err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	// Bare concatenation, no count.
	want := []byte{0x00, 0x01, 0x00, 0x02, 0x00, 0x03}
	if !bytes.Equal(e.Bytes(), want) {
		t.Errorf("seq = % X, want % X", e.Bytes(), want)
	}
}

func TestEncodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		value any
		shape *shape.Shape
		kind  errors.Kind
	}{
		{"map unsupported", map[string]uint32{}, shape.Map(), errors.KindUnsupported},
		{"type mismatch", "nope", shape.U32(), errors.KindTypeMismatch},
		{"bool needs bool", uint32(1), shape.Bool(), errors.KindTypeMismatch},
		{"u8 range", uint32(300), shape.U8(), errors.KindTypeMismatch},
		{"negative into unsigned", int32(-1), shape.U32(), errors.KindTypeMismatch},
		{"surrogate char", rune(0xD800), shape.Char(), errors.KindInvalidChar},
		{"char past max", rune(0x110000), shape.Char(), errors.KindTypeMismatch},
		{
			"member count", []any{uint8(1)},
			shape.TupleOf(shape.U8(), shape.U8()), errors.KindInvalidData,
		},
		{"variant needs Variant", uint32(0), shape.VariantOf(shape.Unit()), errors.KindTypeMismatch},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := NewEncoder().Encode(tc.value, tc.shape)
			if err == nil {
				t.Fatal("Encode = nil error")
			}
			if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseEncode, Kind: tc.kind}) {
				t.Errorf("error = %v, want encode/%s", err, tc.kind)
			}
		})
	}
}

func TestEncoderReset(t *testing.T) {
	e := NewEncoder()
	if err := e.Encode(uint32(1), shape.U32()); err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	e.Reset()
	if e.Len() != 0 {
		t.Errorf("Len after Reset = %d, want 0", e.Len())
	}
	if err := e.Encode(uint8(7), shape.U8()); err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	if !bytes.Equal(e.Bytes(), []byte{0x07}) {
		t.Errorf("Bytes after Reset = % X, want 07", e.Bytes())
	}
}

func TestWithOutput(t *testing.T) {
	var sink Buffer
	e := NewEncoder(WithOutput(&sink))
	if err := e.Encode(uint16(0x0102), shape.U16()); err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	if !bytes.Equal(sink.Bytes(), []byte{0x01, 0x02}) {
		t.Errorf("sink = % X, want 01 02", sink.Bytes())
	}
	// The encoder owns no buffer in this mode.
	if e.Bytes() != nil || e.Len() != 0 {
		t.Errorf("caller-owned sink: Bytes=%v Len=%d, want nil/0", e.Bytes(), e.Len())
	}
}
