package frame

import (
	"bytes"
	stderrors "errors"
	"io"
	"reflect"
	"testing"

	"github.com/wippyai/mux-codec/codec"
	"github.com/wippyai/mux-codec/errors"
	"github.com/wippyai/mux-codec/shape"
)

var helloShape = shape.StructOf(
	shape.Field{Name: "version", Shape: shape.U32()},
	shape.Field{Name: "banner", Shape: shape.Str()},
)

func helloValue() []any { return []any{uint32(4), "mux"} }

// 4-byte prefix + u32 + (4-byte length + "mux")
var helloFrame = []byte{
	0x00, 0x00, 0x00, 0x0B,
	0x00, 0x00, 0x00, 0x04,
	0x00, 0x00, 0x00, 0x03, 'm', 'u', 'x',
}

func TestMarshal(t *testing.T) {
	tr := NewTransformer()
	got, err := tr.Marshal(helloValue(), helloShape)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if !bytes.Equal(got, helloFrame) {
		t.Errorf("Marshal = % X, want % X", got, helloFrame)
	}
}

func TestMarshalEmptyBody(t *testing.T) {
	tr := NewTransformer()
	got, err := tr.Marshal(nil, shape.Unit())
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if !bytes.Equal(got, []byte{0, 0, 0, 0}) {
		t.Errorf("Marshal(unit) = % X, want a zero-length prefix only", got)
	}
}

func TestMarshalReusesBuffer(t *testing.T) {
	tr := NewTransformer()
	first, err := tr.Marshal(uint8(1), shape.U8())
	if err != nil {
		t.Fatal(err)
	}
	want := append([]byte(nil), first...)

	if _, err := tr.Marshal(uint8(2), shape.U8()); err != nil {
		t.Fatal(err)
	}
	second, err := tr.Marshal(uint8(1), shape.U8())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(second, want) {
		t.Errorf("third Marshal = % X, want % X", second, want)
	}
}

func TestUnmarshal(t *testing.T) {
	tr := NewTransformer()
	got, err := tr.Unmarshal(helloFrame, helloShape)
	if err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if !reflect.DeepEqual(got, helloValue()) {
		t.Errorf("Unmarshal = %#v, want %#v", got, helloValue())
	}
}

func TestUnmarshalErrors(t *testing.T) {
	tr := NewTransformer()

	// Shorter than the prefix itself.
	_, err := tr.Unmarshal([]byte{0x00, 0x00}, helloShape)
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseFrame, Kind: errors.KindUnexpectedEOF}) {
		t.Errorf("short frame error = %v, want frame/unexpected_eof", err)
	}

	// Prefix disagrees with the body length.
	bad := append([]byte(nil), helloFrame...)
	bad[3] = 0xFF
	_, err = tr.Unmarshal(bad, helloShape)
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseFrame, Kind: errors.KindInvalidData}) {
		t.Errorf("length mismatch error = %v, want frame/invalid_data", err)
	}

	// Body decodes but leaves bytes over.
	tr2 := NewTransformer()
	frame, err := tr2.Marshal([]any{uint32(4), "mux"}, helloShape)
	if err != nil {
		t.Fatal(err)
	}
	_, err = tr.Unmarshal(frame, shape.StructOf(shape.Field{Name: "version", Shape: shape.U32()}))
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindTrailingBytes}) {
		t.Errorf("trailing error = %v, want decode/trailing_bytes", err)
	}
}

func TestWriteRead(t *testing.T) {
	var stream bytes.Buffer
	if err := Write(&stream, helloValue(), helloShape); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if err := Write(&stream, []any{uint32(5), "next"}, helloShape); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	// Frames come back one at a time in order.
	first, err := ReadValue(&stream, helloShape)
	if err != nil {
		t.Fatalf("ReadValue error: %v", err)
	}
	if !reflect.DeepEqual(first, helloValue()) {
		t.Errorf("first frame = %#v, want %#v", first, helloValue())
	}
	second, err := ReadValue(&stream, helloShape)
	if err != nil {
		t.Fatalf("ReadValue error: %v", err)
	}
	if !reflect.DeepEqual(second, []any{uint32(5), "next"}) {
		t.Errorf("second frame = %#v", second)
	}

	// Orderly end of stream is a plain io.EOF.
	if _, err := ReadValue(&stream, helloShape); err != io.EOF {
		t.Errorf("after last frame: err = %v, want io.EOF", err)
	}
}

func TestReadTruncated(t *testing.T) {
	// Stream ends inside the header.
	_, err := Read(bytes.NewReader(helloFrame[:2]))
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseFrame, Kind: errors.KindUnexpectedEOF}) {
		t.Errorf("header truncation error = %v, want frame/unexpected_eof", err)
	}

	// Stream ends inside the body.
	_, err = Read(bytes.NewReader(helloFrame[:6]))
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseFrame, Kind: errors.KindUnexpectedEOF}) {
		t.Errorf("body truncation error = %v, want frame/unexpected_eof", err)
	}
}

func TestReadBody(t *testing.T) {
	body, err := Read(bytes.NewReader(helloFrame))
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if !bytes.Equal(body, helloFrame[4:]) {
		t.Errorf("Read = % X, want % X", body, helloFrame[4:])
	}
}

func TestReadValueStrictBool(t *testing.T) {
	var stream bytes.Buffer
	boolShape := shape.Bool()
	if err := Write(&stream, true, boolShape); err != nil {
		t.Fatal(err)
	}
	got, err := ReadValue(&stream, boolShape, codec.WithStrictBool())
	if err != nil {
		t.Fatalf("ReadValue error: %v", err)
	}
	if got != true {
		t.Errorf("ReadValue = %v, want true", got)
	}
}
