package codec

import (
	"encoding/binary"
	"math"
	"reflect"
	"strconv"

	muxcodec "github.com/wippyai/mux-codec"
	"github.com/wippyai/mux-codec/errors"
	"github.com/wippyai/mux-codec/shape"
)

// Buffer is the default growable Output sink. The zero value is ready to
// use.
type Buffer struct {
	data []byte
}

func (b *Buffer) Append(data []byte) { b.data = append(b.data, data...) }
func (b *Buffer) AppendByte(c byte)  { b.data = append(b.data, c) }

func (b *Buffer) Grow(n int) {
	if cap(b.data)-len(b.data) >= n {
		return
	}
	grown := make([]byte, len(b.data), len(b.data)+n)
	copy(grown, b.data)
	b.data = grown
}

func (b *Buffer) Bytes() []byte { return b.data }
func (b *Buffer) Len() int      { return len(b.data) }
func (b *Buffer) Reset()        { b.data = b.data[:0] }

// Encoder appends the wire encoding of one message to an append-only
// sink. Create one per message and discard it after Bytes.
//
// Every write is strictly appending; the only error an Encoder can
// produce on its own is LengthOverflow for strings or byte blobs whose
// byte length does not fit the u32 length field.
type Encoder struct {
	out     muxcodec.Output
	buf     *Buffer
	human   bool
	scratch [8]byte
}

// EncoderOption configures an Encoder.
type EncoderOption func(*Encoder)

// WithOutput redirects encoded bytes into a caller-owned sink instead of
// the Encoder's internal buffer. Bytes and Len are unavailable in that
// mode.
func WithOutput(out muxcodec.Output) EncoderOption {
	return func(e *Encoder) { e.out = out }
}

// WithEncoderHumanReadable marks the instance human-readable for the
// integration layer's own dispatch. It has zero effect on the byte
// layout.
func WithEncoderHumanReadable() EncoderOption {
	return func(e *Encoder) { e.human = true }
}

func NewEncoder(opts ...EncoderOption) *Encoder {
	e := &Encoder{}
	for _, opt := range opts {
		opt(e)
	}
	if e.out == nil {
		e.buf = &Buffer{}
		e.out = e.buf
	}
	return e
}

// IsHumanReadable reports the human-readable marker. The wire format is
// identical either way.
func (e *Encoder) IsHumanReadable() bool { return e.human }

// Bytes returns the encoded message so far. Only valid when the Encoder
// owns its buffer.
func (e *Encoder) Bytes() []byte {
	if e.buf == nil {
		return nil
	}
	return e.buf.Bytes()
}

// Len returns the number of bytes appended so far, or 0 for a
// caller-owned sink.
func (e *Encoder) Len() int {
	if e.buf == nil {
		return 0
	}
	return e.buf.Len()
}

// Reset clears the internal buffer for reuse on a new message.
func (e *Encoder) Reset() {
	if e.buf != nil {
		e.buf.Reset()
	}
}

// Scalar writes. All integers are fixed-width big-endian; bool and char
// widen to a 4-byte u32. None of these can fail.

func (e *Encoder) WriteBool(v bool) {
	var u uint32
	if v {
		u = 1
	}
	e.WriteU32(u)
}

// WriteChar writes the rune's Unicode scalar value as a u32. Validity is
// checked on the shape-driven Encode path, not here.
func (e *Encoder) WriteChar(r rune) { e.WriteU32(uint32(r)) }

func (e *Encoder) WriteU8(v uint8) { e.out.AppendByte(v) }
func (e *Encoder) WriteS8(v int8)  { e.out.AppendByte(uint8(v)) }

func (e *Encoder) WriteU16(v uint16) {
	binary.BigEndian.PutUint16(e.scratch[:2], v)
	e.out.Append(e.scratch[:2])
}

func (e *Encoder) WriteS16(v int16) { e.WriteU16(uint16(v)) }

func (e *Encoder) WriteU32(v uint32) {
	binary.BigEndian.PutUint32(e.scratch[:4], v)
	e.out.Append(e.scratch[:4])
}

func (e *Encoder) WriteS32(v int32) { e.WriteU32(uint32(v)) }

func (e *Encoder) WriteU64(v uint64) {
	binary.BigEndian.PutUint64(e.scratch[:8], v)
	e.out.Append(e.scratch[:8])
}

func (e *Encoder) WriteS64(v int64) { e.WriteU64(uint64(v)) }

// Floats keep their exact IEEE bit pattern, NaN payloads included, so
// decode(encode(v)) is bit-identical.
func (e *Encoder) WriteF32(v float32) { e.WriteU32(math.Float32bits(v)) }
func (e *Encoder) WriteF64(v float64) { e.WriteU64(math.Float64bits(v)) }

// WriteString appends a 4-byte big-endian byte length followed by the
// raw bytes, no terminator. The length counts bytes, not runes.
func (e *Encoder) WriteString(s string) error {
	if uint64(len(s)) > math.MaxUint32 {
		return errors.LengthOverflow(nil, len(s))
	}
	e.out.Grow(muxcodec.LengthPrefixSize + len(s))
	e.WriteU32(uint32(len(s)))
	e.out.Append([]byte(s))
	return nil
}

func (e *Encoder) WriteBytes(b []byte) error {
	if uint64(len(b)) > math.MaxUint32 {
		return errors.LengthOverflow(nil, len(b))
	}
	e.out.Grow(muxcodec.LengthPrefixSize + len(b))
	e.WriteU32(uint32(len(b)))
	e.out.Append(b)
	return nil
}

// WriteNone appends nothing: an absent optional value occupies zero
// bytes. A present value is written by encoding it directly, with no
// wrapper.
func (e *Encoder) WriteNone() {}

// Compound markers. Counts never reach the wire, so the begin/end pairs
// for sequences, tuples and structs emit nothing; they exist for
// symmetry with the variant marker, which does.

func (e *Encoder) BeginSeq(count int)    {}
func (e *Encoder) BeginTuple(count int)  {}
func (e *Encoder) BeginStruct(count int) {}
func (e *Encoder) EndSeq()               {}
func (e *Encoder) EndTuple()             {}
func (e *Encoder) EndStruct()            {}

// BeginVariant writes the 4-byte big-endian case index. The payload
// follows, encoded per its own shape, with no length prefix.
func (e *Encoder) BeginVariant(index uint32) { e.WriteU32(index) }
func (e *Encoder) EndVariant()               {}

// Variant is the dynamic value form of a tagged union case.
type Variant struct {
	Value any
	Index uint32
}

// Encode appends the shape-driven encoding of v.
//
// Accepted dynamic forms per kind:
//
//	scalars   any Go numeric type holding a representable value
//	char      rune (or any integer holding a Unicode scalar value)
//	str       string
//	bytes     []byte or string
//	option    nil for absent; a pointer (dereferenced) or the bare value
//	seq       any slice or array
//	tuple     []any, or a slice/array/struct with matching member count
//	struct    []any in field order, or a Go struct's exported fields
//	variant   Variant{Index, Value}
//	unit      anything; encodes as zero bytes
//	map       rejected with Unsupported
func (e *Encoder) Encode(v any, s *shape.Shape) error {
	return e.encode(v, s, nil)
}

func (e *Encoder) encode(v any, s *shape.Shape, path []string) error {
	if s == nil {
		return errors.InvalidShape(path, "nil shape")
	}

	switch s.Kind {
	case shape.KindBool:
		b, ok := v.(bool)
		if !ok {
			return errors.TypeMismatch(errors.PhaseEncode, path, typeName(v), s.String())
		}
		e.WriteBool(b)
		return nil

	case shape.KindU8:
		u, ok := coerceToUint(v, math.MaxUint8)
		if !ok {
			return errors.TypeMismatch(errors.PhaseEncode, path, typeName(v), s.String())
		}
		e.WriteU8(uint8(u))
		return nil

	case shape.KindU16:
		u, ok := coerceToUint(v, math.MaxUint16)
		if !ok {
			return errors.TypeMismatch(errors.PhaseEncode, path, typeName(v), s.String())
		}
		e.WriteU16(uint16(u))
		return nil

	case shape.KindU32:
		u, ok := coerceToUint(v, math.MaxUint32)
		if !ok {
			return errors.TypeMismatch(errors.PhaseEncode, path, typeName(v), s.String())
		}
		e.WriteU32(uint32(u))
		return nil

	case shape.KindU64:
		u, ok := coerceToUint(v, math.MaxUint64)
		if !ok {
			return errors.TypeMismatch(errors.PhaseEncode, path, typeName(v), s.String())
		}
		e.WriteU64(u)
		return nil

	case shape.KindS8:
		i, ok := coerceToInt(v, math.MinInt8, math.MaxInt8)
		if !ok {
			return errors.TypeMismatch(errors.PhaseEncode, path, typeName(v), s.String())
		}
		e.WriteS8(int8(i))
		return nil

	case shape.KindS16:
		i, ok := coerceToInt(v, math.MinInt16, math.MaxInt16)
		if !ok {
			return errors.TypeMismatch(errors.PhaseEncode, path, typeName(v), s.String())
		}
		e.WriteS16(int16(i))
		return nil

	case shape.KindS32:
		i, ok := coerceToInt(v, math.MinInt32, math.MaxInt32)
		if !ok {
			return errors.TypeMismatch(errors.PhaseEncode, path, typeName(v), s.String())
		}
		e.WriteS32(int32(i))
		return nil

	case shape.KindS64:
		i, ok := coerceToInt(v, math.MinInt64, math.MaxInt64)
		if !ok {
			return errors.TypeMismatch(errors.PhaseEncode, path, typeName(v), s.String())
		}
		e.WriteS64(i)
		return nil

	case shape.KindF32:
		switch f := v.(type) {
		case float32:
			e.WriteF32(f)
			return nil
		case float64:
			e.WriteF32(float32(f))
			return nil
		}
		return errors.TypeMismatch(errors.PhaseEncode, path, typeName(v), s.String())

	case shape.KindF64:
		switch f := v.(type) {
		case float64:
			e.WriteF64(f)
			return nil
		case float32:
			e.WriteF64(float64(f))
			return nil
		}
		return errors.TypeMismatch(errors.PhaseEncode, path, typeName(v), s.String())

	case shape.KindChar:
		i, ok := coerceToInt(v, 0, 0x10FFFF)
		if !ok {
			return errors.TypeMismatch(errors.PhaseEncode, path, typeName(v), s.String())
		}
		r := rune(i)
		if !validChar(r) {
			return errors.New(errors.PhaseEncode, errors.KindInvalidChar).
				Path(path...).
				Detail("0x%X is not a Unicode scalar value", r).
				Build()
		}
		e.WriteChar(r)
		return nil

	case shape.KindStr:
		str, ok := v.(string)
		if !ok {
			return errors.TypeMismatch(errors.PhaseEncode, path, typeName(v), s.String())
		}
		if err := e.WriteString(str); err != nil {
			return withPath(err, path)
		}
		return nil

	case shape.KindBytes:
		var b []byte
		switch raw := v.(type) {
		case []byte:
			b = raw
		case string:
			b = []byte(raw)
		default:
			return errors.TypeMismatch(errors.PhaseEncode, path, typeName(v), s.String())
		}
		if err := e.WriteBytes(b); err != nil {
			return withPath(err, path)
		}
		return nil

	case shape.KindUnit:
		return nil

	case shape.KindOption:
		return e.encodeOption(v, s, path)

	case shape.KindSeq:
		return e.encodeSeq(v, s, path)

	case shape.KindTuple:
		return e.encodeMembers(v, s.Elems, nil, s, path)

	case shape.KindStruct:
		members := make([]*shape.Shape, len(s.Fields))
		names := make([]string, len(s.Fields))
		for i, f := range s.Fields {
			members[i] = f.Shape
			names[i] = f.Name
		}
		return e.encodeMembers(v, members, names, s, path)

	case shape.KindVariant:
		return e.encodeVariant(v, s, path)

	case shape.KindMap:
		return errors.Unsupported(errors.PhaseEncode, "map encoding")

	default:
		return errors.InvalidShape(path, "unknown kind "+s.Kind.String())
	}
}

func (e *Encoder) encodeOption(v any, s *shape.Shape, path []string) error {
	if v == nil {
		e.WriteNone()
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			e.WriteNone()
			return nil
		}
		return e.encode(rv.Elem().Interface(), s.Elem, path)
	}
	// Present value with no wrapper byte: Some(v) encodes as v.
	return e.encode(v, s.Elem, path)
}

func (e *Encoder) encodeSeq(v any, s *shape.Shape, path []string) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return errors.TypeMismatch(errors.PhaseEncode, path, typeName(v), s.String())
	}
	n := rv.Len()
	e.BeginSeq(n)
	for i := 0; i < n; i++ {
		if err := e.encode(rv.Index(i).Interface(), s.Elem, append(path, "["+strconv.Itoa(i)+"]")); err != nil {
			return err
		}
	}
	e.EndSeq()
	return nil
}

func (e *Encoder) encodeMembers(v any, members []*shape.Shape, names []string, s *shape.Shape, path []string) error {
	values, err := memberValues(v, len(members), s, path)
	if err != nil {
		return err
	}
	e.BeginStruct(len(members))
	for i, m := range members {
		name := "[" + strconv.Itoa(i) + "]"
		if names != nil && names[i] != "" {
			name = names[i]
		}
		if err := e.encode(values[i], m, append(path, name)); err != nil {
			return err
		}
	}
	e.EndStruct()
	return nil
}

// memberValues flattens the dynamic forms a struct or tuple value may
// take into an ordered value list.
func memberValues(v any, want int, s *shape.Shape, path []string) ([]any, error) {
	if vs, ok := v.([]any); ok {
		if len(vs) != want {
			return nil, errors.New(errors.PhaseEncode, errors.KindInvalidData).
				Path(path...).
				Detail("member count mismatch: shape declares %d, value has %d", want, len(vs)).
				Build()
		}
		return vs, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Len() != want {
			return nil, errors.New(errors.PhaseEncode, errors.KindInvalidData).
				Path(path...).
				Detail("member count mismatch: shape declares %d, value has %d", want, rv.Len()).
				Build()
		}
		out := make([]any, want)
		for i := 0; i < want; i++ {
			out[i] = rv.Index(i).Interface()
		}
		return out, nil

	case reflect.Struct:
		out := make([]any, 0, want)
		rt := rv.Type()
		for i := 0; i < rt.NumField(); i++ {
			if !rt.Field(i).IsExported() {
				continue
			}
			out = append(out, rv.Field(i).Interface())
		}
		if len(out) != want {
			return nil, errors.New(errors.PhaseEncode, errors.KindInvalidData).
				Path(path...).
				GoType(rt.String()).
				Detail("member count mismatch: shape declares %d, struct has %d exported field(s)", want, len(out)).
				Build()
		}
		return out, nil
	}

	return nil, errors.TypeMismatch(errors.PhaseEncode, path, typeName(v), s.String())
}

func (e *Encoder) encodeVariant(v any, s *shape.Shape, path []string) error {
	va, ok := v.(Variant)
	if !ok {
		if vp, okp := v.(*Variant); okp && vp != nil {
			va, ok = *vp, true
		}
	}
	if !ok {
		return errors.TypeMismatch(errors.PhaseEncode, path, typeName(v), s.String())
	}
	if int(va.Index) >= len(s.Cases) {
		return errors.New(errors.PhaseEncode, errors.KindInvalidData).
			Path(path...).
			Detail("variant index %d out of range (%d case(s) declared)", va.Index, len(s.Cases)).
			Value(va.Index).
			Build()
	}
	e.BeginVariant(va.Index)
	if err := e.encode(va.Value, s.Cases[va.Index], append(path, "case["+strconv.Itoa(int(va.Index))+"]")); err != nil {
		return err
	}
	e.EndVariant()
	return nil
}

func withPath(err error, path []string) error {
	if len(path) == 0 {
		return err
	}
	if structured, ok := err.(*errors.Error); ok && len(structured.Path) == 0 {
		structured.Path = path
	}
	return err
}
