package codec

import (
	"encoding/binary"
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/wippyai/mux-codec/errors"
	"github.com/wippyai/mux-codec/shape"
)

// Decoder consumes the wire encoding of one message from an immutable
// input slice. The cursor advances monotonically and never rewinds.
//
// The format is not self-describing: the caller names the expected shape
// before every read. On any error the cursor position is unspecified and
// the instance must be discarded; create one Decoder per message.
type Decoder struct {
	input      []byte
	pos        int
	strictBool bool
	human      bool
}

// DecoderOption configures a Decoder.
type DecoderOption func(*Decoder)

// WithStrictBool makes ReadBool reject encoded values other than 0 and 1
// instead of treating any nonzero u32 as true.
func WithStrictBool() DecoderOption {
	return func(d *Decoder) { d.strictBool = true }
}

// WithDecoderHumanReadable marks the instance human-readable for the
// integration layer's own dispatch. It has zero effect on how bytes are
// interpreted.
func WithDecoderHumanReadable() DecoderOption {
	return func(d *Decoder) { d.human = true }
}

func NewDecoder(input []byte, opts ...DecoderOption) *Decoder {
	d := &Decoder{input: input}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// IsHumanReadable reports the human-readable marker.
func (d *Decoder) IsHumanReadable() bool { return d.human }

// Pos returns the number of bytes consumed so far.
func (d *Decoder) Pos() int { return d.pos }

// Remaining returns the number of unconsumed bytes.
func (d *Decoder) Remaining() int { return len(d.input) - d.pos }

// Finish verifies the whole input was consumed. Call it after decoding
// the top-level value of a message.
func (d *Decoder) Finish() error {
	if rest := d.Remaining(); rest != 0 {
		return errors.TrailingBytes(rest)
	}
	return nil
}

// next consumes exactly n bytes. The returned slice aliases the input
// and is only valid while the input is.
func (d *Decoder) next(n int) ([]byte, error) {
	if d.Remaining() < n {
		return nil, errors.UnexpectedEOF(nil, n, d.Remaining())
	}
	b := d.input[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

func (d *Decoder) ReadU8() (uint8, error) {
	b, err := d.next(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *Decoder) ReadS8() (int8, error) {
	v, err := d.ReadU8()
	return int8(v), err
}

func (d *Decoder) ReadU16() (uint16, error) {
	b, err := d.next(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (d *Decoder) ReadS16() (int16, error) {
	v, err := d.ReadU16()
	return int16(v), err
}

func (d *Decoder) ReadU32() (uint32, error) {
	b, err := d.next(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (d *Decoder) ReadS32() (int32, error) {
	v, err := d.ReadU32()
	return int32(v), err
}

func (d *Decoder) ReadU64() (uint64, error) {
	b, err := d.next(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

func (d *Decoder) ReadS64() (int64, error) {
	v, err := d.ReadU64()
	return int64(v), err
}

// Floats are reconstructed from their exact IEEE bit pattern; NaN
// payloads survive the round trip.

func (d *Decoder) ReadF32() (float32, error) {
	v, err := d.ReadU32()
	return math.Float32frombits(v), err
}

func (d *Decoder) ReadF64() (float64, error) {
	v, err := d.ReadU64()
	return math.Float64frombits(v), err
}

// ReadBool consumes a 4-byte u32. Zero decodes as false and any nonzero
// value as true, matching what the mux server emits; strict mode rejects
// values other than 0 and 1.
func (d *Decoder) ReadBool() (bool, error) {
	v, err := d.ReadU32()
	if err != nil {
		return false, err
	}
	if d.strictBool && v > 1 {
		return false, errors.InvalidBool(nil, v)
	}
	return v != 0, nil
}

// ReadChar consumes a 4-byte u32 and interprets it as a Unicode scalar
// value.
func (d *Decoder) ReadChar() (rune, error) {
	v, err := d.ReadU32()
	if err != nil {
		return 0, err
	}
	r := rune(v)
	if !validChar(r) {
		return 0, errors.InvalidChar(nil, v)
	}
	return r, nil
}

// ReadString consumes a 4-byte byte length then that many bytes,
// validated as UTF-8.
func (d *Decoder) ReadString() (string, error) {
	b, err := d.readLengthPrefixed()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", errors.InvalidUTF8(errors.PhaseDecode, nil, b)
	}
	return string(b), nil
}

// ReadBytes consumes a 4-byte byte length then that many raw bytes with
// no content validation. The returned slice aliases the Decoder's input.
func (d *Decoder) ReadBytes() ([]byte, error) {
	return d.readLengthPrefixed()
}

func (d *Decoder) readLengthPrefixed() ([]byte, error) {
	n, err := d.ReadU32()
	if err != nil {
		return nil, err
	}
	return d.next(int(n))
}

// Decode consumes exactly the bytes the shape requires and produces the
// value.
//
// Produced dynamic forms per kind:
//
//	bool → bool, u8 → uint8, ..., f64 → float64, char → rune
//	str → string, bytes → []byte (copied)
//	unit → nil
//	option → nil at end of input, else the inner value
//	tuple/struct → []any in member order
//	variant → Variant{Index, Value}
//	seq, map → always rejected with Unsupported
func (d *Decoder) Decode(s *shape.Shape) (any, error) {
	return d.decode(s, nil)
}

func (d *Decoder) decode(s *shape.Shape, path []string) (any, error) {
	if s == nil {
		return nil, errors.InvalidShape(path, "nil shape")
	}

	switch s.Kind {
	case shape.KindBool:
		v, err := d.ReadBool()
		return v, withPath(err, path)
	case shape.KindU8:
		v, err := d.ReadU8()
		return v, withPath(err, path)
	case shape.KindS8:
		v, err := d.ReadS8()
		return v, withPath(err, path)
	case shape.KindU16:
		v, err := d.ReadU16()
		return v, withPath(err, path)
	case shape.KindS16:
		v, err := d.ReadS16()
		return v, withPath(err, path)
	case shape.KindU32:
		v, err := d.ReadU32()
		return v, withPath(err, path)
	case shape.KindS32:
		v, err := d.ReadS32()
		return v, withPath(err, path)
	case shape.KindU64:
		v, err := d.ReadU64()
		return v, withPath(err, path)
	case shape.KindS64:
		v, err := d.ReadS64()
		return v, withPath(err, path)
	case shape.KindF32:
		v, err := d.ReadF32()
		return v, withPath(err, path)
	case shape.KindF64:
		v, err := d.ReadF64()
		return v, withPath(err, path)
	case shape.KindChar:
		v, err := d.ReadChar()
		return v, withPath(err, path)

	case shape.KindStr:
		v, err := d.ReadString()
		return v, withPath(err, path)

	case shape.KindBytes:
		b, err := d.ReadBytes()
		if err != nil {
			return nil, withPath(err, path)
		}
		out := make([]byte, len(b))
		copy(out, b)
		return out, nil

	case shape.KindUnit:
		return nil, nil

	case shape.KindOption:
		// Absence and presence share the same bytes, so an option is
		// None exactly when the message has nothing left for it. Sound
		// only under the tail-only-optional protocol convention.
		if d.Remaining() == 0 {
			return nil, nil
		}
		return d.decode(s.Elem, path)

	case shape.KindSeq:
		// No count or terminator exists on the wire; there is no safe
		// way to know where a sequence ends.
		return nil, errors.Unsupported(errors.PhaseDecode, "sequence decoding")

	case shape.KindTuple:
		out := make([]any, len(s.Elems))
		for i, m := range s.Elems {
			v, err := d.decode(m, append(path, "["+strconv.Itoa(i)+"]"))
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil

	case shape.KindStruct:
		out := make([]any, len(s.Fields))
		for i, f := range s.Fields {
			name := f.Name
			if name == "" {
				name = "[" + strconv.Itoa(i) + "]"
			}
			v, err := d.decode(f.Shape, append(path, name))
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil

	case shape.KindVariant:
		return d.decodeVariant(s, path)

	case shape.KindMap:
		return nil, errors.Unsupported(errors.PhaseDecode, "map decoding")

	default:
		return nil, errors.InvalidShape(path, "unknown kind "+s.Kind.String())
	}
}

func (d *Decoder) decodeVariant(s *shape.Shape, path []string) (any, error) {
	index, err := d.ReadU32()
	if err != nil {
		return nil, withPath(err, path)
	}
	if int(index) >= len(s.Cases) {
		return nil, errors.UnknownVariant(path, index, uint32(len(s.Cases)))
	}
	debugf("variant case %d of %d at byte %d", index, len(s.Cases), d.pos)
	payload, err := d.decode(s.Cases[index], append(path, "case["+strconv.Itoa(int(index))+"]"))
	if err != nil {
		return nil, err
	}
	return Variant{Index: index, Value: payload}, nil
}
