package frame

import (
	"encoding/binary"
	"io"
	"math"

	muxcodec "github.com/wippyai/mux-codec"
	"github.com/wippyai/mux-codec/codec"
	"github.com/wippyai/mux-codec/errors"
	"github.com/wippyai/mux-codec/shape"
)

// Transformer builds length-prefixed frames into one reusable buffer.
//
// Every mux message travels as a 4-byte big-endian body length followed
// by the body. The Transformer reserves the length slot up front,
// encodes the body behind it, then back-patches the slot, so a frame is
// produced in a single buffer with no copy. Not safe for concurrent use;
// each Marshal invalidates the slice returned by the previous one.
type Transformer struct {
	buf codec.Buffer
}

func NewTransformer() *Transformer {
	return &Transformer{}
}

// Marshal encodes v per s and returns the complete frame, length prefix
// included. The returned slice aliases the Transformer's buffer.
func (t *Transformer) Marshal(v any, s *shape.Shape, opts ...codec.EncoderOption) ([]byte, error) {
	t.buf.Reset()
	t.buf.Append(make([]byte, muxcodec.LengthPrefixSize))

	opts = append(opts, codec.WithOutput(&t.buf))
	enc := codec.NewEncoder(opts...)
	if err := enc.Encode(v, s); err != nil {
		return nil, err
	}

	b := t.buf.Bytes()
	body := len(b) - muxcodec.LengthPrefixSize
	if uint64(body) > math.MaxUint32 {
		return nil, errors.LengthOverflow(nil, body)
	}
	binary.BigEndian.PutUint32(b[:muxcodec.LengthPrefixSize], uint32(body))
	return b, nil
}

// Unmarshal decodes a frame produced by Marshal (or read off the mux
// socket), verifying that the prefix matches the body length and that
// the body decodes with no bytes left over.
func (t *Transformer) Unmarshal(frame []byte, s *shape.Shape, opts ...codec.DecoderOption) (any, error) {
	body, err := splitFrame(frame)
	if err != nil {
		return nil, err
	}
	return decodeBody(body, s, opts...)
}

func splitFrame(frame []byte) ([]byte, error) {
	if len(frame) < muxcodec.LengthPrefixSize {
		return nil, errors.New(errors.PhaseFrame, errors.KindUnexpectedEOF).
			Detail("frame shorter than the %d-byte length prefix", muxcodec.LengthPrefixSize).
			Build()
	}
	declared := binary.BigEndian.Uint32(frame[:muxcodec.LengthPrefixSize])
	body := frame[muxcodec.LengthPrefixSize:]
	if uint32(len(body)) != declared {
		return nil, errors.New(errors.PhaseFrame, errors.KindInvalidData).
			Detail("length prefix declares %d byte(s), frame carries %d", declared, len(body)).
			Build()
	}
	return body, nil
}

func decodeBody(body []byte, s *shape.Shape, opts ...codec.DecoderOption) (any, error) {
	dec := codec.NewDecoder(body, opts...)
	v, err := dec.Decode(s)
	if err != nil {
		return nil, err
	}
	if err := dec.Finish(); err != nil {
		return nil, err
	}
	return v, nil
}

// Write encodes v per s and writes the complete frame to w.
func Write(w io.Writer, v any, s *shape.Shape, opts ...codec.EncoderOption) error {
	t := NewTransformer()
	b, err := t.Marshal(v, s, opts...)
	if err != nil {
		return err
	}
	if _, err := w.Write(b); err != nil {
		return errors.IO("write frame", err)
	}
	return nil
}

// Read consumes one frame from r and returns its body. A clean EOF
// before the first header byte surfaces as io.EOF so callers can detect
// an orderly shutdown; EOF anywhere else is an unexpected truncation.
func Read(r io.Reader) ([]byte, error) {
	var header [muxcodec.LengthPrefixSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, mapIOErr(err, "read frame header")
	}
	body := make([]byte, binary.BigEndian.Uint32(header[:]))
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, mapIOErr(err, "read frame body")
	}
	return body, nil
}

// ReadValue reads one frame from r and decodes its body per s, requiring
// the body to be fully consumed.
func ReadValue(r io.Reader, s *shape.Shape, opts ...codec.DecoderOption) (any, error) {
	body, err := Read(r)
	if err != nil {
		return nil, err
	}
	return decodeBody(body, s, opts...)
}

func mapIOErr(err error, what string) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return errors.New(errors.PhaseFrame, errors.KindUnexpectedEOF).
			Detail(what + ": stream ended mid-frame").
			Cause(err).
			Build()
	}
	return errors.IO(what, err)
}
