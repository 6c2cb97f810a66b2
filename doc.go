// Package muxcodec implements the byte format used to talk to an SSH
// multiplexing control process.
//
// The format is fixed and non-self-describing: a reader must always know
// the shape of the value it expects before touching the wire. Shapes are
// explicit descriptors (see the shape package) rather than per-type
// generated code, so arbitrary message record types can be encoded and
// decoded without boilerplate.
//
// # Architecture Overview
//
// The module is organized into several packages with distinct responsibilities:
//
//	muxcodec/       Root package with the Output sink interface
//	├── shape/      Shape descriptors that drive encoding and decoding
//	├── codec/      Encoder and Decoder for the wire format
//	├── frame/      Length-prefixed message framing for the mux socket
//	└── errors/     Structured error types for debugging
//
// # Wire Format
//
// All integers are fixed-width big-endian. Bool and char widen to a
// 4-byte u32. Strings and byte blobs carry a 4-byte big-endian byte
// length followed by the raw bytes, with no terminator. Structs, tuples
// and sequences are the plain concatenation of their members with no
// count prefix, which is why sequences can be encoded but never decoded.
// An absent optional value occupies zero bytes and a present one encodes
// exactly like its inner value; the protocol only permits optional
// fields at the tail of a message. Enum variants are a 4-byte big-endian
// index followed by the payload. Maps are not representable.
//
// # Quick Start
//
// Encode and decode a message body:
//
//	s := shape.StructOf(
//	    shape.Field{Name: "request-id", Shape: shape.U32()},
//	    shape.Field{Name: "path", Shape: shape.Str()},
//	)
//
//	enc := codec.NewEncoder()
//	if err := enc.Encode([]any{uint32(7), "/tmp/sock"}, s); err != nil {
//	    log.Fatal(err)
//	}
//
//	dec := codec.NewDecoder(enc.Bytes())
//	v, err := dec.Decode(s)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := dec.Finish(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// Shape values are immutable after construction and safe for concurrent
// use. Encoder and Decoder maintain internal state and are NOT
// thread-safe; use one instance per message and discard it afterwards.
package muxcodec
