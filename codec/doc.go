// Package codec implements the Encoder and Decoder for the mux wire
// format.
//
// Both directions are driven by shape descriptors from the shape
// package. The Encoder appends to an owned growable buffer (or any
// muxcodec.Output sink); the Decoder advances a read-only cursor over an
// input slice and never rewinds.
//
// # Encoding Flow
//
//	enc := codec.NewEncoder()
//	err := enc.Encode(value, messageShape)
//	wire := enc.Bytes()
//
// # Decoding Flow
//
//	dec := codec.NewDecoder(wire)
//	value, err := dec.Decode(messageShape)
//	err = dec.Finish()   // rejects trailing bytes
//
// Low-level typed calls (WriteU32, ReadString, BeginVariant, ...) are
// exposed for integration layers that walk user types themselves instead
// of building dynamic values.
//
// # Lifecycle
//
// One Encoder or Decoder handles exactly one message and is then
// discarded. After any error the instance's state is unspecified; it
// must not be reused. Neither type is safe for concurrent use.
//
// # Format Caveats
//
// Sequences and maps cannot be decoded (the wire carries no count or
// terminator), and optional values are only decodable at the tail of a
// message. See the shape package for the tail-only-option check.
package codec
