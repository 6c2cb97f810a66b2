package muxcodec

// Output is an append-only sink for encoded bytes.
//
// The codec's Encoder writes to its own growable buffer by default, but a
// caller that already owns a write buffer (a connection's send queue, a
// frame builder) can supply its own Output instead.
type Output interface {
	// Append adds data to the end of the sink.
	Append(data []byte)
	// AppendByte adds a single byte to the end of the sink.
	AppendByte(b byte)
	// Grow reserves capacity for at least n more bytes.
	Grow(n int)
}

// LengthPrefixSize is the width of the u32 length that precedes strings,
// byte blobs and whole framed messages on the wire.
const LengthPrefixSize = 4
