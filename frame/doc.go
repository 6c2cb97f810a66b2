// Package frame handles the length-prefixed exchange of whole mux
// messages over a stream.
//
// The codec package encodes message bodies; this package wraps them in
// the 4-byte big-endian length prefix the mux socket expects. The
// Transformer reserves the prefix slot before encoding and back-patches
// it afterwards, reusing one buffer across messages. Write, Read and
// ReadValue do the same exchange directly against an io.Writer or
// io.Reader.
package frame
