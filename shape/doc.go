// Package shape defines the descriptors that drive mux wire encoding
// and decoding.
//
// The mux format is not self-describing, so a Shape is the contract
// between a caller and the codec: it names the structural kind of the
// value at every position (scalar, string, bytes, option, sequence,
// tuple, struct, variant) and nothing more. User message types map to
// shapes mechanically in an integration layer; the codec never inspects
// user types itself.
//
// # Key Types
//
//	Kind   - structural discriminator (bool, u8..f64, char, str, ...)
//	Shape  - immutable descriptor tree
//	Field  - named struct member (names never reach the wire)
//
// Scalar shapes are shared singletons, so shape comparison by pointer is
// valid for scalars. Compound constructors (OptionOf, TupleOf, StructOf,
// VariantOf, SeqOf) allocate a node per call.
//
// Parse and Shape.String round-trip a small textual syntax used by tools:
//
//	struct(id: u32, path: str, fd: option(u32))
//
// CheckTailOptions is a debug aid for the protocol rule that optional
// members may only occupy the trailing positions of a record.
package shape
