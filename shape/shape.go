package shape

import (
	"strconv"
	"strings"

	"github.com/wippyai/mux-codec/errors"
)

// Shape describes the structural kind of a value on the wire. It is the
// only type information the codec ever sees: the format is not
// self-describing, so both directions are driven entirely by the shape
// the caller supplies.
//
// Shapes are immutable after construction and safe to share between
// goroutines and across messages.
type Shape struct {
	Elem   *Shape   // Option and Seq element
	Elems  []*Shape // Tuple members in declared order
	Fields []Field  // Struct fields in declared order
	Cases  []*Shape // Variant payloads, indexed by wire discriminant
	Kind   Kind
}

// Field is a named struct member. The name never reaches the wire; it
// only appears in error paths and rendered shape strings.
type Field struct {
	Name  string
	Shape *Shape
}

// Scalar shapes are singletons; compound constructors allocate.
var (
	boolShape  = &Shape{Kind: KindBool}
	u8Shape    = &Shape{Kind: KindU8}
	s8Shape    = &Shape{Kind: KindS8}
	u16Shape   = &Shape{Kind: KindU16}
	s16Shape   = &Shape{Kind: KindS16}
	u32Shape   = &Shape{Kind: KindU32}
	s32Shape   = &Shape{Kind: KindS32}
	u64Shape   = &Shape{Kind: KindU64}
	s64Shape   = &Shape{Kind: KindS64}
	f32Shape   = &Shape{Kind: KindF32}
	f64Shape   = &Shape{Kind: KindF64}
	charShape  = &Shape{Kind: KindChar}
	strShape   = &Shape{Kind: KindStr}
	bytesShape = &Shape{Kind: KindBytes}
	unitShape  = &Shape{Kind: KindUnit}
	mapShape   = &Shape{Kind: KindMap}
)

func Bool() *Shape  { return boolShape }
func U8() *Shape    { return u8Shape }
func S8() *Shape    { return s8Shape }
func U16() *Shape   { return u16Shape }
func S16() *Shape   { return s16Shape }
func U32() *Shape   { return u32Shape }
func S32() *Shape   { return s32Shape }
func U64() *Shape   { return u64Shape }
func S64() *Shape   { return s64Shape }
func F32() *Shape   { return f32Shape }
func F64() *Shape   { return f64Shape }
func Char() *Shape  { return charShape }
func Str() *Shape   { return strShape }
func Bytes() *Shape { return bytesShape }

// Unit is a zero-byte value: the payload of a bare enum variant, or an
// empty struct or tuple.
func Unit() *Shape { return unitShape }

// Map exists only so that attempts to use one produce a structured
// unsupported error instead of a missing constructor.
func Map() *Shape { return mapShape }

// OptionOf wraps inner as an optional value. Absence occupies zero bytes
// and presence encodes exactly like inner, so options are only decodable
// at the tail of a message.
func OptionOf(inner *Shape) *Shape {
	return &Shape{Kind: KindOption, Elem: inner}
}

// SeqOf describes a homogeneous sequence. Sequences encode as bare
// concatenation with no count, so they can be written but never read back.
func SeqOf(elem *Shape) *Shape {
	return &Shape{Kind: KindSeq, Elem: elem}
}

func TupleOf(elems ...*Shape) *Shape {
	return &Shape{Kind: KindTuple, Elems: elems}
}

func StructOf(fields ...Field) *Shape {
	return &Shape{Kind: KindStruct, Fields: fields}
}

// VariantOf declares a tagged union. The slice index is the 4-byte wire
// discriminant; use Unit for cases that carry no payload.
func VariantOf(cases ...*Shape) *Shape {
	return &Shape{Kind: KindVariant, Cases: cases}
}

// String renders the shape in the same syntax Parse accepts.
func (s *Shape) String() string {
	if s == nil {
		return "<nil>"
	}
	switch s.Kind {
	case KindOption, KindSeq:
		return s.Kind.String() + "(" + s.Elem.String() + ")"
	case KindTuple:
		parts := make([]string, len(s.Elems))
		for i, e := range s.Elems {
			parts[i] = e.String()
		}
		return "tuple(" + strings.Join(parts, ", ") + ")"
	case KindStruct:
		parts := make([]string, len(s.Fields))
		for i, f := range s.Fields {
			if f.Name != "" {
				parts[i] = f.Name + ": " + f.Shape.String()
			} else {
				parts[i] = f.Shape.String()
			}
		}
		return "struct(" + strings.Join(parts, ", ") + ")"
	case KindVariant:
		parts := make([]string, len(s.Cases))
		for i, c := range s.Cases {
			parts[i] = c.String()
		}
		return "variant(" + strings.Join(parts, ", ") + ")"
	default:
		return s.Kind.String()
	}
}

// Validate checks structural well-formedness: every compound shape must
// carry the children its kind requires. It does not enforce the
// tail-only-option protocol convention; see CheckTailOptions.
func (s *Shape) Validate() error {
	return s.validate(nil)
}

func (s *Shape) validate(path []string) error {
	if s == nil {
		return errors.InvalidShape(path, "nil shape")
	}
	switch s.Kind {
	case KindOption, KindSeq:
		if s.Elem == nil {
			return errors.InvalidShape(path, s.Kind.String()+" has no element shape")
		}
		return s.Elem.validate(append(path, s.Kind.String()))
	case KindTuple:
		for i, e := range s.Elems {
			if err := e.validate(append(path, "tuple["+strconv.Itoa(i)+"]")); err != nil {
				return err
			}
		}
	case KindStruct:
		for i, f := range s.Fields {
			name := f.Name
			if name == "" {
				name = "field[" + strconv.Itoa(i) + "]"
			}
			if err := f.Shape.validate(append(path, name)); err != nil {
				return err
			}
		}
	case KindVariant:
		if len(s.Cases) == 0 {
			return errors.InvalidShape(path, "variant declares no cases")
		}
		for i, c := range s.Cases {
			if err := c.validate(append(path, "case["+strconv.Itoa(i)+"]")); err != nil {
				return err
			}
		}
	default:
		if int(s.Kind) >= len(kindNames) {
			return errors.InvalidShape(path, "unknown kind")
		}
	}
	return nil
}

// CheckTailOptions verifies the protocol convention that optional fields
// occupy only the final position(s) of every struct and tuple in the
// shape. The wire format cannot express an absent value followed by a
// present one, so a shape violating this decodes ambiguously. Intended
// as a debug aid; the codec itself never enforces it.
func CheckTailOptions(s *Shape) error {
	return checkTailOptions(s, nil)
}

func checkTailOptions(s *Shape, path []string) error {
	if s == nil {
		return nil
	}
	switch s.Kind {
	case KindOption, KindSeq:
		return checkTailOptions(s.Elem, append(path, s.Kind.String()))
	case KindTuple:
		return checkMemberTail(s.Elems, nil, path)
	case KindStruct:
		members := make([]*Shape, len(s.Fields))
		names := make([]string, len(s.Fields))
		for i, f := range s.Fields {
			members[i] = f.Shape
			names[i] = f.Name
		}
		return checkMemberTail(members, names, path)
	case KindVariant:
		for i, c := range s.Cases {
			if err := checkTailOptions(c, append(path, "case["+strconv.Itoa(i)+"]")); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkMemberTail(members []*Shape, names []string, path []string) error {
	seenOption := false
	for i, m := range members {
		name := "member[" + strconv.Itoa(i) + "]"
		if names != nil && names[i] != "" {
			name = names[i]
		}
		if seenOption && m.Kind != KindOption {
			return errors.InvalidShape(append(path, name),
				"non-optional member follows an optional one; options must be trailing")
		}
		if m.Kind == KindOption {
			seenOption = true
		}
		if err := checkTailOptions(m, append(path, name)); err != nil {
			return err
		}
	}
	return nil
}

// FixedSize returns the exact wire size of the shape when it is the same
// for every value, with ok=false for shapes whose size depends on the
// value (strings, bytes, options, sequences, variants).
func (s *Shape) FixedSize() (int, bool) {
	switch {
	case s == nil:
		return 0, false
	case s.Kind.IsScalar():
		return s.Kind.ScalarSize(), true
	case s.Kind == KindUnit:
		return 0, true
	case s.Kind == KindTuple:
		return fixedSum(s.Elems)
	case s.Kind == KindStruct:
		total := 0
		for _, f := range s.Fields {
			n, ok := f.Shape.FixedSize()
			if !ok {
				return 0, false
			}
			total += n
		}
		return total, true
	default:
		return 0, false
	}
}

func fixedSum(shapes []*Shape) (int, bool) {
	total := 0
	for _, s := range shapes {
		n, ok := s.FixedSize()
		if !ok {
			return 0, false
		}
		total += n
	}
	return total, true
}
