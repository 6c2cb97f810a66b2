package shape

type Kind uint8

const (
	KindBool Kind = iota
	KindU8
	KindS8
	KindU16
	KindS16
	KindU32
	KindS32
	KindU64
	KindS64
	KindF32
	KindF64
	KindChar
	KindStr
	KindBytes
	KindUnit
	KindOption
	KindSeq
	KindTuple
	KindStruct
	KindVariant
	KindMap
)

var kindNames = [...]string{
	KindBool:    "bool",
	KindU8:      "u8",
	KindS8:      "s8",
	KindU16:     "u16",
	KindS16:     "s16",
	KindU32:     "u32",
	KindS32:     "s32",
	KindU64:     "u64",
	KindS64:     "s64",
	KindF32:     "f32",
	KindF64:     "f64",
	KindChar:    "char",
	KindStr:     "str",
	KindBytes:   "bytes",
	KindUnit:    "unit",
	KindOption:  "option",
	KindSeq:     "seq",
	KindTuple:   "tuple",
	KindStruct:  "struct",
	KindVariant: "variant",
	KindMap:     "map",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

func (k Kind) IsScalar() bool {
	return k <= KindChar
}

// ScalarSize returns the wire width in bytes of a scalar kind.
// Bool and char widen to a 4-byte u32. Returns 0 for non-scalars.
func (k Kind) ScalarSize() int {
	switch k {
	case KindU8, KindS8:
		return 1
	case KindU16, KindS16:
		return 2
	case KindBool, KindChar, KindU32, KindS32, KindF32:
		return 4
	case KindU64, KindS64, KindF64:
		return 8
	default:
		return 0
	}
}
