package shape

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"scalar", "u32", "u32"},
		{"scalar alias", "i64", "s64"},
		{"uppercase", "STR", "str"},
		{"option", "option(u16)", "option(u16)"},
		{"seq", "seq(str)", "seq(str)"},
		{"tuple", "tuple(u8, u16, u32)", "tuple(u8, u16, u32)"},
		{"empty tuple", "tuple()", "tuple()"},
		{"struct named", "struct(id: u32, path: str)", "struct(id: u32, path: str)"},
		{"struct unnamed", "struct(u32, bool)", "struct(u32, bool)"},
		{"struct mixed", "struct(id: u32, bool)", "struct(id: u32, bool)"},
		{"variant", "variant(unit, u32)", "variant(unit, u32)"},
		{
			"nested",
			"struct(fd: option(tuple(u32, bool)), data: bytes)",
			"struct(fd: option(tuple(u32, bool)), data: bytes)",
		},
		{"whitespace", "  struct( a : u8 , b : str )  ", "struct(a: u8, b: str)"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, err := Parse(tc.input)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tc.input, err)
			}
			if got := s.String(); got != tc.want {
				t.Errorf("Parse(%q).String() = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	inputs := []string{
		"",
		"u33",
		"option",
		"option(u8",
		"seq()",
		"tuple(u8 u16)",
		"struct(a:)",
		"variant(unit,)",
		"u32 trailing",
		"(u8)",
	}

	for _, input := range inputs {
		if _, err := Parse(input); err == nil {
			t.Errorf("Parse(%q) = nil error, want invalid_shape", input)
		}
	}
}

func TestParseRoundTrip(t *testing.T) {
	shapes := []*Shape{
		F64(),
		OptionOf(SeqOf(U8())),
		VariantOf(Unit(), StructOf(Field{Name: "code", Shape: U32()}, Field{Name: "msg", Shape: Str()})),
		TupleOf(Char(), Bytes(), OptionOf(Str())),
	}

	for _, s := range shapes {
		got, err := Parse(s.String())
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", s, err)
		}
		if got.String() != s.String() {
			t.Errorf("round trip of %q produced %q", s, got)
		}
	}
}
