package shape

import (
	"strings"

	"github.com/wippyai/mux-codec/errors"
)

// Parse builds a shape from its textual form, the same syntax String
// renders:
//
//	u32
//	struct(id: u32, path: str, fd: option(u32))
//	variant(unit, u32, struct(bool, str))
//
// Field names inside struct(...) are optional and never affect the wire
// encoding. The parser exists for tools and tests; production callers
// construct shapes directly.
func Parse(input string) (*Shape, error) {
	p := &parser{src: input}
	s, err := p.parseShape()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, p.errorf("trailing input after shape")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) errorf(format string, args ...any) error {
	return errors.New(errors.PhaseShape, errors.KindInvalidShape).
		Detail(format, args...).
		Build()
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t' || p.src[p.pos] == '\n') {
		p.pos++
	}
}

func (p *parser) ident() string {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '-' {
			p.pos++
			continue
		}
		break
	}
	return p.src[start:p.pos]
}

func (p *parser) eat(c byte) bool {
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

var scalarByName = map[string]*Shape{
	"bool":  boolShape,
	"u8":    u8Shape,
	"s8":    s8Shape,
	"i8":    s8Shape,
	"u16":   u16Shape,
	"s16":   s16Shape,
	"i16":   s16Shape,
	"u32":   u32Shape,
	"s32":   s32Shape,
	"i32":   s32Shape,
	"u64":   u64Shape,
	"s64":   s64Shape,
	"i64":   s64Shape,
	"f32":   f32Shape,
	"f64":   f64Shape,
	"char":  charShape,
	"str":   strShape,
	"bytes": bytesShape,
	"unit":  unitShape,
	"map":   mapShape,
}

func (p *parser) parseShape() (*Shape, error) {
	p.skipSpace()
	name := strings.ToLower(p.ident())
	if name == "" {
		return nil, p.errorf("expected shape name at offset %d", p.pos)
	}

	if s, ok := scalarByName[name]; ok {
		return s, nil
	}

	switch name {
	case "option", "seq":
		if !p.eat('(') {
			return nil, p.errorf("%s requires an element: %s(<shape>)", name, name)
		}
		elem, err := p.parseShape()
		if err != nil {
			return nil, err
		}
		if !p.eat(')') {
			return nil, p.errorf("missing ')' after %s element", name)
		}
		if name == "option" {
			return OptionOf(elem), nil
		}
		return SeqOf(elem), nil

	case "tuple", "variant":
		elems, _, err := p.parseArgs(false)
		if err != nil {
			return nil, err
		}
		if name == "tuple" {
			return TupleOf(elems...), nil
		}
		return VariantOf(elems...), nil

	case "struct":
		elems, names, err := p.parseArgs(true)
		if err != nil {
			return nil, err
		}
		fields := make([]Field, len(elems))
		for i, e := range elems {
			fields[i] = Field{Name: names[i], Shape: e}
		}
		return StructOf(fields...), nil

	default:
		return nil, p.errorf("unknown shape %q", name)
	}
}

func (p *parser) parseArgs(named bool) ([]*Shape, []string, error) {
	if !p.eat('(') {
		return nil, nil, p.errorf("expected '(' at offset %d", p.pos)
	}
	var shapes []*Shape
	var names []string
	if p.eat(')') {
		return shapes, names, nil
	}
	for {
		name := ""
		if named {
			// Lookahead for "ident:" without consuming a bare shape name.
			save := p.pos
			p.skipSpace()
			id := p.ident()
			if id != "" && p.eat(':') {
				name = id
			} else {
				p.pos = save
			}
		}
		s, err := p.parseShape()
		if err != nil {
			return nil, nil, err
		}
		shapes = append(shapes, s)
		names = append(names, name)
		if p.eat(',') {
			continue
		}
		if p.eat(')') {
			return shapes, names, nil
		}
		return nil, nil, p.errorf("expected ',' or ')' at offset %d", p.pos)
	}
}
