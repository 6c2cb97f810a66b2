package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/mux-codec/codec"
	"github.com/wippyai/mux-codec/frame"
	"github.com/wippyai/mux-codec/shape"
)

func main() {
	var (
		inFile      = flag.String("in", "", "Input file (defaults to stdin)")
		shapeExpr   = flag.String("shape", "", "Shape of the payload, e.g. 'struct(id: u32, path: str)'")
		hexInput    = flag.Bool("hex", false, "Input is hex text instead of raw bytes")
		framed      = flag.Bool("framed", false, "Input starts with a 4-byte length prefix")
		strict      = flag.Bool("strict", false, "Reject bool encodings other than 0 and 1")
		verbose     = flag.Bool("v", false, "Verbose logging")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err == nil {
			codec.SetLogger(logger)
			defer logger.Sync()
		}
	}

	data, err := readInput(*inFile, *hexInput)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *interactive {
		if err := runInteractive(data, *shapeExpr, *strict); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *shapeExpr == "" {
		fmt.Fprintln(os.Stderr, "Usage: muxdump -shape '<shape>' [-in file] [-hex] [-framed] [-strict]")
		fmt.Fprintln(os.Stderr, "       muxdump -i [-in file] [-hex]  (interactive mode)")
		os.Exit(1)
	}

	if err := dump(data, *shapeExpr, *framed, *strict); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func readInput(path string, hexText bool) ([]byte, error) {
	var data []byte
	var err error
	if path == "" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if hexText {
		cleaned := strings.Map(func(r rune) rune {
			if r == ' ' || r == '\n' || r == '\t' || r == '\r' {
				return -1
			}
			return r
		}, string(data))
		data, err = hex.DecodeString(cleaned)
		if err != nil {
			return nil, fmt.Errorf("decode hex: %w", err)
		}
	}
	return data, nil
}

func dump(data []byte, shapeExpr string, framed, strict bool) error {
	s, err := shape.Parse(shapeExpr)
	if err != nil {
		return err
	}

	if framed {
		v, err := decodeFramed(data, s, strict)
		if err != nil {
			return err
		}
		printDump(data, s, v)
		return nil
	}

	var opts []codec.DecoderOption
	if strict {
		opts = append(opts, codec.WithStrictBool())
	}
	dec := codec.NewDecoder(data, opts...)
	v, err := dec.Decode(s)
	if err != nil {
		return err
	}
	if err := dec.Finish(); err != nil {
		return err
	}
	printDump(data, s, v)
	return nil
}

func decodeFramed(data []byte, s *shape.Shape, strict bool) (any, error) {
	var opts []codec.DecoderOption
	if strict {
		opts = append(opts, codec.WithStrictBool())
	}
	t := frame.NewTransformer()
	return t.Unmarshal(data, s, opts...)
}

func printDump(data []byte, s *shape.Shape, v any) {
	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 20 {
		width = w
	}

	fmt.Printf("Payload: %d byte(s)\n", len(data))
	fmt.Println(hexDump(data, width))
	fmt.Printf("Shape:   %s\n\n", s)
	fmt.Println(renderValue(v, s, 0))
}

// hexDump formats bytes in rows sized to the terminal width, 8-byte
// groups separated by a double space.
func hexDump(data []byte, width int) string {
	perRow := 16
	if width >= 120 {
		perRow = 32
	} else if width < 60 {
		perRow = 8
	}

	var b strings.Builder
	for row := 0; row < len(data); row += perRow {
		end := row + perRow
		if end > len(data) {
			end = len(data)
		}
		fmt.Fprintf(&b, "  %08x  ", row)
		for i := row; i < end; i++ {
			fmt.Fprintf(&b, "%02x", data[i])
			if (i-row)%8 == 7 {
				b.WriteString("  ")
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func renderValue(v any, s *shape.Shape, depth int) string {
	indent := strings.Repeat("  ", depth)

	switch s.Kind {
	case shape.KindStruct:
		var b strings.Builder
		b.WriteString(indent + "struct {\n")
		vs, _ := v.([]any)
		for i, f := range s.Fields {
			name := f.Name
			if name == "" {
				name = fmt.Sprintf("field%d", i)
			}
			var fv any
			if i < len(vs) {
				fv = vs[i]
			}
			b.WriteString(fmt.Sprintf("%s  %s: %s\n", indent, fieldStyle.Render(name),
				strings.TrimLeft(renderValue(fv, f.Shape, depth+1), " ")))
		}
		b.WriteString(indent + "}")
		return b.String()

	case shape.KindTuple:
		var parts []string
		vs, _ := v.([]any)
		for i, m := range s.Elems {
			var mv any
			if i < len(vs) {
				mv = vs[i]
			}
			parts = append(parts, strings.TrimLeft(renderValue(mv, m, depth), " "))
		}
		return indent + "(" + strings.Join(parts, ", ") + ")"

	case shape.KindVariant:
		va, ok := v.(codec.Variant)
		if !ok {
			return indent + valueStyle.Render(fmt.Sprintf("%v", v))
		}
		payload := strings.TrimLeft(renderValue(va.Value, s.Cases[va.Index], depth), " ")
		return fmt.Sprintf("%s%s(%s)", indent, typeStyle.Render(fmt.Sprintf("case %d", va.Index)), payload)

	case shape.KindOption:
		if v == nil {
			return indent + typeStyle.Render("none")
		}
		return indent + "some(" + strings.TrimLeft(renderValue(v, s.Elem, depth), " ") + ")"

	case shape.KindBytes:
		if b, ok := v.([]byte); ok {
			return indent + valueStyle.Render(fmt.Sprintf("%d byte(s): %x", len(b), b))
		}
		return indent + valueStyle.Render(fmt.Sprintf("%v", v))

	case shape.KindStr:
		return indent + valueStyle.Render(fmt.Sprintf("%q", v))

	case shape.KindChar:
		if r, ok := v.(rune); ok {
			return indent + valueStyle.Render(fmt.Sprintf("%q", r))
		}
		return indent + valueStyle.Render(fmt.Sprintf("%v", v))

	case shape.KindUnit:
		return indent + typeStyle.Render("unit")

	default:
		return indent + valueStyle.Render(fmt.Sprintf("%v", v)) + " " + typeStyle.Render(s.Kind.String())
	}
}
