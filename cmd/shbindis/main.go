// shbindis - shader binary dumper
// Prints the headers and tables of a DVLB container
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/gogpu/shbin/dvl"
	"github.com/gogpu/shbin/ir"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: shbindis <file.shbin>")
		return
	}
	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	c, err := dvl.Decode(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Print(dump(c))
}

func dump(c *dvl.Container) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "; DVLB\n")
	fmt.Fprintf(&sb, "; Programs: %d (%d sections)\n", c.ProgramCount, len(c.Sections))
	if c.OffsetSkew != 0 {
		fmt.Fprintf(&sb, "; Offset skew: %d bytes\n", c.OffsetSkew)
	}
	for i, off := range c.Offsets {
		fmt.Fprintf(&sb, ";   [%d] 0x%X\n", i, off)
	}
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "; DVLP version %d\n", c.Blob.Version)
	fmt.Fprintf(&sb, "; Code: %d words\n", len(c.Blob.Code))
	for i, w := range c.Blob.Code {
		fmt.Fprintf(&sb, "%04X: %08X\n", i, w)
	}
	fmt.Fprintf(&sb, "; Operand descriptors: %d\n", len(c.Blob.Operands))
	for i, d := range c.Blob.Operands {
		fmt.Fprintf(&sb, "d%02d: %016X\n", i, d)
	}

	for i := range c.Sections {
		sb.WriteString("\n")
		dumpSection(&sb, i, &c.Sections[i])
	}
	return sb.String()
}

func dumpSection(sb *strings.Builder, index int, s *dvl.Section) {
	fmt.Fprintf(sb, "; DVLE %d at 0x%X (version 0x%04X)\n", index, s.Offset, s.Version)
	fmt.Fprintf(sb, ";   kind %s, merge %t\n", s.Kind, s.Merge)
	fmt.Fprintf(sb, ";   entry [%d, %d]\n", s.EntryStart, s.EntryEnd)
	fmt.Fprintf(sb, ";   input mask 0x%04X, output mask 0x%04X\n", s.InputMask, s.OutputMask)
	if s.Kind == ir.ProgramGeometry {
		g := s.Geometry
		fmt.Fprintf(sb, ";   geometry type %d, fixed start %d, variable %d, fixed %d\n",
			g.Type, g.FixedStart, g.VariableNum, g.FixedNum)
	}

	for _, c := range s.Constants {
		fmt.Fprintf(sb, ".constant %s %s", c.Kind, register(c.RawReg()))
		switch c.Kind {
		case ir.ConstFloatVector:
			f := c.Floats()
			fmt.Fprintf(sb, " (%g, %g, %g, %g)\n", f[0], f[1], f[2], f[3])
		case ir.ConstIntVector:
			v := c.Ints()
			fmt.Fprintf(sb, " (%d, %d, %d, %d)\n", v[0], v[1], v[2], v[3])
		default:
			fmt.Fprintf(sb, " %t\n", c.Bool())
		}
	}
	for i, o := range s.Outputs {
		fmt.Fprintf(sb, ".out %d %016X\n", i, o)
	}
	for _, u := range s.Uniforms {
		fmt.Fprintf(sb, ".uniform %s [0x%02X, 0x%02X]\n", u.Name, u.Start, u.End)
	}
}

func register(raw uint16) string {
	switch {
	case raw >= 0x88:
		return fmt.Sprintf("b%d", raw-0x88)
	case raw >= 0x80:
		return fmt.Sprintf("i%d", raw-0x80)
	case raw >= 0x20:
		return fmt.Sprintf("c%d", raw-0x20)
	default:
		return fmt.Sprintf("0x%02X", raw)
	}
}
