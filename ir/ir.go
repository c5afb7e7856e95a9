// Package ir defines the assembly result handed to the shbin container writer.
//
// A Result is what the assembler front end produces after parsing and
// relocation: the flat opcode stream shared by every program, the operand
// descriptor table, and one Program per declared shader entry. The container
// writer treats a Result as read-only; nothing in this module mutates one
// after it has been built.
package ir

// Result is a fully assembled and relocated shader binary, ready to be
// written out as a container.
type Result struct {
	// Code holds the opcode words shared by all programs.
	Code []uint32

	// Operands holds the operand descriptor table (one doubleword per entry).
	Operands []uint64

	// Programs holds the declared programs in source order.
	// The order is significant and is preserved in the container.
	Programs []Program
}

// ProgramKind identifies the shader stage of a program.
type ProgramKind uint8

const (
	ProgramVertex ProgramKind = iota
	ProgramGeometry
)

// String returns the stage name.
func (k ProgramKind) String() string {
	switch k {
	case ProgramVertex:
		return "vertex"
	case ProgramGeometry:
		return "geometry"
	default:
		return "unknown"
	}
}

// GeometryInfo holds the geometry-shader specific header bytes.
// All fields are zero for vertex programs.
type GeometryInfo struct {
	Type        uint8
	FixedStart  uint8
	VariableNum uint8
	FixedNum    uint8
}

// Program describes one shader program (one DVLE section).
type Program struct {
	Kind  ProgramKind
	Merge bool

	// EntryStart and EntryEnd delimit main in instruction words.
	EntryStart uint32
	EntryEnd   uint32

	InputMask  uint16
	OutputMask uint16

	Geometry GeometryInfo

	// Skip marks a program that is counted in the container header
	// but has no section emitted for it.
	Skip bool

	Constants []Constant

	// Outputs holds pre-encoded output map entries, written verbatim.
	Outputs []uint64

	Uniforms []Uniform
}

// SymbolSize returns the byte length of the program's symbol blob:
// every uniform name plus its NUL terminator.
func (p *Program) SymbolSize() int {
	n := 0
	for i := range p.Uniforms {
		n += len(p.Uniforms[i].Name) + 1
	}
	return n
}

// EmittedPrograms returns the number of programs that get a section.
func (r *Result) EmittedPrograms() int {
	n := 0
	for i := range r.Programs {
		if !r.Programs[i].Skip {
			n++
		}
	}
	return n
}

// Uniform is a named shader input bound to Size consecutive registers
// starting at Pos.
type Uniform struct {
	Name string
	Pos  uint16
	Size uint16
}
