// Package manifest is a shbin front end that reads an already assembled
// shader program from a YAML or TOML document.
//
// A manifest carries what a shader assembler produces: the code words, the
// operand descriptors, a label table and the per-program metadata. Entry
// points may refer to labels; they are resolved when the unit is relocated.
//
//	code: [0x4C000000, 0x88000000]
//	operands: [0x0000036F]
//	labels: {main: 0, endmain: 1}
//	programs:
//	  - kind: vertex
//	    entry: main
//	    end: endmain
//	    outputMask: 0x0003
//	    constants:
//	      - {type: fvec, reg: c1, values: [1.0, 0.0, -1.0, 0.5]}
//	    uniforms:
//	      - {name: proj, pos: c0, size: 4}
//
// Registers are written as a bank letter and an index (v0, c95, i3, b15) or
// as a raw register id (0x21). In TOML, registers and entry references are
// strings.
package manifest

import (
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/shbin"
)

// Format is a manifest encoding.
type Format uint8

const (
	FormatYAML Format = iota
	FormatTOML
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	default:
		return "unknown"
	}
}

// FormatFor picks the format from a file name: ".toml" is TOML, anything
// else is YAML.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// Document is the decoded form of a manifest.
type Document struct {
	Code     []uint32          `yaml:"code" toml:"code"`
	Operands []uint64          `yaml:"operands" toml:"operands"`
	Labels   map[string]uint32 `yaml:"labels" toml:"labels"`
	Programs []Program         `yaml:"programs" toml:"programs"`
}

// Program describes one shader program.
type Program struct {
	// Kind is "vertex" (the default) or "geometry".
	Kind  string `yaml:"kind" toml:"kind"`
	Merge bool   `yaml:"merge" toml:"merge"`

	// Entry and End are label names or instruction addresses. An empty
	// Entry means address 0, an empty End means the end of the code.
	Entry string `yaml:"entry" toml:"entry"`
	End   string `yaml:"end" toml:"end"`

	InputMask  uint16   `yaml:"inputMask" toml:"inputMask"`
	OutputMask uint16   `yaml:"outputMask" toml:"outputMask"`
	Geometry   Geometry `yaml:"geometry" toml:"geometry"`

	// Skip counts the program in the container header without emitting
	// a section for it.
	Skip bool `yaml:"skip" toml:"skip"`

	Constants []Constant `yaml:"constants" toml:"constants"`
	Outputs   []uint64   `yaml:"outputs" toml:"outputs"`
	Uniforms  []Uniform  `yaml:"uniforms" toml:"uniforms"`
}

// Geometry holds the geometry shader header bytes.
type Geometry struct {
	Type        uint8 `yaml:"type" toml:"type"`
	FixedStart  uint8 `yaml:"fixedStart" toml:"fixedStart"`
	VariableNum uint8 `yaml:"variableNum" toml:"variableNum"`
	FixedNum    uint8 `yaml:"fixedNum" toml:"fixedNum"`
}

// Constant is a constant register initializer.
type Constant struct {
	// Type is "fvec", "ivec" or "bool".
	Type string `yaml:"type" toml:"type"`
	Reg  string `yaml:"reg" toml:"reg"`

	// Values holds the four components of an fvec or ivec.
	Values []float64 `yaml:"values" toml:"values"`

	// Value holds the value of a bool.
	Value bool `yaml:"value" toml:"value"`
}

// Uniform is a named uniform bound to Size registers starting at Pos.
type Uniform struct {
	Name string `yaml:"name" toml:"name"`
	Pos  string `yaml:"pos" toml:"pos"`
	// Size defaults to 1.
	Size uint16 `yaml:"size" toml:"size"`
}

// Parse decodes a manifest. Unknown keys are rejected.
func Parse(source string, format Format) (*Document, error) {
	var doc Document
	switch format {
	case FormatTOML:
		dec := toml.NewDecoder(strings.NewReader(source))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, tomlError(err)
		}
	default:
		dec := yaml.NewDecoder(strings.NewReader(source))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return &doc, nil
			}
			return nil, &SyntaxError{Message: err.Error(), Err: err}
		}
	}
	return &doc, nil
}

func tomlError(err error) error {
	var de *toml.DecodeError
	if errors.As(err, &de) {
		row, col := de.Position()
		return &SyntaxError{Line: row, Column: col, Message: de.Error(), Err: err}
	}
	var se *toml.StrictMissingError
	if errors.As(err, &se) {
		return &SyntaxError{Message: se.String(), Err: err}
	}
	return &SyntaxError{Message: err.Error(), Err: err}
}

// Frontend assembles manifests for shbin.Assembler.
type Frontend struct {
	Format Format
}

// Assemble parses source and converts it into a relocatable unit.
func (f Frontend) Assemble(source string) (shbin.Relocatable, error) {
	doc, err := Parse(source, f.Format)
	if err != nil {
		return nil, err
	}
	unit, err := Compile(doc)
	if err != nil {
		return nil, err
	}
	return unit, nil
}
