package manifest

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gogpu/shbin/ir"
)

// registerBanks maps register bank letters to their first raw register id
// and register count.
var registerBanks = map[byte]struct {
	base  uint16
	count uint16
}{
	'v': {0x00, 16},
	'c': {0x20, 96},
	'i': {0x80, 4},
	'b': {0x88, 16},
}

// parseRegister parses "c12" style register names and raw ids.
func parseRegister(s string) (uint16, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("missing register")
	}
	if n, err := strconv.ParseUint(s, 0, 16); err == nil {
		return uint16(n), nil
	}

	bank, ok := registerBanks[s[0]]
	if !ok {
		return 0, fmt.Errorf("unknown register %q", s)
	}
	idx, err := strconv.ParseUint(s[1:], 10, 16)
	if err != nil {
		return 0, fmt.Errorf("bad register index in %q", s)
	}
	if idx >= uint64(bank.count) {
		return 0, fmt.Errorf("register %q out of range, bank has %d registers", s, bank.count)
	}
	return bank.base + uint16(idx), nil
}

// Unit is a compiled manifest whose entry points are not yet resolved.
type Unit struct {
	code     []uint32
	operands []uint64
	labels   map[string]uint32
	programs []ir.Program
	entries  []entryRef
}

type entryRef struct {
	start, end string
}

// Compile converts a decoded manifest into a relocatable unit.
// Errors are *SyntaxError.
func Compile(doc *Document) (*Unit, error) {
	u := &Unit{
		code:     doc.Code,
		operands: doc.Operands,
		labels:   doc.Labels,
		programs: make([]ir.Program, 0, len(doc.Programs)),
		entries:  make([]entryRef, 0, len(doc.Programs)),
	}

	for i := range doc.Programs {
		p, err := compileProgram(&doc.Programs[i])
		if err != nil {
			err.Message = fmt.Sprintf("program %d: %s", i, err.Message)
			return nil, err
		}
		u.programs = append(u.programs, p)
		u.entries = append(u.entries, entryRef{start: doc.Programs[i].Entry, end: doc.Programs[i].End})
	}
	return u, nil
}

func compileProgram(src *Program) (ir.Program, *SyntaxError) {
	p := ir.Program{
		Merge:      src.Merge,
		InputMask:  src.InputMask,
		OutputMask: src.OutputMask,
		Geometry: ir.GeometryInfo{
			Type:        src.Geometry.Type,
			FixedStart:  src.Geometry.FixedStart,
			VariableNum: src.Geometry.VariableNum,
			FixedNum:    src.Geometry.FixedNum,
		},
		Skip:    src.Skip,
		Outputs: src.Outputs,
	}

	switch strings.ToLower(src.Kind) {
	case "", "vertex":
		p.Kind = ir.ProgramVertex
	case "geometry":
		p.Kind = ir.ProgramGeometry
	default:
		return p, syntaxErrorf("unknown program kind %q", src.Kind)
	}

	for j := range src.Constants {
		c, err := compileConstant(&src.Constants[j])
		if err != nil {
			return p, syntaxErrorf("constant %d: %v", j, err)
		}
		p.Constants = append(p.Constants, c)
	}

	for j, su := range src.Uniforms {
		if su.Name == "" {
			return p, syntaxErrorf("uniform %d: missing name", j)
		}
		pos, err := parseRegister(su.Pos)
		if err != nil {
			return p, syntaxErrorf("uniform %q: %v", su.Name, err)
		}
		size := su.Size
		if size == 0 {
			size = 1
		}
		p.Uniforms = append(p.Uniforms, ir.Uniform{Name: su.Name, Pos: pos, Size: size})
	}

	return p, nil
}

func compileConstant(src *Constant) (ir.Constant, error) {
	reg, err := parseRegister(src.Reg)
	if err != nil {
		return ir.Constant{}, err
	}
	c := ir.Constant{Reg: reg}

	switch strings.ToLower(src.Type) {
	case "fvec":
		if len(src.Values) != 4 {
			return c, fmt.Errorf("fvec needs 4 values, got %d", len(src.Values))
		}
		var v ir.FloatVector
		for i, f := range src.Values {
			v[i] = float32(f)
		}
		c.Value = v
	case "ivec":
		if len(src.Values) != 4 {
			return c, fmt.Errorf("ivec needs 4 values, got %d", len(src.Values))
		}
		var v ir.IntVector
		for i, f := range src.Values {
			if f != math.Trunc(f) || f < math.MinInt8 || f > math.MaxInt8 {
				return c, fmt.Errorf("ivec component %v is not a signed byte", f)
			}
			v[i] = int8(f)
		}
		c.Value = v
	case "bool":
		if len(src.Values) != 0 {
			return c, fmt.Errorf("bool takes value, not values")
		}
		c.Value = ir.Bool(src.Value)
	default:
		return c, fmt.Errorf("unknown constant type %q", src.Type)
	}
	return c, nil
}

// Relocate resolves entry point references against the label table and
// returns the assembly result. The unit is left unchanged.
func (u *Unit) Relocate() (*ir.Result, error) {
	r := &ir.Result{
		Code:     u.code,
		Operands: u.operands,
		Programs: make([]ir.Program, len(u.programs)),
	}
	copy(r.Programs, u.programs)

	codeLen := uint32(len(u.code))
	for i, e := range u.entries {
		start, err := u.resolve(i, e.start, 0)
		if err != nil {
			return nil, err
		}
		end, err := u.resolve(i, e.end, codeLen)
		if err != nil {
			return nil, err
		}
		r.Programs[i].EntryStart = start
		r.Programs[i].EntryEnd = end
	}
	return r, nil
}

func (u *Unit) resolve(program int, ref string, fallback uint32) (uint32, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return fallback, nil
	}

	addr, ok := u.labels[ref]
	if !ok {
		n, err := strconv.ParseUint(ref, 0, 32)
		if err != nil {
			return 0, &RelocationError{Program: program, Ref: ref, Message: "undefined label"}
		}
		addr = uint32(n)
	}
	if addr > uint32(len(u.code)) {
		return 0, &RelocationError{
			Program: program,
			Ref:     ref,
			Message: fmt.Sprintf("address %d is beyond the code (%d words)", addr, len(u.code)),
		}
	}
	return addr, nil
}
