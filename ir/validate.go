package ir

import (
	"fmt"
)

// ValidationError represents a validation error.
type ValidationError struct {
	Message string
	// Program is the index of the offending program, or -1 for result-level errors.
	Program int
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Program >= 0 {
		return fmt.Sprintf("program %d: %s", e.Program, e.Message)
	}
	return e.Message
}

// Validator checks an assembly result against the constraints the shader
// loader relies on. The container writer never validates on its own; a
// malformed result simply produces a malformed container.
type Validator struct {
	result  *Result
	errors  []ValidationError
	program int
}

// Validate checks the result for correctness.
// Returns validation errors if any, or nil if the result is valid.
func Validate(result *Result) ([]ValidationError, error) {
	if result == nil {
		return nil, fmt.Errorf("result is nil")
	}

	v := &Validator{
		result:  result,
		errors:  make([]ValidationError, 0),
		program: -1,
	}

	v.ValidateResult()

	if len(v.errors) > 0 {
		return v.errors, nil
	}
	return nil, nil
}

// ValidateResult validates every program of the result.
func (v *Validator) ValidateResult() {
	for i := range v.result.Programs {
		v.program = i
		v.validateProgram(&v.result.Programs[i])
	}
	v.program = -1
}

func (v *Validator) validateProgram(p *Program) {
	if p.Kind != ProgramVertex && p.Kind != ProgramGeometry {
		v.addError(fmt.Sprintf("unknown program kind %d", p.Kind))
	}

	if p.EntryStart > p.EntryEnd {
		v.addError(fmt.Sprintf("entry point start %d is past its end %d", p.EntryStart, p.EntryEnd))
	}
	if int(p.EntryEnd) > len(v.result.Code) {
		v.addError(fmt.Sprintf("entry point end %d is beyond the code (%d words)", p.EntryEnd, len(v.result.Code)))
	}

	v.validateConstants(p.Constants)
	v.validateUniforms(p.Uniforms)
}

func (v *Validator) validateConstants(constants []Constant) {
	for i, c := range constants {
		if c.Value == nil {
			v.addError(fmt.Sprintf("constant %d has no value", i))
			continue
		}
		kind := c.Kind()
		base := kind.RegisterBase()
		if c.Reg < base || c.Reg >= base+kind.RegisterCount() {
			v.addError(fmt.Sprintf("constant %d: register 0x%02X is outside the %s band [0x%02X, 0x%02X)",
				i, c.Reg, kind, base, base+kind.RegisterCount()))
		}
	}
}

func (v *Validator) validateUniforms(uniforms []Uniform) {
	names := make(map[string]bool)
	for i, u := range uniforms {
		if u.Name == "" {
			v.addError(fmt.Sprintf("uniform %d has empty name", i))
		} else {
			if names[u.Name] {
				v.addError(fmt.Sprintf("duplicate uniform name %q", u.Name))
			}
			names[u.Name] = true
		}
		if u.Size == 0 {
			v.addError(fmt.Sprintf("uniform %q has zero size", u.Name))
		}
	}
}

// addError adds a validation error.
func (v *Validator) addError(msg string) {
	v.errors = append(v.errors, ValidationError{
		Message: msg,
		Program: v.program,
	})
}
