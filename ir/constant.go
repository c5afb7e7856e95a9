package ir

// ConstantKind is the on-disk type tag of a constant table entry.
type ConstantKind uint16

const (
	ConstBool ConstantKind = iota
	ConstIntVector
	ConstFloatVector
)

// String returns the assembler spelling of the kind.
func (k ConstantKind) String() string {
	switch k {
	case ConstBool:
		return "bool"
	case ConstIntVector:
		return "ivec"
	case ConstFloatVector:
		return "fvec"
	default:
		return "unknown"
	}
}

// RegisterBase returns the first raw register id of the kind's register band.
// Constant table entries store register ids relative to this base.
func (k ConstantKind) RegisterBase() uint16 {
	switch k {
	case ConstIntVector:
		return 0x80
	case ConstBool:
		return 0x88
	default:
		return 0x20
	}
}

// RegisterCount returns the number of registers in the kind's band.
func (k ConstantKind) RegisterCount() uint16 {
	switch k {
	case ConstIntVector:
		return 4
	case ConstBool:
		return 16
	default:
		return 96
	}
}

// Constant is a constant register initializer declared by a program.
type Constant struct {
	// Reg is the raw register id, inside the band of Value's kind.
	Reg   uint16
	Value ConstantValue
}

// Kind returns the kind of the constant's value.
// A constant without a value reports ConstFloatVector.
func (c Constant) Kind() ConstantKind {
	if c.Value == nil {
		return ConstFloatVector
	}
	return c.Value.constantKind()
}

// ConstantValue is the payload of a constant. It is one of FloatVector,
// IntVector or Bool.
type ConstantValue interface {
	constantKind() ConstantKind
}

// FloatVector is a four component float uniform (fN registers).
type FloatVector [4]float32

func (FloatVector) constantKind() ConstantKind { return ConstFloatVector }

// IntVector is a four component integer uniform (iN registers).
type IntVector [4]int8

func (IntVector) constantKind() ConstantKind { return ConstIntVector }

// Bool is a boolean uniform (bN registers).
type Bool bool

func (Bool) constantKind() ConstantKind { return ConstBool }
