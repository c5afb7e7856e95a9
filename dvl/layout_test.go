package dvl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/shbin/ir"
)

// projResult is a single vertex program with one float constant and one
// uniform, over four code words and two operand descriptors.
func projResult() *ir.Result {
	return &ir.Result{
		Code:     []uint32{0x4C000000, 0x08020000, 0x84000000, 0x88000000},
		Operands: []uint64{0x0000036F, 0x0000036E},
		Programs: []ir.Program{{
			Kind:       ir.ProgramVertex,
			EntryStart: 0,
			EntryEnd:   3,
			InputMask:  0x0001,
			OutputMask: 0x0003,
			Constants: []ir.Constant{
				{Reg: 0x21, Value: ir.FloatVector{1.0, 0.0, -1.0, 0.5}},
			},
			Uniforms: []ir.Uniform{
				{Name: "proj", Pos: 0, Size: 4},
			},
		}},
	}
}

func TestComputeLayout(t *testing.T) {
	l := ComputeLayout(projResult())

	assert.Equal(t, uint32(1), l.ProgramCount)
	assert.Equal(t, uint32(12), l.HeaderSize)
	assert.Equal(t, BlobLayout{
		CodeOffset:    40,
		CodeWords:     4,
		OperandOffset: 56,
		OperandCount:  2,
		SymbolOffset:  72,
		Size:          72,
	}, l.Blob)

	require.Len(t, l.Sections, 1)
	assert.Equal(t, SectionLayout{
		Program:     0,
		Offset:      84,
		Constants:   Table{Offset: 64, Count: 1},
		Labels:      Table{Offset: 84, Count: 0},
		Outputs:     Table{Offset: 84, Count: 0},
		Uniforms:    Table{Offset: 84, Count: 1},
		Symbols:     Table{Offset: 92, Count: 5},
		Size:        97,
		AlignedSize: 100,
	}, l.Sections[0])

	assert.Equal(t, uint32(184), l.Size)
}

func TestComputeLayoutTableOrder(t *testing.T) {
	r := &ir.Result{Programs: []ir.Program{{
		Constants: make([]ir.Constant, 3),
		Outputs:   make([]uint64, 2),
		Uniforms:  []ir.Uniform{{Name: "ab", Size: 1}, {Name: "c", Size: 1}},
	}}}
	s := ComputeLayout(r).Sections[0]

	assert.Equal(t, Table{Offset: 64, Count: 3}, s.Constants)
	assert.Equal(t, Table{Offset: 124, Count: 0}, s.Labels)
	assert.Equal(t, Table{Offset: 124, Count: 2}, s.Outputs)
	assert.Equal(t, Table{Offset: 140, Count: 2}, s.Uniforms)
	assert.Equal(t, Table{Offset: 156, Count: 5}, s.Symbols)
	assert.Equal(t, uint32(161), s.Size)
	assert.Equal(t, uint32(164), s.AlignedSize)
}

func TestComputeLayoutSkippedProgram(t *testing.T) {
	r := projResult()
	r.Programs = append([]ir.Program{{Skip: true, Uniforms: []ir.Uniform{{Name: "ignored", Size: 1}}}}, r.Programs...)

	l := ComputeLayout(r)

	assert.Equal(t, uint32(2), l.ProgramCount)
	assert.Equal(t, uint32(16), l.HeaderSize, "declared header counts the skipped program")
	require.Len(t, l.Sections, 1)
	assert.Equal(t, 1, l.Sections[0].Program)
	assert.Equal(t, uint32(16+72), l.Sections[0].Offset)
	assert.Equal(t, uint32(12+72+100), l.Size, "written size has one offset word")
}

func TestComputeLayoutSectionOffsets(t *testing.T) {
	names := []string{"a", "bb", "ccc", "dddd", "eeeee"}
	r := &ir.Result{Code: make([]uint32, 7), Operands: make([]uint64, 3)}
	for i, name := range names {
		r.Programs = append(r.Programs, ir.Program{
			Constants: make([]ir.Constant, i),
			Outputs:   make([]uint64, i%2),
			Uniforms:  []ir.Uniform{{Name: name, Pos: uint16(i), Size: 1}},
		})
	}

	l := ComputeLayout(r)
	require.Len(t, l.Sections, len(names))

	next := l.HeaderSize + l.Blob.Size
	for i, s := range l.Sections {
		assert.Equal(t, next, s.Offset, "section %d offset", i)
		assert.Zero(t, s.AlignedSize%4, "section %d aligned size", i)
		assert.GreaterOrEqual(t, s.AlignedSize, s.Size)
		assert.Less(t, s.AlignedSize-s.Size, uint32(4))
		next += s.AlignedSize
	}
	assert.Equal(t, next, l.Size)
}

func TestComputeLayoutEmpty(t *testing.T) {
	l := ComputeLayout(&ir.Result{})

	assert.Equal(t, uint32(0), l.ProgramCount)
	assert.Empty(t, l.Sections)
	assert.Equal(t, uint32(8+BlobHeaderSize), l.Size)
}
