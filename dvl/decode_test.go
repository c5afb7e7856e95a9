package dvl

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/shbin/ir"
)

func TestDecode(t *testing.T) {
	r := projResult()
	r.Programs[0].Constants = append(r.Programs[0].Constants,
		ir.Constant{Reg: 0x82, Value: ir.IntVector{1, -2, 3, -4}},
		ir.Constant{Reg: 0x89, Value: ir.Bool(true)},
	)
	r.Programs[0].Outputs = []uint64{0x1F1F1F1F00000000}
	r.Programs[0].Uniforms = append(r.Programs[0].Uniforms, ir.Uniform{Name: "bones$0", Pos: 0x24, Size: 8})

	c, err := Decode(Serialize(r))
	require.NoError(t, err)

	assert.Equal(t, uint32(1), c.ProgramCount)
	assert.Zero(t, c.OffsetSkew)
	assert.Equal(t, r.Code, c.Blob.Code)
	assert.Equal(t, r.Operands, c.Blob.Operands)

	require.Len(t, c.Sections, 1)
	s := c.Sections[0]
	assert.Equal(t, SectionVersion, s.Version)
	assert.Equal(t, ir.ProgramVertex, s.Kind)
	assert.Equal(t, uint32(3), s.EntryEnd)
	assert.Equal(t, uint16(0x0003), s.OutputMask)
	assert.Zero(t, s.Labels.Count)

	require.Len(t, s.Constants, 3)
	assert.Equal(t, ir.ConstFloatVector, s.Constants[0].Kind)
	assert.Equal(t, uint16(0x21), s.Constants[0].RawReg())
	assert.Equal(t, [4]float32{1, 0, -1, 0.5}, s.Constants[0].Floats())
	assert.Equal(t, ir.ConstIntVector, s.Constants[1].Kind)
	assert.Equal(t, uint16(2), s.Constants[1].Reg)
	assert.Equal(t, [4]int8{1, -2, 3, -4}, s.Constants[1].Ints())
	assert.Equal(t, ir.ConstBool, s.Constants[2].Kind)
	assert.Equal(t, uint16(0x89), s.Constants[2].RawReg())
	assert.True(t, s.Constants[2].Bool())

	assert.Equal(t, r.Programs[0].Outputs, s.Outputs)

	assert.Equal(t, []UniformEntry{
		{Name: "proj", SymbolOffset: 0, Start: 0, End: 3},
		{Name: "bones.0", SymbolOffset: 5, Start: 0x14, End: 0x1B},
	}, s.Uniforms)
}

func TestDecodeSkippedProgram(t *testing.T) {
	r := projResult()
	r.Programs = []ir.Program{{Skip: true}, r.Programs[0], {Skip: true}, r.Programs[0]}

	c, err := Decode(Serialize(r))
	require.NoError(t, err)

	assert.Equal(t, uint32(4), c.ProgramCount)
	assert.Len(t, c.Offsets, 2)
	assert.Equal(t, uint32(8), c.OffsetSkew)
	require.Len(t, c.Sections, 2)
	for _, s := range c.Sections {
		require.Len(t, s.Uniforms, 1)
		assert.Equal(t, "proj", s.Uniforms[0].Name)
	}
}

func TestDecodeErrors(t *testing.T) {
	good := Serialize(projResult())

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"bad outer magic", append([]byte{'X'}, good[1:]...)},
		{"truncated", good[:len(good)-20]},
		{"truncated blob", good[:30]},
		{"no blob", func() []byte {
			d := append([]byte(nil), good...)
			d[12] = 0
			return d
		}()},
		{"bad section magic", func() []byte {
			d := append([]byte(nil), good...)
			d[84] = 0
			return d
		}()},
		{"symbol offset out of range", func() []byte {
			d := append([]byte(nil), good...)
			d[84+84] = 0x40
			return d
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			require.Error(t, err)
			var de *DecodeError
			assert.True(t, errors.As(err, &de), "error %v is a DecodeError", err)
		})
	}
}
