package dvl

import (
	"bytes"
	"encoding/binary"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/shbin/ir"
)

func word(data []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(data[off:])
}

func hword(data []byte, off int) uint16 {
	return binary.LittleEndian.Uint16(data[off:])
}

func TestSerialize(t *testing.T) {
	r := projResult()
	data := Serialize(r)
	require.Len(t, data, 184)

	// DVLB
	assert.Equal(t, MagicDVLB, word(data, 0))
	assert.Equal(t, uint32(1), word(data, 4), "program count")
	assert.Equal(t, uint32(84), word(data, 8), "section offset")

	// DVLP
	const blob = 12
	assert.Equal(t, MagicDVLP, word(data, blob))
	assert.Equal(t, uint32(0), word(data, blob+4), "version")
	assert.Equal(t, uint32(40), word(data, blob+8), "code offset")
	assert.Equal(t, uint32(len(r.Code)), word(data, blob+12), "code size")
	assert.Equal(t, uint32(56), word(data, blob+16), "operand offset")
	assert.Equal(t, uint32(len(r.Operands)), word(data, blob+20), "operand count")
	assert.Equal(t, uint32(72), word(data, blob+24), "symbol table placeholder")
	assert.Equal(t, make([]byte, 12), data[blob+28:blob+40])
	for i, op := range r.Code {
		assert.Equal(t, op, word(data, blob+40+i*4), "code word %d", i)
	}
	for i, desc := range r.Operands {
		assert.Equal(t, desc, binary.LittleEndian.Uint64(data[blob+56+i*8:]), "operand %d", i)
	}

	// DVLE
	const sec = 84
	assert.Equal(t, MagicDVLE, word(data, sec))
	assert.Equal(t, SectionVersion, hword(data, sec+4))
	assert.Equal(t, byte(0), data[sec+6], "geometry flag")
	assert.Equal(t, byte(0), data[sec+7], "merge flag")
	assert.Equal(t, uint32(0), word(data, sec+8), "entry start")
	assert.Equal(t, uint32(3), word(data, sec+12), "entry end")
	assert.Equal(t, uint16(0x0001), hword(data, sec+16), "input mask")
	assert.Equal(t, uint16(0x0003), hword(data, sec+18), "output mask")

	pairs := []uint32{64, 1, 84, 0, 84, 0, 84, 1, 92, 5}
	for i, want := range pairs {
		assert.Equal(t, want, word(data, sec+24+i*4), "table word %d", i)
	}

	constant := EncodeConstant(r.Programs[0].Constants[0])
	assert.Equal(t, constant[:], data[sec+64:sec+84])

	// Uniform entry: symbol offset 0, registers 0..3.
	assert.Equal(t, uint32(0), word(data, sec+84))
	assert.Equal(t, uint16(0), hword(data, sec+88))
	assert.Equal(t, uint16(3), hword(data, sec+90))

	assert.Equal(t, []byte("proj\x00\x00\x00\x00"), data[sec+92:])
}

func TestSerializeGeometryHeader(t *testing.T) {
	r := &ir.Result{Programs: []ir.Program{{
		Kind:       ir.ProgramGeometry,
		Merge:      true,
		EntryStart: 0x10,
		EntryEnd:   0x20,
		Geometry:   ir.GeometryInfo{Type: 2, FixedStart: 0x11, VariableNum: 3, FixedNum: 4},
	}}}
	data := Serialize(r)

	sec := int(word(data, 8)) // no skipped programs, offsets are exact
	assert.Equal(t, byte(1), data[sec+6])
	assert.Equal(t, byte(1), data[sec+7])
	assert.Equal(t, uint32(0x10), word(data, sec+8))
	assert.Equal(t, uint32(0x20), word(data, sec+12))
	assert.Equal(t, []byte{2, 0x11, 3, 4}, data[sec+20:sec+24])
	assert.Len(t, data, sec+SectionHeaderSize)
}

func TestSerializeOutputsVerbatim(t *testing.T) {
	outputs := []uint64{0x0123456789ABCDEF, 0x0000000700000000}
	r := &ir.Result{Programs: []ir.Program{{Outputs: outputs}}}
	data := Serialize(r)

	sec := int(word(data, 8))
	off := sec + int(word(data, sec+40))
	assert.Equal(t, uint32(len(outputs)), word(data, sec+44))
	for i, o := range outputs {
		assert.Equal(t, o, binary.LittleEndian.Uint64(data[off+i*8:]))
	}
}

func TestSerializeSkippedProgram(t *testing.T) {
	r := projResult()
	r.Programs = append([]ir.Program{{Skip: true}}, r.Programs...)
	data := Serialize(r)

	assert.Equal(t, uint32(2), word(data, 4), "declared count includes the skipped program")
	assert.Equal(t, uint32(88), word(data, 8), "offset is computed against the declared header")
	assert.Equal(t, MagicDVLP, word(data, 12), "only one offset word is written")
	assert.Equal(t, MagicDVLE, word(data, 84))
	assert.Len(t, data, 184)
}

func TestSerializeSectionsWordAligned(t *testing.T) {
	r := &ir.Result{Code: []uint32{1, 2, 3}, Operands: []uint64{4}}
	for _, name := range []string{"a", "bc", "def", "ghij", "k$l$m"} {
		r.Programs = append(r.Programs, ir.Program{
			Constants: []ir.Constant{{Reg: 0x88, Value: ir.Bool(true)}},
			Uniforms:  []ir.Uniform{{Name: name, Size: 1}},
		})
	}
	data := Serialize(r)
	assert.Zero(t, len(data)%4)

	for i := range r.Programs {
		off := word(data, 8+i*4)
		assert.Zero(t, off%4, "section %d offset", i)
		assert.Equal(t, MagicDVLE, word(data, int(off)), "section %d magic", i)
	}
}

func TestSerializeDeterministic(t *testing.T) {
	r := projResult()
	r.Programs[0].Uniforms = []ir.Uniform{
		{Name: "b", Pos: 4, Size: 1},
		{Name: "a", Pos: 4, Size: 1},
		{Name: "c", Pos: 0, Size: 4},
	}
	first := Serialize(r)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, Serialize(r))
	}
}

func TestSerializeWithLogger(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	data := SerializeWithOptions(projResult(), SerializeOptions{Logger: log})

	assert.Equal(t, Serialize(projResult()), data)
	assert.Contains(t, buf.String(), "dvl: container layout")
	assert.Contains(t, buf.String(), "size=184")
}
