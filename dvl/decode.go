package dvl

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/gogpu/shbin/ir"
)

// DecodeError reports a malformed container.
type DecodeError struct {
	// Offset is the byte offset the decoder was looking at.
	Offset  int
	Message string
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("dvl: at offset 0x%X: %s", e.Offset, e.Message)
}

func decodeErrorf(offset int, format string, args ...any) *DecodeError {
	return &DecodeError{Offset: offset, Message: fmt.Sprintf(format, args...)}
}

// Container is a decoded container.
type Container struct {
	// ProgramCount is the program count declared in the DVLB header.
	ProgramCount uint32

	// Offsets is the DVLB offset table, one entry per emitted section.
	Offsets []uint32

	// OffsetSkew is how far the recorded section offsets point past the
	// actual sections. It is nonzero when the header declares programs
	// that have no section.
	OffsetSkew uint32

	Blob     Blob
	Sections []Section
}

// Blob is the decoded DVLP code blob.
type Blob struct {
	Version       uint32
	CodeOffset    uint32
	OperandOffset uint32
	SymbolOffset  uint32
	Code          []uint32
	Operands      []uint64
}

// Section is a decoded DVLE program section.
type Section struct {
	// Offset is the file offset the section was read from.
	Offset uint32

	Version    uint16
	Kind       ir.ProgramKind
	Merge      bool
	EntryStart uint32
	EntryEnd   uint32
	InputMask  uint16
	OutputMask uint16
	Geometry   ir.GeometryInfo

	Constants []ConstantEntry
	Labels    Table
	Outputs   []uint64
	Uniforms  []UniformEntry
	Symbols   []byte
}

// ConstantEntry is a decoded constant table entry.
type ConstantEntry struct {
	Kind ir.ConstantKind
	// Reg is the register relative to the kind's band.
	Reg     uint16
	Payload [ConstantSize - 4]byte
}

// RawReg returns the absolute register id.
func (c ConstantEntry) RawReg() uint16 {
	return c.Reg + c.Kind.RegisterBase()
}

// Float24s returns the payload as four f24 words.
func (c ConstantEntry) Float24s() [4]uint32 {
	var v [4]uint32
	for i := range v {
		v[i] = binary.LittleEndian.Uint32(c.Payload[i*4:])
	}
	return v
}

// Floats returns the payload expanded to float32.
func (c ConstantEntry) Floats() [4]float32 {
	var v [4]float32
	for i, f := range c.Float24s() {
		v[i] = Float24ToFloat32(f)
	}
	return v
}

// Ints returns the payload as an integer vector.
func (c ConstantEntry) Ints() [4]int8 {
	var v [4]int8
	for i := range v {
		v[i] = int8(c.Payload[i])
	}
	return v
}

// Bool returns the payload as a boolean.
func (c ConstantEntry) Bool() bool {
	return binary.LittleEndian.Uint32(c.Payload[:]) != 0
}

// Decode parses a container.
func Decode(data []byte) (*Container, error) {
	d := decoder{data: data}

	magic, err := d.word(0)
	if err != nil {
		return nil, err
	}
	if magic != MagicDVLB {
		return nil, decodeErrorf(0, "bad DVLB magic 0x%08X", magic)
	}
	count, err := d.word(4)
	if err != nil {
		return nil, err
	}

	c := &Container{ProgramCount: count}

	// The offset table ends where the DVLP header starts; it may hold
	// fewer entries than the declared count.
	off := 8
	for {
		w, err := d.word(off)
		if err != nil {
			return nil, err
		}
		if w == MagicDVLP {
			break
		}
		if uint32(len(c.Offsets)) == count {
			return nil, decodeErrorf(off, "DVLP header not found after %d offsets", count)
		}
		c.Offsets = append(c.Offsets, w)
		off += 4
	}
	c.OffsetSkew = (count - uint32(len(c.Offsets))) * 4

	if err := d.blob(off, &c.Blob); err != nil {
		return nil, err
	}

	for i, o := range c.Offsets {
		s, err := d.section(int(o) - int(c.OffsetSkew))
		if err != nil {
			return nil, fmt.Errorf("section %d: %w", i, err)
		}
		c.Sections = append(c.Sections, *s)
	}
	return c, nil
}

type decoder struct {
	data []byte
}

func (d *decoder) need(off, n int) error {
	if off < 0 || n < 0 || off+n > len(d.data) {
		return decodeErrorf(off, "need %d bytes, container is %d bytes", n, len(d.data))
	}
	return nil
}

func (d *decoder) word(off int) (uint32, error) {
	if err := d.need(off, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(d.data[off:]), nil
}

func (d *decoder) words(off, n int) ([]uint32, error) {
	if err := d.need(off, n*4); err != nil {
		return nil, err
	}
	v := make([]uint32, n)
	for i := range v {
		v[i] = binary.LittleEndian.Uint32(d.data[off+i*4:])
	}
	return v, nil
}

func (d *decoder) dwords(off, n int) ([]uint64, error) {
	if err := d.need(off, n*8); err != nil {
		return nil, err
	}
	v := make([]uint64, n)
	for i := range v {
		v[i] = binary.LittleEndian.Uint64(d.data[off+i*8:])
	}
	return v, nil
}

func (d *decoder) blob(base int, b *Blob) error {
	hdr, err := d.words(base, BlobHeaderSize/4)
	if err != nil {
		return err
	}
	b.Version = hdr[1]
	b.CodeOffset = hdr[2]
	b.OperandOffset = hdr[4]
	b.SymbolOffset = hdr[6]

	if b.Code, err = d.words(base+int(hdr[2]), int(hdr[3])); err != nil {
		return err
	}
	if b.Operands, err = d.dwords(base+int(hdr[4]), int(hdr[5])); err != nil {
		return err
	}
	return nil
}

func (d *decoder) section(base int) (*Section, error) {
	if err := d.need(base, SectionHeaderSize); err != nil {
		return nil, err
	}
	h := d.data[base:]
	if magic := binary.LittleEndian.Uint32(h); magic != MagicDVLE {
		return nil, decodeErrorf(base, "bad DVLE magic 0x%08X", magic)
	}

	s := &Section{
		Offset:     uint32(base),
		Version:    binary.LittleEndian.Uint16(h[4:]),
		Merge:      h[7] != 0,
		EntryStart: binary.LittleEndian.Uint32(h[8:]),
		EntryEnd:   binary.LittleEndian.Uint32(h[12:]),
		InputMask:  binary.LittleEndian.Uint16(h[16:]),
		OutputMask: binary.LittleEndian.Uint16(h[18:]),
		Geometry: ir.GeometryInfo{
			Type:        h[20],
			FixedStart:  h[21],
			VariableNum: h[22],
			FixedNum:    h[23],
		},
	}
	if h[6] != 0 {
		s.Kind = ir.ProgramGeometry
	}

	var tables [5]Table
	for i := range tables {
		tables[i] = Table{
			Offset: binary.LittleEndian.Uint32(h[24+i*8:]),
			Count:  binary.LittleEndian.Uint32(h[28+i*8:]),
		}
	}
	constants, labels, outputs, uniforms, symbols := tables[0], tables[1], tables[2], tables[3], tables[4]
	s.Labels = labels

	off := base + int(constants.Offset)
	if err := d.need(off, int(constants.Count)*ConstantSize); err != nil {
		return nil, err
	}
	for i := 0; i < int(constants.Count); i++ {
		e := d.data[off+i*ConstantSize:]
		c := ConstantEntry{
			Kind: ir.ConstantKind(binary.LittleEndian.Uint16(e)),
			Reg:  binary.LittleEndian.Uint16(e[2:]),
		}
		copy(c.Payload[:], e[4:ConstantSize])
		s.Constants = append(s.Constants, c)
	}

	var err error
	if s.Outputs, err = d.dwords(base+int(outputs.Offset), int(outputs.Count)); err != nil {
		return nil, err
	}

	off = base + int(symbols.Offset)
	if err := d.need(off, int(symbols.Count)); err != nil {
		return nil, err
	}
	s.Symbols = d.data[off : off+int(symbols.Count)]

	off = base + int(uniforms.Offset)
	if err := d.need(off, int(uniforms.Count)*UniformSize); err != nil {
		return nil, err
	}
	for i := 0; i < int(uniforms.Count); i++ {
		e := d.data[off+i*UniformSize:]
		u := UniformEntry{
			SymbolOffset: binary.LittleEndian.Uint32(e),
			Start:        binary.LittleEndian.Uint16(e[4:]),
			End:          binary.LittleEndian.Uint16(e[6:]),
		}
		name, ok := symbolAt(s.Symbols, u.SymbolOffset)
		if !ok {
			return nil, decodeErrorf(off+i*UniformSize, "uniform %d: symbol offset %d outside symbol table", i, u.SymbolOffset)
		}
		u.Name = name
		s.Uniforms = append(s.Uniforms, u)
	}

	return s, nil
}

// symbolAt returns the NUL-terminated string at off in the symbol blob.
func symbolAt(symbols []byte, off uint32) (string, bool) {
	if int(off) >= len(symbols) {
		return "", false
	}
	rest := symbols[off:]
	end := bytes.IndexByte(rest, 0)
	if end < 0 {
		return "", false
	}
	return string(rest[:end]), true
}
