package dvl

import "github.com/gogpu/shbin/ir"

// Magic tags, stored as little-endian words.
const (
	MagicDVLB uint32 = 0x424C5644 // "DVLB"
	MagicDVLP uint32 = 0x504C5644 // "DVLP"
	MagicDVLE uint32 = 0x454C5644 // "DVLE"
)

// SectionVersion is the version/type halfword of every DVLE header.
const SectionVersion uint16 = 0x1002

// Fixed sizes, in bytes.
const (
	BlobHeaderSize    = 10 * 4
	SectionHeaderSize = 16 * 4
	OperandSize       = 8
	outerHeaderWords  = 2
)

// Table locates one table inside a program section.
// Offset is relative to the start of the section.
type Table struct {
	Offset uint32
	// Count is the number of entries, or the byte length for the symbol table.
	Count uint32
}

// BlobLayout describes the DVLP code blob. Offsets are relative to the
// start of the blob.
type BlobLayout struct {
	CodeOffset    uint32
	CodeWords     uint32
	OperandOffset uint32
	OperandCount  uint32
	// SymbolOffset is the symbol table placeholder written in the header.
	// The blob has no symbol table; it points at the end of the blob.
	SymbolOffset uint32
	Size         uint32
}

// SectionLayout describes one emitted DVLE section.
type SectionLayout struct {
	// Program is the index of the program in Result.Programs.
	Program int

	// Offset is the value recorded in the DVLB offset table.
	Offset uint32

	Constants Table
	Labels    Table
	Outputs   Table
	Uniforms  Table
	Symbols   Table

	// Size is the unpadded section size; AlignedSize includes the padding
	// up to the next word boundary.
	Size        uint32
	AlignedSize uint32
}

// Layout is the complete byte layout of a container.
type Layout struct {
	// ProgramCount is the declared program count, skipped programs included.
	ProgramCount uint32

	// HeaderSize is the DVLB header size as seen by section offsets:
	// magic, count and one word per declared program.
	HeaderSize uint32

	Blob     BlobLayout
	Sections []SectionLayout

	// Size is the number of bytes actually written. It differs from
	// HeaderSize + Blob.Size + sections when programs are skipped, since
	// skipped programs have no offset word.
	Size uint32
}

// ComputeLayout computes every offset and size of the container for r.
func ComputeLayout(r *ir.Result) Layout {
	n := uint32(len(r.Programs))
	codeWords := uint32(len(r.Code))
	operands := uint32(len(r.Operands))

	blobSize := BlobHeaderSize + codeWords*4 + operands*OperandSize
	l := Layout{
		ProgramCount: n,
		HeaderSize:   (outerHeaderWords + n) * 4,
		Blob: BlobLayout{
			CodeOffset:    BlobHeaderSize,
			CodeWords:     codeWords,
			OperandOffset: BlobHeaderSize + codeWords*4,
			OperandCount:  operands,
			SymbolOffset:  blobSize,
			Size:          blobSize,
		},
		Sections: make([]SectionLayout, 0, len(r.Programs)),
	}

	emitted := uint32(0)
	off := l.HeaderSize + blobSize
	for i := range r.Programs {
		p := &r.Programs[i]
		if p.Skip {
			continue
		}
		s := sectionLayout(p)
		s.Program = i
		s.Offset = off
		off += s.AlignedSize
		emitted += s.AlignedSize
		l.Sections = append(l.Sections, s)
	}

	l.Size = (outerHeaderWords+uint32(len(l.Sections)))*4 + blobSize + emitted
	return l
}

// sectionLayout lays out the tables of one program section. Tables follow
// the header in a fixed order: constants, labels, outputs, uniforms, symbols.
func sectionLayout(p *ir.Program) SectionLayout {
	var s SectionLayout

	off := uint32(SectionHeaderSize)
	next := func(count, entrySize uint32) Table {
		t := Table{Offset: off, Count: count}
		off += count * entrySize
		return t
	}

	s.Constants = next(uint32(len(p.Constants)), ConstantSize)
	// Label tables are never populated.
	s.Labels = next(0, 0)
	s.Outputs = next(uint32(len(p.Outputs)), OutputSize)
	s.Uniforms = next(uint32(len(p.Uniforms)), UniformSize)
	s.Symbols = next(uint32(p.SymbolSize()), 1)

	s.Size = off
	s.AlignedSize = alignWord(off)
	return s
}
