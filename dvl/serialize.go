package dvl

import (
	"context"
	"log/slog"

	"github.com/gogpu/shbin/ir"
)

// SerializeOptions configures container serialization.
type SerializeOptions struct {
	// Logger receives debug output about the computed layout.
	// Nil disables logging.
	Logger *slog.Logger
}

// Serialize writes r as a container using default options.
func Serialize(r *ir.Result) []byte {
	return SerializeWithOptions(r, SerializeOptions{})
}

// SerializeWithOptions writes r as a container.
//
// The output is, in order: the DVLB header and offset table, the DVLP
// header, the code words, the operand descriptors, and one DVLE section per
// program not marked Skip, each padded to a word boundary.
func SerializeWithOptions(r *ir.Result, opts SerializeOptions) []byte {
	l := ComputeLayout(r)
	logLayout(opts.Logger, &l)

	w := newWriter(int(l.Size))

	w.putWord(MagicDVLB)
	w.putWord(l.ProgramCount)
	for _, s := range l.Sections {
		w.putWord(s.Offset)
	}

	w.blob(&l.Blob, r)

	for i := range l.Sections {
		s := &l.Sections[i]
		p := &r.Programs[s.Program]
		table := BuildUniformTable(p.Uniforms)

		w.sectionHeader(s, p)
		w.constants(p.Constants)
		w.outputs(p.Outputs)
		w.uniforms(table)
		w.putRaw(table.Symbols)
		w.align()
	}

	return w.bytes()
}

func (w *writer) blob(b *BlobLayout, r *ir.Result) {
	w.putWord(MagicDVLP)
	w.putWord(0) // version
	w.putWord(b.CodeOffset)
	w.putWord(b.CodeWords)
	w.putWord(b.OperandOffset)
	w.putWord(b.OperandCount)
	w.putWord(b.SymbolOffset)
	w.putWord(0)
	w.putWord(0)
	w.putWord(0)

	for _, op := range r.Code {
		w.putWord(op)
	}
	for _, desc := range r.Operands {
		w.putDword(desc)
	}
}

func (w *writer) sectionHeader(s *SectionLayout, p *ir.Program) {
	w.putWord(MagicDVLE)
	w.putHword(SectionVersion)
	w.putByte(boolByte(p.Kind == ir.ProgramGeometry))
	w.putByte(boolByte(p.Merge))
	w.putWord(p.EntryStart)
	w.putWord(p.EntryEnd)
	w.putHword(p.InputMask)
	w.putHword(p.OutputMask)
	w.putByte(p.Geometry.Type)
	w.putByte(p.Geometry.FixedStart)
	w.putByte(p.Geometry.VariableNum)
	w.putByte(p.Geometry.FixedNum)

	for _, t := range [...]Table{s.Constants, s.Labels, s.Outputs, s.Uniforms, s.Symbols} {
		w.putWord(t.Offset)
		w.putWord(t.Count)
	}
}

func logLayout(log *slog.Logger, l *Layout) {
	if log == nil || !log.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	log.Debug("dvl: container layout",
		"programs", l.ProgramCount,
		"sections", len(l.Sections),
		"codeWords", l.Blob.CodeWords,
		"operands", l.Blob.OperandCount,
		"size", l.Size)
	for _, s := range l.Sections {
		log.Debug("dvl: section",
			"program", s.Program,
			"offset", s.Offset,
			"constants", s.Constants.Count,
			"outputs", s.Outputs.Count,
			"uniforms", s.Uniforms.Count,
			"symbols", s.Symbols.Count,
			"size", s.AlignedSize)
	}
}
