package dvl

import (
	"sort"
	"strings"

	"github.com/gogpu/shbin/ir"
)

// UniformSize is the size of a uniform table entry.
const UniformSize = 8

// indirectRegisterBase is the first uniform position that the loader
// addresses through the shifted register window.
const indirectRegisterBase = 0x20

// UniformEntry is one entry of a program's uniform table.
type UniformEntry struct {
	Name string

	// SymbolOffset is the offset of the name in the program's symbol blob.
	SymbolOffset uint32

	// Start and End are the first and last register, inclusive, after
	// the register window remap.
	Start uint16
	End   uint16
}

// UniformTable is the uniform table and symbol blob of one program.
type UniformTable struct {
	Entries []UniformEntry
	Symbols []byte
}

// BuildUniformTable orders uniforms by register position and builds the
// matching symbol blob. Uniforms sharing a position keep their input order.
// The input slice is not modified.
func BuildUniformTable(uniforms []ir.Uniform) UniformTable {
	sorted := make([]ir.Uniform, len(uniforms))
	copy(sorted, uniforms)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Pos < sorted[j].Pos
	})

	table := UniformTable{
		Entries: make([]UniformEntry, 0, len(sorted)),
	}

	var sb strings.Builder
	for _, u := range sorted {
		pos := u.Pos
		if pos >= indirectRegisterBase {
			pos -= 0x10
		}
		table.Entries = append(table.Entries, UniformEntry{
			Name:         u.Name,
			SymbolOffset: uint32(sb.Len()),
			Start:        pos,
			End:          pos + u.Size - 1,
		})

		sb.WriteString(strings.ReplaceAll(u.Name, "$", "."))
		sb.WriteByte(0)
	}
	table.Symbols = []byte(sb.String())

	return table
}

func (w *writer) uniforms(table UniformTable) {
	for _, e := range table.Entries {
		w.putWord(e.SymbolOffset)
		w.putHword(e.Start)
		w.putHword(e.End)
	}
}
