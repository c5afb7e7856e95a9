package dvl

import (
	"encoding/binary"

	"github.com/gogpu/shbin/ir"
)

// ConstantSize is the size of a constant table entry. Every kind uses the
// same size; integer and boolean entries are zero padded to it.
const ConstantSize = 20

// EncodeConstant encodes one constant table entry:
// hword type, hword register relative to the kind's band, then the payload.
//
// The register band is not checked. A register outside the band wraps
// around in 16 bits, exactly like the loader's own arithmetic would.
func EncodeConstant(c ir.Constant) [ConstantSize]byte {
	var entry [ConstantSize]byte

	kind := c.Kind()
	binary.LittleEndian.PutUint16(entry[0:], uint16(kind))
	binary.LittleEndian.PutUint16(entry[2:], c.Reg-kind.RegisterBase())

	switch v := c.Value.(type) {
	case ir.FloatVector:
		for i, f := range v {
			binary.LittleEndian.PutUint32(entry[4+i*4:], Float24(f))
		}
	case ir.IntVector:
		for i, n := range v {
			entry[4+i] = uint8(n)
		}
	case ir.Bool:
		if v {
			binary.LittleEndian.PutUint32(entry[4:], 1)
		}
	}
	return entry
}

func (w *writer) constants(constants []ir.Constant) {
	for _, c := range constants {
		entry := EncodeConstant(c)
		w.putRaw(entry[:])
	}
}
