package dvl

// OutputSize is the size of an output table entry.
const OutputSize = 8

// outputs writes pre-encoded output map entries as they are.
func (w *writer) outputs(outputs []uint64) {
	for _, o := range outputs {
		w.putDword(o)
	}
}
