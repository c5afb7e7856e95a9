package dvl

import "encoding/binary"

// writer fills a preallocated little-endian buffer front to back.
type writer struct {
	buf []byte
	off int
}

func newWriter(size int) *writer {
	return &writer{buf: make([]byte, size)}
}

func (w *writer) putByte(v uint8) {
	w.buf[w.off] = v
	w.off++
}

func (w *writer) putHword(v uint16) {
	binary.LittleEndian.PutUint16(w.buf[w.off:], v)
	w.off += 2
}

func (w *writer) putWord(v uint32) {
	binary.LittleEndian.PutUint32(w.buf[w.off:], v)
	w.off += 4
}

func (w *writer) putDword(v uint64) {
	binary.LittleEndian.PutUint64(w.buf[w.off:], v)
	w.off += 8
}

func (w *writer) putRaw(p []byte) {
	w.off += copy(w.buf[w.off:], p)
}

// align skips to the next 4-byte boundary. The buffer is zeroed on
// allocation, so skipped bytes are zero padding.
func (w *writer) align() {
	w.off = alignWord(w.off)
}

// bytes returns the written part of the buffer.
func (w *writer) bytes() []byte {
	return w.buf[:w.off]
}

func alignWord[T ~int | ~uint32](n T) T {
	return (n + 3) &^ 3
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
