package iso

import (
	"encoding/binary"
	"fmt"
)

// ParseError reports a record that ends before a field could be read.
type ParseError struct {
	Field  string
	Offset int
	Need   int
	Have   int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("truncated record: field %q at offset %d needs %d bytes, %d left", e.Field, e.Offset, e.Need, e.Have)
}

// reader walks a big-endian record. The first short read sticks: later
// reads return zero values and err keeps the original failure.
type reader struct {
	b   []byte
	off int
	err error
}

func newReader(b []byte) *reader { return &reader{b: b} }

func (r *reader) take(field string, n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.off+n > len(r.b) {
		r.err = &ParseError{Field: field, Offset: r.off, Need: n, Have: len(r.b) - r.off}
		return nil
	}
	out := r.b[r.off : r.off+n]
	r.off += n
	return out
}

func (r *reader) u8(field string) uint8 {
	if b := r.take(field, 1); b != nil {
		return b[0]
	}
	return 0
}

func (r *reader) u16(field string) uint16 {
	if b := r.take(field, 2); b != nil {
		return binary.BigEndian.Uint16(b)
	}
	return 0
}

func (r *reader) u24(field string) uint32 {
	if b := r.take(field, 3); b != nil {
		return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
	}
	return 0
}

func (r *reader) u32(field string) uint32 {
	if b := r.take(field, 4); b != nil {
		return binary.BigEndian.Uint32(b)
	}
	return 0
}

// rest returns up to n of the remaining bytes without failing on a short
// tail, so a truncated image surfaces as a length mismatch rather than a
// decode error.
func (r *reader) rest(n uint32) []byte {
	if r.err != nil {
		return nil
	}
	remaining := len(r.b) - r.off
	if uint64(n) < uint64(remaining) {
		remaining = int(n)
	}
	out := append([]byte(nil), r.b[r.off:r.off+remaining]...)
	r.off += remaining
	return out
}

// writer is the encoding counterpart of reader.
type writer struct {
	b []byte
}

func (w *writer) u8(v uint8)   { w.b = append(w.b, v) }
func (w *writer) u16(v uint16) { w.b = binary.BigEndian.AppendUint16(w.b, v) }
func (w *writer) u24(v uint32) { w.b = append(w.b, byte(v>>16), byte(v>>8), byte(v)) }
func (w *writer) u32(v uint32) { w.b = binary.BigEndian.AppendUint32(w.b, v) }
func (w *writer) raw(b []byte) { w.b = append(w.b, b...) }

// putU32 overwrites a big-endian u32 at off.
func (w *writer) putU32(off int, v uint32) { binary.BigEndian.PutUint32(w.b[off:], v) }
