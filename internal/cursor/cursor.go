// Package cursor provides bounds-checked little-endian readers and writers
// for fixed-layout packets.
//
// A Reader never panics on short input. The first read past the end of
// the data sets a sticky error; subsequent reads return zero values.
package cursor

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

var endianess = binary.LittleEndian

// Reader reads fields from a byte slice.
type Reader struct {
	data []byte
	off  int
	err  error
}

// NewReader creates a reader positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Err returns the first error encountered, if any.
func (r *Reader) Err() error {
	return r.err
}

// Offset is the number of bytes consumed so far.
func (r *Reader) Offset() int {
	return r.off
}

// Remaining is the number of unread bytes.
func (r *Reader) Remaining() int {
	if r.err != nil {
		return 0
	}
	return len(r.data) - r.off
}

// take returns the next n bytes or nil if they are not available.
func (r *Reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || n > len(r.data)-r.off {
		r.err = fmt.Errorf("read of %d bytes at offset %d exceeds length %d: %w",
			n, r.off, len(r.data), io.ErrUnexpectedEOF)
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

// Bytes returns the next n bytes. The slice aliases the underlying data.
func (r *Reader) Bytes(n int) []byte {
	return r.take(n)
}

// Skip advances by n bytes.
func (r *Reader) Skip(n int) {
	r.take(n)
}

// Magic consumes len(m) bytes and reports whether they equal m.
// A mismatch does not set the sticky error.
func (r *Reader) Magic(m string) bool {
	b := r.take(len(m))
	return b != nil && string(b) == m
}

func (r *Reader) Uint8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *Reader) Uint16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return endianess.Uint16(b)
}

func (r *Reader) Int16() int16 {
	return int16(r.Uint16())
}

func (r *Reader) Uint32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return endianess.Uint32(b)
}

func (r *Reader) Int32() int32 {
	return int32(r.Uint32())
}

func (r *Reader) Int64() int64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return int64(endianess.Uint64(b))
}

// CString reads a NUL-terminated string from the next n bytes.
// Bytes after the first NUL are ignored.
func (r *Reader) CString(n int) string {
	b := r.take(n)
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

// Writer assembles a packet in memory.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter creates an empty writer with room for size bytes.
func NewWriter(size int) *Writer {
	w := &Writer{}
	w.buf.Grow(size)
	return w
}

// Len is the number of bytes written.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Bytes returns the written data.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Writes to a bytes.Buffer cannot fail, the errors of binary.Write are ignored.
func (w *Writer) put(v interface{}) {
	_ = binary.Write(&w.buf, endianess, v)
}

func (w *Writer) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *Writer) PutBytes(p []byte) {
	w.buf.Write(p)
}

// PutFixed writes s into a field of exactly n bytes, truncating or
// padding with NUL bytes.
func (w *Writer) PutFixed(s string, n int) {
	b := make([]byte, n)
	copy(b, s)
	w.buf.Write(b)
}

// Zero writes n NUL bytes.
func (w *Writer) Zero(n int) {
	w.buf.Write(make([]byte, n))
}

func (w *Writer) PutUint8(v uint8)   { w.buf.WriteByte(v) }
func (w *Writer) PutUint16(v uint16) { w.put(v) }
func (w *Writer) PutInt16(v int16)   { w.put(v) }
func (w *Writer) PutUint32(v uint32) { w.put(v) }
func (w *Writer) PutInt32(v int32)   { w.put(v) }
func (w *Writer) PutInt64(v int64)   { w.put(v) }
