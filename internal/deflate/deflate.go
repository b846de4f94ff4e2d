// Package deflate compresses curve and photo payloads with zlib.
package deflate

import (
	"bytes"
	"io"
	"sync"

	"github.com/klauspost/compress/zlib"

	"github.com/akeil/twtw/internal/errors"
)

// Level is the compression level used for all payloads.
const Level = 7

// MaxSize limits the declared original size of a payload.
// Larger values are treated as corrupt length fields.
const MaxSize = 64 << 20

// Pooled zlib writers to amortize internal hash table allocation.
var writerPool = sync.Pool{
	New: func() interface{} {
		w, _ := zlib.NewWriterLevel(&bytes.Buffer{}, Level)
		return w
	},
}

// Deflate compresses data.
func Deflate(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(len(data)/2 + 64)

	w := writerPool.Get().(*zlib.Writer)
	defer writerPool.Put(w)
	w.Reset(&buf)

	_, err := w.Write(data)
	if err != nil {
		return nil, errors.NewUnknown(err, "deflate")
	}
	err = w.Close()
	if err != nil {
		return nil, errors.NewUnknown(err, "deflate")
	}

	return buf.Bytes(), nil
}

// Inflate decompresses data which must expand to exactly expectedSize bytes.
func Inflate(data []byte, expectedSize int) ([]byte, error) {
	if expectedSize < 0 || expectedSize > MaxSize {
		return nil, errors.NewInvalidFormat("declared size %d out of range", expectedSize)
	}

	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.AsInvalidFormat(err, "inflate")
	}
	defer r.Close()

	out := make([]byte, expectedSize)
	_, err = io.ReadFull(r, out)
	if err != nil {
		return nil, errors.AsInvalidFormat(err, "inflate %d bytes", expectedSize)
	}

	// reading past the end verifies the checksum
	var extra [1]byte
	n, err := r.Read(extra[:])
	if n != 0 {
		return nil, errors.NewInvalidFormat("inflated data exceeds declared size %d", expectedSize)
	}
	if err != nil && err != io.EOF {
		return nil, errors.AsInvalidFormat(err, "inflate")
	}

	return out, nil
}

// InflateAll decompresses data whose size is not known in advance.
// Output larger than limit bytes is treated as corrupt.
func InflateAll(data []byte, limit int) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.AsInvalidFormat(err, "inflate")
	}
	defer r.Close()

	out, err := io.ReadAll(io.LimitReader(r, int64(limit)+1))
	if err != nil {
		return nil, errors.AsInvalidFormat(err, "inflate")
	}
	if len(out) > limit {
		return nil, errors.NewInvalidFormat("inflated data exceeds %d bytes", limit)
	}
	return out, nil
}
