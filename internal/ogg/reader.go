package ogg

import (
	"bufio"
	"bytes"
	e "errors"
	"io"

	"github.com/akeil/twtw/internal/errors"
	"github.com/akeil/twtw/internal/logging"
)

// Result tells the Reader how to proceed after a packet was delivered.
type Result int

const (
	// Continue reading.
	Continue Result = iota
	// StopOK stops reading; Read returns nil.
	StopOK
	// StopErr stops reading; Read returns ErrStopped.
	StopErr
)

// ErrStopped is returned by Read when a callback returned StopErr.
var ErrStopped = e.New("read stopped by callback")

// ReadFunc receives a packet of the stream with the given serial.
type ReadFunc func(serial uint32, p Packet) Result

type readStream struct {
	serial  uint32
	nextSeq uint32
	packets int64
	partial []byte
	// partial holds the start of a packet continued on the next page
	pending bool
}

type queued struct {
	serial uint32
	packet Packet
}

// Reader reads packets from an Ogg stream.
type Reader struct {
	br        *bufio.Reader
	streams   map[uint32]*readStream
	callbacks map[uint32]ReadFunc
	queue     []queued
	skipped   int64
	eof       bool
}

// NewReader creates a Reader for r.
func NewReader(r io.Reader) *Reader {
	return &Reader{
		br:        bufio.NewReaderSize(r, 1<<17),
		streams:   make(map[uint32]*readStream),
		callbacks: make(map[uint32]ReadFunc),
	}
}

// SetReadCallback registers fn for the stream with the given serial.
// Use AllStreams to register a callback for all streams without a callback
// of their own. A nil fn removes the callback. Packets for which no
// callback is registered are discarded.
func (r *Reader) SetReadCallback(serial uint32, fn ReadFunc) {
	if fn == nil {
		delete(r.callbacks, serial)
		return
	}
	r.callbacks[serial] = fn
}

// ClearCallbacks removes all registered callbacks.
func (r *Reader) ClearCallbacks() {
	r.callbacks = make(map[uint32]ReadFunc)
}

// Skipped returns the number of bytes discarded while searching for pages.
func (r *Reader) Skipped() int64 {
	return r.skipped
}

// Read delivers packets to the registered callbacks until a callback
// stops the read or the input is exhausted.
//
// It returns nil if a callback returned StopOK, ErrStopped if a callback
// returned StopErr and io.EOF when no more packets are available. The
// packet that stopped the read is consumed; the next call to Read
// continues with the following packet.
func (r *Reader) Read() error {
	for {
		for len(r.queue) > 0 {
			q := r.queue[0]
			r.queue[0] = queued{}
			r.queue = r.queue[1:]

			fn, ok := r.callbacks[q.serial]
			if !ok {
				fn, ok = r.callbacks[AllStreams]
			}
			if !ok {
				continue
			}

			switch fn(q.serial, q.packet) {
			case StopOK:
				return nil
			case StopErr:
				return ErrStopped
			}
		}

		if r.eof {
			return io.EOF
		}

		pg, err := r.readPage()
		if err == io.EOF {
			r.eof = true
			continue
		} else if err != nil {
			return err
		}
		r.demux(pg)
	}
}

// readPage returns the next page with a valid checksum.
func (r *Reader) readPage() (*page, error) {
	for {
		err := r.sync()
		if err != nil {
			return nil, err
		}

		hdr, err := r.br.Peek(headerSize)
		if err != nil {
			return nil, r.truncated(err)
		}
		if hdr[4] != 0 {
			logging.Debug("unsupported page version %d, resync", hdr[4])
			r.discard(1)
			continue
		}

		nseg := int(hdr[26])
		head, err := r.br.Peek(headerSize + nseg)
		if err != nil {
			return nil, r.truncated(err)
		}
		size := headerSize + nseg + bodySize(head[headerSize:])

		// the slices of earlier peeks are invalid once the buffer moves
		raw, err := r.br.Peek(size)
		if err != nil {
			return nil, r.truncated(err)
		}

		want := endianess.Uint32(raw[22:26])
		crc := crcUpdate(0, raw[:22])
		crc = crcUpdate(crc, []byte{0, 0, 0, 0})
		crc = crcUpdate(crc, raw[26:])
		if crc != want {
			logging.Warning("page checksum mismatch (%08x != %08x), resync", crc, want)
			r.discard(1)
			continue
		}

		pg := &page{
			flags:   raw[5],
			granule: int64(endianess.Uint64(raw[6:14])),
			serial:  endianess.Uint32(raw[14:18]),
			seq:     endianess.Uint32(raw[18:22]),
			lacing:  append([]byte(nil), raw[headerSize:headerSize+nseg]...),
			body:    append([]byte(nil), raw[headerSize+nseg:]...),
		}
		r.br.Discard(size)
		return pg, nil
	}
}

// sync skips ahead to the next capture pattern.
func (r *Reader) sync() error {
	pattern := []byte(capturePattern)
	for {
		b, err := r.br.Peek(len(pattern))
		if err != nil {
			if err != io.EOF {
				return errors.NewFileError(err, "read")
			}
			if len(b) > 0 {
				r.discard(len(b))
				logging.Warning("discarded %d trailing bytes", len(b))
			}
			return io.EOF
		}
		if bytes.Equal(b, pattern) {
			return nil
		}

		buf, _ := r.br.Peek(r.br.Buffered())
		i := bytes.IndexByte(buf[1:], pattern[0])
		if i < 0 {
			r.discard(len(buf))
		} else {
			r.discard(i + 1)
		}
	}
}

func (r *Reader) discard(n int) {
	d, _ := r.br.Discard(n)
	r.skipped += int64(d)
}

// truncated handles a page cut off by the end of input.
func (r *Reader) truncated(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		n := r.br.Buffered()
		r.discard(n)
		logging.Warning("truncated page at end of input, %d bytes discarded", n)
		return io.EOF
	}
	return errors.NewFileError(err, "read page")
}

// demux splits a page into packets and queues the complete ones.
func (r *Reader) demux(pg *page) {
	s, ok := r.streams[pg.serial]
	if !ok {
		if !pg.bos() {
			logging.Debug("stream %#x starts without BOS page", pg.serial)
		}
		s = &readStream{serial: pg.serial, nextSeq: pg.seq}
		r.streams[pg.serial] = s
	}

	if pg.seq != s.nextSeq {
		logging.Warning("stream %#x: expected page %d, got %d", pg.serial, s.nextSeq, pg.seq)
		s.partial = nil
		s.pending = false
	}
	s.nextSeq = pg.seq + 1

	// leading segments that continue a lost packet are dropped
	skip := pg.continued() && !s.pending
	if !pg.continued() && s.pending {
		logging.Warning("stream %#x: incomplete packet dropped", pg.serial)
		s.partial = nil
		s.pending = false
	}

	// index of the last segment that terminates a packet
	last := -1
	for i, v := range pg.lacing {
		if v < maxSegmentSize {
			last = i
		}
	}

	off := 0
	first := true
	for i, v := range pg.lacing {
		seg := pg.body[off : off+int(v)]
		off += int(v)

		if !skip {
			s.partial = append(s.partial, seg...)
			s.pending = true
		}
		if v == maxSegmentSize {
			continue
		}

		if skip {
			skip = false
			continue
		}

		p := Packet{
			Data:    s.partial,
			Granule: NoGranule,
			Number:  s.packets,
		}
		if p.Data == nil {
			p.Data = []byte{}
		}
		if first && pg.bos() && s.packets == 0 {
			p.BOS = true
		}
		if i == last {
			p.Granule = pg.granule
			p.EOS = pg.eos()
		}
		first = false

		s.packets++
		s.partial = nil
		s.pending = false
		r.queue = append(r.queue, queued{serial: pg.serial, packet: p})
	}
}
