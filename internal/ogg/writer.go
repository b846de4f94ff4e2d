package ogg

import (
	"io"
	"time"

	"github.com/akeil/twtw/internal/errors"
)

// Flush selects when pages are emitted for a written packet.
type Flush int

const (
	// NoFlush buffers the packet; the page is emitted when it is full.
	NoFlush Flush = iota
	// FlushBefore emits pending data of the stream before the packet.
	FlushBefore
	// FlushAfter emits the page holding the end of the packet.
	FlushAfter
)

type writeStream struct {
	serial  uint32
	seq     uint32
	packets int64
	ended   bool

	// the page under construction
	flags    byte
	granule  int64
	lacing   []byte
	body     []byte
	complete bool // whether a packet ends on the pending page
}

// Writer writes packets of any number of logical streams as Ogg pages.
// Pages are written to the underlying writer in the order they are
// flushed.
type Writer struct {
	w       io.Writer
	streams map[uint32]*writeStream
	order   []uint32
	serial  int32
	used    map[uint32]bool
	err     error
}

// NewWriter creates a Writer which writes pages to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		w:       w,
		streams: make(map[uint32]*writeStream),
		serial:  int32(time.Now().Unix()),
		used:    make(map[uint32]bool),
	}
}

// Reserve marks a serial number as taken so that NewSerial will not
// return it.
func (w *Writer) Reserve(serial uint32) {
	w.used[serial] = true
}

// NewSerial returns a serial number which is not used by any stream of
// this writer. The same serial is never returned twice.
func (w *Writer) NewSerial() uint32 {
	for {
		w.serial = NextSerial(w.serial)
		s := uint32(w.serial)
		if s == AllStreams || w.used[s] {
			continue
		}
		w.used[s] = true
		return s
	}
}

// WritePacket appends a packet to the stream with the given serial.
// The first packet of a stream is always a BOS packet. No packets may be
// written to a stream after its EOS packet.
func (w *Writer) WritePacket(serial uint32, p Packet, flush Flush) error {
	if w.err != nil {
		return w.err
	}
	if serial == AllStreams {
		return errors.NewParamError("invalid stream serial %#x", serial)
	}

	s, ok := w.streams[serial]
	if !ok {
		s = &writeStream{serial: serial, flags: flagBOS, granule: NoGranule}
		w.streams[serial] = s
		w.order = append(w.order, serial)
		w.used[serial] = true
	} else if s.ended {
		return errors.NewParamError("stream %#x already ended", serial)
	} else if p.BOS {
		return errors.NewParamError("BOS packet for stream %#x which has already started", serial)
	}

	if flush == FlushBefore {
		err := w.flushStream(s)
		if err != nil {
			return err
		}
	}

	err := w.addPacket(s, p)
	if err != nil {
		return err
	}

	// a BOS packet has a page of its own
	bos := s.packets == 1
	if p.EOS {
		s.ended = true
		s.flags |= flagEOS
		return w.flushStream(s)
	}
	if bos || flush == FlushAfter || len(s.body) >= pageSoftLimit {
		return w.flushStream(s)
	}
	return nil
}

func (w *Writer) addPacket(s *writeStream, p Packet) error {
	data := p.Data
	started := false
	for {
		if len(s.lacing) == maxSegments {
			err := w.emit(s)
			if err != nil {
				return err
			}
			if started {
				s.flags |= flagContinued
			}
		}

		n := len(data)
		if n > maxSegmentSize {
			n = maxSegmentSize
		}
		s.lacing = append(s.lacing, byte(n))
		s.body = append(s.body, data[:n]...)
		data = data[n:]
		started = true

		// a segment shorter than 255 bytes terminates the packet
		if n < maxSegmentSize {
			break
		}
	}

	s.granule = p.Granule
	s.complete = true
	s.packets++
	return nil
}

// flushStream emits the pending page of the stream, if there is one.
func (w *Writer) flushStream(s *writeStream) error {
	if len(s.lacing) == 0 {
		return nil
	}
	return w.emit(s)
}

func (w *Writer) emit(s *writeStream) error {
	granule := s.granule
	if !s.complete {
		granule = NoGranule
	}
	pg := page{
		flags:   s.flags,
		granule: granule,
		serial:  s.serial,
		seq:     s.seq,
		lacing:  s.lacing,
		body:    s.body,
	}

	_, err := w.w.Write(pg.marshal())
	if err != nil {
		w.err = errors.NewFileError(err, "write page %d of stream %#x", s.seq, s.serial)
		return w.err
	}

	s.seq++
	s.flags = 0
	s.lacing = nil
	s.body = nil
	s.complete = false
	return nil
}

// Flush emits the pending pages of all streams.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	for _, serial := range w.order {
		err := w.flushStream(w.streams[serial])
		if err != nil {
			return err
		}
	}
	return nil
}

// Close flushes all pending pages. It does not close the underlying writer.
func (w *Writer) Close() error {
	return w.Flush()
}

// NextSerial advances the serial number generator.
// The sequence never yields zero.
func NextSerial(s int32) int32 {
	for k := 0; k < 3 || s == 0; k++ {
		s = 11117*s + 211231
	}
	return s
}

// RandomSerial returns a serial number seeded from the current time.
func RandomSerial() uint32 {
	s := NextSerial(int32(time.Now().UnixNano()))
	for uint32(s) == AllStreams {
		s = NextSerial(s)
	}
	return uint32(s)
}
