// Package ogg multiplexes numbered logical streams of packets into Ogg
// pages and demultiplexes them again.
//
// The Writer mirrors the feed-and-flush model of a packet muxer: packets
// are fed per stream serial and pages are emitted when a flush is
// requested or a page is full. The Reader delivers packets through
// per-stream callbacks and can be stopped and resumed, which allows a
// caller to process the same stream in several passes.
package ogg

import (
	"encoding/binary"
)

var endianess = binary.LittleEndian

const (
	capturePattern = "OggS"
	headerSize     = 27
	maxSegments    = 255
	maxSegmentSize = 255
	// maximum size of a complete page including header and lacing
	maxPageSize = headerSize + maxSegments + maxSegments*maxSegmentSize

	// pages are emitted once their body grows beyond this size even
	// when no flush was requested
	pageSoftLimit = 4096
)

// Header type flags.
const (
	flagContinued = 0x01
	flagBOS       = 0x02
	flagEOS       = 0x04
)

// AllStreams registers a read callback for every stream that has no
// callback of its own. No valid stream uses this serial.
const AllStreams = ^uint32(0)

// NoGranule marks a page on which no packet completes.
const NoGranule int64 = -1

// Packet is one unit of data on a logical stream.
type Packet struct {
	Data []byte
	// BOS marks the first packet of a stream.
	BOS bool
	// EOS marks the last packet of a stream.
	EOS bool
	// Granule is the stream position, as set by the producer.
	Granule int64
	// Number is the sequence number of the packet within its stream.
	Number int64
}

type page struct {
	flags   byte
	granule int64
	serial  uint32
	seq     uint32
	lacing  []byte
	body    []byte
}

func (p *page) continued() bool { return p.flags&flagContinued != 0 }
func (p *page) bos() bool       { return p.flags&flagBOS != 0 }
func (p *page) eos() bool       { return p.flags&flagEOS != 0 }

// marshal assembles the page and fills in its checksum.
func (p *page) marshal() []byte {
	buf := make([]byte, headerSize+len(p.lacing)+len(p.body))
	copy(buf, capturePattern)
	buf[4] = 0 // version
	buf[5] = p.flags
	endianess.PutUint64(buf[6:], uint64(p.granule))
	endianess.PutUint32(buf[14:], p.serial)
	endianess.PutUint32(buf[18:], p.seq)
	// checksum at 22 is computed over the page with this field zeroed
	buf[26] = byte(len(p.lacing))
	copy(buf[headerSize:], p.lacing)
	copy(buf[headerSize+len(p.lacing):], p.body)

	endianess.PutUint32(buf[22:], crcUpdate(0, buf))
	return buf
}

// bodySize returns the sum of the lacing values.
func bodySize(lacing []byte) int {
	n := 0
	for _, v := range lacing {
		n += int(v)
	}
	return n
}
