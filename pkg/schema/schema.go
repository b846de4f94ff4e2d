// Package schema defines the fixed-layout packets of a book container.
//
// Every head packet starts with an 8-byte magic. All integers are
// little-endian. Picture data packets are a sequence of sub-records
// (curves and photos), each with its own 4-byte magic.
package schema

import (
	"bytes"
	"fmt"

	"github.com/akeil/twtw/internal/cursor"
	"github.com/akeil/twtw/internal/errors"
)

// Packet magics.
const (
	DocHeadMagic = "twdoc--\x00"
	DocBoneMagic = "twdocBo\x00"
	PicHeadMagic = "twtwpic\x00"
	FisheadMagic = "fishead\x00"
	FisboneMagic = "fisbone\x00"
	// Speex heads are identified by their first five bytes.
	SpeexMagic = "Speex"
)

// NumPages is the number of pages in every book.
const NumPages = 20

// NoStream marks a page slot without a stream in the bone packet.
const NoStream = ^uint32(0)

// StreamKind is the role of a logical stream, derived from its first packet.
type StreamKind int

const (
	Unknown StreamKind = iota
	Skeleton
	Document
	Picture
	Speex
)

func (k StreamKind) String() string {
	switch k {
	case Skeleton:
		return "skeleton"
	case Document:
		return "document"
	case Picture:
		return "picture"
	case Speex:
		return "speex"
	default:
		return "unknown"
	}
}

// Classify sniffs the first packet of a stream.
//
// A skeleton stream is only recognized from version 3 on.
func Classify(packet []byte) StreamKind {
	switch {
	case bytes.HasPrefix(packet, []byte(FisheadMagic)):
		var h Fishead
		if h.UnmarshalBinary(packet) != nil || h.VersionMajor < 3 {
			return Unknown
		}
		return Skeleton
	case bytes.HasPrefix(packet, []byte(DocHeadMagic)):
		return Document
	case bytes.HasPrefix(packet, []byte(PicHeadMagic)):
		return Picture
	case bytes.HasPrefix(packet, []byte(SpeexMagic)):
		return Speex
	default:
		return Unknown
	}
}

// Field is a key/value pair used for bone metadata and fisbone headers.
type Field struct {
	Key   string
	Value string
}

func (f Field) String() string {
	return fmt.Sprintf("%v: %v", f.Key, f.Value)
}

// readMagic checks the leading magic of a packet.
func readMagic(r *cursor.Reader, magic, what string) error {
	if !r.Magic(magic) {
		return errors.NewInvalidFormat("not a %v packet", what)
	}
	return nil
}

// checkRead turns a short read into an InvalidFormat error.
func checkRead(r *cursor.Reader, what string) error {
	if r.Err() != nil {
		return errors.AsInvalidFormat(r.Err(), "truncated %v packet", what)
	}
	return nil
}
