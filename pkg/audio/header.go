// Package audio holds the voice clip of a page.
//
// Clips are recorded as 16-bit mono PCM at 8 kHz and stored as a Speex
// stream. This package reads and writes the Speex stream header and caches
// the encoded packets of a clip. Encoding and decoding is done by a Codec
// supplied by the caller.
package audio

import (
	"encoding/binary"
	"fmt"

	"github.com/akeil/twtw/internal/cursor"
	"github.com/akeil/twtw/internal/errors"
)

var endianess = binary.LittleEndian

// PCM format of recorded clips.
const (
	SampleRate = 8000
	SampleBits = 16
	Channels   = 1
)

// Speex narrowband parameters.
const (
	HeaderSize      = 80
	FrameSize       = 160
	FramesPerPacket = 10
	Lookahead       = 40

	magic         = "Speex   "
	versionSize   = 20
	versionString = "1.2rc1"
)

// Header is the first packet of a Speex stream.
type Header struct {
	Version              string
	VersionID            int32
	HeaderSize           int32
	Rate                 int32
	Mode                 int32
	ModeBitstreamVersion int32
	Channels             int32
	Bitrate              int32
	FrameSize            int32
	VBR                  int32
	FramesPerPacket      int32
	ExtraHeaders         int32
}

// NewHeader returns the header for a narrowband mono clip.
func NewHeader() *Header {
	return &Header{
		Version:              versionString,
		VersionID:            1,
		HeaderSize:           HeaderSize,
		Rate:                 SampleRate,
		Mode:                 0,
		ModeBitstreamVersion: 4,
		Channels:             Channels,
		Bitrate:              -1,
		FrameSize:            FrameSize,
		VBR:                  0,
		FramesPerPacket:      FramesPerPacket,
	}
}

// Validate checks that the stream can be played back.
// Returns an error if invalid data is found, nil if everything is fine.
func (h *Header) Validate() error {
	if h.Rate != SampleRate {
		return fmt.Errorf("unsupported sample rate %d", h.Rate)
	}
	if h.Channels != Channels {
		return fmt.Errorf("unsupported channel count %d", h.Channels)
	}
	if h.FrameSize <= 0 || h.FramesPerPacket <= 0 {
		return fmt.Errorf("invalid framing %d x %d", h.FrameSize, h.FramesPerPacket)
	}
	return nil
}

func (h *Header) MarshalBinary() ([]byte, error) {
	w := cursor.NewWriter(HeaderSize)
	w.PutFixed(magic, 8)
	w.PutFixed(h.Version, versionSize)
	for _, v := range []int32{
		h.VersionID, h.HeaderSize, h.Rate, h.Mode, h.ModeBitstreamVersion,
		h.Channels, h.Bitrate, h.FrameSize, h.VBR, h.FramesPerPacket,
		h.ExtraHeaders, 0, 0,
	} {
		w.PutInt32(v)
	}
	return w.Bytes(), nil
}

func (h *Header) UnmarshalBinary(data []byte) error {
	r := cursor.NewReader(data)
	if !r.Magic(magic) {
		return errors.NewInvalidFormat("not a speex header")
	}
	h.Version = r.CString(versionSize)
	for _, p := range []*int32{
		&h.VersionID, &h.HeaderSize, &h.Rate, &h.Mode, &h.ModeBitstreamVersion,
		&h.Channels, &h.Bitrate, &h.FrameSize, &h.VBR, &h.FramesPerPacket,
		&h.ExtraHeaders,
	} {
		*p = r.Int32()
	}
	r.Skip(8)
	if r.Err() != nil {
		return errors.AsInvalidFormat(r.Err(), "truncated speex header")
	}
	return nil
}

// ParseHeader reads and validates a Speex header packet.
func ParseHeader(data []byte) (*Header, error) {
	h := &Header{}
	err := h.UnmarshalBinary(data)
	if err != nil {
		return nil, err
	}
	err = h.Validate()
	if err != nil {
		return nil, errors.AsInvalidFormat(err, "speex header")
	}
	return h, nil
}
