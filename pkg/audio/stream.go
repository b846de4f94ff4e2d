package audio

import (
	"github.com/akeil/twtw/internal/errors"
)

// Packet is one encoded Speex packet with its granule position.
type Packet struct {
	Data    []byte
	Granule int64
}

// Stream caches the encoded packets of a clip so that an unmodified clip
// can be written again without re-encoding.
type Stream struct {
	Header  *Header
	Packets []Packet
}

// NewStream creates an empty stream for the given header.
func NewStream(h *Header) *Stream {
	if h == nil {
		h = NewHeader()
	}
	return &Stream{Header: h}
}

// Append adds a copy of an encoded packet.
func (s *Stream) Append(data []byte, granule int64) {
	d := make([]byte, len(data))
	copy(d, data)
	s.Packets = append(s.Packets, Packet{Data: d, Granule: granule})
}

// Empty tells whether the stream holds no audio data.
func (s *Stream) Empty() bool {
	return s == nil || len(s.Packets) == 0
}

// Size is the number of encoded bytes.
func (s *Stream) Size() int {
	n := 0
	for _, p := range s.Packets {
		n += len(p.Data)
	}
	return n
}

// Samples is the number of decoded samples, taken from the highest
// granule position.
func (s *Stream) Samples() int64 {
	var n int64
	for _, p := range s.Packets {
		if p.Granule > n {
			n = p.Granule
		}
	}
	return n
}

// PCMSize is the size of the decoded clip in bytes.
func (s *Stream) PCMSize() int64 {
	return s.Samples() * SampleBits / 8 * int64(s.Header.Channels)
}

// Clone returns a deep copy.
func (s *Stream) Clone() *Stream {
	if s == nil {
		return nil
	}
	h := *s.Header
	c := &Stream{Header: &h}
	for _, p := range s.Packets {
		c.Append(p.Data, p.Granule)
	}
	return c
}

// Codec converts between PCM files and Speex packets.
//
// Encode reads a PCM file (with a WAV header) and returns the encoded
// packets for the given header. Decode writes the decoded clip to a PCM
// file and returns the number of PCM bytes written.
type Codec interface {
	Encode(pcmPath string, h *Header) ([]Packet, error)
	Decode(s *Stream, pcmPath string) (int64, error)
}

// Encode runs a codec and wraps the result in a stream.
func Encode(c Codec, pcmPath string) (*Stream, error) {
	if c == nil {
		return nil, errors.NewParamError("no audio codec")
	}
	h := NewHeader()
	packets, err := c.Encode(pcmPath, h)
	if err != nil {
		return nil, errors.Wrap(err, "encode %q", pcmPath)
	}
	return &Stream{Header: h, Packets: packets}, nil
}

// Duration converts a PCM byte count to whole seconds, rounded up.
func Duration(pcmBytes int64) int {
	if pcmBytes <= 0 {
		return 0
	}
	perSec := int64(SampleRate * SampleBits / 8 * Channels)
	return int((pcmBytes + perSec - 1) / perSec)
}

// PCMDuration returns the duration of a recorded WAV file from its size.
func PCMDuration(fileSize int64) int {
	if fileSize > WAVHeaderSize {
		fileSize -= WAVHeaderSize
	}
	return Duration(fileSize)
}
