package schema

import (
	"strings"

	"github.com/akeil/twtw/internal/cursor"
	"github.com/akeil/twtw/internal/errors"
)

// Ogg Skeleton 3.0 packets that make a container self-describing.
const (
	FisheadSize = 64
	FisboneSize = 52

	// offset of the message headers, counted from the offset field itself
	fisboneHeaderOffset = FisboneSize - 8
)

// Content types announced for the book streams.
const (
	DocumentContentType = "application/x-twtw.document"
	PictureContentType  = "application/x.twtw-picture"
)

// Fishead is the first packet of the skeleton stream.
type Fishead struct {
	VersionMajor    uint16
	VersionMinor    uint16
	PresentationNum int64
	PresentationDen int64
	BaseNum         int64
	BaseDen         int64
	UTC             [20]byte
}

// NewFishead returns the skeleton head written for books.
func NewFishead() *Fishead {
	return &Fishead{
		VersionMajor:    3,
		VersionMinor:    0,
		PresentationNum: 419000,
		PresentationDen: 1000,
		BaseNum:         0,
		BaseDen:         1000,
	}
}

func (h *Fishead) MarshalBinary() ([]byte, error) {
	w := cursor.NewWriter(FisheadSize)
	w.PutFixed(FisheadMagic, 8)
	w.PutUint16(h.VersionMajor)
	w.PutUint16(h.VersionMinor)
	w.PutInt64(h.PresentationNum)
	w.PutInt64(h.PresentationDen)
	w.PutInt64(h.BaseNum)
	w.PutInt64(h.BaseDen)
	w.PutBytes(h.UTC[:])
	return w.Bytes(), nil
}

func (h *Fishead) UnmarshalBinary(data []byte) error {
	r := cursor.NewReader(data)
	err := readMagic(r, FisheadMagic, "skeleton head")
	if err != nil {
		return err
	}
	h.VersionMajor = r.Uint16()
	h.VersionMinor = r.Uint16()
	h.PresentationNum = r.Int64()
	h.PresentationDen = r.Int64()
	h.BaseNum = r.Int64()
	h.BaseDen = r.Int64()
	copy(h.UTC[:], r.Bytes(len(h.UTC)))
	return checkRead(r, "skeleton head")
}

// Fisbone describes one logical stream on the skeleton stream.
type Fisbone struct {
	Serial         uint32
	HeaderPackets  uint32
	GranuleRateNum int64
	GranuleRateDen int64
	StartGranule   int64
	Preroll        uint32
	GranuleShift   uint8
	Headers        []Field
}

// NewFisbone creates a descriptor for a book stream with the given
// number of header packets and content type.
func NewFisbone(serial uint32, headerPackets uint32, contentType string) *Fisbone {
	return &Fisbone{
		Serial:         serial,
		HeaderPackets:  headerPackets,
		GranuleRateNum: 100,
		GranuleRateDen: 1,
		StartGranule:   100,
		Headers:        []Field{{"Content-Type", contentType}},
	}
}

// ContentType returns the value of the Content-Type message header.
func (b *Fisbone) ContentType() string {
	for _, f := range b.Headers {
		if strings.EqualFold(f.Key, "Content-Type") {
			return f.Value
		}
	}
	return ""
}

func (b *Fisbone) MarshalBinary() ([]byte, error) {
	var sb strings.Builder
	for _, f := range b.Headers {
		if strings.ContainsAny(f.Key, ":\r\n") || strings.ContainsAny(f.Value, "\r\n") {
			return nil, errors.NewParamError("invalid message header %q", f.Key)
		}
		sb.WriteString(f.Key)
		sb.WriteString(": ")
		sb.WriteString(f.Value)
		sb.WriteString("\r\n")
	}

	w := cursor.NewWriter(FisboneSize + sb.Len())
	w.PutFixed(FisboneMagic, 8)
	w.PutUint32(fisboneHeaderOffset)
	w.PutUint32(b.Serial)
	w.PutUint32(b.HeaderPackets)
	w.PutInt64(b.GranuleRateNum)
	w.PutInt64(b.GranuleRateDen)
	w.PutInt64(b.StartGranule)
	w.PutUint32(b.Preroll)
	w.PutUint8(b.GranuleShift)
	w.Zero(3)
	w.PutBytes([]byte(sb.String()))
	return w.Bytes(), nil
}

func (b *Fisbone) UnmarshalBinary(data []byte) error {
	r := cursor.NewReader(data)
	err := readMagic(r, FisboneMagic, "skeleton bone")
	if err != nil {
		return err
	}
	offset := int(r.Uint32())
	b.Serial = r.Uint32()
	b.HeaderPackets = r.Uint32()
	b.GranuleRateNum = r.Int64()
	b.GranuleRateDen = r.Int64()
	b.StartGranule = r.Int64()
	b.Preroll = r.Uint32()
	b.GranuleShift = r.Uint8()
	err = checkRead(r, "skeleton bone")
	if err != nil {
		return err
	}

	start := 8 + offset
	if offset < fisboneHeaderOffset || start > len(data) {
		return errors.NewInvalidFormat("invalid message header offset %d", offset)
	}
	b.Headers = nil
	for _, line := range strings.Split(string(data[start:]), "\r\n") {
		if line == "" {
			continue
		}
		i := strings.Index(line, ":")
		if i < 0 {
			return errors.NewInvalidFormat("invalid message header %q", line)
		}
		b.Headers = append(b.Headers, Field{line[:i], strings.TrimSpace(line[i+1:])})
	}
	return nil
}
