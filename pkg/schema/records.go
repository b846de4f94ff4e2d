package schema

import (
	"github.com/akeil/twtw/internal/cursor"
	"github.com/akeil/twtw/internal/errors"
	"github.com/akeil/twtw/pkg/photo"
)

// Sub-record magics and header sizes.
const (
	CurveMagic = "twCu"
	PhotoMagic = "twPh"

	CurveHeaderSize = 16
	PhotoHeaderSize = 38
)

// Record is a sub-record of a picture data packet,
// either a *CurveRecord or a *PhotoRecord.
type Record interface {
	Magic() string
	AppendBinary(b []byte) []byte
}

// CurveRecord holds one deflated curve list.
type CurveRecord struct {
	OriginalSize uint32
	Metadata     []byte
	Data         []byte
}

func (c *CurveRecord) Magic() string {
	return CurveMagic
}

// AppendBinary appends header, metadata and data to b.
func (c *CurveRecord) AppendBinary(b []byte) []byte {
	w := cursor.NewWriter(CurveHeaderSize)
	w.PutFixed(CurveMagic, 4)
	w.PutUint32(uint32(len(c.Data)))
	w.PutUint32(c.OriginalSize)
	w.PutUint32(uint32(len(c.Metadata)))
	b = append(b, w.Bytes()...)
	b = append(b, c.Metadata...)
	return append(b, c.Data...)
}

// PhotoRecord holds one compressed photo.
//
// DstRect places the photo on the canvas; a width or height of -1 means
// the canvas size.
type PhotoRecord struct {
	OriginalSize uint32
	Width        uint16
	Height       uint16
	RowBytes     uint16
	PixelFormat  photo.FourCC
	Compressed   photo.FourCC
	DstRect      [4]int16
	Metadata     []byte
	Data         []byte
}

// NewPhotoRecord wraps a compressed photo with the default placement.
func NewPhotoRecord(c *photo.Compressed) *PhotoRecord {
	return &PhotoRecord{
		OriginalSize: uint32(c.OriginalSize),
		Width:        uint16(c.Width),
		Height:       uint16(c.Height),
		RowBytes:     uint16(c.Width * 2),
		PixelFormat:  photo.UYVY,
		Compressed:   c.FourCC,
		DstRect:      [4]int16{0, 0, -1, -1},
		Data:         c.Data,
	}
}

// Photo returns the compressed photo for decoding.
func (p *PhotoRecord) Photo() *photo.Compressed {
	return &photo.Compressed{
		FourCC:       p.Compressed,
		Width:        int(p.Width),
		Height:       int(p.Height),
		OriginalSize: int(p.OriginalSize),
		Data:         p.Data,
	}
}

func (p *PhotoRecord) Magic() string {
	return PhotoMagic
}

// AppendBinary appends header, metadata and data to b.
func (p *PhotoRecord) AppendBinary(b []byte) []byte {
	w := cursor.NewWriter(PhotoHeaderSize)
	w.PutFixed(PhotoMagic, 4)
	w.PutUint32(uint32(len(p.Data)))
	w.PutUint32(p.OriginalSize)
	w.PutUint16(p.Width)
	w.PutUint16(p.Height)
	w.PutUint16(p.RowBytes)
	w.PutUint32(uint32(p.PixelFormat))
	w.PutUint32(uint32(p.Compressed))
	for _, v := range p.DstRect {
		w.PutInt16(v)
	}
	w.PutUint32(uint32(len(p.Metadata)))
	b = append(b, w.Bytes()...)
	b = append(b, p.Metadata...)
	return append(b, p.Data...)
}

// MarshalRecords concatenates records into one picture data packet.
func MarshalRecords(records ...Record) []byte {
	var b []byte
	for _, r := range records {
		b = r.AppendBinary(b)
	}
	return b
}

// Scanner iterates over the sub-records of a picture data packet.
// The records alias the packet data.
type Scanner struct {
	r   *cursor.Reader
	rec Record
	err error
}

// NewScanner creates a scanner over a picture data packet.
func NewScanner(data []byte) *Scanner {
	return &Scanner{r: cursor.NewReader(data)}
}

// Next advances to the next record. It returns false at the end of the
// data or on the first error.
func (s *Scanner) Next() bool {
	if s.err != nil || s.r.Remaining() == 0 {
		return false
	}
	at := s.r.Offset()
	magic := string(s.r.Bytes(4))
	switch magic {
	case CurveMagic:
		s.rec, s.err = s.curve()
	case PhotoMagic:
		s.rec, s.err = s.photo()
	default:
		s.err = errors.NewInvalidFormat("unknown record %q at offset %d", magic, at)
	}
	if s.err == nil && s.r.Err() != nil {
		s.err = errors.AsInvalidFormat(s.r.Err(), "truncated %q record at offset %d", magic, at)
	}
	if s.err != nil {
		s.rec = nil
		return false
	}
	return true
}

// Record returns the current record.
func (s *Scanner) Record() Record {
	return s.rec
}

// Err returns the error that stopped the scan, if any.
func (s *Scanner) Err() error {
	return s.err
}

func (s *Scanner) curve() (Record, error) {
	size := int(s.r.Uint32())
	c := &CurveRecord{}
	c.OriginalSize = s.r.Uint32()
	mdSize := int(s.r.Uint32())
	c.Metadata = s.r.Bytes(mdSize)
	c.Data = s.r.Bytes(size)
	return c, nil
}

func (s *Scanner) photo() (Record, error) {
	size := int(s.r.Uint32())
	p := &PhotoRecord{}
	p.OriginalSize = s.r.Uint32()
	p.Width = s.r.Uint16()
	p.Height = s.r.Uint16()
	p.RowBytes = s.r.Uint16()
	p.PixelFormat = photo.FourCC(s.r.Uint32())
	p.Compressed = photo.FourCC(s.r.Uint32())
	for i := range p.DstRect {
		p.DstRect[i] = s.r.Int16()
	}
	mdSize := int(s.r.Uint32())
	p.Metadata = s.r.Bytes(mdSize)
	p.Data = s.r.Bytes(size)
	return p, nil
}

// ScanRecords parses all sub-records of a picture data packet.
func ScanRecords(data []byte) ([]Record, error) {
	var recs []Record
	s := NewScanner(data)
	for s.Next() {
		recs = append(recs, s.Record())
	}
	return recs, s.Err()
}
