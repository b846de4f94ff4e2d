package schema

import (
	"bytes"

	"github.com/google/uuid"

	"github.com/akeil/twtw/internal/cursor"
	"github.com/akeil/twtw/internal/errors"
)

const (
	// DocBoneBaseSize is the size of a bone packet without metadata.
	DocBoneBaseSize = 8 + 8 + 8*NumPages + 32 + 16 + 8 + 8 + 2
	// the metadata length is not required when there are no fields
	docBoneMin = DocBoneBaseSize - 2

	creatorSize = 32

	// DefaultCreator identifies the writing application.
	DefaultCreator = "20:20"
)

// Metadata keys applied to a book.
const (
	KeyAuthor = "author"
	KeyTitle  = "title"
)

// Rect is the document canvas in canvas units.
type Rect struct {
	X uint16
	Y uint16
	W uint16
	H uint16
}

// DocBone is the second packet of the document stream. It maps every page
// slot to the serials of its picture and Speex streams.
type DocBone struct {
	Flags        uint32
	Flags2       uint16
	PicSerials   [NumPages]uint32
	SpeexSerials [NumPages]uint32
	Creator      string
	DocumentID   uuid.UUID
	Canvas       Rect
	Metadata     []Field
}

// NewDocBone creates a bone with no streams assigned.
func NewDocBone() *DocBone {
	b := &DocBone{
		Creator: DefaultCreator,
		Canvas:  Rect{0, 0, 640, 360},
	}
	for i := 0; i < NumPages; i++ {
		b.PicSerials[i] = NoStream
		b.SpeexSerials[i] = NoStream
	}
	return b
}

// Get returns the value of the first metadata field with the given key.
func (b *DocBone) Get(key string) (string, bool) {
	for _, f := range b.Metadata {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// Set adds or replaces a metadata field.
func (b *DocBone) Set(key, value string) {
	for i, f := range b.Metadata {
		if f.Key == key {
			b.Metadata[i].Value = value
			return
		}
	}
	b.Metadata = append(b.Metadata, Field{key, value})
}

func (b *DocBone) MarshalBinary() ([]byte, error) {
	var md bytes.Buffer
	for _, f := range b.Metadata {
		if bytes.IndexByte([]byte(f.Key), 0) >= 0 || bytes.IndexByte([]byte(f.Value), 0) >= 0 {
			return nil, errors.NewParamError("metadata field %q contains a NUL byte", f.Key)
		}
		md.WriteString(f.Key)
		md.WriteByte(0)
		md.WriteString(f.Value)
		md.WriteByte(0)
	}
	if md.Len() > 0xffff || len(b.Metadata) > 0xffff {
		return nil, errors.NewParamError("metadata too large: %d bytes", md.Len())
	}

	w := cursor.NewWriter(DocBoneBaseSize + md.Len())
	w.PutFixed(DocBoneMagic, 8)
	w.PutUint32(b.Flags)
	w.PutUint16(b.Flags2)
	w.PutUint16(uint16(len(b.Metadata)))
	for i := 0; i < NumPages; i++ {
		w.PutUint32(b.PicSerials[i])
		w.PutUint32(b.SpeexSerials[i])
	}
	w.PutFixed(b.Creator, creatorSize)
	w.PutBytes(b.DocumentID[:])
	w.PutUint16(b.Canvas.X)
	w.PutUint16(b.Canvas.Y)
	w.PutUint16(b.Canvas.W)
	w.PutUint16(b.Canvas.H)
	w.Zero(8)
	w.PutUint16(uint16(md.Len()))
	w.PutBytes(md.Bytes())

	return w.Bytes(), nil
}

// UnmarshalBinary reads a bone packet.
//
// The metadata length is only present when the field count is nonzero.
// An incomplete trailing key/value pair is dropped.
func (b *DocBone) UnmarshalBinary(data []byte) error {
	if len(data) < docBoneMin {
		return errors.NewInvalidFormat("document bone too short: %d bytes", len(data))
	}
	r := cursor.NewReader(data)
	err := readMagic(r, DocBoneMagic, "document bone")
	if err != nil {
		return err
	}

	b.Flags = r.Uint32()
	b.Flags2 = r.Uint16()
	numFields := int(r.Uint16())
	for i := 0; i < NumPages; i++ {
		b.PicSerials[i] = r.Uint32()
		b.SpeexSerials[i] = r.Uint32()
	}
	b.Creator = r.CString(creatorSize)
	copy(b.DocumentID[:], r.Bytes(16))
	b.Canvas.X = r.Uint16()
	b.Canvas.Y = r.Uint16()
	b.Canvas.W = r.Uint16()
	b.Canvas.H = r.Uint16()
	r.Skip(8)

	b.Metadata = nil
	if numFields > 0 {
		size := int(r.Uint16())
		md := r.Bytes(size)
		err = checkRead(r, "document bone")
		if err != nil {
			return err
		}
		b.Metadata = parseFields(md, numFields)
	}

	return checkRead(r, "document bone")
}

func parseFields(md []byte, n int) []Field {
	var fields []Field
	next := func() (string, bool) {
		i := bytes.IndexByte(md, 0)
		if i < 0 {
			return "", false
		}
		s := string(md[:i])
		md = md[i+1:]
		return s, true
	}
	for i := 0; i < n; i++ {
		k, ok := next()
		if !ok {
			break
		}
		v, ok := next()
		if !ok {
			break
		}
		fields = append(fields, Field{k, v})
	}
	return fields
}
