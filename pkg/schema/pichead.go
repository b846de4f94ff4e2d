package schema

import (
	"github.com/akeil/twtw/internal/cursor"
)

// PicHeadSize is the size of a picture head packet.
const PicHeadSize = 32

// UnknownPoints is written to the informational point count.
const UnknownPoints = -1

// PicHead is the first packet of a page's picture stream.
type PicHead struct {
	Flags         uint32
	SoundDuration uint32 // seconds
	NumCurves     uint32
	NumPoints     int32
	NumPhotos     uint16
}

func (h *PicHead) MarshalBinary() ([]byte, error) {
	w := cursor.NewWriter(PicHeadSize)
	w.PutFixed(PicHeadMagic, 8)
	w.PutUint32(h.Flags)
	w.PutUint32(h.SoundDuration)
	w.PutUint32(h.NumCurves)
	w.PutInt32(h.NumPoints)
	w.PutUint16(h.NumPhotos)
	w.PutUint16(0)
	w.PutUint32(0)
	return w.Bytes(), nil
}

func (h *PicHead) UnmarshalBinary(data []byte) error {
	r := cursor.NewReader(data)
	err := readMagic(r, PicHeadMagic, "picture head")
	if err != nil {
		return err
	}
	h.Flags = r.Uint32()
	h.SoundDuration = r.Uint32()
	h.NumCurves = r.Uint32()
	h.NumPoints = r.Int32()
	h.NumPhotos = r.Uint16()
	r.Skip(6)
	return checkRead(r, "picture head")
}
