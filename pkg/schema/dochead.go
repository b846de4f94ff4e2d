package schema

import (
	"github.com/akeil/twtw/internal/cursor"
)

const (
	// DocHeadSize is the size of a document head packet on disk.
	// Only the first 20 bytes carry data, the rest is zero padding.
	DocHeadSize = 32
	docHeadMin  = 20

	// GranulesPerPage is informational, readers do not use it.
	GranulesPerPage = 1000
)

// DocHead is the first packet of the document stream.
type DocHead struct {
	VersionMajor    uint16
	VersionMinor    uint16
	Pages           uint32
	GranulesPerPage uint32
}

// NewDocHead returns the head written for the current format version.
func NewDocHead() *DocHead {
	return &DocHead{
		VersionMajor:    1,
		VersionMinor:    0,
		Pages:           NumPages,
		GranulesPerPage: GranulesPerPage,
	}
}

func (h *DocHead) MarshalBinary() ([]byte, error) {
	w := cursor.NewWriter(DocHeadSize)
	w.PutFixed(DocHeadMagic, 8)
	w.PutUint16(h.VersionMajor)
	w.PutUint16(h.VersionMinor)
	w.PutUint32(h.Pages)
	w.PutUint32(h.GranulesPerPage)
	w.Zero(DocHeadSize - docHeadMin)
	return w.Bytes(), nil
}

// UnmarshalBinary accepts packets of at least 20 bytes; padding is ignored.
func (h *DocHead) UnmarshalBinary(data []byte) error {
	r := cursor.NewReader(data)
	err := readMagic(r, DocHeadMagic, "document head")
	if err != nil {
		return err
	}
	h.VersionMajor = r.Uint16()
	h.VersionMinor = r.Uint16()
	h.Pages = r.Uint32()
	h.GranulesPerPage = r.Uint32()
	return checkRead(r, "document head")
}
