package twtw

import (
	"fmt"
	"image"

	"github.com/akeil/twtw/internal/errors"
	"github.com/akeil/twtw/internal/logging"
	"github.com/akeil/twtw/pkg/audio"
	"github.com/akeil/twtw/pkg/curves"
	"github.com/akeil/twtw/pkg/photo"
)

// A Page is one of the twenty pages of a book.
//
// Curves are kept in z-order. A page owns its curves and its photo; any
// change marks the page as dirty and drops its cached thumbnail.
type Page struct {
	book  *Book
	index int

	curves []*curves.CurveList
	photo  *photo.YUVImage

	speex   *audio.Stream
	pcmPath string
	pcmSize int64

	dirty bool
	thumb image.Image
}

func newPage(b *Book, index int) *Page {
	return &Page{book: b, index: index}
}

// Index is the position of the page in its book.
func (p *Page) Index() int {
	return p.index
}

func (p *Page) String() string {
	return fmt.Sprintf("page %d", p.index+1)
}

// NumCurves returns the number of curves.
func (p *Page) NumCurves() int {
	return len(p.curves)
}

// Curve returns the curve at index i or nil.
func (p *Page) Curve(i int) *curves.CurveList {
	if i < 0 || i >= len(p.curves) {
		return nil
	}
	return p.curves[i]
}

// Curves returns the curves in z-order.
func (p *Page) Curves() []*curves.CurveList {
	c := make([]*curves.CurveList, len(p.curves))
	copy(c, p.curves)
	return c
}

// AddCurve appends a curve on top of the others. The page takes ownership
// of the curve; callers must not modify it afterwards.
func (p *Page) AddCurve(c *curves.CurveList) {
	if c == nil {
		return
	}
	p.curves = append(p.curves, c)
	p.touch()
}

// DeleteCurve removes the curve at index i.
func (p *Page) DeleteCurve(i int) error {
	if i < 0 || i >= len(p.curves) {
		return errors.NewParamError("curve index %d out of range", i)
	}
	p.curves = append(p.curves[:i], p.curves[i+1:]...)
	p.touch()
	return nil
}

// ClearCurves removes all curves.
func (p *Page) ClearCurves() {
	if len(p.curves) == 0 {
		return
	}
	p.curves = nil
	p.touch()
}

// Photo returns the background photo or nil.
func (p *Page) Photo() *photo.YUVImage {
	return p.photo
}

// SetPhoto stores a copy of img as the background photo.
func (p *Page) SetPhoto(img *photo.YUVImage) error {
	if img == nil {
		p.ClearPhoto()
		return nil
	}
	err := img.Validate()
	if err != nil {
		return errors.NewParamError("invalid photo: %v", err)
	}
	p.photo = img.Clone()
	p.touch()
	return nil
}

// ClearPhoto removes the background photo.
func (p *Page) ClearPhoto() {
	if p.photo == nil {
		return
	}
	p.photo = nil
	p.touch()
}

// HasAudio tells whether the page has a voice clip.
func (p *Page) HasAudio() bool {
	return p.pcmSize > 0
}

// SoundDuration is the length of the voice clip in whole seconds,
// rounded up.
func (p *Page) SoundDuration() int {
	return audio.Duration(p.pcmSize)
}

// PCMSize is the size of the decoded voice clip in bytes.
func (p *Page) PCMSize() int64 {
	return p.pcmSize
}

// PCMPath is the path of the PCM file for the voice clip, if any.
func (p *Page) PCMPath() string {
	return p.pcmPath
}

// Speex returns the cached encoded clip, if any.
func (p *Page) Speex() *audio.Stream {
	return p.speex
}

// SetRecordedPCM attaches a newly recorded WAV file of the given size.
// The cached Speex packets are dropped.
func (p *Page) SetRecordedPCM(path string, fileSize int64) {
	p.pcmPath = path
	size := fileSize
	if size > audio.WAVHeaderSize {
		size -= audio.WAVHeaderSize
	}
	p.pcmSize = size
	p.speex = nil
	logging.Debug("%v: recorded %d seconds of audio", p, p.SoundDuration())
}

// SetPCMFile attaches a WAV file, taking the clip size from its header.
func (p *Page) SetPCMFile(path string) error {
	info, err := audio.ReadWAVFile(path)
	if err != nil {
		return err
	}
	if info.Rate != audio.SampleRate || info.Channels != audio.Channels || info.Bits != audio.SampleBits {
		return errors.NewParamError("clip must be %d Hz mono %d bit, got %d Hz, %d channels, %d bit",
			audio.SampleRate, audio.SampleBits, info.Rate, info.Channels, info.Bits)
	}
	p.pcmPath = path
	p.pcmSize = info.DataSize
	p.speex = nil
	return nil
}

// setSpeex stores a clip read from a book file.
func (p *Page) setSpeex(s *audio.Stream, pcmPath string, pcmSize int64) {
	p.speex = s
	p.pcmPath = pcmPath
	p.pcmSize = pcmSize
}

// ClearAudio removes the voice clip.
func (p *Page) ClearAudio() {
	p.speex = nil
	p.pcmPath = ""
	p.pcmSize = 0
}

// Empty tells whether the page has no curves, photo or audio.
func (p *Page) Empty() bool {
	return len(p.curves) == 0 && p.photo == nil && !p.HasAudio()
}

// Dirty tells whether the page content changed since the last call to
// ClearDirty.
func (p *Page) Dirty() bool {
	return p.dirty
}

// ClearDirty resets the dirty flag.
func (p *Page) ClearDirty() {
	p.dirty = false
}

// Thumbnail returns the cached thumbnail or nil.
func (p *Page) Thumbnail() image.Image {
	return p.thumb
}

// SetThumbnail caches a thumbnail until the page changes.
func (p *Page) SetThumbnail(img image.Image) {
	p.thumb = img
}

// Modified marks the page as changed. It is called by all mutating methods
// and must be called after a curve owned by the page was edited in place.
func (p *Page) Modified() {
	p.touch()
}

func (p *Page) touch() {
	p.dirty = true
	p.thumb = nil
	if p.book != nil {
		p.book.pageModified(p)
	}
}

// Validate checks the curves and the photo of the page.
// Returns an error if invalid data is found, nil if everything is fine.
func (p *Page) Validate() error {
	for i, c := range p.curves {
		if c == nil {
			return errors.NewValidationError("%v: curve %d is nil", p, i)
		}
		err := c.Validate()
		if err != nil {
			return errors.Wrap(err, "%v: curve %d", p, i)
		}
	}
	if p.photo != nil {
		err := p.photo.Validate()
		if err != nil {
			return errors.NewValidationError("%v: invalid photo: %v", p, err)
		}
	}
	if p.pcmSize < 0 {
		return errors.NewValidationError("%v: negative PCM size", p)
	}
	return nil
}
