package twtw

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/akeil/twtw/internal/errors"
	"github.com/akeil/twtw/internal/logging"
	"github.com/akeil/twtw/internal/ogg"
	"github.com/akeil/twtw/pkg/schema"
)

// A Book is a fixed set of twenty pages with some metadata.
//
// The serial number identifies the document stream when the book is
// written. It also names the directory for the temporary files of the
// book, so it is regenerated whenever a book is created or opened.
type Book struct {
	Serial     uint32
	Author     string
	Title      string
	Flags      uint32
	DocumentID uuid.UUID

	pages    [NumPages]*Page
	tempRoot string
	onChange func(*Page)
}

// NewBook creates a book with empty pages and a new document id.
func NewBook() *Book {
	b := newBook()
	b.DocumentID = uuid.New()
	return b
}

func newBook() *Book {
	b := &Book{
		Serial:   ogg.RandomSerial(),
		tempRoot: os.TempDir(),
	}
	for i := range b.pages {
		b.pages[i] = newPage(b, i)
	}
	return b
}

func (b *Book) String() string {
	if b.Title != "" {
		return fmt.Sprintf("book %q", b.Title)
	}
	return fmt.Sprintf("book %08x", b.Serial)
}

// Page returns the page at index i or nil if i is out of range.
func (b *Book) Page(i int) *Page {
	if i < 0 || i >= NumPages {
		return nil
	}
	return b.pages[i]
}

// Pages returns all pages in order.
func (b *Book) Pages() []*Page {
	p := make([]*Page, NumPages)
	copy(p, b.pages[:])
	return p
}

// Empty tells whether no page has any content.
func (b *Book) Empty() bool {
	for _, p := range b.pages {
		if !p.Empty() {
			return false
		}
	}
	return true
}

// SetTempRoot sets the directory below which the temporary directory of
// the book is created.
func (b *Book) SetTempRoot(dir string) {
	b.tempRoot = dir
}

// TempDir is the directory for temporary files of this book,
// derived from its serial number.
func (b *Book) TempDir() string {
	return filepath.Join(b.tempRoot, fmt.Sprintf("twtw-%08x", b.Serial))
}

// PCMPathFor returns the path of the temporary PCM file for page i.
func (b *Book) PCMPathFor(i int) string {
	return filepath.Join(b.TempDir(), fmt.Sprintf("page-%02d.wav", i+1))
}

// RegenerateSerial removes the temporary directory of the book and picks
// a new serial number. Clips stored in the old directory are kept only if
// they are cached as Speex data.
func (b *Book) RegenerateSerial() {
	oldDir := b.TempDir()
	b.Cleanup()
	old := b.Serial
	for b.Serial == old || b.Serial == schema.NoStream {
		b.Serial = ogg.RandomSerial()
	}
	for _, p := range b.pages {
		if p.pcmPath == "" || filepath.Dir(p.pcmPath) != oldDir {
			continue
		}
		if p.speex == nil {
			p.ClearAudio()
		} else {
			p.pcmPath = ""
		}
	}
}

// Cleanup removes the temporary directory of the book.
func (b *Book) Cleanup() {
	dir := b.TempDir()
	err := os.RemoveAll(dir)
	if err != nil {
		logging.Warning("Failed to remove temp dir %q: %v", dir, err)
	}
}

func (b *Book) pageModified(p *Page) {
	if b.onChange != nil {
		b.onChange(p)
	}
}

// Validate checks the book and all of its pages.
// Returns an error if invalid data is found, nil if everything is fine.
func (b *Book) Validate() error {
	if b.Serial == schema.NoStream {
		return errors.NewValidationError("invalid serial number %#x", b.Serial)
	}
	for i, p := range b.pages {
		if p == nil {
			return errors.NewValidationError("page %d is missing", i+1)
		}
		err := p.Validate()
		if err != nil {
			return err
		}
	}
	return nil
}
