package twtw

import (
	"fmt"

	"github.com/akeil/twtw/internal/errors"
	"github.com/akeil/twtw/internal/logging"
)

// Event identifies what changed in a Session.
type Event int

const (
	// BookChanged is sent when a book is created, opened or closed.
	BookChanged Event = iota
	// PageChanged is sent when another page becomes the current page.
	PageChanged
	// PageModified is sent when the content of a page changes.
	PageModified
)

func (e Event) String() string {
	switch e {
	case BookChanged:
		return "book-changed"
	case PageChanged:
		return "page-changed"
	case PageModified:
		return "page-modified"
	default:
		return fmt.Sprintf("Event(%d)", int(e))
	}
}

// Observer is notified about session events. For PageModified, page is the
// modified page; otherwise it is the current page, which may be nil.
type Observer func(ev Event, page *Page)

// A Session holds the book that is being edited and the current page.
type Session struct {
	Reader Reader
	Writer Writer

	book      *Book
	path      string
	current   int
	observers []observer
	nextID    int
}

type observer struct {
	id int
	fn Observer
}

// NewSession creates a session with an empty book.
func NewSession() *Session {
	s := &Session{}
	s.attach(NewBook(), "")
	return s
}

// Subscribe adds an observer. Observers are notified in the order they
// subscribed. The returned function removes the observer.
func (s *Session) Subscribe(o Observer) func() {
	id := s.nextID
	s.nextID++
	s.observers = append(s.observers, observer{id, o})
	return func() {
		for i, ob := range s.observers {
			if ob.id == id {
				s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

func (s *Session) notify(ev Event, p *Page) {
	for _, o := range s.observers {
		o.fn(ev, p)
	}
}

// Book returns the active book.
func (s *Session) Book() *Book {
	return s.book
}

// Path is the file the active book was opened from or saved to.
// Empty for a new book.
func (s *Session) Path() string {
	return s.path
}

// CurrentPage returns the page that is being edited.
func (s *Session) CurrentPage() *Page {
	if s.book == nil {
		return nil
	}
	return s.book.Page(s.current)
}

// SetCurrentPage selects the page at index i.
func (s *Session) SetCurrentPage(i int) error {
	if i < 0 || i >= NumPages {
		return errors.NewParamError("page index %d out of range", i)
	}
	if i == s.current {
		return nil
	}
	s.current = i
	s.notify(PageChanged, s.CurrentPage())
	return nil
}

// Dirty tells whether any page of the active book has unsaved changes.
func (s *Session) Dirty() bool {
	if s.book == nil {
		return false
	}
	for _, p := range s.book.pages {
		if p.Dirty() {
			return true
		}
	}
	return false
}

// NewBook replaces the active book with an empty one.
func (s *Session) NewBook() {
	s.attach(NewBook(), "")
}

// Open reads the book at path and makes it the active book.
// The active book is kept if reading fails.
func (s *Session) Open(path string) (*ReadReport, error) {
	b, report, err := s.Reader.ReadFile(path)
	if err != nil {
		return report, err
	}
	s.attach(b, path)
	return report, nil
}

// Save writes the active book to the path it was opened from.
func (s *Session) Save() error {
	if s.book == nil {
		return errors.NewParamError("no active book")
	}
	if s.path == "" {
		return errors.NewParamError("no path for %v", s.book)
	}
	return s.SaveAs(s.path)
}

// SaveAs writes the active book to path and remembers the path.
func (s *Session) SaveAs(path string) error {
	if s.book == nil {
		return errors.NewParamError("no active book")
	}
	err := s.Writer.WriteFile(s.book, path)
	if err != nil {
		return err
	}
	s.path = path
	for _, p := range s.book.pages {
		p.ClearDirty()
	}
	return nil
}

// Close discards the active book and removes its temporary files.
func (s *Session) Close() {
	if s.book == nil {
		return
	}
	s.detach()
	s.book = nil
	s.path = ""
	s.current = 0
	s.notify(BookChanged, nil)
}

func (s *Session) attach(b *Book, path string) {
	s.detach()
	if s.Reader.TempRoot != "" {
		b.SetTempRoot(s.Reader.TempRoot)
	}
	b.onChange = func(p *Page) {
		s.notify(PageModified, p)
	}
	s.book = b
	s.path = path
	s.current = 0
	logging.Debug("Session: active %v", b)
	s.notify(BookChanged, s.CurrentPage())
}

func (s *Session) detach() {
	if s.book == nil {
		return
	}
	s.book.onChange = nil
	s.book.Cleanup()
}
