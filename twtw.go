// Package twtw reads and writes 20:20 books.
//
// A Book has twenty pages. Each page holds ink strokes, an optional
// background photo and an optional voice clip. Books are stored as Ogg
// containers (file extension ".oggtw") with one logical stream for the
// document, one picture stream per page and one Speex stream per page
// that has audio.
package twtw

import (
	"github.com/akeil/twtw/internal/logging"
	"github.com/akeil/twtw/pkg/schema"
)

// NumPages is the fixed number of pages in a book.
const NumPages = schema.NumPages

// FileExtension is the extension used for book files.
const FileExtension = ".oggtw"

// SetLogLevel sets the log level by name ("debug", "info", "warning",
// "error"). Unknown names turn logging off.
func SetLogLevel(level string) {
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		lvl = logging.LevelNone
	}
	logging.SetLevel(lvl)
}
