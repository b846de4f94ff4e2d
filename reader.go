package twtw

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/akeil/twtw/internal/deflate"
	"github.com/akeil/twtw/internal/errors"
	"github.com/akeil/twtw/internal/fixed"
	"github.com/akeil/twtw/internal/logging"
	"github.com/akeil/twtw/internal/ogg"
	"github.com/akeil/twtw/pkg/audio"
	"github.com/akeil/twtw/pkg/curves"
	"github.com/akeil/twtw/pkg/photo"
	"github.com/akeil/twtw/pkg/schema"
)

// ReadPolicy decides what happens when the picture data of a page is
// corrupt.
type ReadPolicy int

const (
	// Tolerant drops the broken data, records it in the ReadReport and
	// continues with the other pages.
	Tolerant ReadPolicy = iota
	// Strict fails the whole read with an InvalidFormat error.
	Strict
)

func (p ReadPolicy) String() string {
	switch p {
	case Tolerant:
		return "tolerant"
	case Strict:
		return "strict"
	default:
		return fmt.Sprintf("ReadPolicy(%d)", int(p))
	}
}

// ParseReadPolicy converts "tolerant" or "strict" to a ReadPolicy.
func ParseReadPolicy(s string) (ReadPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "tolerant":
		return Tolerant, nil
	case "strict":
		return Strict, nil
	default:
		return Tolerant, errors.NewParamError("invalid read policy %q", s)
	}
}

// Issue is a problem found while reading a book that did not stop the read.
// Page is the zero-based page index or -1 for problems with whole streams.
type Issue struct {
	Page int
	Err  error
}

func (i Issue) String() string {
	if i.Page < 0 {
		return i.Err.Error()
	}
	return fmt.Sprintf("page %d: %v", i.Page+1, i.Err)
}

// ReadReport lists what was dropped while reading a book.
type ReadReport struct {
	Issues []Issue
	// Skipped is the number of bytes that were not part of a valid page.
	Skipped int64
}

// OK tells whether the book was read without problems.
func (r *ReadReport) OK() bool {
	return len(r.Issues) == 0 && r.Skipped == 0
}

// Pages returns the indexes of the pages with issues.
func (r *ReadReport) Pages() []int {
	var pages []int
	seen := make(map[int]bool)
	for _, i := range r.Issues {
		if i.Page >= 0 && !seen[i.Page] {
			seen[i.Page] = true
			pages = append(pages, i.Page)
		}
	}
	return pages
}

func (r *ReadReport) add(page int, err error) {
	r.Issues = append(r.Issues, Issue{Page: page, Err: err})
}

// Reader reads books from Ogg containers.
type Reader struct {
	Policy ReadPolicy
	// Codec decodes clips to PCM files in the temporary directory of the
	// book. Without a codec, clips are kept as Speex data only.
	Codec audio.Codec
	// TempRoot is the parent of the temporary directory of the book.
	// Empty means the system default.
	TempRoot string
}

// ReadBook reads the book file at path with the tolerant policy.
func ReadBook(path string) (*Book, error) {
	b, _, err := (&Reader{}).ReadFile(path)
	return b, err
}

// ReadFrom reads a book from r with the tolerant policy.
func ReadFrom(r io.Reader) (*Book, error) {
	b, _, err := (&Reader{}).Read(r)
	return b, err
}

// ReadFile reads the book file at path.
func (rd *Reader) ReadFile(path string) (*Book, *ReadReport, error) {
	if path == "" {
		return nil, nil, errors.NewParamError("missing path")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.NewFileError(err, "open %q", path)
	}
	defer f.Close()

	b, report, err := rd.Read(bufio.NewReader(f))
	if err != nil {
		return nil, report, errors.Wrap(err, "read %q", path)
	}
	logging.Info("Read %v from %q", b, path)
	return b, report, nil
}

// stream is what is known about a logical stream after its BOS packet.
type stream struct {
	serial uint32
	kind   schema.StreamKind
	pic    *schema.PicHead
	speex  *audio.Header
	// err is why the head of the stream could not be used
	err error
}

// bookReader holds the state of one read.
type bookReader struct {
	*Reader
	or      *ogg.Reader
	streams map[uint32]*stream

	docSerial uint32
	haveDoc   bool
	head      schema.DocHead
	bone      *schema.DocBone
	boneErr   error

	book   *Book
	clips  [NumPages]*audio.Stream
	report *ReadReport
	err    error
}

// Read reads a book from r.
//
// The container is read in passes. The first pass classifies all streams by
// their BOS packets, the second finds the document bone which maps pages to
// streams, the third drains the document stream. The last pass routes the
// picture and Speex data to the pages.
func (rd *Reader) Read(r io.Reader) (*Book, *ReadReport, error) {
	if r == nil {
		return nil, nil, errors.NewParamError("missing reader")
	}
	br := &bookReader{
		Reader:  rd,
		or:      ogg.NewReader(r),
		streams: make(map[uint32]*stream),
		report:  &ReadReport{},
	}
	b, err := br.read()
	br.report.Skipped = br.or.Skipped()
	if err != nil {
		return nil, br.report, err
	}
	return b, br.report, nil
}

func (br *bookReader) read() (*Book, error) {
	// pass 1: heads
	br.or.SetReadCallback(ogg.AllStreams, br.readHead)
	err := br.pass()
	if err != nil {
		return nil, err
	}
	if !br.haveDoc || br.head.Pages == 0 {
		return nil, errors.NewInvalidFormat("no document stream found (%d streams)", len(br.streams))
	}
	logging.Debug("Found %d streams, document stream %#x with %d pages", len(br.streams), br.docSerial, br.head.Pages)
	if br.head.Pages > NumPages {
		logging.Warning("Document declares %d pages, reading the first %d", br.head.Pages, NumPages)
	}

	// pass 2: bone, unless it ended the first pass
	if br.bone == nil && br.boneErr == nil {
		br.or.SetReadCallback(ogg.AllStreams, br.readBone)
		err = br.pass()
		if err != nil && br.boneErr == nil {
			return nil, err
		}
	}
	if br.boneErr != nil {
		return nil, br.boneErr
	}
	if br.bone == nil {
		return nil, errors.NewInvalidFormat("no document bone found for stream %#x", br.docSerial)
	}

	br.book = newBook()
	if br.TempRoot != "" {
		br.book.tempRoot = br.TempRoot
	}
	err = br.checkStreams()
	if err != nil {
		return nil, err
	}

	// pass 3: end of the document stream
	br.or.ClearCallbacks()
	br.or.SetReadCallback(ogg.AllStreams, br.readData)
	br.or.SetReadCallback(br.docSerial, func(serial uint32, p ogg.Packet) ogg.Result {
		if p.EOS {
			return ogg.StopOK
		}
		return ogg.Continue
	})
	err = br.pass()
	if err != nil {
		return nil, err
	}

	// pass 4: page data
	br.or.SetReadCallback(br.docSerial, nil)
	err = br.pass()
	if err != nil {
		return nil, err
	}

	br.finishClips()
	br.applyBone()
	return br.book, nil
}

// pass runs the reader until a callback stops it or the input ends.
func (br *bookReader) pass() error {
	err := br.or.Read()
	switch {
	case err == nil, err == io.EOF:
		return nil
	case err == ogg.ErrStopped:
		if br.err != nil {
			return br.err
		}
		return errors.NewInvalidFormat("read stopped")
	default:
		return err
	}
}

func (br *bookReader) readHead(serial uint32, p ogg.Packet) ogg.Result {
	if !p.BOS {
		if br.haveDoc {
			br.readBone(serial, p)
		}
		return ogg.StopOK
	}
	if _, ok := br.streams[serial]; ok {
		return ogg.Continue
	}

	s := &stream{serial: serial, kind: schema.Classify(p.Data)}
	br.streams[serial] = s

	switch s.kind {
	case schema.Document:
		if br.haveDoc {
			logging.Warning("Ignoring second document stream %#x", serial)
			s.kind = schema.Unknown
			break
		}
		err := br.head.UnmarshalBinary(p.Data)
		if err != nil {
			logging.Warning("Invalid document head on stream %#x: %v", serial, err)
			s.kind = schema.Unknown
			break
		}
		br.docSerial = serial
		br.haveDoc = true
	case schema.Picture:
		h := &schema.PicHead{}
		err := h.UnmarshalBinary(p.Data)
		if err != nil {
			s.err = errors.Wrap(err, "stream %#x", serial)
			s.kind = schema.Unknown
			break
		}
		s.pic = h
	case schema.Speex:
		h, err := audio.ParseHeader(p.Data)
		if err != nil {
			s.err = errors.Wrap(err, "stream %#x", serial)
			s.kind = schema.Unknown
			break
		}
		s.speex = h
	}
	logging.Debug("Stream %#x is %v", serial, s.kind)
	return ogg.Continue
}

func (br *bookReader) readBone(serial uint32, p ogg.Packet) ogg.Result {
	if serial != br.docSerial || len(p.Data) <= 8 {
		return ogg.Continue
	}
	bone := &schema.DocBone{}
	err := bone.UnmarshalBinary(p.Data)
	if err != nil {
		br.boneErr = err
		return ogg.StopErr
	}
	br.bone = bone
	return ogg.StopOK
}

// numPages is the number of pages declared by the document head, at most
// NumPages.
func (br *bookReader) numPages() int {
	pages := int(br.head.Pages)
	if pages > NumPages {
		pages = NumPages
	}
	return pages
}

// checkStreams verifies that every stream the bone assigns to a page
// started with a valid head. Under the strict policy the first bad stream
// fails the read, otherwise the page loses that stream.
func (br *bookReader) checkStreams() error {
	for i := 0; i < br.numPages(); i++ {
		var err error
		if br.bone.PicSerials[i] != schema.NoStream {
			err = br.checkStream(br.bone.PicSerials[i], i, func(s *stream) bool { return s.pic != nil })
		}
		if err == nil && br.bone.SpeexSerials[i] != schema.NoStream {
			err = br.checkStream(br.bone.SpeexSerials[i], i, func(s *stream) bool { return s.speex != nil })
		}
		if err == nil {
			continue
		}
		if br.Policy == Strict {
			return errors.Wrap(err, "page %d", i+1)
		}
		logging.Warning("Page %d: %v", i+1, err)
		br.report.add(i, err)
	}
	return nil
}

func (br *bookReader) checkStream(serial uint32, page int, valid func(*stream) bool) error {
	s := br.streams[serial]
	switch {
	case s == nil:
		return errors.NewInvalidFormat("stream %#x of page %d not found", serial, page+1)
	case s.err != nil:
		return s.err
	case !valid(s):
		return errors.NewInvalidFormat("stream %#x of page %d has no valid head", serial, page+1)
	}
	return nil
}

// readData routes a packet to the page that owns its stream.
// Packets without data, like the EOS packets, are skipped.
func (br *bookReader) readData(serial uint32, p ogg.Packet) ogg.Result {
	if len(p.Data) == 0 {
		return ogg.Continue
	}
	for i := 0; i < br.numPages(); i++ {
		switch serial {
		case br.bone.PicSerials[i]:
			s := br.streams[serial]
			if s == nil || s.pic == nil {
				logging.Debug("No picture head for stream %#x of page %d", serial, i+1)
				return ogg.Continue
			}
			err := br.readPicture(br.book.pages[i], s.pic, p.Data)
			if err == nil {
				return ogg.Continue
			}
			if br.Policy == Strict {
				br.err = errors.Wrap(err, "page %d", i+1)
				return ogg.StopErr
			}
			logging.Warning("Page %d: picture data dropped: %v", i+1, err)
			br.report.add(i, err)
			return ogg.Continue

		case br.bone.SpeexSerials[i]:
			s := br.streams[serial]
			if s == nil || s.speex == nil {
				logging.Debug("No speex head for stream %#x of page %d", serial, i+1)
				return ogg.Continue
			}
			if br.clips[i] == nil {
				br.clips[i] = audio.NewStream(s.speex)
			}
			br.clips[i].Append(p.Data, p.Granule)
			return ogg.Continue
		}
	}
	return ogg.Continue
}

// readPicture decodes a picture data packet into a page.
//
// The first photo is used, others are skipped. Curves are appended in
// order. A structural error drops the whole packet. Under the tolerant
// policy a curve or photo that fails to decode is skipped on its own.
func (br *bookReader) readPicture(page *Page, head *schema.PicHead, data []byte) error {
	recs, err := schema.ScanRecords(data)
	if err != nil {
		return err
	}

	var img *photo.YUVImage
	var cls []*curves.CurveList
	photos := 0
	for _, rec := range recs {
		var err error
		switch r := rec.(type) {
		case *schema.PhotoRecord:
			photos++
			if img != nil {
				continue
			}
			img, err = photo.Decode(r.Photo())
			if err != nil {
				err = errors.Wrap(err, "photo")
			}
		case *schema.CurveRecord:
			var cl *curves.CurveList
			cl, err = decodeCurve(r)
			if err != nil {
				err = errors.Wrap(err, "curve %d", len(cls))
			} else {
				cls = append(cls, cl)
			}
		}
		if err != nil {
			if br.Policy == Strict {
				return err
			}
			logging.Warning("Page %d: %v", page.index+1, err)
			br.report.add(page.index, err)
		}
	}

	if int(head.NumCurves) != len(cls) || int(head.NumPhotos) != photos {
		logging.Warning("Page %d: head declares %d curves and %d photos, found %d and %d",
			page.index+1, head.NumCurves, head.NumPhotos, len(cls), photos)
	}

	page.curves = append(page.curves, cls...)
	if img != nil && page.photo == nil {
		page.photo = img
	}
	return nil
}

func decodeCurve(r *schema.CurveRecord) (*curves.CurveList, error) {
	data, err := deflate.Inflate(r.Data, int(r.OriginalSize))
	if err != nil {
		return nil, err
	}
	return curves.Decode(data, fixed.One)
}

// finishClips attaches the collected Speex streams to their pages.
func (br *bookReader) finishClips() {
	for i, c := range br.clips {
		if c == nil {
			continue
		}
		page := br.book.pages[i]
		size := c.PCMSize()
		path := ""
		if br.Codec != nil {
			path = br.book.PCMPathFor(i)
			n, err := br.decodeClip(c, path)
			if err != nil {
				logging.Warning("Page %d: failed to decode clip: %v", i+1, err)
				br.report.add(i, errors.Wrap(err, "decode clip"))
				path = ""
			} else {
				size = n
			}
		}
		page.setSpeex(c, path, size)
		logging.Debug("Page %d: %d speex packets, %d seconds", i+1, len(c.Packets), page.SoundDuration())
	}
}

func (br *bookReader) decodeClip(c *audio.Stream, path string) (int64, error) {
	err := os.MkdirAll(br.book.TempDir(), 0755)
	if err != nil {
		return 0, errors.NewFileError(err, "create temp dir")
	}
	return br.Codec.Decode(c, path)
}

func (br *bookReader) applyBone() {
	b := br.book
	b.Flags = br.bone.Flags
	b.DocumentID = br.bone.DocumentID
	if v, ok := br.bone.Get(schema.KeyAuthor); ok {
		b.Author = v
	}
	if v, ok := br.bone.Get(schema.KeyTitle); ok {
		b.Title = v
	}
	for _, p := range b.pages {
		p.dirty = false
	}
}
