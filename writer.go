package twtw

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/akeil/twtw/internal/deflate"
	"github.com/akeil/twtw/internal/errors"
	"github.com/akeil/twtw/internal/fixed"
	"github.com/akeil/twtw/internal/fs"
	"github.com/akeil/twtw/internal/logging"
	"github.com/akeil/twtw/internal/ogg"
	"github.com/akeil/twtw/pkg/audio"
	"github.com/akeil/twtw/pkg/curves"
	"github.com/akeil/twtw/pkg/photo"
	"github.com/akeil/twtw/pkg/schema"
)

// Writer writes books to Ogg containers.
type Writer struct {
	// Codec encodes recorded clips. Without a codec only clips that are
	// cached as Speex data are written.
	Codec audio.Codec
}

// WriteBook writes a book to the file at path.
func WriteBook(b *Book, path string) error {
	return (&Writer{}).WriteFile(b, path)
}

// WriteTo writes the book as an Ogg container to w.
// Clips that are not cached as Speex data are skipped.
func (b *Book) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	err := (&Writer{}).Write(b, cw)
	return cw.n, err
}

// WriteFile writes the book to path.
//
// The container is assembled in a temporary file next to path and moved
// into place when it is complete. An existing file is replaced only on
// success. Concurrent writers for the same path are rejected.
func (wr *Writer) WriteFile(b *Book, path string) error {
	if b == nil || path == "" {
		return errors.NewParamError("missing book or path")
	}

	lock := flock.New(path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return errors.NewFileError(err, "lock %q", path)
	}
	if !ok {
		return errors.NewFileError(nil, "%q is locked by another writer", path)
	}
	defer func() {
		lock.Unlock()
		os.Remove(lock.Path())
	}()

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return errors.NewFileError(err, "create temp file in %q", dir)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpPath)
		}
	}()

	bw := bufio.NewWriter(tmp)
	err = wr.Write(b, bw)
	if err == nil {
		err = bw.Flush()
		if err != nil {
			err = errors.NewFileError(err, "write %q", tmpPath)
		}
	}
	if err == nil {
		err = tmp.Sync()
		if err != nil {
			err = errors.NewFileError(err, "sync %q", tmpPath)
		}
	}
	cerr := tmp.Close()
	if err != nil {
		return err
	}
	if cerr != nil {
		return errors.NewFileError(cerr, "close %q", tmpPath)
	}

	err = fs.Move(tmpPath, path)
	if err != nil {
		return errors.NewFileError(err, "move %q to %q", tmpPath, path)
	}
	committed = true
	logging.Info("Wrote %v to %q", b, path)
	return nil
}

// Write assembles the container for b and writes it to w.
//
// Packets are written in this order: skeleton head, document head, picture
// heads, Speex heads, skeleton bones, document bone, end of the skeleton
// and document streams, picture data per page, Speex data per page.
func (wr *Writer) Write(b *Book, w io.Writer) error {
	if b == nil {
		return errors.NewParamError("missing book")
	}
	err := b.Validate()
	if err != nil {
		return err
	}

	// encode everything first so that errors surface before any output
	var blobs [NumPages][]byte
	var heads [NumPages]*schema.PicHead
	for i, p := range b.pages {
		blobs[i], heads[i], err = encodePage(p)
		if err != nil {
			return errors.Wrap(err, "encode %v", p)
		}
	}
	clips := wr.clips(b)

	ow := ogg.NewWriter(w)
	ow.Reserve(b.Serial)
	docSerial := b.Serial
	skelSerial := ow.NewSerial()

	bone := schema.NewDocBone()
	bone.Flags = b.Flags
	bone.DocumentID = b.DocumentID
	if b.Author != "" {
		bone.Set(schema.KeyAuthor, b.Author)
	}
	if b.Title != "" {
		bone.Set(schema.KeyTitle, b.Title)
	}
	for i := 0; i < NumPages; i++ {
		bone.PicSerials[i] = ow.NewSerial()
		bone.SpeexSerials[i] = ow.NewSerial()
		if clips[i] == nil {
			bone.SpeexSerials[i] = schema.NoStream
		}
	}

	put := func(serial uint32, m marshaler, bos bool) error {
		data, err := m.MarshalBinary()
		if err != nil {
			return err
		}
		return ow.WritePacket(serial, ogg.Packet{Data: data, BOS: bos}, ogg.FlushAfter)
	}
	end := func(serial uint32) error {
		return ow.WritePacket(serial, ogg.Packet{Data: []byte{}, EOS: true}, ogg.FlushAfter)
	}

	logging.Debug("Write heads for %v (document stream %#x)", b, docSerial)
	err = put(skelSerial, schema.NewFishead(), true)
	if err != nil {
		return err
	}
	err = put(docSerial, schema.NewDocHead(), true)
	if err != nil {
		return err
	}
	for i := 0; i < NumPages; i++ {
		err = put(bone.PicSerials[i], heads[i], true)
		if err != nil {
			return err
		}
	}
	for i, c := range clips {
		if c == nil {
			continue
		}
		err = put(bone.SpeexSerials[i], c.Header, true)
		if err != nil {
			return err
		}
	}

	err = put(skelSerial, schema.NewFisbone(docSerial, 2, schema.DocumentContentType), false)
	if err != nil {
		return err
	}
	for i := 0; i < NumPages; i++ {
		err = put(skelSerial, schema.NewFisbone(bone.PicSerials[i], 1, schema.PictureContentType), false)
		if err != nil {
			return err
		}
	}

	err = put(docSerial, bone, false)
	if err != nil {
		return err
	}
	err = end(skelSerial)
	if err != nil {
		return err
	}
	err = end(docSerial)
	if err != nil {
		return err
	}

	logging.Debug("Write picture data for %v", b)
	for i := 0; i < NumPages; i++ {
		serial := bone.PicSerials[i]
		if len(blobs[i]) > 0 {
			err = ow.WritePacket(serial, ogg.Packet{Data: blobs[i]}, ogg.FlushAfter)
			if err != nil {
				return err
			}
		}
		err = end(serial)
		if err != nil {
			return err
		}
	}

	for i, c := range clips {
		if c == nil {
			continue
		}
		logging.Debug("Write %d speex packets for page %d", len(c.Packets), i+1)
		serial := bone.SpeexSerials[i]
		for j, p := range c.Packets {
			pkt := ogg.Packet{Data: p.Data, Granule: p.Granule, EOS: j == len(c.Packets)-1}
			err = ow.WritePacket(serial, pkt, ogg.FlushAfter)
			if err != nil {
				return err
			}
		}
	}

	return ow.Close()
}

type marshaler interface {
	MarshalBinary() ([]byte, error)
}

// clips collects the Speex stream for every page with audio.
// Cached Speex data is used as is; recorded PCM is encoded with the codec.
func (wr *Writer) clips(b *Book) [NumPages]*audio.Stream {
	var clips [NumPages]*audio.Stream
	for i, p := range b.pages {
		if p.SoundDuration() <= 0 {
			continue
		}
		if !p.speex.Empty() {
			clips[i] = p.speex
			continue
		}
		if p.pcmPath == "" {
			logging.Warning("%v has audio but no PCM file, clip skipped", p)
			continue
		}
		if wr.Codec == nil {
			logging.Warning("%v: no audio codec, clip skipped", p)
			continue
		}
		s, err := audio.Encode(wr.Codec, p.pcmPath)
		if err != nil {
			logging.Warning("%v: clip skipped: %v", p, err)
			continue
		}
		if s.Empty() {
			continue
		}
		clips[i] = s
	}
	return clips
}

// encodePage builds the picture head and the picture data packet of a page.
// The data packet holds the photo record, if any, then one record per curve.
func encodePage(p *Page) ([]byte, *schema.PicHead, error) {
	head := &schema.PicHead{
		SoundDuration: uint32(p.SoundDuration()),
		NumCurves:     uint32(len(p.curves)),
		NumPoints:     schema.UnknownPoints,
	}

	var records []schema.Record
	if p.photo != nil {
		c, err := photo.Encode(p.photo)
		if err != nil {
			return nil, nil, err
		}
		records = append(records, schema.NewPhotoRecord(c))
		head.NumPhotos = 1
	}

	for i, c := range p.curves {
		data, err := curves.Encode(c, fixed.One, curves.DefaultAllowedError)
		if err != nil {
			return nil, nil, errors.Wrap(err, "curve %d", i)
		}
		deflated, err := deflate.Deflate(data)
		if err != nil {
			return nil, nil, errors.Wrap(err, "curve %d", i)
		}
		records = append(records, &schema.CurveRecord{
			OriginalSize: uint32(len(data)),
			Data:         deflated,
		})
	}

	return schema.MarshalRecords(records...), head, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
