package render

import (
	"bytes"
	"fmt"
	"image/png"
	"io"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"

	"github.com/akeil/twtw"
	"github.com/akeil/twtw/internal/errors"
	"github.com/akeil/twtw/internal/logging"
	"github.com/akeil/twtw/pkg/curves"
)

// PDF renders a book with the default context, see Context.PDF.
func PDF(b *twtw.Book, w io.Writer) error {
	c := DefaultContext()
	c.Width = 2 * curves.CanvasWidth
	return c.PDF(b, w)
}

// PDF renders all pages of a book to a PDF document, one PDF page per
// book page, and writes it to the given writer.
func (c *Context) PDF(b *twtw.Book, w io.Writer) error {
	if b == nil {
		return errors.NewParamError("missing book")
	}
	logging.Debug("Render PDF for %v", b)
	pdf := setupPDF(b)

	for _, p := range b.Pages() {
		if c.SkipEmpty && p.Empty() {
			continue
		}
		err := c.renderPDFPage(pdf, p)
		if err != nil {
			return err
		}
	}
	if pdf.PageCount() == 0 {
		pdf.AddPage()
	}

	err := pdf.Output(w)
	if err != nil {
		return errors.NewUnknown(err, "write PDF for %v", b)
	}
	return nil
}

func setupPDF(b *twtw.Book) *gofpdf.Fpdf {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: curves.CanvasWidth, Ht: curves.CanvasHeight},
	})

	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AliasNbPages("{totalPages}")
	pdf.SetFont("helvetica", "", 7)
	pdf.SetTextColor(127, 127, 127)
	pdf.SetProducer("twtw", true)
	pdf.SetCreator(fmt.Sprintf("twtw (%v)", b.DocumentID), true)
	if b.Title != "" {
		pdf.SetTitle(b.Title, true)
	}
	if b.Author != "" {
		pdf.SetAuthor(b.Author, true)
	}

	return pdf
}

func (c *Context) renderPDFPage(pdf *gofpdf.Fpdf, p *twtw.Page) error {
	var buf bytes.Buffer
	err := png.Encode(&buf, c.Image(p))
	if err != nil {
		return errors.NewUnknown(err, "render %v", p)
	}

	name := uuid.New().String()
	opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	pdf.RegisterImageOptionsReader(name, opts, &buf)

	pdf.AddPage()
	wPage, hPage := pdf.GetPageSize()
	pdf.ImageOptions(name, 0, 0, wPage, hPage, false, opts, 0, "")

	label := fmt.Sprintf("%d / %d", p.Index()+1, twtw.NumPages)
	if p.HasAudio() {
		label += fmt.Sprintf("  |  audio %d:%02d", p.SoundDuration()/60, p.SoundDuration()%60)
	}
	pdf.SetXY(8, hPage-14)
	pdf.Cell(0, 10, label)

	if pdf.Err() {
		return errors.NewUnknown(pdf.Error(), "render %v", p)
	}
	return nil
}

// CheckPDF validates a PDF document and returns its page count.
func CheckPDF(rs io.ReadSeeker) (int, error) {
	conf := pdfcpu.NewDefaultConfiguration()
	conf.ValidationMode = pdfcpu.ValidationRelaxed

	ctx, err := api.ReadContext(rs, conf)
	if err != nil {
		return 0, errors.AsInvalidFormat(err, "read PDF")
	}
	err = api.ValidateContext(ctx)
	if err != nil {
		return 0, errors.AsInvalidFormat(err, "validate PDF")
	}
	return ctx.PageCount, nil
}
