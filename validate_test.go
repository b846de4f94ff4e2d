package twtw

import (
	"testing"

	"github.com/akeil/twtw/pkg/curves"
	"github.com/akeil/twtw/pkg/photo"
	"github.com/akeil/twtw/pkg/schema"
)

func TestValidateBook(t *testing.T) {
	b := NewBook()
	err := b.Validate()
	if err != nil {
		t.Log("newly created book should be valid")
		t.Error(err)
	}

	b.Serial = schema.NoStream
	err = b.Validate()
	if err == nil {
		t.Errorf("failed to detect invalid serial %#x", b.Serial)
	}
}

func TestValidatePage(t *testing.T) {
	b := NewBook()
	p := b.Page(0)
	err := p.Validate()
	if err != nil {
		t.Log("empty page should be valid")
		t.Error(err)
	}

	c := curves.New()
	c.Color = curves.NumColors
	p.AddCurve(c)
	err = p.Validate()
	if err == nil {
		t.Errorf("failed to detect invalid curve color %v", c.Color)
	}
	if !IsParamError(err) {
		t.Errorf("unexpected error kind %v", KindOf(err))
	}
	c.Color = 0
	err = p.Validate()
	if err != nil {
		t.Errorf("valid curve color %v was not accepted: %v", c.Color, err)
	}

	img := photo.New(4, 2)
	img.Pix = img.Pix[:4]
	err = p.SetPhoto(img)
	if err == nil {
		t.Errorf("failed to detect truncated photo")
	}
	if p.Photo() != nil {
		t.Errorf("invalid photo was stored")
	}

	p.pcmSize = -1
	err = p.Validate()
	if err == nil {
		t.Errorf("failed to detect negative PCM size")
	}
}
