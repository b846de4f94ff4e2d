package main

import (
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"github.com/akeil/twtw"
	"github.com/akeil/twtw/internal/imaging"
	"github.com/akeil/twtw/pkg/photo"
	"github.com/akeil/twtw/pkg/render"
)

func doThumbs(s settings, path, outDir string, width int) error {
	if width <= 0 {
		width = s.ThumbnailWidth
	}
	outDir = s.outDir(outDir)
	err := os.MkdirAll(outDir, 0755)
	if err != nil {
		return err
	}

	b, err := readBook(s, path)
	if err != nil {
		return err
	}
	defer b.Cleanup()

	prefix := filepath.Join(outDir, baseName(path))
	for _, p := range b.Pages() {
		img := render.Thumbnail(p, width)
		out := fmt.Sprintf("%s-thumb-%02d.png", prefix, p.Index()+1)
		err = writePNG(out, func(f *os.File) error {
			return png.Encode(f, img)
		})
		if err != nil {
			return err
		}
	}
	fmt.Printf("%v %d thumbnails saved as %q.\n", checkmark, twtw.NumPages, prefix+"-thumb-NN.png")
	return nil
}

func doNew(path, title, author string, force bool) error {
	if !force {
		_, err := os.Stat(path)
		if err == nil {
			return fmt.Errorf("%q exists, use --force to replace it", path)
		}
	}

	b := twtw.NewBook()
	b.Title = title
	b.Author = author
	err := twtw.WriteBook(b, path)
	if err != nil {
		return err
	}
	fmt.Printf("%v created %v at %q.\n", checkmark, b, path)
	return nil
}

func doImportPhoto(s settings, path string, page int, imagePath string) error {
	i, err := pageIndex(page)
	if err != nil {
		return err
	}
	src, err := readImage(imagePath)
	if err != nil {
		return err
	}

	b, err := readBook(s, path)
	if err != nil {
		return err
	}
	defer b.Cleanup()

	img := photo.FromImage(imaging.Fill(src, photo.DefaultWidth, photo.DefaultHeight))
	err = b.Page(i).SetPhoto(img)
	if err != nil {
		return err
	}
	err = twtw.WriteBook(b, path)
	if err != nil {
		return err
	}
	fmt.Printf("%v photo %q set on page %d of %q.\n", checkmark, imagePath, page, path)
	return nil
}

func doClear(s settings, path string, page int) error {
	i, err := pageIndex(page)
	if err != nil {
		return err
	}
	b, err := readBook(s, path)
	if err != nil {
		return err
	}
	defer b.Cleanup()

	p := b.Page(i)
	p.ClearCurves()
	p.ClearPhoto()
	p.ClearAudio()
	err = twtw.WriteBook(b, path)
	if err != nil {
		return err
	}
	fmt.Printf("%v page %d of %q cleared.\n", checkmark, page, path)
	return nil
}

func readImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %q: %v", path, err)
	}
	return img, nil
}
