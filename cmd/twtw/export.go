package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/akeil/twtw"
	"github.com/akeil/twtw/pkg/render"
)

type exportOptions struct {
	outDir    string
	png       bool
	check     bool
	skipEmpty bool
	noPhoto   bool
	gray      bool
}

func doExport(s settings, paths []string, opts exportOptions) error {
	outDir := s.outDir(opts.outDir)
	err := os.MkdirAll(outDir, 0755)
	if err != nil {
		return err
	}

	sem := semaphore.NewWeighted(int64(s.Workers))
	group, ctx := errgroup.WithContext(context.Background())
	for _, path := range paths {
		path := path
		err = sem.Acquire(ctx, 1)
		if err != nil {
			break
		}
		group.Go(func() error {
			defer sem.Release(1)
			return exportBook(s, path, outDir, opts)
		})
	}
	return group.Wait()
}

func exportBook(s settings, path, outDir string, opts exportOptions) error {
	fmt.Printf("%v read %q\n", ellipsis, path)
	b, err := readBook(s, path)
	if err != nil {
		fmt.Printf("%v Failed to read %q: %v\n", crossmark, path, err)
		return err
	}
	defer b.Cleanup()

	rc := render.NewContext(s.RenderWidth)
	rc.SkipEmpty = opts.skipEmpty
	rc.NoPhoto = opts.noPhoto
	rc.Gray = opts.gray

	name := baseName(path)
	if opts.png {
		err = exportPNG(rc, b, filepath.Join(outDir, name), opts.skipEmpty)
	} else {
		out := filepath.Join(outDir, name+".pdf")
		err = exportPDF(rc, b, out, opts.check)
		if err == nil {
			fmt.Printf("%v %q saved as %q.\n", checkmark, path, out)
		}
	}
	if err != nil {
		fmt.Printf("%v Failed to render %q: %v\n", crossmark, path, err)
	}
	return err
}

func exportPDF(rc *render.Context, b *twtw.Book, path string, check bool) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	err = rc.PDF(b, w)
	if err != nil {
		return err
	}
	err = w.Flush()
	if err != nil {
		return err
	}

	if check {
		_, err = f.Seek(0, 0)
		if err != nil {
			return err
		}
		n, err := render.CheckPDF(f)
		if err != nil {
			return err
		}
		fmt.Printf("%v %q is a valid PDF with %d pages\n", checkmark, path, n)
	}
	return nil
}

func exportPNG(rc *render.Context, b *twtw.Book, prefix string, skipEmpty bool) error {
	for _, p := range b.Pages() {
		if skipEmpty && p.Empty() {
			continue
		}
		path := fmt.Sprintf("%s-%02d.png", prefix, p.Index()+1)
		err := writePNG(path, func(f *os.File) error {
			return rc.Page(p, f)
		})
		if err != nil {
			return err
		}
	}
	fmt.Printf("%v pages saved as %q.\n", checkmark, prefix+"-NN.png")
	return nil
}

func writePNG(path string, fn func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = fn(f)
	cerr := f.Close()
	if err != nil {
		return err
	}
	return cerr
}

func baseName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
