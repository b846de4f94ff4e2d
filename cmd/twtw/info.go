package main

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/akeil/twtw"
)

func doInfo(s settings, paths []string) error {
	for i, path := range paths {
		if i > 0 {
			fmt.Println()
		}
		b, err := readBook(s, path)
		if err != nil {
			fmt.Printf("%v %v: %v\n", crossmark, path, err)
			return err
		}
		fmt.Println(bookInfo(path, b))
		b.Cleanup()
	}
	return nil
}

func bookInfo(path string, b *twtw.Book) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle(bookTitle(path, b))
	tw.AppendHeader(table.Row{"Page", "Curves", "Segments", "Photo", "Audio"})

	var curves, segments, photos, seconds int
	for _, p := range b.Pages() {
		n := 0
		for _, c := range p.Curves() {
			n += c.Len()
		}
		photo := ""
		if img := p.Photo(); img != nil {
			photo = fmt.Sprintf("%dx%d", img.Width, img.Height)
			photos++
		}
		curves += p.NumCurves()
		segments += n
		seconds += p.SoundDuration()
		tw.AppendRow(table.Row{p.Index() + 1, p.NumCurves(), n, photo, duration(p.SoundDuration())})
	}
	tw.AppendFooter(table.Row{"", curves, segments, strconv.Itoa(photos), duration(seconds)})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 2, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 3, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 4, Align: text.AlignLeft, AlignFooter: text.AlignLeft},
		{Number: 5, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	return tw.Render()
}

func bookTitle(path string, b *twtw.Book) string {
	title := b.Title
	if title == "" {
		title = path
	}
	if b.Author != "" {
		title += " by " + b.Author
	}
	return fmt.Sprintf("%s (%v)", title, b.DocumentID)
}

func duration(seconds int) string {
	if seconds == 0 {
		return ""
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
