package main

import (
	"fmt"
	"os"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/akeil/twtw"
	"github.com/akeil/twtw/internal/config"
)

const (
	checkmark = "✓"
	crossmark = "✗"
	ellipsis  = "…"
)

func main() {
	app := kingpin.New("twtw", "Tool for 20:20 books")
	app.HelpFlag.Short('h')

	var (
		configPath = app.Flag("config", "Path to the config file").Short('c').String()
		logLevel   = app.Flag("log-level", "Log level (debug, info, warning, error)").String()
		policy     = app.Flag("policy", "Read policy for damaged books (tolerant, strict)").String()
	)

	info := app.Command("info", "Show the contents of one or more books").Default()
	var (
		infoPaths = info.Arg("books", "Book files").Required().ExistingFiles()
	)

	export := app.Command("export", "Render books to PDF or PNG files")
	var (
		exportPaths = export.Arg("books", "Book files").Required().ExistingFiles()
		outDir      = export.Flag("output", "Output directory").Short('o').String()
		png         = export.Flag("png", "Write one PNG per page instead of a PDF").Bool()
		check       = export.Flag("check", "Validate the written PDF").Bool()
		skipEmpty   = export.Flag("skip-empty", "Leave out empty pages").Bool()
		noPhoto     = export.Flag("no-photo", "Leave out background photos").Bool()
		gray        = export.Flag("gray", "Render in grayscale").Bool()
	)

	thumbs := app.Command("thumbs", "Write page thumbnails")
	var (
		thumbPath   = thumbs.Arg("book", "Book file").Required().ExistingFile()
		thumbOutDir = thumbs.Flag("output", "Output directory").Short('o').String()
		thumbWidth  = thumbs.Flag("width", "Thumbnail width in pixels").Int()
	)

	create := app.Command("new", "Create an empty book")
	var (
		newPath   = create.Arg("book", "Path for the new book").Required().String()
		newTitle  = create.Flag("title", "Title of the book").Short('t').String()
		newAuthor = create.Flag("author", "Author of the book").Short('a').String()
		force     = create.Flag("force", "Replace an existing file").Short('f').Bool()
	)

	importPhoto := app.Command("import-photo", "Set the background photo of a page")
	var (
		photoBook  = importPhoto.Arg("book", "Book file").Required().ExistingFile()
		photoPage  = importPhoto.Arg("page", "Page number (1-20)").Required().Int()
		photoImage = importPhoto.Arg("image", "PNG or JPEG image").Required().ExistingFile()
	)

	clearCmd := app.Command("clear", "Remove the content of a page")
	var (
		clearBook = clearCmd.Arg("book", "Book file").Required().ExistingFile()
		clearPage = clearCmd.Arg("page", "Page number (1-20)").Required().Int()
	)

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	s, err := loadSettings(*configPath, *logLevel, *policy)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	switch command {
	case info.FullCommand():
		err = doInfo(s, *infoPaths)
	case export.FullCommand():
		opts := exportOptions{
			outDir:    *outDir,
			png:       *png,
			check:     *check,
			skipEmpty: *skipEmpty,
			noPhoto:   *noPhoto,
			gray:      *gray,
		}
		err = doExport(s, *exportPaths, opts)
	case thumbs.FullCommand():
		err = doThumbs(s, *thumbPath, *thumbOutDir, *thumbWidth)
	case create.FullCommand():
		err = doNew(*newPath, *newTitle, *newAuthor, *force)
	case importPhoto.FullCommand():
		err = doImportPhoto(s, *photoBook, *photoPage, *photoImage)
	case clearCmd.FullCommand():
		err = doClear(s, *clearBook, *clearPage)
	default:
		err = fmt.Errorf("unknown command: %q", command)
	}

	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	os.Exit(0)
}

// settings are the loaded config with command line overrides applied.
type settings struct {
	*config.Config
}

func loadSettings(path, logLevel, policy string) (settings, error) {
	cfg, _, err := config.Load(path)
	if err != nil {
		return settings{}, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if policy != "" {
		cfg.ReadPolicy = policy
	}
	err = cfg.Validate()
	if err != nil {
		return settings{}, err
	}
	twtw.SetLogLevel(cfg.LogLevel)
	return settings{cfg}, nil
}

func (s settings) reader() *twtw.Reader {
	return &twtw.Reader{
		Policy:   s.Policy(),
		TempRoot: s.TempDir,
	}
}

func (s settings) outDir(override string) string {
	if override != "" {
		return override
	}
	return s.OutputDir
}

// readBook reads a book and prints the problems found on the way.
func readBook(s settings, path string) (*twtw.Book, error) {
	b, report, err := s.reader().ReadFile(path)
	if err != nil {
		return nil, err
	}
	for _, issue := range report.Issues {
		fmt.Printf("%v %v: %v\n", crossmark, path, issue)
	}
	if report.Skipped > 0 {
		fmt.Printf("%v %v: %d damaged bytes skipped\n", crossmark, path, report.Skipped)
	}
	return b, nil
}

func pageIndex(n int) (int, error) {
	if n < 1 || n > twtw.NumPages {
		return 0, fmt.Errorf("page number must be between 1 and %d", twtw.NumPages)
	}
	return n - 1, nil
}
