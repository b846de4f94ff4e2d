// Package config loads the settings of the twtw command line tool from a
// TOML file.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/akeil/twtw/internal/errors"
)

const (
	defaultLogLevel       = "warning"
	defaultReadPolicy     = "tolerant"
	defaultThumbnailWidth = 160
	defaultRenderWidth    = 1280
	defaultWorkers        = 4
	defaultColor          = 15
)

// Config holds the settings for the command line tool.
type Config struct {
	LogLevel   string `toml:"log_level"`
	ReadPolicy string `toml:"read_policy"`
	// TempDir is the parent of the per-book directories for PCM files.
	TempDir   string `toml:"temp_dir"`
	OutputDir string `toml:"output_dir"`

	ThumbnailWidth int `toml:"thumbnail_width"`
	RenderWidth    int `toml:"render_width"`
	// DefaultColor is the palette index for imported strokes.
	DefaultColor int `toml:"default_color"`
	// Workers limits the number of books processed in parallel.
	Workers int `toml:"workers"`
}

// Default returns a Config populated with the defaults.
func Default() Config {
	return Config{
		LogLevel:       defaultLogLevel,
		ReadPolicy:     defaultReadPolicy,
		TempDir:        os.TempDir(),
		OutputDir:      ".",
		ThumbnailWidth: defaultThumbnailWidth,
		RenderWidth:    defaultRenderWidth,
		DefaultColor:   defaultColor,
		Workers:        defaultWorkers,
	}
}

// DefaultConfigPath returns the location of the user's config file.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.NewFileError(err, "resolve config directory")
	}
	return filepath.Join(dir, "twtw", "config.toml"), nil
}

// Load reads the config file at path on top of the defaults. An empty path
// means the default location. A missing file is not an error; the returned
// flag tells whether a file was read.
func Load(path string) (*Config, bool, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultConfigPath()
		if err != nil {
			return nil, false, err
		}
		path = p
	}

	exists := false
	file, err := os.Open(path)
	switch {
	case err == nil:
		defer file.Close()
		exists = true
		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		err = decoder.Decode(&cfg)
		if err != nil {
			return nil, false, errors.AsInvalidFormat(err, "parse config %q", path)
		}
	case os.IsNotExist(err) && !explicit:
		// defaults only
	default:
		return nil, false, errors.NewFileError(err, "open config %q", path)
	}

	err = cfg.normalize()
	if err != nil {
		return nil, false, err
	}
	err = cfg.Validate()
	if err != nil {
		return nil, false, err
	}
	return &cfg, exists, nil
}

// Save writes the config as TOML to path.
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return errors.NewUnknown(err, "encode config")
	}
	err = os.MkdirAll(filepath.Dir(path), 0755)
	if err != nil {
		return errors.NewFileError(err, "create config directory")
	}
	err = os.WriteFile(path, data, 0644)
	if err != nil {
		return errors.NewFileError(err, "write config %q", path)
	}
	return nil
}

func (c *Config) normalize() error {
	var err error
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.ReadPolicy = strings.ToLower(strings.TrimSpace(c.ReadPolicy))
	if c.TempDir == "" {
		c.TempDir = os.TempDir()
	}
	c.TempDir, err = expandPath(c.TempDir)
	if err != nil {
		return err
	}
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	c.OutputDir, err = expandPath(c.OutputDir)
	return err
}

func expandPath(p string) (string, error) {
	if strings.HasPrefix(p, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.NewFileError(err, "resolve home directory")
		}
		if p == "~" {
			p = home
		} else if len(p) > 1 && (p[1] == '/' || p[1] == '\\') {
			p = filepath.Join(home, p[2:])
		}
	}
	abs, err := filepath.Abs(filepath.Clean(p))
	if err != nil {
		return "", errors.NewFileError(err, "resolve path %q", p)
	}
	return abs, nil
}
