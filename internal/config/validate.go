package config

import (
	"github.com/akeil/twtw"
	"github.com/akeil/twtw/internal/errors"
	"github.com/akeil/twtw/internal/logging"
	"github.com/akeil/twtw/pkg/curves"
)

// Validate ensures the configuration is usable.
// Returns an error if invalid data is found, nil if everything is fine.
func (c *Config) Validate() error {
	_, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return errors.NewValidationError("log_level: %v", err)
	}
	_, err = twtw.ParseReadPolicy(c.ReadPolicy)
	if err != nil {
		return errors.Wrap(err, "read_policy")
	}
	if c.ThumbnailWidth < 16 || c.ThumbnailWidth > curves.CanvasWidth {
		return errors.NewValidationError("thumbnail_width must be between 16 and %d", curves.CanvasWidth)
	}
	if c.RenderWidth < 16 || c.RenderWidth > 8*curves.CanvasWidth {
		return errors.NewValidationError("render_width must be between 16 and %d", 8*curves.CanvasWidth)
	}
	if c.DefaultColor < 0 || c.DefaultColor >= curves.NumColors {
		return errors.NewValidationError("default_color must be a palette index below %d", curves.NumColors)
	}
	if c.Workers < 1 {
		return errors.NewValidationError("workers must be positive")
	}
	return nil
}

// Policy returns the configured read policy.
func (c *Config) Policy() twtw.ReadPolicy {
	p, err := twtw.ParseReadPolicy(c.ReadPolicy)
	if err != nil {
		return twtw.Tolerant
	}
	return p
}
