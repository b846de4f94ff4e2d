package curves

import (
	"fmt"

	"github.com/akeil/twtw/internal/errors"
)

// Validate checks a curve list and all segments for valid data.
// Returns an error if invalid data is found, nil if everything is fine.
func (c *CurveList) Validate() error {
	if int(c.Color) >= NumColors {
		return errors.NewValidationError("invalid color index: %v", c.Color)
	}

	if len(c.segments) >= MaxSegments {
		return errors.NewValidationError("too many segments: %v", len(c.segments))
	}

	for i, s := range c.segments {
		err := s.Validate()
		if err != nil {
			return errors.Wrap(err, "segment %d", i)
		}

		if i > 0 && s.Start != c.segments[i-1].End {
			return errors.NewValidationError("segment %d starts at %v, previous ends at %v", i, s.Start, c.segments[i-1].End)
		}
	}

	return nil
}

// Validate checks a single segment.
func (s Segment) Validate() error {
	if !s.Type.Valid() {
		return fmt.Errorf("invalid segment type: %v", s.Type)
	}

	if s.StartWeight < 0 {
		return fmt.Errorf("invalid start weight: %v", s.StartWeight.Float())
	}

	if s.EndWeight < 0 {
		return fmt.Errorf("invalid end weight: %v", s.EndWeight.Float())
	}

	return nil
}
