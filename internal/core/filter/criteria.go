package filter

import (
	"math"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/agenthands/neoscope/internal/core/model"
)

var ErrInvalidCriteria = errors.New("invalid query criteria")

// Criteria holds the optional bounds a caller may supply. A nil field is
// inactive. Build turns the active fields into a Set.
type Criteria struct {
	Date        *time.Time
	StartDate   *time.Time
	EndDate     *time.Time
	MinDistance *float64
	MaxDistance *float64
	MinVelocity *float64
	MaxVelocity *float64
	MinDiameter *float64
	MaxDiameter *float64
	Hazardous   *bool

	IncludeUnknownDiameter bool
}

// Build compiles the active criteria into a Set, in the fixed evaluation order
// date, start, end, distance, velocity, diameter, hazardous.
func (c Criteria) Build() Set {
	var set Set

	if c.Date != nil {
		set = append(set, Date(*c.Date))
	}
	if c.StartDate != nil {
		set = append(set, StartDate(*c.StartDate))
	}
	if c.EndDate != nil {
		set = append(set, EndDate(*c.EndDate))
	}
	if c.MinDistance != nil {
		set = append(set, MinDistance(*c.MinDistance))
	}
	if c.MaxDistance != nil {
		set = append(set, MaxDistance(*c.MaxDistance))
	}
	if c.MinVelocity != nil {
		set = append(set, MinVelocity(*c.MinVelocity))
	}
	if c.MaxVelocity != nil {
		set = append(set, MaxVelocity(*c.MaxVelocity))
	}

	unknown := ExcludeUnknown
	if c.IncludeUnknownDiameter {
		unknown = IncludeUnknown
	}
	if c.MinDiameter != nil {
		set = append(set, MinDiameter(*c.MinDiameter, unknown))
	}
	if c.MaxDiameter != nil {
		set = append(set, MaxDiameter(*c.MaxDiameter, unknown))
	}
	if c.Hazardous != nil {
		set = append(set, Hazardous(*c.Hazardous))
	}

	return set
}

// Empty reports whether no criterion is active.
func (c Criteria) Empty() bool {
	return len(c.Build()) == 0
}

// Validate rejects negative bounds and inverted ranges.
func (c Criteria) Validate() error {
	bounds := []struct {
		name string
		v    *float64
	}{
		{"min_distance", c.MinDistance},
		{"max_distance", c.MaxDistance},
		{"min_velocity", c.MinVelocity},
		{"max_velocity", c.MaxVelocity},
		{"min_diameter", c.MinDiameter},
		{"max_diameter", c.MaxDiameter},
	}
	for _, b := range bounds {
		if b.v != nil && (*b.v < 0 || math.IsNaN(*b.v)) {
			return errors.Wrapf(ErrInvalidCriteria, "%s must be a non-negative number, got %v", b.name, *b.v)
		}
	}

	ranges := []struct {
		name     string
		min, max *float64
	}{
		{"distance", c.MinDistance, c.MaxDistance},
		{"velocity", c.MinVelocity, c.MaxVelocity},
		{"diameter", c.MinDiameter, c.MaxDiameter},
	}
	for _, r := range ranges {
		if r.min != nil && r.max != nil && *r.min > *r.max {
			return errors.Wrapf(ErrInvalidCriteria, "min %s %v exceeds max %v", r.name, *r.min, *r.max)
		}
	}

	if c.StartDate != nil && c.EndDate != nil && model.CompareDate(*c.StartDate, *c.EndDate) > 0 {
		return errors.Wrapf(ErrInvalidCriteria, "start date %s is after end date %s",
			c.StartDate.Format(model.DateLayout), c.EndDate.Format(model.DateLayout))
	}
	return nil
}
