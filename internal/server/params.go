package server

import (
	"net/url"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/agenthands/neoscope/internal/core/filter"
	"github.com/agenthands/neoscope/internal/core/model"
)

// ApproachQuery is a parsed /approaches request.
type ApproachQuery struct {
	Criteria filter.Criteria
	Limit    int
}

// ParseApproachQuery reads filter bounds from query parameters. Absent
// parameters stay inactive; the limit and unknown-diameter policy fall back to
// the supplied defaults.
func ParseApproachQuery(values url.Values, defaultLimit int, includeUnknown bool) (ApproachQuery, error) {
	q := ApproachQuery{Limit: defaultLimit}
	c := &q.Criteria
	c.IncludeUnknownDiameter = includeUnknown

	dates := []struct {
		key string
		dst **time.Time
	}{
		{"date", &c.Date},
		{"start_date", &c.StartDate},
		{"end_date", &c.EndDate},
	}
	for _, d := range dates {
		v := values.Get(d.key)
		if v == "" {
			continue
		}
		t, err := model.ParseDate(v)
		if err != nil {
			return q, errors.Wrapf(filter.ErrInvalidCriteria, "%s must be YYYY-MM-DD, got %q", d.key, v)
		}
		*d.dst = &t
	}

	bounds := []struct {
		key string
		dst **float64
	}{
		{"min_distance", &c.MinDistance},
		{"max_distance", &c.MaxDistance},
		{"min_velocity", &c.MinVelocity},
		{"max_velocity", &c.MaxVelocity},
		{"min_diameter", &c.MinDiameter},
		{"max_diameter", &c.MaxDiameter},
	}
	for _, b := range bounds {
		v := values.Get(b.key)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return q, errors.Wrapf(filter.ErrInvalidCriteria, "%s must be a number, got %q", b.key, v)
		}
		*b.dst = &f
	}

	if v := values.Get("hazardous"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return q, errors.Wrapf(filter.ErrInvalidCriteria, "hazardous must be true or false, got %q", v)
		}
		c.Hazardous = &b
	}

	if v := values.Get("include_unknown_diameter"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return q, errors.Wrapf(filter.ErrInvalidCriteria, "include_unknown_diameter must be true or false, got %q", v)
		}
		c.IncludeUnknownDiameter = b
	}

	if v := values.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return q, errors.Wrapf(filter.ErrInvalidCriteria, "limit must be a non-negative integer, got %q", v)
		}
		q.Limit = n
	}

	return q, c.Validate()
}
