// Package filter defines the predicates a close-approach query is built from.
//
// A Set is an ordered conjunction of Filters. Each Filter closes over one
// user-supplied bound and inspects a single close approach, possibly through
// its linked NEO.
package filter

import (
	"fmt"
	"time"

	"github.com/agenthands/neoscope/internal/core/model"
)

type Filter interface {
	Name() string
	Match(ca *model.CloseApproach) bool
}

// Func adapts a plain predicate to the Filter interface.
type Func struct {
	Label string
	Fn    func(ca *model.CloseApproach) bool
}

func (f Func) Name() string                       { return f.Label }
func (f Func) Match(ca *model.CloseApproach) bool { return f.Fn(ca) }

// Set is a conjunction of filters evaluated in order.
type Set []Filter

// Match reports whether every filter accepts ca, stopping at the first rejection.
// An empty Set matches everything.
func (s Set) Match(ca *model.CloseApproach) bool {
	for _, f := range s {
		if !f.Match(ca) {
			return false
		}
	}
	return true
}

// Names lists the filter names in evaluation order.
func (s Set) Names() []string {
	names := make([]string, len(s))
	for i, f := range s {
		names[i] = f.Name()
	}
	return names
}

type dateFilter struct {
	name string
	date time.Time
	ok   func(cmp int) bool
}

func (f dateFilter) Name() string { return f.name }

func (f dateFilter) Match(ca *model.CloseApproach) bool {
	return f.ok(model.CompareDate(ca.Time, f.date))
}

// Date matches approaches on exactly the given calendar date.
func Date(d time.Time) Filter {
	return dateFilter{name: "date", date: d, ok: func(c int) bool { return c == 0 }}
}

// StartDate matches approaches on or after the given calendar date.
func StartDate(d time.Time) Filter {
	return dateFilter{name: "start_date", date: d, ok: func(c int) bool { return c >= 0 }}
}

// EndDate matches approaches on or before the given calendar date.
func EndDate(d time.Time) Filter {
	return dateFilter{name: "end_date", date: d, ok: func(c int) bool { return c <= 0 }}
}

type boundFilter struct {
	name  string
	bound float64
	min   bool
	value func(ca *model.CloseApproach) float64
}

func (f boundFilter) Name() string { return f.name }

func (f boundFilter) Match(ca *model.CloseApproach) bool {
	v := f.value(ca)
	if f.min {
		return v >= f.bound
	}
	return v <= f.bound
}

func distance(ca *model.CloseApproach) float64 { return ca.Distance }
func velocity(ca *model.CloseApproach) float64 { return ca.Velocity }

func MinDistance(au float64) Filter {
	return boundFilter{name: "min_distance", bound: au, min: true, value: distance}
}

func MaxDistance(au float64) Filter {
	return boundFilter{name: "max_distance", bound: au, value: distance}
}

func MinVelocity(kms float64) Filter {
	return boundFilter{name: "min_velocity", bound: kms, min: true, value: velocity}
}

func MaxVelocity(kms float64) Filter {
	return boundFilter{name: "max_velocity", bound: kms, value: velocity}
}

// UnknownDiameter decides how a diameter bound treats an NEO with no diameter.
type UnknownDiameter int

const (
	// ExcludeUnknown rejects approaches whose NEO has no known diameter.
	ExcludeUnknown UnknownDiameter = iota
	// IncludeUnknown lets them through, since they cannot be shown to violate the bound.
	IncludeUnknown
)

type diameterFilter struct {
	name    string
	bound   float64
	min     bool
	unknown UnknownDiameter
}

func (f diameterFilter) Name() string { return f.name }

func (f diameterFilter) Match(ca *model.CloseApproach) bool {
	neo := ca.NEO()
	if neo == nil || !neo.HasDiameter() {
		return f.unknown == IncludeUnknown
	}
	if f.min {
		return neo.Diameter >= f.bound
	}
	return neo.Diameter <= f.bound
}

func MinDiameter(km float64, unknown UnknownDiameter) Filter {
	return diameterFilter{name: "min_diameter", bound: km, min: true, unknown: unknown}
}

func MaxDiameter(km float64, unknown UnknownDiameter) Filter {
	return diameterFilter{name: "max_diameter", bound: km, unknown: unknown}
}

type hazardFilter bool

func (f hazardFilter) Name() string { return fmt.Sprintf("hazardous=%t", bool(f)) }

func (f hazardFilter) Match(ca *model.CloseApproach) bool {
	neo := ca.NEO()
	return neo != nil && neo.Hazardous == bool(f)
}

// Hazardous matches approaches whose NEO's hazard flag equals want.
func Hazardous(want bool) Filter {
	return hazardFilter(want)
}
