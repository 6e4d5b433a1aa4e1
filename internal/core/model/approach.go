package model

import (
	"fmt"
	"time"
)

// CADTimeLayout is the calendar-date format used by the close-approach data API.
const CADTimeLayout = "2006-Jan-02 15:04"

// OutputTimeLayout is how approach times are rendered in results.
const OutputTimeLayout = "2006-01-02 15:04"

// CloseApproach is one recorded pass of an NEO near Earth.
//
// Designation references the owning NEO. The neo pointer is nil until the
// approach has been linked.
type CloseApproach struct {
	Designation string    `json:"designation"`
	Time        time.Time `json:"time"`
	Distance    float64   `json:"distance_au"`
	Velocity    float64   `json:"velocity_km_s"`

	neo *NearEarthObject
}

// NewCloseApproach builds an unlinked close approach.
func NewCloseApproach(designation string, t time.Time, distance, velocity float64) CloseApproach {
	return CloseApproach{
		Designation: designation,
		Time:        t.UTC(),
		Distance:    distance,
		Velocity:    velocity,
	}
}

// ParseCADTime parses a CAD calendar date such as "2020-Jan-01 12:30".
// The result carries no zone information and is reported as UTC.
func ParseCADTime(s string) (time.Time, error) {
	return time.Parse(CADTimeLayout, s)
}

// NEO returns the linked NEO, or nil for an unlinked approach.
func (ca *CloseApproach) NEO() *NearEarthObject {
	return ca.neo
}

// Date truncates Time to its calendar date.
func (ca *CloseApproach) Date() time.Time {
	y, m, d := ca.Time.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TimeString formats Time with OutputTimeLayout.
func (ca *CloseApproach) TimeString() string {
	return ca.Time.Format(OutputTimeLayout)
}

func (ca *CloseApproach) String() string {
	who := ca.Designation
	if ca.neo != nil {
		who = ca.neo.FullName()
	}
	return fmt.Sprintf("On %s, '%s' approaches Earth at a distance of %.2f au and a velocity of %.2f km/s.",
		ca.TimeString(), who, ca.Distance, ca.Velocity)
}
