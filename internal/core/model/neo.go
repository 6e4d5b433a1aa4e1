package model

import (
	"fmt"
	"math"
)

// NearEarthObject is a single NEO as listed in the small-body database.
//
// Designation is the primary key. Diameter is in kilometers and is NaN when
// unknown. The approaches slice is owned by the linking database and is only
// ever written while linking.
type NearEarthObject struct {
	Designation string  `json:"designation"`
	Name        string  `json:"name"`
	Diameter    float64 `json:"diameter_km"`
	Hazardous   bool    `json:"potentially_hazardous"`

	approaches []*CloseApproach
}

// NewNearEarthObject builds an unlinked NEO. A pha flag of "Y" marks the
// object as potentially hazardous; anything else, including "", does not.
func NewNearEarthObject(designation, name string, diameter float64, pha string) NearEarthObject {
	return NearEarthObject{
		Designation: designation,
		Name:        name,
		Diameter:    diameter,
		Hazardous:   pha == "Y",
	}
}

// HasDiameter reports whether the diameter is known.
func (n *NearEarthObject) HasDiameter() bool {
	return !math.IsNaN(n.Diameter)
}

// HasName reports whether the NEO has a non-empty name.
func (n *NearEarthObject) HasName() bool {
	return n.Name != ""
}

// FullName is the designation followed by the name in parentheses, if any.
func (n *NearEarthObject) FullName() string {
	if !n.HasName() {
		return n.Designation
	}
	return fmt.Sprintf("%s (%s)", n.Designation, n.Name)
}

// Approaches returns the linked close approaches in linkage order.
// The returned slice is a copy.
func (n *NearEarthObject) Approaches() []*CloseApproach {
	out := make([]*CloseApproach, len(n.approaches))
	copy(out, n.approaches)
	return out
}

// LinkApproach appends ca to this NEO's approaches and points ca back at n.
// Only the linking pass in package core calls this.
func (n *NearEarthObject) LinkApproach(ca *CloseApproach) {
	n.approaches = append(n.approaches, ca)
	ca.neo = n
}

func (n *NearEarthObject) String() string {
	hazard := "is not"
	if n.Hazardous {
		hazard = "is"
	}
	diameter := "an unknown diameter"
	if n.HasDiameter() {
		diameter = fmt.Sprintf("a diameter of %.3f km", n.Diameter)
	}
	return fmt.Sprintf("NEO %s has %s and %s potentially hazardous.", n.FullName(), diameter, hazard)
}
