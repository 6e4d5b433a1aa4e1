// Package output renders close-approach query results.
package output

import (
	"github.com/agenthands/neoscope/internal/core/model"
)

// NEORecord is the serialized form of an NEO.
type NEORecord struct {
	Designation          string   `json:"designation"`
	Name                 string   `json:"name"`
	DiameterKM           *float64 `json:"diameter_km"`
	PotentiallyHazardous bool     `json:"potentially_hazardous"`
}

// ApproachRecord is the serialized form of a close approach and its NEO.
type ApproachRecord struct {
	DatetimeUTC string    `json:"datetime_utc"`
	DistanceAU  float64   `json:"distance_au"`
	VelocityKMS float64   `json:"velocity_km_s"`
	NEO         NEORecord `json:"neo"`
}

// NEODetail is an NEO together with its approaches, without repeating the NEO
// inside each approach.
type NEODetail struct {
	NEORecord
	Approaches []ApproachSummary `json:"approaches"`
}

type ApproachSummary struct {
	DatetimeUTC string  `json:"datetime_utc"`
	DistanceAU  float64 `json:"distance_au"`
	VelocityKMS float64 `json:"velocity_km_s"`
}

func NewNEORecord(neo *model.NearEarthObject) NEORecord {
	rec := NEORecord{
		Designation:          neo.Designation,
		Name:                 neo.Name,
		PotentiallyHazardous: neo.Hazardous,
	}
	if neo.HasDiameter() {
		d := neo.Diameter
		rec.DiameterKM = &d
	}
	return rec
}

// NewApproachRecord flattens ca and its NEO. An unlinked approach carries
// only its designation.
func NewApproachRecord(ca *model.CloseApproach) ApproachRecord {
	rec := ApproachRecord{
		DatetimeUTC: ca.TimeString(),
		DistanceAU:  ca.Distance,
		VelocityKMS: ca.Velocity,
		NEO:         NEORecord{Designation: ca.Designation},
	}
	if neo := ca.NEO(); neo != nil {
		rec.NEO = NewNEORecord(neo)
	}
	return rec
}

func NewNEODetail(neo *model.NearEarthObject) NEODetail {
	detail := NEODetail{
		NEORecord:  NewNEORecord(neo),
		Approaches: []ApproachSummary{},
	}
	for _, ca := range neo.Approaches() {
		detail.Approaches = append(detail.Approaches, ApproachSummary{
			DatetimeUTC: ca.TimeString(),
			DistanceAU:  ca.Distance,
			VelocityKMS: ca.Velocity,
		})
	}
	return detail
}
