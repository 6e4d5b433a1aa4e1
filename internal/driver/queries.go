package driver

const (
	SaveNEOQuery = `
		MERGE (n:NEO {designation: $designation})
		SET n.name = $name,
			n.diameter_km = $diameter_km,
			n.potentially_hazardous = $potentially_hazardous
		RETURN n.designation AS designation
	`

	// SaveApproachesQuery writes a batch of approaches for one NEO. Each row
	// carries the approach key (designation + time) so re-exports are idempotent.
	SaveApproachesQuery = `
		MATCH (n:NEO {designation: $designation})
		UNWIND $approaches AS a
		MERGE (c:CloseApproach {designation: $designation, datetime_utc: a.datetime_utc})
		SET c.distance_au = a.distance_au,
			c.velocity_km_s = a.velocity_km_s
		MERGE (n)-[:APPROACHED]->(c)
		RETURN count(c) AS saved
	`

	CountApproachesQuery = `
		MATCH (:NEO {designation: $designation})-[:APPROACHED]->(c:CloseApproach)
		RETURN count(c) AS total
	`
)
