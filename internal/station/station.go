// Package station defines the normalized station entity and the row
// normalizer that builds it from raw CSV records.
package station

// Record is the normalized station entity persisted to the store.
// StationID is the natural key; descriptive fields are nullable passthroughs
// modeled as pointers, nil meaning absent.
type Record struct {
	StationID     string
	Name          string
	ShortName     *string
	Latitude      float64
	Longitude     float64
	Capacity      int
	SystemID      *string
	Timezone      *string
	RentalMethods *string
}
