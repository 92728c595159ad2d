package domain

import "time"

type Airport struct {
	ID        int64
	Name      string
	Code      string
	Latitude  float64
	Longitude float64
	TimeZone  string
}

// Location resolves the airport's IANA time zone. Unknown zones fall back to UTC.
func (a Airport) Location() *time.Location {
	loc, err := time.LoadLocation(a.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}
