package models

// Coordinate maps an administrative region to its forecast grid point.
type Coordinate struct {
	ID       int64  `json:"id"`
	Nx       int    `json:"nx"`
	Ny       int    `json:"ny"`
	Province string `json:"province,omitempty"`
	City     string `json:"city,omitempty"`
	Town     string `json:"town,omitempty"`
}

// CoordinateList is the response shape for region-filtered lookups.
type CoordinateList struct {
	TotalCount  int          `json:"total_count"`
	Coordinates []Coordinate `json:"coordinates"`
}
