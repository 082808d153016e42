package types

import "time"

// Trip represents a bookable trip. Trips are immutable from this service's
// point of view; they are created and maintained out of band.
type Trip struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	DateFrom    time.Time `json:"dateFrom"`
	DateTo      time.Time `json:"dateTo"`
	MaxPeople   int       `json:"maxPeople"`
	Countries   []Country `json:"countries,omitempty"`
	Clients     []Client  `json:"clients,omitempty"`
}

// Country is associated many-to-many with trips and is read-only here.
type Country struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// TripSummary is the shaped projection of a trip returned by the catalog.
type TripSummary struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	DateFrom    time.Time    `json:"dateFrom"`
	DateTo      time.Time    `json:"dateTo"`
	MaxPeople   int          `json:"maxPeople"`
	Countries   []string     `json:"countries"`
	Clients     []ClientName `json:"clients"`
}

// TripsPage is one page of the trip catalog plus pagination metadata.
type TripsPage struct {
	PageNum  int           `json:"pageNum"`
	PageSize int           `json:"pageSize"`
	AllPages int           `json:"allPages"`
	Trips    []TripSummary `json:"trips"`
}
