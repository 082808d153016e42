package types

// Client represents a registered client of the platform. Pesel is an opaque
// national identifier used as the uniqueness key for duplicate detection.
type Client struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Telephone string `json:"telephone"`
	Pesel     string `json:"pesel"`
}

// ClientName is the projection of a client used in trip listings.
type ClientName struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}
