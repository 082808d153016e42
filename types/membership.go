package types

import "time"

// Membership links one client to one trip. Identity is the composite
// (ClientID, TripID). PaymentDate is nil until the client has paid.
type Membership struct {
	ClientID     int64      `json:"clientId"`
	TripID       int64      `json:"tripId"`
	RegisteredAt time.Time  `json:"registeredAt"`
	PaymentDate  *time.Time `json:"paymentDate,omitempty"`
}

// RegisterClientRequest is the payload for registering a new client onto a trip.
// PaymentDate is a free-form date string parsed against a fixed format list.
type RegisterClientRequest struct {
	FirstName   string `json:"firstName" binding:"required"`
	LastName    string `json:"lastName" binding:"required"`
	Email       string `json:"email" binding:"required"`
	Telephone   string `json:"telephone" binding:"required"`
	Pesel       string `json:"pesel" binding:"required"`
	PaymentDate string `json:"paymentDate,omitempty"`
}
