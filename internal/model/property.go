package model

import "time"

// Property is a rented dwelling owned by the account holder.
type Property struct {
	CreatedAt time.Time `json:"createdAt"`
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Address   string    `json:"address"`
	Postcode  string    `json:"postcode,omitempty"`
}

// DisplayAddress returns the address with the postcode appended when known.
func (p Property) DisplayAddress() string {
	if p.Postcode == "" {
		return p.Address
	}
	return p.Address + ", " + p.Postcode
}
