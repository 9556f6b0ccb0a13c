// Package farmer defines the farmer domain records served by the
// SmartFarmer backend.
package farmer

import "time"

// Farmer is a registered farmer record as returned by the backend.
// Records are keyed by the Mongo-style `_id` field.
type Farmer struct {
	ID            string    `json:"_id"`
	Name          string    `json:"name"`
	ContactNumber string    `json:"contactNumber"`
	Email         string    `json:"email,omitempty"`
	AadhaarNumber string    `json:"aadhaarNumber"`
	Village       string    `json:"village"`
	Taluka        string    `json:"taluka"`
	District      string    `json:"district"`
	Pincode       string    `json:"pincode"`
	LandArea      float64   `json:"landArea,omitempty"`
	CropIDs       []string  `json:"crops,omitempty"`
	IsVerified    bool      `json:"isVerified"`
	CreatedAt     time.Time `json:"createdAt,omitempty"`
	UpdatedAt     time.Time `json:"updatedAt,omitempty"`
}

// Key returns the primary id. It satisfies the cache key contract.
func (f Farmer) Key() string { return f.ID }
