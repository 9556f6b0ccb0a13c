// Package crop defines crop submission records.
package crop

import "time"

// Crop is a crop submission as returned by the backend. FarmerID always
// references a farmer record; VerifierID is set once a verifier has been
// assigned. Either reference may point at a record not yet present in the
// sibling caches, which consumers must treat as "not loaded yet" rather
// than an error.
type Crop struct {
	ID              string    `json:"_id"`
	Name            string    `json:"name"`
	FarmerID        string    `json:"farmerId"`
	VerifierID      string    `json:"verifierId,omitempty"`
	Area            float64   `json:"area,omitempty"`
	SowingDate      time.Time `json:"sowingDate,omitempty"`
	HarvestingDate  time.Time `json:"harvestingDate,omitempty"`
	ExpectedYield   float64   `json:"expectedYield,omitempty"`
	PreviousCrop    string    `json:"previousCrop,omitempty"`
	Images          []string  `json:"images,omitempty"`
	IsVerified      bool      `json:"isVerified"`
	VerifiedAt      time.Time `json:"verifiedAt,omitempty"`
	CreatedAt       time.Time `json:"createdAt,omitempty"`
	UpdatedAt       time.Time `json:"updatedAt,omitempty"`
}

// Key returns the primary id. It satisfies the cache key contract.
func (c Crop) Key() string { return c.ID }

// FarmerIDs returns the unique farmer ids referenced by crops.
func FarmerIDs(crops []Crop) []string {
	return uniqueRefs(crops, func(c Crop) string { return c.FarmerID })
}

// VerifierIDs returns the unique verifier ids referenced by crops.
// Crops without an assigned verifier are skipped.
func VerifierIDs(crops []Crop) []string {
	return uniqueRefs(crops, func(c Crop) string { return c.VerifierID })
}

func uniqueRefs(crops []Crop, ref func(Crop) string) []string {
	seen := make(map[string]struct{}, len(crops))
	var ids []string
	for _, c := range crops {
		id := ref(c)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
