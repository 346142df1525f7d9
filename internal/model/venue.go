package model

// Venue is a place where events are hosted.
//
// Fields:
//  ID       – primary key identifier (generated).
//  Name     – unique venue name.
//  Type     – one of VIP, General or Premium.
//  Capacity – number of people the venue holds (at least 1).
type Venue struct {
	ID       int64  `json:"vn_id"`       // venue.vn_id
	Name     string `json:"vn_name"`     // venue.vn_name
	Type     string `json:"vn_type"`     // venue.vn_type
	Capacity int64  `json:"vn_capacity"` // venue.vn_capacity
}

// Tiers shared by venues and tickets.
const (
	TierVIP     = "VIP"
	TierGeneral = "General"
	TierPremium = "Premium"
)

// Tiers lists the accepted venue and ticket types.
var Tiers = []string{TierVIP, TierGeneral, TierPremium}
