package model

// EventVenue assigns a venue to an event.  A venue is assigned to an
// event at most once.
type EventVenue struct {
	ID      int64 `json:"ev_ven_id"` // event_venue.ev_ven_id
	EventID int64 `json:"ev_id"`     // event_venue.ev_id
	VenueID int64 `json:"vn_id"`     // event_venue.vn_id
}

// StaffVenue assigns a staff member to work at a venue during an event.
// The triple (EventID, StaffID, VenueID) is unique.
type StaffVenue struct {
	ID      int64 `json:"sv_id"`  // staff_venue.sv_id
	EventID int64 `json:"ev_id"`  // staff_venue.ev_id
	StaffID int64 `json:"stf_id"` // staff_venue.stf_id
	VenueID int64 `json:"vn_id"`  // staff_venue.vn_id
}
