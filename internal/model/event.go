package model

// Event is a scheduled happening.  Only one event may take place on a
// given date.
//
// Fields:
//  ID          – primary key identifier (generated).
//  Name        – event title.
//  Description – free text description.
//  Date        – unique calendar date of the event.
type Event struct {
	ID          int64  `json:"ev_id"`          // event.ev_id
	Name        string `json:"ev_name"`        // event.ev_name
	Description string `json:"ev_description"` // event.ev_description
	Date        Date   `json:"ev_date"`        // event.ev_date
}
