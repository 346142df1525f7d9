package model

// TicketStatus is a lookup value describing a ticket's state.  Unlike the
// other records its identifier is chosen by the client.
type TicketStatus struct {
	ID          int64  `json:"tic_status_id"` // ticket_status.tic_status_id
	Description string `json:"description"`   // ticket_status.description
}

// Ticket is an admission to an event.
//
// Fields:
//  ID       – primary key identifier (generated).
//  Type     – one of VIP, General or Premium.
//  StatusID – current ticket status.
//  EventID  – event the ticket admits to.
type Ticket struct {
	ID       int64  `json:"tic_id"`        // ticket.tic_id
	Type     string `json:"tic_type"`      // ticket.tic_type
	StatusID int64  `json:"tic_status_id"` // ticket.tic_status_id
	EventID  int64  `json:"ev_id"`         // ticket.ev_id
}
