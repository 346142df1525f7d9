package model

// Purchase records that an attendee bought a ticket.  An attendee can
// buy a given ticket only once, so the pair (AttendeeID, TicketID) is the
// primary key.
//
// Fields:
//  AttendeeID – buyer.
//  TicketID   – ticket bought.
//  Date       – day of purchase.
//  Type       – sales channel: Online, Mobile App or Box Office.
type Purchase struct {
	AttendeeID int64  `json:"att_id"`        // purchase.att_id
	TicketID   int64  `json:"tic_id"`        // purchase.tic_id
	Date       Date   `json:"purchase_date"` // purchase.purchase_date
	Type       string `json:"purchase_type"` // purchase.purchase_type
}

// PurchaseTypes lists the accepted sales channels.
var PurchaseTypes = []string{"Online", "Mobile App", "Box Office"}
