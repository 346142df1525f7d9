package model

// Attendee is a person who can purchase tickets.  Email addresses are
// unique across attendees and phone numbers follow the local 09XXXXXXXX
// format.
//
// Fields:
//  ID       – primary key identifier (generated).
//  Name     – first name.
//  LastName – last name.
//  Email    – unique email address.
//  Phone    – 10 digit phone number starting with 09.
type Attendee struct {
	ID       int64  `json:"att_id"`        // attendee.att_id
	Name     string `json:"att_name"`      // attendee.att_name
	LastName string `json:"att_last_name"` // attendee.att_last_name
	Email    string `json:"att_email"`     // attendee.att_email
	Phone    string `json:"att_phone"`     // attendee.att_phone
}
