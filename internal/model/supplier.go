package model

// Supplier is a company that provides staff and services for events.
//
// Fields:
//  ID            – primary key identifier (generated).
//  CompanyName   – unique company name.
//  ContactNumber – 10 digit phone number starting with 09.
//  ServiceType   – kind of service offered.
type Supplier struct {
	ID            int64  `json:"sup_id"`             // supplier.sup_id
	CompanyName   string `json:"sup_company_name"`   // supplier.sup_company_name
	ContactNumber string `json:"sup_contact_number"` // supplier.sup_contact_number
	ServiceType   string `json:"sup_service_type"`   // supplier.sup_service_type
}
