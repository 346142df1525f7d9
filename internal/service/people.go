package service

import (
	"regexp"

	"github.com/iliyamo/event-records/internal/contract"
	"github.com/iliyamo/event-records/internal/model"
	"github.com/iliyamo/event-records/internal/repository"
)

var phonePattern = regexp.MustCompile(`^09[0-9]{8}$`)

const phoneMessage = "Phone must start with 09 and have 10 digits"

// AttendeeInput is the attendee payload.
type AttendeeInput struct {
	Name     contract.Opt[string]
	LastName contract.Opt[string]
	Email    contract.Opt[string]
	Phone    contract.Opt[string]
}

func (in *AttendeeInput) fields() []contract.Field {
	return []contract.Field{
		contract.String("att_name", &in.Name, contract.NotBlank(), contract.MaxLen(100)),
		contract.String("att_last_name", &in.LastName, contract.NotBlank(), contract.MaxLen(100)),
		contract.String("att_email", &in.Email, contract.MaxLen(100), contract.Email()),
		contract.String("att_phone", &in.Phone, contract.Match(phonePattern, phoneMessage)),
	}
}

var attendeeDefinition = Definition[model.Attendee, AttendeeInput]{
	Table:  repository.Attendees,
	Fields: (*AttendeeInput).fields,
	Build: func(in *AttendeeInput) model.Attendee {
		return model.Attendee{Name: in.Name.Value, LastName: in.LastName.Value, Email: in.Email.Value, Phone: in.Phone.Value}
	},
	Apply: func(a *model.Attendee, in *AttendeeInput) {
		a.Name = in.Name.Or(a.Name)
		a.LastName = in.LastName.Or(a.LastName)
		a.Email = in.Email.Or(a.Email)
		a.Phone = in.Phone.Or(a.Phone)
	},
	Row: func(a model.Attendee) repository.Row {
		return repository.Row{"att_id": a.ID, "att_name": a.Name, "att_last_name": a.LastName, "att_email": a.Email, "att_phone": a.Phone}
	},
	Record: func(row repository.Row) model.Attendee {
		return model.Attendee{
			ID:       row.Int("att_id"),
			Name:     row.String("att_name"),
			LastName: row.String("att_last_name"),
			Email:    row.String("att_email"),
			Phone:    row.String("att_phone"),
		}
	},
}

// SupplierInput is the supplier payload.
type SupplierInput struct {
	CompanyName   contract.Opt[string]
	ContactNumber contract.Opt[string]
	ServiceType   contract.Opt[string]
}

func (in *SupplierInput) fields() []contract.Field {
	return []contract.Field{
		contract.String("sup_company_name", &in.CompanyName, contract.NotBlank(), contract.MaxLen(100)),
		contract.String("sup_contact_number", &in.ContactNumber, contract.Match(phonePattern, phoneMessage)),
		contract.String("sup_service_type", &in.ServiceType, contract.NotBlank(), contract.MaxLen(100)),
	}
}

var supplierDefinition = Definition[model.Supplier, SupplierInput]{
	Table:  repository.Suppliers,
	Fields: (*SupplierInput).fields,
	Build: func(in *SupplierInput) model.Supplier {
		return model.Supplier{CompanyName: in.CompanyName.Value, ContactNumber: in.ContactNumber.Value, ServiceType: in.ServiceType.Value}
	},
	Apply: func(s *model.Supplier, in *SupplierInput) {
		s.CompanyName = in.CompanyName.Or(s.CompanyName)
		s.ContactNumber = in.ContactNumber.Or(s.ContactNumber)
		s.ServiceType = in.ServiceType.Or(s.ServiceType)
	},
	Row: func(s model.Supplier) repository.Row {
		return repository.Row{"sup_id": s.ID, "sup_company_name": s.CompanyName, "sup_contact_number": s.ContactNumber, "sup_service_type": s.ServiceType}
	},
	Record: func(row repository.Row) model.Supplier {
		return model.Supplier{
			ID:            row.Int("sup_id"),
			CompanyName:   row.String("sup_company_name"),
			ContactNumber: row.String("sup_contact_number"),
			ServiceType:   row.String("sup_service_type"),
		}
	},
}

// StaffInput is the staff payload.  SupplierID must name an existing
// supplier.
type StaffInput struct {
	Name       contract.Opt[string]
	LastName   contract.Opt[string]
	Tasks      contract.Opt[string]
	Role       contract.Opt[string]
	SupplierID contract.Opt[int64]
}

func (in *StaffInput) fields() []contract.Field {
	return []contract.Field{
		contract.String("stf_name", &in.Name, contract.NotBlank(), contract.MaxLen(100)),
		contract.String("stf_last_name", &in.LastName, contract.NotBlank(), contract.MaxLen(100)),
		contract.String("stf_tasks", &in.Tasks, contract.NotBlank(), contract.MaxLen(100)),
		contract.String("stf_role", &in.Role, contract.NotBlank(), contract.MaxLen(100)),
		contract.Int("sup_id", &in.SupplierID),
	}
}

var staffDefinition = Definition[model.Staff, StaffInput]{
	Table:  repository.Staff,
	Fields: (*StaffInput).fields,
	Build: func(in *StaffInput) model.Staff {
		return model.Staff{Name: in.Name.Value, LastName: in.LastName.Value, Tasks: in.Tasks.Value, Role: in.Role.Value, SupplierID: in.SupplierID.Value}
	},
	Apply: func(s *model.Staff, in *StaffInput) {
		s.Name = in.Name.Or(s.Name)
		s.LastName = in.LastName.Or(s.LastName)
		s.Tasks = in.Tasks.Or(s.Tasks)
		s.Role = in.Role.Or(s.Role)
		s.SupplierID = in.SupplierID.Or(s.SupplierID)
	},
	Row: func(s model.Staff) repository.Row {
		return repository.Row{"stf_id": s.ID, "stf_name": s.Name, "stf_last_name": s.LastName, "stf_tasks": s.Tasks, "stf_role": s.Role, "sup_id": s.SupplierID}
	},
	Record: func(row repository.Row) model.Staff {
		return model.Staff{
			ID:         row.Int("stf_id"),
			Name:       row.String("stf_name"),
			LastName:   row.String("stf_last_name"),
			Tasks:      row.String("stf_tasks"),
			Role:       row.String("stf_role"),
			SupplierID: row.Int("sup_id"),
		}
	},
}
