package repository

// The event-management schema.  Tables are listed in dependency order so
// they can be created front to back.
var (
	TicketStatuses = &Table{
		Name:   "ticket_status",
		Label:  "Ticket status",
		Plural: "ticket statuses",
		Columns: []Column{
			{Name: "tic_status_id", Kind: KindInt},
			{Name: "description", Kind: KindText, Size: 20},
		},
		Key: []string{"tic_status_id"},
	}

	Attendees = &Table{
		Name:   "attendee",
		Label:  "Attendee",
		Plural: "attendees",
		Columns: []Column{
			{Name: "att_id", Kind: KindInt},
			{Name: "att_name", Kind: KindText, Size: 100},
			{Name: "att_last_name", Kind: KindText, Size: 100},
			{Name: "att_email", Kind: KindText, Size: 100},
			{Name: "att_phone", Kind: KindText, Size: 10},
		},
		Key:    []string{"att_id"},
		Serial: true,
		Uniques: []Unique{
			{Name: "uq_attendee_email", Columns: []string{"att_email"}, Message: "Email already exists"},
		},
	}

	Events = &Table{
		Name:   "event",
		Label:  "Event",
		Plural: "events",
		Columns: []Column{
			{Name: "ev_id", Kind: KindInt},
			{Name: "ev_name", Kind: KindText, Size: 100},
			{Name: "ev_description", Kind: KindText, Size: 200},
			{Name: "ev_date", Kind: KindDate},
		},
		Key:    []string{"ev_id"},
		Serial: true,
		Uniques: []Unique{
			{Name: "uq_event_date", Columns: []string{"ev_date"}, Message: "Event date already exists"},
		},
	}

	Venues = &Table{
		Name:   "venue",
		Label:  "Venue",
		Plural: "venues",
		Columns: []Column{
			{Name: "vn_id", Kind: KindInt},
			{Name: "vn_name", Kind: KindText, Size: 100},
			{Name: "vn_type", Kind: KindText, Size: 10},
			{Name: "vn_capacity", Kind: KindInt},
		},
		Key:    []string{"vn_id"},
		Serial: true,
		Uniques: []Unique{
			{Name: "uq_venue_name", Columns: []string{"vn_name"}, Message: "Venue already exists"},
		},
	}

	Suppliers = &Table{
		Name:   "supplier",
		Label:  "Supplier",
		Plural: "suppliers",
		Columns: []Column{
			{Name: "sup_id", Kind: KindInt},
			{Name: "sup_company_name", Kind: KindText, Size: 100},
			{Name: "sup_contact_number", Kind: KindText, Size: 10},
			{Name: "sup_service_type", Kind: KindText, Size: 100},
		},
		Key:    []string{"sup_id"},
		Serial: true,
		Uniques: []Unique{
			{Name: "uq_supplier_company", Columns: []string{"sup_company_name"}, Message: "Company already exists"},
		},
	}

	Staff = &Table{
		Name:   "staff",
		Label:  "Staff",
		Plural: "staff",
		Columns: []Column{
			{Name: "stf_id", Kind: KindInt},
			{Name: "stf_name", Kind: KindText, Size: 100},
			{Name: "stf_last_name", Kind: KindText, Size: 100},
			{Name: "stf_tasks", Kind: KindText, Size: 100},
			{Name: "stf_role", Kind: KindText, Size: 100},
			{Name: "sup_id", Kind: KindInt},
		},
		Key:    []string{"stf_id"},
		Serial: true,
		Refs:   []Ref{{Column: "sup_id", Table: Suppliers}},
	}

	Tickets = &Table{
		Name:   "ticket",
		Label:  "Ticket",
		Plural: "tickets",
		Columns: []Column{
			{Name: "tic_id", Kind: KindInt},
			{Name: "tic_type", Kind: KindText, Size: 10},
			{Name: "tic_status_id", Kind: KindInt},
			{Name: "ev_id", Kind: KindInt},
		},
		Key:    []string{"tic_id"},
		Serial: true,
		Refs: []Ref{
			{Column: "ev_id", Table: Events},
			{Column: "tic_status_id", Table: TicketStatuses},
		},
	}

	Purchases = &Table{
		Name:   "purchase",
		Label:  "Purchase",
		Plural: "purchases",
		Columns: []Column{
			{Name: "att_id", Kind: KindInt},
			{Name: "tic_id", Kind: KindInt},
			{Name: "purchase_date", Kind: KindDate},
			{Name: "purchase_type", Kind: KindText, Size: 20},
		},
		Key: []string{"att_id", "tic_id"},
		Refs: []Ref{
			{Column: "att_id", Table: Attendees},
			{Column: "tic_id", Table: Tickets},
		},
	}

	EventVenues = &Table{
		Name:   "event_venue",
		Label:  "Venue assignment",
		Plural: "venue assignments",
		Columns: []Column{
			{Name: "ev_ven_id", Kind: KindInt},
			{Name: "ev_id", Kind: KindInt},
			{Name: "vn_id", Kind: KindInt},
		},
		Key:    []string{"ev_ven_id"},
		Serial: true,
		Refs: []Ref{
			{Column: "ev_id", Table: Events},
			{Column: "vn_id", Table: Venues},
		},
		Uniques: []Unique{
			{Name: "uq_event_venue", Columns: []string{"ev_id", "vn_id"}, Message: "This event already has this venue assigned"},
		},
	}

	StaffVenues = &Table{
		Name:   "staff_venue",
		Label:  "Staff-Venue assignment",
		Plural: "staff assignments",
		Columns: []Column{
			{Name: "sv_id", Kind: KindInt},
			{Name: "ev_id", Kind: KindInt},
			{Name: "stf_id", Kind: KindInt},
			{Name: "vn_id", Kind: KindInt},
		},
		Key:    []string{"sv_id"},
		Serial: true,
		Refs: []Ref{
			{Column: "ev_id", Table: Events},
			{Column: "stf_id", Table: Staff},
			{Column: "vn_id", Table: Venues},
		},
		Uniques: []Unique{
			{Name: "unique_assignment", Columns: []string{"ev_id", "stf_id", "vn_id"}, Message: "Staff member is already assigned to this venue for this event"},
		},
	}
)

// Tables lists every table in creation order.
var Tables = []*Table{
	TicketStatuses,
	Attendees,
	Events,
	Venues,
	Suppliers,
	Staff,
	Tickets,
	Purchases,
	EventVenues,
	StaffVenues,
}
