package service

import (
	"github.com/iliyamo/event-records/internal/contract"
	"github.com/iliyamo/event-records/internal/model"
	"github.com/iliyamo/event-records/internal/repository"
)

// EventInput is the event payload.
type EventInput struct {
	Name        contract.Opt[string]
	Description contract.Opt[string]
	Date        contract.Opt[model.Date]
}

func (in *EventInput) fields() []contract.Field {
	return []contract.Field{
		contract.String("ev_name", &in.Name, contract.NotBlank(), contract.MaxLen(100)),
		contract.String("ev_description", &in.Description, contract.MaxLen(200)),
		contract.Date("ev_date", &in.Date),
	}
}

var eventDefinition = Definition[model.Event, EventInput]{
	Table:  repository.Events,
	Fields: (*EventInput).fields,
	Build: func(in *EventInput) model.Event {
		return model.Event{Name: in.Name.Value, Description: in.Description.Value, Date: in.Date.Value}
	},
	Apply: func(e *model.Event, in *EventInput) {
		e.Name = in.Name.Or(e.Name)
		e.Description = in.Description.Or(e.Description)
		e.Date = in.Date.Or(e.Date)
	},
	Row: func(e model.Event) repository.Row {
		return repository.Row{"ev_id": e.ID, "ev_name": e.Name, "ev_description": e.Description, "ev_date": e.Date}
	},
	Record: func(row repository.Row) model.Event {
		return model.Event{
			ID:          row.Int("ev_id"),
			Name:        row.String("ev_name"),
			Description: row.String("ev_description"),
			Date:        row.Date("ev_date"),
		}
	},
}

// VenueInput is the venue payload.
type VenueInput struct {
	Name     contract.Opt[string]
	Type     contract.Opt[string]
	Capacity contract.Opt[int64]
}

func (in *VenueInput) fields() []contract.Field {
	return []contract.Field{
		contract.String("vn_name", &in.Name, contract.NotBlank(), contract.MaxLen(100)),
		contract.String("vn_type", &in.Type, contract.OneOf(model.Tiers...)),
		contract.Int("vn_capacity", &in.Capacity, contract.Min(1)),
	}
}

var venueDefinition = Definition[model.Venue, VenueInput]{
	Table:  repository.Venues,
	Fields: (*VenueInput).fields,
	Build: func(in *VenueInput) model.Venue {
		return model.Venue{Name: in.Name.Value, Type: in.Type.Value, Capacity: in.Capacity.Value}
	},
	Apply: func(v *model.Venue, in *VenueInput) {
		v.Name = in.Name.Or(v.Name)
		v.Type = in.Type.Or(v.Type)
		v.Capacity = in.Capacity.Or(v.Capacity)
	},
	Row: func(v model.Venue) repository.Row {
		return repository.Row{"vn_id": v.ID, "vn_name": v.Name, "vn_type": v.Type, "vn_capacity": v.Capacity}
	},
	Record: func(row repository.Row) model.Venue {
		return model.Venue{
			ID:       row.Int("vn_id"),
			Name:     row.String("vn_name"),
			Type:     row.String("vn_type"),
			Capacity: row.Int("vn_capacity"),
		}
	},
}

// EventVenueInput assigns a venue to an event.
type EventVenueInput struct {
	EventID contract.Opt[int64]
	VenueID contract.Opt[int64]
}

func (in *EventVenueInput) fields() []contract.Field {
	return []contract.Field{
		contract.Int("ev_id", &in.EventID),
		contract.Int("vn_id", &in.VenueID),
	}
}

var eventVenueDefinition = Definition[model.EventVenue, EventVenueInput]{
	Table:  repository.EventVenues,
	Fields: (*EventVenueInput).fields,
	Build: func(in *EventVenueInput) model.EventVenue {
		return model.EventVenue{EventID: in.EventID.Value, VenueID: in.VenueID.Value}
	},
	Apply: func(ev *model.EventVenue, in *EventVenueInput) {
		ev.EventID = in.EventID.Or(ev.EventID)
		ev.VenueID = in.VenueID.Or(ev.VenueID)
	},
	Row: func(ev model.EventVenue) repository.Row {
		return repository.Row{"ev_ven_id": ev.ID, "ev_id": ev.EventID, "vn_id": ev.VenueID}
	},
	Record: func(row repository.Row) model.EventVenue {
		return model.EventVenue{ID: row.Int("ev_ven_id"), EventID: row.Int("ev_id"), VenueID: row.Int("vn_id")}
	},
}

// StaffVenueInput assigns a staff member to a venue for an event.
type StaffVenueInput struct {
	EventID contract.Opt[int64]
	StaffID contract.Opt[int64]
	VenueID contract.Opt[int64]
}

func (in *StaffVenueInput) fields() []contract.Field {
	return []contract.Field{
		contract.Int("ev_id", &in.EventID),
		contract.Int("stf_id", &in.StaffID),
		contract.Int("vn_id", &in.VenueID),
	}
}

var staffVenueDefinition = Definition[model.StaffVenue, StaffVenueInput]{
	Table:  repository.StaffVenues,
	Fields: (*StaffVenueInput).fields,
	Build: func(in *StaffVenueInput) model.StaffVenue {
		return model.StaffVenue{EventID: in.EventID.Value, StaffID: in.StaffID.Value, VenueID: in.VenueID.Value}
	},
	Apply: func(sv *model.StaffVenue, in *StaffVenueInput) {
		sv.EventID = in.EventID.Or(sv.EventID)
		sv.StaffID = in.StaffID.Or(sv.StaffID)
		sv.VenueID = in.VenueID.Or(sv.VenueID)
	},
	Row: func(sv model.StaffVenue) repository.Row {
		return repository.Row{"sv_id": sv.ID, "ev_id": sv.EventID, "stf_id": sv.StaffID, "vn_id": sv.VenueID}
	},
	Record: func(row repository.Row) model.StaffVenue {
		return model.StaffVenue{ID: row.Int("sv_id"), EventID: row.Int("ev_id"), StaffID: row.Int("stf_id"), VenueID: row.Int("vn_id")}
	},
}
