package service

import (
	"github.com/iliyamo/event-records/internal/contract"
	"github.com/iliyamo/event-records/internal/model"
	"github.com/iliyamo/event-records/internal/repository"
)

// TicketStatusInput is the ticket status payload.  The identifier is
// supplied by the client and cannot change afterwards.
type TicketStatusInput struct {
	ID          contract.Opt[int64]
	Description contract.Opt[string]
}

func (in *TicketStatusInput) fields() []contract.Field {
	return []contract.Field{
		contract.Int("tic_status_id", &in.ID, contract.Min(1)).Key(),
		contract.String("description", &in.Description, contract.NotBlank(), contract.MaxLen(20)),
	}
}

var ticketStatusDefinition = Definition[model.TicketStatus, TicketStatusInput]{
	Table:  repository.TicketStatuses,
	Fields: (*TicketStatusInput).fields,
	Build: func(in *TicketStatusInput) model.TicketStatus {
		return model.TicketStatus{ID: in.ID.Value, Description: in.Description.Value}
	},
	Apply: func(s *model.TicketStatus, in *TicketStatusInput) {
		s.Description = in.Description.Or(s.Description)
	},
	Row: func(s model.TicketStatus) repository.Row {
		return repository.Row{"tic_status_id": s.ID, "description": s.Description}
	},
	Record: func(row repository.Row) model.TicketStatus {
		return model.TicketStatus{ID: row.Int("tic_status_id"), Description: row.String("description")}
	},
}

// TicketInput is the ticket payload.
type TicketInput struct {
	Type     contract.Opt[string]
	StatusID contract.Opt[int64]
	EventID  contract.Opt[int64]
}

func (in *TicketInput) fields() []contract.Field {
	return []contract.Field{
		contract.String("tic_type", &in.Type, contract.OneOf(model.Tiers...)),
		contract.Int("tic_status_id", &in.StatusID),
		contract.Int("ev_id", &in.EventID),
	}
}

var ticketDefinition = Definition[model.Ticket, TicketInput]{
	Table:  repository.Tickets,
	Fields: (*TicketInput).fields,
	Build: func(in *TicketInput) model.Ticket {
		return model.Ticket{Type: in.Type.Value, StatusID: in.StatusID.Value, EventID: in.EventID.Value}
	},
	Apply: func(t *model.Ticket, in *TicketInput) {
		t.Type = in.Type.Or(t.Type)
		t.StatusID = in.StatusID.Or(t.StatusID)
		t.EventID = in.EventID.Or(t.EventID)
	},
	Row: func(t model.Ticket) repository.Row {
		return repository.Row{"tic_id": t.ID, "tic_type": t.Type, "tic_status_id": t.StatusID, "ev_id": t.EventID}
	},
	Record: func(row repository.Row) model.Ticket {
		return model.Ticket{
			ID:       row.Int("tic_id"),
			Type:     row.String("tic_type"),
			StatusID: row.Int("tic_status_id"),
			EventID:  row.Int("ev_id"),
		}
	},
}

// PurchaseInput is the purchase payload.  The attendee and ticket pair is
// the purchase's identity.
type PurchaseInput struct {
	AttendeeID contract.Opt[int64]
	TicketID   contract.Opt[int64]
	Date       contract.Opt[model.Date]
	Type       contract.Opt[string]
}

func (in *PurchaseInput) fields() []contract.Field {
	return []contract.Field{
		contract.Int("att_id", &in.AttendeeID).Key(),
		contract.Int("tic_id", &in.TicketID).Key(),
		contract.Date("purchase_date", &in.Date),
		contract.String("purchase_type", &in.Type, contract.OneOf(model.PurchaseTypes...)),
	}
}

var purchaseDefinition = Definition[model.Purchase, PurchaseInput]{
	Table:  repository.Purchases,
	Fields: (*PurchaseInput).fields,
	Build: func(in *PurchaseInput) model.Purchase {
		return model.Purchase{AttendeeID: in.AttendeeID.Value, TicketID: in.TicketID.Value, Date: in.Date.Value, Type: in.Type.Value}
	},
	Apply: func(p *model.Purchase, in *PurchaseInput) {
		p.Date = in.Date.Or(p.Date)
		p.Type = in.Type.Or(p.Type)
	},
	Row: func(p model.Purchase) repository.Row {
		return repository.Row{"att_id": p.AttendeeID, "tic_id": p.TicketID, "purchase_date": p.Date, "purchase_type": p.Type}
	},
	Record: func(row repository.Row) model.Purchase {
		return model.Purchase{
			AttendeeID: row.Int("att_id"),
			TicketID:   row.Int("tic_id"),
			Date:       row.Date("purchase_date"),
			Type:       row.String("purchase_type"),
		}
	},
}
