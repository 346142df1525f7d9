package service

import (
	"github.com/iliyamo/event-records/internal/model"
	"github.com/iliyamo/event-records/internal/repository"
)

// Services groups one Resource per entity over a shared store.
type Services struct {
	Attendees      *Resource[model.Attendee, AttendeeInput]
	Events         *Resource[model.Event, EventInput]
	Venues         *Resource[model.Venue, VenueInput]
	Suppliers      *Resource[model.Supplier, SupplierInput]
	Staff          *Resource[model.Staff, StaffInput]
	TicketStatuses *Resource[model.TicketStatus, TicketStatusInput]
	Tickets        *Resource[model.Ticket, TicketInput]
	Purchases      *Resource[model.Purchase, PurchaseInput]
	EventVenues    *Resource[model.EventVenue, EventVenueInput]
	StaffVenues    *Resource[model.StaffVenue, StaffVenueInput]
}

// New wires every resource to store.  notifier may be nil.
func New(store repository.Store, notifier Notifier) *Services {
	return &Services{
		Attendees:      NewResource(store, attendeeDefinition, notifier),
		Events:         NewResource(store, eventDefinition, notifier),
		Venues:         NewResource(store, venueDefinition, notifier),
		Suppliers:      NewResource(store, supplierDefinition, notifier),
		Staff:          NewResource(store, staffDefinition, notifier),
		TicketStatuses: NewResource(store, ticketStatusDefinition, notifier),
		Tickets:        NewResource(store, ticketDefinition, notifier),
		Purchases:      NewResource(store, purchaseDefinition, notifier),
		EventVenues:    NewResource(store, eventVenueDefinition, notifier),
		StaffVenues:    NewResource(store, staffVenueDefinition, notifier),
	}
}
