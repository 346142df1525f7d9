package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/event-records/internal/handler"    // record handlers and the health check
	"github.com/iliyamo/event-records/internal/metrics"    // Prometheus exposition
	"github.com/iliyamo/event-records/internal/model"      // record types carried by each collection
	"github.com/iliyamo/event-records/internal/repository" // store handle pinged by /healthz
	"github.com/iliyamo/event-records/internal/service"    // one resource per collection
)

// RegisterRoutes registers the operational endpoints.  /healthz pings the
// store so load balancers stop routing to an instance that lost its
// database; /metrics is scraped by Prometheus.
func RegisterRoutes(e *echo.Echo, store repository.Store, m *metrics.Metrics) {
	e.GET("/healthz", handler.Health(store))
	if m != nil {
		e.GET("/metrics", echo.WrapHandler(m.Handler()))
	}
}

// RegisterRecords exposes every collection.  Each gets list and create on
// the collection path and get, update (PUT or PATCH) and delete on the
// item path built from its key columns.
func RegisterRecords(e *echo.Echo, svc *service.Services) {
	mount(e, "/attendees", handler.NewRecordHandler[model.Attendee](svc.Attendees))
	mount(e, "/events", handler.NewRecordHandler[model.Event](svc.Events))
	mount(e, "/venues", handler.NewRecordHandler[model.Venue](svc.Venues))
	mount(e, "/suppliers", handler.NewRecordHandler[model.Supplier](svc.Suppliers))
	mount(e, "/staff", handler.NewRecordHandler[model.Staff](svc.Staff))
	mount(e, "/ticket_statuses", handler.NewRecordHandler[model.TicketStatus](svc.TicketStatuses))
	mount(e, "/tickets", handler.NewRecordHandler[model.Ticket](svc.Tickets))
	// Purchases are addressed by /purchases/:att_id/:tic_id.
	mount(e, "/purchases", handler.NewRecordHandler[model.Purchase](svc.Purchases))

	eventVenues := handler.NewRecordHandler[model.EventVenue](svc.EventVenues)
	mount(e, "/event_venues", eventVenues)
	// Venue assignments of one event.
	e.GET("/event_venues/event/:ev_id", eventVenues.ListBy("ev_id"))

	staffVenues := handler.NewRecordHandler[model.StaffVenue](svc.StaffVenues)
	mount(e, "/staff_venue", staffVenues)
	// Staff assignments at one venue.
	e.GET("/staff_venue/venue/:vn_id", staffVenues.ListBy("vn_id"))
}

func mount[R any](e *echo.Echo, prefix string, h *handler.RecordHandler[R]) {
	e.GET(prefix, h.List)
	e.POST(prefix, h.Create)
	item := prefix + h.ItemPath()
	e.GET(item, h.Get)
	e.PUT(item, h.Update)
	e.PATCH(item, h.Update) // PATCH is an alias of PUT; both apply present fields only
	e.DELETE(item, h.Delete)
}
