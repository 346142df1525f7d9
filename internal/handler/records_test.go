package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-records/internal/model"
	"github.com/iliyamo/event-records/internal/repository"
	"github.com/iliyamo/event-records/internal/repository/memory"
	"github.com/iliyamo/event-records/internal/service"
)

func mount[R any](e *echo.Echo, prefix string, h *RecordHandler[R]) {
	e.GET(prefix, h.List)
	e.POST(prefix, h.Create)
	item := prefix + h.ItemPath()
	e.GET(item, h.Get)
	e.PUT(item, h.Update)
	e.PATCH(item, h.Update)
	e.DELETE(item, h.Delete)
}

func newServer(t *testing.T) (*echo.Echo, *service.Services) {
	t.Helper()
	svc := service.New(memory.New(), nil)
	e := echo.New()
	mount(e, "/venues", NewRecordHandler[model.Venue](svc.Venues))
	mount(e, "/attendees", NewRecordHandler[model.Attendee](svc.Attendees))
	mount(e, "/tickets", NewRecordHandler[model.Ticket](svc.Tickets))
	mount(e, "/purchases", NewRecordHandler[model.Purchase](svc.Purchases))
	ev := NewRecordHandler[model.EventVenue](svc.EventVenues)
	mount(e, "/event_venues", ev)
	e.GET("/event_venues/event/:ev_id", ev.ListBy("ev_id"))
	return e, svc
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestCreateAndConflict(t *testing.T) {
	e, _ := newServer(t)
	rec := do(e, http.MethodPost, "/venues", `{"vn_name":"Hall A","vn_type":"VIP","vn_capacity":100}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body)
	}
	body := decode(t, rec)
	if body["vn_id"] != float64(1) || body["vn_name"] != "Hall A" {
		t.Fatalf("created = %v", body)
	}

	rec = do(e, http.MethodPost, "/venues", `{"vn_name":"Hall A","vn_type":"General","vn_capacity":5}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate status = %d", rec.Code)
	}
	if got := decode(t, rec)["error"]; got != "Venue already exists" {
		t.Fatalf("duplicate error = %v", got)
	}

	rec = do(e, http.MethodGet, "/venues", "")
	var list []model.Venue
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil || len(list) != 1 {
		t.Fatalf("list = %s, err %v", rec.Body, err)
	}
}

func TestValidationResponse(t *testing.T) {
	e, _ := newServer(t)
	rec := do(e, http.MethodPost, "/attendees", `{"att_name":"Ann","att_last_name":"Lee","att_email":"ann@x.com","att_phone":"0812345678"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decode(t, rec)
	details, ok := body["details"].(map[string]any)
	if !ok || details["att_phone"] == nil {
		t.Fatalf("details = %v", body)
	}

	rec = do(e, http.MethodPost, "/attendees", `[1,2]`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("array body status = %d", rec.Code)
	}
}

func TestGetErrors(t *testing.T) {
	e, _ := newServer(t)
	if rec := do(e, http.MethodGet, "/venues/abc", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("non-numeric id status = %d", rec.Code)
	}
	rec := do(e, http.MethodGet, "/venues/9", "")
	if rec.Code != http.StatusNotFound || decode(t, rec)["error"] != "Venue not found" {
		t.Fatalf("missing venue = %d %s", rec.Code, rec.Body)
	}
	rec = do(e, http.MethodGet, "/tickets", "")
	if rec.Code != http.StatusNotFound || decode(t, rec)["error"] != "No tickets found" {
		t.Fatalf("empty list = %d %s", rec.Code, rec.Body)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	e, _ := newServer(t)
	do(e, http.MethodPost, "/venues", `{"vn_name":"Hall A","vn_type":"VIP","vn_capacity":100}`)

	rec := do(e, http.MethodPatch, "/venues/1", `{"vn_capacity":300}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("patch status = %d, body %s", rec.Code, rec.Body)
	}
	body := decode(t, rec)
	if body["vn_capacity"] != float64(300) || body["vn_type"] != "VIP" {
		t.Fatalf("patched = %v", body)
	}
	if rec := do(e, http.MethodPut, "/venues/2", `{"vn_capacity":3}`); rec.Code != http.StatusNotFound {
		t.Fatalf("put missing status = %d", rec.Code)
	}

	rec = do(e, http.MethodDelete, "/venues/1", "")
	if rec.Code != http.StatusOK || decode(t, rec)["message"] != "Venue deleted" {
		t.Fatalf("delete = %d %s", rec.Code, rec.Body)
	}
	if rec := do(e, http.MethodGet, "/venues/1", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d", rec.Code)
	}
}

func TestPurchaseCompositePath(t *testing.T) {
	e, svc := newServer(t)
	ctx := context.Background()
	if _, err := svc.Events.Create(ctx, []byte(`{"ev_name":"Gala","ev_description":"Annual","ev_date":"2025-06-01"}`)); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.TicketStatuses.Create(ctx, []byte(`{"tic_status_id":1,"description":"Sold"}`)); err != nil {
		t.Fatal(err)
	}
	if rec := do(e, http.MethodPost, "/tickets", `{"tic_type":"VIP","tic_status_id":1,"ev_id":999}`); rec.Code != http.StatusNotFound || decode(t, rec)["error"] != "Event not found" {
		t.Fatalf("ticket for missing event = %d %s", rec.Code, rec.Body)
	}
	if rec := do(e, http.MethodPost, "/tickets", `{"tic_type":"VIP","tic_status_id":1,"ev_id":1}`); rec.Code != http.StatusCreated {
		t.Fatalf("ticket = %d %s", rec.Code, rec.Body)
	}
	if rec := do(e, http.MethodPost, "/attendees", `{"att_name":"Ann","att_last_name":"Lee","att_email":"ann@x.com","att_phone":"0912345678"}`); rec.Code != http.StatusCreated {
		t.Fatalf("attendee = %d %s", rec.Code, rec.Body)
	}

	purchase := `{"att_id":1,"tic_id":1,"purchase_date":"2025-05-01","purchase_type":"Online"}`
	if rec := do(e, http.MethodPost, "/purchases", purchase); rec.Code != http.StatusCreated {
		t.Fatalf("purchase = %d %s", rec.Code, rec.Body)
	}
	rec := do(e, http.MethodPost, "/purchases", purchase)
	if rec.Code != http.StatusConflict || decode(t, rec)["error"] != "Purchase already exists" {
		t.Fatalf("duplicate purchase = %d %s", rec.Code, rec.Body)
	}
	rec = do(e, http.MethodGet, "/purchases/1/1", "")
	if rec.Code != http.StatusOK || decode(t, rec)["purchase_date"] != "2025-05-01" {
		t.Fatalf("get purchase = %d %s", rec.Code, rec.Body)
	}
	if rec := do(e, http.MethodGet, "/purchases/1/x", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad tic_id status = %d", rec.Code)
	}
	rec = do(e, http.MethodDelete, "/purchases/1/1", "")
	if rec.Code != http.StatusOK || decode(t, rec)["message"] != "Purchase deleted" {
		t.Fatalf("delete purchase = %d %s", rec.Code, rec.Body)
	}
}

func TestUpdateToMissingParent(t *testing.T) {
	e, svc := newServer(t)
	ctx := context.Background()
	if _, err := svc.Events.Create(ctx, []byte(`{"ev_name":"Gala","ev_description":"Annual","ev_date":"2025-06-01"}`)); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.TicketStatuses.Create(ctx, []byte(`{"tic_status_id":1,"description":"Sold"}`)); err != nil {
		t.Fatal(err)
	}
	if rec := do(e, http.MethodPost, "/tickets", `{"tic_type":"VIP","tic_status_id":1,"ev_id":1}`); rec.Code != http.StatusCreated {
		t.Fatalf("ticket = %d %s", rec.Code, rec.Body)
	}

	rec := do(e, http.MethodPut, "/tickets/1", `{"ev_id":999,"tic_type":"General"}`)
	if rec.Code != http.StatusNotFound || decode(t, rec)["error"] != "Event not found" {
		t.Fatalf("update to missing event = %d %s", rec.Code, rec.Body)
	}
	rec = do(e, http.MethodGet, "/tickets/1", "")
	body := decode(t, rec)
	if rec.Code != http.StatusOK || body["tic_type"] != "VIP" || body["ev_id"] != float64(1) {
		t.Fatalf("ticket after failed update = %d %s", rec.Code, rec.Body)
	}
}

func TestListByPathParameter(t *testing.T) {
	e, svc := newServer(t)
	ctx := context.Background()
	if _, err := svc.Events.Create(ctx, []byte(`{"ev_name":"Gala","ev_description":"Annual","ev_date":"2025-06-01"}`)); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Venues.Create(ctx, []byte(`{"vn_name":"Hall A","vn_type":"VIP","vn_capacity":100}`)); err != nil {
		t.Fatal(err)
	}
	if rec := do(e, http.MethodPost, "/event_venues", `{"ev_id":1,"vn_id":1}`); rec.Code != http.StatusCreated {
		t.Fatalf("assign = %d %s", rec.Code, rec.Body)
	}
	rec := do(e, http.MethodGet, "/event_venues/event/1", "")
	var list []model.EventVenue
	if rec.Code != http.StatusOK || json.Unmarshal(rec.Body.Bytes(), &list) != nil || len(list) != 1 {
		t.Fatalf("by event = %d %s", rec.Code, rec.Body)
	}
	if rec := do(e, http.MethodGet, "/event_venues/event/2", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("by unknown event status = %d", rec.Code)
	}
	if rec := do(e, http.MethodGet, "/event_venues/event/x", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("by bad id status = %d", rec.Code)
	}
}

type brokenRecords struct{}

func (brokenRecords) Table() *repository.Table { return repository.Venues }
func (brokenRecords) List(context.Context) ([]model.Venue, error) {
	return nil, &service.StoreError{Op: "list venue", Err: errors.New("connection refused")}
}
func (brokenRecords) ListBy(context.Context, repository.Row) ([]model.Venue, error) { return nil, nil }
func (brokenRecords) Get(context.Context, repository.Row) (model.Venue, error) {
	return model.Venue{}, nil
}
func (brokenRecords) Create(context.Context, []byte) (model.Venue, error) { return model.Venue{}, nil }
func (brokenRecords) Update(context.Context, repository.Row, []byte) (model.Venue, error) {
	return model.Venue{}, nil
}
func (brokenRecords) Delete(context.Context, repository.Row) error { return nil }

func TestStoreFailureIsInternalError(t *testing.T) {
	e := echo.New()
	mount(e, "/venues", NewRecordHandler[model.Venue](brokenRecords{}))
	rec := do(e, http.MethodGet, "/venues", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "connection refused") {
		t.Fatalf("internal error leaked: %s", rec.Body)
	}
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func TestHealth(t *testing.T) {
	e := echo.New()
	e.GET("/healthz", Health(pinger{}))
	e.GET("/down", Health(pinger{err: errors.New("no route to host")}))
	if rec := do(e, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthz = %d %q", rec.Code, rec.Body)
	}
	if rec := do(e, http.MethodGet, "/down", ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("down = %d", rec.Code)
	}
}
