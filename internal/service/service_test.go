package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/iliyamo/event-records/internal/queue"
	"github.com/iliyamo/event-records/internal/repository"
	"github.com/iliyamo/event-records/internal/repository/memory"
)

type recorder struct {
	events []queue.RecordChangedEvent
}

func (r *recorder) Notify(_ context.Context, ev queue.RecordChangedEvent) error {
	r.events = append(r.events, ev)
	return nil
}

func newServices(t *testing.T) (*Services, *recorder) {
	t.Helper()
	rec := &recorder{}
	return New(memory.New(), rec), rec
}

type result[T any] struct {
	v   T
	err error
}

func try[T any](v T, err error) result[T] { return result[T]{v: v, err: err} }

func (r result[T]) must(t *testing.T) T {
	t.Helper()
	if r.err != nil {
		t.Fatalf("unexpected error: %v", r.err)
	}
	return r.v
}

func key(col string, id int64) repository.Row { return repository.Row{col: id} }

func TestCreateAssignsDistinctKeys(t *testing.T) {
	svc, _ := newServices(t)
	ctx := context.Background()
	a := try(svc.Attendees.Create(ctx, []byte(`{"att_name":"Ann","att_last_name":"Lee","att_email":"ann@x.com","att_phone":"0912345678"}`))).must(t)
	b := try(svc.Attendees.Create(ctx, []byte(`{"att_name":"Bob","att_last_name":"Ray","att_email":"bob@x.com","att_phone":"0912345679"}`))).must(t)
	if a.ID == 0 || a.ID == b.ID {
		t.Fatalf("keys not distinct: %d %d", a.ID, b.ID)
	}
	got := try(svc.Attendees.Get(ctx, key("att_id", a.ID))).must(t)
	if got != a {
		t.Fatalf("get = %+v, want %+v", got, a)
	}
}

func TestDuplicateVenueConflicts(t *testing.T) {
	svc, rec := newServices(t)
	ctx := context.Background()
	body := []byte(`{"vn_name":"Hall A","vn_type":"VIP","vn_capacity":100}`)
	try(svc.Venues.Create(ctx, body)).must(t)

	_, err := svc.Venues.Create(ctx, []byte(`{"vn_name":"Hall A","vn_type":"General","vn_capacity":10}`))
	var conflict *ConflictError
	if !errors.As(err, &conflict) || conflict.Message != "Venue already exists" {
		t.Fatalf("second create: err = %v", err)
	}
	venues := try(svc.Venues.List(ctx)).must(t)
	if len(venues) != 1 {
		t.Fatalf("venues = %d, want 1", len(venues))
	}
	if len(rec.events) != 1 || rec.events[0].Action != queue.ActionCreated {
		t.Fatalf("notifications = %+v", rec.events)
	}
}

func TestInvalidPhoneIsValidationError(t *testing.T) {
	svc, _ := newServices(t)
	_, err := svc.Attendees.Create(context.Background(), []byte(`{"att_name":"Ann","att_last_name":"Lee","att_email":"ann@x.com","att_phone":"0812345678"}`))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if msgs := verr.Fields["att_phone"]; len(msgs) != 1 || msgs[0] != phoneMessage {
		t.Fatalf("att_phone errors = %v", verr.Fields)
	}
	if _, err := svc.Attendees.List(context.Background()); err == nil {
		t.Fatal("invalid attendee was stored")
	}
}

func TestPartialUpdateKeepsAbsentFields(t *testing.T) {
	svc, rec := newServices(t)
	ctx := context.Background()
	v := try(svc.Venues.Create(ctx, []byte(`{"vn_name":"Hall A","vn_type":"VIP","vn_capacity":100}`))).must(t)
	u := try(svc.Venues.Update(ctx, key("vn_id", v.ID), []byte(`{"vn_capacity":250}`))).must(t)
	if u.Capacity != 250 || u.Name != "Hall A" || u.Type != "VIP" {
		t.Fatalf("updated = %+v", u)
	}
	got := try(svc.Venues.Get(ctx, key("vn_id", v.ID))).must(t)
	if got != u {
		t.Fatalf("stored = %+v, want %+v", got, u)
	}
	if last := rec.events[len(rec.events)-1]; last.Action != queue.ActionUpdated || last.Collection != "venue" {
		t.Fatalf("last notification = %+v", last)
	}
}

func TestUpdateUniquenessExcludesSelf(t *testing.T) {
	svc, _ := newServices(t)
	ctx := context.Background()
	e1 := try(svc.Events.Create(ctx, []byte(`{"ev_name":"Gala","ev_description":"Annual","ev_date":"2025-06-01"}`))).must(t)
	try(svc.Events.Create(ctx, []byte(`{"ev_name":"Expo","ev_description":"Trade","ev_date":"2025-06-02"}`))).must(t)

	if _, err := svc.Events.Update(ctx, key("ev_id", e1.ID), []byte(`{"ev_date":"2025-06-01","ev_name":"Gala 2"}`)); err != nil {
		t.Fatalf("update keeping own date: %v", err)
	}
	_, err := svc.Events.Update(ctx, key("ev_id", e1.ID), []byte(`{"ev_date":"2025-06-02"}`))
	var conflict *ConflictError
	if !errors.As(err, &conflict) || conflict.Message != "Event date already exists" {
		t.Fatalf("update to taken date: err = %v", err)
	}
	got := try(svc.Events.Get(ctx, key("ev_id", e1.ID))).must(t)
	if got.Date.String() != "2025-06-01" || got.Name != "Gala 2" {
		t.Fatalf("event after failed update = %+v", got)
	}
}

func TestUpdateMissingRecord(t *testing.T) {
	svc, _ := newServices(t)
	_, err := svc.Suppliers.Update(context.Background(), key("sup_id", 4), []byte(`{"sup_service_type":"Sound"}`))
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Error() != "Supplier not found" {
		t.Fatalf("err = %v", err)
	}
}

func TestMissingParentAbortsWrite(t *testing.T) {
	svc, _ := newServices(t)
	ctx := context.Background()
	try(svc.TicketStatuses.Create(ctx, []byte(`{"tic_status_id":1,"description":"Available"}`))).must(t)

	_, err := svc.Tickets.Create(ctx, []byte(`{"tic_type":"VIP","tic_status_id":1,"ev_id":999}`))
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Error() != "Event not found" || nf.Field != "ev_id" {
		t.Fatalf("err = %v", err)
	}
	if _, err := svc.Tickets.List(ctx); !errors.As(err, &nf) || !nf.Collection {
		t.Fatalf("tickets stored after failed create: %v", err)
	}

	_, err = svc.Staff.Create(ctx, []byte(`{"stf_name":"Sam","stf_last_name":"Poe","stf_tasks":"Setup","stf_role":"Crew","sup_id":3}`))
	if !errors.As(err, &nf) || nf.Error() != "Supplier not found" {
		t.Fatalf("staff err = %v", err)
	}
}

func TestUpdateToMissingParentLeavesRecord(t *testing.T) {
	svc, rec := newServices(t)
	ctx := context.Background()
	try(svc.TicketStatuses.Create(ctx, []byte(`{"tic_status_id":1,"description":"Available"}`))).must(t)
	ev := try(svc.Events.Create(ctx, []byte(`{"ev_name":"Gala","ev_description":"Annual","ev_date":"2025-06-01"}`))).must(t)
	tic := try(svc.Tickets.Create(ctx, []byte(`{"tic_type":"VIP","tic_status_id":1,"ev_id":`+itoa(ev.ID)+`}`))).must(t)
	before := len(rec.events)

	_, err := svc.Tickets.Update(ctx, key("tic_id", tic.ID), []byte(`{"ev_id":999,"tic_type":"General"}`))
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Error() != "Event not found" || nf.Field != "ev_id" {
		t.Fatalf("err = %v", err)
	}
	got := try(svc.Tickets.Get(ctx, key("tic_id", tic.ID))).must(t)
	if got != tic {
		t.Fatalf("ticket changed by failed update: %+v, want %+v", got, tic)
	}
	if len(rec.events) != before {
		t.Fatalf("failed update notified: %+v", rec.events[before:])
	}
}

func TestConcurrentCollidingCreates(t *testing.T) {
	svc := New(memory.New(), nil)
	ctx := context.Background()
	const n = 20

	errs := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Venues.Create(ctx, []byte(`{"vn_name":"Hall A","vn_type":"VIP","vn_capacity":100}`))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	ok, conflicts := 0, 0
	for err := range errs {
		var conflict *ConflictError
		switch {
		case err == nil:
			ok++
		case errors.As(err, &conflict) && conflict.Message == "Venue already exists":
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || conflicts != n-1 {
		t.Fatalf("ok = %d, conflicts = %d", ok, conflicts)
	}
	venues := try(svc.Venues.List(ctx)).must(t)
	if len(venues) != 1 {
		t.Fatalf("stored %d venues", len(venues))
	}
}

func TestPanicReleasesTransaction(t *testing.T) {
	svc := New(memory.New(), nil)
	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("panic not propagated")
			}
		}()
		_ = svc.Venues.inTx(context.Background(), func(repository.Tx) error { panic("boom") })
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := svc.Venues.Create(ctx, []byte(`{"vn_name":"Hall A","vn_type":"VIP","vn_capacity":100}`)); err != nil {
		t.Fatalf("create after panic: %v", err)
	}
}

func TestEventVenueAssignments(t *testing.T) {
	svc, _ := newServices(t)
	ctx := context.Background()
	ev := try(svc.Events.Create(ctx, []byte(`{"ev_name":"Gala","ev_description":"Annual","ev_date":"2025-06-01"}`))).must(t)
	vn := try(svc.Venues.Create(ctx, []byte(`{"vn_name":"Hall A","vn_type":"VIP","vn_capacity":100}`))).must(t)
	ev2 := try(svc.Events.Create(ctx, []byte(`{"ev_name":"Expo","ev_description":"Trade","ev_date":"2025-06-02"}`))).must(t)
	try(svc.EventVenues.Create(ctx, []byte(`{"ev_id":`+itoa(ev.ID)+`,"vn_id":`+itoa(vn.ID)+`}`))).must(t)

	_, err := svc.EventVenues.Create(ctx, []byte(`{"ev_id":`+itoa(ev.ID)+`,"vn_id":`+itoa(vn.ID)+`}`))
	var conflict *ConflictError
	if !errors.As(err, &conflict) || conflict.Message != "This event already has this venue assigned" {
		t.Fatalf("duplicate assignment: err = %v", err)
	}
	try(svc.EventVenues.Create(ctx, []byte(`{"ev_id":`+itoa(ev2.ID)+`,"vn_id":`+itoa(vn.ID)+`}`))).must(t)

	_, err = svc.EventVenues.Create(ctx, []byte(`{"ev_id":`+itoa(ev.ID)+`,"vn_id":77}`))
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Error() != "Venue not found" {
		t.Fatalf("missing venue: err = %v", err)
	}

	byEvent := try(svc.EventVenues.ListBy(ctx, repository.Row{"ev_id": ev.ID})).must(t)
	if len(byEvent) != 1 || byEvent[0].VenueID != vn.ID {
		t.Fatalf("assignments of event = %+v", byEvent)
	}
}

func TestPurchaseLifecycle(t *testing.T) {
	svc, rec := newServices(t)
	ctx := context.Background()
	ev := try(svc.Events.Create(ctx, []byte(`{"ev_name":"Gala","ev_description":"Annual","ev_date":"2025-06-01"}`))).must(t)
	try(svc.TicketStatuses.Create(ctx, []byte(`{"tic_status_id":1,"description":"Sold"}`))).must(t)
	tic := try(svc.Tickets.Create(ctx, []byte(`{"tic_type":"VIP","tic_status_id":1,"ev_id":`+itoa(ev.ID)+`}`))).must(t)
	att := try(svc.Attendees.Create(ctx, []byte(`{"att_name":"Ann","att_last_name":"Lee","att_email":"ann@x.com","att_phone":"0912345678"}`))).must(t)

	body := []byte(`{"att_id":` + itoa(att.ID) + `,"tic_id":` + itoa(tic.ID) + `,"purchase_date":"2025-05-01","purchase_type":"Online"}`)
	p := try(svc.Purchases.Create(ctx, body)).must(t)
	if p.Date.String() != "2025-05-01" {
		t.Fatalf("purchase = %+v", p)
	}
	_, err := svc.Purchases.Create(ctx, body)
	var conflict *ConflictError
	if !errors.As(err, &conflict) || conflict.Message != "Purchase already exists" {
		t.Fatalf("duplicate purchase: err = %v", err)
	}

	pk := repository.Row{"att_id": att.ID, "tic_id": tic.ID}
	_, err = svc.Purchases.Update(ctx, pk, []byte(`{"tic_id":5}`))
	var verr *ValidationError
	if !errors.As(err, &verr) || len(verr.Fields["tic_id"]) != 1 {
		t.Fatalf("key update: err = %v", err)
	}
	u := try(svc.Purchases.Update(ctx, pk, []byte(`{"purchase_type":"Box Office"}`))).must(t)
	if u.Type != "Box Office" || u.TicketID != tic.ID {
		t.Fatalf("updated purchase = %+v", u)
	}

	// Deleting the ticket removes the purchase with it.
	if err := svc.Tickets.Delete(ctx, key("tic_id", tic.ID)); err != nil {
		t.Fatal(err)
	}
	var nf *NotFoundError
	if _, err := svc.Purchases.Get(ctx, pk); !errors.As(err, &nf) {
		t.Fatalf("purchase after ticket delete: err = %v", err)
	}
	last := rec.events[len(rec.events)-1]
	if last.Action != queue.ActionDeleted || last.Key["tic_id"] != tic.ID {
		t.Fatalf("last notification = %+v", last)
	}
}

func TestTicketStatusKeyRules(t *testing.T) {
	svc, _ := newServices(t)
	ctx := context.Background()
	_, err := svc.TicketStatuses.Create(ctx, []byte(`{"tic_status_id":0,"description":"Void"}`))
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Fields["tic_status_id"][0] != "Must be greater than or equal to 1." {
		t.Fatalf("zero key: err = %v", err)
	}
	try(svc.TicketStatuses.Create(ctx, []byte(`{"tic_status_id":2,"description":"Reserved"}`))).must(t)
	_, err = svc.TicketStatuses.Create(ctx, []byte(`{"tic_status_id":2,"description":"Other"}`))
	var conflict *ConflictError
	if !errors.As(err, &conflict) || conflict.Message != "Ticket status already exists" {
		t.Fatalf("duplicate key: err = %v", err)
	}
}

func TestDeleteCascadesAndGetFails(t *testing.T) {
	svc, _ := newServices(t)
	ctx := context.Background()
	sup := try(svc.Suppliers.Create(ctx, []byte(`{"sup_company_name":"Acme","sup_contact_number":"0911111111","sup_service_type":"Catering"}`))).must(t)
	stf := try(svc.Staff.Create(ctx, []byte(`{"stf_name":"Sam","stf_last_name":"Poe","stf_tasks":"Setup","stf_role":"Crew","sup_id":`+itoa(sup.ID)+`}`))).must(t)
	ev := try(svc.Events.Create(ctx, []byte(`{"ev_name":"Gala","ev_description":"Annual","ev_date":"2025-06-01"}`))).must(t)
	vn := try(svc.Venues.Create(ctx, []byte(`{"vn_name":"Hall A","vn_type":"VIP","vn_capacity":100}`))).must(t)
	try(svc.StaffVenues.Create(ctx, []byte(`{"ev_id":`+itoa(ev.ID)+`,"stf_id":`+itoa(stf.ID)+`,"vn_id":`+itoa(vn.ID)+`}`))).must(t)

	if err := svc.Suppliers.Delete(ctx, key("sup_id", sup.ID)); err != nil {
		t.Fatal(err)
	}
	var nf *NotFoundError
	if _, err := svc.Suppliers.Get(ctx, key("sup_id", sup.ID)); !errors.As(err, &nf) {
		t.Fatalf("supplier after delete: err = %v", err)
	}
	if _, err := svc.Staff.Get(ctx, key("stf_id", stf.ID)); !errors.As(err, &nf) {
		t.Fatalf("staff after supplier delete: err = %v", err)
	}
	if _, err := svc.StaffVenues.List(ctx); !errors.As(err, &nf) || nf.Error() != "No staff assignments found" {
		t.Fatalf("staff venues after supplier delete: err = %v", err)
	}
	if err := svc.Suppliers.Delete(ctx, key("sup_id", sup.ID)); !errors.As(err, &nf) {
		t.Fatalf("second delete: err = %v", err)
	}
}

func TestEmptyListIsNotFound(t *testing.T) {
	svc, _ := newServices(t)
	_, err := svc.TicketStatuses.List(context.Background())
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Error() != "No ticket statuses found" {
		t.Fatalf("err = %v", err)
	}
}

func TestStoreErrorUnwraps(t *testing.T) {
	cause := errors.New("disk on fire")
	err := storeFailure(repository.Venues, "insert", cause)
	var se *StoreError
	if !errors.As(err, &se) || !errors.Is(err, cause) {
		t.Fatalf("err = %v", err)
	}
	if _, ok := storeFailure(repository.Venues, "commit", repository.ErrDuplicate).(*ConflictError); !ok {
		t.Fatal("duplicate at commit is not a conflict")
	}
}

type failing struct{}

func (failing) Notify(context.Context, queue.RecordChangedEvent) error { return errors.New("broker down") }

func TestNotifierFailureDoesNotFailWrite(t *testing.T) {
	rec := &recorder{}
	svc := New(memory.New(), Notifiers{failing{}, rec})
	if _, err := svc.Venues.Create(context.Background(), []byte(`{"vn_name":"Hall A","vn_type":"VIP","vn_capacity":100}`)); err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(rec.events) != 1 {
		t.Fatalf("second notifier skipped: %+v", rec.events)
	}
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
