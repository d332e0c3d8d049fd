package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/charitymap/charitymap-api/internal/domain"
	"github.com/charitymap/charitymap-api/internal/service"
	"github.com/charitymap/charitymap-api/pkg/events"
)

func newEventsService(repo *mockEventsRepo) service.EventsService {
	return service.NewEventsService(repo, events.NewNoopBus())
}

func testActor(id int64, org string) *domain.User {
	return &domain.User{ID: id, Email: "org@example.com", OrganizationName: org}
}

func testDate(t *testing.T) domain.Date {
	t.Helper()
	d, err := time.Parse("2006-01-02", "2026-09-12")
	if err != nil {
		t.Fatal(err)
	}
	return domain.Date{Time: d}
}

func strPtr(s string) *string { return &s }

func TestCreateDerivesHostAndOwner(t *testing.T) {
	repo := newMockEventsRepo()
	svc := newEventsService(repo)

	e, err := svc.Create(context.Background(), testActor(7, "Helping Hands"), &domain.CreateEventRequest{
		Name:     "Food Drive",
		Date:     testDate(t),
		Location: "Main St Community Center",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if e.Host != "Helping Hands" {
		t.Errorf("host = %q, want the acting organization", e.Host)
	}
	if e.UserID == nil || *e.UserID != 7 {
		t.Errorf("user_id = %v, want 7", e.UserID)
	}
}

func TestCreateDefaultsDescription(t *testing.T) {
	repo := newMockEventsRepo()
	svc := newEventsService(repo)

	e, err := svc.Create(context.Background(), testActor(1, "Org"), &domain.CreateEventRequest{
		Name:     "Cleanup Day",
		Date:     testDate(t),
		Location: "Riverside Park",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if e.Description == nil || *e.Description != "No description provided." {
		t.Errorf("description = %v, want default", e.Description)
	}
}

func TestUpdateByNonOwnerRejected(t *testing.T) {
	repo := newMockEventsRepo()
	svc := newEventsService(repo)
	ctx := context.Background()

	owner := testActor(1, "Owner Org")
	e, err := svc.Create(ctx, owner, &domain.CreateEventRequest{
		Name:     "Original Name",
		Date:     testDate(t),
		Location: "Somewhere",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	intruder := testActor(2, "Other Org")
	_, err = svc.Update(ctx, intruder, e.ID, &domain.UpdateEventRequest{Name: strPtr("Hijacked")})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}

	// The record is untouched.
	got, err := svc.Get(ctx, e.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Original Name" {
		t.Errorf("name = %q, non-owner update mutated the record", got.Name)
	}

	if err := svc.Delete(ctx, intruder, e.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("delete err = %v, want ErrForbidden", err)
	}
}

func TestPartialUpdateKeepsOmittedFields(t *testing.T) {
	repo := newMockEventsRepo()
	svc := newEventsService(repo)
	ctx := context.Background()

	owner := testActor(1, "Org")
	e, err := svc.Create(ctx, owner, &domain.CreateEventRequest{
		Name:        "Bake Sale",
		Date:        testDate(t),
		Location:    "Town Hall",
		Description: strPtr("Annual fundraiser"),
		ContactInfo: strPtr("baker@org.com"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := svc.Update(ctx, owner, e.ID, &domain.UpdateEventRequest{
		Name: strPtr("Spring Bake Sale"),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Spring Bake Sale" {
		t.Errorf("name = %q", updated.Name)
	}
	if updated.Description == nil || *updated.Description != "Annual fundraiser" {
		t.Errorf("description = %v, want previous value retained", updated.Description)
	}
	if updated.ContactInfo == nil || *updated.ContactInfo != "baker@org.com" {
		t.Errorf("contact_info = %v, want previous value retained", updated.ContactInfo)
	}
	if updated.Location != "Town Hall" {
		t.Errorf("location = %q, want previous value retained", updated.Location)
	}
	if updated.Host != "Org" {
		t.Errorf("host = %q, must never change", updated.Host)
	}
}

func TestUpdateMissingEvent(t *testing.T) {
	svc := newEventsService(newMockEventsRepo())

	_, err := svc.Update(context.Background(), testActor(1, "Org"), 999, &domain.UpdateEventRequest{Name: strPtr("X")})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteByOwner(t *testing.T) {
	repo := newMockEventsRepo()
	svc := newEventsService(repo)
	ctx := context.Background()

	owner := testActor(1, "Org")
	e, err := svc.Create(ctx, owner, &domain.CreateEventRequest{
		Name:     "Gala",
		Date:     testDate(t),
		Location: "Ballroom",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(ctx, owner, e.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(ctx, e.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Get after delete: err = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(ctx, owner, e.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete: err = %v, want ErrNotFound", err)
	}
}

func TestListByOwner(t *testing.T) {
	repo := newMockEventsRepo()
	svc := newEventsService(repo)
	ctx := context.Background()

	a := testActor(1, "Org A")
	b := testActor(2, "Org B")
	if _, err := svc.Create(ctx, a, &domain.CreateEventRequest{Name: "A1", Date: testDate(t), Location: "L"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(ctx, b, &domain.CreateEventRequest{Name: "B1", Date: testDate(t), Location: "L"}); err != nil {
		t.Fatal(err)
	}

	mine, err := svc.ListByOwner(ctx, a.ID)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(mine) != 1 || mine[0].Name != "A1" {
		t.Errorf("ListByOwner = %+v, want only A1", mine)
	}

	all, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("List returned %d events, want 2", len(all))
	}
}
