package service

import (
	"context"
	"fmt"
	"time"

	"github.com/charitymap/charitymap-api/internal/domain"
	"github.com/charitymap/charitymap-api/internal/repo/postgres"
	"github.com/charitymap/charitymap-api/pkg/events"
	"github.com/charitymap/charitymap-api/pkg/logger"
)

const defaultDescription = "No description provided."

type EventsService interface {
	List(ctx context.Context) ([]domain.Event, error)
	Get(ctx context.Context, id int64) (*domain.Event, error)
	ListByOwner(ctx context.Context, userID int64) ([]domain.Event, error)
	Create(ctx context.Context, actor *domain.User, req *domain.CreateEventRequest) (*domain.Event, error)
	Update(ctx context.Context, actor *domain.User, id int64, req *domain.UpdateEventRequest) (*domain.Event, error)
	Delete(ctx context.Context, actor *domain.User, id int64) error
}

type eventsService struct {
	events postgres.EventsRepo
	bus    events.Publisher
}

func NewEventsService(repo postgres.EventsRepo, bus events.Publisher) EventsService {
	return &eventsService{events: repo, bus: bus}
}

func (s *eventsService) List(ctx context.Context) ([]domain.Event, error) {
	es, err := s.events.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return es, nil
}

func (s *eventsService) Get(ctx context.Context, id int64) (*domain.Event, error) {
	e, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

func (s *eventsService) ListByOwner(ctx context.Context, userID int64) ([]domain.Event, error) {
	es, err := s.events.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return es, nil
}

func (s *eventsService) Create(ctx context.Context, actor *domain.User, req *domain.CreateEventRequest) (*domain.Event, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, &domain.ValidationError{Msg: err.Error()}
	}

	if req.Description == nil {
		desc := defaultDescription
		req.Description = &desc
	}

	// Host and owner always come from the acting identity; the request has
	// no fields for them.
	e, err := s.events.Create(ctx, req, actor.OrganizationName, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	if err := s.bus.Publish(ctx, events.EventCreated, events.EventCreatedEvent{
		EventID:   e.ID,
		Name:      e.Name,
		Host:      e.Host,
		OwnerID:   actor.ID,
		CreatedAt: time.Now(),
	}); err != nil {
		logger.WarnContext(ctx, "Failed to publish event.created", "error", err, "event_id", e.ID)
	}

	return e, nil
}

func (s *eventsService) Update(ctx context.Context, actor *domain.User, id int64, req *domain.UpdateEventRequest) (*domain.Event, error) {
	if err := req.Validate(); err != nil {
		return nil, &domain.ValidationError{Msg: err.Error()}
	}

	if err := s.authorizeOwner(ctx, actor, id); err != nil {
		return nil, err
	}

	// The update is scoped to the owner's row, so a concurrent delete
	// degrades to not-found instead of a partial write.
	e, err := s.events.Update(ctx, id, actor.ID, req)
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}

	if err := s.bus.Publish(ctx, events.EventUpdated, events.EventUpdatedEvent{
		EventID:   e.ID,
		OwnerID:   actor.ID,
		UpdatedAt: time.Now(),
	}); err != nil {
		logger.WarnContext(ctx, "Failed to publish event.updated", "error", err, "event_id", e.ID)
	}

	return e, nil
}

func (s *eventsService) Delete(ctx context.Context, actor *domain.User, id int64) error {
	if err := s.authorizeOwner(ctx, actor, id); err != nil {
		return err
	}

	ok, err := s.events.Delete(ctx, id, actor.ID)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if !ok {
		return domain.ErrNotFound
	}

	if err := s.bus.Publish(ctx, events.EventDeleted, events.EventDeletedEvent{
		EventID:   id,
		OwnerID:   actor.ID,
		DeletedAt: time.Now(),
	}); err != nil {
		logger.WarnContext(ctx, "Failed to publish event.deleted", "error", err, "event_id", id)
	}

	return nil
}

// authorizeOwner loads the target and enforces the ownership policy:
// mutation is permitted only for the creating user.
func (s *eventsService) authorizeOwner(ctx context.Context, actor *domain.User, id int64) error {
	e, err := s.events.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get event: %w", err)
	}
	if e == nil {
		return domain.ErrNotFound
	}
	if e.UserID == nil || *e.UserID != actor.ID {
		return domain.ErrForbidden
	}
	return nil
}
