package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/charitymap/charitymap-api/internal/domain"
)

// mockStore backs both the users and invites repos with one mutex so the
// invite-consume plus user-create step is atomic, like the real
// transaction.
type mockStore struct {
	mu         sync.Mutex
	nextUserID int64
	users      map[string]*domain.User        // by email
	invites    map[string]*domain.InviteToken // by token
}

func newMockStore() *mockStore {
	return &mockStore{
		nextUserID: 1,
		users:      make(map[string]*domain.User),
		invites:    make(map[string]*domain.InviteToken),
	}
}

func (m *mockStore) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[email]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *mockStore) FindByID(_ context.Context, id int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockStore) CreateWithInvite(_ context.Context, email, hash, orgName, inviteToken string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	inv, ok := m.invites[inviteToken]
	if !ok || inv.Used || inv.Email != email {
		return nil, domain.ErrInvalidInvite
	}
	if _, exists := m.users[email]; exists {
		return nil, domain.ErrEmailTaken
	}

	inv.Used = true
	u := &domain.User{
		ID:               m.nextUserID,
		Email:            email,
		PasswordHash:     hash,
		OrganizationName: orgName,
		CreatedAt:        time.Now(),
	}
	m.nextUserID++
	m.users[email] = u
	cp := *u
	return &cp, nil
}

func (m *mockStore) FindUnusedByEmail(_ context.Context, email string) (*domain.InviteToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, inv := range m.invites {
		if inv.Email == email && !inv.Used {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockStore) FindUnusedByToken(_ context.Context, token string) (*domain.InviteToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if inv, ok := m.invites[token]; ok && !inv.Used {
		cp := *inv
		return &cp, nil
	}
	return nil, nil
}

func (m *mockStore) Create(_ context.Context, token, email string) (*domain.InviteToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv := &domain.InviteToken{
		ID:        int64(len(m.invites) + 1),
		Token:     token,
		Email:     email,
		CreatedAt: time.Now(),
	}
	m.invites[token] = inv
	cp := *inv
	return &cp, nil
}

type mockMailer struct {
	mu      sync.Mutex
	sent    []string // recipient emails
	sendErr error
}

func (m *mockMailer) SendInviteEmail(toEmail, inviteURL, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, toEmail)
	return m.sendErr
}

// mockEventsRepo mirrors the SQL repo's semantics: owner-scoped updates
// and deletes, nil fields left untouched.
type mockEventsRepo struct {
	mu     sync.Mutex
	nextID int64
	events map[int64]*domain.Event
}

func newMockEventsRepo() *mockEventsRepo {
	return &mockEventsRepo{nextID: 1, events: make(map[int64]*domain.Event)}
}

func (m *mockEventsRepo) Create(_ context.Context, in *domain.CreateEventRequest, host string, userID int64) (*domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	uid := userID
	e := &domain.Event{
		ID:          m.nextID,
		Name:        in.Name,
		Host:        host,
		Date:        in.Date,
		Location:    in.Location,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		Description: in.Description,
		ContactInfo: in.ContactInfo,
		UserID:      &uid,
	}
	m.nextID++
	m.events[e.ID] = e
	cp := *e
	return &cp, nil
}

func (m *mockEventsRepo) GetByID(_ context.Context, id int64) (*domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.events[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, nil
}

func (m *mockEventsRepo) List(_ context.Context) ([]domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	es := []domain.Event{}
	for _, e := range m.events {
		es = append(es, *e)
	}
	return es, nil
}

func (m *mockEventsRepo) ListByOwner(_ context.Context, userID int64) ([]domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	es := []domain.Event{}
	for _, e := range m.events {
		if e.UserID != nil && *e.UserID == userID {
			es = append(es, *e)
		}
	}
	return es, nil
}

func (m *mockEventsRepo) Update(_ context.Context, id, ownerID int64, in *domain.UpdateEventRequest) (*domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.events[id]
	if !ok || e.UserID == nil || *e.UserID != ownerID {
		return nil, nil
	}
	if in.Name != nil {
		e.Name = *in.Name
	}
	if in.Date != nil {
		e.Date = *in.Date
	}
	if in.Location != nil {
		e.Location = *in.Location
	}
	if in.Latitude != nil {
		e.Latitude = in.Latitude
	}
	if in.Longitude != nil {
		e.Longitude = in.Longitude
	}
	if in.Description != nil {
		e.Description = in.Description
	}
	if in.ContactInfo != nil {
		e.ContactInfo = in.ContactInfo
	}
	cp := *e
	return &cp, nil
}

func (m *mockEventsRepo) Delete(_ context.Context, id, ownerID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.events[id]
	if !ok || e.UserID == nil || *e.UserID != ownerID {
		return false, nil
	}
	delete(m.events, id)
	return true, nil
}
