package domain

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar date serialized as "YYYY-MM-DD".
type Date struct {
	time.Time
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	d.Time = t
	return nil
}

// Event is a charity event shown on the map. Host and UserID are derived
// from the creating identity and never change after creation.
type Event struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Host        string   `json:"host"`
	Date        Date     `json:"date"`
	Location    string   `json:"location"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Description *string  `json:"description"`
	ContactInfo *string  `json:"contact_info"`
	UserID      *int64   `json:"user_id"`
}

// CreateEventRequest deliberately has no host or user_id field; both come
// from the authenticated identity.
type CreateEventRequest struct {
	Name        string   `json:"name"`
	Date        Date     `json:"date"`
	Location    string   `json:"location"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Description *string  `json:"description"`
	ContactInfo *string  `json:"contact_info"`
}

// UpdateEventRequest carries partial updates; nil fields keep their stored
// values. Host is not updatable.
type UpdateEventRequest struct {
	Name        *string  `json:"name"`
	Date        *Date    `json:"date"`
	Location    *string  `json:"location"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Description *string  `json:"description"`
	ContactInfo *string  `json:"contact_info"`
}

func (r *CreateEventRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Location = strings.TrimSpace(r.Location)
}

func (r *CreateEventRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if r.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	if r.Location == "" {
		return fmt.Errorf("location is required")
	}
	return nil
}

func (r *UpdateEventRequest) Validate() error {
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if r.Location != nil && strings.TrimSpace(*r.Location) == "" {
		return fmt.Errorf("location cannot be empty")
	}
	if r.Date != nil && r.Date.IsZero() {
		return fmt.Errorf("date cannot be empty")
	}
	return nil
}
