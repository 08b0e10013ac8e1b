package model

import (
	"regexp"
	"time"
)

// DateLayout is the wire and storage format of event dates
const DateLayout = "2006-01-02"

// DefaultEventColor is used when an event is created without a color
const DefaultEventColor = "#9f2637"

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Event is an entry in the grove calendar. Private events are only visible
// to the user who created them.
type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Color       string `json:"color"`
	IsPrivate   bool   `json:"is_private"`
	UserID      string `json:"-"`
	GroveID     string `json:"-"`
}

// VisibleTo reports whether the event may be delivered to the given user
func (e *Event) VisibleTo(userID, groveID string) bool {
	if e.IsPrivate {
		return e.UserID == userID
	}
	return e.GroveID == groveID
}

// EventRequest creates or updates an event
type EventRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"max=4000"`
	StartDate   string `json:"start_date" validate:"required"`
	EndDate     string `json:"end_date" validate:"required"`
	Color       string `json:"color"`
	IsPrivate   bool   `json:"is_private"`
}

// Validate checks the date range and color of the request
func (r *EventRequest) Validate() []FieldError {
	var errors []FieldError

	start, startErr := time.Parse(DateLayout, r.StartDate)
	if startErr != nil {
		errors = append(errors, FieldError{Field: "start_date", Message: "start_date must be formatted as YYYY-MM-DD"})
	}
	end, endErr := time.Parse(DateLayout, r.EndDate)
	if endErr != nil {
		errors = append(errors, FieldError{Field: "end_date", Message: "end_date must be formatted as YYYY-MM-DD"})
	}
	if startErr == nil && endErr == nil && end.Before(start) {
		errors = append(errors, FieldError{Field: "end_date", Message: "end_date must not be before start_date"})
	}

	if r.Color != "" && !hexColorPattern.MatchString(r.Color) {
		errors = append(errors, FieldError{Field: "color", Message: "color must be a hex color like #9f2637"})
	}

	return errors
}

// ParseDateRange parses a start and end date pair as used by the calendar
// query parameters
func ParseDateRange(start, end string) (time.Time, time.Time, error) {
	from, err := time.Parse(DateLayout, start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := time.Parse(DateLayout, end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}
