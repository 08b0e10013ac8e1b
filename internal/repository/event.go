package repository

import (
	"context"

	"github.com/Creastina/bambushain/internal/database"
	"github.com/Creastina/bambushain/internal/model"
)

// EventRepository handles calendar event data access
type EventRepository struct {
	db database.Database
}

// NewEventRepository creates a new event repository
func NewEventRepository(db database.Database) *EventRepository {
	return &EventRepository{db: db}
}

// ListVisible returns the events of a grove overlapping [start, end].
// Private events are only included for their owner.
func (r *EventRepository) ListVisible(ctx context.Context, groveID, userID, start, end string) ([]*model.Event, error) {
	query := `
		SELECT * FROM event
		WHERE grove = type::record($grove)
			AND start_date <= $end
			AND end_date >= $start
			AND (is_private = false OR user = type::record($user))
		ORDER BY start_date, title
	`
	vars := map[string]interface{}{
		"grove": recordID("grove", groveID),
		"user":  recordID("user", userID),
		"start": start,
		"end":   end,
	}

	records, err := queryList(ctx, r.db, query, vars)
	if err != nil {
		return nil, err
	}

	events := make([]*model.Event, 0, len(records))
	for _, data := range records {
		events = append(events, parseEvent(data))
	}
	return events, nil
}

// Get retrieves an event of a grove
func (r *EventRepository) Get(ctx context.Context, groveID, id string) (*model.Event, error) {
	data, err := queryOne(ctx, r.db, `SELECT * FROM type::record($id) WHERE grove = type::record($grove)`, map[string]interface{}{
		"id":    recordID("event", id),
		"grove": recordID("grove", groveID),
	})
	if err != nil || data == nil {
		return nil, err
	}
	return parseEvent(data), nil
}

// Create creates a new event
func (r *EventRepository) Create(ctx context.Context, event *model.Event) error {
	query := `
		CREATE event CONTENT {
			title: $title,
			description: $description,
			start_date: $start_date,
			end_date: $end_date,
			color: $color,
			is_private: $is_private,
			user: type::record($user),
			grove: type::record($grove)
		}
	`

	records, err := queryList(ctx, r.db, query, eventVars(event))
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return database.ErrQuery
	}
	event.ID = getID(records[0], "id")
	return nil
}

// Update replaces an event. Owner and grove never change.
func (r *EventRepository) Update(ctx context.Context, event *model.Event) error {
	query := `
		UPDATE type::record($id) SET
			title = $title,
			description = $description,
			start_date = $start_date,
			end_date = $end_date,
			color = $color,
			is_private = $is_private
		WHERE grove = type::record($grove)
	`
	vars := eventVars(event)
	vars["id"] = recordID("event", event.ID)

	return r.db.Execute(ctx, query, vars)
}

// Delete removes an event
func (r *EventRepository) Delete(ctx context.Context, groveID, id string) error {
	return r.db.Execute(ctx, `DELETE type::record($id) WHERE grove = type::record($grove)`, map[string]interface{}{
		"id":    recordID("event", id),
		"grove": recordID("grove", groveID),
	})
}

func eventVars(event *model.Event) map[string]interface{} {
	return map[string]interface{}{
		"title":       event.Title,
		"description": event.Description,
		"start_date":  event.StartDate,
		"end_date":    event.EndDate,
		"color":       event.Color,
		"is_private":  event.IsPrivate,
		"user":        recordID("user", event.UserID),
		"grove":       recordID("grove", event.GroveID),
	}
}

func parseEvent(data map[string]interface{}) *model.Event {
	return &model.Event{
		ID:          getID(data, "id"),
		Title:       getString(data, "title"),
		Description: getString(data, "description"),
		StartDate:   getString(data, "start_date"),
		EndDate:     getString(data, "end_date"),
		Color:       getString(data, "color"),
		IsPrivate:   getBool(data, "is_private"),
		UserID:      getID(data, "user"),
		GroveID:     getID(data, "grove"),
	}
}
