package service

import (
	"context"
	"strings"

	"github.com/Creastina/bambushain/internal/model"
)

// EventRepository defines the interface for calendar event storage
type EventRepository interface {
	// ListVisible returns events overlapping [start, end] that the user may
	// see, ordered by start date
	ListVisible(ctx context.Context, groveID, userID, start, end string) ([]*model.Event, error)
	Get(ctx context.Context, groveID, id string) (*model.Event, error)
	Create(ctx context.Context, event *model.Event) error
	Update(ctx context.Context, event *model.Event) error
	Delete(ctx context.Context, groveID, id string) error
}

// EventPublisher receives event changes, implemented by EventBroadcaster
type EventPublisher interface {
	Publish(action EventAction, event *model.Event)
}

// CalendarNotifier receives a signal on every calendar change, implemented
// by CalendarBroadcaster
type CalendarNotifier interface {
	Notify()
}

// EventService manages the grove calendar
type EventService struct {
	eventRepo EventRepository
	publisher EventPublisher
	calendar  CalendarNotifier
}

// EventServiceConfig holds configuration for the event service
type EventServiceConfig struct {
	EventRepo EventRepository
	Publisher EventPublisher
	Calendar  CalendarNotifier
}

// NewEventService creates a new event service
func NewEventService(cfg EventServiceConfig) *EventService {
	return &EventService{
		eventRepo: cfg.EventRepo,
		publisher: cfg.Publisher,
		calendar:  cfg.Calendar,
	}
}

// List returns the events of the user's grove between start and end
// (inclusive, YYYY-MM-DD). Private events of other users are left out.
func (s *EventService) List(ctx context.Context, user *model.User, start, end string) ([]*model.Event, error) {
	from, to, err := model.ParseDateRange(start, end)
	if err != nil {
		return nil, ErrInvalidDateRange
	}
	if from.After(to) {
		return nil, ErrInvalidDateRange
	}

	return s.eventRepo.ListVisible(ctx, user.GroveID, user.ID, start, end)
}

// Get returns an event the user is allowed to see
func (s *EventService) Get(ctx context.Context, user *model.User, id string) (*model.Event, error) {
	event, err := s.eventRepo.Get(ctx, user.GroveID, id)
	if err != nil {
		return nil, err
	}
	if event == nil || !event.VisibleTo(user.ID, user.GroveID) {
		return nil, ErrEventNotFound
	}
	return event, nil
}

// Create adds an event to the user's grove
func (s *EventService) Create(ctx context.Context, user *model.User, req model.EventRequest) (*model.Event, error) {
	if req.StartDate > req.EndDate {
		return nil, ErrInvalidDateRange
	}

	event := &model.Event{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Color:       colorOrDefault(req.Color),
		IsPrivate:   req.IsPrivate,
		UserID:      user.ID,
		GroveID:     user.GroveID,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	s.notify(EventCreated, event)
	return event, nil
}

// Update replaces an event. Private events can only be changed by their owner.
func (s *EventService) Update(ctx context.Context, user *model.User, id string, req model.EventRequest) (*model.Event, error) {
	if req.StartDate > req.EndDate {
		return nil, ErrInvalidDateRange
	}

	event, err := s.Get(ctx, user, id)
	if err != nil {
		return nil, err
	}

	event.Title = strings.TrimSpace(req.Title)
	event.Description = req.Description
	event.StartDate = req.StartDate
	event.EndDate = req.EndDate
	event.Color = colorOrDefault(req.Color)
	// Only the owner can change the visibility
	if event.UserID == user.ID {
		event.IsPrivate = req.IsPrivate
	}
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}

	s.notify(EventUpdated, event)
	return event, nil
}

// Delete removes an event
func (s *EventService) Delete(ctx context.Context, user *model.User, id string) error {
	event, err := s.Get(ctx, user, id)
	if err != nil {
		return err
	}

	if err := s.eventRepo.Delete(ctx, user.GroveID, id); err != nil {
		return err
	}

	s.notify(EventDeleted, event)
	return nil
}

func (s *EventService) notify(action EventAction, event *model.Event) {
	if s.publisher != nil {
		s.publisher.Publish(action, event)
	}
	if s.calendar != nil {
		s.calendar.Notify()
	}
}

func colorOrDefault(color string) string {
	if color == "" {
		return model.DefaultEventColor
	}
	return color
}
