package service

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/Creastina/bambushain/internal/model"
	"github.com/google/uuid"
)

// DefaultPingInterval is how often subscribers receive a keep-alive comment
const DefaultPingInterval = 10 * time.Second

// subscriberBuffer is the number of frames a slow client may fall behind
const subscriberBuffer = 10

// SSE frames
const (
	framePing              = ": ping\n\n"
	frameEventConnected    = ": connected\n\n"
	frameCalendarConnected = "data: connected\n\n"
	frameCalendarNewData   = "data: new data\n\n"
)

// EventAction names the change that happened to an event
type EventAction string

const (
	EventCreated EventAction = "created"
	EventUpdated EventAction = "updated"
	EventDeleted EventAction = "deleted"
)

// Subscriber represents a connected SSE client. Frames are preformatted
// and can be written to the response as they are.
type Subscriber struct {
	ID      string
	UserID  string
	GroveID string
	Frames  chan string
	Done    chan struct{}
}

// hub is the subscriber list shared by both broadcasters. A ping is sent on
// every tick and subscribers whose ping cannot be delivered are dropped.
type hub struct {
	name        string
	mu          sync.Mutex
	subscribers map[string]*Subscriber
	ticker      *time.Ticker
	done        chan struct{}
	closeOnce   sync.Once
	closed      bool
}

func newHub(name string, pingInterval time.Duration) *hub {
	if pingInterval <= 0 {
		pingInterval = DefaultPingInterval
	}
	h := &hub{
		name:        name,
		subscribers: make(map[string]*Subscriber),
		ticker:      time.NewTicker(pingInterval),
		done:        make(chan struct{}),
	}
	go h.sendPings()
	return h
}

func (h *hub) subscribe(user *model.User, initial string) *Subscriber {
	sub := &Subscriber{
		ID:      uuid.New().String(),
		UserID:  user.ID,
		GroveID: user.GroveID,
		Frames:  make(chan string, subscriberBuffer),
		Done:    make(chan struct{}),
	}
	sub.Frames <- initial

	h.mu.Lock()
	defer h.mu.Unlock()
	// A closed hub hands out subscribers that are already done
	if h.closed {
		close(sub.Done)
		return sub
	}
	h.subscribers[sub.ID] = sub
	return sub
}

func (h *hub) unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(sub.ID)
}

// removeLocked must be called with mu held
func (h *hub) removeLocked(id string) {
	if sub, ok := h.subscribers[id]; ok {
		close(sub.Done)
		delete(h.subscribers, id)
	}
}

// broadcast delivers a frame to every subscriber accepted by filter. A full
// buffer skips the subscriber for this frame.
func (h *hub) broadcast(frame string, filter func(*Subscriber) bool) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	delivered := 0
	for _, sub := range h.subscribers {
		if filter != nil && !filter(sub) {
			continue
		}
		select {
		case sub.Frames <- frame:
			delivered++
		default:
		}
	}
	return delivered
}

func (h *hub) ping() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, sub := range h.subscribers {
		select {
		case sub.Frames <- framePing:
		default:
			slog.Debug("dropping unresponsive subscriber", "broadcaster", h.name, "subscriber_id", id)
			h.removeLocked(id)
		}
	}
}

func (h *hub) sendPings() {
	for {
		select {
		case <-h.ticker.C:
			h.ping()
		case <-h.done:
			return
		}
	}
}

func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

func (h *hub) close() {
	h.closeOnce.Do(func() {
		close(h.done)
		h.ticker.Stop()

		h.mu.Lock()
		defer h.mu.Unlock()
		h.closed = true
		for id := range h.subscribers {
			h.removeLocked(id)
		}
	})
}

// EventBroadcaster pushes event changes to the clients allowed to see them
type EventBroadcaster struct {
	hub *hub
}

// NewEventBroadcaster creates the broadcaster and starts its ping loop
func NewEventBroadcaster(pingInterval time.Duration) *EventBroadcaster {
	return &EventBroadcaster{hub: newHub("event", pingInterval)}
}

// Subscribe registers a client. The first frame is a connected comment.
func (b *EventBroadcaster) Subscribe(user *model.User) *Subscriber {
	return b.hub.subscribe(user, frameEventConnected)
}

// Unsubscribe removes a client
func (b *EventBroadcaster) Unsubscribe(sub *Subscriber) {
	b.hub.unsubscribe(sub)
}

// Publish sends the event to every subscriber that can see it: the owner
// for private events, the whole grove otherwise
func (b *EventBroadcaster) Publish(action EventAction, event *model.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("failed to encode event for broadcast", "event_id", event.ID, "error", err)
		return
	}

	frame := "event: " + string(action) + "\ndata: " + string(data) + "\n\n"
	b.hub.broadcast(frame, func(sub *Subscriber) bool {
		return event.VisibleTo(sub.UserID, sub.GroveID)
	})
}

// SubscriberCount returns the number of connected clients
func (b *EventBroadcaster) SubscriberCount() int {
	return b.hub.count()
}

// Close stops the ping loop and disconnects all clients
func (b *EventBroadcaster) Close() {
	b.hub.close()
}

// CalendarBroadcaster tells clients to reload the calendar. It carries no
// payload and is not filtered.
type CalendarBroadcaster struct {
	hub *hub
}

// NewCalendarBroadcaster creates the broadcaster and starts its ping loop
func NewCalendarBroadcaster(pingInterval time.Duration) *CalendarBroadcaster {
	return &CalendarBroadcaster{hub: newHub("calendar", pingInterval)}
}

// Subscribe registers a client. The first frame is "data: connected".
func (b *CalendarBroadcaster) Subscribe(user *model.User) *Subscriber {
	return b.hub.subscribe(user, frameCalendarConnected)
}

// Unsubscribe removes a client
func (b *CalendarBroadcaster) Unsubscribe(sub *Subscriber) {
	b.hub.unsubscribe(sub)
}

// Notify sends "new data" to every client
func (b *CalendarBroadcaster) Notify() {
	b.hub.broadcast(frameCalendarNewData, nil)
}

// SubscriberCount returns the number of connected clients
func (b *CalendarBroadcaster) SubscriberCount() int {
	return b.hub.count()
}

// Close stops the ping loop and disconnects all clients
func (b *CalendarBroadcaster) Close() {
	b.hub.close()
}
