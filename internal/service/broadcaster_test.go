package service

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/Creastina/bambushain/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// receive waits for the next frame of a subscriber
func receive(t *testing.T, sub *Subscriber) string {
	t.Helper()
	select {
	case frame := <-sub.Frames:
		return frame
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for frame")
		return ""
	}
}

func assertNoFrame(t *testing.T, sub *Subscriber) {
	t.Helper()
	select {
	case frame := <-sub.Frames:
		t.Fatalf("unexpected frame %q", frame)
	default:
	}
}

func TestEventBroadcaster_SubscribeSendsConnected(t *testing.T) {
	t.Parallel()
	b := NewEventBroadcaster(time.Hour)
	defer b.Close()

	sub := b.Subscribe(&model.User{ID: "user:panda", GroveID: "grove:test"})

	assert.Equal(t, ": connected\n\n", receive(t, sub))
	assert.Equal(t, 1, b.SubscriberCount())
	assert.NotEmpty(t, sub.ID)
}

func TestEventBroadcaster_PublishFiltersByVisibility(t *testing.T) {
	t.Parallel()
	b := NewEventBroadcaster(time.Hour)
	defer b.Close()

	owner := b.Subscribe(&model.User{ID: "user:panda", GroveID: "grove:test"})
	neighbor := b.Subscribe(&model.User{ID: "user:neighbor", GroveID: "grove:test"})
	stranger := b.Subscribe(&model.User{ID: "user:stranger", GroveID: "grove:other"})
	for _, sub := range []*Subscriber{owner, neighbor, stranger} {
		receive(t, sub)
	}

	public := &model.Event{ID: "event:1", Title: "Raid", UserID: "user:panda", GroveID: "grove:test"}
	b.Publish(EventCreated, public)

	frame := receive(t, neighbor)
	require.True(t, strings.HasPrefix(frame, "event: created\ndata: "), "unexpected frame %q", frame)
	require.True(t, strings.HasSuffix(frame, "\n\n"))

	payload := strings.TrimSuffix(strings.TrimPrefix(frame, "event: created\ndata: "), "\n\n")
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(payload), &decoded))
	assert.Equal(t, "event:1", decoded["id"])
	assert.NotContains(t, decoded, "user_id")

	receive(t, owner)
	assertNoFrame(t, stranger)

	private := &model.Event{ID: "event:2", IsPrivate: true, UserID: "user:panda", GroveID: "grove:test"}
	b.Publish(EventDeleted, private)

	assert.True(t, strings.HasPrefix(receive(t, owner), "event: deleted\n"))
	assertNoFrame(t, neighbor)
	assertNoFrame(t, stranger)
}

func TestEventBroadcaster_Unsubscribe(t *testing.T) {
	t.Parallel()
	b := NewEventBroadcaster(time.Hour)
	defer b.Close()

	sub := b.Subscribe(&model.User{ID: "user:panda", GroveID: "grove:test"})
	b.Unsubscribe(sub)

	assert.Equal(t, 0, b.SubscriberCount())
	select {
	case <-sub.Done:
	default:
		t.Fatal("expected Done to be closed")
	}

	// Unsubscribing twice is harmless
	b.Unsubscribe(sub)
}

func TestEventBroadcaster_FullBufferSkipsFrame(t *testing.T) {
	t.Parallel()
	b := NewEventBroadcaster(time.Hour)
	defer b.Close()

	sub := b.Subscribe(&model.User{ID: "user:panda", GroveID: "grove:test"})
	event := &model.Event{ID: "event:1", UserID: "user:panda", GroveID: "grove:test"}
	for i := 0; i < subscriberBuffer*2; i++ {
		b.Publish(EventUpdated, event)
	}

	assert.Len(t, sub.Frames, subscriberBuffer)
	assert.Equal(t, 1, b.SubscriberCount(), "a full buffer must not disconnect on broadcast")
}

func TestEventBroadcaster_PingDropsUnresponsive(t *testing.T) {
	t.Parallel()
	b := NewEventBroadcaster(10 * time.Millisecond)
	defer b.Close()

	stuck := b.Subscribe(&model.User{ID: "user:stuck", GroveID: "grove:test"})
	for i := 0; i < subscriberBuffer; i++ {
		b.hub.broadcast("data: filler\n\n", nil)
	}

	select {
	case <-stuck.Done:
	case <-time.After(time.Second):
		t.Fatal("expected unresponsive subscriber to be dropped")
	}
	assert.Equal(t, 0, b.SubscriberCount())
}

func TestEventBroadcaster_PingKeepsReaders(t *testing.T) {
	t.Parallel()
	b := NewEventBroadcaster(10 * time.Millisecond)
	defer b.Close()

	sub := b.Subscribe(&model.User{ID: "user:panda", GroveID: "grove:test"})
	receive(t, sub)

	assert.Equal(t, ": ping\n\n", receive(t, sub))
	assert.Equal(t, 1, b.SubscriberCount())
}

func TestEventBroadcaster_Close(t *testing.T) {
	t.Parallel()
	b := NewEventBroadcaster(time.Hour)

	sub := b.Subscribe(&model.User{ID: "user:panda", GroveID: "grove:test"})
	b.Close()
	b.Close()

	assert.Equal(t, 0, b.SubscriberCount())
	select {
	case <-sub.Done:
	default:
		t.Fatal("expected Done to be closed")
	}
}

func TestBroadcaster_SubscribeAfterClose(t *testing.T) {
	t.Parallel()
	events := NewEventBroadcaster(time.Hour)
	calendar := NewCalendarBroadcaster(time.Hour)
	events.Close()
	calendar.Close()

	user := &model.User{ID: "user:panda", GroveID: "grove:test"}
	for name, sub := range map[string]*Subscriber{
		"event":    events.Subscribe(user),
		"calendar": calendar.Subscribe(user),
	} {
		select {
		case <-sub.Done:
		default:
			t.Fatalf("%s: expected Done to be closed", name)
		}
	}

	assert.Equal(t, 0, events.SubscriberCount())
	assert.Equal(t, 0, calendar.SubscriberCount())

	late := calendar.Subscribe(user)
	assert.NotPanics(t, func() { calendar.Unsubscribe(late) })
	receive(t, late)
	calendar.Notify()
	assertNoFrame(t, late)
}

func TestCalendarBroadcaster_Notify(t *testing.T) {
	t.Parallel()
	b := NewCalendarBroadcaster(time.Hour)
	defer b.Close()

	first := b.Subscribe(&model.User{ID: "user:panda", GroveID: "grove:test"})
	second := b.Subscribe(&model.User{ID: "user:stranger", GroveID: "grove:other"})

	assert.Equal(t, "data: connected\n\n", receive(t, first))
	assert.Equal(t, "data: connected\n\n", receive(t, second))

	b.Notify()

	assert.Equal(t, "data: new data\n\n", receive(t, first))
	assert.Equal(t, "data: new data\n\n", receive(t, second))
	assert.Equal(t, 2, b.SubscriberCount())

	b.Unsubscribe(first)
	assert.Equal(t, 1, b.SubscriberCount())
}
