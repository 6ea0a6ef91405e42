package realtime

import (
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/homeslice-backend/internal/platform/logger"
)

func TestHubBroadcastReachesOnlySubscribers(t *testing.T) {
	hub := NewHub(logger.NewNop())
	householdID := uuid.New()
	channel := HouseholdChannel(householdID)

	subscribed := hub.NewClient(uuid.New())
	bystander := hub.NewClient(uuid.New())
	hub.Subscribe(subscribed, channel)
	hub.Subscribe(bystander, UserChannel(bystander.UserID))

	msg := Message{Channel: channel, Event: EventChoreUpdate, Data: map[string]any{"action": ActionCreated}}
	hub.Broadcast(msg)

	select {
	case got := <-subscribed.Outbound:
		if got.Event != EventChoreUpdate {
			t.Fatalf("event = %s", got.Event)
		}
	default:
		t.Fatalf("subscriber received nothing")
	}
	select {
	case got := <-bystander.Outbound:
		t.Fatalf("bystander received %+v", got)
	default:
	}
}

func TestHubUnsubscribeStopsDelivery(t *testing.T) {
	hub := NewHub(logger.NewNop())
	channel := HouseholdChannel(uuid.New())
	client := hub.NewClient(uuid.New())

	hub.Subscribe(client, channel)
	hub.Unsubscribe(client, channel)
	hub.Broadcast(Message{Channel: channel, Event: EventThreadUpdate})

	select {
	case got := <-client.Outbound:
		t.Fatalf("unsubscribed client received %+v", got)
	default:
	}
}

func TestHubRemoveClientClearsAllChannels(t *testing.T) {
	hub := NewHub(logger.NewNop())
	a := HouseholdChannel(uuid.New())
	b := HouseholdChannel(uuid.New())
	client := hub.NewClient(uuid.New())

	hub.Subscribe(client, a)
	hub.Subscribe(client, b)
	hub.RemoveClient(client)

	hub.Broadcast(Message{Channel: a, Event: EventHouseholdUpdate})
	hub.Broadcast(Message{Channel: b, Event: EventHouseholdUpdate})
	select {
	case got := <-client.Outbound:
		t.Fatalf("removed client received %+v", got)
	default:
	}
	if len(client.Channels) != 0 {
		t.Fatalf("channels not cleared: %v", client.Channels)
	}
}

func TestHubFullBufferDoesNotBlock(t *testing.T) {
	hub := NewHub(logger.NewNop())
	channel := HouseholdChannel(uuid.New())
	client := hub.NewClient(uuid.New())
	hub.Subscribe(client, channel)

	// overflow the outbound buffer; Broadcast must drop, not hang
	for i := 0; i < cap(client.Outbound)+5; i++ {
		hub.Broadcast(Message{Channel: channel, Event: EventMessageUpdate})
	}
	if got := len(client.Outbound); got != cap(client.Outbound) {
		t.Fatalf("buffered = %d, want full buffer %d", got, cap(client.Outbound))
	}
}
