// Package hub fans complaint timeline events out to live websocket
// subscribers. Events travel through Redis Pub/Sub so any server
// instance can deliver to its own connections.
package hub

import (
	"encoding/json"
	"log"

	"crms/backend/internal/models"
	"crms/backend/internal/storage"
)

// Manager tracks live subscriptions and routes timeline events to the
// clients watching each complaint.
type Manager struct {
	clients map[Client]struct{}

	RegisterCh   chan Client
	UnregisterCh chan Client

	Storage *storage.Service

	eventCh chan models.TimelineEvent
}

func NewManager(s *storage.Service) *Manager {
	return &Manager{
		clients:      make(map[Client]struct{}),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		Storage:      s,
		eventCh:      make(chan models.TimelineEvent),
	}
}

// startPubSubListener consumes the Redis timeline channels and feeds
// events into the manager loop.
func (m *Manager) startPubSubListener() {
	go func() {
		pubsub := m.Storage.SubscribeTimelines()
		defer pubsub.Close()

		for msg := range pubsub.Channel() {
			var ev models.TimelineEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Printf("ERROR: Bad timeline event payload: %v", err)
				continue
			}
			m.eventCh <- ev
		}
	}()
}

// Run is the manager's main loop. It owns the clients map; all
// registration and fan-out happens on this goroutine.
func (m *Manager) Run() {
	m.startPubSubListener()

	for {
		select {
		case client := <-m.RegisterCh:
			m.clients[client] = struct{}{}
			log.Printf("INFO: User %s subscribed to complaint %s timeline",
				client.GetUserID(), client.GetComplaintID())

		case client := <-m.UnregisterCh:
			if _, ok := m.clients[client]; ok {
				delete(m.clients, client)
				client.Close()
			}

		case ev := <-m.eventCh:
			for client := range m.clients {
				if client.GetComplaintID() != ev.ComplaintID {
					continue
				}
				select {
				case client.GetSendChannel() <- ev:
				default:
					// Slow consumer; drop the subscription.
					delete(m.clients, client)
					client.Close()
				}
			}
		}
	}
}
