package services

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/devfolio/portfolio-backend/internal/feedback"
)

// eventsChannel carries new-submission events between instances.
const eventsChannel = "feedback:events"

// FeedConn is the minimal websocket surface the feed needs.
type FeedConn interface {
	WriteJSON(v interface{}) error
	ReadJSON(dest interface{}) error
	Close() error
}

// EventBridge connects the admin live feed to Redis pub/sub. Publishing
// goes through Redis so every instance sees every submission; the
// subscriber fans received events out to locally connected admins.
type EventBridge struct {
	client *redis.Client

	mu    sync.RWMutex
	conns map[uuid.UUID]FeedConn

	subscribeOnce sync.Once
}

func NewEventBridge(client *redis.Client) *EventBridge {
	return &EventBridge{
		client: client,
		conns:  make(map[uuid.UUID]FeedConn),
	}
}

// PublishSubmission implements feedback.Publisher.
func (b *EventBridge) PublishSubmission(ctx context.Context, evt feedback.Event) error {
	if b.client == nil {
		// No Redis: single-instance deployment, fan out directly.
		b.fanOut(evt)
		return nil
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, eventsChannel, data).Err()
}

// Register adds an admin connection and returns the handle used to
// unregister it on disconnect.
func (b *EventBridge) Register(conn FeedConn) uuid.UUID {
	id := uuid.New()
	b.mu.Lock()
	b.conns[id] = conn
	b.mu.Unlock()
	return id
}

func (b *EventBridge) Unregister(id uuid.UUID) {
	b.mu.Lock()
	delete(b.conns, id)
	b.mu.Unlock()
}

func (b *EventBridge) fanOut(evt feedback.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, conn := range b.conns {
		// Non-blocking best-effort send.
		go func(c FeedConn) {
			if err := c.WriteJSON(evt); err != nil {
				log.Printf("error writing feed event to websocket: %v", err)
			}
		}(conn)
	}
}

// StartSubscriber launches the shared Redis listener, once.
func (b *EventBridge) StartSubscriber(ctx context.Context) {
	if b.client == nil {
		return
	}
	b.subscribeOnce.Do(func() {
		go b.runSubscriber(ctx)
	})
}

func (b *EventBridge) runSubscriber(ctx context.Context) {
	backoff := time.Second

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		func() {
			pubsub := b.client.Subscribe(ctx, eventsChannel)
			defer pubsub.Close()

			log.Printf("✅ Feed subscriber started (channel: %s)", eventsChannel)

			for {
				msg, err := pubsub.ReceiveMessage(ctx)
				if err != nil {
					log.Printf("feed subscriber error: %v", err)
					time.Sleep(backoff)
					backoff *= 2
					if backoff > 30*time.Second {
						backoff = 30 * time.Second
					}
					return
				}

				backoff = time.Second

				var evt feedback.Event
				if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
					log.Printf("failed to unmarshal feed event: %v", err)
					continue
				}
				b.fanOut(evt)
			}
		}()
	}
}
