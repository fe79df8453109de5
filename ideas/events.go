package ideas

import (
	"context"
	"encoding/json"
	"time"

	Logger "github.com/automuse/studio/utils/log"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Topics the external publisher subscribes to. This process never performs
// the scheduled -> published transition itself, it only announces schedule
// changes here and exposes MarkPublished as the storage-side hook.
const (
	TopicPostScheduled = "posts.scheduled"
	TopicPostCancelled = "posts.cancelled"
)

// PostEvent is the JSON payload published on schedule changes.
type PostEvent struct {
	SelectionId string     `json:"selection_id"`
	IdeaId      string     `json:"idea_id"`
	Platform    string     `json:"platform"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
}

// EventBus is a thin wrapper over the in-process gochannel pub/sub. A nil
// *EventBus is valid and drops all events, which keeps the storage layer
// usable without wiring.
type EventBus struct {
	channel *gochannel.GoChannel
}

func NewEventBus() *EventBus {
	return &EventBus{
		channel: gochannel.NewGoChannel(
			gochannel.Config{},
			watermill.NewStdLogger(false, false),
		),
	}
}

// Subscribe hands out the raw message stream for a topic. Used by the
// external-publisher adapter and by tests.
func (b *EventBus) Subscribe(topic string) (<-chan *message.Message, error) {
	return b.channel.Subscribe(context.Background(), topic)
}

func (b *EventBus) publish(topic string, event PostEvent) {
	if b == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		Logger.Log.Error("fail to encode post event: ", err)
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	if err := b.channel.Publish(topic, msg); err != nil {
		Logger.Log.Error("fail to publish post event: ", err)
	}
}
