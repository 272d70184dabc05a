// Package bus delivers permission and picker results to the coordinator
// through a watermill topic.
package bus

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/reglet-dev/sysdialog/domain/entities"
	"github.com/reglet-dev/sysdialog/domain/errors"
)

// DefaultTopic carries encoded entities.Event envelopes.
const DefaultTopic = "sysdialog.events"

const metadataType = "event_type"

// EventHandler consumes decoded events. The coordinator implements it.
type EventHandler interface {
	HandleEvent(ctx context.Context, ev entities.Event) error
}

type inboxConfig struct {
	logger   *slog.Logger
	topic    string
	blocking bool
}

// Option configures an Inbox.
type Option func(*inboxConfig)

// WithTopic sets the topic name.
func WithTopic(topic string) Option {
	return func(c *inboxConfig) {
		if topic != "" {
			c.topic = topic
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *inboxConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithAsyncPublish makes Publish return without waiting for the handler.
func WithAsyncPublish() Option {
	return func(c *inboxConfig) {
		c.blocking = false
	}
}

// Inbox serialises events onto a single subscriber goroutine. By default
// Publish returns only after the handler has processed the event.
type Inbox struct {
	pubsub *gochannel.GoChannel
	config inboxConfig
	wg     sync.WaitGroup
}

// NewInbox creates an Inbox backed by an in-process gochannel pub/sub.
func NewInbox(opts ...Option) *Inbox {
	cfg := inboxConfig{
		logger:   slog.Default(),
		topic:    DefaultTopic,
		blocking: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Inbox{
		pubsub: gochannel.NewGoChannel(
			gochannel.Config{
				OutputChannelBuffer:            100,
				Persistent:                     false,
				BlockPublishUntilSubscriberAck: cfg.blocking,
			},
			watermill.NewSlogLogger(cfg.logger),
		),
		config: cfg,
	}
}

// Start subscribes h to the topic and consumes events until ctx is done or
// the inbox is closed. Events published before Start are dropped. h receives
// ctx with every event; gochannel hands subscribers a copy of each message
// without the publisher's context.
func (i *Inbox) Start(ctx context.Context, h EventHandler) error {
	messages, err := i.pubsub.Subscribe(ctx, i.config.topic)
	if err != nil {
		return &errors.EventError{Op: "subscribe", Err: err}
	}

	i.wg.Add(1)
	go func() {
		defer i.wg.Done()
		for msg := range messages {
			i.deliver(ctx, msg, h)
		}
	}()
	return nil
}

func (i *Inbox) deliver(ctx context.Context, msg *message.Message, h EventHandler) {
	// Acked regardless of outcome; a redelivered event would be routed twice.
	defer msg.Ack()

	ev, err := entities.DecodeEvent(msg.Payload)
	if err != nil {
		i.config.logger.Warn("dropping undecodable event",
			"message_uuid", msg.UUID,
			"error", errors.ToErrorDetail(&errors.EventError{Op: "decode", Err: err}))
		return
	}

	if err := h.HandleEvent(ctx, ev); err != nil {
		i.config.logger.Warn("event handler failed",
			"message_uuid", msg.UUID,
			"event_type", string(ev.EventType()),
			"error", errors.ToErrorDetail(err))
	}
}

// Publish encodes ev and puts it on the topic.
func (i *Inbox) Publish(ctx context.Context, ev entities.Event) error {
	data, err := entities.EncodeEvent(ev)
	if err != nil {
		return &errors.EventError{Op: "encode", Err: err}
	}
	return i.publish(ctx, data, string(ev.EventType()))
}

// PublishJSON puts an already encoded envelope on the topic. The envelope is
// checked before publishing.
func (i *Inbox) PublishJSON(ctx context.Context, data []byte) error {
	ev, err := entities.DecodeEvent(data)
	if err != nil {
		return &errors.EventError{Op: "decode", Err: err}
	}
	return i.publish(ctx, data, string(ev.EventType()))
}

func (i *Inbox) publish(ctx context.Context, data []byte, eventType string) error {
	if err := ctx.Err(); err != nil {
		return &errors.EventError{Op: "publish", Err: err}
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set(metadataType, eventType)

	if err := i.pubsub.Publish(i.config.topic, msg); err != nil {
		return &errors.EventError{Op: "publish", Err: fmt.Errorf("topic %s: %w", i.config.topic, err)}
	}
	return nil
}

// Close stops delivery and waits for the subscriber goroutine to exit.
func (i *Inbox) Close() error {
	err := i.pubsub.Close()
	i.wg.Wait()
	return err
}
