package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	DefaultChannel = "trotropay:notifications"
	publishTimeout = 2 * time.Second
)

type envelope struct {
	UserIDs []uint          `json:"userIds"`
	Payload json.RawMessage `json:"payload"`
}

// RedisRelay publishes events on a Redis channel so every server instance
// can deliver them to the connections it holds.
type RedisRelay struct {
	client  *redis.Client
	hub     *Hub
	channel string
}

var _ Notifier = (*RedisRelay)(nil)

func NewRedisRelay(client *redis.Client, hub *Hub, channel string) *RedisRelay {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisRelay{client: client, hub: hub, channel: channel}
}

// Notify publishes in the background and returns immediately.
func (r *RedisRelay) Notify(_ context.Context, userIDs []uint, payload interface{}) {
	raw, err := json.Marshal(payload)
	if err != nil {
		logrus.WithError(err).Error("Failed to encode notification payload.")
		return
	}
	msg, err := json.Marshal(envelope{UserIDs: userIDs, Payload: raw})
	if err != nil {
		logrus.WithError(err).Error("Failed to encode notification envelope.")
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := r.client.Publish(ctx, r.channel, msg).Err(); err != nil {
			logrus.WithError(err).WithField("channel", r.channel).Warn("Failed to publish notification, delivering locally.")
			r.hub.Deliver(userIDs, raw)
		}
	}()
}

// Run subscribes to the channel and hands every event to the local hub
// until ctx is cancelled.
func (r *RedisRelay) Run(ctx context.Context) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	logrus.WithField("channel", r.channel).Info("Notification relay subscribed.")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var env envelope
			if err := json.Unmarshal([]byte(m.Payload), &env); err != nil {
				logrus.WithError(err).Warn("Dropping malformed relay message.")
				continue
			}
			r.hub.Deliver(env.UserIDs, env.Payload)
		}
	}
}
