package mq

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"jpos/models"
)

// Channel carries hold and stock notices between service instances.
const Channel = "jpos-events"

// Publisher emits notices. Emission failures are logged by implementations
// and never fail the request that caused them.
type Publisher interface {
	Emit(ctx context.Context, n models.Notice)
}

// Nop drops every notice.
type Nop struct{}

func (Nop) Emit(context.Context, models.Notice) {}

// Bus publishes notices on a Redis channel and relays received ones.
type Bus struct {
	conn    *redis.Client
	channel string
	logger  *zap.Logger
}

func NewBus(conn *redis.Client, logger *zap.Logger) *Bus {
	return &Bus{conn: conn, channel: Channel, logger: logger}
}

// Emit publishes the notice.
func (b *Bus) Emit(ctx context.Context, n models.Notice) {
	if n.At.IsZero() {
		n.At = time.Now().UTC()
	}
	data, err := json.Marshal(n)
	if err != nil {
		b.logger.Error("marshal notice", zap.Error(err))
		return
	}
	if err := b.conn.Publish(ctx, b.channel, data).Err(); err != nil {
		b.logger.Warn("publish notice", zap.String("type", n.Type), zap.Error(err))
		return
	}
	b.logger.Debug("notice published", zap.String("type", n.Type), zap.Int64("product_id", n.ProductID))
}

// Run subscribes to the channel and hands every decoded notice to deliver
// until ctx is cancelled.
func (b *Bus) Run(ctx context.Context, deliver func(models.Notice)) error {
	sub := b.conn.Subscribe(ctx, b.channel)
	defer sub.Close()

	b.logger.Info("listening for notices", zap.String("channel", b.channel))
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			n, err := Decode([]byte(msg.Payload))
			if err != nil {
				b.logger.Warn("bad notice payload", zap.Error(err))
				continue
			}
			deliver(n)
		}
	}
}

// Decode parses a notice payload.
func Decode(data []byte) (models.Notice, error) {
	var n models.Notice
	err := json.Unmarshal(data, &n)
	return n, err
}
