package profile

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/anjal-tejani/dayflow-hr-hub/internal/events"
)

// SignupConsumer turns signup events into Profile rows. CreateFromSignup is
// idempotent, so redelivered events commit cleanly.
type SignupConsumer struct {
	reader  *kafka.Reader
	service Service
	logger  *zap.Logger
}

func NewSignupConsumer(
	broker string,
	groupID string,
	service Service,
	logger ...*zap.Logger,
) *SignupConsumer {
	l := zap.L().Named("profile.consumer")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("profile.consumer")
	}

	return &SignupConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:        []string{broker},
			Topic:          events.UserSignedUpTopic,
			GroupID:        groupID,
			CommitInterval: time.Second,
			StartOffset:    kafka.FirstOffset,
		}),
		service: service,
		logger:  l,
	}
}

func (c *SignupConsumer) Close() error {
	return c.reader.Close()
}

func (c *SignupConsumer) Run(ctx context.Context) {
	c.logger.Info("signup consumer started")

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("signup consumer stopped")
				return
			}
			c.logger.Error("fetch signup message failed", zap.Error(err))
			continue
		}

		var event events.UserSignedUpEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			c.logger.Error("decode user_signed_up event failed", zap.Error(err))
			_ = c.reader.CommitMessages(ctx, msg)
			continue
		}

		if _, err := c.service.CreateFromSignup(ctx, event); err != nil {
			// Leave the message uncommitted so the broker redelivers it.
			c.logger.Error("create profile from signup event failed",
				zap.String("user_id", event.UserID),
				zap.Error(err),
			)
			continue
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Error("commit signup message failed", zap.Error(err))
			continue
		}

		c.logger.Info("profile created from signup event",
			zap.String("user_id", event.UserID),
		)
	}
}
