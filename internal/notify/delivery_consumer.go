package notify

import (
	"context"
	"encoding/json"

	"leaveline/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Deliverer hands one confirmation to its outbound channel (mail
// gateway, SMS bridge). Best effort end to end.
type Deliverer interface {
	Deliver(ctx context.Context, address, body string) error
}

type logDeliverer struct {
	logger *zap.Logger
}

// NewLogDeliverer writes each confirmation to the log; the default
// sink until a real gateway is configured.
func NewLogDeliverer(logger ...*zap.Logger) Deliverer {
	l := zap.L().Named("notify.deliverer")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notify.deliverer")
	}
	return &logDeliverer{logger: l}
}

func (d *logDeliverer) Deliver(_ context.Context, address, body string) error {
	d.logger.Info("confirmation delivered",
		zap.String("address", address),
		zap.String("body", body),
	)
	return nil
}

// ConsumeLeaveApplied reads the confirmation topic and delivers each
// event. Delivery failures are logged and the message is left
// uncommitted for the next poll; garbled payloads are committed and
// dropped.
func ConsumeLeaveApplied(
	ctx context.Context,
	reader *kafkago.Reader,
	deliverer Deliverer,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_applied")
	log.Info("leave applied consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave applied consumer stopped")
				return
			}
			log.Error("fetch leave_applied message failed", zap.Error(err))
			continue
		}

		var event events.LeaveAppliedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode leave_applied event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := deliverer.Deliver(ctx, event.Address, event.Body); err != nil {
			log.Error("deliver confirmation failed",
				zap.String("address", event.Address),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave_applied message failed", zap.Error(err))
			continue
		}

		log.Info("confirmation processed",
			zap.String("address", event.Address),
		)
	}
}
