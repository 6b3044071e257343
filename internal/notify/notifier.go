package notify

import (
	"context"
	"encoding/json"
	"time"

	"leaveline/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Notifier delivers a confirmation message to an employee address.
// Fire-and-forget: implementations must never block the dialogue and
// never surface failures to the caller.
type Notifier interface {
	Notify(ctx context.Context, address, body string)
}

type noopNotifier struct{}

func NewNoopNotifier() Notifier {
	return noopNotifier{}
}

func (noopNotifier) Notify(context.Context, string, string) {}

type kafkaNotifier struct {
	writer *kafkago.Writer
	topic  string
	logger *zap.Logger
}

func NewKafkaNotifier(writer *kafkago.Writer, topic string, logger ...*zap.Logger) Notifier {
	l := zap.L().Named("notify.kafka")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notify.kafka")
	}
	if topic == "" {
		topic = events.LeaveAppliedTopic
	}
	return &kafkaNotifier{writer: writer, topic: topic, logger: l}
}

// Notify publishes in a detached goroutine with its own deadline; the
// prompt already computed for the caller must never wait on this.
func (n *kafkaNotifier) Notify(_ context.Context, address, body string) {
	event := events.LeaveAppliedEvent{
		EventType:  "leave_applied",
		Address:    address,
		Body:       body,
		OccurredAt: time.Now().UTC(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		payload, err := json.Marshal(event)
		if err != nil {
			n.logger.Error("encode leave_applied event failed", zap.Error(err))
			return
		}

		err = n.writer.WriteMessages(ctx, kafkago.Message{
			Topic: n.topic,
			Key:   []byte(address),
			Value: payload,
			Headers: []kafkago.Header{
				{Key: "event_type", Value: []byte(event.EventType)},
			},
		})
		if err != nil {
			// Swallowed on purpose: the leave request is applied even
			// when the confirmation never arrives.
			n.logger.Error("publish leave_applied event failed",
				zap.String("address", address),
				zap.Error(err),
			)
			return
		}

		n.logger.Info("confirmation queued",
			zap.String("address", address),
			zap.String("topic", n.topic),
		)
	}()
}
