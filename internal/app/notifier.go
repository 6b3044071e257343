package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"leaveline/internal/events"
	"leaveline/internal/notify"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunNotifier consumes the confirmation topic and delivers each
// message until interrupted.
func RunNotifier() error {
	logger := zap.L().Named("app.notifier")

	broker := os.Getenv("KAFKA_BROKER")
	if broker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	topic := getenv("NOTIFY_TOPIC", events.LeaveAppliedTopic)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{broker},
		Topic:          topic,
		GroupID:        "leaveline-notifier",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go notify.ConsumeLeaveApplied(ctx, reader, notify.NewLogDeliverer(), logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("notifier shutting down")
	cancel()

	return nil
}
