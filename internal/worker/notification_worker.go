package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"feedgraph/internal/model"
	"feedgraph/internal/pkg/logger"
	"feedgraph/internal/platform/rabbitmq"
)

var errMalformedEvent = errors.New("malformed feed event")

// NotificationRecorder persists a delivered feed event.
type NotificationRecorder interface {
	Record(ctx context.Context, event model.FeedEvent) (*model.Notification, error)
}

// NotificationWorker consumes feed events and stores them as notifications
// for their recipients.
type NotificationWorker struct {
	conn      *amqp.Connection
	recorder  NotificationRecorder
	queueName string
	prefetch  int

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewNotificationWorker(conn *amqp.Connection, recorder NotificationRecorder, queueName string) *NotificationWorker {
	return &NotificationWorker{
		conn:      conn,
		recorder:  recorder,
		queueName: queueName,
		prefetch:  32,
	}
}

func (w *NotificationWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	ch, err := w.conn.Channel()
	if err != nil {
		return fmt.Errorf("open worker channel failed: %w", err)
	}
	if err := rabbitmq.DeclareQueue(ch, w.queueName); err != nil {
		_ = ch.Close()
		return err
	}
	if err := ch.Qos(w.prefetch, 0, false); err != nil {
		_ = ch.Close()
		return fmt.Errorf("set worker qos failed: %w", err)
	}

	deliveries, err := ch.Consume(w.queueName, "", false, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					logger.Warn("notification worker delivery channel closed", zap.String("queue", w.queueName))
					return
				}
				w.dispatch(workerCtx, d)
			}
		}
	}()

	logger.Info("notification worker started", zap.String("queue", w.queueName))
	return nil
}

// dispatch acks stored events, drops malformed ones and requeues events that
// failed on storage once.
func (w *NotificationWorker) dispatch(ctx context.Context, d amqp.Delivery) {
	err := w.Handle(ctx, d.Body)
	switch {
	case err == nil:
		_ = d.Ack(false)
	case errors.Is(err, errMalformedEvent):
		logger.Warn("notification worker dropped event", zap.Error(err))
		_ = d.Nack(false, false)
	default:
		logger.Error("notification worker persist failed",
			zap.Bool("redelivered", d.Redelivered),
			zap.Error(err),
		)
		_ = d.Nack(false, !d.Redelivered)
	}
}

// Handle decodes one message body and records it.
func (w *NotificationWorker) Handle(ctx context.Context, body []byte) error {
	var event model.FeedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("%w: %v", errMalformedEvent, err)
	}
	if event.Kind == "" || event.RecipientID == 0 || event.ActorID == 0 {
		return fmt.Errorf("%w: missing kind or participants", errMalformedEvent)
	}
	if _, err := w.recorder.Record(ctx, event); err != nil {
		return err
	}
	return nil
}

func (w *NotificationWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
