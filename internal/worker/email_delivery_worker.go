package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"yamdb-api/internal/mail"
	"yamdb-api/internal/platform/rabbitmq"
)

// EmailDeliveryWorker drains the email queue into a mail.Sender. Failed
// deliveries are dropped, not requeued.
type EmailDeliveryWorker struct {
	conn      *amqp.Connection
	sender    mail.Sender
	queueName string
	logger    *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewEmailDeliveryWorker(conn *amqp.Connection, sender mail.Sender, queueName string, logger *slog.Logger) *EmailDeliveryWorker {
	return &EmailDeliveryWorker{
		conn:      conn,
		sender:    sender,
		queueName: queueName,
		logger:    logger,
	}
}

func (w *EmailDeliveryWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	if _, err := rabbitmq.DeclareQueue(ch, w.queueName); err != nil {
		_ = ch.Close()
		cancel()
		return err
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

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
					return
				}
				if err := w.handle(workerCtx, d.Body); err != nil {
					w.logger.Error("email delivery failed", "error", err, "message_id", d.MessageId)
					_ = d.Nack(false, false)
					continue
				}
				_ = d.Ack(false)
			}
		}
	}()

	return nil
}

func (w *EmailDeliveryWorker) handle(ctx context.Context, body []byte) error {
	var msg mail.Message
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("decode email failed: %w", err)
	}
	if len(msg.To) == 0 {
		return fmt.Errorf("email %s has no recipients", msg.ID)
	}
	if err := w.sender.Send(ctx, msg); err != nil {
		return err
	}
	w.logger.Info("email delivered", "message_id", msg.ID, "to", msg.To)
	return nil
}

func (w *EmailDeliveryWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
