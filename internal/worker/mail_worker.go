package worker

import (
	"Go_Stow/config"
	"Go_Stow/internal/logging"
	"Go_Stow/internal/mq"
	"Go_Stow/internal/task"
	"Go_Stow/utils"
	"context"
	"encoding/json"
	"errors"
	"net/textproto"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/time/rate"
)

// Sender delivers one verification mail.
type Sender interface {
	SendVerificationCode(ctx context.Context, to, code string) error
}

// RetryPublisher parks failed messages for a later attempt or dead-letters them.
type RetryPublisher interface {
	PublishRetry(ctx context.Context, body []byte, delay time.Duration) error
	PublishDLQ(ctx context.Context, body []byte) error
}

type dlqMessage struct {
	ID       string    `json:"id"`
	To       string    `json:"to"`
	Attempt  int       `json:"attempt"`
	Error    string    `json:"error"`
	FailedAt time.Time `json:"failed_at"`
}

// MailWorker sends queued verification mails.
type MailWorker struct {
	sender     Sender
	publisher  RetryPublisher
	limiter    *rate.Limiter
	retryMax   int
	retryDelay []time.Duration
}

// NewMailWorker builds a worker from the mail settings in cfg.
func NewMailWorker(cfg config.Config, sender Sender, publisher RetryPublisher) *MailWorker {
	burst := cfg.MailBurst
	if burst <= 0 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Inf, burst)
	if cfg.MailRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.MailRate), burst)
	}
	retryMax := cfg.MailRetryMax
	if retryMax < 0 {
		retryMax = 0
	}
	return &MailWorker{
		sender:     sender,
		publisher:  publisher,
		limiter:    limiter,
		retryMax:   retryMax,
		retryDelay: cfg.MailRetryDelays,
	}
}

// RunMailWorker consumes the mail queue until ctx is done.
func RunMailWorker(ctx context.Context, sender Sender) error {
	cfg := config.AppConfig
	client, err := mq.Dial()
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.DeclareTopology(); err != nil {
		return err
	}

	prefetch := cfg.RabbitMQPrefetch
	if prefetch <= 0 {
		prefetch = 1
	}
	if err := client.Channel.Qos(prefetch, 0, false); err != nil {
		return err
	}

	deliveries, err := client.Channel.Consume(
		mq.QueueMail,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	concurrency := cfg.MailWorkerConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	sem := make(chan struct{}, concurrency)
	w := NewMailWorker(cfg, sender, client)

	for {
		select {
		case <-ctx.Done():
			return nil
		case delivery, ok := <-deliveries:
			if !ok {
				return errors.New("mail worker: delivery channel closed")
			}
			sem <- struct{}{}
			go func(d amqp.Delivery) {
				defer func() { <-sem }()
				w.Handle(ctx, d)
			}(delivery)
		}
	}
}

// Handle processes one delivery and always settles it.
func (w *MailWorker) Handle(ctx context.Context, delivery amqp.Delivery) {
	var msg task.MailMessage
	if err := json.Unmarshal(delivery.Body, &msg); err != nil {
		logging.L().Warn("mail worker: invalid message", "err", err)
		_ = delivery.Ack(false)
		return
	}
	if msg.Kind != "" && msg.Kind != task.MailKindVerificationCode {
		logging.L().Warn("mail worker: unknown kind", "kind", msg.Kind, "id", msg.ID)
		_ = delivery.Ack(false)
		return
	}

	if err := w.limiter.Wait(ctx); err != nil {
		_ = delivery.Nack(false, true)
		return
	}

	if err := w.sender.SendVerificationCode(ctx, msg.To, msg.Code); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			_ = delivery.Nack(false, true)
			return
		}
		var settleErr error
		if shouldRetry(err) {
			settleErr = w.scheduleRetry(ctx, msg, err)
		} else {
			settleErr = w.markFailed(ctx, msg, err)
		}
		if settleErr != nil {
			logging.L().Error("mail worker: settle failed", "id", msg.ID, "err", settleErr)
			_ = delivery.Nack(false, true)
			return
		}
		_ = delivery.Ack(false)
		return
	}

	logging.L().Info("mail worker: sent", "id", msg.ID, "attempt", msg.Attempt)
	_ = delivery.Ack(false)
}

// shouldRetry treats permanent SMTP replies and missing configuration as final.
func shouldRetry(err error) bool {
	if errors.Is(err, utils.ErrSMTPConfigMissing) {
		return false
	}
	var protoErr *textproto.Error
	if errors.As(err, &protoErr) {
		return protoErr.Code < 500
	}
	return true
}

func (w *MailWorker) scheduleRetry(ctx context.Context, msg task.MailMessage, sendErr error) error {
	nextAttempt := msg.Attempt + 1
	if w.retryMax == 0 || nextAttempt > w.retryMax {
		return w.markFailed(ctx, msg, sendErr)
	}

	delay := pickRetryDelay(nextAttempt, w.retryDelay)
	msg.Attempt = nextAttempt
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	logging.L().Warn("mail worker: retry scheduled", "id", msg.ID, "attempt", nextAttempt, "delay", delay, "err", sendErr)
	return w.publisher.PublishRetry(ctx, body, delay)
}

func (w *MailWorker) markFailed(ctx context.Context, msg task.MailMessage, sendErr error) error {
	dlq := dlqMessage{
		ID:       msg.ID,
		To:       msg.To,
		Attempt:  msg.Attempt,
		Error:    sendErr.Error(),
		FailedAt: time.Now(),
	}
	body, err := json.Marshal(dlq)
	if err != nil {
		return err
	}
	logging.L().Error("mail worker: giving up", "id", msg.ID, "attempt", msg.Attempt, "err", sendErr)
	if err := w.publisher.PublishDLQ(ctx, body); err != nil {
		logging.L().Error("mail worker: dlq publish failed", "id", msg.ID, "err", err)
	}
	return nil
}

func pickRetryDelay(attempt int, delays []time.Duration) time.Duration {
	if len(delays) == 0 {
		return 0
	}
	index := attempt - 1
	if index < 0 {
		index = 0
	}
	if index >= len(delays) {
		return delays[len(delays)-1]
	}
	return delays[index]
}
