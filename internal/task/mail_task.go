package task

import (
	"Go_Stow/internal/mq"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const MailKindVerificationCode = "verification_code"

// MailMessage is the payload sent to the mail worker.
type MailMessage struct {
	ID       string    `json:"id"`
	Kind     string    `json:"kind"`
	To       string    `json:"to"`
	Code     string    `json:"code"`
	Attempt  int       `json:"attempt"`
	QueuedAt time.Time `json:"queued_at"`
}

// Publisher publishes an encoded mail message.
type Publisher interface {
	PublishMail(ctx context.Context, body []byte) error
}

// QueueMailer hands verification mails to the mail worker through RabbitMQ.
type QueueMailer struct {
	publisher func() (Publisher, error)
}

// NewQueueMailer publishes through the shared mq publisher.
func NewQueueMailer() *QueueMailer {
	return &QueueMailer{publisher: func() (Publisher, error) {
		return mq.GetPublisher()
	}}
}

// NewQueueMailerWith publishes through p.
func NewQueueMailerWith(p Publisher) *QueueMailer {
	return &QueueMailer{publisher: func() (Publisher, error) { return p, nil }}
}

// SendVerificationCode enqueues a verification mail.
func (m *QueueMailer) SendVerificationCode(ctx context.Context, to, code string) error {
	msg := MailMessage{
		ID:       uuid.NewString(),
		Kind:     MailKindVerificationCode,
		To:       to,
		Code:     code,
		QueuedAt: time.Now(),
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	pub, err := m.publisher()
	if err != nil {
		return fmt.Errorf("mail publisher: %w", err)
	}
	if err := pub.PublishMail(ctx, body); err != nil {
		return fmt.Errorf("publish mail: %w", err)
	}
	return nil
}
