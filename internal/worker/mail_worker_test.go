package worker

import (
	"Go_Stow/config"
	"Go_Stow/internal/task"
	"Go_Stow/utils"
	"context"
	"encoding/json"
	"errors"
	"net/textproto"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAck struct {
	mu      sync.Mutex
	acked   int
	nacked  int
	requeue bool
}

func (a *fakeAck) Ack(tag uint64, multiple bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acked++
	return nil
}

func (a *fakeAck) Nack(tag uint64, multiple bool, requeue bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nacked++
	a.requeue = requeue
	return nil
}

func (a *fakeAck) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

type fakeSender struct {
	err  error
	sent []string
}

func (s *fakeSender) SendVerificationCode(ctx context.Context, to, code string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, to+":"+code)
	return nil
}

type retryCall struct {
	body  []byte
	delay time.Duration
}

type fakePublisher struct {
	retries []retryCall
	dlq     [][]byte
}

func (p *fakePublisher) PublishRetry(ctx context.Context, body []byte, delay time.Duration) error {
	p.retries = append(p.retries, retryCall{body: body, delay: delay})
	return nil
}

func (p *fakePublisher) PublishDLQ(ctx context.Context, body []byte) error {
	p.dlq = append(p.dlq, body)
	return nil
}

func testConfig() config.Config {
	return config.Config{
		MailRetryMax:    2,
		MailRetryDelays: []time.Duration{time.Second, time.Minute},
	}
}

func delivery(t *testing.T, ack *fakeAck, msg task.MailMessage) amqp.Delivery {
	t.Helper()
	body, err := json.Marshal(msg)
	require.NoError(t, err)
	return amqp.Delivery{Acknowledger: ack, Body: body}
}

func TestHandleSendsAndAcks(t *testing.T) {
	sender := &fakeSender{}
	pub := &fakePublisher{}
	w := NewMailWorker(testConfig(), sender, pub)
	ack := &fakeAck{}

	w.Handle(context.Background(), delivery(t, ack, task.MailMessage{ID: "m1", To: "a@x.com", Code: "123456"}))

	assert.Equal(t, []string{"a@x.com:123456"}, sender.sent)
	assert.Equal(t, 1, ack.acked)
	assert.Empty(t, pub.retries)
	assert.Empty(t, pub.dlq)
}

func TestHandleSchedulesRetry(t *testing.T) {
	pub := &fakePublisher{}
	w := NewMailWorker(testConfig(), &fakeSender{err: errors.New("connection reset")}, pub)
	ack := &fakeAck{}

	w.Handle(context.Background(), delivery(t, ack, task.MailMessage{ID: "m1", To: "a@x.com", Code: "123456"}))

	require.Len(t, pub.retries, 1)
	assert.Equal(t, time.Second, pub.retries[0].delay)
	var next task.MailMessage
	require.NoError(t, json.Unmarshal(pub.retries[0].body, &next))
	assert.Equal(t, 1, next.Attempt)
	assert.Equal(t, 1, ack.acked)
}

func TestHandleDeadLettersAfterRetryMax(t *testing.T) {
	pub := &fakePublisher{}
	w := NewMailWorker(testConfig(), &fakeSender{err: errors.New("connection reset")}, pub)
	ack := &fakeAck{}

	w.Handle(context.Background(), delivery(t, ack, task.MailMessage{ID: "m1", To: "a@x.com", Attempt: 2}))

	assert.Empty(t, pub.retries)
	require.Len(t, pub.dlq, 1)
	var dead dlqMessage
	require.NoError(t, json.Unmarshal(pub.dlq[0], &dead))
	assert.Equal(t, "m1", dead.ID)
	assert.Equal(t, "connection reset", dead.Error)
	assert.Equal(t, 1, ack.acked)
}

func TestHandlePermanentFailureSkipsRetry(t *testing.T) {
	pub := &fakePublisher{}
	w := NewMailWorker(testConfig(), &fakeSender{err: &textproto.Error{Code: 550, Msg: "mailbox unavailable"}}, pub)
	ack := &fakeAck{}

	w.Handle(context.Background(), delivery(t, ack, task.MailMessage{ID: "m1", To: "nobody@x.com"}))

	assert.Empty(t, pub.retries)
	assert.Len(t, pub.dlq, 1)
}

func TestHandleInvalidBodyIsDropped(t *testing.T) {
	w := NewMailWorker(testConfig(), &fakeSender{}, &fakePublisher{})
	ack := &fakeAck{}

	w.Handle(context.Background(), amqp.Delivery{Acknowledger: ack, Body: []byte("{")})

	assert.Equal(t, 1, ack.acked)
}

func TestHandleCanceledContextRequeues(t *testing.T) {
	w := NewMailWorker(testConfig(), &fakeSender{err: context.Canceled}, &fakePublisher{})
	ack := &fakeAck{}

	w.Handle(context.Background(), delivery(t, ack, task.MailMessage{ID: "m1", To: "a@x.com"}))

	assert.Equal(t, 1, ack.nacked)
	assert.True(t, ack.requeue)
}

func TestShouldRetry(t *testing.T) {
	assert.True(t, shouldRetry(errors.New("timeout")))
	assert.True(t, shouldRetry(&textproto.Error{Code: 421}))
	assert.False(t, shouldRetry(&textproto.Error{Code: 554}))
	assert.False(t, shouldRetry(utils.ErrSMTPConfigMissing))
}

func TestPickRetryDelay(t *testing.T) {
	delays := []time.Duration{time.Second, time.Minute}
	assert.Equal(t, time.Duration(0), pickRetryDelay(1, nil))
	assert.Equal(t, time.Second, pickRetryDelay(0, delays))
	assert.Equal(t, time.Second, pickRetryDelay(1, delays))
	assert.Equal(t, time.Minute, pickRetryDelay(2, delays))
	assert.Equal(t, time.Minute, pickRetryDelay(9, delays))
}
