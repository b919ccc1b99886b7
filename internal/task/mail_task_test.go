package task

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	bodies [][]byte
	err    error
}

func (p *recordingPublisher) PublishMail(ctx context.Context, body []byte) error {
	if p.err != nil {
		return p.err
	}
	p.bodies = append(p.bodies, body)
	return nil
}

func TestQueueMailerPublishes(t *testing.T) {
	pub := &recordingPublisher{}
	m := NewQueueMailerWith(pub)

	require.NoError(t, m.SendVerificationCode(context.Background(), "a@x.com", "012345"))
	require.Len(t, pub.bodies, 1)

	var msg MailMessage
	require.NoError(t, json.Unmarshal(pub.bodies[0], &msg))
	assert.Equal(t, MailKindVerificationCode, msg.Kind)
	assert.Equal(t, "a@x.com", msg.To)
	assert.Equal(t, "012345", msg.Code)
	assert.Equal(t, 0, msg.Attempt)
	assert.NotEmpty(t, msg.ID)
}

func TestQueueMailerPublishError(t *testing.T) {
	broker := errors.New("channel closed")
	m := NewQueueMailerWith(&recordingPublisher{err: broker})

	err := m.SendVerificationCode(context.Background(), "a@x.com", "012345")
	assert.ErrorIs(t, err, broker)
}
