package clients

import (
	"encoding/json"
	"errors"
	"testing"

	"customer-portal-svc/src/internal/config"
	"customer-portal-svc/src/internal/models"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	sent []published
	err  error
}

func (f *fakeChannel) Publish(exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, published{exchange: exchange, key: key, msg: msg})
	return nil
}

var testQueueConfig = &config.RabbitMQConfig{
	Exchange:          "portal.events",
	ActivityRouteKey:  "portal.activity",
	WebhookRoutingKey: "portal.webhook",
}

func TestPublishActivity(t *testing.T) {
	ch := &fakeChannel{}
	p := NewActivityPublisher(ch, testQueueConfig)

	err := p.PublishActivity(models.ActivityMessage{
		UserID:      "user-1",
		ServiceName: models.ServicePortalAccount,
		Action:      models.ActionAccountDeleted,
	})
	require.NoError(t, err)
	require.Len(t, ch.sent, 1)

	sent := ch.sent[0]
	assert.Equal(t, "portal.events", sent.exchange)
	assert.Equal(t, "portal.activity", sent.key)
	assert.Equal(t, "application/json", sent.msg.ContentType)

	var got models.ActivityMessage
	require.NoError(t, json.Unmarshal(sent.msg.Body, &got))
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, models.ActionAccountDeleted, got.Action)
	assert.False(t, got.Timestamp.IsZero())
}

func TestPublishWebhook(t *testing.T) {
	ch := &fakeChannel{}
	p := NewActivityPublisher(ch, testQueueConfig)

	require.NoError(t, p.PublishWebhook(&models.WebhookEvent{ID: "evt_1", Type: "test.webhook"}))
	require.Len(t, ch.sent, 1)
	assert.Equal(t, "portal.webhook", ch.sent[0].key)
}

func TestPublish_ChannelError(t *testing.T) {
	p := NewActivityPublisher(&fakeChannel{err: errors.New("channel closed")}, testQueueConfig)

	err := p.PublishActivity(models.ActivityMessage{Action: models.ActionSessionCheck})
	assert.ErrorIs(t, err, models.ErrPublish)
}
