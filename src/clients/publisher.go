package clients

import (
	"encoding/json"
	"fmt"
	"time"

	"customer-portal-svc/src/internal/config"
	"customer-portal-svc/src/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

// channel is the subset of *amqp.Channel the publisher needs.
type channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// ActivityPublisher sends activity and webhook messages to the portal exchange.
type ActivityPublisher struct {
	channel channel
	cfg     *config.RabbitMQConfig
}

func NewActivityPublisher(ch channel, cfg *config.RabbitMQConfig) *ActivityPublisher {
	return &ActivityPublisher{channel: ch, cfg: cfg}
}

// PublishActivity stamps the message and publishes it on the activity routing key.
func (p *ActivityPublisher) PublishActivity(message models.ActivityMessage) error {
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now()
	}

	if err := p.publish(p.cfg.ActivityRouteKey, message); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"user_id":     message.UserID,
		"client_id":   message.ClientID,
		"service":     message.ServiceName,
		"action":      message.Action,
		"exchange":    p.cfg.Exchange,
		"routing_key": p.cfg.ActivityRouteKey,
	}).Debug("Activity message published")

	return nil
}

// PublishWebhook forwards a received webhook event on the webhook routing key.
func (p *ActivityPublisher) PublishWebhook(event *models.WebhookEvent) error {
	if err := p.publish(p.cfg.WebhookRoutingKey, event); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"event_id":    event.ID,
		"event_type":  event.Type,
		"routing_key": p.cfg.WebhookRoutingKey,
	}).Debug("Webhook event published")

	return nil
}

func (p *ActivityPublisher) publish(routingKey string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	err = p.channel.Publish(
		p.cfg.Exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
			Timestamp:   time.Now(),
		},
	)
	if err != nil {
		logrus.WithError(err).WithField("routing_key", routingKey).Error("Failed to publish message")
		return fmt.Errorf("%w: %v", models.ErrPublish, err)
	}

	return nil
}
