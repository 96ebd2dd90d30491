package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"customer-portal-svc/src/internal/config"
	"customer-portal-svc/src/internal/models"

	"github.com/sirupsen/logrus"
)

const (
	SampleEventID   = "evt_test_webhook"
	SampleEventType = "test.webhook"
	sampleSource    = "customer-portal"
	maxEchoBytes    = 1 << 20
)

// SampleEvent is the fixed payload sent by the replay endpoint.
func SampleEvent(now time.Time) *models.WebhookEvent {
	return &models.WebhookEvent{
		ID:        SampleEventID,
		Type:      SampleEventType,
		Source:    sampleSource,
		CreatedAt: now.UTC(),
		Data: map[string]interface{}{
			"customer": map[string]interface{}{
				"id":    "cus_test_0001",
				"email": "test.customer@example.com",
				"name":  "Test Customer",
			},
			"subscription": map[string]interface{}{
				"id":     "sub_test_0001",
				"plan":   "basic",
				"status": "active",
			},
			"test": true,
		},
	}
}

// ReplayResult is what the target endpoint answered.
type ReplayResult struct {
	Status   int         `json:"status"`
	Response interface{} `json:"response"`
}

func (r *ReplayResult) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

type Publisher interface {
	PublishWebhook(event *models.WebhookEvent) error
}

type Service interface {
	Replay(ctx context.Context) (*ReplayResult, error)
	Receive(ctx context.Context, body []byte, signature string) (*models.WebhookEvent, error)
}

type webhookService struct {
	cfg        *config.WebhookConfig
	httpClient *http.Client
	publisher  Publisher
	now        func() time.Time
}

func NewService(cfg *config.WebhookConfig, publisher Publisher) Service {
	return &webhookService{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		publisher: publisher,
		now:       time.Now,
	}
}

// Replay POSTs the sample event to the configured target and returns its answer.
func (s *webhookService) Replay(ctx context.Context) (*ReplayResult, error) {
	if s.cfg.TargetURL == "" {
		return nil, fmt.Errorf("%w: no target url configured", models.ErrWebhookDelivery)
	}

	body, err := json.Marshal(SampleEvent(s.now()))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sample event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.TargetURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.cfg.Secret != "" {
		req.Header.Set(SignatureHeader, Sign(s.cfg.Secret, body))
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrWebhookDelivery, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxEchoBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", models.ErrWebhookDelivery, err)
	}

	result := &ReplayResult{Status: resp.StatusCode, Response: decodeEcho(raw)}

	logrus.WithFields(logrus.Fields{
		"target": s.cfg.TargetURL,
		"status": resp.StatusCode,
	}).Info("Test webhook replayed")

	return result, nil
}

// Receive checks the signature, decodes the event and forwards it to the queue.
func (s *webhookService) Receive(ctx context.Context, body []byte, signature string) (*models.WebhookEvent, error) {
	if !Verify(s.cfg.Secret, body, signature) {
		return nil, models.ErrInvalidSignature
	}

	var event models.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidPayload, err)
	}
	if event.ID == "" || event.Type == "" {
		return nil, fmt.Errorf("%w: id and type are required", models.ErrInvalidPayload)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishWebhook(&event); err != nil {
			return nil, err
		}
	}

	logrus.WithFields(logrus.Fields{
		"event_id":   event.ID,
		"event_type": event.Type,
	}).Info("Webhook received")

	return &event, nil
}

// decodeEcho returns parsed JSON when the body is JSON, the raw text otherwise.
func decodeEcho(raw []byte) interface{} {
	var parsed interface{}
	if err := json.Unmarshal(raw, &parsed); err == nil {
		return parsed
	}
	return string(raw)
}
