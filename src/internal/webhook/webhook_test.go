package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"customer-portal-svc/src/internal/config"
	"customer-portal-svc/src/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	events []*models.WebhookEvent
	err    error
}

func (p *capturePublisher) PublishWebhook(e *models.WebhookEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func newReceiver(t *testing.T, secret string, pub Publisher) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Configuration{App: config.Application{Timeout: 5}}
	h := NewHandler(cfg, NewService(&config.WebhookConfig{Secret: secret, Timeout: 5}, pub))

	r := gin.New()
	r.POST("/webhooks/receive", h.Receive)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestSignAndVerify(t *testing.T) {
	body := []byte(`{"id":"evt_1"}`)
	sig := Sign("s3cret", body)

	assert.True(t, Verify("s3cret", body, sig))
	assert.False(t, Verify("other", body, sig))
	assert.False(t, Verify("s3cret", []byte(`{"id":"evt_2"}`), sig))
	assert.False(t, Verify("s3cret", body, "not-hex"))
	assert.True(t, Verify("", body, ""))
}

func TestSampleEventIsFixed(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	a, b := SampleEvent(now), SampleEvent(now)

	assert.Equal(t, a, b)
	assert.Equal(t, SampleEventID, a.ID)
	assert.Equal(t, SampleEventType, a.Type)
	assert.Equal(t, true, a.Data["test"])
}

func TestReplay_EchoesReceiverResponse(t *testing.T) {
	pub := &capturePublisher{}
	receiver := newReceiver(t, "s3cret", pub)

	svc := NewService(&config.WebhookConfig{
		TargetURL: receiver.URL + "/webhooks/receive",
		Secret:    "s3cret",
		Timeout:   5,
	}, nil)

	result, err := svc.Replay(context.Background())
	require.NoError(t, err)

	assert.True(t, result.OK())
	assert.Equal(t, http.StatusOK, result.Status)
	echo := result.Response.(map[string]interface{})
	assert.Equal(t, true, echo["received"])
	assert.Equal(t, SampleEventID, echo["id"])

	require.Len(t, pub.events, 1)
	assert.Equal(t, SampleEventType, pub.events[0].Type)
}

func TestReplay_WrongSecretIsRejectedByReceiver(t *testing.T) {
	pub := &capturePublisher{}
	receiver := newReceiver(t, "s3cret", pub)

	svc := NewService(&config.WebhookConfig{TargetURL: receiver.URL + "/webhooks/receive", Secret: "wrong", Timeout: 5}, nil)

	result, err := svc.Replay(context.Background())
	require.NoError(t, err)
	assert.False(t, result.OK())
	assert.Equal(t, http.StatusUnauthorized, result.Status)
	assert.Empty(t, pub.events)
}

func TestReplay_PlainTextResponse(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("queued"))
	}))
	t.Cleanup(target.Close)

	svc := NewService(&config.WebhookConfig{TargetURL: target.URL, Timeout: 5}, nil)

	result, err := svc.Replay(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, result.Status)
	assert.Equal(t, "queued", result.Response)
}

func TestReplay_DeliveryFailure(t *testing.T) {
	svc := NewService(&config.WebhookConfig{TargetURL: "http://127.0.0.1:1/receive", Timeout: 1}, nil)

	_, err := svc.Replay(context.Background())
	assert.ErrorIs(t, err, models.ErrWebhookDelivery)

	_, err = NewService(&config.WebhookConfig{Timeout: 1}, nil).Replay(context.Background())
	assert.ErrorIs(t, err, models.ErrWebhookDelivery)
}

func TestReceive_RejectsBadPayloads(t *testing.T) {
	receiver := newReceiver(t, "", &capturePublisher{})

	tests := []struct {
		name string
		body string
		code int
	}{
		{"not json", "{nope", http.StatusBadRequest},
		{"missing type", `{"id":"evt_1"}`, http.StatusBadRequest},
		{"valid", `{"id":"evt_1","type":"order.created"}`, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(receiver.URL+"/webhooks/receive", "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.code, resp.StatusCode)
		})
	}
}

func TestReplayHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	receiver := newReceiver(t, "", &capturePublisher{})

	cfg := &config.Configuration{App: config.Application{Timeout: 5}}
	h := NewHandler(cfg, NewService(&config.WebhookConfig{TargetURL: receiver.URL + "/webhooks/receive", Timeout: 5}, nil))
	r := gin.New()
	r.POST("/webhooks/test", h.ReplayTest)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/webhooks/test", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Success bool         `json:"success"`
		Data    ReplayResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, http.StatusOK, body.Data.Status)
}

func TestReplayHandler_BadGateway(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Configuration{App: config.Application{Timeout: 5}}
	h := NewHandler(cfg, NewService(&config.WebhookConfig{TargetURL: "http://127.0.0.1:1/receive", Timeout: 1}, nil))
	r := gin.New()
	r.POST("/webhooks/test", h.ReplayTest)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/webhooks/test", nil))
	assert.Equal(t, http.StatusBadGateway, w.Code)
}
