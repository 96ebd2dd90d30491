package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"customer-portal-svc/src/internal/config"
	"customer-portal-svc/src/internal/models"

	"github.com/sirupsen/logrus"
)

// IdentityClient talks to the identity backend's user and session endpoints.
type IdentityClient struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

// NewIdentityClient creates new identity backend client
func NewIdentityClient(cfg *config.IdentityService) *IdentityClient {
	return &IdentityClient{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		serviceKey: cfg.ServiceKey,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
	}
}

// SignOut revokes the session behind accessToken. A token the backend no
// longer knows counts as already signed out.
func (c *IdentityClient) SignOut(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		logrus.Debug("No access token, skipping identity sign out")
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/logout", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setAPIKey(req)
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrSessionSignOut, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusNotFound:
		logrus.WithField("status", resp.StatusCode).Debug("Session already gone at identity backend")
		return nil
	case resp.StatusCode >= 300:
		return fmt.Errorf("%w: identity backend returned status %d", models.ErrSessionSignOut, resp.StatusCode)
	}

	logrus.Debug("Session signed out at identity backend")
	return nil
}

// DeleteUser removes the user record. soft keeps the record but disables it.
func (c *IdentityClient) DeleteUser(ctx context.Context, userID string, soft bool) error {
	body, err := json.Marshal(map[string]bool{"should_soft_delete": soft})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/admin/users/%s", c.baseURL, url.PathEscape(userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setAPIKey(req)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrIdentityService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return models.ErrUserNotFound
	}

	if resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d: %s", models.ErrIdentityDeletion, resp.StatusCode, readMessage(resp.Body))
	}

	logrus.WithFields(logrus.Fields{
		"user_id": userID,
		"soft":    soft,
	}).Debug("User deleted at identity backend")
	return nil
}

// ForToken binds the client to one access token so it can serve as a session.AuthBackend.
func (c *IdentityClient) ForToken(accessToken string) *TokenSession {
	return &TokenSession{client: c, token: accessToken}
}

func (c *IdentityClient) setAPIKey(req *http.Request) {
	if c.serviceKey != "" {
		req.Header.Set("apikey", c.serviceKey)
	}
}

// TokenSession is an identity session identified by its access token.
type TokenSession struct {
	client *IdentityClient
	token  string
}

func (s *TokenSession) SignOut(ctx context.Context) error {
	return s.client.SignOut(ctx, s.token)
}

func readMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}

	var payload struct {
		Message string `json:"msg"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(data, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return strings.TrimSpace(string(data))
}
