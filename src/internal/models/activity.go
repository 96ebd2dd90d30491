package models

import "time"

type ActivityMessage struct {
	UserID      string            `json:"user_id,omitempty"`
	ClientID    string            `json:"client_id,omitempty"`
	ServiceName string            `json:"service_name"`
	Action      string            `json:"action"`
	IPAddress   string            `json:"ip_address,omitempty"`
	UserAgent   string            `json:"user_agent,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
}

// Activity action constants
const (
	ActionSessionCheck   = "session_check"
	ActionSessionCleared = "session_cleared"
	ActionAccountDeleted = "account_deleted"
)

// Service name constants
const (
	ServicePortalSession = "portal.handler.session"
	ServicePortalAccount = "portal.handler.account"
)
