package models

import "errors"

var (
	ErrRedisGet    = errors.New("redis get error")
	ErrRedisSet    = errors.New("redis set error")
	ErrRedisDelete = errors.New("redis delete error")
)

var (
	ErrSessionSignOut   = errors.New("session sign out failed")
	ErrMissingClientID  = errors.New("client id must be a uuid")
	ErrInvalidScope     = errors.New("invalid state scope")
	ErrStateKeyNotFound = errors.New("state key not found")
	ErrReservedStateKey = errors.New("state key is managed by the session check")
)

var (
	ErrDatabaseUpdate = errors.New("database update error")
	ErrRecordNotFound = errors.New("record not found")
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrInvalidParams    = errors.New("invalid parameters")
	ErrIdentityService  = errors.New("identity service error")
	ErrIdentityDeletion = errors.New("identity user deletion failed")
)

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrInvalidPayload   = errors.New("invalid webhook payload")
	ErrWebhookDelivery  = errors.New("webhook delivery failed")
	ErrPublish          = errors.New("message publish failed")
)
