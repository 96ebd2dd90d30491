package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"customer-portal-svc/src/internal/models"

	"github.com/sirupsen/logrus"
)

// IdentityDeleter removes users from the identity backend.
type IdentityDeleter interface {
	DeleteUser(ctx context.Context, userID string, soft bool) error
}

type ActivityPublisher interface {
	PublishActivity(message models.ActivityMessage) error
}

type Service interface {
	DeleteAccount(ctx context.Context, userID string) (*DeletionResult, error)
}

type accountService struct {
	identity  IdentityDeleter
	repo      Repository
	publisher ActivityPublisher
	now       func() time.Time
}

// NewService wires the deletion flow. repo and publisher may be nil.
func NewService(identity IdentityDeleter, repo Repository, publisher ActivityPublisher) Service {
	return &accountService{
		identity:  identity,
		repo:      repo,
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *accountService) DeleteAccount(ctx context.Context, userID string) (*DeletionResult, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, models.ErrInvalidParams
	}

	mode, err := s.deleteIdentity(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &DeletionResult{
		UserID:    userID,
		Mode:      mode,
		DeletedAt: s.now().UTC(),
	}

	if s.repo != nil {
		if err := s.repo.MarkDeleted(ctx, userID, result.DeletedAt); err != nil {
			logrus.WithError(err).WithField("user_id", userID).Warn("Identity user deleted but profile was not updated")
		} else {
			result.ProfileUpdated = true
		}
	}

	s.publish(userID, mode)

	logrus.WithFields(logrus.Fields{
		"user_id":         userID,
		"mode":            mode,
		"profile_updated": result.ProfileUpdated,
	}).Info("Account deleted")

	return result, nil
}

// deleteIdentity tries a hard delete first and falls back to a soft delete.
func (s *accountService) deleteIdentity(ctx context.Context, userID string) (string, error) {
	hardErr := s.identity.DeleteUser(ctx, userID, false)
	if hardErr == nil {
		return ModeHard, nil
	}

	logrus.WithError(hardErr).WithField("user_id", userID).Warn("Hard delete failed, falling back to soft delete")

	softErr := s.identity.DeleteUser(ctx, userID, true)
	if softErr == nil {
		return ModeSoft, nil
	}

	logrus.WithError(softErr).WithField("user_id", userID).Error("Soft delete failed")

	if errors.Is(hardErr, models.ErrUserNotFound) && errors.Is(softErr, models.ErrUserNotFound) {
		return "", models.ErrUserNotFound
	}
	return "", fmt.Errorf("%w (hard delete: %v)", softErr, hardErr)
}

func (s *accountService) publish(userID, mode string) {
	if s.publisher == nil {
		return
	}

	err := s.publisher.PublishActivity(models.ActivityMessage{
		UserID:      userID,
		ServiceName: models.ServicePortalAccount,
		Action:      models.ActionAccountDeleted,
		Metadata:    map[string]string{"mode": mode},
	})
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("Failed to publish account deletion")
	}
}
