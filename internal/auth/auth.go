package auth

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrUnauthorized is returned for users outside the allow list
var ErrUnauthorized = errors.New("user is not allowed to use this bot")

type Authenticator struct {
	allowed map[int64]struct{}
	logger  *zap.Logger
}

func NewAuthenticator(allowedUserIDs []int64, logger *zap.Logger) *Authenticator {
	allowed := make(map[int64]struct{}, len(allowedUserIDs))
	for _, id := range allowedUserIDs {
		allowed[id] = struct{}{}
	}
	return &Authenticator{
		allowed: allowed,
		logger:  logger,
	}
}

func (a *Authenticator) IsUserAllowed(userID int64) bool {
	if _, ok := a.allowed[userID]; ok {
		a.logger.Debug("User access granted",
			zap.Int64("user_id", userID))
		return true
	}

	a.logger.Warn("Unauthorized access attempt",
		zap.Int64("user_id", userID))
	return false
}

// Authorize returns ErrUnauthorized for users outside the allow list
func (a *Authenticator) Authorize(userID int64) error {
	if !a.IsUserAllowed(userID) {
		return fmt.Errorf("user %d: %w", userID, ErrUnauthorized)
	}
	return nil
}

func (a *Authenticator) GetAllowedUsersCount() int {
	return len(a.allowed)
}

func (a *Authenticator) GetUserInfo(userID int64) string {
	if _, ok := a.allowed[userID]; ok {
		return fmt.Sprintf("User %d (authorized)", userID)
	}
	return fmt.Sprintf("User %d (unauthorized)", userID)
}
