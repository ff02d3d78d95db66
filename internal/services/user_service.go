// internal/services/user_service.go
package services

import (
	"context"
	"strings"

	"github.com/javajoker/campaign-wizard/internal/i18n"
	"github.com/javajoker/campaign-wizard/internal/models"
	"github.com/javajoker/campaign-wizard/internal/repository"
)

// UserService maps identity-provider accounts onto internal user rows.
type UserService struct {
	users repository.UserStore
}

type SyncUserRequest struct {
	Email string `json:"email" validate:"omitempty,email"`
	Name  string `json:"name" validate:"max=255"`
}

func NewUserService(users repository.UserStore) *UserService {
	return &UserService{users: users}
}

// Resolve returns the internal user for the caller.
func (s *UserService) Resolve(ctx context.Context, identity Identity) (*models.User, error) {
	user, err := s.users.FindByExternalID(ctx, identity.ExternalUserID)
	if err != nil {
		return nil, classify(err, i18n.KeyUserNotFound)
	}
	return user, nil
}

// Sync creates or refreshes the caller's user row from the token profile.
func (s *UserService) Sync(ctx context.Context, identity Identity, req SyncUserRequest) (*models.User, error) {
	if identity.ExternalUserID == "" {
		return nil, newError(KindUnauthenticated, i18n.KeyAuthRequired, nil)
	}

	user := &models.User{
		ExternalID: identity.ExternalUserID,
		Email:      strings.TrimSpace(req.Email),
		Name:       strings.TrimSpace(req.Name),
	}
	if identity.OrganizationID != "" {
		org := identity.OrganizationID
		user.OrganizationID = &org
	}

	if err := s.users.Upsert(ctx, user); err != nil {
		return nil, classify(err, i18n.KeyUserNotFound)
	}
	return user, nil
}
