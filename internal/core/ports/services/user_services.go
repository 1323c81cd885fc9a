package services

import (
	"context"

	"github.com/quollbooks/quollbooks/internal/core/domain"
	"github.com/quollbooks/quollbooks/internal/dto"
)

// UserSvcFacade defines user profile operations.
type UserSvcFacade interface {
	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// UpdateUser updates the user's own profile.
	UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, requestingUserID string) (*domain.User, error)

	// DeactivateUser marks the user as inactive.
	DeactivateUser(ctx context.Context, userID string, requestingUserID string) error
}

// AuthSvcFacade defines registration and login.
type AuthSvcFacade interface {
	// Register creates a new user account.
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)

	// Login verifies credentials and issues a JWT.
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
}
