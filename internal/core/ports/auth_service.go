package ports

import (
	"context"

	"github.com/habittracker/habit-tracker-backend/internal/core/domain"
)

// RegisterInput carries the fields needed to create an account.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// AuthService handles registration and login. Both return a signed JWT along
// with the user so the client is authenticated immediately.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
