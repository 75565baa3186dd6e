package ports

import (
	"context"

	"taskflow/internal/core/domain"
)

// UserDirectory is the read side of the identity provider.
type UserDirectory interface {
	ListAllUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id string) (domain.User, error)
}

type AuthService interface {
	UserDirectory
	Authenticate(ctx context.Context, credentials domain.Credentials) (domain.Principal, string, error)
	Register(ctx context.Context, input domain.RegisterUserInput) (domain.User, error)
	UpdateUserRole(ctx context.Context, principal domain.Principal, userID string, role domain.Role) error
	ParseToken(token string) (domain.Principal, error)
}
