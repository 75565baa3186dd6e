// Package auth issues and verifies bearer tokens for TaskFlow users.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"taskflow/internal/core/domain"
	"taskflow/internal/core/ports"
)

const (
	MinPasswordLength = 8
	DefaultTokenTTL   = 24 * time.Hour
	issuer            = "taskflow"
)

type userRepository interface {
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, string, error)
	Create(ctx context.Context, user domain.User, passwordHash string) error
	UpdateRole(ctx context.Context, id string, role domain.Role) error
}

type claims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type Service struct {
	users      userRepository
	secret     []byte
	tokenTTL   time.Duration
	bcryptCost int
	now        func() time.Time
}

type Option func(*Service)

func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.tokenTTL = ttl
		}
	}
}

func WithBcryptCost(cost int) Option {
	return func(s *Service) { s.bcryptCost = cost }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(users userRepository, secret string, opts ...Option) *Service {
	s := &Service{
		users:      users,
		secret:     []byte(secret),
		tokenTTL:   DefaultTokenTTL,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a regular user. Promotion to admin goes through
// UpdateUserRole.
func (s *Service) Register(ctx context.Context, input domain.RegisterUserInput) (domain.User, error) {
	email := normalizeEmail(input.Email)
	name := strings.TrimSpace(input.DisplayName)

	switch {
	case email == "" || !strings.Contains(email, "@"):
		return domain.User{}, &domain.ValidationError{Field: "email", Reason: "invalidEmail"}
	case len(input.Password) < MinPasswordLength:
		return domain.User{}, &domain.ValidationError{Field: "password", Reason: "passwordTooShort"}
	case name == "":
		return domain.User{}, &domain.ValidationError{Field: "display_name", Reason: "fieldRequired"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := domain.User{
		ID:          uuid.NewString(),
		Email:       email,
		DisplayName: name,
		Role:        domain.RoleUser,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.users.Create(ctx, user, string(hash)); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// Authenticate checks credentials and returns the caller with a signed token.
// Unknown emails and wrong passwords are indistinguishable.
func (s *Service) Authenticate(ctx context.Context, credentials domain.Credentials) (domain.Principal, string, error) {
	user, hash, err := s.users.GetByEmail(ctx, normalizeEmail(credentials.Email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.Principal{}, "", domain.ErrInvalidCredentials
		}
		return domain.Principal{}, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(credentials.Password)); err != nil {
		return domain.Principal{}, "", domain.ErrInvalidCredentials
	}

	principal := user.Principal()
	token, err := s.issue(principal)
	if err != nil {
		return domain.Principal{}, "", err
	}
	return principal, token, nil
}

func (s *Service) issue(principal domain.Principal) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Name: principal.DisplayName,
		Role: string(principal.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal.ID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies a token and returns the principal it was issued to.
// Every failure is reported as ErrInvalidCredentials.
func (s *Service) ParseToken(token string) (domain.Principal, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return domain.Principal{}, domain.ErrInvalidCredentials
	}

	role, err := domain.ParseRole(c.Role)
	if err != nil || c.Subject == "" {
		return domain.Principal{}, domain.ErrInvalidCredentials
	}
	return domain.Principal{ID: c.Subject, DisplayName: c.Name, Role: role}, nil
}

// UpdateUserRole is admin-only. Admins cannot demote themselves, which
// keeps at least one admin around.
func (s *Service) UpdateUserRole(ctx context.Context, principal domain.Principal, userID string, role domain.Role) error {
	if !principal.IsAdmin() {
		return domain.ErrForbidden
	}
	if _, err := domain.ParseRole(string(role)); err != nil {
		return &domain.ValidationError{Field: "role", Reason: "invalidRole"}
	}
	if principal.ID == userID && role != domain.RoleAdmin {
		return domain.ErrForbidden
	}
	return s.users.UpdateRole(ctx, userID, role)
}

func (s *Service) ListAllUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

func (s *Service) GetUser(ctx context.Context, id string) (domain.User, error) {
	return s.users.Get(ctx, id)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var _ ports.AuthService = (*Service)(nil)
