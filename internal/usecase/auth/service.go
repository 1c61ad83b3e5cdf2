package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"turf-hire/internal/domain/user"
)

var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidInput           = errors.New("invalid input")
	ErrInvalidRole            = errors.New("role must be candidate or facility")
	ErrInternal               = errors.New("internal error")
)

type RegisterInput struct {
	Email    string
	Password string
	Role     string
}

type LoginInput struct {
	Email    string
	Password string
}

type Service struct {
	users user.Repository
	now   func() time.Time
}

// NewService builds the credential service. Self-registration never yields
// an admin; admins are created by an operator through ProvisionAdmin.
func NewService(users user.Repository) *Service {
	return &Service{users: users, now: time.Now}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (user.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return user.User{}, ErrInvalidInput
	}
	if !isValidPassword(in.Password) {
		return user.User{}, ErrInvalidInput
	}
	role, err := requestedRole(in.Role)
	if err != nil {
		return user.User{}, err
	}

	_, err = s.users.GetByEmail(ctx, email)
	if err == nil {
		return user.User{}, ErrEmailAlreadyRegistered
	}
	if !errors.Is(err, user.ErrNotFound) {
		return user.User{}, ErrInternal
	}
	return s.create(ctx, email, in.Password, role)
}

// ProvisionAdmin creates an admin account for an operator. It is idempotent
// for an existing admin and never promotes an account registered under
// another role, since that account's owner is unknown.
func (s *Service) ProvisionAdmin(ctx context.Context, email, password string) (user.User, error) {
	email = normalizeEmail(email)
	if email == "" || !isValidPassword(password) {
		return user.User{}, ErrInvalidInput
	}
	existing, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil && existing.Role == user.RoleAdmin:
		return sanitizeUser(existing), nil
	case err == nil:
		return user.User{}, ErrEmailAlreadyRegistered
	case !errors.Is(err, user.ErrNotFound):
		return user.User{}, ErrInternal
	}
	return s.create(ctx, email, password, user.RoleAdmin)
}

func (s *Service) create(ctx context.Context, email, password string, role user.Role) (user.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, ErrInternal
	}

	now := s.now().UTC()
	u := user.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return user.User{}, ErrEmailAlreadyRegistered
		}
		return user.User{}, ErrInternal
	}
	return sanitizeUser(u), nil
}

func (s *Service) Login(ctx context.Context, in LoginInput) (user.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return user.User{}, ErrInvalidCredentials
	}
	if in.Password == "" {
		return user.User{}, ErrInvalidCredentials
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			// same bcrypt cost as a real mismatch so timing does not reveal accounts
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(in.Password))
			return user.User{}, ErrInvalidCredentials
		}
		return user.User{}, ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return user.User{}, ErrInvalidCredentials
	}

	return sanitizeUser(u), nil
}

func requestedRole(requested string) (user.Role, error) {
	if strings.TrimSpace(requested) == "" {
		return user.RoleCandidate, nil
	}
	role, ok := user.ParseRole(requested)
	if !ok || role == user.RoleAdmin {
		return "", ErrInvalidRole
	}
	return role, nil
}

func normalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return ""
	}
	return strings.ToLower(email)
}

// maxPasswordBytes is bcrypt's input limit.
const maxPasswordBytes = 72

var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("turf-hire-dummy-password"), bcrypt.DefaultCost)

func isValidPassword(pw string) bool {
	return len(strings.TrimSpace(pw)) >= 8 && len(pw) <= maxPasswordBytes
}

func sanitizeUser(u user.User) user.User {
	u.PasswordHash = ""
	return u
}
