// Package auth covers accounts and sessions: bcrypt credentials, JWT
// session tokens, the role-based authorization decision and the
// single-admin invariant.
package auth

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"crms/backend/internal/config"
	"crms/backend/internal/models"
	"crms/backend/internal/storage"
)

var (
	// ErrAdminExists rejects creating a second admin. At most one
	// identity may hold the admin role at a time.
	ErrAdminExists = errors.New("an admin already exists; only one admin is allowed")
	// ErrAdminSignup rejects requesting the admin role at signup;
	// promotion goes through the role update path or the operator CLI.
	ErrAdminSignup        = errors.New("admin role cannot be requested at signup")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = fmt.Errorf("password must be at least %d characters", config.MinPassword)
)

// Service handles signup, signin and role changes.
type Service struct {
	Storage storage.Storage
}

func NewService(s storage.Storage) *Service {
	return &Service{Storage: s}
}

// SignUp registers a new identity. A requested role of "admin" is
// rejected outright; an unknown or empty role defaults to "user".
func (s *Service) SignUp(email, password, name, role string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, errors.New("email is required")
	}
	if len(password) < config.MinPassword {
		return nil, ErrWeakPassword
	}
	if role == config.RoleAdmin {
		return nil, ErrAdminSignup
	}
	if !config.ValidRole(role) {
		role = config.RoleUser
	}

	if _, err := s.Storage.GetUserByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		Name:         strings.TrimSpace(name),
		Role:         role,
		PasswordHash: string(hash),
	}
	if err := s.Storage.CreateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

// SignIn verifies credentials and issues a session token.
func (s *Service) SignIn(email, password string) (*models.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.Storage.GetUserByEmail(email)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := IssueToken(user.ID, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// SetRole changes a user's role. Promoting to admin while another
// admin exists fails with ErrAdminExists and no state change; the
// count excludes the target so re-promoting the current admin is a
// no-op rather than an error.
func (s *Service) SetRole(targetID, newRole string) error {
	if !config.ValidRole(newRole) {
		return fmt.Errorf("unknown role %q", newRole)
	}
	if newRole == config.RoleAdmin {
		n, err := s.Storage.CountAdmins(targetID)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrAdminExists
		}
	}
	return s.Storage.UpdateUserRole(targetID, newRole)
}
