// Package users manages dashboard logins: credential checks, admin
// provisioning and the last-admin safety rule.
package users

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shiftboard/backend/internal/storage"
	"github.com/shiftboard/backend/internal/types"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned when username or password do not
	// match a stored user.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrNotFound is returned when no user matches the given id.
	ErrNotFound = errors.New("user not found")

	// ErrDuplicateUsername is returned when the username is already
	// taken (case-insensitive).
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrUsernameRequired is returned when the username is empty.
	ErrUsernameRequired = errors.New("username is required")

	// ErrPasswordRequired is returned when the password is empty.
	ErrPasswordRequired = errors.New("password is required")

	// ErrInvalidRole is returned for roles other than admin or viewer.
	ErrInvalidRole = errors.New("role must be admin or viewer")

	// ErrLastAdmin is returned when removing the sole remaining admin.
	ErrLastAdmin = errors.New("cannot remove the last admin user")
)

// Default admin credentials seeded on first run. Operators are expected
// to change the password immediately.
const (
	defaultAdminUsername = "admin"
	defaultAdminPassword = "admin123"
)

// Service owns the user collection
type Service struct {
	store  storage.Store
	mu     sync.Mutex
	logger zerolog.Logger
}

// NewService creates a user service
func NewService(store storage.Store, logger zerolog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger.With().Str("component", "users").Logger(),
	}
}

// EnsureDefaultAdmin seeds the default admin account when the user
// collection is empty. Called once at startup.
func (s *Service) EnsureDefaultAdmin() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.store.LoadUsers()
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(defaultAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := types.User{
		ID:           uuid.New().String(),
		Username:     defaultAdminUsername,
		PasswordHash: string(hash),
		Role:         types.RoleAdmin,
	}
	if err := s.store.SaveUsers([]types.User{admin}); err != nil {
		return err
	}

	s.logger.Warn().Msg("seeded default admin account, change its password")
	return nil
}

// List returns all users
func (s *Service) List() ([]types.User, error) {
	return s.store.LoadUsers()
}

// Authenticate checks a username/password pair. Usernames are matched
// case-insensitively.
func (s *Service) Authenticate(username, password string) (types.User, error) {
	users, err := s.store.LoadUsers()
	if err != nil {
		return types.User{}, err
	}

	for _, u := range users {
		if !strings.EqualFold(u.Username, username) {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
			return types.User{}, ErrInvalidCredentials
		}
		return u, nil
	}
	return types.User{}, ErrInvalidCredentials
}

// Add creates a user after validating the username is free
func (s *Service) Add(username, password string, role types.Role) (types.User, error) {
	if username == "" {
		return types.User{}, ErrUsernameRequired
	}
	if password == "" {
		return types.User{}, ErrPasswordRequired
	}
	if role != types.RoleAdmin && role != types.RoleViewer {
		return types.User{}, ErrInvalidRole
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.store.LoadUsers()
	if err != nil {
		return types.User{}, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Username, username) {
			return types.User{}, ErrDuplicateUsername
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return types.User{}, err
	}
	user := types.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	}
	users = append(users, user)
	if err := s.store.SaveUsers(users); err != nil {
		return types.User{}, err
	}

	s.logger.Info().Str("username", username).Str("role", string(role)).Msg("user added")
	return user, nil
}

// Remove deletes a user. Removing the sole remaining admin is rejected,
// checked against this specific tentative removal.
func (s *Service) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.store.LoadUsers()
	if err != nil {
		return err
	}

	index := -1
	admins := 0
	for i, u := range users {
		if u.Role == types.RoleAdmin {
			admins++
		}
		if u.ID == id {
			index = i
		}
	}
	if index < 0 {
		return ErrNotFound
	}
	if users[index].Role == types.RoleAdmin && admins == 1 {
		return ErrLastAdmin
	}

	users = append(users[:index], users[index+1:]...)
	if err := s.store.SaveUsers(users); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", id).Msg("user removed")
	return nil
}

// ChangePassword rehashes and stores a new password for the user
func (s *Service) ChangePassword(id, newPassword string) error {
	if newPassword == "" {
		return ErrPasswordRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.store.LoadUsers()
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].ID != id {
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		users[i].PasswordHash = string(hash)
		return s.store.SaveUsers(users)
	}
	return ErrNotFound
}
