package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/gincol-ia/user-crud-hexagonal/internal/models"
	"github.com/gincol-ia/user-crud-hexagonal/internal/repository"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	CreateUser(ctx context.Context, username, email, firstName, lastName string) (*models.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, username, email, firstName, lastName string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]models.User, error)
	GetAllActiveUsers(ctx context.Context) ([]models.User, error)
	DeactivateUser(ctx context.Context, id uuid.UUID) error
	ActivateUser(ctx context.Context, id uuid.UUID) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// UserService provides business logic for user management. It is the sole
// authority for the username/email uniqueness checks performed before any
// write reaches the repository.
type UserService struct {
	repo repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(repo repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// CreateUser creates and persists a new active user, rejecting usernames or
// emails already held by another user.
func (s *UserService) CreateUser(ctx context.Context, username, email, firstName, lastName string) (*models.User, error) {
	exists, err := s.repo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("check username exists: %w", err)
	}
	if exists {
		return nil, &models.ConflictError{Field: "username", Value: username}
	}

	exists, err = s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email exists: %w", err)
	}
	if exists {
		return nil, &models.ConflictError{Field: "email", Value: email}
	}

	user := models.NewUser(username, email, firstName, lastName)
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUser replaces the profile fields of an existing user. A username or
// email held by a different user is a conflict; the user's own current
// values are not.
func (s *UserService) UpdateUser(ctx context.Context, id uuid.UUID, username, email, firstName, lastName string) (*models.User, error) {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkUsernameFree(ctx, username, id); err != nil {
		return nil, err
	}
	if err := s.checkEmailFree(ctx, email, id); err != nil {
		return nil, err
	}

	user.Update(username, email, firstName, lastName)
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.repo.FindByID(ctx, id)
}

// GetUserByUsername retrieves a single user by their username.
func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.repo.FindByUsername(ctx, username)
}

// GetAllUsers returns every stored user.
func (s *UserService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	return s.repo.FindAll(ctx)
}

// GetAllActiveUsers returns only the users whose active flag is set.
func (s *UserService) GetAllActiveUsers(ctx context.Context) ([]models.User, error) {
	return s.repo.FindAllActive(ctx)
}

// DeactivateUser marks a user inactive.
func (s *UserService) DeactivateUser(ctx context.Context, id uuid.UUID) error {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	user.Deactivate()
	return s.repo.Save(ctx, user)
}

// ActivateUser marks a user active again.
func (s *UserService) ActivateUser(ctx context.Context, id uuid.UUID) error {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	user.Activate()
	return s.repo.Save(ctx, user)
}

// DeleteUser permanently removes a user.
func (s *UserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetUserByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// checkUsernameFree fails with a conflict when a user other than selfID
// already holds username.
func (s *UserService) checkUsernameFree(ctx context.Context, username string, selfID uuid.UUID) error {
	existing, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if models.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("lookup username: %w", err)
	}
	if existing.ID != selfID {
		return &models.ConflictError{Field: "username", Value: username}
	}
	return nil
}

// checkEmailFree fails with a conflict when a user other than selfID already
// holds email.
func (s *UserService) checkEmailFree(ctx context.Context, email string, selfID uuid.UUID) error {
	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if models.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("lookup email: %w", err)
	}
	if existing.ID != selfID {
		return &models.ConflictError{Field: "email", Value: email}
	}
	return nil
}
