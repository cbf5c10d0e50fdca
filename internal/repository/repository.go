package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/gincol-ia/user-crud-hexagonal/internal/models"
)

// UserRepository defines persistence operations for User entities.
// Lookups return a models.NotFoundError when no row matches.
type UserRepository interface {
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// Save inserts the user, or updates the existing row with the same ID.
	Save(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindAll(ctx context.Context) ([]models.User, error)
	FindAllActive(ctx context.Context) ([]models.User, error)
}
