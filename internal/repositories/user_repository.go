package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/raissa-edu/student-management-service/internal/models"
)

// UserRepository interface for account operations.
type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *models.AppUser) error
	// GetByUsername loads the user with its role set preloaded.
	GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*models.AppUser, error)
	ExistsByUsername(ctx context.Context, tx *gorm.DB, username string) (bool, error)

	// Role assignment (many-to-many association maintenance)
	AddRole(ctx context.Context, tx *gorm.DB, user *models.AppUser, role *models.AppRole) error
	RemoveRole(ctx context.Context, tx *gorm.DB, user *models.AppUser, role *models.AppRole) error
}

// RoleRepository interface for role operations.
type RoleRepository interface {
	Create(ctx context.Context, tx *gorm.DB, role *models.AppRole) error
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*models.AppRole, error)
	ExistsByName(ctx context.Context, tx *gorm.DB, name string) (bool, error)
	List(ctx context.Context, tx *gorm.DB) ([]*models.AppRole, error)
}
