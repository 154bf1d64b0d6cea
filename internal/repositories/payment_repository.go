package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/raissa-edu/student-management-service/internal/models"
)

// PaymentRepository interface for payment persistence. The optional tx
// argument lets a service run several calls inside one transaction.
type PaymentRepository interface {
	// Write operations
	Create(ctx context.Context, tx *gorm.DB, payment *models.Payment) error
	Update(ctx context.Context, tx *gorm.DB, payment *models.Payment) error

	// Query operations
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Payment, error)
	// GetByIDForUpdate locks the row and never serves it from cache;
	// callers use it for read-modify-write.
	GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Payment, error)
	List(ctx context.Context, tx *gorm.DB, filters PaymentFilters) ([]*models.Payment, int64, error)
	GetByStudentCode(ctx context.Context, tx *gorm.DB, code string) ([]*models.Payment, error)
	GetByStatus(ctx context.Context, tx *gorm.DB, status models.PaymentStatus) ([]*models.Payment, error)
	GetByType(ctx context.Context, tx *gorm.DB, paymentType models.PaymentType) ([]*models.Payment, error)
}

// StudentRepository interface for student lookups; student records are
// owned by the enrollment system and read-only here.
type StudentRepository interface {
	GetByCode(ctx context.Context, tx *gorm.DB, code string) (*models.Student, error)
	GetByProgramID(ctx context.Context, tx *gorm.DB, programID string) ([]*models.Student, error)
	List(ctx context.Context, tx *gorm.DB, filters StudentFilters) ([]*models.Student, int64, error)
	ExistsByCode(ctx context.Context, tx *gorm.DB, code string) (bool, error)
}
