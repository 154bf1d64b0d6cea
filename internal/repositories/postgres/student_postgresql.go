package postgres

import (
	"context"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/raissa-edu/student-management-service/internal/cache"
	"github.com/raissa-edu/student-management-service/internal/models"
	"github.com/raissa-edu/student-management-service/internal/repositories"
)

type studentRepository struct {
	db          *gorm.DB
	cacheHelper *cache.CacheHelper
}

func NewStudentPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.StudentRepository {
	return &studentRepository{
		db:          db,
		cacheHelper: cache.NewCacheHelper(redisClient, cache.StudentCacheConfig.Prefix),
	}
}

func (r *studentRepository) GetByCode(ctx context.Context, tx *gorm.DB, code string) (*models.Student, error) {
	if tx == nil {
		var cached models.Student
		if err := r.cacheHelper.Get(ctx, "code:"+code, &cached); err == nil {
			return &cached, nil
		}
	}

	db := r.getDB(tx)
	var student models.Student
	if err := db.WithContext(ctx).
		Where("code = ?", code).
		First(&student).Error; err != nil {
		return nil, r.handleDBError(err, "get student by code")
	}

	if tx == nil {
		_ = r.cacheHelper.Set(ctx, "code:"+code, &student, cache.StudentCacheConfig.TTL)
	}

	return &student, nil
}

func (r *studentRepository) GetByProgramID(ctx context.Context, tx *gorm.DB, programID string) ([]*models.Student, error) {
	db := r.getDB(tx)
	var students []*models.Student

	if err := db.WithContext(ctx).
		Where("program_id = ?", programID).
		Find(&students).Error; err != nil {
		return nil, r.handleDBError(err, "get students by program id")
	}

	return students, nil
}

func (r *studentRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.StudentFilters) ([]*models.Student, int64, error) {
	db := r.getDB(tx)
	var students []*models.Student
	var total int64

	query := db.WithContext(ctx).Model(&models.Student{})
	if filters.ProgramID != nil {
		query = query.Where("program_id = ?", *filters.ProgramID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, r.handleDBError(err, "count students")
	}

	order := "code ASC"
	if filters.SortBy == "created_at" {
		order = "created_at DESC"
	}
	query = query.Order(order)

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	if err := query.Find(&students).Error; err != nil {
		return nil, 0, r.handleDBError(err, "list students")
	}

	return students, total, nil
}

func (r *studentRepository) ExistsByCode(ctx context.Context, tx *gorm.DB, code string) (bool, error) {
	db := r.getDB(tx)
	var count int64

	if err := db.WithContext(ctx).
		Model(&models.Student{}).
		Where("code = ?", code).
		Count(&count).Error; err != nil {
		return false, r.handleDBError(err, "check student exists")
	}

	return count > 0, nil
}

func (r *studentRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *studentRepository) handleDBError(err error, operation string) error {
	return handleDBError(err, operation)
}
