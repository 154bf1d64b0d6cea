package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/raissa-edu/student-management-service/internal/cache"
	"github.com/raissa-edu/student-management-service/internal/models"
	"github.com/raissa-edu/student-management-service/internal/repositories"
)

// paymentCacheEntry is the shape stored in the cache. The blob key is
// tagged json:"-" on the model so API responses never leak it; carrying
// it beside the model keeps cache hits byte-for-byte equal to DB reads.
type paymentCacheEntry struct {
	Payment models.Payment `json:"payment"`
	File    string         `json:"file"`
}

type paymentRepository struct {
	db          *gorm.DB
	cacheHelper *cache.CacheHelper
}

func NewPaymentPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.PaymentRepository {
	return &paymentRepository{
		db:          db,
		cacheHelper: cache.NewCacheHelper(redisClient, cache.PaymentCacheConfig.Prefix),
	}
}

// ===== WRITE OPERATIONS =====

func (r *paymentRepository) Create(ctx context.Context, tx *gorm.DB, payment *models.Payment) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(payment).Error; err != nil {
		return r.handleDBError(err, "create payment")
	}

	cache.InvalidatePaymentCache(ctx, &cache.CacheManager{Payment: r.cacheHelper}, payment.ID)
	return nil
}

func (r *paymentRepository) Update(ctx context.Context, tx *gorm.DB, payment *models.Payment) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Save(payment).Error; err != nil {
		return r.handleDBError(err, "update payment")
	}

	cache.InvalidatePaymentCache(ctx, &cache.CacheManager{Payment: r.cacheHelper}, payment.ID)
	return nil
}

// ===== QUERY OPERATIONS =====

func (r *paymentRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Payment, error) {
	// Inside a transaction the cache is bypassed to avoid reading stale state.
	if tx == nil {
		if payment, ok := r.cacheGet(ctx, id); ok {
			return payment, nil
		}
	}

	db := r.getDB(tx)
	var payment models.Payment
	if err := db.WithContext(ctx).
		Preload("Student").
		First(&payment, id).Error; err != nil {
		return nil, r.handleDBError(err, "get payment by id")
	}

	if tx == nil {
		r.cacheSet(ctx, &payment)
	}

	return &payment, nil
}

// GetByIDForUpdate loads the row straight from the database with a row
// lock, skipping the cache so read-modify-write never acts on a stale copy.
func (r *paymentRepository) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Payment, error) {
	db := r.getDB(tx)
	var payment models.Payment
	if err := db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&payment, id).Error; err != nil {
		return nil, r.handleDBError(err, "get payment for update")
	}

	return &payment, nil
}

func (r *paymentRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.PaymentFilters) ([]*models.Payment, int64, error) {
	db := r.getDB(tx)
	var payments []*models.Payment
	var total int64

	query := db.WithContext(ctx).Model(&models.Payment{})
	query = r.applyPaymentFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, r.handleDBError(err, "count payments")
	}

	query = r.applyPaginationAndSorting(query, filters.Limit, filters.Offset, filters.SortBy, filters.SortOrder)

	if err := query.Find(&payments).Error; err != nil {
		return nil, 0, r.handleDBError(err, "list payments")
	}

	return payments, total, nil
}

func (r *paymentRepository) GetByStudentCode(ctx context.Context, tx *gorm.DB, code string) ([]*models.Payment, error) {
	db := r.getDB(tx)
	var payments []*models.Payment

	if err := db.WithContext(ctx).
		Where("student_code = ?", code).
		Find(&payments).Error; err != nil {
		return nil, r.handleDBError(err, "get payments by student code")
	}

	return payments, nil
}

func (r *paymentRepository) GetByStatus(ctx context.Context, tx *gorm.DB, status models.PaymentStatus) ([]*models.Payment, error) {
	db := r.getDB(tx)
	var payments []*models.Payment

	if err := db.WithContext(ctx).
		Where("status = ?", status).
		Find(&payments).Error; err != nil {
		return nil, r.handleDBError(err, "get payments by status")
	}

	return payments, nil
}

func (r *paymentRepository) GetByType(ctx context.Context, tx *gorm.DB, paymentType models.PaymentType) ([]*models.Payment, error) {
	db := r.getDB(tx)
	var payments []*models.Payment

	if err := db.WithContext(ctx).
		Where("type = ?", paymentType).
		Find(&payments).Error; err != nil {
		return nil, r.handleDBError(err, "get payments by type")
	}

	return payments, nil
}

// ===== HELPERS =====

func (r *paymentRepository) applyPaymentFilters(query *gorm.DB, filters repositories.PaymentFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Type != nil {
		query = query.Where("type = ?", *filters.Type)
	}
	if filters.StudentCode != nil {
		query = query.Where("student_code = ?", *filters.StudentCode)
	}
	return query
}

func (r *paymentRepository) applyPaginationAndSorting(query *gorm.DB, limit, offset int, sortBy, sortOrder string) *gorm.DB {
	// Whitelist allowed sort columns: map API keys to SQL identifiers
	sortKeyToColumn := map[string]string{
		"created_at": "created_at",
		"date":       "date",
		"amount":     "amount",
		"id":         "id",
	}

	column, ok := sortKeyToColumn[sortBy]
	if !ok {
		column = "created_at"
	}

	order := "DESC"
	if sortOrder == "asc" {
		order = "ASC"
	}

	query = query.Order(column + " " + order)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	return query
}

func (r *paymentRepository) cacheGet(ctx context.Context, id uint) (*models.Payment, bool) {
	var entry paymentCacheEntry
	if err := r.cacheHelper.Get(ctx, fmt.Sprintf("id:%d", id), &entry); err != nil {
		return nil, false
	}
	entry.Payment.File = entry.File
	return &entry.Payment, true
}

func (r *paymentRepository) cacheSet(ctx context.Context, payment *models.Payment) {
	entry := paymentCacheEntry{Payment: *payment, File: payment.File}
	_ = r.cacheHelper.Set(ctx, fmt.Sprintf("id:%d", payment.ID), &entry, cache.PaymentCacheConfig.TTL)
}

func (r *paymentRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *paymentRepository) handleDBError(err error, operation string) error {
	return handleDBError(err, operation)
}

func handleDBError(err error, operation string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repositories.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return repositories.ErrConflict
	}
	return fmt.Errorf("%s failed: %w", operation, err)
}
