package postgres

import (
	"context"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/raissa-edu/student-management-service/internal/cache"
	"github.com/raissa-edu/student-management-service/internal/models"
	"github.com/raissa-edu/student-management-service/internal/repositories"
)

// userCacheEntry carries the password hash beside the model: the model
// hides it with json:"-" so plain marshalling would blank it on every
// cache hit and break credential checks.
type userCacheEntry struct {
	User     models.AppUser `json:"user"`
	Password string         `json:"password"`
}

type userRepository struct {
	db          *gorm.DB
	cacheHelper *cache.CacheHelper
}

func NewUserPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.UserRepository {
	return &userRepository{
		db:          db,
		cacheHelper: cache.NewCacheHelper(redisClient, cache.UserCacheConfig.Prefix),
	}
}

func (r *userRepository) Create(ctx context.Context, tx *gorm.DB, user *models.AppUser) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(user).Error; err != nil {
		return r.handleDBError(err, "create user")
	}
	return nil
}

func (r *userRepository) GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*models.AppUser, error) {
	if tx == nil {
		if user, ok := r.cacheGet(ctx, username); ok {
			return user, nil
		}
	}

	db := r.getDB(tx)
	var user models.AppUser
	if err := db.WithContext(ctx).
		Preload("Roles").
		Where("username = ?", username).
		First(&user).Error; err != nil {
		return nil, r.handleDBError(err, "get user by username")
	}

	if tx == nil {
		r.cacheSet(ctx, &user)
	}

	return &user, nil
}

func (r *userRepository) cacheGet(ctx context.Context, username string) (*models.AppUser, bool) {
	var entry userCacheEntry
	if err := r.cacheHelper.Get(ctx, "username:"+username, &entry); err != nil {
		return nil, false
	}
	entry.User.Password = entry.Password
	return &entry.User, true
}

func (r *userRepository) cacheSet(ctx context.Context, user *models.AppUser) {
	entry := userCacheEntry{User: *user, Password: user.Password}
	_ = r.cacheHelper.Set(ctx, "username:"+user.Username, &entry, cache.UserCacheConfig.TTL)
}

func (r *userRepository) ExistsByUsername(ctx context.Context, tx *gorm.DB, username string) (bool, error) {
	db := r.getDB(tx)
	var count int64

	if err := db.WithContext(ctx).
		Model(&models.AppUser{}).
		Where("username = ?", username).
		Count(&count).Error; err != nil {
		return false, r.handleDBError(err, "check user exists")
	}

	return count > 0, nil
}

func (r *userRepository) AddRole(ctx context.Context, tx *gorm.DB, user *models.AppUser, role *models.AppRole) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Model(user).Association("Roles").Append(role); err != nil {
		return r.handleDBError(err, "add role to user")
	}

	cache.InvalidateUserCache(ctx, &cache.CacheManager{User: r.cacheHelper}, user.Username)
	return nil
}

func (r *userRepository) RemoveRole(ctx context.Context, tx *gorm.DB, user *models.AppUser, role *models.AppRole) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Model(user).Association("Roles").Delete(role); err != nil {
		return r.handleDBError(err, "remove role from user")
	}

	cache.InvalidateUserCache(ctx, &cache.CacheManager{User: r.cacheHelper}, user.Username)
	return nil
}

func (r *userRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *userRepository) handleDBError(err error, operation string) error {
	return handleDBError(err, operation)
}

// ===== ROLE REPOSITORY =====

type roleRepository struct {
	db *gorm.DB
}

func NewRolePostgreSQL(db *gorm.DB) repositories.RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) Create(ctx context.Context, tx *gorm.DB, role *models.AppRole) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(role).Error; err != nil {
		return r.handleDBError(err, "create role")
	}
	return nil
}

func (r *roleRepository) GetByName(ctx context.Context, tx *gorm.DB, name string) (*models.AppRole, error) {
	db := r.getDB(tx)
	var role models.AppRole

	if err := db.WithContext(ctx).
		Where("name = ?", name).
		First(&role).Error; err != nil {
		return nil, r.handleDBError(err, "get role by name")
	}

	return &role, nil
}

func (r *roleRepository) ExistsByName(ctx context.Context, tx *gorm.DB, name string) (bool, error) {
	db := r.getDB(tx)
	var count int64

	if err := db.WithContext(ctx).
		Model(&models.AppRole{}).
		Where("name = ?", name).
		Count(&count).Error; err != nil {
		return false, r.handleDBError(err, "check role exists")
	}

	return count > 0, nil
}

func (r *roleRepository) List(ctx context.Context, tx *gorm.DB) ([]*models.AppRole, error) {
	db := r.getDB(tx)
	var roles []*models.AppRole

	if err := db.WithContext(ctx).Order("name ASC").Find(&roles).Error; err != nil {
		return nil, r.handleDBError(err, "list roles")
	}

	return roles, nil
}

func (r *roleRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *roleRepository) handleDBError(err error, operation string) error {
	return handleDBError(err, operation)
}
