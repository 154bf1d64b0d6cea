package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/raissa-edu/student-management-service/internal/models"
	"github.com/raissa-edu/student-management-service/internal/repositories"
)

// mockRepository is a minimal in-memory Repository implementation for
// service tests.
type mockRepository struct {
	students *mockStudentRepository
	payments *mockPaymentRepository
	users    *mockUserRepository
	roles    *mockRoleRepository
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		students: &mockStudentRepository{students: make(map[string]*models.Student)},
		payments: &mockPaymentRepository{payments: make(map[uint]*models.Payment)},
		users:    &mockUserRepository{users: make(map[string]*models.AppUser)},
		roles:    &mockRoleRepository{roles: make(map[string]*models.AppRole)},
	}
}

func (m *mockRepository) Student() repositories.StudentRepository { return m.students }
func (m *mockRepository) Payment() repositories.PaymentRepository { return m.payments }
func (m *mockRepository) User() repositories.UserRepository       { return m.users }
func (m *mockRepository) Role() repositories.RoleRepository       { return m.roles }
func (m *mockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}
func (m *mockRepository) Ping(ctx context.Context) error { return nil }
func (m *mockRepository) Close() error                   { return nil }

// ===== STUDENT =====

type mockStudentRepository struct {
	students map[string]*models.Student
}

func (m *mockStudentRepository) GetByCode(ctx context.Context, tx *gorm.DB, code string) (*models.Student, error) {
	student, ok := m.students[code]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return student, nil
}

func (m *mockStudentRepository) GetByProgramID(ctx context.Context, tx *gorm.DB, programID string) ([]*models.Student, error) {
	var result []*models.Student
	for _, student := range m.students {
		if student.ProgramID == programID {
			result = append(result, student)
		}
	}
	return result, nil
}

func (m *mockStudentRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.StudentFilters) ([]*models.Student, int64, error) {
	var result []*models.Student
	for _, student := range m.students {
		if filters.ProgramID != nil && student.ProgramID != *filters.ProgramID {
			continue
		}
		result = append(result, student)
	}
	return result, int64(len(result)), nil
}

func (m *mockStudentRepository) ExistsByCode(ctx context.Context, tx *gorm.DB, code string) (bool, error) {
	_, ok := m.students[code]
	return ok, nil
}

// ===== PAYMENT =====

type mockPaymentRepository struct {
	payments  map[uint]*models.Payment
	nextID    uint
	createErr error
}

func (m *mockPaymentRepository) Create(ctx context.Context, tx *gorm.DB, payment *models.Payment) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	payment.ID = m.nextID
	m.payments[payment.ID] = payment
	return nil
}

func (m *mockPaymentRepository) Update(ctx context.Context, tx *gorm.DB, payment *models.Payment) error {
	if _, ok := m.payments[payment.ID]; !ok {
		return repositories.ErrNotFound
	}
	m.payments[payment.ID] = payment
	return nil
}

func (m *mockPaymentRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Payment, error) {
	payment, ok := m.payments[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return payment, nil
}

func (m *mockPaymentRepository) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Payment, error) {
	return m.GetByID(ctx, tx, id)
}

func (m *mockPaymentRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.PaymentFilters) ([]*models.Payment, int64, error) {
	var result []*models.Payment
	for _, payment := range m.payments {
		result = append(result, payment)
	}
	return result, int64(len(result)), nil
}

func (m *mockPaymentRepository) GetByStudentCode(ctx context.Context, tx *gorm.DB, code string) ([]*models.Payment, error) {
	var result []*models.Payment
	for _, payment := range m.payments {
		if payment.StudentCode == code {
			result = append(result, payment)
		}
	}
	return result, nil
}

func (m *mockPaymentRepository) GetByStatus(ctx context.Context, tx *gorm.DB, status models.PaymentStatus) ([]*models.Payment, error) {
	var result []*models.Payment
	for _, payment := range m.payments {
		if payment.Status == status {
			result = append(result, payment)
		}
	}
	return result, nil
}

func (m *mockPaymentRepository) GetByType(ctx context.Context, tx *gorm.DB, paymentType models.PaymentType) ([]*models.Payment, error) {
	var result []*models.Payment
	for _, payment := range m.payments {
		if payment.Type == paymentType {
			result = append(result, payment)
		}
	}
	return result, nil
}

// ===== USER =====

type mockUserRepository struct {
	users     map[string]*models.AppUser
	nextID    uint
	createErr error
}

func (m *mockUserRepository) Create(ctx context.Context, tx *gorm.DB, user *models.AppUser) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	user.ID = m.nextID
	m.users[user.Username] = user
	return nil
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*models.AppUser, error) {
	user, ok := m.users[username]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return user, nil
}

func (m *mockUserRepository) ExistsByUsername(ctx context.Context, tx *gorm.DB, username string) (bool, error) {
	_, ok := m.users[username]
	return ok, nil
}

func (m *mockUserRepository) AddRole(ctx context.Context, tx *gorm.DB, user *models.AppUser, role *models.AppRole) error {
	stored, ok := m.users[user.Username]
	if !ok {
		return repositories.ErrNotFound
	}
	stored.Roles = append(stored.Roles, *role)
	return nil
}

func (m *mockUserRepository) RemoveRole(ctx context.Context, tx *gorm.DB, user *models.AppUser, role *models.AppRole) error {
	stored, ok := m.users[user.Username]
	if !ok {
		return repositories.ErrNotFound
	}
	var remaining []models.AppRole
	for _, held := range stored.Roles {
		if held.Name != role.Name {
			remaining = append(remaining, held)
		}
	}
	stored.Roles = remaining
	return nil
}

// ===== ROLE =====

type mockRoleRepository struct {
	roles     map[string]*models.AppRole
	nextID    uint
	createErr error
}

func (m *mockRoleRepository) Create(ctx context.Context, tx *gorm.DB, role *models.AppRole) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	role.ID = m.nextID
	m.roles[role.Name] = role
	return nil
}

func (m *mockRoleRepository) GetByName(ctx context.Context, tx *gorm.DB, name string) (*models.AppRole, error) {
	role, ok := m.roles[name]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return role, nil
}

func (m *mockRoleRepository) ExistsByName(ctx context.Context, tx *gorm.DB, name string) (bool, error) {
	_, ok := m.roles[name]
	return ok, nil
}

func (m *mockRoleRepository) List(ctx context.Context, tx *gorm.DB) ([]*models.AppRole, error) {
	var result []*models.AppRole
	for _, role := range m.roles {
		result = append(result, role)
	}
	return result, nil
}
