package services

import (
	"context"

	"github.com/raissa-edu/student-management-service/internal/models"
	"github.com/raissa-edu/student-management-service/internal/repositories"
	"github.com/raissa-edu/student-management-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type CreatePaymentRequest = validator.CreatePaymentRequest
type RegisterUserRequest = validator.RegisterUserRequest
type CreateRoleRequest = validator.CreateRoleRequest
type AssignRoleRequest = validator.AssignRoleRequest

type PaymentResponse struct {
	*models.Payment
	HasFile bool `json:"has_file"`
}

type PaymentListResponse struct {
	Payments []*PaymentResponse `json:"payments"`
	Total    int64              `json:"total"`
}

// PaymentFile carries the stored receipt bytes back to the handler.
type PaymentFile struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
}

type StudentListResponse struct {
	Students []*models.Student `json:"students"`
	Total    int64             `json:"total"`
}

type UserResponse struct {
	Username string         `json:"username"`
	Email    string         `json:"email"`
	Roles    []string       `json:"roles"`
	Scopes   []models.Scope `json:"scopes"`
}

// ===== SERVICE INTERFACES =====

type PaymentService interface {
	// Core operations
	Create(ctx context.Context, req *CreatePaymentRequest, file []byte, filename string) (*PaymentResponse, error)
	GetByID(ctx context.Context, id uint) (*PaymentResponse, error)
	UpdateStatus(ctx context.Context, id uint, status string) (*PaymentResponse, error)

	// List operations
	List(ctx context.Context, filters repositories.PaymentFilters) (*PaymentListResponse, error)
	GetByStudentCode(ctx context.Context, studentCode string) (*PaymentListResponse, error)
	GetByStatus(ctx context.Context, status string) (*PaymentListResponse, error)
	GetByType(ctx context.Context, paymentType string) (*PaymentListResponse, error)

	// Receipt file access
	GetFile(ctx context.Context, id uint) (*PaymentFile, error)

	// Reporting
	ExportReport(ctx context.Context) ([]byte, error)
}

type StudentService interface {
	GetByCode(ctx context.Context, code string) (*models.Student, error)
	GetByProgramID(ctx context.Context, programID string) (*StudentListResponse, error)
	List(ctx context.Context, filters repositories.StudentFilters) (*StudentListResponse, error)
}

type AccountService interface {
	// User management
	AddNewUser(ctx context.Context, req *RegisterUserRequest) (*UserResponse, error)
	LoadUserByUsername(ctx context.Context, username string) (*UserResponse, error)

	// Role management
	AddNewRole(ctx context.Context, req *CreateRoleRequest) (*models.AppRole, error)
	AddRoleToUser(ctx context.Context, username, roleName string) (*UserResponse, error)
	RemoveRoleFromUser(ctx context.Context, username, roleName string) (*UserResponse, error)

	// Credential checks
	VerifyPassword(ctx context.Context, username, password string) (*UserResponse, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	// Core service getters
	Payment() PaymentService
	Student() StudentService
	Account() AccountService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
