package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/raissa-edu/student-management-service/internal/models"
	"github.com/raissa-edu/student-management-service/internal/repositories"
)

// studentService exposes read-only views of the student roster; records are
// owned by the enrollment system.
type studentService struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
}

func NewStudentService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger) StudentService {
	return &studentService{
		repo:   repo,
		db:     db,
		logger: logger,
	}
}

func (s *studentService) GetByCode(ctx context.Context, code string) (*models.Student, error) {
	student, err := s.repo.Student().GetByCode(ctx, nil, code)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}

	return student, nil
}

func (s *studentService) GetByProgramID(ctx context.Context, programID string) (*StudentListResponse, error) {
	students, err := s.repo.Student().GetByProgramID(ctx, nil, programID)
	if err != nil {
		return nil, fmt.Errorf("failed to get students by program: %w", err)
	}

	return &StudentListResponse{Students: students, Total: int64(len(students))}, nil
}

func (s *studentService) List(ctx context.Context, filters repositories.StudentFilters) (*StudentListResponse, error) {
	students, total, err := s.repo.Student().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	return &StudentListResponse{Students: students, Total: total}, nil
}
