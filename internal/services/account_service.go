package services

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/raissa-edu/student-management-service/internal/models"
	"github.com/raissa-edu/student-management-service/internal/repositories"
	"github.com/raissa-edu/student-management-service/internal/validator"
)

type accountService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewAccountService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) AccountService {
	return &accountService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
	}
}

// ===== USER MANAGEMENT =====

func (s *accountService) AddNewUser(ctx context.Context, req *RegisterUserRequest) (*UserResponse, error) {
	s.logger.Info("Registering user", "username", req.Username)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	// Password confirmation is checked before anything is persisted.
	if errs := s.validator.GetBusinessValidator().ValidatePasswordConfirmation(req.Password, req.ConfirmPassword); len(errs) > 0 {
		return nil, errs
	}

	exists, err := s.repo.User().ExistsByUsername(ctx, nil, req.Username)
	if err != nil {
		return nil, fmt.Errorf("user lookup failed: %w", err)
	}
	if exists {
		return nil, ErrUserAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.AppUser{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hash),
	}

	if err := s.repo.User().Create(ctx, nil, user); err != nil {
		// A concurrent registration can slip past the existence check and
		// land on the unique constraint instead.
		if repositories.IsConflictError(err) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User registered", "username", user.Username)

	return buildUserResponse(user), nil
}

func (s *accountService) LoadUserByUsername(ctx context.Context, username string) (*UserResponse, error) {
	user, err := s.getUser(ctx, username)
	if err != nil {
		return nil, err
	}

	return buildUserResponse(user), nil
}

// ===== ROLE MANAGEMENT =====

func (s *accountService) AddNewRole(ctx context.Context, req *CreateRoleRequest) (*models.AppRole, error) {
	s.logger.Info("Creating role", "role", req.Name)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	exists, err := s.repo.Role().ExistsByName(ctx, nil, req.Name)
	if err != nil {
		return nil, fmt.Errorf("role lookup failed: %w", err)
	}
	if exists {
		return nil, ErrRoleAlreadyExists
	}

	role := &models.AppRole{Name: req.Name}
	if err := s.repo.Role().Create(ctx, nil, role); err != nil {
		if repositories.IsConflictError(err) {
			return nil, ErrRoleAlreadyExists
		}
		return nil, fmt.Errorf("failed to create role: %w", err)
	}

	s.logger.Info("Role created", "role", role.Name)

	return role, nil
}

func (s *accountService) AddRoleToUser(ctx context.Context, username, roleName string) (*UserResponse, error) {
	s.logger.Info("Assigning role", "username", username, "role", roleName)

	user, err := s.getUser(ctx, username)
	if err != nil {
		return nil, err
	}

	role, err := s.getRole(ctx, roleName)
	if err != nil {
		return nil, err
	}

	if user.HasRole(role.Name) {
		return nil, ErrRoleAlreadyHeld
	}

	if err := s.repo.User().AddRole(ctx, nil, user, role); err != nil {
		return nil, fmt.Errorf("failed to assign role: %w", err)
	}

	user.Roles = append(user.Roles, *role)

	s.logger.Info("Role assigned", "username", user.Username, "role", role.Name)

	return buildUserResponse(user), nil
}

func (s *accountService) RemoveRoleFromUser(ctx context.Context, username, roleName string) (*UserResponse, error) {
	s.logger.Info("Removing role", "username", username, "role", roleName)

	user, err := s.getUser(ctx, username)
	if err != nil {
		return nil, err
	}

	role, err := s.getRole(ctx, roleName)
	if err != nil {
		return nil, err
	}

	if !user.HasRole(role.Name) {
		return nil, ErrRoleNotHeld
	}

	if err := s.repo.User().RemoveRole(ctx, nil, user, role); err != nil {
		return nil, fmt.Errorf("failed to remove role: %w", err)
	}

	remaining := make([]models.AppRole, 0, len(user.Roles))
	for _, held := range user.Roles {
		if held.Name != role.Name {
			remaining = append(remaining, held)
		}
	}
	user.Roles = remaining

	s.logger.Info("Role removed", "username", user.Username, "role", role.Name)

	return buildUserResponse(user), nil
}

// ===== CREDENTIAL CHECKS =====

func (s *accountService) VerifyPassword(ctx context.Context, username, password string) (*UserResponse, error) {
	user, err := s.getUser(ctx, username)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrUnauthorized
	}

	return buildUserResponse(user), nil
}

// ===== HELPERS =====

func (s *accountService) getUser(ctx context.Context, username string) (*models.AppUser, error) {
	user, err := s.repo.User().GetByUsername(ctx, nil, username)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *accountService) getRole(ctx context.Context, name string) (*models.AppRole, error) {
	role, err := s.repo.Role().GetByName(ctx, nil, name)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to get role: %w", err)
	}
	return role, nil
}

func buildUserResponse(user *models.AppUser) *UserResponse {
	roles := make([]string, 0, len(user.Roles))
	for _, role := range user.Roles {
		roles = append(roles, role.Name)
	}

	return &UserResponse{
		Username: user.Username,
		Email:    user.Email,
		Roles:    roles,
		Scopes:   user.Scopes(),
	}
}
