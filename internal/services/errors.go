package services

import (
	"errors"
	"fmt"
)

// ===== SENTINEL ERRORS =====

var (
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrPaymentFileNotFound = errors.New("payment has no receipt file")
	ErrStudentNotFound     = errors.New("student not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrRoleNotFound        = errors.New("role not found")

	ErrUserAlreadyExists = errors.New("user already exists")
	ErrRoleAlreadyExists = errors.New("role already exists")
	ErrRoleAlreadyHeld   = errors.New("user already holds role")
	ErrRoleNotHeld       = errors.New("user does not hold role")

	ErrInvalidPaymentStatus = errors.New("invalid payment status")
	ErrValidationFailed     = errors.New("validation failed")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrForbidden            = errors.New("forbidden")
)

// ===== TYPED ERRORS =====

// BusinessRuleError indicates a domain rule was violated by an otherwise
// well-formed request.
type BusinessRuleError struct {
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

func (e *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule %s violated: %s", e.Rule, e.Message)
}

func NewBusinessRuleError(rule, message string) *BusinessRuleError {
	return &BusinessRuleError{Rule: rule, Message: message}
}

// PermissionError indicates the caller lacks the scope or ownership
// required for an operation.
type PermissionError struct {
	UserID     string `json:"user_id"`
	Resource   string `json:"resource"`
	ResourceID string `json:"resource_id"`
	Action     string `json:"action"`
	Reason     string `json:"reason"`
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %s cannot %s %s %s: %s", e.UserID, e.Action, e.Resource, e.ResourceID, e.Reason)
}

func NewPermissionError(userID, resource, resourceID, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		Resource:   resource,
		ResourceID: resourceID,
		Action:     action,
		Reason:     reason,
	}
}

// IsNotFound reports whether err is one of the service-level not-found
// sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPaymentNotFound) ||
		errors.Is(err, ErrPaymentFileNotFound) ||
		errors.Is(err, ErrStudentNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrRoleNotFound) ||
		errors.Is(err, ErrRoleNotHeld)
}

// IsConflict reports whether err is one of the duplicate-state sentinels.
func IsConflict(err error) bool {
	return errors.Is(err, ErrUserAlreadyExists) ||
		errors.Is(err, ErrRoleAlreadyExists) ||
		errors.Is(err, ErrRoleAlreadyHeld)
}
