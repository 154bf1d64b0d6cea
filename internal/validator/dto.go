package validator

import "github.com/raissa-edu/student-management-service/internal/models"

// CreatePaymentRequest is the JSON part of the multipart payment creation
// request; the receipt file travels alongside it.
type CreatePaymentRequest struct {
	StudentCode string             `json:"student_code" validate:"required,max=20"`
	Amount      float64            `json:"amount" validate:"required,gt=0"`
	Type        models.PaymentType `json:"type" validate:"required,oneof=TUITION REGISTRATION OTHER"`
	Date        string             `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

type RegisterUserRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=100"`
	Password        string `json:"password" validate:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
}

type CreateRoleRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

type AssignRoleRequest struct {
	Role string `json:"role" validate:"required,min=2,max=100"`
}
