package validator

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/raissa-edu/student-management-service/internal/models"
)

// BusinessValidator handles rules that struct tags cannot express.
type BusinessValidator struct {
	validate *validator.Validate
}

func NewBusinessValidator() *BusinessValidator {
	return &BusinessValidator{validate: validator.New()}
}

// ValidatePaymentCreate validates payment creation beyond the struct tags:
// the payment date may not lie in the future and the type must be a known
// enum value even when the request bypassed binding.
func (bv *BusinessValidator) ValidatePaymentCreate(req *CreatePaymentRequest) ValidationErrors {
	var errors ValidationErrors

	if err := bv.validate.Struct(req); err != nil {
		errors = append(errors, ToValidationErrors(err)...)
	}

	if !req.Type.Valid() {
		errors = append(errors, ValidationError{
			Field:   "type",
			Message: "unknown payment type",
			Value:   req.Type,
			Rule:    "business_logic",
		})
	}

	if req.Date != "" {
		if date, err := time.Parse("2006-01-02", req.Date); err == nil {
			if date.After(time.Now()) {
				errors = append(errors, ValidationError{
					Field:   "date",
					Message: "payment date may not be in the future",
					Value:   req.Date,
					Rule:    "business_logic",
				})
			}
		}
	}

	return errors
}

// ValidateStatusValue validates a status string received as a query value.
func (bv *BusinessValidator) ValidateStatusValue(value string) (models.PaymentStatus, ValidationErrors) {
	status, err := models.ParsePaymentStatus(value)
	if err != nil {
		return "", ValidationErrors{{
			Field:   "status",
			Message: "unknown payment status",
			Value:   value,
			Rule:    "business_logic",
		}}
	}
	return status, nil
}

// ValidatePasswordConfirmation checks the register request's password pair.
func (bv *BusinessValidator) ValidatePasswordConfirmation(password, confirmPassword string) ValidationErrors {
	if password != confirmPassword {
		return ValidationErrors{{
			Field:   "confirm_password",
			Message: "passwords do not match",
			Rule:    "business_logic",
		}}
	}
	return nil
}
