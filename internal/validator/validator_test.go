package validator

import (
	"errors"
	"testing"

	"github.com/raissa-edu/student-management-service/internal/models"
)

func TestValidate_CreatePaymentRequest(t *testing.T) {
	v := New()

	valid := &CreatePaymentRequest{
		StudentCode: "ST-001",
		Amount:      1500,
		Type:        models.PaymentTuition,
		Date:        "2026-01-15",
	}
	if err := v.Validate(valid); err != nil {
		t.Fatalf("Expected valid request to pass, got %v", err)
	}

	invalid := &CreatePaymentRequest{
		StudentCode: "",
		Amount:      -1,
		Type:        "FEES",
		Date:        "15/01/2026",
	}
	err := v.Validate(invalid)

	var validationErrs ValidationErrors
	if !errors.As(err, &validationErrs) {
		t.Fatalf("Expected ValidationErrors, got %v", err)
	}
	if len(validationErrs) < 3 {
		t.Errorf("Expected failures for student_code, amount, type and date, got %v", validationErrs)
	}
}

func TestBusinessValidator_ValidatePaymentCreate(t *testing.T) {
	bv := NewBusinessValidator()

	future := &CreatePaymentRequest{
		StudentCode: "ST-001",
		Amount:      100,
		Type:        models.PaymentOther,
		Date:        "2099-01-01",
	}
	errs := bv.ValidatePaymentCreate(future)
	if len(errs) == 0 {
		t.Fatal("Expected future payment date to be rejected")
	}

	found := false
	for _, e := range errs {
		if e.Field == "date" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected a date violation, got %v", errs)
	}
}

func TestBusinessValidator_ValidateStatusValue(t *testing.T) {
	bv := NewBusinessValidator()

	status, errs := bv.ValidateStatusValue("PAID")
	if len(errs) != 0 {
		t.Fatalf("Expected PAID to parse, got %v", errs)
	}
	if status != models.PaymentPaid {
		t.Errorf("Expected PaymentPaid, got %v", status)
	}

	if _, errs := bv.ValidateStatusValue("SETTLED"); len(errs) == 0 {
		t.Error("Expected unknown status to be rejected")
	}
}

func TestBusinessValidator_ValidatePasswordConfirmation(t *testing.T) {
	bv := NewBusinessValidator()

	if errs := bv.ValidatePasswordConfirmation("secret-value", "secret-value"); len(errs) != 0 {
		t.Errorf("Expected matching passwords to pass, got %v", errs)
	}
	if errs := bv.ValidatePasswordConfirmation("secret-value", "other"); len(errs) == 0 {
		t.Error("Expected mismatched passwords to fail")
	}
}
