package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"

	"github.com/raissa-edu/student-management-service/internal/events"
	"github.com/raissa-edu/student-management-service/internal/models"
	"github.com/raissa-edu/student-management-service/internal/storage"
	"github.com/raissa-edu/student-management-service/internal/validator"
)

func newPaymentServiceFixture() (PaymentService, *mockRepository, *storage.MemoryFileStore, *events.MockEventPublisher) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	repo := newMockRepository()
	fileStore := storage.NewMemoryFileStore()
	publisher := events.NewMockEventPublisher(logger)

	repo.students.students["ST-001"] = &models.Student{
		ID:        "b13d12c8-0000-4000-8000-000000000001",
		FirstName: "Raissa",
		LastName:  "Diallo",
		Code:      "ST-001",
		ProgramID: "CS",
	}

	service := NewPaymentService(repo, nil, logger, validator.New(), fileStore, publisher)
	return service, repo, fileStore, publisher
}

func TestPaymentService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		service, _, fileStore, publisher := newPaymentServiceFixture()

		receipt := []byte("%PDF-1.4 receipt")
		payment, err := service.Create(ctx, &CreatePaymentRequest{
			StudentCode: "ST-001",
			Amount:      1500,
			Type:        models.PaymentTuition,
			Date:        "2026-01-15",
		}, receipt, "receipt.pdf")
		if err != nil {
			t.Fatalf("Failed to create payment: %v", err)
		}

		if payment.Status != models.PaymentPending {
			t.Errorf("Expected status PENDING, got %s", payment.Status)
		}
		if !payment.HasFile {
			t.Error("Expected payment to carry a receipt file")
		}
		if fileStore.Len() != 1 {
			t.Errorf("Expected 1 stored blob, got %d", fileStore.Len())
		}

		published := publisher.GetPublishedEvents()
		if len(published) != 1 {
			t.Fatalf("Expected 1 event, got %d", len(published))
		}
		if published[0].Type != events.PaymentCreated {
			t.Errorf("Expected event type %s, got %s", events.PaymentCreated, published[0].Type)
		}
	})

	t.Run("UnknownStudent", func(t *testing.T) {
		service, _, fileStore, publisher := newPaymentServiceFixture()

		_, err := service.Create(ctx, &CreatePaymentRequest{
			StudentCode: "ST-404",
			Amount:      100,
			Type:        models.PaymentOther,
		}, []byte("receipt"), "receipt.pdf")
		if !errors.Is(err, ErrStudentNotFound) {
			t.Fatalf("Expected ErrStudentNotFound, got %v", err)
		}

		if fileStore.Len() != 0 {
			t.Errorf("Expected no stored blob for rejected payment, got %d", fileStore.Len())
		}
		if len(publisher.GetPublishedEvents()) != 0 {
			t.Error("Expected no events for rejected payment")
		}
	})

	t.Run("ValidationFailure", func(t *testing.T) {
		service, _, _, _ := newPaymentServiceFixture()

		_, err := service.Create(ctx, &CreatePaymentRequest{
			StudentCode: "ST-001",
			Amount:      -5,
			Type:        models.PaymentTuition,
		}, []byte("receipt"), "receipt.pdf")

		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			t.Fatalf("Expected ValidationErrors, got %v", err)
		}
	})

	t.Run("InsertFailureCleansUpBlob", func(t *testing.T) {
		service, repo, fileStore, publisher := newPaymentServiceFixture()
		repo.payments.createErr = fmt.Errorf("insert failed")

		_, err := service.Create(ctx, &CreatePaymentRequest{
			StudentCode: "ST-001",
			Amount:      100,
			Type:        models.PaymentRegistration,
		}, []byte("receipt"), "receipt.pdf")
		if err == nil {
			t.Fatal("Expected create to fail")
		}

		if fileStore.Len() != 0 {
			t.Errorf("Expected orphaned blob to be deleted, got %d blobs", fileStore.Len())
		}
		if len(publisher.GetPublishedEvents()) != 0 {
			t.Error("Expected no events for failed payment")
		}
	})
}

func TestPaymentService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("OverwritesAnyStatus", func(t *testing.T) {
		service, _, _, publisher := newPaymentServiceFixture()

		created, err := service.Create(ctx, &CreatePaymentRequest{
			StudentCode: "ST-001",
			Amount:      100,
			Type:        models.PaymentTuition,
		}, []byte("receipt"), "receipt.pdf")
		if err != nil {
			t.Fatalf("Failed to create payment: %v", err)
		}
		publisher.ClearEvents()

		// PENDING -> PAID -> REJECTED -> PENDING all succeed
		for _, status := range []models.PaymentStatus{models.PaymentPaid, models.PaymentRejected, models.PaymentPending} {
			updated, err := service.UpdateStatus(ctx, created.ID, string(status))
			if err != nil {
				t.Fatalf("Failed to update status to %s: %v", status, err)
			}
			if updated.Status != status {
				t.Errorf("Expected status %s, got %s", status, updated.Status)
			}
		}

		published := publisher.GetPublishedEvents()
		if len(published) != 3 {
			t.Fatalf("Expected 3 events, got %d", len(published))
		}
		for _, event := range published {
			if event.Type != events.PaymentStatusUpdated {
				t.Errorf("Expected event type %s, got %s", events.PaymentStatusUpdated, event.Type)
			}
		}
	})

	t.Run("UnknownStatus", func(t *testing.T) {
		service, _, _, _ := newPaymentServiceFixture()

		_, err := service.UpdateStatus(ctx, 1, "SETTLED")

		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			t.Fatalf("Expected ValidationErrors, got %v", err)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		service, _, _, _ := newPaymentServiceFixture()

		_, err := service.UpdateStatus(ctx, 9999, string(models.PaymentPaid))
		if !errors.Is(err, ErrPaymentNotFound) {
			t.Fatalf("Expected ErrPaymentNotFound, got %v", err)
		}
	})
}

func TestPaymentService_GetFile(t *testing.T) {
	ctx := context.Background()

	t.Run("RoundTrip", func(t *testing.T) {
		service, _, _, _ := newPaymentServiceFixture()

		receipt := []byte{0x25, 0x50, 0x44, 0x46, 0x00, 0xFF, 0x10}
		created, err := service.Create(ctx, &CreatePaymentRequest{
			StudentCode: "ST-001",
			Amount:      100,
			Type:        models.PaymentTuition,
		}, receipt, "receipt.pdf")
		if err != nil {
			t.Fatalf("Failed to create payment: %v", err)
		}

		file, err := service.GetFile(ctx, created.ID)
		if err != nil {
			t.Fatalf("Failed to get payment file: %v", err)
		}
		if !bytes.Equal(file.Data, receipt) {
			t.Error("Stored receipt does not match uploaded bytes")
		}
	})

	t.Run("PaymentWithoutFile", func(t *testing.T) {
		service, repo, _, _ := newPaymentServiceFixture()
		repo.payments.payments[42] = &models.Payment{ID: 42, StudentCode: "ST-001"}

		_, err := service.GetFile(ctx, 42)
		if !errors.Is(err, ErrPaymentFileNotFound) {
			t.Fatalf("Expected ErrPaymentFileNotFound, got %v", err)
		}
	})

	t.Run("PaymentMissing", func(t *testing.T) {
		service, _, _, _ := newPaymentServiceFixture()

		_, err := service.GetFile(ctx, 9999)
		if !errors.Is(err, ErrPaymentNotFound) {
			t.Fatalf("Expected ErrPaymentNotFound, got %v", err)
		}
	})
}

func TestPaymentService_GetByStudentCode(t *testing.T) {
	ctx := context.Background()

	t.Run("ReturnsStudentPayments", func(t *testing.T) {
		service, _, _, _ := newPaymentServiceFixture()

		if _, err := service.Create(ctx, &CreatePaymentRequest{
			StudentCode: "ST-001",
			Amount:      100,
			Type:        models.PaymentTuition,
		}, []byte("receipt"), "receipt.pdf"); err != nil {
			t.Fatalf("Failed to create payment: %v", err)
		}

		payments, err := service.GetByStudentCode(ctx, "ST-001")
		if err != nil {
			t.Fatalf("Failed to get payments by student: %v", err)
		}
		if payments.Total != 1 {
			t.Errorf("Expected 1 payment, got %d", payments.Total)
		}
	})

	t.Run("UnknownCodeYieldsEmptyList", func(t *testing.T) {
		service, _, _, _ := newPaymentServiceFixture()

		payments, err := service.GetByStudentCode(ctx, "ST-404")
		if err != nil {
			t.Fatalf("Expected empty list for unknown code, got error %v", err)
		}
		if payments.Total != 0 || len(payments.Payments) != 0 {
			t.Errorf("Expected empty list, got %d payments", payments.Total)
		}
	})
}

func TestPaymentService_GetByStatus(t *testing.T) {
	ctx := context.Background()
	service, _, _, _ := newPaymentServiceFixture()

	if _, err := service.Create(ctx, &CreatePaymentRequest{
		StudentCode: "ST-001",
		Amount:      100,
		Type:        models.PaymentTuition,
	}, []byte("receipt"), "receipt.pdf"); err != nil {
		t.Fatalf("Failed to create payment: %v", err)
	}

	payments, err := service.GetByStatus(ctx, string(models.PaymentPending))
	if err != nil {
		t.Fatalf("Failed to get payments by status: %v", err)
	}
	if payments.Total != 1 {
		t.Errorf("Expected 1 pending payment, got %d", payments.Total)
	}

	var validationErrs validator.ValidationErrors
	if _, err := service.GetByStatus(ctx, "SETTLED"); !errors.As(err, &validationErrs) {
		t.Errorf("Expected ValidationErrors for unknown status, got %v", err)
	}
}

func TestPaymentService_ExportReport(t *testing.T) {
	ctx := context.Background()
	service, _, _, _ := newPaymentServiceFixture()

	if _, err := service.Create(ctx, &CreatePaymentRequest{
		StudentCode: "ST-001",
		Amount:      750,
		Type:        models.PaymentRegistration,
	}, []byte("receipt"), "receipt.pdf"); err != nil {
		t.Fatalf("Failed to create payment: %v", err)
	}

	report, err := service.ExportReport(ctx)
	if err != nil {
		t.Fatalf("Failed to export report: %v", err)
	}
	if len(report) == 0 {
		t.Fatal("Expected non-empty workbook")
	}
	// XLSX files are zip archives
	if !bytes.HasPrefix(report, []byte("PK")) {
		t.Error("Expected workbook to start with zip magic bytes")
	}
}
