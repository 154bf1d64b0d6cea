package services

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/raissa-edu/student-management-service/internal/events"
	"github.com/raissa-edu/student-management-service/internal/models"
	"github.com/raissa-edu/student-management-service/internal/repositories"
	"github.com/raissa-edu/student-management-service/internal/storage"
	"github.com/raissa-edu/student-management-service/internal/validator"
)

type paymentService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	fileStore storage.FileStore
	publisher events.EventPublisher
}

func NewPaymentService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, fileStore storage.FileStore, publisher events.EventPublisher) PaymentService {
	return &paymentService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		fileStore: fileStore,
		publisher: publisher,
	}
}

// ===== CORE OPERATIONS =====

func (s *paymentService) Create(ctx context.Context, req *CreatePaymentRequest, file []byte, filename string) (*PaymentResponse, error) {
	s.logger.Info("Creating payment", "student_code", req.StudentCode, "amount", req.Amount, "type", req.Type)

	// Validate request with business rules
	if errs := s.validator.GetBusinessValidator().ValidatePaymentCreate(req); len(errs) > 0 {
		return nil, errs
	}

	// Every payment must reference an existing student
	exists, err := s.repo.Student().ExistsByCode(ctx, nil, req.StudentCode)
	if err != nil {
		return nil, fmt.Errorf("student lookup failed: %w", err)
	}
	if !exists {
		return nil, ErrStudentNotFound
	}

	// Commit the receipt blob before the record so the record never points
	// at a blob that does not exist.
	blobKey := buildBlobKey(filename)
	if err := s.fileStore.Save(ctx, blobKey, file); err != nil {
		return nil, fmt.Errorf("failed to store receipt file: %w", err)
	}

	payment := &models.Payment{
		Date:        parsePaymentDate(req.Date),
		Amount:      req.Amount,
		Type:        req.Type,
		Status:      models.PaymentPending,
		File:        blobKey,
		StudentCode: req.StudentCode,
	}

	if err := s.repo.Payment().Create(ctx, nil, payment); err != nil {
		// Insert failed; remove the orphaned blob before surfacing the error.
		if delErr := s.fileStore.Delete(ctx, blobKey); delErr != nil {
			s.logger.Error("Failed to clean up orphaned receipt blob", "blob_key", blobKey, "error", delErr)
		}
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	s.publishEvent(ctx, events.NewEvent(events.PaymentCreated, events.PaymentCreatedEvent{
		PaymentID:   payment.ID,
		StudentCode: payment.StudentCode,
		Amount:      payment.Amount,
		Type:        string(payment.Type),
		Status:      string(payment.Status),
	}))

	s.logger.Info("Payment created successfully", "payment_id", payment.ID, "student_code", payment.StudentCode)

	return s.buildPaymentResponse(payment), nil
}

func (s *paymentService) GetByID(ctx context.Context, id uint) (*PaymentResponse, error) {
	payment, err := s.repo.Payment().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	return s.buildPaymentResponse(payment), nil
}

func (s *paymentService) UpdateStatus(ctx context.Context, id uint, status string) (*PaymentResponse, error) {
	s.logger.Info("Updating payment status", "payment_id", id, "status", status)

	newStatus, errs := s.validator.GetBusinessValidator().ValidateStatusValue(status)
	if len(errs) > 0 {
		return nil, errs
	}

	// Load and save inside one transaction with a locked, cache-bypassing
	// read: a cached copy must never be written back to the database.
	var payment *models.Payment
	var previousStatus models.PaymentStatus
	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		loaded, err := txRepo.Payment().GetByIDForUpdate(ctx, nil, id)
		if err != nil {
			return err
		}

		// Any status may replace any other; there is no transition graph.
		previousStatus = loaded.Status
		loaded.Status = newStatus

		if err := txRepo.Payment().Update(ctx, nil, loaded); err != nil {
			return err
		}

		payment = loaded
		return nil
	})
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to update payment: %w", err)
	}

	s.publishEvent(ctx, events.NewEvent(events.PaymentStatusUpdated, events.PaymentStatusUpdatedEvent{
		PaymentID:      payment.ID,
		StudentCode:    payment.StudentCode,
		PreviousStatus: string(previousStatus),
		Status:         string(payment.Status),
	}))

	s.logger.Info("Payment status updated", "payment_id", payment.ID, "previous_status", previousStatus, "status", payment.Status)

	return s.buildPaymentResponse(payment), nil
}

// ===== LIST OPERATIONS =====

func (s *paymentService) List(ctx context.Context, filters repositories.PaymentFilters) (*PaymentListResponse, error) {
	payments, total, err := s.repo.Payment().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	return s.buildPaymentListResponse(payments, total), nil
}

// GetByStudentCode is a pure read: an unknown code yields an empty list,
// the same as a student with no payments.
func (s *paymentService) GetByStudentCode(ctx context.Context, studentCode string) (*PaymentListResponse, error) {
	payments, err := s.repo.Payment().GetByStudentCode(ctx, nil, studentCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get payments by student: %w", err)
	}

	return s.buildPaymentListResponse(payments, int64(len(payments))), nil
}

func (s *paymentService) GetByStatus(ctx context.Context, status string) (*PaymentListResponse, error) {
	parsed, errs := s.validator.GetBusinessValidator().ValidateStatusValue(status)
	if len(errs) > 0 {
		return nil, errs
	}

	payments, err := s.repo.Payment().GetByStatus(ctx, nil, parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to get payments by status: %w", err)
	}

	return s.buildPaymentListResponse(payments, int64(len(payments))), nil
}

func (s *paymentService) GetByType(ctx context.Context, paymentType string) (*PaymentListResponse, error) {
	parsed, err := models.ParsePaymentType(paymentType)
	if err != nil {
		return nil, validator.ValidationErrors{{
			Field:   "type",
			Message: "unknown payment type",
			Value:   paymentType,
			Rule:    "business_logic",
		}}
	}

	payments, err := s.repo.Payment().GetByType(ctx, nil, parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to get payments by type: %w", err)
	}

	return s.buildPaymentListResponse(payments, int64(len(payments))), nil
}

// ===== RECEIPT FILE ACCESS =====

func (s *paymentService) GetFile(ctx context.Context, id uint) (*PaymentFile, error) {
	payment, err := s.repo.Payment().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	if payment.File == "" {
		return nil, ErrPaymentFileNotFound
	}

	data, err := s.fileStore.Load(ctx, payment.File)
	if err != nil {
		if err == storage.ErrFileNotFound {
			return nil, ErrPaymentFileNotFound
		}
		return nil, fmt.Errorf("failed to load receipt file: %w", err)
	}

	return &PaymentFile{
		Name:        payment.File,
		ContentType: "application/pdf",
		Data:        data,
	}, nil
}

// ===== REPORTING =====

// ExportReport renders every payment into an XLSX workbook.
func (s *paymentService) ExportReport(ctx context.Context) ([]byte, error) {
	s.logger.Info("Exporting payment report")

	payments, _, err := s.repo.Payment().List(ctx, nil, repositories.PaymentFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to list payments for export: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Error("Failed to close workbook", "error", err)
		}
	}()

	const sheet = "Payments"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create report sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	headers := []string{"ID", "Student Code", "Date", "Amount", "Type", "Status", "Created At"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write report header: %w", err)
		}
	}

	for row, payment := range payments {
		values := []interface{}{
			payment.ID,
			payment.StudentCode,
			time.Time(payment.Date).Format("2006-01-02"),
			payment.Amount,
			string(payment.Type),
			string(payment.Status),
			payment.CreatedAt.Format(time.RFC3339),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write report row: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	s.logger.Info("Payment report exported", "payments", len(payments))

	return buf.Bytes(), nil
}

// ===== HELPERS =====

func (s *paymentService) buildPaymentResponse(payment *models.Payment) *PaymentResponse {
	return &PaymentResponse{
		Payment: payment,
		HasFile: payment.File != "",
	}
}

func (s *paymentService) buildPaymentListResponse(payments []*models.Payment, total int64) *PaymentListResponse {
	responses := make([]*PaymentResponse, 0, len(payments))
	for _, payment := range payments {
		responses = append(responses, s.buildPaymentResponse(payment))
	}
	return &PaymentListResponse{Payments: responses, Total: total}
}

// publishEvent hands the event to the bus; failures are logged and never
// fail the originating request.
func (s *paymentService) publishEvent(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish event", "event_type", event.Type, "error", err)
	}
}

// buildBlobKey derives a collision-free storage key, keeping the upload's
// extension so content type stays recoverable from the key alone.
func buildBlobKey(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return uuid.New().String() + ext
}

// parsePaymentDate falls back to today when the request omits the date.
func parsePaymentDate(value string) datatypes.Date {
	if value != "" {
		if date, err := time.Parse("2006-01-02", value); err == nil {
			return datatypes.Date(date)
		}
	}
	return datatypes.Date(time.Now())
}
