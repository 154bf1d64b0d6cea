package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/raissa-edu/student-management-service/internal/repositories"
	"github.com/raissa-edu/student-management-service/internal/services"
	"github.com/raissa-edu/student-management-service/internal/utils"
)

// maxReceiptSize caps the uploaded receipt document at 10 MiB.
const maxReceiptSize = 10 << 20

type PaymentHandler struct {
	BaseHandler
	service services.PaymentService
}

func NewPaymentHandler(service services.PaymentService, logger utils.Logger) *PaymentHandler {
	return &PaymentHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== PAYMENT ENDPOINTS =====

// ListPayments returns all payments
// @Summary List payments
// @Description Get all payments with optional pagination and sorting
// @Tags payments
// @Accept json
// @Produce json
// @Param limit query int false "Page size (default: all)"
// @Param offset query int false "Offset into the result set"
// @Param sort_by query string false "Sort by: created_at, date, amount, id"
// @Param sort_order query string false "Sort order: asc, desc"
// @Success 200 {object} services.PaymentListResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /payments [get]
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	h.LogRequest(c, "Listing payments")

	filters := repositories.PaymentFilters{
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	if limitStr := c.Query("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			filters.Limit = limit
		}
	}
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset > 0 {
			filters.Offset = offset
		}
	}

	payments, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, payments)
}

// GetPaymentsByStudent returns the payments of one student
// @Summary Get payments by student
// @Description Get all payments recorded for the given student code; unknown codes yield an empty list
// @Tags payments
// @Accept json
// @Produce json
// @Param code path string true "Student code"
// @Success 200 {object} services.PaymentListResponse
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /student/{code}/payments [get]
func (h *PaymentHandler) GetPaymentsByStudent(c *gin.Context) {
	code := c.Param("code")
	h.LogRequest(c, "Getting payments by student", "student_code", code)

	payments, err := h.service.GetByStudentCode(c.Request.Context(), code)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, payments)
}

// GetPaymentsByStatus returns payments filtered by status
// @Summary Get payments by status
// @Description Get all payments currently in the given status
// @Tags payments
// @Accept json
// @Produce json
// @Param status query string true "Payment status: PENDING, PAID, REJECTED"
// @Success 200 {object} services.PaymentListResponse
// @Failure 400 {object} ErrorResponse "Unknown status"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /payments/byStatus [get]
func (h *PaymentHandler) GetPaymentsByStatus(c *gin.Context) {
	status := c.Query("status")
	h.LogRequest(c, "Getting payments by status", "status", status)

	payments, err := h.service.GetByStatus(c.Request.Context(), status)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, payments)
}

// GetPaymentsByType returns payments filtered by type
// @Summary Get payments by type
// @Description Get all payments of the given type
// @Tags payments
// @Accept json
// @Produce json
// @Param type path string true "Payment type: TUITION, REGISTRATION, OTHER"
// @Success 200 {object} services.PaymentListResponse
// @Failure 400 {object} ErrorResponse "Unknown type"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /payments/byType/{type} [get]
func (h *PaymentHandler) GetPaymentsByType(c *gin.Context) {
	paymentType := c.Param("type")
	h.LogRequest(c, "Getting payments by type", "type", paymentType)

	payments, err := h.service.GetByType(c.Request.Context(), paymentType)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, payments)
}

// GetPayment returns a single payment
// @Summary Get payment
// @Description Get one payment by its ID
// @Tags payments
// @Accept json
// @Produce json
// @Param id path uint true "Payment ID"
// @Success 200 {object} services.PaymentResponse
// @Failure 400 {object} ErrorResponse "Invalid ID"
// @Failure 404 {object} ErrorResponse "Payment not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /payments/{id} [get]
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	h.LogRequest(c, "Getting payment", "payment_id", id)

	payment, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

// GetPaymentFile streams the receipt document of a payment
// @Summary Get payment receipt file
// @Description Download the receipt document stored for the payment
// @Tags payments
// @Produce application/pdf
// @Param id path uint true "Payment ID"
// @Success 200 {file} binary
// @Failure 400 {object} ErrorResponse "Invalid ID"
// @Failure 404 {object} ErrorResponse "Payment or file not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /payments/{id}/file [get]
func (h *PaymentHandler) GetPaymentFile(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	h.LogRequest(c, "Getting payment file", "payment_id", id)

	file, err := h.service.GetFile(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+file.Name+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// ExportPayments renders the payment report workbook
// @Summary Export payment report
// @Description Export every payment as an XLSX workbook
// @Tags payments
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /payments/export [get]
func (h *PaymentHandler) ExportPayments(c *gin.Context) {
	h.LogRequest(c, "Exporting payment report")

	report, err := h.service.ExportReport(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="payments.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", report)
}

// CreatePayment records a new payment with its receipt document
// @Summary Create payment
// @Description Record a payment from a multipart request carrying the receipt file and the payment details JSON
// @Tags payments
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Receipt document"
// @Param details formData string true "Payment details JSON"
// @Success 201 {object} services.PaymentResponse
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 404 {object} ErrorResponse "Student not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /payments [post]
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	h.LogRequest(c, "Creating payment")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request", "receipt file part missing")
		return
	}
	if fileHeader.Size > maxReceiptSize {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request", "receipt file too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.LogError(c, err, "Failed to open uploaded file")
		h.RespondWithError(c, http.StatusInternalServerError, "Internal server error", "")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.LogError(c, err, "Failed to read uploaded file")
		h.RespondWithError(c, http.StatusInternalServerError, "Internal server error", "")
		return
	}

	details := c.PostForm("details")
	if details == "" {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request", "payment details part missing")
		return
	}

	var req services.CreatePaymentRequest
	if err := json.Unmarshal([]byte(details), &req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request", "payment details is not valid JSON")
		return
	}

	payment, err := h.service.Create(c.Request.Context(), &req, data, fileHeader.Filename)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, payment)
}

// UpdatePaymentStatus replaces the status of a payment
// @Summary Update payment status
// @Description Set the payment status to the given value
// @Tags payments
// @Accept json
// @Produce json
// @Param id path uint true "Payment ID"
// @Param status query string true "New status: PENDING, PAID, REJECTED"
// @Success 200 {object} services.PaymentResponse
// @Failure 400 {object} ErrorResponse "Unknown status"
// @Failure 404 {object} ErrorResponse "Payment not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /payments/{id} [put]
func (h *PaymentHandler) UpdatePaymentStatus(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	status := c.Query("status")
	h.LogRequest(c, "Updating payment status", "payment_id", id, "status", status)

	payment, err := h.service.UpdateStatus(c.Request.Context(), id, status)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

// ===== HELPER METHODS =====

func (h *PaymentHandler) parseIDParam(c *gin.Context, param string) (uint, bool) {
	idStr := c.Param(param)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid "+param, "ID must be a valid number")
		return 0, false
	}
	return uint(id), true
}
