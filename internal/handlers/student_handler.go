package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/raissa-edu/student-management-service/internal/repositories"
	"github.com/raissa-edu/student-management-service/internal/services"
	"github.com/raissa-edu/student-management-service/internal/utils"
)

type StudentHandler struct {
	BaseHandler
	service services.StudentService
}

func NewStudentHandler(service services.StudentService, logger utils.Logger) *StudentHandler {
	return &StudentHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== STUDENT ENDPOINTS =====

// ListStudents returns the student roster
// @Summary List students
// @Description Get all students with optional program filter and pagination
// @Tags students
// @Accept json
// @Produce json
// @Param program_id query string false "Filter by program"
// @Param limit query int false "Page size (default: all)"
// @Param offset query int false "Offset into the result set"
// @Success 200 {object} services.StudentListResponse
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /students [get]
func (h *StudentHandler) ListStudents(c *gin.Context) {
	h.LogRequest(c, "Listing students")

	filters := repositories.StudentFilters{
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	if programID := c.Query("program_id"); programID != "" {
		filters.ProgramID = &programID
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

	students, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, students)
}

// GetStudent returns a single student
// @Summary Get student
// @Description Get one student by their code
// @Tags students
// @Accept json
// @Produce json
// @Param code path string true "Student code"
// @Success 200 {object} models.Student
// @Failure 404 {object} ErrorResponse "Student not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /students/{code} [get]
func (h *StudentHandler) GetStudent(c *gin.Context) {
	code := c.Param("code")
	h.LogRequest(c, "Getting student", "student_code", code)

	student, err := h.service.GetByCode(c.Request.Context(), code)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

// GetStudentsByProgram returns the students enrolled in a program
// @Summary Get students by program
// @Description Get all students enrolled in the given program
// @Tags students
// @Accept json
// @Produce json
// @Param programId path string true "Program ID"
// @Success 200 {object} services.StudentListResponse
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /students/program/{programId} [get]
func (h *StudentHandler) GetStudentsByProgram(c *gin.Context) {
	programID := c.Param("programId")
	h.LogRequest(c, "Getting students by program", "program_id", programID)

	students, err := h.service.GetByProgramID(c.Request.Context(), programID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, students)
}
