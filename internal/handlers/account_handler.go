package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/raissa-edu/student-management-service/internal/services"
	"github.com/raissa-edu/student-management-service/internal/utils"
)

type AccountHandler struct {
	BaseHandler
	service services.AccountService
}

func NewAccountHandler(service services.AccountService, logger utils.Logger) *AccountHandler {
	return &AccountHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== USER ENDPOINTS =====

// RegisterUser creates a new application user
// @Summary Register user
// @Description Create a user account with a bcrypt-hashed password and no roles
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body services.RegisterUserRequest true "Registration request"
// @Success 201 {object} services.UserResponse
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 409 {object} ErrorResponse "Username taken"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /users [post]
func (h *AccountHandler) RegisterUser(c *gin.Context) {
	h.LogRequest(c, "Registering user")

	var req services.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	user, err := h.service.AddNewUser(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// GetUser returns a user with their role set
// @Summary Get user
// @Description Get one user by username, including held roles and derived scopes
// @Tags accounts
// @Accept json
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} services.UserResponse
// @Failure 404 {object} ErrorResponse "User not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /users/{username} [get]
func (h *AccountHandler) GetUser(c *gin.Context) {
	username := c.Param("username")
	h.LogRequest(c, "Getting user", "username", username)

	user, err := h.service.LoadUserByUsername(c.Request.Context(), username)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ===== ROLE ENDPOINTS =====

// CreateRole creates a new role
// @Summary Create role
// @Description Create a role that can later be assigned to users
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body services.CreateRoleRequest true "Role request"
// @Success 201 {object} models.AppRole
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 409 {object} ErrorResponse "Role already exists"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /roles [post]
func (h *AccountHandler) CreateRole(c *gin.Context) {
	h.LogRequest(c, "Creating role")

	var req services.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	role, err := h.service.AddNewRole(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, role)
}

// AssignRole adds a role to a user
// @Summary Assign role to user
// @Description Assign an existing role to an existing user
// @Tags accounts
// @Accept json
// @Produce json
// @Param username path string true "Username"
// @Param request body services.AssignRoleRequest true "Role assignment"
// @Success 200 {object} services.UserResponse
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 404 {object} ErrorResponse "User or role not found"
// @Failure 409 {object} ErrorResponse "Role already held"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /users/{username}/roles [post]
func (h *AccountHandler) AssignRole(c *gin.Context) {
	username := c.Param("username")
	h.LogRequest(c, "Assigning role", "username", username)

	var req services.AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	user, err := h.service.AddRoleToUser(c.Request.Context(), username, req.Role)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// RemoveRole removes a role from a user
// @Summary Remove role from user
// @Description Remove a held role from a user
// @Tags accounts
// @Accept json
// @Produce json
// @Param username path string true "Username"
// @Param role path string true "Role name"
// @Success 200 {object} services.UserResponse
// @Failure 404 {object} ErrorResponse "User not found or role not held"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /users/{username}/roles/{role} [delete]
func (h *AccountHandler) RemoveRole(c *gin.Context) {
	username := c.Param("username")
	roleName := c.Param("role")
	h.LogRequest(c, "Removing role", "username", username, "role", roleName)

	user, err := h.service.RemoveRoleFromUser(c.Request.Context(), username, roleName)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
