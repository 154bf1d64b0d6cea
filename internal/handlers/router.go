package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/raissa-edu/student-management-service/internal/config"
	"github.com/raissa-edu/student-management-service/internal/models"
	"github.com/raissa-edu/student-management-service/internal/services"
	"github.com/raissa-edu/student-management-service/internal/utils"
)

type HandlerManager struct {
	paymentHandler *PaymentHandler
	studentHandler *StudentHandler
	accountHandler *AccountHandler
	authMiddleware *CasdoorAuthMiddleware
	healthCheck    func(*gin.Context)
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
	casdoorConfig config.CasdoorConfig,
) *HandlerManager {
	authMiddleware := NewCasdoorAuthMiddleware(casdoorConfig, serviceManager.Account())

	return &HandlerManager{
		paymentHandler: NewPaymentHandler(serviceManager.Payment(), logger),
		studentHandler: NewStudentHandler(serviceManager.Student(), logger),
		accountHandler: NewAccountHandler(serviceManager.Account(), logger),
		authMiddleware: authMiddleware,
		healthCheck:    healthCheck(serviceManager),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	auth := hm.authMiddleware.AuthMiddleware()
	user := hm.authMiddleware.RequireScope(models.ScopeUser)
	admin := hm.authMiddleware.RequireScope(models.ScopeAdmin)

	// Payment routes
	payments := router.Group("/payments", auth)
	{
		payments.GET("", user, hm.paymentHandler.ListPayments)
		payments.GET("/byStatus", user, hm.paymentHandler.GetPaymentsByStatus)
		payments.GET("/byType/:type", user, hm.paymentHandler.GetPaymentsByType)
		payments.GET("/export", admin, hm.paymentHandler.ExportPayments)
		payments.GET("/:id", user, hm.paymentHandler.GetPayment)
		payments.GET("/:id/file", user, hm.paymentHandler.GetPaymentFile)

		payments.POST("", admin, hm.paymentHandler.CreatePayment)
		payments.PUT("/:id", admin, hm.paymentHandler.UpdatePaymentStatus)
	}

	// Student-scoped payment listing keeps the historical path shape
	router.GET("/student/:code/payments", auth, user, hm.paymentHandler.GetPaymentsByStudent)

	// Student routes
	students := router.Group("/students", auth)
	{
		students.GET("", admin, hm.studentHandler.ListStudents)
		students.GET("/program/:programId", user, hm.studentHandler.GetStudentsByProgram)
		students.GET("/:code", user, hm.studentHandler.GetStudent)
	}

	// Account routes
	users := router.Group("/users", auth)
	{
		users.POST("", admin, hm.accountHandler.RegisterUser)
		users.GET("/:username", user, hm.accountHandler.GetUser)
		users.POST("/:username/roles", admin, hm.accountHandler.AssignRole)
		users.DELETE("/:username/roles/:role", admin, hm.accountHandler.RemoveRole)
	}

	router.POST("/roles", auth, admin, hm.accountHandler.CreateRole)

	// Health check endpoint
	router.GET("/health", hm.healthCheck)
}

func healthCheck(serviceManager services.ServiceManager) func(*gin.Context) {
	return func(c *gin.Context) {
		if err := serviceManager.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(503, gin.H{
				"status":  "unhealthy",
				"service": "student-management-service",
				"error":   err.Error(),
			})
			return
		}

		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "student-management-service",
		})
	}
}
