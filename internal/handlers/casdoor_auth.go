package handlers

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"

	"github.com/raissa-edu/student-management-service/internal/config"
	"github.com/raissa-edu/student-management-service/internal/models"
	"github.com/raissa-edu/student-management-service/internal/services"
)

// CasdoorAuthMiddleware provides authentication using Casdoor SDK
type CasdoorAuthMiddleware struct {
	client   *casdoorsdk.Client
	accounts services.AccountService
	config   config.CasdoorConfig
}

// NewCasdoorAuthMiddleware creates a new Casdoor authentication middleware
func NewCasdoorAuthMiddleware(cfg config.CasdoorConfig, accounts services.AccountService) *CasdoorAuthMiddleware {
	client := casdoorsdk.NewClient(
		cfg.Endpoint,
		cfg.ClientID,
		cfg.ClientSecret,
		cfg.Cert,
		cfg.Application,
		cfg.Organization,
	)

	return &CasdoorAuthMiddleware{
		client:   client,
		accounts: accounts,
		config:   cfg,
	}
}

// AuthMiddleware returns a Gin middleware function for Casdoor authentication
func (cam *CasdoorAuthMiddleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Extract token from Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Status:  http.StatusUnauthorized,
				Message: "Unauthorized",
				Details: "authorization header missing",
			})
			c.Abort()
			return
		}

		// Accept "Bearer <token>" (Casdoor JWT) or "Basic <credentials>"
		// (local accounts); both resolve scopes from the local role set.
		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Status:  http.StatusUnauthorized,
				Message: "Unauthorized",
				Details: "invalid authorization header format",
			})
			c.Abort()
			return
		}

		switch strings.ToLower(tokenParts[0]) {
		case "basic":
			cam.basicAuth(c, tokenParts[1])
			return
		case "bearer":
		default:
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Status:  http.StatusUnauthorized,
				Message: "Unauthorized",
				Details: "unsupported authorization scheme",
			})
			c.Abort()
			return
		}

		token := tokenParts[1]

		// Parse and validate the token using Casdoor SDK
		claims, err := cam.client.ParseJwtToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Status:  http.StatusUnauthorized,
				Message: "Unauthorized",
				Details: fmt.Sprintf("invalid token: %v", err),
			})
			c.Abort()
			return
		}

		username := claims.User.Name
		if username == "" {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Status:  http.StatusUnauthorized,
				Message: "Unauthorized",
				Details: "token carries no username",
			})
			c.Abort()
			return
		}

		// The token only authenticates; scopes come from the local role set.
		user, err := cam.accounts.LoadUserByUsername(c.Request.Context(), username)
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				c.JSON(http.StatusUnauthorized, ErrorResponse{
					Status:  http.StatusUnauthorized,
					Message: "Unauthorized",
					Details: "unknown user",
				})
			} else {
				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Status:  http.StatusInternalServerError,
					Message: "Internal server error",
				})
			}
			c.Abort()
			return
		}

		// Set user information in context
		setAuthenticatedUser(c, user)

		// Continue with the request
		c.Next()
	}
}

// basicAuth authenticates a local account from "Basic <credentials>".
func (cam *CasdoorAuthMiddleware) basicAuth(c *gin.Context, encoded string) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
			Details: "invalid authorization header format",
		})
		c.Abort()
		return
	}

	username, password, ok := strings.Cut(string(raw), ":")
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
			Details: "invalid authorization header format",
		})
		c.Abort()
		return
	}

	user, err := cam.accounts.VerifyPassword(c.Request.Context(), username, password)
	if err != nil {
		// An unknown username and a wrong password look the same to the
		// caller.
		if errors.Is(err, services.ErrUnauthorized) || errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Status:  http.StatusUnauthorized,
				Message: "Unauthorized",
				Details: "invalid credentials",
			})
		} else {
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Status:  http.StatusInternalServerError,
				Message: "Internal server error",
			})
		}
		c.Abort()
		return
	}

	setAuthenticatedUser(c, user)
	c.Next()
}

func setAuthenticatedUser(c *gin.Context, user *services.UserResponse) {
	c.Set("username", user.Username)
	c.Set("user", user)
	c.Set("scopes", user.Scopes)
}

// RequireScope checks that the authenticated user carries the given scope.
func (cam *CasdoorAuthMiddleware) RequireScope(required models.Scope) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get("scopes")
		if !exists {
			c.JSON(http.StatusForbidden, ErrorResponse{
				Status:  http.StatusForbidden,
				Message: "Forbidden",
				Details: "scopes not found in context",
			})
			c.Abort()
			return
		}

		scopes, ok := value.([]models.Scope)
		if !ok {
			c.JSON(http.StatusForbidden, ErrorResponse{
				Status:  http.StatusForbidden,
				Message: "Forbidden",
				Details: "invalid scopes format",
			})
			c.Abort()
			return
		}

		for _, scope := range scopes {
			if scope == required {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, ErrorResponse{
			Status:  http.StatusForbidden,
			Message: "Forbidden",
			Details: fmt.Sprintf("missing required scope %s", required),
		})
		c.Abort()
	}
}

// GetUserFromContext extracts the authenticated user from Gin context
func GetUserFromContext(c *gin.Context) (*services.UserResponse, error) {
	user, exists := c.Get("user")
	if !exists {
		return nil, fmt.Errorf("user not found in context")
	}

	userResponse, ok := user.(*services.UserResponse)
	if !ok {
		return nil, fmt.Errorf("invalid user type in context")
	}

	return userResponse, nil
}

// GetUsernameFromContext extracts the authenticated username from Gin context
func GetUsernameFromContext(c *gin.Context) (string, error) {
	username, exists := c.Get("username")
	if !exists {
		return "", fmt.Errorf("username not found in context")
	}

	name, ok := username.(string)
	if !ok {
		return "", fmt.Errorf("invalid username type in context")
	}

	return name, nil
}
