package handlers

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/raissa-edu/student-management-service/internal/models"
	"github.com/raissa-edu/student-management-service/internal/services"
)

// stubAccountService backs the middleware tests with a single fixed account.
type stubAccountService struct {
	username string
	password string
	scopes   []models.Scope
}

func (s *stubAccountService) AddNewUser(ctx context.Context, req *services.RegisterUserRequest) (*services.UserResponse, error) {
	return nil, services.ErrForbidden
}

func (s *stubAccountService) LoadUserByUsername(ctx context.Context, username string) (*services.UserResponse, error) {
	if username != s.username {
		return nil, services.ErrUserNotFound
	}
	return &services.UserResponse{Username: s.username, Scopes: s.scopes}, nil
}

func (s *stubAccountService) AddNewRole(ctx context.Context, req *services.CreateRoleRequest) (*models.AppRole, error) {
	return nil, services.ErrForbidden
}

func (s *stubAccountService) AddRoleToUser(ctx context.Context, username, roleName string) (*services.UserResponse, error) {
	return nil, services.ErrForbidden
}

func (s *stubAccountService) RemoveRoleFromUser(ctx context.Context, username, roleName string) (*services.UserResponse, error) {
	return nil, services.ErrForbidden
}

func (s *stubAccountService) VerifyPassword(ctx context.Context, username, password string) (*services.UserResponse, error) {
	if username != s.username {
		return nil, services.ErrUserNotFound
	}
	if password != s.password {
		return nil, services.ErrUnauthorized
	}
	return &services.UserResponse{Username: s.username, Scopes: s.scopes}, nil
}

func TestAuthMiddleware_BasicAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cam := &CasdoorAuthMiddleware{
		accounts: &stubAccountService{
			username: "jsmith",
			password: "correct horse battery",
			scopes:   []models.Scope{models.ScopeUser},
		},
	}

	run := func(header string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router := gin.New()
		router.GET("/me", cam.AuthMiddleware(), func(c *gin.Context) {
			username, err := GetUsernameFromContext(c)
			if err != nil {
				c.Status(http.StatusInternalServerError)
				return
			}
			c.String(http.StatusOK, username)
		})

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		router.ServeHTTP(w, req)
		return w
	}

	basic := func(username, password string) string {
		return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
	}

	t.Run("ValidCredentials", func(t *testing.T) {
		w := run(basic("jsmith", "correct horse battery"))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if w.Body.String() != "jsmith" {
			t.Errorf("Expected authenticated username in context, got %q", w.Body.String())
		}
	})

	t.Run("WrongPassword", func(t *testing.T) {
		if w := run(basic("jsmith", "wrong")); w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401 for wrong password, got %d", w.Code)
		}
	})

	t.Run("UnknownUser", func(t *testing.T) {
		// Indistinguishable from a wrong password on the wire.
		if w := run(basic("nobody", "correct horse battery")); w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401 for unknown user, got %d", w.Code)
		}
	})

	t.Run("MalformedCredentials", func(t *testing.T) {
		if w := run("Basic not-base64!"); w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401 for malformed credentials, got %d", w.Code)
		}
		if w := run("Basic " + base64.StdEncoding.EncodeToString([]byte("no-separator"))); w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401 for credentials without separator, got %d", w.Code)
		}
	})

	t.Run("MissingHeader", func(t *testing.T) {
		if w := run(""); w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401 without authorization header, got %d", w.Code)
		}
	})

	t.Run("UnsupportedScheme", func(t *testing.T) {
		if w := run("Digest abc"); w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401 for unsupported scheme, got %d", w.Code)
		}
	})
}
