package models

import (
	"time"

	"gorm.io/gorm"
)

// Scope is the coarse permission label checked by the route guards.
type Scope string

const (
	ScopeUser  Scope = "USER"
	ScopeAdmin Scope = "ADMIN"
)

type AppUser struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Username string `json:"username" gorm:"uniqueIndex;not null;size:100"`
	Email    string `json:"email" gorm:"not null;size:255"`
	// Password is the bcrypt hash, never the clear text.
	Password string `json:"-" gorm:"not null;size:100"`

	Roles []AppRole `json:"roles" gorm:"many2many:app_user_roles"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (AppUser) TableName() string {
	return "app_users"
}

// HasRole reports whether the user currently holds the named role.
func (u *AppUser) HasRole(name string) bool {
	for _, role := range u.Roles {
		if role.Name == name {
			return true
		}
	}
	return false
}

// Scopes maps the user's role set to request scopes. Every authenticated
// user carries ScopeUser; the ADMIN role additionally grants ScopeAdmin.
func (u *AppUser) Scopes() []Scope {
	scopes := []Scope{ScopeUser}
	if u.HasRole(string(ScopeAdmin)) {
		scopes = append(scopes, ScopeAdmin)
	}
	return scopes
}

type AppRole struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null;size:100"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (AppRole) TableName() string {
	return "app_roles"
}
