package models

import (
	"time"

	"gorm.io/gorm"
)

// Student records are created by the enrollment system; this service
// only reads them.
type Student struct {
	ID        string `json:"id" gorm:"primaryKey;size:36"`
	FirstName string `json:"first_name" gorm:"not null;size:100"`
	LastName  string `json:"last_name" gorm:"not null;size:100"`
	Code      string `json:"code" gorm:"uniqueIndex;not null;size:20"`
	ProgramID string `json:"program_id" gorm:"index;not null;size:20"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Student) TableName() string {
	return "students"
}
