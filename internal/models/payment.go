package models

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentRejected PaymentStatus = "REJECTED"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentRejected:
		return true
	}
	return false
}

// ParsePaymentStatus parses a status value received on the wire.
func ParsePaymentStatus(value string) (PaymentStatus, error) {
	status := PaymentStatus(value)
	if !status.Valid() {
		return "", fmt.Errorf("unknown payment status %q", value)
	}
	return status, nil
}

type PaymentType string

const (
	PaymentTuition      PaymentType = "TUITION"
	PaymentRegistration PaymentType = "REGISTRATION"
	PaymentOther        PaymentType = "OTHER"
)

func (t PaymentType) Valid() bool {
	switch t {
	case PaymentTuition, PaymentRegistration, PaymentOther:
		return true
	}
	return false
}

func ParsePaymentType(value string) (PaymentType, error) {
	paymentType := PaymentType(value)
	if !paymentType.Valid() {
		return "", fmt.Errorf("unknown payment type %q", value)
	}
	return paymentType, nil
}

// Payment is owned by exactly one student. File holds the blob-store key of
// the receipt document stored when the payment was created; it is never
// exposed as a download path directly.
type Payment struct {
	ID     uint           `json:"id" gorm:"primaryKey"`
	Date   datatypes.Date `json:"date"`
	Amount float64        `json:"amount" gorm:"not null"`
	Type   PaymentType    `json:"type" gorm:"index;not null;size:20"`
	Status PaymentStatus  `json:"status" gorm:"index;not null;size:20;default:PENDING"`
	File   string         `json:"-" gorm:"size:255"`

	StudentCode string   `json:"student_code" gorm:"index;not null;size:20"`
	Student     *Student `json:"student,omitempty" gorm:"foreignKey:StudentCode;references:Code"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Payment) TableName() string {
	return "payments"
}
