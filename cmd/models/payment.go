package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	PaymentPending    = "pending"
	PaymentProcessing = "processing"
	PaymentCompleted  = "completed"
	PaymentFailed     = "failed"
	PaymentRefunded   = "refunded"
)

const (
	MethodCard       = "card"
	MethodUPI        = "upi"
	MethodNetbanking = "netbanking"
	MethodWallet     = "wallet"
)

var PaymentMethods = []string{MethodCard, MethodUPI, MethodNetbanking, MethodWallet}

type Payment struct {
	gorm.Model
	BookingID     uint       `gorm:"column:booking_id;not null;uniqueIndex" json:"booking_id"`
	Amount        float64    `gorm:"column:amount;not null" json:"amount"`
	PaymentMethod string     `gorm:"column:payment_method;size:20;not null" json:"payment_method"`
	TransactionID string     `gorm:"column:transaction_id;size:100;uniqueIndex" json:"transaction_id"`
	Status        string     `gorm:"column:status;size:20;not null;default:pending" json:"status"`
	PaymentDate   *time.Time `gorm:"column:payment_date" json:"payment_date,omitempty"`
	RefundDate    *time.Time `gorm:"column:refund_date" json:"refund_date,omitempty"`
	RefundAmount  *float64   `gorm:"column:refund_amount" json:"refund_amount,omitempty"`
	Notes         string     `gorm:"column:notes;type:text" json:"notes"`

	Booking *Booking `gorm:"foreignKey:BookingID" json:"booking,omitempty"`
}
