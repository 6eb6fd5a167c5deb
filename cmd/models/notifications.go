package models

import (
	"gorm.io/gorm"
)

const (
	NotifyBookingCreated   = "booking_created"
	NotifyBookingConfirmed = "booking_confirmed"
	NotifyBookingCancelled = "booking_cancelled"
	NotifyPaymentReceived  = "payment_received"
	NotifyReviewReceived   = "review_received"
	NotifySystem           = "system"
)

type Notification struct {
	gorm.Model
	UserID           uint   `gorm:"column:user_id;not null;index" json:"user_id"`
	NotificationType string `gorm:"column:notification_type;size:30;not null" json:"notification_type"`
	Title            string `gorm:"column:title;size:200;not null" json:"title"`
	Message          string `gorm:"column:message;type:text" json:"message"`
	IsRead           bool   `gorm:"column:is_read;default:false" json:"is_read"`
	Link             string `gorm:"column:link;size:200" json:"link"`
}

// Device is a registered push target for a user.
type Device struct {
	gorm.Model
	Token      string `gorm:"not null;uniqueIndex:idx_token_user" json:"token"`
	UserID     uint   `gorm:"not null;index;uniqueIndex:idx_token_user" json:"user_id"`
	DeviceType string `gorm:"type:varchar(50)" json:"device_type"`
	DeviceName string `gorm:"type:varchar(100)" json:"device_name,omitempty"`
}
