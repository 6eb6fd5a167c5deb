package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	BookingPending     = "pending"
	BookingConfirmed   = "confirmed"
	BookingCompleted   = "completed"
	BookingCancelled   = "cancelled"
	BookingRescheduled = "rescheduled"
)

var BookingStatuses = []string{
	BookingPending,
	BookingConfirmed,
	BookingCompleted,
	BookingCancelled,
	BookingRescheduled,
}

const (
	ServiceConsultation    = "consultation"
	ServiceCourtAppearance = "court_appearance"
	ServiceDocumentReview  = "document_review"
	ServiceLegalAdvice     = "legal_advice"
)

var ServiceTypes = []string{
	ServiceConsultation,
	ServiceCourtAppearance,
	ServiceDocumentReview,
	ServiceLegalAdvice,
}

const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
)

const (
	PriorityNormal = "normal"
	PriorityUrgent = "urgent"
)

type Booking struct {
	gorm.Model
	ClientID           uint      `gorm:"column:client_id;not null;index" json:"client_id"`
	AdvocateID         uint      `gorm:"column:advocate_id;not null;uniqueIndex:idx_advocate_slot" json:"advocate_id"`
	ServiceType        string    `gorm:"column:service_type;size:30;not null" json:"service_type"`
	BookingDate        time.Time `gorm:"column:booking_date;type:date;not null;uniqueIndex:idx_advocate_slot" json:"booking_date"`
	BookingTime        string    `gorm:"column:booking_time;size:5;not null;uniqueIndex:idx_advocate_slot" json:"booking_time"`
	Duration           int       `gorm:"column:duration;default:60" json:"duration"`
	Status             string    `gorm:"column:status;size:20;not null;default:pending" json:"status"`
	CaseDescription    string    `gorm:"column:case_description;type:text" json:"case_description"`
	CaseType           string    `gorm:"column:case_type;size:100" json:"case_type"`
	Priority           string    `gorm:"column:priority;size:20;default:normal" json:"priority"`
	TotalFee           float64   `gorm:"column:total_fee;not null" json:"total_fee"`
	PaymentStatus      string    `gorm:"column:payment_status;size:20;not null;default:pending" json:"payment_status"`
	MeetingLink        string    `gorm:"column:meeting_link;size:255" json:"meeting_link,omitempty"`
	Notes              string    `gorm:"column:notes;type:text" json:"notes"`
	CancellationReason string    `gorm:"column:cancellation_reason;type:text" json:"cancellation_reason"`

	Client   *User     `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Advocate *Advocate `gorm:"foreignKey:AdvocateID" json:"advocate,omitempty"`
	Review   *Review   `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE" json:"review,omitempty"`
	Payment  *Payment  `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE" json:"payment,omitempty"`
}

type Review struct {
	gorm.Model
	BookingID       uint   `gorm:"column:booking_id;not null;uniqueIndex" json:"booking_id"`
	AdvocateID      uint   `gorm:"column:advocate_id;not null;index" json:"advocate_id"`
	ClientID        uint   `gorm:"column:client_id;not null" json:"client_id"`
	Rating          int    `gorm:"column:rating;not null" json:"rating"`
	Comment         string `gorm:"column:comment;type:text" json:"comment"`
	Professionalism int    `gorm:"column:professionalism;not null" json:"professionalism"`
	Communication   int    `gorm:"column:communication;not null" json:"communication"`
	Expertise       int    `gorm:"column:expertise;not null" json:"expertise"`
	IsVerified      bool   `gorm:"column:is_verified;default:false" json:"is_verified"`

	Client   *User     `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Advocate *Advocate `gorm:"foreignKey:AdvocateID" json:"-"`
}
