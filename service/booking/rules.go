package booking

import (
	"time"

	"github.com/Khushali-sys/Book-my-advocate/cmd/models"
	"github.com/Khushali-sys/Book-my-advocate/cmd/utils"
)

// FeeFor derives a booking's total fee from the advocate's two fee tiers.
// Court appearances bill at the court-appearance fee; every other service
// type, including unrecognised ones, bills at the consultation fee.
func FeeFor(advocate *models.Advocate, serviceType string) float64 {
	if serviceType == models.ServiceCourtAppearance {
		return advocate.CourtAppearanceFee
	}
	return advocate.ConsultationFee
}

func ValidServiceType(serviceType string) bool {
	for _, s := range models.ServiceTypes {
		if s == serviceType {
			return true
		}
	}
	return false
}

func ValidBookingStatus(status string) bool {
	for _, s := range models.BookingStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// ValidateBookingDate rejects dates before the current day. The comparison
// is by calendar day: parsed slot dates sit at UTC midnight, so today is
// built from now's calendar date at UTC no matter the server zone.
func ValidateBookingDate(bookingDate, now time.Time) error {
	year, month, day := now.Date()
	today := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if bookingDate.Before(today) {
		return utils.NewError(utils.ValidationError, "Booking date cannot be in the past")
	}
	return nil
}

// ValidateCancellable rejects cancellation of terminal bookings.
func ValidateCancellable(status string) error {
	if status == models.BookingCompleted || status == models.BookingCancelled {
		return utils.NewError(utils.InvalidStateError, "This booking cannot be cancelled")
	}
	return nil
}

// ParseSlot parses the wire format of a booking slot: a "2006-01-02" date
// and a "15:04" time of day.
func ParseSlot(dateStr, timeStr string) (time.Time, string, error) {
	bookingDate, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return time.Time{}, "", utils.NewError(utils.ValidationError, "Invalid booking date, expected YYYY-MM-DD")
	}
	parsedTime, err := time.Parse("15:04", timeStr)
	if err != nil {
		return time.Time{}, "", utils.NewError(utils.ValidationError, "Invalid booking time, expected HH:MM")
	}
	return bookingDate, parsedTime.Format("15:04"), nil
}
