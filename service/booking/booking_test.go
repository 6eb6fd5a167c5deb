package booking

import (
	"errors"
	"testing"
	"time"

	"github.com/Khushali-sys/Book-my-advocate/cmd/models"
	"github.com/Khushali-sys/Book-my-advocate/cmd/utils"
)

func TestFeeFor(t *testing.T) {
	advocate := &models.Advocate{
		ConsultationFee:    500,
		CourtAppearanceFee: 2000,
	}

	if fee := FeeFor(advocate, models.ServiceCourtAppearance); fee != 2000 {
		t.Errorf("court appearance fee = %v, want 2000", fee)
	}
	if fee := FeeFor(advocate, models.ServiceConsultation); fee != 500 {
		t.Errorf("consultation fee = %v, want 500", fee)
	}
	if fee := FeeFor(advocate, models.ServiceDocumentReview); fee != 500 {
		t.Errorf("document review fee = %v, want 500", fee)
	}
	if fee := FeeFor(advocate, models.ServiceLegalAdvice); fee != 500 {
		t.Errorf("legal advice fee = %v, want 500", fee)
	}

	// Unknown service types fall back to the consultation fee
	if fee := FeeFor(advocate, "mediation"); fee != 500 {
		t.Errorf("unknown service fee = %v, want 500", fee)
	}
}

func TestValidServiceType(t *testing.T) {
	for _, s := range models.ServiceTypes {
		if !ValidServiceType(s) {
			t.Errorf("ValidServiceType(%q) = false, want true", s)
		}
	}
	if ValidServiceType("mediation") {
		t.Error("ValidServiceType(\"mediation\") = true, want false")
	}
	if ValidServiceType("") {
		t.Error("ValidServiceType(\"\") = true, want false")
	}
}

func TestValidBookingStatus(t *testing.T) {
	for _, s := range models.BookingStatuses {
		if !ValidBookingStatus(s) {
			t.Errorf("ValidBookingStatus(%q) = false, want true", s)
		}
	}
	if ValidBookingStatus("archived") {
		t.Error("ValidBookingStatus(\"archived\") = true, want false")
	}
}

func TestValidateBookingDate(t *testing.T) {
	now := time.Date(2025, 3, 15, 14, 30, 0, 0, time.UTC)

	yesterday := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	if err := ValidateBookingDate(yesterday, now); err == nil {
		t.Error("expected error for a past booking date")
	}

	// Today is allowed even once the day has started
	today := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	if err := ValidateBookingDate(today, now); err != nil {
		t.Errorf("today should be bookable, got %v", err)
	}

	tomorrow := time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC)
	if err := ValidateBookingDate(tomorrow, now); err != nil {
		t.Errorf("tomorrow should be bookable, got %v", err)
	}
}

func TestValidateBookingDateNonUTCZone(t *testing.T) {
	// Same-day bookings must be accepted no matter the server zone. Parsed
	// slot dates are UTC midnights; a server west of UTC must not see them
	// as already past.
	est := time.FixedZone("EST", -5*60*60)
	now := time.Date(2025, 3, 15, 9, 0, 0, 0, est)

	today, _, err := ParseSlot("2025-03-15", "10:00")
	if err != nil {
		t.Fatalf("ParseSlot returned error: %v", err)
	}
	if err := ValidateBookingDate(today, now); err != nil {
		t.Errorf("same-day booking rejected west of UTC: %v", err)
	}

	yesterday, _, err := ParseSlot("2025-03-14", "10:00")
	if err != nil {
		t.Fatalf("ParseSlot returned error: %v", err)
	}
	if err := ValidateBookingDate(yesterday, now); err == nil {
		t.Error("expected error for a past booking date")
	}

	// East of UTC the server's calendar date can already be a day ahead;
	// a booking for the UTC date behind it is in the past there.
	ist := time.FixedZone("IST", 5*60*60+1800)
	now = time.Date(2025, 3, 16, 0, 30, 0, 0, ist)
	if err := ValidateBookingDate(today, now); err == nil {
		t.Error("booking for a date already past in the server zone was accepted")
	}
}

func TestValidateCancellable(t *testing.T) {
	if err := ValidateCancellable(models.BookingPending); err != nil {
		t.Errorf("pending booking should be cancellable, got %v", err)
	}
	if err := ValidateCancellable(models.BookingConfirmed); err != nil {
		t.Errorf("confirmed booking should be cancellable, got %v", err)
	}

	for _, status := range []string{models.BookingCompleted, models.BookingCancelled} {
		err := ValidateCancellable(status)
		if err == nil {
			t.Errorf("%s booking should not be cancellable", status)
			continue
		}
		var appErr *utils.AppError
		if !errors.As(err, &appErr) || appErr.Kind != utils.InvalidStateError {
			t.Errorf("cancelling a %s booking: got %v, want invalid state error", status, err)
		}
	}
}

func TestParseSlot(t *testing.T) {
	date, timeOfDay, err := ParseSlot("2025-06-01", "09:30")
	if err != nil {
		t.Fatalf("ParseSlot returned error: %v", err)
	}
	if date.Year() != 2025 || date.Month() != time.June || date.Day() != 1 {
		t.Errorf("parsed date = %v, want 2025-06-01", date)
	}
	if timeOfDay != "09:30" {
		t.Errorf("parsed time = %q, want \"09:30\"", timeOfDay)
	}

	// Time normalizes to HH:MM
	_, timeOfDay, err = ParseSlot("2025-06-01", "9:30")
	if err == nil && timeOfDay != "09:30" {
		t.Errorf("parsed time = %q, want \"09:30\"", timeOfDay)
	}

	if _, _, err := ParseSlot("01-06-2025", "09:30"); err == nil {
		t.Error("expected error for malformed date")
	}
	if _, _, err := ParseSlot("2025-06-01", "half past nine"); err == nil {
		t.Error("expected error for malformed time")
	}

	var appErr *utils.AppError
	_, _, err = ParseSlot("not-a-date", "09:30")
	if !errors.As(err, &appErr) || appErr.Kind != utils.ValidationError {
		t.Errorf("malformed date: got %v, want validation error", err)
	}
}
