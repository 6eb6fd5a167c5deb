package availability

import (
	"testing"
)

func TestValidateWindow(t *testing.T) {
	if err := ValidateWindow(1, "09:00", "17:00"); err != nil {
		t.Errorf("valid window rejected: %v", err)
	}
	if err := ValidateWindow(0, "00:00", "23:59"); err != nil {
		t.Errorf("full sunday window rejected: %v", err)
	}
	if err := ValidateWindow(6, "10:30", "10:31"); err != nil {
		t.Errorf("one-minute window rejected: %v", err)
	}
}

func TestValidateWindowRejectsBadInput(t *testing.T) {
	cases := []struct {
		name       string
		dayOfWeek  int
		start, end string
	}{
		{"day below range", -1, "09:00", "17:00"},
		{"day above range", 7, "09:00", "17:00"},
		{"malformed start", 1, "nine", "17:00"},
		{"malformed end", 1, "09:00", "late"},
		{"end before start", 1, "17:00", "09:00"},
		{"zero-length window", 1, "09:00", "09:00"},
	}
	for _, c := range cases {
		if err := ValidateWindow(c.dayOfWeek, c.start, c.end); err == nil {
			t.Errorf("%s: window accepted, want error", c.name)
		}
	}
}
