package review

import (
	"errors"
	"testing"

	"github.com/Khushali-sys/Book-my-advocate/cmd/utils"
)

func TestRoundRating(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{4.666666666666667, 4.67},
		{4.664, 4.66},
		{3.125, 3.13},
		{5, 5},
		{0, 0},
		{3.875, 3.88},
	}
	for _, c := range cases {
		if got := RoundRating(c.in); got != c.want {
			t.Errorf("RoundRating(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestValidateScores(t *testing.T) {
	if err := ValidateScores(1, 3, 5, 4); err != nil {
		t.Errorf("valid scores rejected: %v", err)
	}
	if err := ValidateScores(); err != nil {
		t.Errorf("empty score list rejected: %v", err)
	}

	for _, bad := range []int{0, 6, -1, 100} {
		err := ValidateScores(5, bad)
		if err == nil {
			t.Errorf("score %d accepted, want error", bad)
			continue
		}
		var appErr *utils.AppError
		if !errors.As(err, &appErr) || appErr.Kind != utils.ValidationError {
			t.Errorf("score %d: got %v, want validation error", bad, err)
		}
	}
}
