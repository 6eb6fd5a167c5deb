package utils

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

func signToken(t *testing.T, userID uint, secret string, expiresAt time.Time) string {
	t.Helper()
	claims := &jwt.RegisteredClaims{
		Subject:   fmt.Sprint(userID),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return token
}

func TestRequireAuth(t *testing.T) {
	os.Setenv("SECRET_KEY", "test-secret")
	defer os.Unsetenv("SECRET_KEY")

	var gotUserID uint
	handler := RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		id, err := GetUserIDFromContext(r)
		if err != nil {
			t.Errorf("GetUserIDFromContext: %v", err)
		}
		gotUserID = id
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/api/v1/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, 42, "test-secret", time.Now().Add(time.Hour)))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if gotUserID != 42 {
		t.Errorf("user ID = %d, want 42", gotUserID)
	}
}

func TestRequireAuthRejects(t *testing.T) {
	os.Setenv("SECRET_KEY", "test-secret")
	defer os.Unsetenv("SECRET_KEY")

	handler := RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached without valid credentials")
	})

	cases := []struct {
		name  string
		token string
	}{
		{"missing header", ""},
		{"garbage token", "Bearer not-a-jwt"},
		{"wrong secret", "Bearer " + signToken(t, 42, "other-secret", time.Now().Add(time.Hour))},
		{"expired token", "Bearer " + signToken(t, 42, "test-secret", time.Now().Add(-time.Hour))},
	}

	for _, c := range cases {
		req := httptest.NewRequest("GET", "/api/v1/bookings", nil)
		if c.token != "" {
			req.Header.Set("Authorization", c.token)
		}
		rec := httptest.NewRecorder()
		handler(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want %d", c.name, rec.Code, http.StatusUnauthorized)
		}
	}
}

func TestGetUserIDFromContextMissing(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if _, err := GetUserIDFromContext(req); err == nil {
		t.Error("expected error when no user ID is in context")
	}
}
