package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStatusCode(t *testing.T) {
	cases := []struct {
		kind ErrorKind
		want int
	}{
		{ValidationError, http.StatusBadRequest},
		{AuthorizationError, http.StatusForbidden},
		{NotFoundError, http.StatusNotFound},
		{ConflictError, http.StatusConflict},
		{InvalidStateError, http.StatusUnprocessableEntity},
		{GatewayError, http.StatusBadGateway},
	}
	for _, c := range cases {
		err := NewError(c.kind, "boom")
		if got := err.StatusCode(); got != c.want {
			t.Errorf("kind %d: StatusCode() = %d, want %d", c.kind, got, c.want)
		}
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, NewError(ConflictError, "This time slot is already booked"))

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q, want application/json", ct)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["error"] != "This time slot is already booked" {
		t.Errorf("error message = %q", body["error"])
	}
}

func TestWriteErrorHidesInternalErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, errors.New("pq: connection refused"))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["error"] != "Internal server error" {
		t.Errorf("internal error leaked: %q", body["error"])
	}
}

func TestIsDuplicateKey(t *testing.T) {
	if !IsDuplicateKey(errors.New(`pq: duplicate key value violates unique constraint "idx_advocate_slot"`)) {
		t.Error("postgres duplicate key error not detected")
	}
	if !IsDuplicateKey(errors.New("UNIQUE constraint failed: bookings.advocate_id")) {
		t.Error("sqlite unique constraint error not detected")
	}
	if IsDuplicateKey(errors.New("record not found")) {
		t.Error("unrelated error treated as duplicate key")
	}
	if IsDuplicateKey(nil) {
		t.Error("nil error treated as duplicate key")
	}
}
