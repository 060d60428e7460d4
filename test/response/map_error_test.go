package response_test

import (
	"errors"
	"testing"

	"github.com/maxviazov/match-tracker-service/internal/repository"
	"github.com/maxviazov/match-tracker-service/internal/service"
	"github.com/maxviazov/match-tracker-service/pkg/response"
)

// fakeInvalid mimics the aggregated validation error to test mapping without reaching into internals.
type fakeInvalid struct{ fe []service.FieldError }

func (f *fakeInvalid) Error() string                { return service.ErrInvalidInput.Error() }
func (f *fakeInvalid) Unwrap() error                { return service.ErrInvalidInput }
func (f *fakeInvalid) Fields() []service.FieldError { return f.fe }

func TestMapError(t *testing.T) {
	cases := []struct {
		name     string
		in       error
		wantCode int
		wantErr  string
	}{
		{"invalid_input", &fakeInvalid{fe: []service.FieldError{{Field: "round", Message: "bad"}}}, 422, "invalid_input"},
		{"not_found", repository.ErrNotFound, 404, "not_found"},
		{"already_exists", repository.ErrAlreadyExists, 409, "already_exists"},
		{"conflict", repository.ErrConflict, 409, "conflict"},
		{"internal", errors.New("boom"), 500, "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, payload := response.MapError(tc.in)
			if code != tc.wantCode || payload.Error != tc.wantErr {
				t.Fatalf("unexpected mapping: got (%d,%s) want (%d,%s)", code, payload.Error, tc.wantCode, tc.wantErr)
			}
			if tc.wantErr == "invalid_input" && len(payload.FieldErrors) == 0 {
				t.Fatalf("expected field errors in payload")
			}
		})
	}
}

func TestMapError_ConstructedError(t *testing.T) {
	err := service.NewInvalidInputError([]service.FieldError{
		{Field: "team1_goals", Message: "must be >= 0"},
		{Field: "team2_goals", Message: "is required"},
	})
	code, payload := response.MapError(err)
	if code != 422 {
		t.Fatalf("expected 422, got %d", code)
	}
	if len(payload.FieldErrors) != 2 {
		t.Fatalf("expected 2 field errors, got %d", len(payload.FieldErrors))
	}
}
