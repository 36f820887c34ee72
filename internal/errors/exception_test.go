package errors

import (
	"fmt"
	"net/http"
	"testing"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "not found", err: ErrTaskNotFound, want: http.StatusNotFound},
		{name: "wrapped validation", err: fmt.Errorf("add: %w", ErrTitleRequired), want: http.StatusBadRequest},
		{name: "plain error", err: fmt.Errorf("disk full"), want: http.StatusInternalServerError},
		{name: "ids exhausted", err: ErrTaskIDsExhausted, want: http.StatusConflict},
		{name: "unsaved change", err: fmt.Errorf("%w: %w", ErrChangeNotSaved, fmt.Errorf("disk full")), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusCode(tt.err); got != tt.want {
				t.Errorf("StatusCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIsValidation(t *testing.T) {
	if !IsValidation(fmt.Errorf("parse: %w", ErrInvalidPriority)) {
		t.Error("expected wrapped priority error to be a validation error")
	}
	if IsValidation(ErrMalformedData) {
		t.Error("malformed data is not a validation error")
	}
}
