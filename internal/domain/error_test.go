package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"domain error", Invalid("op", "bad input"), EINVALID},
		{"sentinel", ErrOrderNotFound, ENOTFOUND},
		{"wrapped sentinel", fmt.Errorf("placing order: %w", ErrInsufficientStock), ECONFLICT},
		{"plain error", errors.New("boom"), EINTERNAL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorCode(tt.err); got != tt.want {
				t.Errorf("ErrorCode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorMessage_HidesInternalDetails(t *testing.T) {
	err := Internal(errors.New("pq: connection refused"), "order.create", "failed to load products")

	msg := ErrorMessage(err)
	if msg != "An internal error occurred. Please try again later." {
		t.Errorf("ErrorMessage() = %q, leaked internal detail", msg)
	}
}

func TestError_IsSurvivesWrapping(t *testing.T) {
	wrapped := &Error{
		Code:    ErrAlreadyPaid.Code,
		Message: ErrAlreadyPaid.Message,
		Op:      "payment.verify",
	}

	if !errors.Is(wrapped, ErrAlreadyPaid) {
		t.Error("errors.Is should match sentinel after adding Op")
	}
	if errors.Is(wrapped, ErrOrderNotFound) {
		t.Error("errors.Is matched a different sentinel")
	}
}

func TestError_ErrorFormatting(t *testing.T) {
	base := errors.New("row not found")

	tests := []struct {
		err  *Error
		want string
	}{
		{&Error{Code: EINVALID, Message: "bad"}, "bad"},
		{&Error{Code: EINVALID, Message: "bad", Op: "x.y"}, "x.y: bad"},
		{&Error{Code: EINTERNAL, Message: "bad", Op: "x.y", Err: base}, "x.y: bad: row not found"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}
