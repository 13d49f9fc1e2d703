package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, http.StatusOK},
		{"validation", ErrValidation, http.StatusBadRequest},
		{"avatar needed", ErrAvatarNeeded, http.StatusBadRequest},
		{"upload failed", ErrUploadFailed, http.StatusBadRequest},
		{"invalid credentials", ErrInvalidCredentials, http.StatusUnauthorized},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized},
		{"invalid refresh token", ErrInvalidRefreshToken, http.StatusUnauthorized},
		{"incorrect password", ErrIncorrectPassword, http.StatusUnauthorized},
		{"user not found", ErrUserNotFound, http.StatusNotFound},
		{"channel not found", ErrChannelNotFound, http.StatusNotFound},
		{"user exists", ErrUserExists, http.StatusConflict},
		{"internal", ErrInternal, http.StatusInternalServerError},
		{"plain error", fmt.Errorf("boom"), http.StatusInternalServerError},
		{"wrapped domain error", WrapError(ErrUserExists, fmt.Errorf("db")), http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToHTTPStatus(tt.err); got != tt.want {
				t.Errorf("ToHTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDomainErrorIs(t *testing.T) {
	wrapped := WrapError(ErrInvalidRefreshToken, fmt.Errorf("signature is invalid"))
	if !errors.Is(wrapped, ErrInvalidRefreshToken) {
		t.Error("wrapped error should match its sentinel")
	}
	if errors.Is(wrapped, ErrUserNotFound) {
		t.Error("wrapped error should not match a different sentinel")
	}

	reworded := WithMessage(ErrInvalidRefreshToken, "token is expired")
	if !errors.Is(reworded, ErrInvalidRefreshToken) {
		t.Error("reworded error should keep matching its sentinel")
	}
	if reworded.Message != "token is expired" {
		t.Errorf("WithMessage kept old message: %q", reworded.Message)
	}
}

func TestGetErrorMessage(t *testing.T) {
	if got := GetErrorMessage(nil); got != "" {
		t.Errorf("nil error message = %q, want empty", got)
	}
	if got := GetErrorMessage(ErrUserExists); got != ErrUserExists.Message {
		t.Errorf("domain message = %q, want %q", got, ErrUserExists.Message)
	}
	wrapped := WrapError(ErrInternal, fmt.Errorf("connection refused"))
	if got := GetErrorMessage(wrapped); got != ErrInternal.Message {
		t.Errorf("wrapped message = %q, want the domain message, not the cause", got)
	}
}
