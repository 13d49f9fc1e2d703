package validation

import (
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
)

type registerForm struct {
	Username string `validate:"required"`
	Email    string `validate:"required,email"`
	FullName string `validate:"required"`
	Password string `validate:"required,min=8"`
}

func validate(t *testing.T, form registerForm) error {
	t.Helper()
	err := validator.New().Struct(form)
	if err == nil {
		t.Fatal("expected validation to fail")
	}
	return err
}

func TestMessageFor(t *testing.T) {
	valid := registerForm{
		Username: "chai",
		Email:    "chai@example.com",
		FullName: "Chai Aur Code",
		Password: "longenough",
	}

	tests := []struct {
		name   string
		mutate func(*registerForm)
		want   string
	}{
		{"blank username", func(f *registerForm) { f.Username = "" }, "username must not be blank"},
		{"blank email", func(f *registerForm) { f.Email = "" }, "email must not be blank"},
		{"malformed email", func(f *registerForm) { f.Email = "not-an-email" }, "email is not valid"},
		{"blank full name", func(f *registerForm) { f.FullName = "" }, "full name must not be blank"},
		{"short password", func(f *registerForm) { f.Password = "short" }, "password must be at least 8 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := valid
			tt.mutate(&form)
			if got := MessageFor(validate(t, form)); got != tt.want {
				t.Errorf("MessageFor() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMessageForNonValidationError(t *testing.T) {
	err := fmt.Errorf("unexpected EOF")
	if got := MessageFor(err); got != "unexpected EOF" {
		t.Errorf("MessageFor() = %q, want the raw error text", got)
	}
}
