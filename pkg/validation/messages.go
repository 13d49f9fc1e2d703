package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// fieldMessages maps struct field + rule to a client-facing message.
var fieldMessages = map[string]map[string]string{
	"Username": {
		"required": "username must not be blank",
	},
	"Email": {
		"required": "email must not be blank",
		"email":    "email is not valid",
	},
	"FullName": {
		"required": "full name must not be blank",
	},
	"Password": {
		"required": "password must not be blank",
		"min":      "password must be at least 8 characters",
	},
	"OldPassword": {
		"required": "old password must not be blank",
	},
	"NewPassword": {
		"required": "new password must not be blank",
		"min":      "new password must be at least 8 characters",
	},
	"Identifier": {
		"required": "username or email must not be blank",
	},
}

// MessageFor translates a binding failure into the client-facing message for
// its first offending field. Falls back to the raw error text.
func MessageFor(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}

	fe := verrs[0]
	if byRule, ok := fieldMessages[fe.Field()]; ok {
		if msg, ok := byRule[fe.Tag()]; ok {
			return msg
		}
	}
	return fmt.Sprintf("%s failed on the %s rule", strings.ToLower(fe.Field()), fe.Tag())
}
