package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/clipboardhq/clipboard/pkg/accountsdk"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// decodeAndValidate decodes the JSON body into dst and runs struct
// validation. On failure it writes the error response and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		accountsdk.NewValidationError(map[string]string{"body": "invalid JSON"}).WriteError(w)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		accountsdk.NewValidationError(validationFields(err)).WriteError(w)
		return false
	}
	return true
}

// validationFields flattens validator errors into field -> message.
func validationFields(err error) map[string]string {
	fields := map[string]string{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fields["body"] = "invalid request"
		return fields
	}
	for _, fe := range verrs {
		name := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			fields[name] = "is required"
		case "email":
			fields[name] = "must be a valid email address"
		case "min":
			fields[name] = "must be at least " + fe.Param() + " characters"
		case "max":
			fields[name] = "must be at most " + fe.Param() + " characters"
		case "url":
			fields[name] = "must be a valid URL"
		default:
			fields[name] = "is invalid"
		}
	}
	return fields
}
