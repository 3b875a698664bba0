package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	domerrors "github.com/amirhosseinghanipour/iris/internal/domain/errors"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 64 << 10

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decode reads a JSON body into dst and runs its validate tags. Failures are
// invalid_request with the first offending field named.
func decode(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return invalid("malformed JSON body")
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return invalid("invalid field: " + verrs[0].Field())
		}
		return invalid("invalid request body")
	}
	return nil
}

func invalid(message string) error {
	e := *domerrors.ErrInvalidRequest
	e.Message = message
	return &e
}

// sanitizeEmail trims and lowercases an email address.
func sanitizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
