// Package respond renders JSON responses and maps domain errors to HTTP
// status codes. Handlers and middleware share it so every rejection has the
// same {"error","code"} shape.
package respond

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	domerrors "github.com/amirhosseinghanipour/iris/internal/domain/errors"
)

// Fallback codes for errors outside the domain taxonomy.
const (
	CodeInvalidRequest = "invalid_request"
	CodeRateLimited    = "rate_limited"
	CodeInternal       = "internal_error"
	CodeNotFound       = "not_found"
)

// JSON writes v with status code.
func JSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes {"error": message, "code": errCode}.
func Error(w http.ResponseWriter, code int, errCode, message string) {
	JSON(w, code, map[string]string{"error": message, "code": errCode})
}

// Status maps a domain error kind to an HTTP status.
func Status(e *domerrors.Error) int {
	if e.Code == domerrors.ErrAccountLocked.Code {
		return http.StatusTooManyRequests
	}
	switch e.Kind {
	case domerrors.KindValidation, domerrors.KindConflict:
		return http.StatusBadRequest
	case domerrors.KindUnauthenticated:
		return http.StatusUnauthorized
	case domerrors.KindForbidden:
		return http.StatusForbidden
	case domerrors.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Err renders err. Domain errors keep their code and message; upstream,
// store and internal failures are logged with their cause and rendered
// without it.
func Err(w http.ResponseWriter, r *http.Request, err error) {
	e, ok := domerrors.As(err)
	if !ok {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("unhandled error")
		Error(w, http.StatusInternalServerError, CodeInternal, "internal error")
		return
	}
	status := Status(e)
	if status >= http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("code", e.Code).Msg("request failed")
	}
	Error(w, status, e.Code, e.Message)
}
