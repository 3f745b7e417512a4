package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/mytheresa/inventory-ledger/models"
)

const internalErrorMessage = "internal server error"

// OKResponse writes data as JSON with the given status.
func OKResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// ErrorResponse writes {"error": message} with the given status.
func ErrorResponse(w http.ResponseWriter, status int, message string) {
	OKResponse(w, status, map[string]string{"error": message})
}

// StatusFor maps an error to the HTTP status of its kind.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrConstraint):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WriteError writes err with the status of its kind. Server errors get a
// generic message; the caller is expected to have logged the detail.
func WriteError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		ErrorResponse(w, status, internalErrorMessage)
		return
	}
	ErrorResponse(w, status, err.Error())
}

// QueryInt reads a non-negative integer query parameter, returning def when
// it is absent.
func QueryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, &QueryError{Param: name}
	}
	return n, nil
}

type QueryError struct {
	Param string
}

func (e *QueryError) Error() string {
	return "invalid " + e.Param + " parameter"
}

// Is makes a QueryError classify as a validation error.
func (e *QueryError) Is(target error) bool {
	return target == models.ErrValidation
}
