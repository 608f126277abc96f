package handle

import (
	"encoding/json"
	"errors"
	"net/http"

	"walk-companion/internal/walk-service/core/myerrors"
)

// jsonResponse writes the given data as a JSON-encoded HTTP response.
func jsonResponse(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// JsonError writes an error response as JSON with the specified HTTP status code.
func JsonError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": err.Error(),
		"code":  code,
	})
}

// serviceError maps core sentinel errors onto HTTP status codes.
func serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, myerrors.ErrNotFound), errors.Is(err, myerrors.ErrNoWalkers):
		JsonError(w, http.StatusNotFound, err)
	case errors.Is(err, myerrors.ErrForbidden):
		JsonError(w, http.StatusForbidden, err)
	case errors.Is(err, myerrors.ErrConflict):
		JsonError(w, http.StatusConflict, err)
	case errors.Is(err, myerrors.ErrValidation),
		errors.Is(err, myerrors.ErrInvalidOtp),
		errors.Is(err, myerrors.ErrOtpExpired),
		errors.Is(err, myerrors.ErrInvalidState):
		JsonError(w, http.StatusBadRequest, err)
	default:
		JsonError(w, http.StatusInternalServerError, err)
	}
}
