package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"healthsync/internal/domain"
	"healthsync/internal/service"
)

const maxJSONBody = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func readBodyJSON(r *http.Request, maxBytes int64, out any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBytes))
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

// pathID returns the single segment after prefix, or "" when the path has more or none
func pathID(path, prefix string) string {
	id := strings.TrimPrefix(path, prefix)
	if id == path || id == "" || strings.Contains(id, "/") {
		return ""
	}
	return id
}

// writeError maps service errors to a status code. action completes "failed to ..., try again".
func writeError(w http.ResponseWriter, logger *zap.Logger, action string, err error) {
	var verr domain.ValidationErrors
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, FailWith("validation failed", map[string]string(verr)))
	case errors.Is(err, service.ErrNotFound):
		writeJSON(w, http.StatusNotFound, Fail("not found"))
	case errors.Is(err, service.ErrNotConnected):
		writeJSON(w, http.StatusConflict, Fail(err.Error()))
	case errors.Is(err, service.ErrUnsupportedFileType):
		writeJSON(w, http.StatusUnsupportedMediaType, Fail(err.Error()))
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrBiometricFailed):
		writeJSON(w, http.StatusUnauthorized, Fail(err.Error()))
	case errors.Is(err, service.ErrBiometricCancelled),
		errors.Is(err, service.ErrBiometricNotEnrolled),
		errors.Is(err, service.ErrBiometricNotEnabled),
		errors.Is(err, service.ErrBiometricUnavailable):
		writeJSON(w, http.StatusPreconditionFailed, Fail(err.Error()))
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeJSON(w, http.StatusServiceUnavailable, Fail("request cancelled"))
	default:
		logger.Error("Request failed", zap.String("action", action), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to "+action+", try again"))
	}
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, Fail("method not allowed"))
}
