package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"healthsync/internal/service"
)

func TestPathID(t *testing.T) {
	assert.Equal(t, "abc", pathID("/api/v1/reports/abc", "/api/v1/reports/"))
	assert.Equal(t, "", pathID("/api/v1/reports/", "/api/v1/reports/"))
	assert.Equal(t, "", pathID("/api/v1/reports/a/b", "/api/v1/reports/"))
	assert.Equal(t, "", pathID("/other/abc", "/api/v1/reports/"))
}

func TestWriteError_Status(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("wrapped: %w", service.ErrNotFound), http.StatusNotFound},
		{service.ErrInvalidCredentials, http.StatusUnauthorized},
		{service.ErrUnsupportedFileType, http.StatusUnsupportedMediaType},
		{service.ErrBiometricNotEnrolled, http.StatusPreconditionFailed},
		{errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		writeError(rec, zap.NewNop(), "save", tt.err)
		assert.Equal(t, tt.want, rec.Code, tt.err.Error())
	}

	rec := httptest.NewRecorder()
	writeError(rec, zap.NewNop(), "save file", errors.New("disk full"))
	assert.JSONEq(t, `{"code":-1,"type":"error","message":"failed to save file, try again","result":null}`, rec.Body.String())
}
