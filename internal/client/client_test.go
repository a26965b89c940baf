package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"healthsync/internal/domain"
)

func writeEnvelope(w http.ResponseWriter, status int, code int, message string, result any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"code":    code,
		"type":    "success",
		"message": message,
		"result":  result,
	})
}

func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", zap.NewNop())
}

func TestClient_BookAppointment(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/appointments", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var form domain.AppointmentForm
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&form))
		writeEnvelope(w, http.StatusCreated, resultSuccess, "ok", domain.Appointment{ID: "a1", Name: form.Name, Status: "confirmed"})
	})
	c := newTestClient(t, mux)

	appt, err := c.BookAppointment(context.Background(), domain.AppointmentForm{Name: "Asha"})
	require.NoError(t, err)
	assert.Equal(t, "a1", appt.ID)
	assert.Equal(t, "Asha", appt.Name)
}

func TestClient_ValidationError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/appointments", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusBadRequest, -1, "validation failed", map[string]string{
			"phone": "Enter a valid 10-digit phone number",
			"email": "Enter a valid email address",
		})
	})
	c := newTestClient(t, mux)

	_, err := c.BookAppointment(context.Background(), domain.AppointmentForm{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Len(t, apiErr.Fields, 2)
	assert.Equal(t, "validation failed (HTTP 400): email: Enter a valid email address; phone: Enter a valid 10-digit phone number", err.Error())
}

func TestClient_RetriesReadsOn5xx(t *testing.T) {
	var calls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/doctors", func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			writeEnvelope(w, http.StatusInternalServerError, -1, "failed to load doctors, try again", nil)
			return
		}
		writeEnvelope(w, http.StatusOK, resultSuccess, "ok", []domain.Doctor{{ID: "1", Name: "Dr. Sarah Johnson"}})
	})
	c := newTestClient(t, mux)
	c.httpClient.SetRetryWaitTime(time.Millisecond).SetRetryMaxWaitTime(5 * time.Millisecond)

	docs, err := c.Doctors(context.Background())
	require.NoError(t, err)
	assert.Len(t, docs, 1)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClient_DoesNotRetryWrites(t *testing.T) {
	var calls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/devices/connected", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		writeEnvelope(w, http.StatusInternalServerError, -1, "failed to disconnect device, try again", nil)
	})
	c := newTestClient(t, mux)

	err := c.DisconnectDevice(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_UploadReport(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/reports", func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		writeEnvelope(w, http.StatusCreated, resultSuccess, "ok", domain.UploadedFile{
			ID:   "f1",
			Name: header.Filename,
			Type: header.Header.Get("Content-Type"),
			Size: int64(len(data)),
		})
	})
	c := newTestClient(t, mux)

	f, err := c.UploadReport(context.Background(), "lab.pdf", "application/pdf", strings.NewReader("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "lab.pdf", f.Name)
	assert.Equal(t, "application/pdf", f.Type)
	assert.Equal(t, int64(4), f.Size)
}

func TestClient_DownloadReport(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/reports/f1/file", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("download"))
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png"))
	})
	mux.HandleFunc("/api/v1/reports/missing/file", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusNotFound, -1, "not found", nil)
	})
	c := newTestClient(t, mux)

	rc, mime, err := c.DownloadReport(context.Background(), "f1")
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	_ = rc.Close()
	assert.Equal(t, "png", string(data))
	assert.Equal(t, "image/png", mime)

	_, _, err = c.DownloadReport(context.Background(), "missing")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestClient_ConnectedDeviceNull(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/devices/connected", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, resultSuccess, "ok", nil)
	})
	c := newTestClient(t, mux)

	d, err := c.ConnectedDevice(context.Background())
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestClient_BiometricLogin(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/api/v1/biometric/login", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		writeEnvelope(w, http.StatusOK, resultSuccess, "ok", map[string]string{"email": "demo@healthsync.app"})
	})
	mux.HandleFunc("/auth/api/v1/biometric/disable", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusPreconditionFailed, -1, "biometric login is not enabled", nil)
	})
	c := newTestClient(t, mux)

	email, err := c.BiometricLogin(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "demo@healthsync.app", email)

	err = c.DisableBiometric(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusPreconditionFailed, apiErr.StatusCode)
}
