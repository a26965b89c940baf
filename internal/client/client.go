// Package client is the HTTP client for the healthsync API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"healthsync/internal/domain"
	"healthsync/internal/service"
)

const resultSuccess = 2000

// envelope mirrors the server's Result
type envelope struct {
	Code    int             `json:"code"`
	Type    string          `json:"type"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

// APIError is a non-success response. Fields holds per-field validation messages.
type APIError struct {
	StatusCode int
	Message    string
	Fields     map[string]string
}

func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%s (HTTP %d)", e.Message, e.StatusCode)
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return fmt.Sprintf("%s (HTTP %d): %s", e.Message, e.StatusCode, strings.Join(parts, "; "))
}

// Client calls the healthsync HTTP API
type Client struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

func New(baseURL string, logger *zap.Logger) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetTimeout(30 * time.Second). // device scan and uploads can be slow
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(3 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			// only reads are retried on a 5xx; writes are not idempotent
			return err == nil && r.Request.Method == http.MethodGet && r.StatusCode() >= 500
		}).
		SetHeader("Accept", "application/json")

	return &Client{httpClient: client, logger: logger}
}

func (c *Client) call(ctx context.Context, method, path string, body any, out any) error {
	var env envelope
	req := c.httpClient.R().
		SetContext(ctx).
		SetResult(&env).
		SetError(&env)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		c.logger.Error("API call failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return fmt.Errorf("failed to call %s %s: %w", method, path, err)
	}
	return decode(resp, &env, out)
}

func decode(resp *resty.Response, env *envelope, out any) error {
	if resp.IsError() || env.Code != resultSuccess {
		apiErr := &APIError{StatusCode: resp.StatusCode(), Message: env.Message}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode())
		}
		if resp.StatusCode() == http.StatusBadRequest && len(env.Result) > 0 {
			_ = json.Unmarshal(env.Result, &apiErr.Fields)
		}
		return apiErr
	}
	if out == nil || len(env.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return fmt.Errorf("failed to unmarshal result: %w", err)
	}
	return nil
}

// --- Auth ---

func (c *Client) Login(ctx context.Context, email, password string) (*service.LoginResult, error) {
	var out service.LoginResult
	err := c.call(ctx, http.MethodPost, "/auth/api/v1/login", map[string]string{"email": email, "password": password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) BiometricStatus(ctx context.Context) (*service.BiometricStatus, error) {
	var out service.BiometricStatus
	if err := c.call(ctx, http.MethodGet, "/auth/api/v1/biometric", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) EnableBiometric(ctx context.Context, email string) error {
	return c.call(ctx, http.MethodPost, "/auth/api/v1/biometric/enable", map[string]string{"email": email}, nil)
}

// BiometricLogin returns the stored email on success
func (c *Client) BiometricLogin(ctx context.Context) (string, error) {
	var out struct {
		Email string `json:"email"`
	}
	if err := c.call(ctx, http.MethodPost, "/auth/api/v1/biometric/login", struct{}{}, &out); err != nil {
		return "", err
	}
	return out.Email, nil
}

func (c *Client) DisableBiometric(ctx context.Context) error {
	return c.call(ctx, http.MethodPost, "/auth/api/v1/biometric/disable", struct{}{}, nil)
}

// --- Appointments ---

func (c *Client) Doctors(ctx context.Context) ([]domain.Doctor, error) {
	var out []domain.Doctor
	err := c.call(ctx, http.MethodGet, "/api/v1/doctors", nil, &out)
	return out, err
}

func (c *Client) ListAppointments(ctx context.Context) ([]domain.Appointment, error) {
	var out []domain.Appointment
	err := c.call(ctx, http.MethodGet, "/api/v1/appointments", nil, &out)
	return out, err
}

func (c *Client) BookAppointment(ctx context.Context, form domain.AppointmentForm) (*domain.Appointment, error) {
	var out domain.Appointment
	if err := c.call(ctx, http.MethodPost, "/api/v1/appointments", form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Reports ---

func (c *Client) ListReports(ctx context.Context) ([]domain.UploadedFile, error) {
	var out []domain.UploadedFile
	err := c.call(ctx, http.MethodGet, "/api/v1/reports", nil, &out)
	return out, err
}

func (c *Client) RecentReports(ctx context.Context) ([]domain.RecentReport, error) {
	var out []domain.RecentReport
	err := c.call(ctx, http.MethodGet, "/api/v1/reports/recent", nil, &out)
	return out, err
}

// UploadReport sends content as multipart field "file"
func (c *Client) UploadReport(ctx context.Context, name, mimeType string, content io.Reader) (*domain.UploadedFile, error) {
	var env envelope
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetMultipartField("file", name, mimeType, content).
		SetResult(&env).
		SetError(&env).
		Post("/api/v1/reports")
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", name, err)
	}
	var out domain.UploadedFile
	if err := decode(resp, &env, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteReport(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/api/v1/reports/"+id, nil, nil)
}

// DownloadReport returns the stored file content. The caller closes it.
func (c *Client) DownloadReport(ctx context.Context, id string) (io.ReadCloser, string, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		SetQueryParam("download", "1").
		Get("/api/v1/reports/" + id + "/file")
	if err != nil {
		return nil, "", fmt.Errorf("failed to download %s: %w", id, err)
	}
	body := resp.RawBody()
	if resp.IsError() {
		defer body.Close()
		var env envelope
		_ = json.NewDecoder(body).Decode(&env)
		return nil, "", decode(resp, &env, nil)
	}
	return body, resp.Header().Get("Content-Type"), nil
}

// Export downloads an xlsx workbook; kind is "appointments" or "reports"
func (c *Client) Export(ctx context.Context, kind string) ([]byte, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		Get("/api/v1/" + kind + "/export")
	if err != nil {
		return nil, fmt.Errorf("failed to export %s: %w", kind, err)
	}
	if resp.IsError() {
		var env envelope
		_ = json.Unmarshal(resp.Body(), &env)
		return nil, decode(resp, &env, nil)
	}
	return resp.Body(), nil
}

// --- Devices ---

func (c *Client) ScanDevices(ctx context.Context) ([]domain.ConnectedDevice, error) {
	var out []domain.ConnectedDevice
	err := c.call(ctx, http.MethodGet, "/api/v1/devices/scan", nil, &out)
	return out, err
}

func (c *Client) ConnectDevice(ctx context.Context, id string) (*domain.ConnectedDevice, error) {
	var out domain.ConnectedDevice
	if err := c.call(ctx, http.MethodPost, "/api/v1/devices/connect", map[string]string{"id": id}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DisconnectDevice(ctx context.Context) error {
	return c.call(ctx, http.MethodDelete, "/api/v1/devices/connected", nil, nil)
}

// ConnectedDevice returns nil when nothing is paired
func (c *Client) ConnectedDevice(ctx context.Context) (*domain.ConnectedDevice, error) {
	var out *domain.ConnectedDevice
	err := c.call(ctx, http.MethodGet, "/api/v1/devices/connected", nil, &out)
	return out, err
}

func (c *Client) Vitals(ctx context.Context) (*domain.VitalSigns, error) {
	var out domain.VitalSigns
	if err := c.call(ctx, http.MethodGet, "/api/v1/devices/vitals", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Dashboard ---

func (c *Client) Dashboard(ctx context.Context) (*domain.Dashboard, error) {
	var out domain.Dashboard
	if err := c.call(ctx, http.MethodGet, "/api/v1/dashboard", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
