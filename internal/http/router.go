package httpapi

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Router uses the standard http.ServeMux
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) HandleHandler(pattern string, h http.Handler) {
	r.mux.Handle(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	start := time.Now()
	sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
	r.mux.ServeHTTP(sw, req)
	r.logger.Debug("HTTP request",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", sw.status),
		zap.Duration("duration", time.Since(start)),
	)
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// RegisterHealthRoutes registers the liveness probe
func (r *Router) RegisterHealthRoutes() {
	r.Handle("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		writeJSON(w, http.StatusOK, Ok(map[string]string{"status": "ok"}))
	})
}

func (r *Router) RegisterAuthRoutes(h *AuthHandler) {
	r.HandleHandler("/auth/api/v1/", h)
}

func (r *Router) RegisterAppointmentRoutes(h *AppointmentsHandler) {
	r.HandleHandler("/api/v1/doctors", h)
	r.HandleHandler("/api/v1/appointments", h)
	r.HandleHandler("/api/v1/appointments/", h)
}

func (r *Router) RegisterReportRoutes(h *ReportsHandler) {
	r.HandleHandler("/api/v1/reports", h)
	r.HandleHandler("/api/v1/reports/", h)
}

func (r *Router) RegisterDeviceRoutes(h *DevicesHandler) {
	r.HandleHandler("/api/v1/devices/", h)
}

func (r *Router) RegisterDashboardRoutes(h *DashboardHandler) {
	r.Handle("/api/v1/dashboard", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		h.Summary(w, req)
	})
}
