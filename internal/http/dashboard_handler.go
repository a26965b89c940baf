package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"healthsync/internal/service"
)

type DashboardHandler struct {
	dashboard *service.DashboardService
	logger    *zap.Logger
}

func NewDashboardHandler(dashboard *service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, logger: logger}
}

func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.dashboard.Summary(r.Context())
	if err != nil {
		writeError(w, h.logger, "load dashboard", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(summary))
}
