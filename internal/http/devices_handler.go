package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"healthsync/internal/domain"
	"healthsync/internal/service"
)

// DevicesHandler serves the mock wearable
type DevicesHandler struct {
	devices *service.DeviceService
	logger  *zap.Logger
}

func NewDevicesHandler(devices *service.DeviceService, logger *zap.Logger) *DevicesHandler {
	return &DevicesHandler{devices: devices, logger: logger}
}

func (h *DevicesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/api/v1/devices/scan" && r.Method == http.MethodGet:
		h.Scan(w, r)
	case r.URL.Path == "/api/v1/devices/connect" && r.Method == http.MethodPost:
		h.Connect(w, r)
	case r.URL.Path == "/api/v1/devices/connected" && r.Method == http.MethodGet:
		h.Connected(w, r)
	case r.URL.Path == "/api/v1/devices/connected" && r.Method == http.MethodDelete:
		h.Disconnect(w, r)
	case r.URL.Path == "/api/v1/devices/vitals" && r.Method == http.MethodGet:
		h.Vitals(w, r)
	default:
		writeJSON(w, http.StatusNotFound, Fail("not found"))
	}
}

func (h *DevicesHandler) Scan(w http.ResponseWriter, r *http.Request) {
	found, err := h.devices.Scan(r.Context())
	if err != nil {
		writeError(w, h.logger, "scan for devices", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(found))
}

func (h *DevicesHandler) Connect(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ID string `json:"id"`
	}
	if err := readBodyJSON(r, maxJSONBody, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	if payload.ID == "" {
		writeError(w, h.logger, "connect to device", domain.ValidationErrors{"id": "Device id is required"})
		return
	}
	device, err := h.devices.Connect(r.Context(), payload.ID)
	if err != nil {
		writeError(w, h.logger, "connect to device", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(device))
}

// Connected returns the device or a null result
func (h *DevicesHandler) Connected(w http.ResponseWriter, r *http.Request) {
	device, err := h.devices.Connected(r.Context())
	if err != nil {
		writeError(w, h.logger, "load device", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(device))
}

func (h *DevicesHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	if err := h.devices.Disconnect(r.Context()); err != nil {
		writeError(w, h.logger, "disconnect device", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]bool{"isConnected": false}))
}

func (h *DevicesHandler) Vitals(w http.ResponseWriter, r *http.Request) {
	v, err := h.devices.Vitals(r.Context())
	if err != nil {
		writeError(w, h.logger, "read vitals", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(v))
}
