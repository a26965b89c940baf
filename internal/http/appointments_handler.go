package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"healthsync/internal/domain"
	"healthsync/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AppointmentsHandler serves the doctor list, booking and export
type AppointmentsHandler struct {
	appointments *service.AppointmentService
	export       *service.ExportService
	logger       *zap.Logger
}

func NewAppointmentsHandler(appointments *service.AppointmentService, export *service.ExportService, logger *zap.Logger) *AppointmentsHandler {
	return &AppointmentsHandler{appointments: appointments, export: export, logger: logger}
}

func (h *AppointmentsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/v1/doctors":
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		writeJSON(w, http.StatusOK, Ok(h.appointments.Doctors()))
	case "/api/v1/appointments":
		switch r.Method {
		case http.MethodGet:
			h.List(w, r)
		case http.MethodPost:
			h.Book(w, r)
		default:
			methodNotAllowed(w)
		}
	case "/api/v1/appointments/export":
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		h.Export(w, r)
	default:
		writeJSON(w, http.StatusNotFound, Fail("not found"))
	}
}

func (h *AppointmentsHandler) List(w http.ResponseWriter, r *http.Request) {
	appts, err := h.appointments.List(r.Context())
	if err != nil {
		writeError(w, h.logger, "load appointments", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(appts))
}

func (h *AppointmentsHandler) Book(w http.ResponseWriter, r *http.Request) {
	var form domain.AppointmentForm
	if err := readBodyJSON(r, maxJSONBody, &form); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	appt, err := h.appointments.Book(r.Context(), form)
	if err != nil {
		writeError(w, h.logger, "book appointment", err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(appt))
}

func (h *AppointmentsHandler) Export(w http.ResponseWriter, r *http.Request) {
	book, err := h.export.Appointments(r.Context())
	if err != nil {
		writeError(w, h.logger, "export appointments", err)
		return
	}
	writeAttachment(w, "appointments.xlsx", book)
}

func writeAttachment(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
