package httpapi

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"healthsync/internal/domain"
	"healthsync/internal/files"
	"healthsync/internal/service"
)

const reportsPrefix = "/api/v1/reports/"

// ReportsHandler serves uploads, preview/share and the recent feed
type ReportsHandler struct {
	reports *service.ReportService
	export  *service.ExportService
	logger  *zap.Logger
}

func NewReportsHandler(reports *service.ReportService, export *service.ExportService, logger *zap.Logger) *ReportsHandler {
	return &ReportsHandler{reports: reports, export: export, logger: logger}
}

func (h *ReportsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/api/v1/reports" && r.Method == http.MethodGet:
		h.List(w, r)
	case r.URL.Path == "/api/v1/reports" && r.Method == http.MethodPost:
		h.Upload(w, r)
	case r.URL.Path == "/api/v1/reports/export" && r.Method == http.MethodGet:
		h.Export(w, r)
	case r.URL.Path == "/api/v1/reports/recent" && r.Method == http.MethodGet:
		h.Recent(w, r)
	case strings.HasSuffix(r.URL.Path, "/file") && r.Method == http.MethodGet:
		id := pathID(strings.TrimSuffix(r.URL.Path, "/file"), reportsPrefix)
		if id == "" {
			writeJSON(w, http.StatusNotFound, Fail("not found"))
			return
		}
		h.Open(w, r, id)
	case strings.HasPrefix(r.URL.Path, reportsPrefix) && r.Method == http.MethodDelete:
		id := pathID(r.URL.Path, reportsPrefix)
		if id == "" {
			writeJSON(w, http.StatusNotFound, Fail("not found"))
			return
		}
		h.Delete(w, r, id)
	default:
		writeJSON(w, http.StatusNotFound, Fail("not found"))
	}
}

func (h *ReportsHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.reports.List(r.Context())
	if err != nil {
		writeError(w, h.logger, "load files", err)
		return
	}
	type item struct {
		domain.UploadedFile
		SizeLabel string `json:"sizeLabel"`
	}
	out := make([]item, 0, len(list))
	for _, f := range list {
		out = append(out, item{UploadedFile: f, SizeLabel: domain.FormatFileSize(f.Size)})
	}
	writeJSON(w, http.StatusOK, Ok(out))
}

// Upload accepts multipart/form-data with the file in field "file"
func (h *ReportsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, files.MaxFileSize+1<<20)
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, Fail("file too large"))
			return
		}
		writeError(w, h.logger, "upload file", domain.ValidationErrors{"file": "Please choose a file"})
		return
	}
	defer file.Close()

	uploaded, err := h.reports.Upload(r.Context(), service.UploadRequest{
		Name:     header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		Content:  file,
	})
	if err != nil {
		writeError(w, h.logger, "upload file", err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(uploaded))
}

func (h *ReportsHandler) Recent(w http.ResponseWriter, r *http.Request) {
	recent, err := h.reports.Recent(r.Context())
	if err != nil {
		writeError(w, h.logger, "load recent reports", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(recent))
}

func (h *ReportsHandler) Delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.reports.Delete(r.Context(), id); err != nil {
		writeError(w, h.logger, "delete file", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]string{"id": id}))
}

// Open streams the stored file. ?download=1 asks the client to save (share) instead of preview.
func (h *ReportsHandler) Open(w http.ResponseWriter, r *http.Request, id string) {
	file, rc, err := h.reports.Open(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, "open file", err)
		return
	}
	defer rc.Close()

	disposition := "inline"
	if r.URL.Query().Get("download") == "1" {
		disposition = "attachment"
	}
	w.Header().Set("Content-Type", file.Type)
	w.Header().Set("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{"filename": file.Name}))
	if file.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(file.Size, 10))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Warn("Failed to stream file", zap.String("file_id", id), zap.Error(err))
	}
}

func (h *ReportsHandler) Export(w http.ResponseWriter, r *http.Request) {
	book, err := h.export.Reports(r.Context())
	if err != nil {
		writeError(w, h.logger, "export files", err)
		return
	}
	writeAttachment(w, "reports.xlsx", book)
}
