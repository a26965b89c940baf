package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"healthsync/internal/domain"
	"healthsync/internal/events"
	"healthsync/internal/files"
	"healthsync/internal/repository"
)

// ReportService manages uploaded health reports and the recent-report feed
type ReportService struct {
	reports   repository.ReportsRepository
	recent    repository.RecentReportsRepository
	files     files.Store
	publisher events.Publisher
	logger    *zap.Logger

	now   func() time.Time
	newID func() string
}

func NewReportService(
	reports repository.ReportsRepository,
	recent repository.RecentReportsRepository,
	fileStore files.Store,
	publisher events.Publisher,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		reports:   reports,
		recent:    recent,
		files:     fileStore,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// UploadRequest is a picked file
type UploadRequest struct {
	Name     string
	MimeType string
	Content  io.Reader
}

// acceptedMimeType reports whether the picker would have offered the file
func acceptedMimeType(mime string) bool {
	mime = strings.ToLower(strings.TrimSpace(mime))
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	return mime == "" || mime == domain.DefaultMimeType || mime == "application/pdf" || strings.HasPrefix(mime, "image/")
}

// Upload copies the content into the file store, records it and pushes a recent report.
// If the record cannot be written the copied blob is removed again.
func (s *ReportService) Upload(ctx context.Context, req UploadRequest) (*domain.UploadedFile, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, domain.ValidationErrors{"file": "File name is required"}
	}
	if !acceptedMimeType(req.MimeType) {
		return nil, ErrUnsupportedFileType
	}

	uri, size, err := s.files.Save(ctx, req.Name, req.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	mime := req.MimeType
	if mime == "" {
		mime = domain.DefaultMimeType
	}
	date := s.now().UTC().Format("2006-01-02")
	file := domain.UploadedFile{
		ID:   s.newID(),
		Name: req.Name,
		Type: mime,
		URI:  uri,
		Date: date,
		Size: size,
	}

	if err := s.reports.AppendReport(ctx, file); err != nil {
		if derr := s.files.Delete(ctx, uri); derr != nil {
			s.logger.Error("Failed to roll back uploaded file", zap.String("uri", uri), zap.Error(derr))
		}
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	// the feed is display-only; a failed push leaves the upload in place
	if err := s.recent.PushRecentReport(ctx, domain.RecentReport{
		FileID: file.ID,
		Name:   file.Name,
		Date:   date,
		Status: domain.ReportStatusNormal,
	}); err != nil {
		s.logger.Warn("Failed to update recent reports", zap.String("file_id", file.ID), zap.Error(err))
	}

	s.logger.Info("Report uploaded",
		zap.String("file_id", file.ID),
		zap.String("name", file.Name),
		zap.Int64("size", file.Size),
	)
	events.Emit(ctx, s.publisher, s.logger, events.New(events.TypeReportUploaded, file.ID, file.Name))
	return &file, nil
}

func (s *ReportService) List(ctx context.Context) ([]domain.UploadedFile, error) {
	list, err := s.reports.ListReports(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load files: %w", err)
	}
	return list, nil
}

func (s *ReportService) Get(ctx context.Context, id string) (*domain.UploadedFile, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	i := domain.FindFile(list, id)
	if i < 0 {
		return nil, ErrNotFound
	}
	return &list[i], nil
}

// Open returns the record and its content for preview or sharing. The caller closes the reader.
func (s *ReportService) Open(ctx context.Context, id string) (*domain.UploadedFile, io.ReadCloser, error) {
	file, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.files.Open(ctx, file.URI)
	if err != nil {
		if errors.Is(err, files.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, rc, nil
}

// Delete removes the record, prunes recent reports that point at it, then removes the blob.
func (s *ReportService) Delete(ctx context.Context, id string) error {
	removed, found, err := s.reports.DeleteReport(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	if !found {
		return ErrNotFound
	}

	if err := s.recent.PruneRecentReports(ctx, removed.ID); err != nil {
		// Recent repairs the feed on read
		s.logger.Warn("Failed to prune recent reports", zap.String("file_id", removed.ID), zap.Error(err))
	}
	if err := s.files.Delete(ctx, removed.URI); err != nil {
		s.logger.Warn("Failed to delete stored file", zap.String("uri", removed.URI), zap.Error(err))
	}

	s.logger.Info("Report deleted", zap.String("file_id", removed.ID), zap.String("name", removed.Name))
	events.Emit(ctx, s.publisher, s.logger, events.New(events.TypeReportDeleted, removed.ID, removed.Name))
	return nil
}

// Recent returns the feed with entries for deleted files dropped.
// Entries without a file id predate id linking and are matched by name.
func (s *ReportService) Recent(ctx context.Context) ([]domain.RecentReport, error) {
	recent, err := s.recent.ListRecentReports(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent reports: %w", err)
	}
	if len(recent) == 0 {
		return recent, nil
	}

	list, err := s.reports.ListReports(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent reports: %w", err)
	}
	ids := make(map[string]struct{}, len(list))
	names := make(map[string]struct{}, len(list))
	for _, f := range list {
		ids[f.ID] = struct{}{}
		names[f.Name] = struct{}{}
	}

	out := make([]domain.RecentReport, 0, len(recent))
	for _, r := range recent {
		if r.FileID != "" {
			if _, ok := ids[r.FileID]; !ok {
				continue
			}
		} else if _, ok := names[r.Name]; !ok {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}
