package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"healthsync/internal/domain"
	"healthsync/internal/events"
	"healthsync/internal/files"
	"healthsync/internal/repository"
	"healthsync/internal/store"
)

var fixedNow = time.Date(2025, 1, 19, 10, 30, 0, 0, time.UTC)

// recordingPublisher keeps every published event
type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

type testEnv struct {
	kv        *store.MemoryKV
	repo      *repository.RecordRepository
	fileDir   string
	publisher *recordingPublisher

	appointments *AppointmentService
	reports      *ReportService
	devices      *DeviceService
	vitals       *VitalsGenerator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zap.NewNop()

	kv := store.NewMemoryKV()
	repo := repository.NewRecordRepository(store.NewRecordStore(kv, logger))
	fileDir := t.TempDir()
	fs, err := files.NewLocalStore(fileDir)
	if err != nil {
		t.Fatal(err)
	}
	pub := &recordingPublisher{}

	appts := NewAppointmentService(repo, pub, logger)
	appts.now = func() time.Time { return fixedNow }
	appts.newID = sequentialIDs()

	reports := NewReportService(repo, repo, fs, pub, logger)
	reports.now = func() time.Time { return fixedNow }
	reports.newID = sequentialIDs()

	vitals := NewVitalsGenerator(time.Hour, logger)
	devices := NewDeviceService(repo, vitals, pub, DeviceServiceConfig{ScanDelay: -1, ConnectDelay: -1}, logger)

	return &testEnv{
		kv:           kv,
		repo:         repo,
		fileDir:      fileDir,
		publisher:    pub,
		appointments: appts,
		reports:      reports,
		devices:      devices,
		vitals:       vitals,
	}
}

func validForm() domain.AppointmentForm {
	return domain.AppointmentForm{
		Name:   "Asha Rao",
		Phone:  "9876543210",
		Email:  "asha@example.com",
		Doctor: "1",
		Date:   "2025-01-20",
		Time:   "09:00",
		Reason: "Follow-up",
	}
}

var errStorage = errors.New("disk full")

// failingReports fails every append
type failingReports struct {
	repository.ReportsRepository
}

func (failingReports) AppendReport(context.Context, domain.UploadedFile) error {
	return errStorage
}
