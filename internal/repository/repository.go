package repository

import (
	"context"

	"healthsync/internal/domain"
)

// AppointmentsRepository stores booked appointments. There is no update or cancel path.
type AppointmentsRepository interface {
	ListAppointments(ctx context.Context) ([]domain.Appointment, error)
	AppendAppointment(ctx context.Context, a domain.Appointment) error
}

// ReportsRepository stores uploaded-file records
type ReportsRepository interface {
	ListReports(ctx context.Context) ([]domain.UploadedFile, error)
	AppendReport(ctx context.Context, f domain.UploadedFile) error
	// DeleteReport removes the record with id and returns it; found is false for an unknown id.
	DeleteReport(ctx context.Context, id string) (removed domain.UploadedFile, found bool, err error)
}

// RecentReportsRepository stores the capped, newest-first recent-activity feed
type RecentReportsRepository interface {
	ListRecentReports(ctx context.Context) ([]domain.RecentReport, error)
	PushRecentReport(ctx context.Context, r domain.RecentReport) error
	PruneRecentReports(ctx context.Context, fileID string) error
}

// DeviceRepository stores the singleton connected device
type DeviceRepository interface {
	// GetConnectedDevice returns nil when no device is stored
	GetConnectedDevice(ctx context.Context) (*domain.ConnectedDevice, error)
	SaveConnectedDevice(ctx context.Context, d domain.ConnectedDevice) error
	ClearConnectedDevice(ctx context.Context) error
}

// CredentialsRepository stores the biometric opt-in flag and the echoed email in the secure tier
type CredentialsRepository interface {
	BiometricEnabled(ctx context.Context) (bool, error)
	StoredEmail(ctx context.Context) (string, bool, error)
	EnableBiometric(ctx context.Context, email string) error
	DisableBiometric(ctx context.Context) error
}
