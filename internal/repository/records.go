package repository

import (
	"context"
	"errors"

	"healthsync/internal/domain"
	"healthsync/internal/store"
)

// errNoChange aborts a store.Update without writing
var errNoChange = errors.New("no change")

// RecordRepository implements the collection repositories over one record store
type RecordRepository struct {
	records *store.RecordStore
}

func NewRecordRepository(records *store.RecordStore) *RecordRepository {
	return &RecordRepository{records: records}
}

// --- Appointments ---

func (r *RecordRepository) ListAppointments(ctx context.Context) ([]domain.Appointment, error) {
	appts, _, err := store.Read(ctx, r.records, store.AppointmentsKey)
	if err != nil {
		return nil, err
	}
	if appts == nil {
		appts = []domain.Appointment{}
	}
	return appts, nil
}

func (r *RecordRepository) AppendAppointment(ctx context.Context, a domain.Appointment) error {
	_, err := store.Update(ctx, r.records, store.AppointmentsKey, func(cur []domain.Appointment, _ bool) ([]domain.Appointment, error) {
		return append(cur, a), nil
	})
	return err
}

// --- Reports ---

func (r *RecordRepository) ListReports(ctx context.Context) ([]domain.UploadedFile, error) {
	files, _, err := store.Read(ctx, r.records, store.ReportsKey)
	if err != nil {
		return nil, err
	}
	if files == nil {
		files = []domain.UploadedFile{}
	}
	return files, nil
}

func (r *RecordRepository) AppendReport(ctx context.Context, f domain.UploadedFile) error {
	_, err := store.Update(ctx, r.records, store.ReportsKey, func(cur []domain.UploadedFile, _ bool) ([]domain.UploadedFile, error) {
		return append(cur, f), nil
	})
	return err
}

func (r *RecordRepository) DeleteReport(ctx context.Context, id string) (domain.UploadedFile, bool, error) {
	var removed domain.UploadedFile
	_, err := store.Update(ctx, r.records, store.ReportsKey, func(cur []domain.UploadedFile, _ bool) ([]domain.UploadedFile, error) {
		i := domain.FindFile(cur, id)
		if i < 0 {
			return nil, errNoChange
		}
		removed = cur[i]
		out := make([]domain.UploadedFile, 0, len(cur)-1)
		out = append(out, cur[:i]...)
		return append(out, cur[i+1:]...), nil
	})
	if errors.Is(err, errNoChange) {
		return domain.UploadedFile{}, false, nil
	}
	if err != nil {
		return domain.UploadedFile{}, false, err
	}
	return removed, true, nil
}

// --- Recent reports ---

func (r *RecordRepository) ListRecentReports(ctx context.Context) ([]domain.RecentReport, error) {
	recent, _, err := store.Read(ctx, r.records, store.RecentReportsKey)
	if err != nil {
		return nil, err
	}
	if recent == nil {
		recent = []domain.RecentReport{}
	}
	return recent, nil
}

func (r *RecordRepository) PushRecentReport(ctx context.Context, rr domain.RecentReport) error {
	_, err := store.Update(ctx, r.records, store.RecentReportsKey, func(cur []domain.RecentReport, _ bool) ([]domain.RecentReport, error) {
		return domain.PushRecentReport(cur, rr), nil
	})
	return err
}

func (r *RecordRepository) PruneRecentReports(ctx context.Context, fileID string) error {
	_, err := store.Update(ctx, r.records, store.RecentReportsKey, func(cur []domain.RecentReport, found bool) ([]domain.RecentReport, error) {
		if !found {
			return nil, errNoChange
		}
		return domain.PruneRecentReports(cur, fileID), nil
	})
	if errors.Is(err, errNoChange) {
		return nil
	}
	return err
}

// --- Device ---

func (r *RecordRepository) GetConnectedDevice(ctx context.Context) (*domain.ConnectedDevice, error) {
	d, found, err := store.Read(ctx, r.records, store.ConnectedDeviceKey)
	if err != nil || !found {
		return nil, err
	}
	return &d, nil
}

func (r *RecordRepository) SaveConnectedDevice(ctx context.Context, d domain.ConnectedDevice) error {
	return store.Write(ctx, r.records, store.ConnectedDeviceKey, d)
}

func (r *RecordRepository) ClearConnectedDevice(ctx context.Context) error {
	return store.Remove(ctx, r.records, store.ConnectedDeviceKey)
}
