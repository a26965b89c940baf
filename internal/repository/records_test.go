package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"healthsync/internal/domain"
	"healthsync/internal/store"
)

func newTestRepo(t *testing.T) (*RecordRepository, *store.MemoryKV) {
	t.Helper()
	kv := store.NewMemoryKV()
	return NewRecordRepository(store.NewRecordStore(kv, zap.NewNop())), kv
}

func TestAppointments_EmptyThenAppend(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	appts, err := repo.ListAppointments(ctx)
	require.NoError(t, err)
	assert.NotNil(t, appts)
	assert.Empty(t, appts)

	require.NoError(t, repo.AppendAppointment(ctx, domain.Appointment{ID: "a1", Date: "2025-01-20", Time: "09:00"}))
	require.NoError(t, repo.AppendAppointment(ctx, domain.Appointment{ID: "a2", Date: "2025-01-19", Time: "08:00"}))

	appts, err = repo.ListAppointments(ctx)
	require.NoError(t, err)
	require.Len(t, appts, 2)
	// storage keeps insertion order; sorting is a view concern
	assert.Equal(t, "a1", appts[0].ID)
	assert.Equal(t, "a2", appts[1].ID)
}

func TestReports_DeleteRemovesExactlyOne(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	for _, f := range []domain.UploadedFile{
		{ID: "f1", Name: "scan.pdf"},
		{ID: "f2", Name: "scan.pdf"},
		{ID: "f3", Name: "blood.pdf"},
	} {
		require.NoError(t, repo.AppendReport(ctx, f))
	}

	removed, found, err := repo.DeleteReport(ctx, "f1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "f1", removed.ID)

	files, err := repo.ListReports(ctx)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "f2", files[0].ID)
	assert.Equal(t, "f3", files[1].ID)
}

func TestReports_DeleteUnknownDoesNotWrite(t *testing.T) {
	ctx := context.Background()
	repo, kv := newTestRepo(t)

	_, found, err := repo.DeleteReport(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	_, err = kv.Get(ctx, store.ReportsKey.Name())
	assert.ErrorIs(t, err, store.ErrMiss)
}

func TestRecentReports_PushAndPruneByFileID(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	require.NoError(t, repo.PushRecentReport(ctx, domain.RecentReport{FileID: "f1", Name: "scan.pdf"}))
	require.NoError(t, repo.PushRecentReport(ctx, domain.RecentReport{FileID: "f2", Name: "scan.pdf"}))

	require.NoError(t, repo.PruneRecentReports(ctx, "f1"))

	recent, err := repo.ListRecentReports(ctx)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "f2", recent[0].FileID)
}

func TestRecentReports_CapAtFive(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	for _, id := range []string{"1", "2", "3", "4", "5", "6"} {
		require.NoError(t, repo.PushRecentReport(ctx, domain.RecentReport{FileID: id}))
	}

	recent, err := repo.ListRecentReports(ctx)
	require.NoError(t, err)
	require.Len(t, recent, domain.MaxRecentReports)
	assert.Equal(t, "6", recent[0].FileID)
	assert.Equal(t, "2", recent[4].FileID)
}

func TestRecentReports_PruneOnEmptyIsNoop(t *testing.T) {
	ctx := context.Background()
	repo, kv := newTestRepo(t)

	require.NoError(t, repo.PruneRecentReports(ctx, "f1"))
	_, err := kv.Get(ctx, store.RecentReportsKey.Name())
	assert.ErrorIs(t, err, store.ErrMiss)
}

func TestConnectedDevice_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	d, err := repo.GetConnectedDevice(ctx)
	require.NoError(t, err)
	assert.Nil(t, d)

	name := "Firebolt 093"
	require.NoError(t, repo.SaveConnectedDevice(ctx, domain.ConnectedDevice{ID: "1", Name: &name, IsConnected: true}))

	d, err = repo.GetConnectedDevice(ctx)
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "Firebolt 093", d.DisplayName())
	assert.True(t, d.IsConnected)

	require.NoError(t, repo.ClearConnectedDevice(ctx))
	d, err = repo.GetConnectedDevice(ctx)
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestReports_CorruptCollectionSurfaces(t *testing.T) {
	ctx := context.Background()
	repo, kv := newTestRepo(t)
	require.NoError(t, kv.Set(ctx, store.ReportsKey.Name(), "{not json", 0))

	_, err := repo.ListReports(ctx)
	var derr *store.DeserializationError
	assert.ErrorAs(t, err, &derr)
}
