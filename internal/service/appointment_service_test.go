package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthsync/internal/domain"
	"healthsync/internal/events"
	"healthsync/internal/store"
)

func TestAppointmentService_Book(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	appt, err := env.appointments.Book(ctx, validForm())
	require.NoError(t, err)
	assert.Equal(t, "id-1", appt.ID)
	assert.Equal(t, domain.AppointmentStatusConfirmed, appt.Status)
	assert.Equal(t, "2025-01-19T10:30:00Z", appt.CreatedAt)

	list, err := env.appointments.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, *appt, list[0])
	assert.Equal(t, []string{events.TypeAppointmentBooked}, env.publisher.types())
}

func TestAppointmentService_BookInvalidDoesNotWrite(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	form := validForm()
	form.Phone = "12345"
	form.Email = "bad"
	form.Date = "2025/13/40"

	_, err := env.appointments.Book(ctx, form)
	var verr domain.ValidationErrors
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr, "phone")
	assert.Contains(t, verr, "email")
	assert.Contains(t, verr, "date")

	_, err = env.kv.Get(ctx, store.AppointmentsKey.Name())
	assert.ErrorIs(t, err, store.ErrMiss)
	assert.Empty(t, env.publisher.events)
}

func TestAppointmentService_ListSorted(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	first := validForm()
	second := validForm()
	second.Date, second.Time = "2025-01-19", "08:00"

	_, err := env.appointments.Book(ctx, first)
	require.NoError(t, err)
	_, err = env.appointments.Book(ctx, second)
	require.NoError(t, err)

	list, err := env.appointments.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2025-01-19", list[0].Date)
	assert.Equal(t, "2025-01-20", list[1].Date)
}

func TestAppointmentService_UniqueIDs(t *testing.T) {
	env := newTestEnv(t)
	env.appointments.newID = uuid.NewString

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		appt, err := env.appointments.Book(context.Background(), validForm())
		require.NoError(t, err)
		assert.False(t, seen[appt.ID], "duplicate id %s", appt.ID)
		seen[appt.ID] = true
	}
}
