package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardService_Summary(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	dash := NewDashboardService(env.reports, env.appointments, env.devices)
	dash.now = func() time.Time { return fixedNow }

	upload(t, env, "ecg.pdf", "x")
	later := validForm()
	sooner := validForm()
	sooner.Date, sooner.Time, sooner.Doctor = "2025-01-19", "15:00", "3"
	_, err := env.appointments.Book(ctx, later)
	require.NoError(t, err)
	_, err = env.appointments.Book(ctx, sooner)
	require.NoError(t, err)

	summary, err := dash.Summary(ctx)
	require.NoError(t, err)

	require.Len(t, summary.RecentReports, 1)
	assert.Equal(t, "ecg.pdf", summary.RecentReports[0].Name)

	require.Len(t, summary.Appointments, 2)
	assert.Equal(t, "Today, 15:00", summary.Appointments[0].When)
	assert.Equal(t, "Dr. Emily Williams", summary.Appointments[0].DoctorName)
	assert.Equal(t, "Tomorrow, 09:00", summary.Appointments[1].When)
	assert.Equal(t, "Cardiologist", summary.Appointments[1].Specialization)
	assert.Nil(t, summary.Device)

	_, err = env.devices.Connect(ctx, "1")
	require.NoError(t, err)
	summary, err = dash.Summary(ctx)
	require.NoError(t, err)
	require.NotNil(t, summary.Device)
	assert.True(t, summary.Device.IsConnected)
}
