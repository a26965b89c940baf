package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatFileSize(t *testing.T) {
	assert.Equal(t, "0 Bytes", FormatFileSize(0))
	assert.Equal(t, "512 Bytes", FormatFileSize(512))
	assert.Equal(t, "1.5 KB", FormatFileSize(1536))
	assert.Equal(t, "1 MB", FormatFileSize(1048576))
	assert.Equal(t, "1.23 MB", FormatFileSize(1289748))
	assert.Equal(t, "2048 GB", FormatFileSize(2*1024*1024*1024*1024))
}

func TestSortAppointments_Ascending(t *testing.T) {
	appts := []Appointment{
		{ID: "late", Date: "2025-01-20", Time: "09:00"},
		{ID: "broken", Date: "someday", Time: "09:00"},
		{ID: "early", Date: "2025-01-19", Time: "08:00"},
	}

	sorted := SortAppointments(appts)

	assert.Equal(t, "early", sorted[0].ID)
	assert.Equal(t, "late", sorted[1].ID)
	assert.Equal(t, "broken", sorted[2].ID)
	assert.Equal(t, "late", appts[0].ID, "input is not reordered")
}

func TestFormatAppointmentDateTime(t *testing.T) {
	now := time.Date(2025, 1, 19, 22, 30, 0, 0, time.UTC)

	assert.Equal(t, "Today, 23:00", FormatAppointmentDateTime("2025-01-19", "23:00", now))
	assert.Equal(t, "Tomorrow, 10:00", FormatAppointmentDateTime("2025-01-20", "10:00", now))
	assert.Equal(t, "2025-01-21, 10:00", FormatAppointmentDateTime("2025-01-21", "10:00", now))
	assert.Equal(t, "2025-01-18, 10:00", FormatAppointmentDateTime("2025-01-18", "10:00", now))
	assert.Equal(t, "soon, 10:00", FormatAppointmentDateTime("soon", "10:00", now))
}

func TestFormatAppointmentDateTime_MonthBoundary(t *testing.T) {
	now := time.Date(2025, 1, 31, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, "Tomorrow, 08:15", FormatAppointmentDateTime("2025-02-01", "08:15", now))
}

func TestBuildAppointmentViews_JoinsDoctor(t *testing.T) {
	now := time.Date(2025, 1, 19, 7, 0, 0, 0, time.UTC)
	views := BuildAppointmentViews([]Appointment{
		{ID: "b", Doctor: "3", Date: "2025-01-20", Time: "09:00"},
		{ID: "a", Doctor: "1", Date: "2025-01-19", Time: "08:00"},
	}, now)

	assert.Len(t, views, 2)
	assert.Equal(t, "a", views[0].ID)
	assert.Equal(t, "Dr. Sarah Johnson", views[0].DoctorName)
	assert.Equal(t, "Today, 08:00", views[0].When)
	assert.Equal(t, "Neurologist", views[1].Specialization)
	assert.Equal(t, "Tomorrow, 09:00", views[1].When)
}

func TestConnectedDevice_DisplayName(t *testing.T) {
	name := "Firebolt 093"
	assert.Equal(t, "Firebolt 093", ConnectedDevice{Name: &name}.DisplayName())
	assert.Equal(t, "Unknown Device", ConnectedDevice{}.DisplayName())
}
