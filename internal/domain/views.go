package domain

import (
	"math"
	"sort"
	"strconv"
	"time"
)

// SortAppointments orders ascending by scheduled date-time.
// Entries whose date/time does not parse keep their relative order at the end.
func SortAppointments(appts []Appointment) []Appointment {
	out := make([]Appointment, len(appts))
	copy(out, appts)

	sort.SliceStable(out, func(i, j int) bool {
		ti, okI := out[i].ScheduledAt(time.UTC)
		tj, okJ := out[j].ScheduledAt(time.UTC)
		switch {
		case okI && okJ:
			return ti.Before(tj)
		case okI:
			return true
		default:
			return false
		}
	})
	return out
}

// FormatAppointmentDateTime renders "Today, HH:MM", "Tomorrow, HH:MM" or "YYYY-MM-DD, HH:MM"
// relative to now's calendar day.
func FormatAppointmentDateTime(date, clock string, now time.Time) string {
	at, err := time.ParseInLocation(dateLayout, date, now.Location())
	if err == nil {
		today := truncateDay(now)
		switch truncateDay(at) {
		case today:
			return "Today, " + clock
		case today.AddDate(0, 0, 1):
			return "Tomorrow, " + clock
		}
	}
	return date + ", " + clock
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatFileSize renders bytes in powers of 1024 with at most two decimals.
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}

	i := 0
	value := float64(bytes)
	for value >= 1024 && i < len(sizeUnits)-1 {
		value /= 1024
		i++
	}

	rounded := math.Round(value*100) / 100
	return strconv.FormatFloat(rounded, 'f', -1, 64) + " " + sizeUnits[i]
}

// AppointmentView is an appointment prepared for the dashboard
type AppointmentView struct {
	Appointment
	DoctorName     string `json:"doctorName"`
	Specialization string `json:"specialization"`
	When           string `json:"when"`
}

// BuildAppointmentViews sorts appts and joins the doctor list
func BuildAppointmentViews(appts []Appointment, now time.Time) []AppointmentView {
	sorted := SortAppointments(appts)
	views := make([]AppointmentView, 0, len(sorted))
	for _, a := range sorted {
		v := AppointmentView{
			Appointment: a,
			When:        FormatAppointmentDateTime(a.Date, a.Time, now),
		}
		if d, ok := FindDoctor(a.Doctor); ok {
			v.DoctorName = d.Name
			v.Specialization = d.Specialization
		}
		views = append(views, v)
	}
	return views
}

// Dashboard is the summary screen payload
type Dashboard struct {
	RecentReports []RecentReport    `json:"recentReports"`
	Appointments  []AppointmentView `json:"appointments"`
	Device        *ConnectedDevice  `json:"device"`
}
