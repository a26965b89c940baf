package domain

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

// AppointmentStatusConfirmed is the only status an appointment ever has
const AppointmentStatusConfirmed = "confirmed"

// Appointment is a booked visit. No update or cancel path exists.
type Appointment struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Doctor    string `json:"doctor"` // Doctor.ID
	Date      string `json:"date"`   // YYYY-MM-DD
	Time      string `json:"time"`   // HH:MM
	Reason    string `json:"reason"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"` // RFC 3339
}

// AppointmentForm is the user-submitted booking form
type AppointmentForm struct {
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Email  string `json:"email"`
	Doctor string `json:"doctor"`
	Date   string `json:"date"`
	Time   string `json:"time"`
	Reason string `json:"reason"`
}

var (
	phonePattern = regexp.MustCompile(`^\d{10}$`)
	emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)
	datePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern  = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"
)

// ValidationErrors maps a form field to its message
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+v[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validate checks every field and returns nil when the form is bookable.
func (f AppointmentForm) Validate() ValidationErrors {
	errs := ValidationErrors{}

	if strings.TrimSpace(f.Name) == "" {
		errs["name"] = "Name is required"
	}

	phone := strings.TrimSpace(f.Phone)
	switch {
	case phone == "":
		errs["phone"] = "Phone number is required"
	case !phonePattern.MatchString(phone):
		errs["phone"] = "Enter a valid 10-digit phone number"
	}

	switch {
	case strings.TrimSpace(f.Email) == "":
		errs["email"] = "Email is required"
	case !emailPattern.MatchString(f.Email):
		errs["email"] = "Enter a valid email address"
	}

	if f.Doctor == "" {
		errs["doctor"] = "Please select a doctor"
	} else if _, ok := FindDoctor(f.Doctor); !ok {
		errs["doctor"] = "Please select a doctor"
	}

	switch {
	case f.Date == "":
		errs["date"] = "Please select a date"
	case !datePattern.MatchString(f.Date):
		errs["date"] = "Please enter date in YYYY-MM-DD format"
	default:
		if _, err := time.Parse(dateLayout, f.Date); err != nil {
			errs["date"] = "Please enter a valid calendar date"
		}
	}

	switch {
	case f.Time == "":
		errs["time"] = "Please select a time"
	case !timePattern.MatchString(f.Time):
		errs["time"] = "Please enter time in HH:MM format"
	}

	if strings.TrimSpace(f.Reason) == "" {
		errs["reason"] = "Reason for visit is required"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ScheduledAt parses date+time in loc.
func (a Appointment) ScheduledAt(loc *time.Location) (time.Time, bool) {
	t, err := time.ParseInLocation(dateTimeLayout, a.Date+" "+a.Time, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
