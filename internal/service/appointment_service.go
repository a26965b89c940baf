package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"healthsync/internal/domain"
	"healthsync/internal/events"
	"healthsync/internal/repository"
)

// AppointmentService books and lists appointments
type AppointmentService struct {
	repo      repository.AppointmentsRepository
	publisher events.Publisher
	logger    *zap.Logger

	now   func() time.Time
	newID func() string
}

func NewAppointmentService(repo repository.AppointmentsRepository, publisher events.Publisher, logger *zap.Logger) *AppointmentService {
	return &AppointmentService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Validate returns per-field errors, or nil when the form can be booked
func (s *AppointmentService) Validate(form domain.AppointmentForm) domain.ValidationErrors {
	return form.Validate()
}

// Book validates form and appends one confirmed appointment.
// A validation failure is returned as domain.ValidationErrors and storage is not touched.
func (s *AppointmentService) Book(ctx context.Context, form domain.AppointmentForm) (*domain.Appointment, error) {
	if errs := form.Validate(); errs != nil {
		return nil, errs
	}

	appt := domain.Appointment{
		ID:        s.newID(),
		Name:      strings.TrimSpace(form.Name),
		Phone:     strings.TrimSpace(form.Phone),
		Email:     strings.TrimSpace(form.Email),
		Doctor:    form.Doctor,
		Date:      form.Date,
		Time:      form.Time,
		Reason:    strings.TrimSpace(form.Reason),
		Status:    domain.AppointmentStatusConfirmed,
		CreatedAt: s.now().UTC().Format(time.RFC3339Nano),
	}
	if err := s.repo.AppendAppointment(ctx, appt); err != nil {
		return nil, fmt.Errorf("failed to book appointment: %w", err)
	}

	s.logger.Info("Appointment booked",
		zap.String("appointment_id", appt.ID),
		zap.String("doctor", appt.Doctor),
		zap.String("date", appt.Date),
	)
	events.Emit(ctx, s.publisher, s.logger, events.New(events.TypeAppointmentBooked, appt.ID, appt.Doctor))
	return &appt, nil
}

// List returns every appointment sorted ascending by date and time
func (s *AppointmentService) List(ctx context.Context) ([]domain.Appointment, error) {
	appts, err := s.repo.ListAppointments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load appointments: %w", err)
	}
	return domain.SortAppointments(appts), nil
}

// Doctors returns the static doctor list
func (s *AppointmentService) Doctors() []domain.Doctor {
	return domain.Doctors()
}
