package service

import (
	"context"
	"time"

	"healthsync/internal/domain"
)

// DashboardService assembles the summary screen from the other services
type DashboardService struct {
	reports      *ReportService
	appointments *AppointmentService
	devices      *DeviceService
	now          func() time.Time
}

func NewDashboardService(reports *ReportService, appointments *AppointmentService, devices *DeviceService) *DashboardService {
	return &DashboardService{
		reports:      reports,
		appointments: appointments,
		devices:      devices,
		now:          time.Now,
	}
}

// Summary returns recent reports, labelled upcoming appointments and the paired device
func (s *DashboardService) Summary(ctx context.Context) (*domain.Dashboard, error) {
	recent, err := s.reports.Recent(ctx)
	if err != nil {
		return nil, err
	}
	appts, err := s.appointments.List(ctx)
	if err != nil {
		return nil, err
	}
	device, err := s.devices.Connected(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.Dashboard{
		RecentReports: recent,
		Appointments:  domain.BuildAppointmentViews(appts, s.now()),
		Device:        device,
	}, nil
}
