package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"healthsync/internal/domain"
	"healthsync/internal/events"
	"healthsync/internal/repository"
)

// Simulated radio delays
const (
	DefaultScanDelay    = 2 * time.Second
	DefaultConnectDelay = 1 * time.Second
)

// MockDeviceName is the only device the scanner ever finds
const MockDeviceName = "Firebolt 093"

// DeviceService pairs the mock wearable and serves its readings
type DeviceService struct {
	repo      repository.DeviceRepository
	vitals    *VitalsGenerator
	publisher events.Publisher
	logger    *zap.Logger

	scanDelay    time.Duration
	connectDelay time.Duration
}

// DeviceServiceConfig holds the simulated delays; zero means the default, negative means none
type DeviceServiceConfig struct {
	ScanDelay    time.Duration
	ConnectDelay time.Duration
}

func NewDeviceService(repo repository.DeviceRepository, vitals *VitalsGenerator, publisher events.Publisher, cfg DeviceServiceConfig, logger *zap.Logger) *DeviceService {
	s := &DeviceService{
		repo:         repo,
		vitals:       vitals,
		publisher:    publisher,
		logger:       logger,
		scanDelay:    cfg.ScanDelay,
		connectDelay: cfg.ConnectDelay,
	}
	if s.scanDelay == 0 {
		s.scanDelay = DefaultScanDelay
	}
	if s.connectDelay == 0 {
		s.connectDelay = DefaultConnectDelay
	}
	return s
}

func mockDevices() []domain.ConnectedDevice {
	name := MockDeviceName
	return []domain.ConnectedDevice{{ID: "1", Name: &name, IsConnected: false}}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Scan returns the devices in range after the simulated scan delay
func (s *DeviceService) Scan(ctx context.Context) ([]domain.ConnectedDevice, error) {
	if err := sleepCtx(ctx, s.scanDelay); err != nil {
		return nil, err
	}
	return mockDevices(), nil
}

// Connect pairs the device with id and persists it as the connected device
func (s *DeviceService) Connect(ctx context.Context, id string) (*domain.ConnectedDevice, error) {
	var device *domain.ConnectedDevice
	for _, d := range mockDevices() {
		if d.ID == id {
			device = &d
			break
		}
	}
	if device == nil {
		return nil, ErrNotFound
	}

	if err := sleepCtx(ctx, s.connectDelay); err != nil {
		return nil, err
	}

	device.IsConnected = true
	if err := s.repo.SaveConnectedDevice(ctx, *device); err != nil {
		return nil, fmt.Errorf("failed to connect to device: %w", err)
	}

	s.logger.Info("Device connected", zap.String("device_id", device.ID), zap.String("name", device.DisplayName()))
	events.Emit(ctx, s.publisher, s.logger, events.New(events.TypeDeviceConnected, device.ID, device.DisplayName()))
	return device, nil
}

// Disconnect forgets the connected device
func (s *DeviceService) Disconnect(ctx context.Context) error {
	device, err := s.repo.GetConnectedDevice(ctx)
	if err != nil {
		return fmt.Errorf("failed to disconnect device: %w", err)
	}
	if device == nil {
		return ErrNotConnected
	}
	if err := s.repo.ClearConnectedDevice(ctx); err != nil {
		return fmt.Errorf("failed to disconnect device: %w", err)
	}

	s.logger.Info("Device disconnected", zap.String("device_id", device.ID))
	events.Emit(ctx, s.publisher, s.logger, events.New(events.TypeDeviceDisconnected, device.ID, device.DisplayName()))
	return nil
}

// Connected returns the paired device, or nil
func (s *DeviceService) Connected(ctx context.Context) (*domain.ConnectedDevice, error) {
	device, err := s.repo.GetConnectedDevice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load device: %w", err)
	}
	return device, nil
}

// Vitals returns the latest generated reading while a device is connected
func (s *DeviceService) Vitals(ctx context.Context) (*domain.VitalSigns, error) {
	device, err := s.Connected(ctx)
	if err != nil {
		return nil, err
	}
	if device == nil || !device.IsConnected {
		return nil, ErrNotConnected
	}

	v, ok := s.vitals.Latest()
	if !ok {
		v = s.vitals.Generate()
	}
	return &v, nil
}
