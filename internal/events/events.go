// Package events publishes user-activity events to an external sink.
package events

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

const (
	TypeReportUploaded     = "report.uploaded"
	TypeReportDeleted      = "report.deleted"
	TypeAppointmentBooked  = "appointment.booked"
	TypeDeviceConnected    = "device.connected"
	TypeDeviceDisconnected = "device.disconnected"
	TypeBiometricEnabled   = "biometric.enabled"
	TypeBiometricDisabled  = "biometric.disabled"
)

// Event is one activity record
type Event struct {
	Type      string    `json:"type"`
	SubjectID string    `json:"subjectId,omitempty"`
	Name      string    `json:"name,omitempty"`
	At        time.Time `json:"at"`
}

func New(typ, subjectID, name string) Event {
	return Event{Type: typ, SubjectID: subjectID, Name: name, At: time.Now().UTC()}
}

func (e Event) payload() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher sends events to a sink
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Emit publishes e and only logs a failure. Activity events never fail the caller.
func Emit(ctx context.Context, p Publisher, logger *zap.Logger, e Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, e); err != nil {
		logger.Warn("Failed to publish activity event",
			zap.String("type", e.Type),
			zap.String("subject_id", e.SubjectID),
			zap.Error(err),
		)
	}
}

// LogPublisher writes events to the logger only
type LogPublisher struct {
	logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, e Event) error {
	p.logger.Info("Activity event",
		zap.String("type", e.Type),
		zap.String("subject_id", e.SubjectID),
		zap.String("name", e.Name),
		zap.Time("at", e.At),
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
