package domain

import "time"

// ConnectedDevice is the paired-device singleton.
// Name is nullable, as reported by the scanner.
type ConnectedDevice struct {
	ID          string  `json:"id"`
	Name        *string `json:"name"`
	IsConnected bool    `json:"isConnected"`
}

// DisplayName returns the name or "Unknown Device"
func (d ConnectedDevice) DisplayName() string {
	if d.Name == nil || *d.Name == "" {
		return "Unknown Device"
	}
	return *d.Name
}

// VitalSigns is one generated reading; never persisted
type VitalSigns struct {
	HeartRate int       `json:"heartRate"`
	SpO2      int       `json:"spO2"`
	Timestamp time.Time `json:"timestamp"`
}

// Vital-sign bounds, lower inclusive, upper exclusive
const (
	HeartRateMin = 60
	HeartRateMax = 100
	SpO2Min      = 95
	SpO2Max      = 100
)
