package service

import (
	"context"
	"sync"
)

// BiometricResult is the outcome of one challenge
type BiometricResult int

const (
	BiometricSuccess BiometricResult = iota
	BiometricFailure
	BiometricCancelled
)

func (r BiometricResult) String() string {
	switch r {
	case BiometricSuccess:
		return "success"
	case BiometricCancelled:
		return "cancelled"
	default:
		return "failure"
	}
}

// Biometric is the platform's biometric capability
type Biometric interface {
	HasHardware(ctx context.Context) (bool, error)
	IsEnrolled(ctx context.Context) (bool, error)
	Authenticate(ctx context.Context, prompt string) (BiometricResult, error)
}

// StaticBiometric answers every call from configuration. Used for headless runs and tests.
type StaticBiometric struct {
	mu       sync.RWMutex
	hardware bool
	enrolled bool
	result   BiometricResult
}

func NewStaticBiometric(hardware, enrolled bool, result BiometricResult) *StaticBiometric {
	return &StaticBiometric{hardware: hardware, enrolled: enrolled, result: result}
}

func (b *StaticBiometric) HasHardware(context.Context) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.hardware, nil
}

func (b *StaticBiometric) IsEnrolled(context.Context) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.enrolled, nil
}

func (b *StaticBiometric) Authenticate(ctx context.Context, _ string) (BiometricResult, error) {
	if err := ctx.Err(); err != nil {
		return BiometricCancelled, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.result, nil
}

// SetResult changes the outcome of the next challenges
func (b *StaticBiometric) SetResult(r BiometricResult) {
	b.mu.Lock()
	b.result = r
	b.mu.Unlock()
}

// ParseBiometricResult maps "success", "failure" or "cancelled"; anything else is failure
func ParseBiometricResult(s string) BiometricResult {
	switch s {
	case "success":
		return BiometricSuccess
	case "cancelled", "cancel":
		return BiometricCancelled
	default:
		return BiometricFailure
	}
}
