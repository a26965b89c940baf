package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"healthsync/internal/domain"
	"healthsync/internal/events"
	"healthsync/internal/repository"
)

// Biometric prompts
const (
	promptLogin    = "Login with Biometrics"
	promptRegister = "Register with Biometrics"
)

// Credential is one account allowed to log in
type Credential struct {
	Account  string `yaml:"account"`
	Password string `yaml:"password"`
}

// AuthService checks the demo credentials and manages biometric unlock.
// Password checks compare:
// - accountPasswordHash = sha256(lower(account) + ":" + password)
type AuthService struct {
	hashes    []string
	creds     repository.CredentialsRepository
	biometric Biometric
	publisher events.Publisher
	logger    *zap.Logger
}

func NewAuthService(accounts []Credential, creds repository.CredentialsRepository, biometric Biometric, publisher events.Publisher, logger *zap.Logger) *AuthService {
	hashes := make([]string, 0, len(accounts))
	for _, a := range accounts {
		hashes = append(hashes, HashAccountPassword(a.Account, a.Password))
	}
	return &AuthService{
		hashes:    hashes,
		creds:     creds,
		biometric: biometric,
		publisher: publisher,
		logger:    logger,
	}
}

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func normalizeAccount(account string) string {
	return strings.ToLower(strings.TrimSpace(account))
}

func HashAccountPassword(account, password string) string {
	return sha256Hex(normalizeAccount(account) + ":" + password)
}

// LoginResult tells the client whether to offer biometric opt-in
type LoginResult struct {
	Email          string `json:"email"`
	OfferBiometric bool   `json:"offerBiometric"`
}

// BiometricStatus is what the login screen needs on start
type BiometricStatus struct {
	Supported bool   `json:"supported"`
	Enrolled  bool   `json:"enrolled"`
	Enabled   bool   `json:"enabled"`
	Email     string `json:"email,omitempty"`
}

func (s *AuthService) Login(ctx context.Context, account, password string) (*LoginResult, error) {
	want := HashAccountPassword(account, password)
	ok := false
	for _, h := range s.hashes {
		if subtle.ConstantTimeCompare([]byte(h), []byte(want)) == 1 {
			ok = true
		}
	}
	if !ok {
		s.logger.Info("Login rejected", zap.String("account_hash", sha256Hex(normalizeAccount(account))))
		return nil, ErrInvalidCredentials
	}

	res := &LoginResult{Email: strings.TrimSpace(account)}
	status, err := s.BiometricStatus(ctx)
	if err != nil {
		s.logger.Warn("Failed to check biometric settings", zap.Error(err))
		return res, nil
	}
	res.OfferBiometric = status.Supported && !status.Enabled
	return res, nil
}

func (s *AuthService) BiometricStatus(ctx context.Context) (*BiometricStatus, error) {
	supported, err := s.biometric.HasHardware(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check biometric hardware: %w", err)
	}
	status := &BiometricStatus{Supported: supported}
	if !supported {
		return status, nil
	}
	if status.Enrolled, err = s.biometric.IsEnrolled(ctx); err != nil {
		return nil, fmt.Errorf("failed to check biometric enrollment: %w", err)
	}
	if status.Enabled, err = s.creds.BiometricEnabled(ctx); err != nil {
		return nil, fmt.Errorf("failed to load biometric settings: %w", err)
	}
	if status.Enabled {
		email, _, err := s.creds.StoredEmail(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load biometric settings: %w", err)
		}
		status.Email = email
	}
	return status, nil
}

// challenge checks hardware and enrollment then runs one prompt
func (s *AuthService) challenge(ctx context.Context, prompt string) error {
	supported, err := s.biometric.HasHardware(ctx)
	if err != nil {
		return fmt.Errorf("failed to check biometric hardware: %w", err)
	}
	if !supported {
		return ErrBiometricUnavailable
	}
	enrolled, err := s.biometric.IsEnrolled(ctx)
	if err != nil {
		return fmt.Errorf("failed to check biometric enrollment: %w", err)
	}
	if !enrolled {
		return ErrBiometricNotEnrolled
	}

	result, err := s.biometric.Authenticate(ctx, prompt)
	if err != nil {
		return fmt.Errorf("biometric authentication error: %w", err)
	}
	switch result {
	case BiometricSuccess:
		return nil
	case BiometricCancelled:
		return ErrBiometricCancelled
	default:
		return ErrBiometricFailed
	}
}

// EnableBiometric runs the registration challenge and stores the opt-in
func (s *AuthService) EnableBiometric(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.ValidationErrors{"email": "Email is required"}
	}
	if err := s.challenge(ctx, promptRegister); err != nil {
		return err
	}
	if err := s.creds.EnableBiometric(ctx, email); err != nil {
		return fmt.Errorf("failed to save biometric settings: %w", err)
	}

	s.logger.Info("Biometric login enabled")
	events.Emit(ctx, s.publisher, s.logger, events.New(events.TypeBiometricEnabled, "", ""))
	return nil
}

// BiometricLogin runs the login challenge and returns the stored email
func (s *AuthService) BiometricLogin(ctx context.Context) (string, error) {
	enabled, err := s.creds.BiometricEnabled(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load biometric settings: %w", err)
	}
	if !enabled {
		return "", ErrBiometricNotEnabled
	}
	if err := s.challenge(ctx, promptLogin); err != nil {
		return "", err
	}
	email, _, err := s.creds.StoredEmail(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load biometric settings: %w", err)
	}
	return email, nil
}

func (s *AuthService) DisableBiometric(ctx context.Context) error {
	if err := s.creds.DisableBiometric(ctx); err != nil {
		return fmt.Errorf("failed to save biometric settings: %w", err)
	}
	s.logger.Info("Biometric login disabled")
	events.Emit(ctx, s.publisher, s.logger, events.New(events.TypeBiometricDisabled, "", ""))
	return nil
}
