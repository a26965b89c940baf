package repository

import (
	"context"

	"healthsync/internal/store"
)

// SecureRepository keeps credential flags in the secure-storage tier
type SecureRepository struct {
	records *store.RecordStore
}

func NewSecureRepository(records *store.RecordStore) *SecureRepository {
	return &SecureRepository{records: records}
}

// BiometricEnabled is false when the flag was never written
func (r *SecureRepository) BiometricEnabled(ctx context.Context) (bool, error) {
	enabled, _, err := store.Read(ctx, r.records, store.BiometricEnabledKey)
	return enabled, err
}

func (r *SecureRepository) StoredEmail(ctx context.Context) (string, bool, error) {
	return store.Read(ctx, r.records, store.UserEmailKey)
}

// EnableBiometric writes the flag then the email; the two keys are independent writes.
func (r *SecureRepository) EnableBiometric(ctx context.Context, email string) error {
	if err := store.Write(ctx, r.records, store.BiometricEnabledKey, true); err != nil {
		return err
	}
	return store.Write(ctx, r.records, store.UserEmailKey, email)
}

func (r *SecureRepository) DisableBiometric(ctx context.Context) error {
	if err := store.Write(ctx, r.records, store.BiometricEnabledKey, false); err != nil {
		return err
	}
	return store.Remove(ctx, r.records, store.UserEmailKey)
}
