package store

import "healthsync/internal/domain"

// Persisted keys. The names are the on-disk schema shared with the mobile app.
var (
	AppointmentsKey    = NewKey[[]domain.Appointment]("appointments")
	ReportsKey         = NewKey[[]domain.UploadedFile]("@healthsync_reports")
	RecentReportsKey   = NewKey[[]domain.RecentReport]("@healthsync_recent_reports")
	ConnectedDeviceKey = NewKey[domain.ConnectedDevice]("@healthsync_connected_device")
)

// Secure-tier keys
var (
	BiometricEnabledKey = NewKeyWithCodec[bool]("biometricEnabled", FlagCodec{})
	UserEmailKey        = NewKeyWithCodec[string]("userEmail", StringCodec{})
)
