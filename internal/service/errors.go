package service

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrNotConnected        = errors.New("no device connected")
	ErrUnsupportedFileType = errors.New("only PDF and image files can be uploaded")

	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrBiometricUnavailable = errors.New("biometric authentication is not supported on this device")
	ErrBiometricNotEnrolled = errors.New("biometric record not found")
	ErrBiometricNotEnabled  = errors.New("biometric login is not enabled")
	ErrBiometricCancelled   = errors.New("biometric authentication cancelled")
	ErrBiometricFailed      = errors.New("biometric authentication failed")
)
