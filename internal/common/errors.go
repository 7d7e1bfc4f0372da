// Package common defines shared constants and sentinel errors used across
// the predictupload packages. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Lookup errors.
	ErrNotFound = errors.New("not found")

	// Backend / transport errors.
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrTokenExpired = errors.New("token expired")

	// Presign errors abort the whole upload operation.
	ErrPresignFailed       = errors.New("Failed to get presigned URLs")
	ErrMissingPresignedURL = errors.New("missing presigned URL")

	// Storage PUT errors.
	ErrUploadFailed = errors.New("upload failed")

	// Staging errors.
	ErrFileTooLarge  = errors.New("file too large")
	ErrDuplicateFile = errors.New("file already staged")

	// Orchestration errors.
	ErrNotReady = errors.New("no valid batch staged")
	ErrBusy     = errors.New("upload already in progress")
)
