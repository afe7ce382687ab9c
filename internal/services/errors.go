// Package services defines the business logic for the settings store.
// This file centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and translation
// into user-facing messages or HTTP status codes should be performed at the
// handler layer.
package services

import "errors"

var (
	// ErrSettingNotFound indicates that the requested setting does not exist.
	// Read and replace surface it; delete deliberately never does.
	ErrSettingNotFound = errors.New("setting not found")
)
