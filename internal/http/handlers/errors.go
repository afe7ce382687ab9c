// Package handlers defines the user-facing error messages used across all API
// endpoints.
//
// The messages are part of the external contract: clients branch on the 404
// message for settings lookups, so it must stay byte-stable. Server-side
// failures deliberately share one generic message; whatever the storage layer
// reported is logged with the request ID, never echoed to the client.
package handlers

const (
	// MsgSettingsNotFound is returned for reads and replaces of unknown ids.
	// Deletes never produce it: removing an absent id is a success.
	MsgSettingsNotFound = "Settings not found"

	// MsgInvalidJSON is returned when a request body is not syntactically
	// valid JSON.
	MsgInvalidJSON = "Invalid JSON body"

	// MsgInternal is the opaque message for any storage-layer failure.
	MsgInternal = "Internal server error"

	// MsgRouteNotFound and MsgMethodNotAllowed cover the router fallbacks.
	MsgRouteNotFound    = "Route not found"
	MsgMethodNotAllowed = "Method not allowed"
)
