// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import (
	"strconv"
	"strings"
)

// IntParam converts a query-string value to an int for pagination parameters.
// Plain integers parse directly; values with a decimal point truncate toward
// zero ("2.9" → 2, "-1.5" → -1); anything else (missing, empty, non-numeric)
// falls back to the provided default.
func IntParam(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return def
}
