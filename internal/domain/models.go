// Package domain defines the persistence model for stored settings documents.
// The type is mapped with GORM and forms the core data layer of the settings
// store.
package domain

import (
	"encoding/json"
	"time"
)

// Setting represents one stored JSON document. The payload is opaque to the
// service: it is persisted as serialized text and returned to clients exactly
// as submitted, without interpretation beyond "is valid JSON".
//
// Fields:
//   - ID: stable UUID primary key (char(36)); generated server-side, never reused.
//   - Data: the raw JSON payload as submitted by the client.
//   - CreatedAt: set once at creation, immutable afterwards.
//   - UpdatedAt: set at creation, overwritten on every full replace.
//
// There is no soft deletion, versioning, or audit trail; DELETE removes the
// row outright.
type Setting struct {
	ID        string          `json:"id"        gorm:"type:char(36);primaryKey"`
	Data      json.RawMessage `json:"data"      gorm:"type:text;not null"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// TableName returns the database table name for Setting.
func (Setting) TableName() string { return "settings" }
