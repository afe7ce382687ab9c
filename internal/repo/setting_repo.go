// Package repo implements the data persistence layer for the settings store,
// backed by GORM. This file provides repository functions for the Setting model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a setting is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
//   - DeleteSetting never reports a missing row as an error; removal of an
//     absent id is a successful no-op.
//
// This repository is designed to be wrapped by a higher-level service
// (see services.SettingService) which enforces pagination rules and maps
// errors for the transport layer.
package repo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avelis/go-settings-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateSetting inserts a new Setting row holding the given raw JSON payload.
// The id is a randomly generated UUID (string); CreatedAt and UpdatedAt are
// both set to the same UTC instant.
//
// On success, it returns the persisted Setting. On failure, it returns a DB error.
func CreateSetting(ctx context.Context, db *gorm.DB, data json.RawMessage) (*domain.Setting, error) {
	now := time.Now().UTC()
	s := &domain.Setting{
		ID:        uuid.NewString(),
		Data:      data,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

// GetSetting fetches a single setting by its id. If the record does not
// exist, it returns ErrNotFound. On other DB errors, the raw error is returned.
func GetSetting(ctx context.Context, db *gorm.DB, id string) (*domain.Setting, error) {
	var s domain.Setting
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CountSettings returns the total number of stored settings.
// On DB error, it returns the error.
func CountSettings(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Setting{}).
		Count(&total).Error
	return total, err
}

// ListSettingsPage returns a paginated slice of settings ordered by creation
// time descending (most recent first), with id as a deterministic tiebreak so
// OFFSET pagination never skips or repeats rows on equal timestamps. Use
// CountSettings to obtain the total for pagination metadata. On DB error, it
// returns the error.
//
// The caller is responsible for computing offset and limit (e.g., (page-1)*limit).
func ListSettingsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Setting, error) {
	var out []domain.Setting
	err := db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// ReplaceSettingData overwrites the payload of the setting identified by id
// and bumps UpdatedAt; id and CreatedAt are untouched. The payload is replaced
// wholesale, never merged. If no row with that id exists, it returns
// ErrNotFound without creating one (replace, never upsert). On success, the
// refreshed record is returned.
func ReplaceSettingData(ctx context.Context, db *gorm.DB, id string, data json.RawMessage) (*domain.Setting, error) {
	res := db.WithContext(ctx).
		Model(&domain.Setting{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"data":       []byte(data),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return GetSetting(ctx, db, id)
}

// DeleteSetting removes the setting identified by id. Deletion is idempotent:
// deleting an id that does not exist (or was already deleted) succeeds and is
// indistinguishable from deleting a live row. Only genuine DB errors are
// returned.
func DeleteSetting(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&domain.Setting{}).Error
}
