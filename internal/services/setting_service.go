// Package services – SettingService
//
// This file implements the SettingService, which manages the lifecycle of
// stored settings documents. It coordinates repository operations for
// creating, reading, listing (with pagination), replacing, and deleting
// settings. Payloads are opaque JSON: the service never inspects or merges
// them, and replace semantics are total.
//
// Service-level errors (e.g., ErrSettingNotFound) are returned for predictable
// cases so handlers can map them to HTTP results consistently.
package services

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/gorm"

	"github.com/avelis/go-settings-backend/internal/domain"
)

// SettingRepo defines the repository contract required by SettingService.
// Implementations are responsible for persistence of setting records.
type SettingRepo interface {
	// CreateSetting inserts a new setting row holding the raw payload.
	CreateSetting(ctx context.Context, db *gorm.DB, data json.RawMessage) (*domain.Setting, error)

	// GetSetting fetches a setting by id.
	GetSetting(ctx context.Context, db *gorm.DB, id string) (*domain.Setting, error)

	// CountSettings returns the total number of settings for pagination.
	CountSettings(ctx context.Context, db *gorm.DB) (int64, error)

	// ListSettingsPage returns a window of settings ordered newest first.
	ListSettingsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Setting, error)

	// ReplaceSettingData overwrites a setting's payload wholesale.
	ReplaceSettingData(ctx context.Context, db *gorm.DB, id string, data json.RawMessage) (*domain.Setting, error)

	// DeleteSetting removes a setting; missing ids are a no-op.
	DeleteSetting(ctx context.Context, db *gorm.DB, id string) error
}

// SettingService provides setting-level operations over an injected DB handle
// and repository. Keeping the store injected (rather than a process-wide
// singleton) gives each test run an isolated in-memory instance.
type SettingService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the setting repository used by this service.
	Repo SettingRepo
}

// NewSettingService constructs a SettingService bound to db and r.
func NewSettingService(db *gorm.DB, r SettingRepo) *SettingService {
	return &SettingService{DB: db, Repo: r}
}

// Create stores a new setting from the given raw JSON payload and returns the
// full record (id and both timestamps assigned). Any syntactically valid JSON
// value is accepted, including an empty object and explicit nulls.
func (s *SettingService) Create(ctx context.Context, data json.RawMessage) (*domain.Setting, error) {
	return s.Repo.CreateSetting(ctx, s.DB, data)
}

// Get returns the setting with the given id, or ErrSettingNotFound.
func (s *SettingService) Get(ctx context.Context, id string) (*domain.Setting, error) {
	rec, err := s.Repo.GetSetting(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}
		return nil, err
	}
	return rec, nil
}

// ListPage returns a page of settings (newest first) and the total count.
// Page and limit are floored to 1; a page far past the end yields an empty
// slice, never an error.
func (s *SettingService) ListPage(ctx context.Context, page, limit int) ([]domain.Setting, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	offset := (page - 1) * limit

	total, err := s.Repo.CountSettings(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Setting{}, 0, nil
	}

	items, err := s.Repo.ListSettingsPage(ctx, s.DB, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	if items == nil {
		items = []domain.Setting{}
	}
	return items, total, nil
}

// Replace overwrites the payload of an existing setting wholesale and bumps
// its UpdatedAt. It returns ErrSettingNotFound for unknown ids; a replace
// never creates a record.
func (s *SettingService) Replace(ctx context.Context, id string, data json.RawMessage) (*domain.Setting, error) {
	rec, err := s.Repo.ReplaceSettingData(ctx, s.DB, id, data)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}
		return nil, err
	}
	return rec, nil
}

// Delete removes the setting with the given id. Missing ids succeed: repeated
// deletes are indistinguishable from the first.
func (s *SettingService) Delete(ctx context.Context, id string) error {
	return s.Repo.DeleteSetting(ctx, s.DB, id)
}
