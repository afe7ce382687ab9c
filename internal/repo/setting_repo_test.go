package repo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/avelis/go-settings-backend/internal/domain"
)

func newSettingRepoDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("setting_repo_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// Ensure the file handle is released before TempDir cleanup (Windows needs this).
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func TestCreateSetting_Error_NoTable(t *testing.T) {
	db := newSettingRepoDB(t /* no migrations */)
	s, err := CreateSetting(context.Background(), db, json.RawMessage(`{}`))
	if err == nil || s != nil {
		t.Fatalf("expected error creating without table, got setting=%v err=%v", s, err)
	}
}

func TestCreateSetting_Success_PersistsAndSetsFields(t *testing.T) {
	db := newSettingRepoDB(t, &domain.Setting{})

	payload := json.RawMessage(`{"theme":"dark","retries":null}`)
	start := time.Now().UTC().Add(-time.Minute)
	s, err := CreateSetting(context.Background(), db, payload)
	if err != nil {
		t.Fatalf("CreateSetting: %v", err)
	}
	if s.ID == "" {
		t.Fatalf("expected generated id, got %+v", s)
	}
	if s.CreatedAt.Before(start) {
		t.Fatalf("CreatedAt seems unset/really old: %v", s.CreatedAt)
	}
	if !s.UpdatedAt.Equal(s.CreatedAt) {
		t.Fatalf("UpdatedAt %v != CreatedAt %v on create", s.UpdatedAt, s.CreatedAt)
	}
	// round-trip
	got, err := GetSetting(context.Background(), db, s.ID)
	if err != nil {
		t.Fatalf("load created setting: %v", err)
	}
	if !bytes.Equal(got.Data, payload) {
		t.Fatalf("round-trip data = %s; want %s", got.Data, payload)
	}
}

func TestGetSetting_NotFound(t *testing.T) {
	db := newSettingRepoDB(t, &domain.Setting{})
	_, err := GetSetting(context.Background(), db, "missing-id")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListSettingsPage_OrderAndWindow(t *testing.T) {
	db := newSettingRepoDB(t, &domain.Setting{})

	// Seed with known CreatedAt so order is deterministic.
	base := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	ids := []string{"s1", "s2", "s3", "s4"}
	for i, id := range ids {
		s := domain.Setting{
			ID:        id,
			Data:      json.RawMessage(fmt.Sprintf(`{"n":%d}`, i)),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
			UpdatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		if err := db.Create(&s).Error; err != nil {
			t.Fatalf("seed %s: %v", id, err)
		}
	}

	page, err := ListSettingsPage(context.Background(), db, 0, 2)
	if err != nil {
		t.Fatalf("ListSettingsPage: %v", err)
	}
	if len(page) != 2 || page[0].ID != "s4" || page[1].ID != "s3" {
		t.Fatalf("first page = %+v; want [s4 s3]", page)
	}

	page, err = ListSettingsPage(context.Background(), db, 2, 2)
	if err != nil {
		t.Fatalf("ListSettingsPage offset 2: %v", err)
	}
	if len(page) != 2 || page[0].ID != "s2" || page[1].ID != "s1" {
		t.Fatalf("second page = %+v; want [s2 s1]", page)
	}

	// Far past the end: empty slice, not an error.
	page, err = ListSettingsPage(context.Background(), db, 100, 2)
	if err != nil || len(page) != 0 {
		t.Fatalf("out-of-range page = %v err = %v; want empty, nil", page, err)
	}
}

func TestCountSettings(t *testing.T) {
	db := newSettingRepoDB(t, &domain.Setting{})

	n, err := CountSettings(context.Background(), db)
	if err != nil || n != 0 {
		t.Fatalf("empty count = %d err = %v; want 0, nil", n, err)
	}
	for i := 0; i < 3; i++ {
		if _, err := CreateSetting(context.Background(), db, json.RawMessage(`{}`)); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	n, err = CountSettings(context.Background(), db)
	if err != nil || n != 3 {
		t.Fatalf("count = %d err = %v; want 3, nil", n, err)
	}
}

func TestReplaceSettingData_FullReplaceKeepsCreatedAt(t *testing.T) {
	db := newSettingRepoDB(t, &domain.Setting{})

	created, err := CreateSetting(context.Background(), db, json.RawMessage(`{"a":1,"b":2}`))
	if err != nil {
		t.Fatalf("CreateSetting: %v", err)
	}

	time.Sleep(10 * time.Millisecond) // let UpdatedAt move
	next := json.RawMessage(`{"c":3}`)
	updated, err := ReplaceSettingData(context.Background(), db, created.ID, next)
	if err != nil {
		t.Fatalf("ReplaceSettingData: %v", err)
	}
	if !bytes.Equal(updated.Data, next) {
		t.Fatalf("data = %s; want %s (replace is total, never merged)", updated.Data, next)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("CreatedAt changed on replace: %v -> %v", created.CreatedAt, updated.CreatedAt)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Fatalf("UpdatedAt not bumped: %v -> %v", created.UpdatedAt, updated.UpdatedAt)
	}
}

func TestReplaceSettingData_NotFound_NeverUpserts(t *testing.T) {
	db := newSettingRepoDB(t, &domain.Setting{})

	_, err := ReplaceSettingData(context.Background(), db, "ghost", json.RawMessage(`{}`))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	n, _ := CountSettings(context.Background(), db)
	if n != 0 {
		t.Fatalf("replace of missing id created a row (count=%d)", n)
	}
}

func TestDeleteSetting_Idempotent(t *testing.T) {
	db := newSettingRepoDB(t, &domain.Setting{})

	s, err := CreateSetting(context.Background(), db, json.RawMessage(`{"x":true}`))
	if err != nil {
		t.Fatalf("CreateSetting: %v", err)
	}

	if err := DeleteSetting(context.Background(), db, s.ID); err != nil {
		t.Fatalf("delete existing: %v", err)
	}
	if _, err := GetSetting(context.Background(), db, s.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	// Repeat deletes and deletes of never-created ids are successes.
	if err := DeleteSetting(context.Background(), db, s.ID); err != nil {
		t.Fatalf("repeat delete: %v", err)
	}
	if err := DeleteSetting(context.Background(), db, "never-existed"); err != nil {
		t.Fatalf("delete of unknown id: %v", err)
	}
}
