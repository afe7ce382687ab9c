// Settings HTTP handlers.
//
// This file exposes REST endpoints for the settings resource:
//   - POST   /settings      (create)
//   - GET    /settings      (list, paginated)
//   - GET    /settings/:id  (read one)
//   - PUT    /settings/:id  (full replace)
//   - DELETE /settings/:id  (idempotent delete)
//
// Handlers are transport-thin: they validate input, call the application
// service, and translate results into HTTP responses. Payloads are opaque
// JSON; the only body validation anywhere is "parses as JSON".
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avelis/go-settings-backend/internal/domain"
	"github.com/avelis/go-settings-backend/internal/services"
	"github.com/avelis/go-settings-backend/internal/utils"
)

// SettingService defines the settings lifecycle operations consumed by HTTP
// handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type SettingService interface {
	// Create stores a new document and returns the full record.
	Create(ctx context.Context, data json.RawMessage) (*domain.Setting, error)
	// Get returns one record by id, or services.ErrSettingNotFound.
	Get(ctx context.Context, id string) (*domain.Setting, error)
	// ListPage returns a page of records (newest first) and the total count.
	ListPage(ctx context.Context, page, limit int) ([]domain.Setting, int64, error)
	// Replace overwrites a record's payload wholesale, never creating one.
	Replace(ctx context.Context, id string, data json.RawMessage) (*domain.Setting, error)
	// Delete removes a record; missing ids are a silent success.
	Delete(ctx context.Context, id string) error
}

// Handlers groups the HTTP endpoints for the settings resource. It depends on
// an abstract service interface to keep transport concerns separate from
// business logic.
type Handlers struct {
	svc SettingService
}

// New constructs and returns a Handlers instance bound to the given service.
func New(svc SettingService) *Handlers {
	return &Handlers{svc: svc}
}

//
// DTOs
//

// Pagination carries pagination metadata for list responses. All values are
// the effective (defaulted and clamped) ones, not the raw query strings.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// ListSettingsResponse wraps a page of settings and pagination information.
type ListSettingsResponse struct {
	Data       []domain.Setting `json:"data"`
	Pagination Pagination       `json:"pagination"`
}

// UpdateSettingResponse is the body returned by a successful full replace.
type UpdateSettingResponse struct {
	ID        string          `json:"id"`
	Data      json.RawMessage `json:"data"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

//
// Helpers
//

// Pagination query defaults. Missing or non-numeric page/limit values fall
// back to these; this implementation's documented default page size is 10.
const (
	defaultPage  = 1
	defaultLimit = 10
)

// clampPagination parses the page and limit query params, applying defaults
// for unparsable input, truncating decimal values toward zero, and flooring
// both results at 1. Out-of-range values are clamped, never rejected.
func clampPagination(c *gin.Context) (page, limit int) {
	page = utils.IntParam(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	limit = utils.IntParam(c.Query("limit"), defaultLimit)
	if limit < 1 {
		limit = 1
	}
	return
}

// bindRawJSON reads the request body as one arbitrary JSON value. Any
// syntactically valid JSON is accepted — empty objects, explicit nulls,
// scalars, arrays. It returns false (after writing a 400) otherwise.
func bindRawJSON(c *gin.Context) (json.RawMessage, bool) {
	var payload json.RawMessage
	if err := c.ShouldBindJSON(&payload); err != nil {
		fail(c, http.StatusBadRequest, MsgInvalidJSON, err.Error())
		return nil, false
	}
	return payload, true
}

//
// Handlers
//

// CreateSetting godoc
// @ID          createSetting
// @Summary     Store a new settings document
// @Description Accepts any JSON value, assigns a fresh UUID and timestamps, and returns the full record.
// @Tags        Settings
// @Accept      json
// @Produce     json
//
// @Param       body  body  object  true  "Arbitrary JSON payload"
//
// @Success     201  {object}  domain.Setting
// @Failure     400  {object}  handlers.ErrorResponse  "Malformed JSON"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /settings [post]
func (h *Handlers) CreateSetting(c *gin.Context) {
	payload, okBody := bindRawJSON(c)
	if !okBody {
		return
	}

	rec, err := h.svc.Create(c.Request.Context(), payload)
	if err != nil {
		fail(c, http.StatusInternalServerError, MsgInternal, err.Error())
		return
	}
	ok(c, http.StatusCreated, rec)
}

// ListSettings godoc
// @ID          listSettings
// @Summary     List settings (paginated)
// @Description Returns a page of records ordered by creation time descending, with effective pagination metadata. Pages past the end yield an empty data array.
// @Tags        Settings
// @Produce     json
//
// @Param       page   query  int  false  "Page number"      minimum(1) default(1)
// @Param       limit  query  int  false  "Items per page"   minimum(1) default(10)
//
// @Success     200  {object}  handlers.ListSettingsResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /settings [get]
func (h *Handlers) ListSettings(c *gin.Context) {
	page, limit := clampPagination(c)

	items, total, err := h.svc.ListPage(c.Request.Context(), page, limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, MsgInternal, err.Error())
		return
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	if totalPages < 1 {
		// An empty store reports one (empty) page, not zero.
		totalPages = 1
	}

	ok(c, http.StatusOK, ListSettingsResponse{
		Data: items,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	})
}

// GetSetting godoc
// @ID          getSetting
// @Summary     Read one settings document
// @Tags        Settings
// @Produce     json
//
// @Param       id  path  string  true  "Setting ID (UUID)"  format(uuid)
//
// @Success     200  {object}  domain.Setting
// @Failure     404  {object}  handlers.ErrorResponse  "Settings not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /settings/{id} [get]
func (h *Handlers) GetSetting(c *gin.Context) {
	rec, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrSettingNotFound) {
			fail(c, http.StatusNotFound, MsgSettingsNotFound, "")
			return
		}
		fail(c, http.StatusInternalServerError, MsgInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, rec)
}

// UpdateSetting godoc
// @ID          updateSetting
// @Summary     Replace a settings document
// @Description Overwrites the stored payload wholesale (old keys not present in the new payload are gone) and bumps updatedAt. Never creates a record.
// @Tags        Settings
// @Accept      json
// @Produce     json
//
// @Param       id    path  string  true  "Setting ID (UUID)"  format(uuid)
// @Param       body  body  object  true  "Replacement JSON payload"
//
// @Success     200  {object}  handlers.UpdateSettingResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Malformed JSON"
// @Failure     404  {object}  handlers.ErrorResponse  "Settings not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /settings/{id} [put]
func (h *Handlers) UpdateSetting(c *gin.Context) {
	payload, okBody := bindRawJSON(c)
	if !okBody {
		return
	}

	rec, err := h.svc.Replace(c.Request.Context(), c.Param("id"), payload)
	if err != nil {
		if errors.Is(err, services.ErrSettingNotFound) {
			fail(c, http.StatusNotFound, MsgSettingsNotFound, "")
			return
		}
		fail(c, http.StatusInternalServerError, MsgInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, UpdateSettingResponse{
		ID:        rec.ID,
		Data:      rec.Data,
		UpdatedAt: rec.UpdatedAt,
	})
}

// DeleteSetting godoc
// @ID          deleteSetting
// @Summary     Delete a settings document
// @Description Removal is idempotent: deleting an absent or already-deleted id reports the same success as deleting a live one.
// @Tags        Settings
//
// @Param       id  path  string  true  "Setting ID (UUID)"  format(uuid)
//
// @Success     204  {string}  string  "No Content"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /settings/{id} [delete]
func (h *Handlers) DeleteSetting(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, http.StatusInternalServerError, MsgInternal, err.Error())
		return
	}
	noContent(c)
}
