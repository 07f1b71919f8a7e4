package preset

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/KromaEnergia/teamsheet-api/internal/apperr"
	"github.com/KromaEnergia/teamsheet-api/internal/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TeamSheetPreset is a named, reusable team-sheet layout. Items are opaque
// JSON objects owned by the client.
type TeamSheetPreset struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:255;not null;index"`
	StoreID   *int   `gorm:"index"`
	DataJSON  datatypes.JSONType[[]json.RawMessage]
	CreatedAt time.Time
	UpdatedAt time.Time
}

type UpsertRequest struct {
	Name     string            `json:"name"`
	StoreID  *int              `json:"store_id"`
	DataJSON []json.RawMessage `json:"data_json"`
}

type Read struct {
	ID        uint              `json:"id"`
	Name      string            `json:"name"`
	StoreID   *int              `json:"store_id"`
	DataJSON  []json.RawMessage `json:"data_json"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func toRead(p *TeamSheetPreset) Read {
	data := p.DataJSON.Data()
	if data == nil {
		data = []json.RawMessage{}
	}
	return Read{ID: p.ID, Name: p.Name, StoreID: p.StoreID, DataJSON: data, CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt}
}

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) List(ctx context.Context, storeID *int) ([]TeamSheetPreset, error) {
	q := r.DB.WithContext(ctx)
	if storeID != nil {
		q = q.Where("store_id = ?", *storeID)
	}
	var out []TeamSheetPreset
	err := q.Order("name ASC").Order("id ASC").Find(&out).Error
	return out, err
}

// Upsert keys on (name, store_id) and replaces DataJSON.
func (r *Repository) Upsert(ctx context.Context, p *TeamSheetPreset) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Where("name = ?", p.Name)
		if p.StoreID == nil {
			q = q.Where("store_id IS NULL")
		} else {
			q = q.Where("store_id = ?", *p.StoreID)
		}
		var existing TeamSheetPreset
		err := q.First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(p).Error
		}
		if err != nil {
			return err
		}
		existing.DataJSON = p.DataJSON
		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
		*p = existing
		return nil
	})
}

type Handler struct {
	Repository *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{Repository: repo}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	storeID, err := utils.QueryInt(r, "store_id")
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	list, err := h.Repository.List(r.Context(), storeID)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	out := make([]Read, 0, len(list))
	for i := range list {
		out = append(out, toRead(&list[i]))
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req UpsertRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		apperr.Write(w, r, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		apperr.Write(w, r, apperr.Validation("name is required"))
		return
	}
	for _, item := range req.DataJSON {
		if trimmed := strings.TrimSpace(string(item)); !strings.HasPrefix(trimmed, "{") {
			apperr.Write(w, r, apperr.Validation("data_json must be a list of objects"))
			return
		}
	}
	if req.DataJSON == nil {
		req.DataJSON = []json.RawMessage{}
	}
	p := &TeamSheetPreset{Name: req.Name, StoreID: req.StoreID, DataJSON: datatypes.NewJSONType(req.DataJSON)}
	if err := h.Repository.Upsert(r.Context(), p); err != nil {
		apperr.Write(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, toRead(p))
}
