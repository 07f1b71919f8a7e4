package roster

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/KromaEnergia/teamsheet-api/internal/apperr"
	"github.com/KromaEnergia/teamsheet-api/internal/utils"
	"github.com/KromaEnergia/teamsheet-api/internal/utils/db"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Entry struct {
	Name   string  `json:"name"`
	InTime *string `json:"in_time"`
}

// DailyRoster is the list of people expected on a date at a store.
type DailyRoster struct {
	ID        uint    `gorm:"primaryKey"`
	Date      db.Date `gorm:"not null;index"`
	StoreID   *int    `gorm:"index"`
	Entries   datatypes.JSONType[[]Entry]
	CreatedAt time.Time
	UpdatedAt time.Time
}

type UpsertRequest struct {
	Date    *db.Date `json:"date"`
	StoreID *int     `json:"store_id"`
	Entries []Entry  `json:"entries"`
}

type Read struct {
	ID        uint      `json:"id"`
	Date      db.Date   `json:"date"`
	StoreID   *int      `json:"store_id"`
	Entries   []Entry   `json:"entries"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toRead(d *DailyRoster) Read {
	entries := d.Entries.Data()
	if entries == nil {
		entries = []Entry{}
	}
	return Read{ID: d.ID, Date: d.Date, StoreID: d.StoreID, Entries: entries, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt}
}

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func whereStore(q *gorm.DB, storeID *int) *gorm.DB {
	if storeID == nil {
		return q.Where("store_id IS NULL")
	}
	return q.Where("store_id = ?", *storeID)
}

func (r *Repository) List(ctx context.Context, date *db.Date, storeID *int) ([]DailyRoster, error) {
	q := r.DB.WithContext(ctx)
	if date != nil {
		q = q.Where("date = ?", *date)
	}
	if storeID != nil {
		q = q.Where("store_id = ?", *storeID)
	}
	var out []DailyRoster
	err := q.Order("date DESC").Order("id ASC").Find(&out).Error
	return out, err
}

// Upsert keys on (date, store_id) and replaces the entries.
func (r *Repository) Upsert(ctx context.Context, d *DailyRoster) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing DailyRoster
		err := whereStore(tx.Where("date = ?", d.Date), d.StoreID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(d).Error
		}
		if err != nil {
			return err
		}
		existing.Entries = d.Entries
		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
		*d = existing
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
	date, err := utils.QueryDate(r, "date")
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	storeID, err := utils.QueryInt(r, "store_id")
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	list, err := h.Repository.List(r.Context(), date, storeID)
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
	if req.Date == nil {
		apperr.Write(w, r, apperr.Validation("date is required"))
		return
	}
	if req.Entries == nil {
		req.Entries = []Entry{}
	}
	d := &DailyRoster{Date: *req.Date, StoreID: req.StoreID, Entries: datatypes.NewJSONType(req.Entries)}
	if err := h.Repository.Upsert(r.Context(), d); err != nil {
		apperr.Write(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, toRead(d))
}
