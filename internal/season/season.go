package season

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/KromaEnergia/teamsheet-api/internal/apperr"
	"github.com/KromaEnergia/teamsheet-api/internal/utils"
	"github.com/KromaEnergia/teamsheet-api/internal/utils/db"
	"gorm.io/gorm"
)

// Season anchors gift-tracker week numbers to a start date.
type Season struct {
	ID        uint    `gorm:"primaryKey"`
	Year      int     `gorm:"uniqueIndex;not null"`
	StartDate db.Date `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type UpsertRequest struct {
	Year      int      `json:"year"`
	StartDate *db.Date `json:"start_date"`
}

type Read struct {
	ID        uint      `json:"id"`
	Year      int       `json:"year"`
	StartDate db.Date   `json:"start_date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toRead(s *Season) Read {
	return Read{ID: s.ID, Year: s.Year, StartDate: s.StartDate, CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt}
}

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) List(ctx context.Context) ([]Season, error) {
	var out []Season
	err := r.DB.WithContext(ctx).Order("year ASC").Find(&out).Error
	return out, err
}

// Upsert keys on Year and only moves the start date of an existing season.
func (r *Repository) Upsert(ctx context.Context, s *Season) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing Season
		err := tx.Where("year = ?", s.Year).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(s).Error
		}
		if err != nil {
			return err
		}
		existing.StartDate = s.StartDate
		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
		*s = existing
		return nil
	})
}

func (r *Repository) Delete(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&Season{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type Handler struct {
	Repository *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{Repository: repo}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Repository.List(r.Context())
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
	if req.Year <= 0 {
		apperr.Write(w, r, apperr.Validation("year is required"))
		return
	}
	if req.StartDate == nil {
		apperr.Write(w, r, apperr.Validation("start_date is required"))
		return
	}
	s := &Season{Year: req.Year, StartDate: *req.StartDate}
	if err := h.Repository.Upsert(r.Context(), s); err != nil {
		apperr.Write(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, toRead(s))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "id")
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	if err := h.Repository.Delete(r.Context(), id); err != nil {
		apperr.Write(w, r, apperr.NotFoundIf(err, "Season not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
