// Package gifttracker records weekly gift card sales per server.
package gifttracker

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/KromaEnergia/teamsheet-api/internal/apperr"
	"github.com/KromaEnergia/teamsheet-api/internal/cache"
	"github.com/KromaEnergia/teamsheet-api/internal/logging"
	"github.com/KromaEnergia/teamsheet-api/internal/utils"
	"gorm.io/gorm"
)

// Entry holds one server's daily sales in whole dollars. The week runs
// Tuesday to Monday.
type Entry struct {
	ID           uint   `gorm:"primaryKey"`
	EmployeeName string `gorm:"size:255;not null;index"`
	WeekNumber   int    `gorm:"not null;index"`
	SeasonYear   *int   `gorm:"index"`
	Tuesday      int    `gorm:"not null"`
	Wednesday    int    `gorm:"not null"`
	Thursday     int    `gorm:"not null"`
	Friday       int    `gorm:"not null"`
	Saturday     int    `gorm:"not null"`
	Sunday       int    `gorm:"not null"`
	Monday       int    `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Entry) TableName() string { return "gift_tracker_entries" }

// WeekDollars sums the seven days.
func (e *Entry) WeekDollars() int64 {
	return int64(e.Tuesday + e.Wednesday + e.Thursday + e.Friday + e.Saturday + e.Sunday + e.Monday)
}

type Days struct {
	Tuesday   int `json:"tuesday"`
	Wednesday int `json:"wednesday"`
	Thursday  int `json:"thursday"`
	Friday    int `json:"friday"`
	Saturday  int `json:"saturday"`
	Sunday    int `json:"sunday"`
	Monday    int `json:"monday"`
}

func (d Days) applyTo(e *Entry) {
	e.Tuesday, e.Wednesday, e.Thursday = d.Tuesday, d.Wednesday, d.Thursday
	e.Friday, e.Saturday, e.Sunday, e.Monday = d.Friday, d.Saturday, d.Sunday, d.Monday
}

type EntryPayload struct {
	EmployeeName string `json:"employee_name"`
	Days
}

type UpsertRequest struct {
	WeekNumber int            `json:"week_number"`
	SeasonYear *int           `json:"season_year"`
	Entries    []EntryPayload `json:"entries"`
}

type Read struct {
	ID           uint   `json:"id"`
	EmployeeName string `json:"employee_name"`
	WeekNumber   int    `json:"week_number"`
	SeasonYear   *int   `json:"season_year"`
	Days
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toRead(e *Entry) Read {
	return Read{
		ID:           e.ID,
		EmployeeName: e.EmployeeName,
		WeekNumber:   e.WeekNumber,
		SeasonYear:   e.SeasonYear,
		Days: Days{
			Tuesday: e.Tuesday, Wednesday: e.Wednesday, Thursday: e.Thursday, Friday: e.Friday,
			Saturday: e.Saturday, Sunday: e.Sunday, Monday: e.Monday,
		},
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func seasonScope(year *int) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if year == nil {
			return q.Where("season_year IS NULL")
		}
		return q.Where("season_year = ?", *year)
	}
}

func (r *Repository) List(ctx context.Context, week, year *int) ([]Entry, error) {
	q := r.DB.WithContext(ctx)
	if week != nil {
		q = q.Where("week_number = ?", *week)
	}
	if year != nil {
		q = q.Where("season_year = ?", *year)
	}
	var out []Entry
	err := q.Order("week_number ASC").Order("employee_name ASC").Find(&out).Error
	return out, err
}

// ForSeason returns every entry of a season (all seasons when year is nil).
func (r *Repository) ForSeason(ctx context.Context, year *int) ([]Entry, error) {
	q := r.DB.WithContext(ctx)
	if year != nil {
		q = q.Where("season_year = ?", *year)
	}
	var out []Entry
	err := q.Order("id ASC").Find(&out).Error
	return out, err
}

// Reconcile makes the stored week match items exactly. Rows match on the
// lowercased trimmed name; rows not named in items are deleted.
func (r *Repository) Reconcile(ctx context.Context, week int, year *int, items []EntryPayload) ([]Entry, error) {
	var result []Entry
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []Entry
		if err := tx.Scopes(seasonScope(year)).Where("week_number = ?", week).Find(&existing).Error; err != nil {
			return err
		}
		byName := make(map[string]*Entry, len(existing))
		for i := range existing {
			byName[nameKey(existing[i].EmployeeName)] = &existing[i]
		}

		seen := make(map[string]*Entry, len(items))
		order := make([]string, 0, len(items))
		for _, item := range items {
			key := nameKey(item.EmployeeName)
			rec, ok := seen[key]
			if !ok {
				if rec = byName[key]; rec == nil {
					rec = &Entry{EmployeeName: strings.TrimSpace(item.EmployeeName), WeekNumber: week, SeasonYear: year}
				}
				seen[key] = rec
				order = append(order, key)
			}
			item.Days.applyTo(rec)
		}

		for key, rec := range byName {
			if _, kept := seen[key]; !kept {
				if err := tx.Delete(rec).Error; err != nil {
					return err
				}
			}
		}
		for _, key := range order {
			if err := tx.Save(seen[key]).Error; err != nil {
				return err
			}
			result = append(result, *seen[key])
		}
		return nil
	})
	return result, err
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

type Handler struct {
	Repository *Repository
	Cache      *cache.Cache
}

func NewHandler(repo *Repository, c *cache.Cache) *Handler {
	return &Handler{Repository: repo, Cache: c}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	week, err := utils.QueryInt(r, "week_number")
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	if week != nil && *week < 1 {
		apperr.Write(w, r, apperr.Validation("Week number must be at least 1"))
		return
	}
	year, err := utils.QueryInt(r, "season_year")
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	list, err := h.Repository.List(r.Context(), week, year)
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
	if req.WeekNumber < 1 {
		apperr.Write(w, r, apperr.Validation("Week number must be at least 1"))
		return
	}
	for _, item := range req.Entries {
		if strings.TrimSpace(item.EmployeeName) == "" {
			apperr.Write(w, r, apperr.Validation("employee_name is required"))
			return
		}
	}
	saved, err := h.Repository.Reconcile(r.Context(), req.WeekNumber, req.SeasonYear, req.Entries)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	h.Cache.DeletePrefix(r.Context(), cache.PrefixPayoutTotal)
	logging.Info("gift tracker week saved", map[string]interface{}{
		"request_id":  logging.RequestID(r.Context()),
		"week_number": req.WeekNumber,
		"entries":     len(saved),
	})
	out := make([]Read, 0, len(saved))
	for i := range saved {
		out = append(out, toRead(&saved[i]))
	}
	utils.WriteJSON(w, http.StatusCreated, out)
}
