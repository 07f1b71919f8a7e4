// Package imports loads server rosters from CSV uploads.
package imports

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/KromaEnergia/teamsheet-api/internal/apperr"
	"github.com/KromaEnergia/teamsheet-api/internal/employee"
	"github.com/KromaEnergia/teamsheet-api/internal/logging"
	"github.com/KromaEnergia/teamsheet-api/internal/utils"
	"github.com/KromaEnergia/teamsheet-api/internal/utils/db"
	"golang.org/x/text/encoding/charmap"
	"gorm.io/gorm"
)

const maxUpload = 10 << 20

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode returns raw as text: UTF-8 without a BOM, or Latin-1 when raw is not
// valid UTF-8.
func Decode(raw []byte) (string, error) {
	if utf8.Valid(raw) {
		return string(bytes.TrimPrefix(raw, utf8BOM)), nil
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Row is one parsed server line. Nil fields were absent or unparseable.
type Row struct {
	FirstName      string
	LastName       string
	Nickname       *string
	UpsellScore    *int
	PittyScore     *int
	EmploymentDays *int
	MaxSectionLoad *int
}

var errNoName = apperr.Validation("CSV must include a 'name' column.")

// Parse reads a header row plus data rows. Header names are matched
// case-insensitively; rows with an empty name are skipped.
func Parse(text string) ([]Row, error) {
	cr := csv.NewReader(strings.NewReader(text))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errNoName
	}
	if err != nil {
		return nil, apperr.Validation("invalid CSV")
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, dup := cols[key]; !dup {
			cols[key] = i
		}
	}
	if _, ok := cols["name"]; !ok {
		return nil, errNoName
	}

	cell := func(rec []string, names ...string) string {
		for _, n := range names {
			if i, ok := cols[n]; ok && i < len(rec) {
				if v := strings.TrimSpace(rec[i]); v != "" {
					return v
				}
			}
		}
		return ""
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperr.Validation("invalid CSV")
		}
		parts := strings.Fields(cell(rec, "name"))
		if len(parts) == 0 {
			continue
		}
		row := Row{
			FirstName:      parts[0],
			UpsellScore:    parseInt(cell(rec, "upsell_score", "upsell")),
			PittyScore:     parseInt(cell(rec, "pitty")),
			EmploymentDays: parseInt(cell(rec, "employment_days", "employment")),
			MaxSectionLoad: parseInt(cell(rec, "max_guests", "capacity", "max_section_load")),
		}
		if len(parts) > 1 {
			row.LastName = parts[1]
		}
		if nick := cell(rec, "nickname"); nick != "" {
			row.Nickname = &nick
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// parseInt accepts "12" and "12.7" (truncated).
func parseInt(s string) *int {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	n := int(f)
	return &n
}

type Result struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// Apply upserts rows by exact first and last name in one transaction.
func Apply(ctx context.Context, database *gorm.DB, rows []Row) (Result, error) {
	var res Result
	today := db.Today()
	err := database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := employee.NewRepository(tx)
		for _, row := range rows {
			e, err := repo.FindByExactName(ctx, row.FirstName, row.LastName)
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				e = &employee.Employee{
					FirstName:           row.FirstName,
					LastName:            row.LastName,
					Role:                employee.RoleServer,
					EmploymentStartDate: today,
					Active:              true,
				}
				res.Created++
			case err != nil:
				return err
			default:
				res.Updated++
			}

			if row.Nickname != nil {
				e.Nickname = row.Nickname
			}
			if row.UpsellScore != nil {
				e.UpsellScore = row.UpsellScore
			}
			if row.PittyScore != nil {
				e.PittyScore = row.PittyScore
			}
			if row.EmploymentDays != nil {
				e.EmploymentDays = row.EmploymentDays
				e.EmploymentStartDate = today.AddDays(-*row.EmploymentDays)
			}
			if row.MaxSectionLoad != nil {
				e.MaxSectionLoad = row.MaxSectionLoad
			}
			if err := repo.Save(ctx, e); err != nil {
				return err
			}
		}
		return nil
	})
	return res, err
}

type Handler struct {
	DB *gorm.DB
}

func NewHandler(database *gorm.DB) *Handler {
	return &Handler{DB: database}
}

// Servers takes a multipart upload in field "file".
func (h *Handler) Servers(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	file, _, err := r.FormFile("file")
	if err != nil {
		apperr.Write(w, r, apperr.Validation("file is required"))
		return
	}
	defer file.Close()
	raw, err := io.ReadAll(file)
	if err != nil {
		apperr.Write(w, r, apperr.Validation("could not read file"))
		return
	}
	text, err := Decode(raw)
	if err != nil {
		apperr.Write(w, r, apperr.Validation("could not decode file"))
		return
	}
	rows, err := Parse(text)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	res, err := Apply(r.Context(), h.DB, rows)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	logging.Info("servers imported", map[string]interface{}{
		"request_id": logging.RequestID(r.Context()),
		"created":    res.Created,
		"updated":    res.Updated,
	})
	utils.WriteJSON(w, http.StatusCreated, res)
}
