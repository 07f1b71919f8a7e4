package teamsheet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/KromaEnergia/teamsheet-api/internal/apperr"
	"github.com/KromaEnergia/teamsheet-api/internal/auth"
	"github.com/KromaEnergia/teamsheet-api/internal/logging"
	"github.com/KromaEnergia/teamsheet-api/internal/shift"
	"github.com/KromaEnergia/teamsheet-api/internal/storage"
	"github.com/KromaEnergia/teamsheet-api/internal/storepref"
	"github.com/KromaEnergia/teamsheet-api/internal/utils"
)

// Archiver keeps a copy of exported documents.
type Archiver interface {
	Enabled() bool
	Archive(ctx context.Context, key, contentType string, body []byte) (string, error)
}

type Handler struct {
	Service  *Service
	Shifts   *shift.Repository
	Prefs    *storepref.Repository
	Archiver Archiver
}

func NewHandler(svc *Service, shifts *shift.Repository, prefs *storepref.Repository, archiver Archiver) *Handler {
	return &Handler{Service: svc, Shifts: shifts, Prefs: prefs, Archiver: archiver}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var f Filter
	var err error
	if f.Start, err = utils.QueryDate(r, "start_date"); err != nil {
		apperr.Write(w, r, err)
		return
	}
	if f.End, err = utils.QueryDate(r, "end_date"); err != nil {
		apperr.Write(w, r, err)
		return
	}
	if f.ManagerID, err = utils.QueryUint(r, "manager_id"); err != nil {
		apperr.Write(w, r, err)
		return
	}
	f.Status = Status(utils.QueryString(r, "status"))
	if f.Status != "" && !f.Status.Valid() {
		apperr.Write(w, r, apperr.Validation("invalid status"))
		return
	}
	f.Period = utils.QueryString(r, "time_period")

	sheets, err := h.Service.List(r.Context(), f)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	out := make([]Read, 0, len(sheets))
	for i := range sheets {
		out = append(out, Serialize(&sheets[i]))
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

// Create builds a sheet from the payload, or clones source_team_sheet_id.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		apperr.Write(w, r, err)
		return
	}
	var userID uint
	if u, ok := auth.CurrentUser(r.Context()); ok {
		userID = u.ID
	}
	sheet, err := h.Service.Create(r.Context(), userID, req)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	logging.Info("team sheet created", map[string]interface{}{
		"request_id":    logging.RequestID(r.Context()),
		"team_sheet_id": sheet.ID,
		"shift_id":      sheet.ShiftID,
		"cloned":        req.SourceTeamSheetID != nil,
	})
	utils.WriteJSON(w, http.StatusCreated, Serialize(sheet))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	sheet, ok := h.load(w, r)
	if !ok {
		return
	}
	utils.WriteJSON(w, http.StatusOK, Serialize(sheet))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "id")
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	var req UpdateRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		apperr.Write(w, r, err)
		return
	}
	sheet, err := h.Service.Update(r.Context(), id, req)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, Serialize(sheet))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "id")
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	if err := h.Service.Delete(r.Context(), id); err != nil {
		apperr.Write(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	sheet, ok := h.load(w, r)
	if !ok {
		return
	}
	body, err := json.Marshal(Serialize(sheet))
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	h.archive(r, sheet.ID, "json", "application/json", body)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	sheet, ok := h.load(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sheet); err != nil {
		apperr.Write(w, r, err)
		return
	}
	h.archive(r, sheet.ID, "csv", "text/csv", buf.Bytes())
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=team_sheet_%d.csv", sheet.ID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// Print renders an HTML page. The in-time comes from the store preference
// whose store_number matches the shift's store.
func (h *Handler) Print(w http.ResponseWriter, r *http.Request) {
	sheet, ok := h.load(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	s, err := h.Shifts.FindByID(ctx, sheet.ShiftID)
	if err != nil {
		s = nil
	}
	var pref *storepref.StorePreference
	if s != nil && s.StoreID != nil {
		if p, err := h.Prefs.FindByStoreNumber(ctx, strconv.Itoa(*s.StoreID)); err == nil {
			pref = p
		}
	}
	var buf bytes.Buffer
	if err := WritePrint(&buf, sheet, s, pref); err != nil {
		apperr.Write(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (*TeamSheet, bool) {
	id, err := utils.PathID(r, "id")
	if err != nil {
		apperr.Write(w, r, err)
		return nil, false
	}
	sheet, err := h.Service.Get(r.Context(), id)
	if err != nil {
		apperr.Write(w, r, err)
		return nil, false
	}
	return sheet, true
}

// archive is best effort; a failed upload never fails the export.
func (h *Handler) archive(r *http.Request, id uint, ext, contentType string, body []byte) {
	if h.Archiver == nil || !h.Archiver.Enabled() {
		return
	}
	key := storage.ExportKey(id, ext, time.Now())
	loc, err := h.Archiver.Archive(r.Context(), key, contentType, body)
	if err != nil {
		logging.Warn("export archive failed", map[string]interface{}{
			"request_id":    logging.RequestID(r.Context()),
			"team_sheet_id": id,
			"error":         err.Error(),
		})
		return
	}
	logging.Info("export archived", map[string]interface{}{"team_sheet_id": id, "location": loc})
}
