package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bankentry-dev/bankentry/internal/dates"
	"github.com/bankentry-dev/bankentry/internal/id"
	"github.com/bankentry-dev/bankentry/internal/model"
	"github.com/bankentry-dev/bankentry/internal/money"
	"github.com/bankentry-dev/bankentry/internal/store"
)

// amountField accepts the amount as a JSON string ("150.00") or a bare
// number (150).
type amountField string

func (a *amountField) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*a = amountField(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*a = amountField(n.String())
	return nil
}

type recordRequest struct {
	Date        string      `json:"date"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Amount      amountField `json:"amount"`
	Verified    bool        `json:"verified"`
	ReviewNote  string      `json:"review_note"`
}

func (req recordRequest) draft(recordID int64) model.Draft {
	return model.Draft{
		ID:          recordID,
		Date:        req.Date,
		Description: req.Description,
		Category:    req.Category,
		Amount:      string(req.Amount),
		Verified:    req.Verified,
		ReviewNote:  req.ReviewNote,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	ds, err := s.store.ReadAll(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	records := ds.Records
	if records == nil {
		records = []model.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	rec, err := model.NewRecord(req.draft(0), s.norm)
	if err != nil {
		s.validationError(w, err)
		return
	}

	recordID, err := s.store.Create(r.Context(), rec)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	rec.ID = recordID

	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	recordID, err := id.ParseRecord(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	rec, err := model.NewRecord(req.draft(recordID), s.norm)
	if err != nil {
		s.validationError(w, err)
		return
	}

	if err := s.store.Update(r.Context(), recordID, rec); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "record not found")
			return
		}
		s.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	recordID, err := id.ParseRecord(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.Delete(r.Context(), recordID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "record not found")
			return
		}
		s.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// validationError renders a 422 with the failing field so clients can
// point at the offending input.
func (s *Server) validationError(w http.ResponseWriter, err error) {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		writeFieldError(w, verr.Field, verr.Reason)
		return
	}
	var derr *dates.FormatError
	if errors.As(err, &derr) {
		writeFieldError(w, "date", derr.Error())
		return
	}
	var merr *money.FormatError
	if errors.As(err, &merr) {
		writeFieldError(w, "amount", merr.Error())
		return
	}
	writeError(w, http.StatusUnprocessableEntity, err.Error())
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
	writeError(w, http.StatusInternalServerError, "internal error")
}
