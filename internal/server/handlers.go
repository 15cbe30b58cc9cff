package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rustyeddy/smartfolio/journal"
	"github.com/rustyeddy/smartfolio/ledger"
	"github.com/rustyeddy/smartfolio/orders"
)

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Store.View())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Store.Health())
}

func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Store.Accounts())
}

type orderRequest struct {
	ID     string  `json:"id"`
	Type   string  `json:"type"`
	Symbol string  `json:"symbol"`
	Units  float64 `json:"units"`
	Price  float64 `json:"price"`
	Date   string  `json:"date"`
	Note   string  `json:"note"`
}

func (s *Server) handleAddOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	side, err := ledger.ParseSide(req.Type)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	o, ok := s.Store.AddOrder(orders.Order{
		ID:     req.ID,
		Type:   side,
		Symbol: req.Symbol,
		Units:  req.Units,
		Price:  req.Price,
		Date:   req.Date,
		Note:   req.Note,
	})
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "order rejected")
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (s *Server) handleFillOrder(w http.ResponseWriter, r *http.Request) {
	if !s.Store.FillOrder(chi.URLParam(r, "id")) {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}
	writeJSON(w, http.StatusOK, s.Store.View())
}

func (s *Server) handleKillOrder(w http.ResponseWriter, r *http.Request) {
	if !s.Store.KillOrder(chi.URLParam(r, "id")) {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type journalRequest struct {
	ID     string   `json:"id"`
	Symbol string   `json:"symbol"`
	Type   string   `json:"type"`
	Price  *float64 `json:"price"`
	Units  *float64 `json:"units"`
	Notes  string   `json:"notes"`
}

func (s *Server) handleAddJournal(w http.ResponseWriter, r *http.Request) {
	var req journalRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Symbol) == "" {
		writeError(w, http.StatusUnprocessableEntity, "symbol is required")
		return
	}
	kind := journal.KindNote
	if req.Type != "" {
		k, err := journal.ParseKind(req.Type)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		kind = k
	}

	e, ok := s.Store.AddJournalEntry(journal.Entry{
		ID:     req.ID,
		Symbol: strings.TrimSpace(req.Symbol),
		Type:   kind,
		Price:  req.Price,
		Units:  req.Units,
		Notes:  req.Notes,
	})
	if !ok {
		writeError(w, http.StatusConflict, "journal entry already exists")
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) handleRemoveJournal(w http.ResponseWriter, r *http.Request) {
	if !s.Store.RemoveJournalEntry(chi.URLParam(r, "id")) {
		writeError(w, http.StatusNotFound, "journal entry not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type syncRequest struct {
	Units float64 `json:"units"`
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	var req syncRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !s.Store.SyncAssetBalance(chi.URLParam(r, "symbol"), req.Units) {
		writeError(w, http.StatusUnprocessableEntity, "sync rejected")
		return
	}
	writeJSON(w, http.StatusOK, s.Store.View())
}

func (s *Server) handleRecycle(w http.ResponseWriter, r *http.Request) {
	if !s.Store.RecyclePnL(chi.URLParam(r, "symbol")) {
		writeError(w, http.StatusConflict, "nothing to recycle")
		return
	}
	writeJSON(w, http.StatusOK, s.Store.View())
}

type accountRequest struct {
	ID string `json:"id"`
}

func (s *Server) handleSwitchAccount(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !s.knownAccount(req.ID) {
		writeError(w, http.StatusNotFound, "unknown account")
		return
	}
	s.Store.SwitchAccount(req.ID)
	writeJSON(w, http.StatusOK, s.Store.View())
}

type targetRequest struct {
	Value float64 `json:"value"`
}

func (s *Server) handleSetTarget(w http.ResponseWriter, r *http.Request) {
	var req targetRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !s.Store.SetTargetValue(req.Value) {
		writeError(w, http.StatusUnprocessableEntity, "target must be a non-negative number")
		return
	}
	writeJSON(w, http.StatusOK, s.Store.View())
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if r.ContentLength != 0 {
		if err := decodeJSONBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	if !s.Store.ResetToDefaults(req.ID) {
		writeError(w, http.StatusNotFound, "unknown account")
		return
	}
	writeJSON(w, http.StatusOK, s.Store.View())
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := s.Store.ExportSnapshot()
	if err != nil {
		s.Log.Error("export failed", "err", err)
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	name := "smartfolio-backup-" + s.Store.ActiveAccount() + ".json"
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !s.Store.ImportSnapshot(data) {
		writeError(w, http.StatusUnprocessableEntity, "invalid backup file")
		return
	}
	writeJSON(w, http.StatusOK, s.Store.View())
}

func (s *Server) knownAccount(id string) bool {
	for _, a := range s.Store.Accounts() {
		if a.ID == id {
			return true
		}
	}
	return false
}
