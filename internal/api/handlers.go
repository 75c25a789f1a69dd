// Package api exposes the ledger service over a JSON REST interface.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sharedspaces/ledger/internal/ledger"
	"github.com/sharedspaces/ledger/internal/money"
	"github.com/sharedspaces/ledger/internal/service"
	"github.com/sharedspaces/ledger/internal/storage"
)

// Server holds the HTTP handlers for the ledger API.
type Server struct {
	svc *service.LedgerService
}

// NewServer creates a Server backed by the given service.
func NewServer(svc *service.LedgerService) *Server {
	return &Server{svc: svc}
}

type createListRequest struct {
	Title        string   `json:"title"`
	Participants []string `json:"participants"`
}

type settlementRequest struct {
	ExpenseID string      `json:"expense_id"`
	From      string      `json:"from"`
	To        string      `json:"to"`
	Amount    money.Cents `json:"amount"`
}

func (s *Server) createList(w http.ResponseWriter, r *http.Request) {
	var req createListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	list, err := s.svc.CreateList(r.Context(), req.Title, req.Participants)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, list)
}

func (s *Server) listLists(w http.ResponseWriter, r *http.Request) {
	lists, err := s.svc.ListLists(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if lists == nil {
		lists = []*ledger.List{}
	}
	writeJSON(w, http.StatusOK, lists)
}

func (s *Server) getList(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.GetList(r.Context(), mux.Vars(r)["listId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) deleteList(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteList(r.Context(), mux.Vars(r)["listId"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addExpense(w http.ResponseWriter, r *http.Request) {
	var e ledger.Expense
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	added, err := s.svc.AddExpense(r.Context(), mux.Vars(r)["listId"], e)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, added)
}

func (s *Server) updateExpense(w http.ResponseWriter, r *http.Request) {
	var e ledger.Expense
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	vars := mux.Vars(r)
	e.ID = vars["expenseId"]

	updated, err := s.svc.UpdateExpense(r.Context(), vars["listId"], e)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteExpense(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := s.svc.DeleteExpense(r.Context(), vars["listId"], vars["expenseId"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getBalances(w http.ResponseWriter, r *http.Request) {
	balances, err := s.svc.Balances(r.Context(), mux.Vars(r)["listId"])
	if err != nil {
		writeError(w, err)
		return
	}
	if balances == nil {
		balances = []ledger.Balance{}
	}
	writeJSON(w, http.StatusOK, balances)
}

func (s *Server) getSuggestions(w http.ResponseWriter, r *http.Request) {
	strategy := service.SuggestionStrategy(r.URL.Query().Get("strategy"))
	suggestions, err := s.svc.Suggestions(r.Context(), mux.Vars(r)["listId"], strategy)
	if err != nil {
		writeError(w, err)
		return
	}
	if suggestions == nil {
		suggestions = []ledger.Transfer{}
	}
	writeJSON(w, http.StatusOK, suggestions)
}

func (s *Server) recordSettlement(w http.ResponseWriter, r *http.Request) {
	var req settlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	settlement, err := s.svc.RecordSettlement(r.Context(), mux.Vars(r)["listId"], req.ExpenseID, req.From, req.To, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, settlement)
}

func (s *Server) listSettlements(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.GetList(r.Context(), mux.Vars(r)["listId"])
	if err != nil {
		writeError(w, err)
		return
	}
	settlements := list.Settlements
	if settlements == nil {
		settlements = []ledger.Settlement{}
	}
	writeJSON(w, http.StatusOK, settlements)
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeError maps domain errors to HTTP statuses: validation failures are
// 400 with the human-readable message, missing lists/expenses are 404,
// anything else is a 500 with the detail kept out of the response.
func writeError(w http.ResponseWriter, err error) {
	var verr *ledger.ValidationError
	switch {
	case errors.As(err, &verr):
		writeMessage(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, ledger.ErrExpenseNotFound):
		writeMessage(w, http.StatusNotFound, err.Error())
	default:
		slog.Error("Request failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}
