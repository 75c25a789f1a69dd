package api

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sharedspaces/ledger/internal/middleware"
	"github.com/sharedspaces/ledger/internal/service"
)

// NewRouter builds the HTTP router with all ledger routes, logging and
// metrics middleware, and the operational endpoints.
func NewRouter(svc *service.LedgerService) *mux.Router {
	s := NewServer(svc)

	router := mux.NewRouter()
	router.Use(middleware.Logging, middleware.Metrics)

	router.HandleFunc("/healthz", s.healthz).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/lists", s.createList).Methods("POST")
	api.HandleFunc("/lists", s.listLists).Methods("GET")
	api.HandleFunc("/lists/{listId}", s.getList).Methods("GET")
	api.HandleFunc("/lists/{listId}", s.deleteList).Methods("DELETE")

	api.HandleFunc("/lists/{listId}/expenses", s.addExpense).Methods("POST")
	api.HandleFunc("/lists/{listId}/expenses/{expenseId}", s.updateExpense).Methods("PUT")
	api.HandleFunc("/lists/{listId}/expenses/{expenseId}", s.deleteExpense).Methods("DELETE")

	api.HandleFunc("/lists/{listId}/balances", s.getBalances).Methods("GET")
	api.HandleFunc("/lists/{listId}/suggestions", s.getSuggestions).Methods("GET")

	api.HandleFunc("/lists/{listId}/settlements", s.recordSettlement).Methods("POST")
	api.HandleFunc("/lists/{listId}/settlements", s.listSettlements).Methods("GET")

	return router
}
