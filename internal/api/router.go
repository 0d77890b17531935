package api

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires every route. Account-scoped routes sit behind the
// bearer-token middleware; registration, login and the admin sweep do not.
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	r.HandleFunc("/health", h.HealthCheckHandler).Methods("GET")

	apiV1 := r.PathPrefix("/api/v1").Subrouter()
	apiV1.HandleFunc("/accounts", h.RegisterHandler).Methods("POST")
	apiV1.HandleFunc("/login", h.LoginHandler).Methods("POST")
	apiV1.HandleFunc("/admin/interest", h.InterestHandler).Methods("POST")

	authed := apiV1.NewRoute().Subrouter()
	authed.Use(h.AuthMiddleware)
	authed.HandleFunc("/accounts/{number:[0-9]+}", h.GetAccountHandler).Methods("GET")
	authed.HandleFunc("/accounts/{number:[0-9]+}", h.CloseAccountHandler).Methods("DELETE")
	authed.HandleFunc("/accounts/{number:[0-9]+}/transactions", h.TransactionsHandler).Methods("GET")
	authed.HandleFunc("/accounts/{number:[0-9]+}/statement", h.StatementHandler).Methods("GET")
	authed.HandleFunc("/deposits", h.DepositHandler).Methods("POST")
	authed.HandleFunc("/withdrawals", h.WithdrawHandler).Methods("POST")
	authed.HandleFunc("/transfers", h.TransferHandler).Methods("POST")
	authed.HandleFunc("/password", h.ChangePasswordHandler).Methods("POST")

	return r
}
