package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/cmbank/corebank/internal/domain"
	"github.com/cmbank/corebank/internal/money"
	"github.com/cmbank/corebank/internal/store"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
)

// RegisterHandler creates a new account.
func (h *Handler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Malformed request body", r.Method, "/accounts")
		return
	}
	var initial int64
	if req.InitialDeposit != "" {
		var err error
		initial, err = money.ParseAmount(req.InitialDeposit)
		if err != nil {
			respondWithError(w, http.StatusUnprocessableEntity, "Invalid initial deposit amount", r.Method, "/accounts")
			return
		}
	}
	acct, err := h.svc.Register(req.FullName, req.AccountNumber, req.Password, initial)
	if err != nil {
		h.respondServiceError(w, r, "/accounts", err)
		return
	}
	respondWithJSON(w, http.StatusCreated, acct, r.Method, "/accounts")
}

// LoginHandler verifies credentials and issues a bearer token.
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Malformed request body", r.Method, "/login")
		return
	}
	sess, err := h.svc.Login(req.AccountNumber, req.Password)
	if err != nil {
		h.respondServiceError(w, r, "/login", err)
		return
	}
	token, err := h.issueToken(sess.Account.Number, sess.IssuedAt)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Token issue failed", r.Method, "/login")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"token":   token,
		"account": sess.Account,
	}, r.Method, "/login")
}

// GetAccountHandler returns the caller's own account snapshot.
func (h *Handler) GetAccountHandler(w http.ResponseWriter, r *http.Request) {
	number, ok := h.pathAccountForSession(w, r, "/accounts/{number}")
	if !ok {
		return
	}
	acct, err := h.svc.Account(number)
	if err != nil {
		h.respondServiceError(w, r, "/accounts/{number}", err)
		return
	}
	respondWithJSON(w, http.StatusOK, acct, r.Method, "/accounts/{number}")
}

// DepositHandler credits the authenticated account.
func (h *Handler) DepositHandler(w http.ResponseWriter, r *http.Request) {
	h.mutateBalance(w, r, "/deposits", h.svc.Deposit)
}

// WithdrawHandler debits the authenticated account.
func (h *Handler) WithdrawHandler(w http.ResponseWriter, r *http.Request) {
	h.mutateBalance(w, r, "/withdrawals", h.svc.Withdraw)
}

func (h *Handler) mutateBalance(w http.ResponseWriter, r *http.Request, endpoint string, op func(int64, int64) (int64, error)) {
	number, ok := sessionAccount(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "No session", r.Method, endpoint)
		return
	}
	var req domain.AmountRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Malformed request body", r.Method, endpoint)
		return
	}
	amount, err := money.ParseAmount(req.Amount)
	if err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, "Invalid amount", r.Method, endpoint)
		return
	}
	balance, err := op(number, amount)
	if err != nil {
		h.respondServiceError(w, r, endpoint, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"account_number": number,
		"balance":        balance,
	}, r.Method, endpoint)
}

// TransferHandler moves funds from the authenticated account.
func (h *Handler) TransferHandler(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(httpRequestDuration.WithLabelValues("POST", "/transfers"))
	defer timer.ObserveDuration()

	number, ok := sessionAccount(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "No session", r.Method, "/transfers")
		return
	}
	var req domain.TransferRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Malformed request body", r.Method, "/transfers")
		return
	}
	amount, err := money.ParseAmount(req.Amount)
	if err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, "Invalid amount", r.Method, "/transfers")
		return
	}
	result, err := h.svc.Transfer(number, req.ToAccountNumber, amount)
	if err != nil {
		h.respondServiceError(w, r, "/transfers", err)
		return
	}
	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"from_account_number": number,
		"to_account_number":   req.ToAccountNumber,
		"amount":              amount,
		"source_balance":      result.SourceBalance,
		"audit_lost":          result.AuditLost,
	}, r.Method, "/transfers")
}

// ChangePasswordHandler rotates the caller's password.
func (h *Handler) ChangePasswordHandler(w http.ResponseWriter, r *http.Request) {
	number, ok := sessionAccount(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "No session", r.Method, "/password")
		return
	}
	var req domain.PasswordChangeRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Malformed request body", r.Method, "/password")
		return
	}
	if err := h.svc.ChangePassword(number, req.CurrentPassword, req.NewPassword); err != nil {
		h.respondServiceError(w, r, "/password", err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "password changed"}, r.Method, "/password")
}

// CloseAccountHandler permanently closes the caller's account.
func (h *Handler) CloseAccountHandler(w http.ResponseWriter, r *http.Request) {
	number, ok := h.pathAccountForSession(w, r, "/accounts/{number}")
	if !ok {
		return
	}
	var req domain.CloseRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Malformed request body", r.Method, "/accounts/{number}")
		return
	}
	if err := h.svc.Close(number, req.Password); err != nil {
		h.respondServiceError(w, r, "/accounts/{number}", err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "account closed"}, r.Method, "/accounts/{number}")
}

// TransactionsHandler lists the caller's audit records in file order.
func (h *Handler) TransactionsHandler(w http.ResponseWriter, r *http.Request) {
	number, ok := h.pathAccountForSession(w, r, "/accounts/{number}/transactions")
	if !ok {
		return
	}
	txs, err := h.svc.History(number)
	if err != nil {
		h.respondServiceError(w, r, "/accounts/{number}/transactions", err)
		return
	}
	if txs == nil {
		txs = []domain.Transaction{}
	}
	respondWithJSON(w, http.StatusOK, txs, r.Method, "/accounts/{number}/transactions")
}

// StatementHandler returns the statement data for the caller's account.
func (h *Handler) StatementHandler(w http.ResponseWriter, r *http.Request) {
	number, ok := h.pathAccountForSession(w, r, "/accounts/{number}/statement")
	if !ok {
		return
	}
	st, err := h.svc.BuildStatement(number)
	if err != nil {
		h.respondServiceError(w, r, "/accounts/{number}/statement", err)
		return
	}
	respondWithJSON(w, http.StatusOK, st, r.Method, "/accounts/{number}/statement")
}

// InterestHandler runs the monthly interest sweep. Guarded by the admin
// key rather than an account token.
func (h *Handler) InterestHandler(w http.ResponseWriter, r *http.Request) {
	if h.adminKey == "" || r.Header.Get("X-Admin-Key") != h.adminKey {
		respondWithError(w, http.StatusUnauthorized, "Admin key required", r.Method, "/admin/interest")
		return
	}
	credited, err := h.svc.ApplyMonthlyInterest()
	if err != nil {
		h.respondServiceError(w, r, "/admin/interest", err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]int{"accounts_credited": credited}, r.Method, "/admin/interest")
}

// pathAccountForSession parses {number} and refuses cross-account access.
func (h *Handler) pathAccountForSession(w http.ResponseWriter, r *http.Request, endpoint string) (int64, bool) {
	session, ok := sessionAccount(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "No session", r.Method, endpoint)
		return 0, false
	}
	number, err := strconv.ParseInt(mux.Vars(r)["number"], 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid account number", r.Method, endpoint)
		return 0, false
	}
	if number != session {
		respondWithError(w, http.StatusForbidden, "Token does not match account", r.Method, endpoint)
		return 0, false
	}
	return number, true
}

// respondServiceError maps the domain error taxonomy onto HTTP statuses.
// A ConsistencyError gets its own code so operators can alert on it.
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, endpoint string, err error) {
	var cerr *store.ConsistencyError
	switch {
	case errors.As(err, &cerr):
		respondWithJSON(w, http.StatusInternalServerError, map[string]string{
			"error": cerr.Error(),
			"code":  "LEDGER_INCONSISTENT",
		}, r.Method, endpoint)
	case errors.Is(err, domain.ErrAccountNotFound):
		respondWithError(w, http.StatusNotFound, err.Error(), r.Method, endpoint)
	case errors.Is(err, domain.ErrInvalidCredentials):
		respondWithError(w, http.StatusUnauthorized, err.Error(), r.Method, endpoint)
	case errors.Is(err, domain.ErrDuplicateAccount):
		respondWithError(w, http.StatusConflict, err.Error(), r.Method, endpoint)
	case errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrAmountTooLarge),
		errors.Is(err, domain.ErrSelfTransfer),
		errors.Is(err, domain.ErrAccountClosed),
		errors.Is(err, domain.ErrNonZeroBalance),
		errors.Is(err, domain.ErrWeakPassword),
		errors.Is(err, domain.ErrBadAccountNumber),
		errors.Is(err, domain.ErrFieldTooLong):
		respondWithError(w, http.StatusUnprocessableEntity, err.Error(), r.Method, endpoint)
	default:
		respondWithError(w, http.StatusInternalServerError, "Storage failure; the operation may or may not have applied", r.Method, endpoint)
	}
}
