package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/finvault/ledger/internal/domain"
	"github.com/finvault/ledger/internal/models"
)

// Routes registers every endpoint on the given router.
func (h *Handler) Routes(r *mux.Router) {
	r.HandleFunc("/accounts", h.CreateAccount).Methods("POST")
	r.HandleFunc("/accounts/{number}", h.GetAccount).Methods("GET")
	r.HandleFunc("/accounts/{number}/transactions", h.ListTransactions).Methods("GET")
	r.HandleFunc("/deposits", h.CreateDeposit).Methods("POST")
	r.HandleFunc("/withdrawals", h.CreateWithdrawal).Methods("POST")
	r.HandleFunc("/transfers", h.CreateTransfer).Methods("POST")
	r.HandleFunc("/transfers/{id}", h.GetTransfer).Methods("GET")
}

func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAccountRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.respondServiceError(w, err, "POST", "/accounts")
		return
	}

	account, err := h.accounts.CreateAccount(r.Context(), domain.Currency(req.Currency))
	if err != nil {
		h.respondServiceError(w, err, "POST", "/accounts")
		return
	}

	h.respondJSON(w, http.StatusCreated, models.CreateAccountResponse{
		AccountNumber: account.Number,
		Currency:      account.Currency,
	}, "POST", "/accounts")
}

func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	number := mux.Vars(r)["number"]

	account, err := h.accounts.GetAccount(r.Context(), number)
	if err != nil {
		h.respondServiceError(w, err, "GET", "/accounts/{number}")
		return
	}

	h.respondJSON(w, http.StatusOK, models.AccountResponse{
		AccountNumber: account.Number,
		Status:        account.Status,
		Balance:       account.Balance,
		Currency:      account.Currency,
		CreatedAt:     account.CreatedAt,
	}, "GET", "/accounts/{number}")
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	number := mux.Vars(r)["number"]

	entries, err := h.movements.ListTransactions(r.Context(), number)
	if err != nil {
		h.respondServiceError(w, err, "GET", "/accounts/{number}/transactions")
		return
	}

	h.respondJSON(w, http.StatusOK, models.TransactionListResponse{Transactions: entries},
		"GET", "/accounts/{number}/transactions")
}

func (h *Handler) CreateDeposit(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(httpLatency.WithLabelValues("POST", "/deposits"))
	defer timer.ObserveDuration()

	var req models.MovementRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.respondServiceError(w, err, "POST", "/deposits")
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		h.respondServiceError(w, err, "POST", "/deposits")
		return
	}

	transactionID, err := h.movements.Deposit(r.Context(), req.AccountNumber, amount, req.TransactionID)
	if err != nil {
		h.respondServiceError(w, err, "POST", "/deposits")
		return
	}

	h.respondJSON(w, http.StatusCreated, models.MovementResponse{TransactionID: transactionID},
		"POST", "/deposits")
}

func (h *Handler) CreateWithdrawal(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(httpLatency.WithLabelValues("POST", "/withdrawals"))
	defer timer.ObserveDuration()

	var req models.MovementRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.respondServiceError(w, err, "POST", "/withdrawals")
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		h.respondServiceError(w, err, "POST", "/withdrawals")
		return
	}

	transactionID, err := h.movements.Withdraw(r.Context(), req.AccountNumber, amount, req.TransactionID)
	if err != nil {
		h.respondServiceError(w, err, "POST", "/withdrawals")
		return
	}

	h.respondJSON(w, http.StatusCreated, models.MovementResponse{TransactionID: transactionID},
		"POST", "/withdrawals")
}

func (h *Handler) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(httpLatency.WithLabelValues("POST", "/transfers"))
	defer timer.ObserveDuration()

	var req models.TransferRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.respondServiceError(w, err, "POST", "/transfers")
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		h.respondServiceError(w, err, "POST", "/transfers")
		return
	}

	transactionID, err := h.transfers.Transfer(r.Context(), req.FromAccount, req.ToAccount, amount, req.TransactionID)
	if err != nil {
		h.respondServiceError(w, err, "POST", "/transfers")
		return
	}

	h.respondJSON(w, http.StatusCreated, models.MovementResponse{TransactionID: transactionID},
		"POST", "/transfers")
}

func (h *Handler) GetTransfer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid transfer id", "GET", "/transfers/{id}")
		return
	}

	transfer, err := h.transfers.GetTransfer(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, "GET", "/transfers/{id}")
		return
	}

	h.respondJSON(w, http.StatusOK, transfer, "GET", "/transfers/{id}")
}
