package lending

import (
	"encoding/json"
	"errors"
	"net/http"

	"circulation/internal/catalog"
	"circulation/internal/httpx"
)

type HTTPHandler struct {
	svc *Service
}

func NewHTTPHandler(svc *Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

type LoanRequest struct {
	PatronID string `json:"patron_id" validate:"required,uuid"`
	ISBN     string `json:"isbn" validate:"required,isbn13"`
}

// Checkout handles POST /loans
func (h *HTTPHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeLoanRequest(w, r)
	if !ok {
		return
	}

	rec, err := h.svc.Checkout(r.Context(), req.PatronID, req.ISBN)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, rec)
}

// Return handles POST /loans/return
func (h *HTTPHandler) Return(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeLoanRequest(w, r)
	if !ok {
		return
	}

	rec, err := h.svc.Return(r.Context(), req.PatronID, req.ISBN)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, rec, nil)
}

// Get handles GET /loans/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, rec, nil)
}

// ListByPatron handles GET /patrons/{id}/loans
func (h *HTTPHandler) ListByPatron(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.ListByPatron(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, records, map[string]any{"total": len(records)})
}

// PayPenalty handles POST /loans/{id}/penalty/pay
func (h *HTTPHandler) PayPenalty(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.PayPenalty(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, map[string]any{"status": "penalty paid"}, nil)
}

// UnpaidPenalties handles GET /patrons/{id}/penalties
func (h *HTTPHandler) UnpaidPenalties(w http.ResponseWriter, r *http.Request) {
	records, total, err := h.svc.UnpaidPenalties(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, map[string]any{
		"records":      records,
		"total_amount": total,
	}, nil)
}

func decodeLoanRequest(w http.ResponseWriter, r *http.Request) (LoanRequest, bool) {
	var req LoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body", nil)
		return LoanRequest{}, false
	}
	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", details)
		return LoanRequest{}, false
	}
	return req, true
}

// writeDomainError maps engine errors onto stable HTTP codes. Integrity
// faults get their own code so operators can tell an expected rejection from
// data corruption.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, catalog.ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, ErrNoActiveLoan):
		httpx.JSONError(w, r, http.StatusNotFound, "NO_ACTIVE_LOAN", err.Error(), nil)
	case errors.Is(err, ErrUnavailable):
		httpx.JSONError(w, r, http.StatusConflict, "UNAVAILABLE", err.Error(), nil)
	case errors.Is(err, ErrDuplicateOpenLoan):
		httpx.JSONError(w, r, http.StatusConflict, "DUPLICATE_OPEN_LOAN", err.Error(), nil)
	case errors.Is(err, ErrPenaltyLimitExceeded):
		httpx.JSONError(w, r, http.StatusForbidden, "PENALTY_LIMIT_EXCEEDED", err.Error(), nil)
	case errors.Is(err, ErrAlreadyPaid):
		httpx.JSONError(w, r, http.StatusConflict, "ALREADY_PAID", err.Error(), nil)
	case errors.Is(err, ErrNoPenaltyDue):
		httpx.JSONError(w, r, http.StatusBadRequest, "NO_PENALTY_DUE", err.Error(), nil)
	case errors.Is(err, ErrLedgerIntegrity), errors.Is(err, catalog.ErrInventoryIntegrity):
		httpx.JSONError(w, r, http.StatusInternalServerError, "DATA_INTEGRITY", "Data integrity violation", nil)
	default:
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
