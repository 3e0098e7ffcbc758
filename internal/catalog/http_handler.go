package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"circulation/internal/httpx"
)

type HTTPHandler struct {
	svc *Service
}

func NewHTTPHandler(svc *Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

type AddTitleRequest struct {
	ISBN            string `json:"isbn" validate:"required,isbn13"`
	Title           string `json:"title" validate:"required,max=255"`
	Author          string `json:"author" validate:"required,max=255"`
	Genre           string `json:"genre" validate:"max=100"`
	PublishDate     string `json:"publish_date"`
	TotalCopies     int    `json:"total_copies" validate:"gte=0"`
	AvailableCopies int    `json:"available_copies" validate:"gte=0"`
}

// Create handles POST /titles
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req AddTitleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body", nil)
		return
	}

	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", details)
		return
	}
	if req.AvailableCopies > req.TotalCopies {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Available copies cannot exceed total copies", nil)
		return
	}

	title, err := h.svc.Add(r.Context(), Title{
		ISBN:            req.ISBN,
		Title:           req.Title,
		Author:          req.Author,
		Genre:           req.Genre,
		PublishDate:     req.PublishDate,
		TotalCopies:     req.TotalCopies,
		AvailableCopies: req.AvailableCopies,
	})
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	httpx.JSONSuccessCreated(w, r, title)
}

// List handles GET /titles
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	h.respondList(w, r, h.svc.List)
}

// ListAvailable handles GET /titles/available
func (h *HTTPHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	h.respondList(w, r, h.svc.ListAvailable)
}

func (h *HTTPHandler) respondList(w http.ResponseWriter, r *http.Request, list func(context.Context, int, int) ([]Title, int, error)) {
	query := r.URL.Query()

	page, _ := strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(query.Get("page_size"))
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	titles, total, err := list(r.Context(), pageSize, (page-1)*pageSize)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	httpx.JSONSuccess(w, r, titles, map[string]any{
		"page":        page,
		"page_size":   pageSize,
		"total":       total,
		"total_pages": (total + pageSize - 1) / pageSize,
	})
}

// GetByISBN handles GET /titles/{isbn}
func (h *HTTPHandler) GetByISBN(w http.ResponseWriter, r *http.Request) {
	isbn := r.PathValue("isbn")
	if isbn == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "ISBN is required", nil)
		return
	}

	title, err := h.svc.GetByISBN(r.Context(), isbn)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Title not found", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, title, nil)
}

// Availability handles GET /titles/{isbn}/availability
func (h *HTTPHandler) Availability(w http.ResponseWriter, r *http.Request) {
	isbn := r.PathValue("isbn")
	if isbn == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "ISBN is required", nil)
		return
	}

	available, err := h.svc.IsAvailable(r.Context(), isbn)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Title not found", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, map[string]any{"isbn": isbn, "available": available}, nil)
}
