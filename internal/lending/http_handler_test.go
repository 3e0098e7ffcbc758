package lending

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"circulation/internal/catalog"
	"circulation/internal/patron"
)

func loanBody(patronID, isbn string) *strings.Reader {
	return strings.NewReader(fmt.Sprintf(`{"patron_id":%q,"isbn":%q}`, patronID, isbn))
}

func TestHTTPHandler_Checkout(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		e := newEngine(t)
		e.addTitle(t, testISBN, 1)
		patronID := e.addPatron(t)
		handler := NewHTTPHandler(e.svc)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/loans", loanBody(patronID, testISBN))

		handler.Checkout(w, r)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), patronID)
	})

	t.Run("validation failure", func(t *testing.T) {
		e := newEngine(t)
		handler := NewHTTPHandler(e.svc)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/loans", loanBody("not-a-uuid", "123"))

		handler.Checkout(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	})

	t.Run("no copies", func(t *testing.T) {
		e := newEngine(t)
		e.addTitle(t, testISBN, 1)
		first := e.addPatron(t)
		second := e.addPatron(t)
		handler := NewHTTPHandler(e.svc)

		_, err := e.svc.Checkout(ctx, first, testISBN)
		assert.NoError(t, err)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/loans", loanBody(second, testISBN))

		handler.Checkout(w, r)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "UNAVAILABLE")
	})

	t.Run("duplicate open loan", func(t *testing.T) {
		e := newEngine(t)
		e.addTitle(t, testISBN, 3)
		patronID := e.addPatron(t)
		handler := NewHTTPHandler(e.svc)

		_, err := e.svc.Checkout(ctx, patronID, testISBN)
		assert.NoError(t, err)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/loans", loanBody(patronID, testISBN))

		handler.Checkout(w, r)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "DUPLICATE_OPEN_LOAN")
	})

	t.Run("penalty ceiling", func(t *testing.T) {
		e := newEngine(t)
		e.addTitle(t, testISBN, 1)
		patronID := e.addPatron(t)
		e.seedUnpaid(t, patronID, "9780743273565", "60.00")
		handler := NewHTTPHandler(e.svc)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/loans", loanBody(patronID, testISBN))

		handler.Checkout(w, r)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "PENALTY_LIMIT_EXCEEDED")
	})
}

func TestHTTPHandler_Return(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		e := newEngine(t)
		e.addTitle(t, testISBN, 1)
		patronID := e.addPatron(t)
		handler := NewHTTPHandler(e.svc)

		_, err := e.svc.Checkout(ctx, patronID, testISBN)
		assert.NoError(t, err)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/loans/return", loanBody(patronID, testISBN))

		handler.Return(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "return_date")
	})

	t.Run("no active loan", func(t *testing.T) {
		e := newEngine(t)
		e.addTitle(t, testISBN, 1)
		patronID := e.addPatron(t)
		handler := NewHTTPHandler(e.svc)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/loans/return", loanBody(patronID, testISBN))

		handler.Return(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "NO_ACTIVE_LOAN")
	})
}

func TestHTTPHandler_Get(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		e := newEngine(t)
		handler := NewHTTPHandler(e.svc)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/loans/unknown", nil)
		r.SetPathValue("id", "unknown")

		handler.Get(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("repository failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		mockRepo := NewMockRepository(ctrl)
		catalogSvc := catalog.NewService(catalog.NewMemoryRepo())
		patronSvc := patron.NewService(patron.NewMemoryRepo(), mockRepo)
		handler := NewHTTPHandler(NewService(mockRepo, catalogSvc, patronSvc, DefaultPolicy()))

		mockRepo.EXPECT().GetByID(gomock.Any(), "rec-1").Return(Record{}, errors.New("db error"))

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/loans/rec-1", nil)
		r.SetPathValue("id", "rec-1")

		handler.Get(w, r)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
	})
}

func TestHTTPHandler_PayPenalty(t *testing.T) {
	t.Run("success then already paid", func(t *testing.T) {
		e := newEngine(t)
		patronID := e.addPatron(t)
		recID := e.seedUnpaid(t, patronID, testISBN, "5.00")
		handler := NewHTTPHandler(e.svc)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/loans/"+recID+"/penalty/pay", nil)
		r.SetPathValue("id", recID)

		handler.PayPenalty(w, r)
		assert.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		r = httptest.NewRequest(http.MethodPost, "/loans/"+recID+"/penalty/pay", nil)
		r.SetPathValue("id", recID)

		handler.PayPenalty(w, r)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "ALREADY_PAID")
	})

	t.Run("nothing due", func(t *testing.T) {
		e := newEngine(t)
		e.addTitle(t, testISBN, 1)
		patronID := e.addPatron(t)
		handler := NewHTTPHandler(e.svc)

		rec, err := e.svc.Checkout(context.Background(), patronID, testISBN)
		assert.NoError(t, err)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/loans/"+rec.ID+"/penalty/pay", nil)
		r.SetPathValue("id", rec.ID)

		handler.PayPenalty(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "NO_PENALTY_DUE")
	})
}

func TestHTTPHandler_UnpaidPenalties(t *testing.T) {
	e := newEngine(t)
	patronID := e.addPatron(t)
	e.seedUnpaid(t, patronID, "9780743273565", "5.00")
	e.seedUnpaid(t, patronID, "9781577314806", "12.50")
	handler := NewHTTPHandler(e.svc)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/patrons/"+patronID+"/penalties", nil)
	r.SetPathValue("id", patronID)

	handler.UnpaidPenalties(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_amount":"17.5"`)
}

func TestHTTPHandler_ListByPatron(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	e.addTitle(t, testISBN, 1)
	e.addTitle(t, "9780743273565", 1)
	patronID := e.addPatron(t)
	handler := NewHTTPHandler(e.svc)

	_, err := e.svc.Checkout(ctx, patronID, testISBN)
	assert.NoError(t, err)
	_, err = e.svc.Checkout(ctx, patronID, "9780743273565")
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/patrons/"+patronID+"/loans", nil)
	r.SetPathValue("id", patronID)

	handler.ListByPatron(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":2`)
}
