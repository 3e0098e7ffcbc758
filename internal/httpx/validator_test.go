package httpx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type checkoutForm struct {
	PatronID string `json:"patron_id" validate:"required,uuid"`
	ISBN     string `json:"isbn" validate:"required,isbn13"`
}

func TestValidateStruct_ISBN13(t *testing.T) {
	valid := []string{
		"9780446310789",
		"978-0-446-31078-9",
		"978 0 446 31078 9",
	}
	for _, isbn := range valid {
		t.Run("accepts "+isbn, func(t *testing.T) {
			details := ValidateStruct(checkoutForm{
				PatronID: "b74d31a2-5f9c-4e47-9c10-8f53f1b0a001",
				ISBN:     isbn,
			})
			assert.Nil(t, details)
		})
	}

	invalid := []string{
		"123",
		"97804463107",
		"97804463107890",
		"978044631078X",
	}
	for _, isbn := range invalid {
		t.Run("rejects "+isbn, func(t *testing.T) {
			details := ValidateStruct(checkoutForm{
				PatronID: "b74d31a2-5f9c-4e47-9c10-8f53f1b0a001",
				ISBN:     isbn,
			})
			assert.Len(t, details, 1)
			assert.Equal(t, "iSBN", details[0].Field)
			assert.Contains(t, details[0].Message, "13-digit ISBN")
		})
	}
}

func TestValidateStruct_Required(t *testing.T) {
	details := ValidateStruct(checkoutForm{})

	assert.Len(t, details, 2)
	assert.Contains(t, details[0].Message, "required")
}

func TestValidateStruct_UUID(t *testing.T) {
	details := ValidateStruct(checkoutForm{
		PatronID: "not-a-uuid",
		ISBN:     "9780446310789",
	})

	assert.Len(t, details, 1)
	assert.Contains(t, details[0].Message, "UUID")
}
