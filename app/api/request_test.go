package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mytheresa/inventory-ledger/models"
)

type movementRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Type      string `json:"type" validate:"required,oneof=ENTRY EXIT"`
	Quantity  int    `json:"quantity" validate:"gt=0,lte=1000"`
	Reason    string `json:"reason" validate:"max=5"`
}

func TestDecodeJSON(t *testing.T) {
	testCases := []struct {
		name        string
		body        string
		expectedErr string
	}{
		{name: "Valid", body: `{"productId":"p","type":"ENTRY","quantity":2}`},
		{name: "Malformed", body: `{"productId":`, expectedErr: "invalid JSON body"},
		{name: "Unknown field", body: `{"productId":"p","type":"ENTRY","quantity":2,"extra":1}`, expectedErr: "invalid JSON body"},
		{name: "Missing product", body: `{"type":"ENTRY","quantity":2}`, expectedErr: "productId is required"},
		{name: "Bad type", body: `{"productId":"p","type":"MOVE","quantity":2}`, expectedErr: "type must be one of ENTRY EXIT"},
		{name: "Zero quantity", body: `{"productId":"p","type":"EXIT","quantity":0}`, expectedErr: "quantity must be greater than 0"},
		{name: "Quantity over the limit", body: `{"productId":"p","type":"EXIT","quantity":1001}`, expectedErr: "quantity must be at most 1000"},
		{name: "Reason too long", body: `{"productId":"p","type":"EXIT","quantity":1,"reason":"damaged"}`, expectedErr: "reason must be at most 5 characters"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(tc.body))
			var dst movementRequest

			err := DecodeJSON(req, &dst)

			if tc.expectedErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, models.ErrValidation)
			assert.ErrorContains(t, err, tc.expectedErr)
		})
	}
}

func TestFail_LogsOnlyServerErrors(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)

	Fail(httptest.NewRecorder(), req, logger, models.ErrProductNotFound)
	assert.Equal(t, 0, logs.Len())

	rec := httptest.NewRecorder()
	Fail(rec, req, logger, errors.New("db down"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, 1, logs.Len())
}
