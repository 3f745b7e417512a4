package logging

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	logger, err := New("debug")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	_, err = New("loud")
	assert.Error(t, err)
}

func TestMiddleware(t *testing.T) {
	testCases := []struct {
		name          string
		status        int
		expectedLevel zapcore.Level
	}{
		{name: "Success logs at info", status: http.StatusCreated, expectedLevel: zapcore.InfoLevel},
		{name: "Client error logs at info", status: http.StatusNotFound, expectedLevel: zapcore.InfoLevel},
		{name: "Server error logs at error", status: http.StatusInternalServerError, expectedLevel: zapcore.ErrorLevel},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.InfoLevel)
			handler := Middleware(zap.New(core), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))

			assert.Equal(t, tc.status, rec.Code)
			require.Equal(t, 1, logs.Len())
			entry := logs.All()[0]
			assert.Equal(t, tc.expectedLevel, entry.Level)
			assert.Equal(t, "/api/products", entry.ContextMap()["path"])
			assert.EqualValues(t, tc.status, entry.ContextMap()["status"])
		})
	}
}
