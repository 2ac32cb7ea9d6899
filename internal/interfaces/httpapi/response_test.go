package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/pickem-league/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestWriteSuccess_GoogleEnvelope(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusOK, map[string]string{"status": "ok"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decodeEnvelope(t, rec)
	assert.Equal(t, "2.0", body["apiVersion"])
	assert.Contains(t, body, "data")
	assert.NotContains(t, body, "error")
}

func TestWriteError_GoogleEnvelope(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: week must be > 0", usecase.ErrInvalidInput))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, "2.0", body["apiVersion"])

	errorObj, ok := body["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "INVALID_ARGUMENT", errorObj["status"])
	assert.Contains(t, errorObj["message"], "week must be > 0")
}

func TestWriteError_HidesInternalDetails(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, errors.New("pq: relation \"picks\" does not exist"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	errorObj, ok := decodeEnvelope(t, rec)["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, internalMessage, errorObj["message"])
	assert.Equal(t, "INTERNAL", errorObj["status"])
}

func TestMapError_StatusCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		status int
		reason string
	}{
		{name: "invalid", err: fmt.Errorf("%w: bad season", usecase.ErrInvalidInput), status: http.StatusBadRequest, reason: "invalidInput"},
		{name: "not found", err: fmt.Errorf("%w: league 9", usecase.ErrNotFound), status: http.StatusNotFound, reason: "notFound"},
		{name: "forbidden", err: fmt.Errorf("%w: not a member", usecase.ErrForbidden), status: http.StatusForbidden, reason: "forbidden"},
		{name: "nothing to score", err: fmt.Errorf("%w: week 3", usecase.ErrNothingToScore), status: http.StatusConflict, reason: "failedPrecondition"},
		{name: "feed failure", err: fmt.Errorf("%w: espn down", usecase.ErrUpstream), status: http.StatusBadGateway, reason: "upstreamFailure"},
		{name: "unavailable", err: usecase.ErrDependencyUnavailable, status: http.StatusServiceUnavailable, reason: "dependencyUnavailable"},
		{name: "deadline", err: fmt.Errorf("sync: %w", context.DeadlineExceeded), status: http.StatusGatewayTimeout, reason: "deadlineExceeded"},
		{name: "unknown", err: errors.New("boom"), status: http.StatusInternalServerError, reason: "internalError"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(context.Background(), tt.err)
			assert.Equal(t, tt.status, got.HTTPStatus)
			assert.Equal(t, tt.reason, got.Reason)
		})
	}
}
