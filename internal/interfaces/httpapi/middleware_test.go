package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/riskibarqy/pickem-league/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestBearerToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{name: "valid", header: "Bearer abc.def", want: "abc.def"},
		{name: "scheme is case insensitive", header: "bearer   abc ", want: "abc"},
		{name: "missing", header: "  ", wantErr: true},
		{name: "wrong scheme", header: "Basic dXNlcg==", wantErr: true},
		{name: "no token", header: "Bearer ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := bearerToken(tt.header)
			if tt.wantErr {
				require.ErrorIs(t, err, usecase.ErrUnauthorized)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRequireInternalJobToken(t *testing.T) {
	t.Parallel()

	handler := RequireInternalJobToken(" job-secret ", okHandler)

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{name: "match", token: "job-secret", status: http.StatusOK},
		{name: "mismatch", token: "job-secreT", status: http.StatusUnauthorized},
		{name: "prefix only", token: "job", status: http.StatusUnauthorized},
		{name: "absent", token: "", status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/sweep-reminders", nil)
			if tt.token != "" {
				req.Header.Set(internalJobTokenHeader, tt.token)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestCORS_AllowsConfiguredOrigin(t *testing.T) {
	t.Parallel()

	handler := CORS([]string{" https://pickem.example.com ", ""}, okHandler)

	req := httptest.NewRequest(http.MethodGet, "/v1/sports", nil)
	req.Header.Set("Origin", "https://pickem.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://pickem.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", rec.Header().Get("Vary"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), internalJobTokenHeader)
}

func TestCORS_OptionsPreflight(t *testing.T) {
	t.Parallel()

	handler := CORS([]string{"*"}, okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/v1/leagues/1/picks", nil)
	req.Header.Set("Origin", "https://pickem.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Vary"))
}

func TestCORS_DisallowsUnconfiguredOrigin(t *testing.T) {
	t.Parallel()

	handler := CORS([]string{"https://allowed.example.com"}, okHandler)

	req := httptest.NewRequest(http.MethodGet, "/v1/sports", nil)
	req.Header.Set("Origin", "https://not-allowed.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestShouldTraceRequest(t *testing.T) {
	t.Parallel()

	for _, path := range []string{"/healthz", "/health", "/livez", "/readyz", " /HEALTHZ "} {
		assert.False(t, shouldTraceRequest(path), path)
	}
	for _, path := range []string{"/v1/sports", "/v1/leagues/1/standings", "/"} {
		assert.True(t, shouldTraceRequest(path), path)
	}
}
