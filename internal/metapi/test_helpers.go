package metapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// mockResponse represents a mocked HTTP response
type mockResponse struct {
	status      int
	body        string
	contentType string
}

// setupTestClient creates a test client pointed at the given server
func setupTestClient(tb testing.TB, server *httptest.Server) *Client {
	tb.Helper()

	config := Config{
		BaseURL:       server.URL,
		UserAgent:     "metscout-test",
		SearchTimeout: 5 * time.Second,
		ObjectTimeout: 5 * time.Second,
	}

	client, err := NewClient(config, nil)
	require.NoError(tb, err)

	return client
}

// setupMockServer creates a mock server with predefined responses keyed
// by path (plus raw query when present)
func setupMockServer(tb testing.TB, responses map[string]mockResponse) *httptest.Server {
	tb.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Path
		if r.URL.RawQuery != "" {
			key += "?" + r.URL.RawQuery
		}

		if response, ok := responses[key]; ok {
			if response.contentType != "" {
				w.Header().Set("Content-Type", response.contentType)
			} else {
				w.Header().Set("Content-Type", "application/json")
			}
			w.WriteHeader(response.status)
			_, _ = w.Write([]byte(response.body))
			return
		}

		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "Not Found"}`))
	}))
	tb.Cleanup(server.Close)

	return server
}
