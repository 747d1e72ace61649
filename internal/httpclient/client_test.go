package httpclient

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockedClient(t *testing.T, cfg *Config) *Client {
	t.Helper()

	c := New(cfg)
	httpmock.ActivateNonDefault(c.client)
	t.Cleanup(httpmock.DeactivateAndReset)
	return c
}

func TestDoInjectsUserAgent(t *testing.T) {
	c := newMockedClient(t, &Config{UserAgent: "metscout-test/1.0"})

	var gotUA string
	httpmock.RegisterResponder(http.MethodGet, "https://example.org/ping",
		func(req *http.Request) (*http.Response, error) {
			gotUA = req.Header.Get("User-Agent")
			return httpmock.NewStringResponse(http.StatusOK, `{"ok":true}`), nil
		})

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, "https://example.org/ping", http.NoBody)
	require.NoError(t, err)

	resp, err := c.Do(context.Background(), req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
	assert.Equal(t, "metscout-test/1.0", gotUA)
}

func TestDoKeepsCallerUserAgent(t *testing.T) {
	c := newMockedClient(t, nil)

	var gotUA string
	httpmock.RegisterResponder(http.MethodGet, "https://example.org/ua",
		func(req *http.Request) (*http.Response, error) {
			gotUA = req.Header.Get("User-Agent")
			return httpmock.NewStringResponse(http.StatusOK, "ok"), nil
		})

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, "https://example.org/ua", http.NoBody)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "custom-agent")

	resp, err := c.Do(context.Background(), req)
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, "custom-agent", gotUA)
}

func TestDoRunsHooks(t *testing.T) {
	c := newMockedClient(t, nil)

	httpmock.RegisterResponder(http.MethodGet, "https://example.org/hooked",
		httpmock.NewStringResponder(http.StatusOK, "ok"))

	var before, after int
	c.SetBeforeRequestHook(func(*http.Request) { before++ })
	c.SetAfterResponseHook(func(*http.Request, *http.Response, error) { after++ })

	resp, err := c.Get(context.Background(), "https://example.org/hooked")
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, 1, before)
	assert.Equal(t, 1, after)
}

func TestDoCancelledContext(t *testing.T) {
	c := newMockedClient(t, nil)

	httpmock.RegisterResponder(http.MethodGet, "https://example.org/slow",
		httpmock.NewStringResponder(http.StatusOK, "ok"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Get(ctx, "https://example.org/slow")
	require.Error(t, err)
}
