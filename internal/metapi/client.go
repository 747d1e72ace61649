// Package metapi implements the client for the Metropolitan Museum of Art
// collection API. The client performs plain HTTP calls with per-call
// timeouts and typed failures; caching is the caller's responsibility.
package metapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/metscout/metscout/internal/errors"
	"github.com/metscout/metscout/internal/httpclient"
	"github.com/metscout/metscout/internal/logging"
	"github.com/metscout/metscout/internal/observability/metrics"
)

// Package-level logger specific to the metapi service
var (
	logger          *slog.Logger
	serviceLevelVar = new(slog.LevelVar) // Dynamic level control
	closeLogger     func() error
)

func init() {
	var err error
	logFilePath := filepath.Join("logs", "metapi.log")
	serviceLevelVar.Set(slog.LevelDebug)

	logger, closeLogger, err = logging.NewFileLogger(logFilePath, "metapi", serviceLevelVar)
	if err != nil {
		log.Printf("Failed to initialize metapi file logger at %s: %v. Service logging disabled.", logFilePath, err)
		fbHandler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: serviceLevelVar})
		logger = slog.New(fbHandler).With("service", "metapi")
		closeLogger = func() error { return nil }
	}
}

// Client provides methods for interacting with the Met collection API.
type Client struct {
	config     Config
	httpClient *httpclient.Client
	metrics    *metrics.UpstreamMetrics // may be nil
	debug      bool
}

// NewClient creates a new Met API client. The metrics argument may be nil
// when no collector is wired in (e.g. one-shot CLI runs).
func NewClient(config Config, m *metrics.UpstreamMetrics) (*Client, error) {
	if config.BaseURL == "" {
		config.BaseURL = DefaultConfig().BaseURL
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultConfig().UserAgent
	}
	if config.SearchTimeout == 0 {
		config.SearchTimeout = DefaultConfig().SearchTimeout
	}
	if config.ObjectTimeout == 0 {
		config.ObjectTimeout = DefaultConfig().ObjectTimeout
	}

	hc := httpclient.New(&httpclient.Config{
		DefaultTimeout: config.SearchTimeout,
		UserAgent:      config.UserAgent,
	})

	client := &Client{
		config:     config,
		httpClient: hc,
		metrics:    m,
	}

	logger.Info("Met API client initialized",
		"base_url", config.BaseURL,
		"search_timeout", config.SearchTimeout,
		"object_timeout", config.ObjectTimeout)

	return client, nil
}

// SetDebug enables verbose request logging.
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// Close releases the client's idle connections and the service log file.
func (c *Client) Close() {
	c.httpClient.Close()
	if closeLogger != nil {
		if err := closeLogger(); err != nil {
			log.Printf("Error closing metapi logger: %v", err)
		}
	}
}

// Search runs a free-text query and returns the matching object ids.
// A nil objectIDs array upstream is normalized to an empty slice.
func (c *Client) Search(ctx context.Context, query string, hasImages bool) (*SearchResult, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.config.SearchTimeout)
	defer cancel()

	u := fmt.Sprintf("%s/search?hasImages=%t&q=%s", c.config.BaseURL, hasImages, url.QueryEscape(query))

	var result SearchResult
	if err := c.doRequest(reqCtx, "search", u, &result); err != nil {
		return nil, err
	}

	if result.ObjectIDs == nil {
		result.ObjectIDs = []int{}
	}

	logger.Debug("search completed",
		"query", query,
		"has_images", hasImages,
		"total", result.Total)

	return &result, nil
}

// SearchByPeriod runs a wildcard query constrained by departments and a
// date range. Department ids are optional.
func (c *Client) SearchByPeriod(ctx context.Context, departmentIDs []int, dateBegin, dateEnd int, hasImages bool) (*SearchResult, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.config.SearchTimeout)
	defer cancel()

	params := url.Values{}
	if len(departmentIDs) > 0 {
		ids := make([]string, 0, len(departmentIDs))
		for _, id := range departmentIDs {
			ids = append(ids, strconv.Itoa(id))
		}
		params.Set("departmentIds", strings.Join(ids, "|"))
	}
	params.Set("dateBegin", strconv.Itoa(dateBegin))
	params.Set("dateEnd", strconv.Itoa(dateEnd))
	params.Set("hasImages", strconv.FormatBool(hasImages))
	params.Set("q", "*")

	u := fmt.Sprintf("%s/search?%s", c.config.BaseURL, params.Encode())

	var result SearchResult
	if err := c.doRequest(reqCtx, "period", u, &result); err != nil {
		return nil, err
	}

	if result.ObjectIDs == nil {
		result.ObjectIDs = []int{}
	}

	logger.Debug("period search completed",
		"date_begin", dateBegin,
		"date_end", dateEnd,
		"total", result.Total)

	return &result, nil
}

// GetObject fetches the raw payload of a single object. A missing object
// returns an error with CategoryNotFound; callers treat it as "no data".
func (c *Client) GetObject(ctx context.Context, id int) (*ObjectRecord, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.config.ObjectTimeout)
	defer cancel()

	u := fmt.Sprintf("%s/objects/%d", c.config.BaseURL, id)

	var record ObjectRecord
	if err := c.doRequest(reqCtx, "object", u, &record); err != nil {
		return nil, err
	}

	return &record, nil
}

// doRequest performs a GET request and decodes the JSON body into result.
func (c *Client) doRequest(ctx context.Context, endpoint, u string, result any) error {
	start := time.Now()

	if c.metrics != nil {
		c.metrics.IncrementAPICalls(endpoint)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		if c.metrics != nil {
			c.metrics.IncrementAPIErrors(endpoint)
		}
		return errors.Newf("failed to create HTTP request: %w", err).
			Category(errors.CategoryNetwork).
			Context("url", u).
			Component("metapi").
			Build()
	}
	req.Header.Set("Accept", "application/json")

	if c.debug {
		logger.Debug("Met API request", "endpoint", endpoint, "url", u)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		if c.metrics != nil {
			c.metrics.IncrementAPIErrors(endpoint)
		}
		logger.Error("Met API request failed",
			"error", err,
			"endpoint", endpoint,
			"url", u)
		return errors.Newf("HTTP request failed: %w", err).
			Category(errors.CategoryNetwork).
			Context("endpoint", endpoint).
			Context("url", u).
			Component("metapi").
			Build()
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		if c.metrics != nil {
			c.metrics.IncrementAPIErrors(endpoint)
		}
		logger.Error("Failed to read response body",
			"error", err,
			"url", u,
			"status_code", resp.StatusCode)
		return errors.Newf("failed to read response body: %w", err).
			Category(errors.CategoryNetwork).
			Context("url", u).
			Context("status_code", resp.StatusCode).
			Component("metapi").
			Build()
	}

	if resp.StatusCode >= 400 {
		if c.metrics != nil {
			c.metrics.IncrementAPIErrors(endpoint)
		}

		var apiErr Error
		_ = json.Unmarshal(bodyBytes, &apiErr)
		apiErr.Status = resp.StatusCode

		logger.Warn("Met API error response",
			"status_code", resp.StatusCode,
			"message", apiErr.Message,
			"url", u)

		return errors.Newf("Met API error (status %d): %s", resp.StatusCode, apiErr.Message).
			Category(statusCategory(resp.StatusCode)).
			Context("status_code", resp.StatusCode).
			Context("endpoint", endpoint).
			Context("url", u).
			Component("metapi").
			Build()
	}

	if result != nil {
		if err := json.Unmarshal(bodyBytes, result); err != nil {
			responsePreview := string(bodyBytes)
			if len(responsePreview) > 500 {
				responsePreview = responsePreview[:500] + "..."
			}

			logger.Error("Failed to parse Met API response",
				"error", err,
				"url", u,
				"response_size", len(bodyBytes),
				"response_preview", responsePreview)
			return errors.Newf("failed to parse response: %w", err).
				Category(errors.CategoryParsing).
				Context("url", u).
				Context("response_size", len(bodyBytes)).
				Component("metapi").
				Build()
		}
	}

	duration := time.Since(start)
	if c.metrics != nil {
		c.metrics.ObserveRequestDuration(duration.Seconds())
	}

	if c.debug {
		logger.Debug("Met API response",
			"endpoint", endpoint,
			"status_code", resp.StatusCode,
			"duration_ms", duration.Milliseconds(),
			"response_size", len(bodyBytes))
	}

	return nil
}

// statusCategory determines the appropriate error category based on HTTP status code.
func statusCategory(statusCode int) errors.ErrorCategory {
	switch {
	case statusCode == http.StatusNotFound:
		return errors.CategoryNotFound
	case statusCode == http.StatusTooManyRequests:
		return errors.CategoryLimit
	case statusCode >= 500:
		return errors.CategoryNetwork
	default:
		return errors.CategoryHTTP
	}
}

// StatusCode extracts the upstream HTTP status from an error returned by
// this package. It returns 0 when the error carries no status.
func StatusCode(err error) int {
	var enhancedErr *errors.EnhancedError
	if !errors.As(err, &enhancedErr) {
		return 0
	}
	if code, ok := enhancedErr.GetContext()["status_code"].(int); ok {
		return code
	}
	return 0
}

// IsServerError reports whether an error corresponds to an upstream 5xx response.
func IsServerError(err error) bool {
	return StatusCode(err) >= 500
}
