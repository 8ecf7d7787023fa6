package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/rebeliceyang/lazymarv/internal/models"
)

const (
	apiPrefix      = "/marv/api"
	contentJSON    = "application/json"
	contentJSONAPI = "application/vnd.api+json"
	maxErrorBody   = 4096
)

// Options configure a Client
type Options struct {
	BaseURL     string
	Timeout     time.Duration
	RateLimit   float64
	Burst       int
	Concurrency int
	Logger      *slog.Logger
	HTTPClient  *http.Client
}

// Client talks to a marv server
type Client struct {
	base        *url.URL
	http        *http.Client
	limiter     *rate.Limiter
	logger      *slog.Logger
	concurrency int
}

// NewClient creates a client for the server at opts.BaseURL
func NewClient(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid server url %q: scheme and host required", opts.BaseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 1
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	return &Client{
		base:        base,
		http:        httpClient,
		limiter:     rate.NewLimiter(limit, burst),
		logger:      logger,
		concurrency: concurrency,
	}, nil
}

// BaseURL returns the server root without a trailing slash
func (c *Client) BaseURL() string {
	return c.base.String()
}

// request describes one API call
type request struct {
	method      string
	path        string
	query       url.Values
	body        interface{}
	contentType string
}

// do sends req and decodes a JSON answer into out when out is not nil
func (c *Client) do(ctx context.Context, req request, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	u := *c.base
	u.Path = c.base.Path + apiPrefix + req.path
	if len(req.query) > 0 {
		u.RawQuery = req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u.String(), body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	reqID := uuid.NewString()
	httpReq.Header.Set("X-Request-ID", reqID)
	httpReq.Header.Set("Accept", contentJSON)
	if req.body != nil {
		contentType := req.contentType
		if contentType == "" {
			contentType = contentJSON
		}
		httpReq.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Error("request failed", "method", req.method, "path", req.path, "request_id", reqID, "error", err)
		return fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("request",
		"method", req.method,
		"path", req.path,
		"status", resp.StatusCode,
		"request_id", reqID,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &HTTPError{
			Method: req.method,
			Path:   apiPrefix + req.path,
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(data)),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", req.path, err)
	}
	return nil
}

func filterQuery(filterJSON string) url.Values {
	if filterJSON == "" {
		filterJSON = "{}"
	}
	return url.Values{"filter": []string{filterJSON}}
}

// Listing returns the filesets matching the filter JSON
func (c *Client) Listing(ctx context.Context, filterJSON string) (*models.ListingResult, error) {
	var result models.ListingResult
	err := c.do(ctx, request{method: http.MethodGet, path: "/_fileset-listing", query: filterQuery(filterJSON)}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Summary returns the summary widgets for the filter JSON
func (c *Client) Summary(ctx context.Context, filterJSON string) ([]models.Widget, error) {
	var result struct {
		Widgets []models.Widget `json:"widgets"`
	}
	err := c.do(ctx, request{method: http.MethodGet, path: "/_fileset-summary", query: filterQuery(filterJSON)}, &result)
	if err != nil {
		return nil, err
	}
	return result.Widgets, nil
}

// WebConfig returns the filter inputs the server supports
func (c *Client) WebConfig(ctx context.Context) (*models.WebConfig, error) {
	var cfg models.WebConfig
	if err := c.do(ctx, request{method: http.MethodGet, path: "/_webconfig"}, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FilesetDetail returns the detail record of a fileset
func (c *Client) FilesetDetail(ctx context.Context, id models.ID) (*models.FilesetDetail, json.RawMessage, error) {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	var raw json.RawMessage
	if err := c.do(ctx, request{method: http.MethodGet, path: "/_fileset-detail-by-md5/" + url.PathEscape(id.String())}, &raw); err != nil {
		return nil, nil, err
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Data) > 0 {
		raw = envelope.Data
	}

	var detail models.FilesetDetail
	if err := json.Unmarshal(raw, &detail); err != nil {
		return nil, nil, fmt.Errorf("failed to decode fileset detail: %w", err)
	}
	return &detail, raw, nil
}

type tagRequest struct {
	FilesetID models.ID `json:"fileset_id"`
	TagLabel  string    `json:"tag_label"`
}

// Tag adds label to a fileset
func (c *Client) Tag(ctx context.Context, filesetID models.ID, label string) error {
	return c.do(ctx, request{method: http.MethodPost, path: "/_tag", body: tagRequest{filesetID, label}}, nil)
}

// Untag removes label from a fileset
func (c *Client) Untag(ctx context.Context, filesetID models.ID, label string) error {
	return c.do(ctx, request{method: http.MethodPost, path: "/_untag", body: tagRequest{filesetID, label}}, nil)
}

// resource is a JSON:API resource object
type resource struct {
	ID            models.ID               `json:"id,omitempty"`
	Type          string                  `json:"type"`
	Attributes    json.RawMessage         `json:"attributes,omitempty"`
	Relationships map[string]relationship `json:"relationships,omitempty"`
}

type relationship struct {
	Data resourceID `json:"data"`
}

type resourceID struct {
	ID   models.ID `json:"id"`
	Type string    `json:"type"`
}

// CreateComment adds a comment to a fileset
func (c *Client) CreateComment(ctx context.Context, filesetID models.ID, text string) error {
	attrs, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return fmt.Errorf("failed to encode comment: %w", err)
	}
	body := map[string]resource{
		"data": {
			Type:       "comment",
			Attributes: attrs,
			Relationships: map[string]relationship{
				"fileset": {Data: resourceID{ID: filesetID, Type: "fileset"}},
			},
		},
	}
	return c.do(ctx, request{method: http.MethodPost, path: "/comment", body: body, contentType: contentJSONAPI}, nil)
}

// Tags returns every tag label known to the server
func (c *Client) Tags(ctx context.Context) ([]string, error) {
	var doc struct {
		Data []resource `json:"data"`
	}
	if err := c.do(ctx, request{method: http.MethodGet, path: "/tag"}, &doc); err != nil {
		return nil, err
	}

	labels := make([]string, 0, len(doc.Data))
	for _, r := range doc.Data {
		var attrs struct {
			Label string `json:"label"`
		}
		if err := json.Unmarshal(r.Attributes, &attrs); err != nil {
			return nil, fmt.Errorf("failed to decode tag %s: %w", r.ID, err)
		}
		labels = append(labels, attrs.Label)
	}
	return labels, nil
}

// Fileset returns the fileset resource
func (c *Client) Fileset(ctx context.Context, id models.ID) (*models.Fileset, error) {
	var doc struct {
		Data resource `json:"data"`
	}
	if err := c.do(ctx, request{method: http.MethodGet, path: "/fileset/" + url.PathEscape(id.String())}, &doc); err != nil {
		return nil, err
	}

	fs := models.Fileset{}
	if err := json.Unmarshal(doc.Data.Attributes, &fs); err != nil {
		return nil, fmt.Errorf("failed to decode fileset %s: %w", id, err)
	}
	fs.ID = doc.Data.ID
	return &fs, nil
}

// Files returns the files of a fileset
func (c *Client) Files(ctx context.Context, filesetID models.ID) ([]models.File, error) {
	var doc struct {
		Data []resource `json:"data"`
	}
	path := "/fileset/" + url.PathEscape(filesetID.String()) + "/files"
	if err := c.do(ctx, request{method: http.MethodGet, path: path}, &doc); err != nil {
		return nil, err
	}

	files := make([]models.File, 0, len(doc.Data))
	for _, r := range doc.Data {
		var f models.File
		if err := json.Unmarshal(r.Attributes, &f); err != nil {
			return nil, fmt.Errorf("failed to decode file %s: %w", r.ID, err)
		}
		f.ID = r.ID
		files = append(files, f)
	}
	return files, nil
}

// DeleteFileset marks a fileset as deleted
func (c *Client) DeleteFileset(ctx context.Context, id models.ID) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/_fileset/" + url.PathEscape(id.String())}, nil)
}
