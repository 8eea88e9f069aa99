// Package api implements the HTTP and server-push client for the remote
// resource hub backend. The backend is an external collaborator: this
// package only speaks its wire contract and never interprets authorization.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/cse-resource-hub/internal/models"
	"github.com/noah-isme/cse-resource-hub/pkg/config"
	appErrors "github.com/noah-isme/cse-resource-hub/pkg/errors"
)

// Client talks to the resource hub backend over HTTP.
type Client struct {
	baseURL string
	// http serves request/response calls and carries a total timeout.
	// stream serves the long-lived events subscription, whose lifetime
	// is bounded by the caller's context instead.
	http   *http.Client
	stream *http.Client
	logger *zap.Logger
}

// NewClient builds a client from configuration.
func NewClient(cfg *config.Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Backend.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.Backend.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		stream:  &http.Client{},
		logger:  logger,
	}
}

// Login exchanges the login payload for a session identity.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.Identity, error) {
	var identity models.Identity
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", nil, req, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

// ListResources fetches the general listing with the filter serialized as
// query parameters. Absent filter fields are omitted from the query.
func (c *Client) ListResources(ctx context.Context, filter models.Filter) ([]models.Resource, error) {
	query := url.Values{}
	if filter.Semester != nil {
		query.Set("semester", strconv.Itoa(*filter.Semester))
	}
	if filter.Subject != "" {
		query.Set("subject", filter.Subject)
	}
	var resources []models.Resource
	if err := c.doJSON(ctx, http.MethodGet, "/resources", query, nil, &resources); err != nil {
		return nil, err
	}
	return resources, nil
}

// PendingResources fetches the dedicated pending listing. The status is
// forced regardless of any filter the caller holds.
func (c *Client) PendingResources(ctx context.Context) ([]models.Resource, error) {
	query := url.Values{}
	query.Set("status", string(models.StatusPending))
	var resources []models.Resource
	if err := c.doJSON(ctx, http.MethodGet, "/resources/pending", query, nil, &resources); err != nil {
		return nil, err
	}
	return resources, nil
}

// CreateResource submits a new resource draft and returns the created
// record (status pending by server convention).
func (c *Client) CreateResource(ctx context.Context, req models.CreateResourceRequest) (*models.Resource, error) {
	var created models.Resource
	if err := c.doJSON(ctx, http.MethodPost, "/resources", nil, req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ApproveResource posts an approval decision. The backend may answer with
// the updated resource or an empty body; both are accepted.
func (c *Client) ApproveResource(ctx context.Context, id, approvedBy string) (*models.Resource, error) {
	path := fmt.Sprintf("/resources/%s/approve", url.PathEscape(id))
	body, err := c.do(ctx, http.MethodPost, path, nil, models.ApproveRequest{ApprovedBy: approvedBy})
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	var updated models.Resource
	if err := json.Unmarshal(body, &updated); err != nil {
		// Tolerate non-resource success bodies.
		return nil, nil
	}
	return &updated, nil
}

// doJSON performs a request and decodes the success body into out.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, payload, out interface{}) error {
	body, err := c.do(ctx, method, path, query, payload)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("decode %s %s response", method, path))
	}
	return nil
}

// do performs a request against the backend and returns the raw success
// body. Non-2xx statuses are converted into typed errors.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload interface{}) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode request payload")
		}
		reqBody = bytes.NewReader(encoded)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build request")
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, fmt.Sprintf("%s %s", method, path))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, fmt.Sprintf("read %s %s response", method, path))
	}

	c.logger.Debug("backend_request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, appErrors.FromStatus(resp.StatusCode, errorMessage(body))
	}
	return body, nil
}

// errorMessage extracts a human-readable message from an error body when
// the backend provides one.
func errorMessage(body []byte) string {
	var wire struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &wire); err != nil {
		return ""
	}
	if wire.Error != "" {
		return wire.Error
	}
	return wire.Message
}
