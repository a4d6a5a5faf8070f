package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/erickaser0011-byte/royal-fox-admin/config"
	"github.com/erickaser0011-byte/royal-fox-admin/model"
)

// BackendClient talks to the applications API. The base URL is runtime
// configurable: it starts from config and is replaced by whatever the
// operator enters on the login form. Every call is a single attempt; errors
// are returned to the handler, which surfaces them as a notice.
type BackendClient struct {
	mu         sync.RWMutex
	baseURL    string
	httpClient *http.Client
}

type listEnvelope struct {
	Success bool                `json:"success"`
	Data    []model.Application `json:"data"`
}

type deleteEnvelope struct {
	Success bool `json:"success"`
}

func NewBackendClient(cfg *config.BackendConfig) *BackendClient {
	return &BackendClient{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

// SetBaseURL switches the client to a new backend address.
func (c *BackendClient) SetBaseURL(baseURL string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.baseURL = strings.TrimSuffix(baseURL, "/")
}

func (c *BackendClient) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

// ListApplications fetches the full application list. Records are
// normalized before they are returned so callers never see a missing
// nested group.
func (c *BackendClient) ListApplications(ctx context.Context) ([]model.Application, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL()+"/api/applications", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach backend: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var envelope listEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if !envelope.Success {
		return nil, fmt.Errorf("backend reported failure listing applications")
	}

	for i := range envelope.Data {
		envelope.Data[i].Normalize()
	}

	return envelope.Data, nil
}

// DeleteApplication deletes one application by its external id. A nil
// return means the backend confirmed the deletion; any error means local
// state must stay untouched.
func (c *BackendClient) DeleteApplication(ctx context.Context, applicationID string) error {
	url := fmt.Sprintf("%s/api/applications/%s", c.BaseURL(), applicationID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach backend: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var envelope deleteEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if !envelope.Success {
		return fmt.Errorf("backend reported failure deleting application %s", applicationID)
	}

	return nil
}

// FileURL resolves a stored-file reference to a downloadable URL. This is
// pure concatenation, not a network call.
func (c *BackendClient) FileURL(storedPath string) string {
	return c.BaseURL() + "/" + strings.TrimPrefix(storedPath, "/")
}

// FetchFile streams a stored file from the backend. The caller owns the
// returned body and must close it.
func (c *BackendClient) FetchFile(ctx context.Context, storedPath string) (io.ReadCloser, string, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.FileURL(storedPath), nil)
	if err != nil {
		return nil, "", 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", 0, fmt.Errorf("failed to reach backend: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, "", 0, fmt.Errorf("backend returned status %d for %s", resp.StatusCode, storedPath)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return resp.Body, contentType, resp.ContentLength, nil
}
