// Package azuredevops implements the outbound REST client for the Azure
// DevOps work-item tracking and user entitlement APIs.
package azuredevops

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/azproxy/backend/internal/domain/workitem"
)

// maxResponseSize is the maximum allowed response size from Azure DevOps (10MB)
const maxResponseSize = 10 * 1024 * 1024

// jsonPatchContentType is required by the work-item creation endpoint.
const jsonPatchContentType = "application/json-patch+json"

// UpstreamError carries a non-2xx Azure DevOps response so callers can
// surface the upstream status and body to their own clients.
type UpstreamError struct {
	StatusCode int
	Body       []byte
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("azuredevops: upstream returned HTTP %d", e.StatusCode)
}

// JSONBody returns the upstream body decoded as JSON. A body that is not
// valid JSON is wrapped as {"raw_text": "..."} so it stays embeddable.
func (e *UpstreamError) JSONBody() any {
	var decoded any
	if err := json.Unmarshal(e.Body, &decoded); err != nil {
		return map[string]string{"raw_text": string(e.Body)}
	}
	return decoded
}

// Client talks to the Azure DevOps REST API on behalf of a single
// organization.
type Client struct {
	config     *Config
	httpClient *http.Client
}

// NewClient creates an Azure DevOps client with the given configuration
func NewClient(config *Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout:   config.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}, nil
}

// Organization returns the organization slug this client is bound to.
func (c *Client) Organization() string {
	return c.config.Organization
}

// BaseURL returns the REST endpoint this client is bound to.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// ListProjects fetches the organization's project list and returns the
// upstream response body verbatim.
func (c *Client) ListProjects(ctx context.Context) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/%s/_apis/projects?api-version=%s",
		c.config.BaseURL, c.config.Organization, url.QueryEscape(c.config.APIVersion))

	body, status, err := c.doRequest(ctx, http.MethodGet, endpoint, "", nil)
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		return nil, &UpstreamError{StatusCode: status, Body: body}
	}
	return body, nil
}

// FindUserPrincipalName resolves a user's sign-in principal by display
// name via the entitlements API. The comparison trims whitespace and
// ignores case. A failed or empty entitlements lookup is reported as a
// miss, not an error.
func (c *Client) FindUserPrincipalName(ctx context.Context, displayName string) (string, bool, error) {
	query := url.Values{}
	query.Set("api-version", c.config.EntitlementsAPIVersion)
	query.Set("$filter", fmt.Sprintf("name eq '%s'", displayName))
	endpoint := fmt.Sprintf("%s/%s/_apis/userentitlements?%s",
		c.config.EntitlementsBaseURL, c.config.Organization, query.Encode())

	body, status, err := c.doRequest(ctx, http.MethodGet, endpoint, "", nil)
	if err != nil {
		return "", false, err
	}
	if status >= 400 {
		return "", false, nil
	}

	var resp entitlementsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", false, nil
	}

	want := normalizeName(displayName)
	for _, entry := range resp.entries() {
		if normalizeName(entry.User.displayName()) != want {
			continue
		}
		if principal := entry.User.principal(); principal != "" {
			return principal, true, nil
		}
	}
	return "", false, nil
}

// CreateBug posts a JSON Patch document to the work-item creation
// endpoint and returns the upstream response body verbatim.
func (c *Client) CreateBug(ctx context.Context, project string, ops []workitem.PatchOperation) (json.RawMessage, error) {
	payload, err := json.Marshal(ops)
	if err != nil {
		return nil, fmt.Errorf("azuredevops: failed to encode patch document: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/%s/_apis/wit/workitems/$Bug?api-version=%s",
		c.config.BaseURL, c.config.Organization, url.PathEscape(project), url.QueryEscape(c.config.APIVersion))

	body, status, err := c.doRequest(ctx, http.MethodPost, endpoint, jsonPatchContentType, payload)
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		return nil, &UpstreamError{StatusCode: status, Body: body}
	}
	return body, nil
}

// doRequest performs an authenticated HTTP request against Azure DevOps
func (c *Client) doRequest(ctx context.Context, method, endpoint, contentType string, payload []byte) ([]byte, int, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("azuredevops: failed to create request: %w", err)
	}

	req.Header.Set("Authorization", c.config.AuthorizationHeader())
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("azuredevops: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, 0, fmt.Errorf("azuredevops: failed to read response: %w", err)
	}

	return body, resp.StatusCode, nil
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
