// Package salesforce implements the domain CRM ports against the Salesforce
// REST API, authenticating with the OAuth client_credentials flow.
package salesforce

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
	"sync"
	"time"

	"github.com/renewalops/renewguard/internal/domain"
)

const defaultAPIVersion = "v59.0"

// Credentials holds the connected-app settings for one org.
type Credentials struct {
	InstanceURL  string
	ClientID     string
	ClientSecret string
}

// Validate reports missing credential fields.
func (c Credentials) Validate() error {
	switch {
	case c.InstanceURL == "":
		return fmt.Errorf("salesforce instance URL is required")
	case c.ClientID == "":
		return fmt.Errorf("salesforce client id is required")
	case c.ClientSecret == "":
		return fmt.Errorf("salesforce client secret is required")
	}
	return nil
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithAPIVersion overrides the REST API version segment.
func WithAPIVersion(v string) Option {
	return func(c *Client) { c.apiVersion = v }
}

// Client talks to one Salesforce org. It implements domain.CRMClient and
// domain.CRMWriter. The access token is fetched lazily and reused;
// requests carry no built-in retry.
type Client struct {
	http       *http.Client
	creds      Credentials
	apiVersion string
	logger     *slog.Logger

	mu          sync.Mutex
	token       string
	instanceURL string
}

func New(creds Credentials, opts ...Option) *Client {
	c := &Client{
		http:       &http.Client{Timeout: 30 * time.Second},
		creds:      creds,
		apiVersion: defaultAPIVersion,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Describe returns the field names defined on an object type.
func (c *Client) Describe(ctx context.Context, object string) ([]string, error) {
	var describe struct {
		Fields []struct {
			Name string `json:"name"`
		} `json:"fields"`
	}
	path := fmt.Sprintf("/sobjects/%s/describe", url.PathEscape(object))
	status, err := c.do(ctx, http.MethodGet, path, nil, &describe)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, fmt.Errorf("describe %s: object not found", object)
	}

	names := make([]string, 0, len(describe.Fields))
	for _, f := range describe.Fields {
		names = append(names, f.Name)
	}
	return names, nil
}

// Query executes a SOQL query and returns the records in result order.
func (c *Client) Query(ctx context.Context, soql string) ([]domain.Record, error) {
	var result struct {
		Records []map[string]any `json:"records"`
	}
	path := "/query?q=" + url.QueryEscape(soql)
	if _, err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}

	records := make([]domain.Record, 0, len(result.Records))
	for _, m := range result.Records {
		delete(m, "attributes")
		records = append(records, domain.NewRecord(m))
	}
	return records, nil
}

// Get fetches a single resource. A 404 reports found=false, not an error.
func (c *Client) Get(ctx context.Context, path string) (domain.Record, bool, error) {
	var fields map[string]any
	status, err := c.do(ctx, http.MethodGet, path, nil, &fields)
	if err != nil {
		return domain.Record{}, false, err
	}
	if status == http.StatusNotFound {
		return domain.Record{}, false, nil
	}
	delete(fields, "attributes")
	return domain.NewRecord(fields), true, nil
}

// Create inserts a record and returns its new id.
func (c *Client) Create(ctx context.Context, object string, fields map[string]any) (string, error) {
	var created struct {
		ID      string `json:"id"`
		Success bool   `json:"success"`
	}
	path := fmt.Sprintf("/sobjects/%s", url.PathEscape(object))
	if _, err := c.do(ctx, http.MethodPost, path, fields, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

// Update patches fields on an existing record.
func (c *Client) Update(ctx context.Context, object, id string, fields map[string]any) error {
	path := fmt.Sprintf("/sobjects/%s/%s", url.PathEscape(object), url.PathEscape(id))
	_, err := c.do(ctx, http.MethodPatch, path, fields, nil)
	return err
}

// do issues one authenticated request against the data API. A 404 is
// returned as the status with no error so point lookups can treat it as an
// absent marker; every other non-2xx status is an error.
func (c *Client) do(ctx context.Context, method, path string, body, out any) (int, error) {
	token, instanceURL, err := c.accessToken(ctx)
	if err != nil {
		return 0, err
	}

	endpoint := fmt.Sprintf("%s/services/data/%s%s", instanceURL, c.apiVersion, path)

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("salesforce request", "method", method, "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("salesforce %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return resp.StatusCode, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return resp.StatusCode, fmt.Errorf("salesforce %s %s: status %d: %s",
			method, path, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("decoding salesforce response: %w", err)
	}
	return resp.StatusCode, nil
}

// accessToken returns the cached token or fetches one via the
// client_credentials grant.
func (c *Client) accessToken(ctx context.Context) (token, instanceURL string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" {
		return c.token, c.instanceURL, nil
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.creds.ClientID},
		"client_secret": {c.creds.ClientSecret},
	}
	tokenURL := strings.TrimSuffix(c.creds.InstanceURL, "/") + "/services/oauth2/token"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("requesting access token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", "", fmt.Errorf("requesting access token: status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var auth struct {
		AccessToken string `json:"access_token"`
		InstanceURL string `json:"instance_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		return "", "", fmt.Errorf("decoding token response: %w", err)
	}
	if auth.AccessToken == "" {
		return "", "", fmt.Errorf("token response contained no access_token")
	}

	c.token = auth.AccessToken
	c.instanceURL = auth.InstanceURL
	if c.instanceURL == "" {
		c.instanceURL = strings.TrimSuffix(c.creds.InstanceURL, "/")
	}
	return c.token, c.instanceURL, nil
}
