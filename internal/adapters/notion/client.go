package notion

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ratesync/internal/domain"
	"ratesync/internal/platform/retry"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

const (
	DefaultBaseURL = "https://api.notion.com/v1"
	DefaultVersion = "2022-06-28"
)

// Client talks to the Notion REST API. Authentication is handled by the http.Client
// transport (see NewHTTPClient).
type Client struct {
	http    *http.Client
	baseURL string
	version string
	policy  retry.Policy
}

// NewHTTPClient returns an http.Client that sends the integration token as a bearer token.
func NewHTTPClient(ctx context.Context, token string, timeout time.Duration) *http.Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	httpClient := oauth2.NewClient(ctx, ts)
	httpClient.Timeout = timeout
	return httpClient
}

func (c *Client) GetDatabase(ctx context.Context, databaseID string) (domain.DatabaseSchema, error) {
	var body databaseResponse
	if err := c.do(ctx, http.MethodGet, "/databases/"+url.PathEscape(databaseID), nil, &body, true); err != nil {
		return domain.DatabaseSchema{}, fmt.Errorf("failed to get database %q: %w", databaseID, err)
	}
	return body.toDomain(databaseID), nil
}

// QueryRows returns at most one row matching q; only existence and identity are needed.
func (c *Client) QueryRows(ctx context.Context, databaseID string, q domain.RowQuery) ([]domain.Row, error) {
	payload := queryRequest{Filter: encodeFilter(q), PageSize: 1}

	var body queryResponse
	if err := c.do(ctx, http.MethodPost, "/databases/"+url.PathEscape(databaseID)+"/query", payload, &body, true); err != nil {
		return nil, fmt.Errorf("failed to query database %q: %w", databaseID, err)
	}

	rows := make([]domain.Row, 0, len(body.Results))
	for _, page := range body.Results {
		rows = append(rows, domain.Row{ID: page.ID})
	}
	return rows, nil
}

// UpdateRow patches only the properties present in p.
func (c *Client) UpdateRow(ctx context.Context, rowID string, p domain.Payload) error {
	payload := updateRequest{Properties: encodeProperties(p)}
	if err := c.do(ctx, http.MethodPatch, "/pages/"+url.PathEscape(rowID), payload, nil, true); err != nil {
		return fmt.Errorf("failed to update page %q: %w", rowID, err)
	}
	return nil
}

func (c *Client) CreateRow(ctx context.Context, databaseID string, p domain.Payload) (domain.Row, error) {
	payload := createRequest{
		Parent:     parent{DatabaseID: databaseID},
		Properties: encodeProperties(p),
	}

	var body pageObject
	// a create that reached the server may have been applied, so only rate limiting is retried
	if err := c.do(ctx, http.MethodPost, "/pages", payload, &body, false); err != nil {
		return domain.Row{}, fmt.Errorf("failed to create page in database %q: %w", databaseID, err)
	}
	return domain.Row{ID: body.ID}, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any, out any, idempotent bool) error {
	var reqBody []byte
	if payload != nil {
		var err error
		if reqBody, err = json.Marshal(payload); err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}
	endpoint := c.baseURL + path

	return c.policy.Do(ctx, func(ctx context.Context, attempt int) error {
		var body io.Reader
		if reqBody != nil {
			body = bytes.NewReader(reqBody)
		}
		req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
		if err != nil {
			return retry.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("Notion-Version", c.version)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			err = fmt.Errorf("failed to execute request: %w", err)
			if !idempotent {
				return retry.Permanent(err)
			}
			logrus.WithError(err).WithFields(logrus.Fields{"method": method, "path": path, "attempt": attempt}).Warn("Destination call failed")
			return err
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			err = fmt.Errorf("failed to read response body: %w", err)
			if !idempotent {
				return retry.Permanent(err)
			}
			return err
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			apiErr := newAPIError(method, endpoint, resp.StatusCode, reqBody, respBody)
			retryable := apiErr.Retryable()
			if !idempotent {
				retryable = apiErr.StatusCode == http.StatusTooManyRequests
			}
			if !retryable {
				return retry.Permanent(apiErr)
			}
			logrus.WithFields(logrus.Fields{"method": method, "path": path, "status": resp.StatusCode, "attempt": attempt}).Warn("Destination call rejected, retrying")
			return apiErr
		}

		if out != nil {
			if err = json.Unmarshal(respBody, out); err != nil {
				return retry.Permanent(fmt.Errorf("failed to decode response: %w", err))
			}
		}
		return nil
	})
}

func newAPIError(method, endpoint string, status int, reqBody, respBody []byte) *domain.APIError {
	apiErr := &domain.APIError{
		Method:       method,
		URL:          endpoint,
		StatusCode:   status,
		RequestBody:  reqBody,
		ResponseBody: respBody,
	}
	var body errorResponse
	if err := json.Unmarshal(respBody, &body); err == nil {
		apiErr.Code = body.Code
		apiErr.Message = body.Message
	}
	return apiErr
}

func NewClient(httpClient *http.Client, baseURL, version string, policy retry.Policy) *Client {
	if version == "" {
		version = DefaultVersion
	}
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		version: version,
		policy:  policy,
	}
}
