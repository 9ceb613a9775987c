package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"ratesync/internal/domain"
	"ratesync/internal/platform/retry"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

// FeedClient fetches the rates snapshot from the first candidate URL that answers.
type FeedClient struct {
	http       *http.Client
	candidates []string
	policy     retry.Policy
}

// FetchSnapshot walks the candidates in order, retrying each one according to the policy.
func (c *FeedClient) FetchSnapshot(ctx context.Context) (domain.FeedSnapshot, error) {
	if len(c.candidates) == 0 {
		return domain.FeedSnapshot{}, fmt.Errorf("%w: no feed urls configured", domain.ErrFeedUnavailable)
	}

	var lastErr error
	for _, url := range c.candidates {
		var snapshot domain.FeedSnapshot
		err := c.policy.Do(ctx, func(ctx context.Context, attempt int) error {
			s, fetchErr := c.fetch(ctx, url)
			if fetchErr != nil {
				logrus.WithError(fetchErr).WithFields(logrus.Fields{"url": url, "attempt": attempt}).Warn("Feed fetch attempt failed")
				return fetchErr
			}
			snapshot = s
			return nil
		})
		if err == nil {
			return snapshot, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return domain.FeedSnapshot{}, fmt.Errorf("%w: %w", domain.ErrFeedUnavailable, lastErr)
}

func (c *FeedClient) fetch(ctx context.Context, url string) (domain.FeedSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.FeedSnapshot{}, retry.Permanent(fmt.Errorf("failed to create request for %q: %w", url, err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.FeedSnapshot{}, fmt.Errorf("failed to execute request for %q: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.FeedSnapshot{}, fmt.Errorf("unexpected status code %d for %q: %s", resp.StatusCode, url, resp.Status)
	}

	var body domain.FeedSnapshot
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.FeedSnapshot{}, fmt.Errorf("failed to decode response from %q: %w", url, err)
	}
	return body, nil
}

// ValidateSnapshot checks the fields a run cannot do without.
func ValidateSnapshot(s domain.FeedSnapshot) error {
	var errs []error
	if s.Date == "" {
		errs = append(errs, errors.New("missing 'date'"))
	}
	if s.Rates == nil {
		errs = append(errs, errors.New("missing 'rates'"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrFeedFormat, errors.Join(errs...))
	}
	return nil
}

func NewFeedClient(httpClient *http.Client, candidates []string, policy retry.Policy) *FeedClient {
	return &FeedClient{http: httpClient, candidates: candidates, policy: policy}
}
