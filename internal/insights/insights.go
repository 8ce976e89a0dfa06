// Package insights is the thin client for the analytics and editorial
// direction services. Both are external collaborators; this package
// only carries requests and relays the returned report text.
package insights

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client talks to the insights service.
type Client struct {
	client *resty.Client
}

// New builds a client against the given endpoint.
func New(endpoint, apiKey string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(endpoint).
		SetTimeout(timeout).
		SetAuthToken(apiKey)
	return &Client{client: c}
}

type reportResponse struct {
	Report string `json:"report"`
}

// AnalyticsReport runs engagement analysis and returns the operator
// report text.
func (c *Client) AnalyticsReport(ctx context.Context) (string, error) {
	var result reportResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&result).
		Post("/v1/analytics/report")
	if err != nil {
		return "", fmt.Errorf("analytics report: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("analytics report: status %s", resp.Status())
	}
	return result.Report, nil
}

// RunEditorial triggers one editorial-evolution analysis pass.
// period is one of daily, weekly, monthly, quarterly.
func (c *Client) RunEditorial(ctx context.Context, period string) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"period": period}).
		Post("/v1/editorial/run")
	if err != nil {
		return fmt.Errorf("editorial %s: %w", period, err)
	}
	if resp.IsError() {
		return fmt.Errorf("editorial %s: status %s", period, resp.Status())
	}
	return nil
}
