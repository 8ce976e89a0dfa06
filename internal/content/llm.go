package content

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/mystylekpop/snsbot/internal/calendar"
	"github.com/mystylekpop/snsbot/internal/draft"
)

var _ Generator = (*LLMGenerator)(nil)

// LLMGenerator calls the hosted content-generation API. The prompt
// pipeline lives server-side; this client only carries the platform and
// format and maps the response onto Generated.
type LLMGenerator struct {
	client *resty.Client
}

type llmRequest struct {
	Platform  string `json:"platform"`
	FormatKey string `json:"formatKey"`
	Style     string `json:"style"`
}

type llmResponse struct {
	Text           string `json:"text"`
	Artist         string `json:"artist"`
	ImageDirection string `json:"imageDirection"`
}

// NewLLMGenerator builds a generator against the given endpoint.
func NewLLMGenerator(endpoint, apiKey string, timeout time.Duration) *LLMGenerator {
	client := resty.New().
		SetBaseURL(endpoint).
		SetTimeout(timeout).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json").
		OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
			r.SetHeader("X-Request-ID", uuid.NewString())
			return nil
		})
	return &LLMGenerator{client: client}
}

func (g *LLMGenerator) Name() string { return "llm" }

func (g *LLMGenerator) GenerateContent(ctx context.Context, platform draft.Platform, formatKey string) (*Generated, error) {
	var result llmResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(llmRequest{
			Platform:  string(platform),
			FormatKey: formatKey,
			Style:     calendar.FormatName(formatKey),
		}).
		SetResult(&result).
		Post("/v1/generate")
	if err != nil {
		return nil, fmt.Errorf("llm generate: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("llm generate: status %s", resp.Status())
	}
	if result.Text == "" {
		return nil, ErrNoContent
	}
	return &Generated{
		Text:           result.Text,
		Artist:         result.Artist,
		ImageDirection: result.ImageDirection,
	}, nil
}
