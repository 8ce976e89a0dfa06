package content

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mystylekpop/snsbot/internal/draft"
)

var _ ImageGenerator = (*ImageClient)(nil)

// ImageClient calls the image synthesis API and returns a hosted URL
// for the rendered image.
type ImageClient struct {
	client *resty.Client
}

type imageRequest struct {
	Direction string `json:"direction"`
	Artist    string `json:"artist,omitempty"`
	FormatKey string `json:"formatKey"`
	Platform  string `json:"platform"`
}

type imageResponse struct {
	URL string `json:"url"`
}

// NewImageClient builds a client against the given endpoint.
func NewImageClient(endpoint, apiKey string, timeout time.Duration) *ImageClient {
	client := resty.New().
		SetBaseURL(endpoint).
		SetTimeout(timeout).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json")
	return &ImageClient{client: client}
}

func (c *ImageClient) GenerateImage(ctx context.Context, d *draft.Draft) (string, error) {
	direction := d.ImageDirection
	if direction == "" {
		direction = d.Text
	}

	var result imageResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(imageRequest{
			Direction: direction,
			Artist:    d.Artist,
			FormatKey: d.FormatKey,
			Platform:  string(d.Platform),
		}).
		SetResult(&result).
		Post("/v1/images")
	if err != nil {
		return "", fmt.Errorf("image generate: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("image generate: status %s", resp.Status())
	}
	if result.URL == "" {
		return "", fmt.Errorf("image generate: empty url in response")
	}
	return result.URL, nil
}
