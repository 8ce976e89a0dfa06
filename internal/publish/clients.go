package publish

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/mystylekpop/snsbot/internal/draft"
)

// XClient posts to X via the v2 API.
type XClient struct {
	client *resty.Client
}

var _ Publisher = (*XClient)(nil)

type xPostRequest struct {
	Text      string   `json:"text"`
	MediaURLs []string `json:"media_urls,omitempty"`
}

type xPostResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// NewXClient builds an X API client.
func NewXClient(baseURL, bearerToken string, timeout time.Duration) *XClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetAuthToken(bearerToken).
		SetHeader("Content-Type", "application/json").
		OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
			r.SetHeader("X-Request-ID", uuid.NewString())
			return nil
		})
	return &XClient{client: client}
}

func (c *XClient) Publish(ctx context.Context, _ draft.Platform, text string, imageURLs []string) (PostResult, error) {
	var result xPostResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(xPostRequest{Text: text, MediaURLs: imageURLs}).
		SetResult(&result).
		Post("/2/tweets")
	if err != nil {
		return PostResult{Platform: draft.PlatformX}, fmt.Errorf("x publish: %w", err)
	}
	if resp.IsError() {
		return PostResult{
			Platform: draft.PlatformX,
			Success:  false,
			Error:    fmt.Sprintf("status %s", resp.Status()),
		}, nil
	}
	return PostResult{Platform: draft.PlatformX, ID: result.Data.ID, Success: true}, nil
}

// IGClient posts to Instagram via the Graph API. Instagram requires an
// image; callers enforce that before reaching here.
type IGClient struct {
	client *resty.Client
	userID string
}

var _ Publisher = (*IGClient)(nil)

type igMediaResponse struct {
	ID string `json:"id"`
}

// NewIGClient builds an Instagram Graph API client for the given user.
func NewIGClient(baseURL, accessToken, userID string, timeout time.Duration) *IGClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetQueryParam("access_token", accessToken)
	return &IGClient{client: client, userID: userID}
}

func (c *IGClient) Publish(ctx context.Context, _ draft.Platform, text string, imageURLs []string) (PostResult, error) {
	if len(imageURLs) == 0 {
		return PostResult{Platform: draft.PlatformInstagram}, fmt.Errorf("ig publish: image required")
	}

	// Two-step flow: create a media container, then publish it.
	var container igMediaResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"image_url": imageURLs[0],
			"caption":   text,
		}).
		SetResult(&container).
		Post(fmt.Sprintf("/%s/media", c.userID))
	if err != nil {
		return PostResult{Platform: draft.PlatformInstagram}, fmt.Errorf("ig media container: %w", err)
	}
	if resp.IsError() {
		return PostResult{
			Platform: draft.PlatformInstagram,
			Success:  false,
			Error:    fmt.Sprintf("media container: status %s", resp.Status()),
		}, nil
	}

	var published igMediaResponse
	resp, err = c.client.R().
		SetContext(ctx).
		SetQueryParam("creation_id", container.ID).
		SetResult(&published).
		Post(fmt.Sprintf("/%s/media_publish", c.userID))
	if err != nil {
		return PostResult{Platform: draft.PlatformInstagram}, fmt.Errorf("ig media publish: %w", err)
	}
	if resp.IsError() {
		return PostResult{
			Platform: draft.PlatformInstagram,
			Success:  false,
			Error:    fmt.Sprintf("media publish: status %s", resp.Status()),
		}, nil
	}
	return PostResult{Platform: draft.PlatformInstagram, ID: published.ID, Success: true}, nil
}
