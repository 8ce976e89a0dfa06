// Package publish sends approved drafts to the social platforms.
package publish

import (
	"context"
	"fmt"

	"github.com/mystylekpop/snsbot/internal/draft"
)

// PostResult is the outcome of one platform publish.
type PostResult struct {
	Platform draft.Platform `json:"platform"`
	ID       string         `json:"id,omitempty"`
	Success  bool           `json:"success"`
	Error    string         `json:"error,omitempty"`
}

// Publisher posts content to a single platform.
type Publisher interface {
	// Publish posts text with optional images. A non-nil error means
	// the call itself failed; PostResult carries the platform outcome.
	Publish(ctx context.Context, platform draft.Platform, text string, imageURLs []string) (PostResult, error)
}

// Router fans a publish request out to the responsible client per
// platform.
type Router struct {
	clients map[draft.Platform]Publisher
}

// NewRouter builds a Router over per-platform clients.
func NewRouter(clients map[draft.Platform]Publisher) *Router {
	return &Router{clients: clients}
}

var _ Publisher = (*Router)(nil)

func (r *Router) Publish(ctx context.Context, platform draft.Platform, text string, imageURLs []string) (PostResult, error) {
	client, ok := r.clients[platform]
	if !ok {
		return PostResult{Platform: platform}, fmt.Errorf("no publish client for platform %q", platform)
	}
	return client.Publish(ctx, platform, text, imageURLs)
}

// PublishAll posts to every listed platform and returns per-platform
// results. One platform failing does not stop the others.
func (r *Router) PublishAll(ctx context.Context, platforms []draft.Platform, text string, imageURLs []string) map[draft.Platform]PostResult {
	results := make(map[draft.Platform]PostResult, len(platforms))
	for _, p := range platforms {
		result, err := r.Publish(ctx, p, text, imageURLs)
		if err != nil {
			result = PostResult{Platform: p, Success: false, Error: err.Error()}
		}
		results[p] = result
	}
	return results
}
