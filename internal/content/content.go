// Package content produces draft text and images. Generation is an
// ordered chain of strategies: the LLM-backed generator first, then the
// deterministic template generator, so a single upstream outage never
// empties a whole slot batch on its own.
package content

import (
	"context"
	"errors"

	"github.com/mystylekpop/snsbot/internal/draft"
	"github.com/mystylekpop/snsbot/internal/logger"
)

// ErrNoContent signals that a generator produced nothing usable and
// the next strategy should be tried.
var ErrNoContent = errors.New("no content generated")

// Generated is the output of one content generation call.
type Generated struct {
	Text           string
	Artist         string
	ImageDirection string
}

// Generator produces post text for a platform and format.
type Generator interface {
	// Name identifies the strategy in logs and reports.
	Name() string

	// GenerateContent returns the generated payload, or ErrNoContent
	// when the strategy has nothing to offer.
	GenerateContent(ctx context.Context, platform draft.Platform, formatKey string) (*Generated, error)
}

// ImageGenerator produces an image for a draft.
type ImageGenerator interface {
	// GenerateImage returns a URL for the rendered image.
	GenerateImage(ctx context.Context, d *draft.Draft) (string, error)
}

// Chain tries generators in order and returns the first result.
type Chain struct {
	generators []Generator
}

// NewChain builds a chain from the given strategies, tried in order.
func NewChain(generators ...Generator) *Chain {
	return &Chain{generators: generators}
}

// GenerateContent runs the chain. Every strategy failing yields
// ErrNoContent wrapped with the last real error, if any.
func (c *Chain) GenerateContent(ctx context.Context, platform draft.Platform, formatKey string) (*Generated, error) {
	var lastErr error
	for _, g := range c.generators {
		result, err := g.GenerateContent(ctx, platform, formatKey)
		if err == nil && result != nil && result.Text != "" {
			return result, nil
		}
		if err != nil && !errors.Is(err, ErrNoContent) {
			logger.Warn(ctx, "content: strategy failed, trying next",
				"strategy", g.Name(), "format", formatKey, "err", err)
			lastErr = err
		}
	}
	if lastErr != nil {
		return nil, errors.Join(ErrNoContent, lastErr)
	}
	return nil, ErrNoContent
}
