package publish_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mystylekpop/snsbot/internal/draft"
	"github.com/mystylekpop/snsbot/internal/publish"
)

type stubClient struct {
	result publish.PostResult
	err    error
	calls  int
}

func (c *stubClient) Publish(ctx context.Context, platform draft.Platform, text string, imageURLs []string) (publish.PostResult, error) {
	c.calls++
	if c.err != nil {
		return publish.PostResult{}, c.err
	}
	return c.result, nil
}

func TestRouterDispatchesByPlatform(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	x := &stubClient{result: publish.PostResult{Platform: draft.PlatformX, ID: "tweet-1", Success: true}}
	ig := &stubClient{result: publish.PostResult{Platform: draft.PlatformInstagram, ID: "media-1", Success: true}}
	router := publish.NewRouter(map[draft.Platform]publish.Publisher{
		draft.PlatformX:         x,
		draft.PlatformInstagram: ig,
	})

	result, err := router.Publish(ctx, draft.PlatformX, "hello", nil)
	require.NoError(t, err)
	require.Equal(t, "tweet-1", result.ID)
	require.Equal(t, 1, x.calls)
	require.Equal(t, 0, ig.calls)
}

func TestRouterUnknownPlatform(t *testing.T) {
	t.Parallel()
	router := publish.NewRouter(map[draft.Platform]publish.Publisher{})

	_, err := router.Publish(context.Background(), draft.PlatformX, "hello", nil)
	require.Error(t, err)
}

func TestPublishAllIsolatesFailures(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	x := &stubClient{err: errors.New("rate limited")}
	ig := &stubClient{result: publish.PostResult{Platform: draft.PlatformInstagram, ID: "media-2", Success: true}}
	router := publish.NewRouter(map[draft.Platform]publish.Publisher{
		draft.PlatformX:         x,
		draft.PlatformInstagram: ig,
	})

	results := router.PublishAll(ctx, []draft.Platform{draft.PlatformX, draft.PlatformInstagram}, "hello", nil)
	require.Len(t, results, 2)
	require.False(t, results[draft.PlatformX].Success)
	require.Contains(t, results[draft.PlatformX].Error, "rate limited")
	require.True(t, results[draft.PlatformInstagram].Success)
}
