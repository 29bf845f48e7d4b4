package remote

import (
	"net/http"
	"time"

	"github.com/enginehub/squirrelid/pkg/logger"
)

type Option func(*Client)

// WithAgent points the client at the profile endpoints of the given game agent.
func WithAgent(agent string) Option {
	return func(c *Client) {
		c.agent = agent
	}
}

// WithProfilesURL overrides the endpoint receiving batches of names.
func WithProfilesURL(url string) Option {
	return func(c *Client) {
		c.profilesURL = url
	}
}

// WithNameHistoryURL overrides the name history endpoint. format must contain
// a single %s, replaced by the dashless UUID.
func WithNameHistoryURL(format string) Option {
	return func(c *Client) {
		c.nameHistoryURL = format
	}
}

// WithMaxRetries sets how many times a failed request is retried.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		c.maxRetries = n
	}
}

// WithRetryDelay sets the wait before the first retry. Each further retry waits twice as long.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) {
		c.retryDelay = d
	}
}

// WithBatchSize sets how many names are sent per request, at most MaxBatchSize.
func WithBatchSize(n int) Option {
	return func(c *Client) {
		c.batchSize = n
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}
