// Package remote implements a profile source backed by the remote profile HTTP service.
//
// Names are resolved in batches by posting them to the profiles endpoint. IDs
// are resolved one at a time through the name history endpoint, the most
// recent entry of which holds the current name.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/oklog/ulid/v2"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/enginehub/squirrelid/internal/build"
	"github.com/enginehub/squirrelid/internal/utils"
	"github.com/enginehub/squirrelid/pkg/logger"
	"github.com/enginehub/squirrelid/pkg/profile"
	"github.com/enginehub/squirrelid/pkg/resolver"
	"github.com/enginehub/squirrelid/pkg/telemetry"
)

const (
	DefaultAgent      = "minecraft"
	DefaultMaxRetries = 5
	DefaultRetryDelay = 50 * time.Millisecond
	MaxBatchSize      = 100

	defaultHTTPTimeout = 30 * time.Second
	requestIDHeader    = "X-Request-Id"

	profilesURLFormat    = "https://api.mojang.com/profiles/%s"
	nameHistoryURLFormat = "https://api.mojang.com/user/profiles/%s/names"
)

var (
	ErrInvalidConfig     = errors.New("invalid remote client configuration")
	ErrRemoteUnavailable = errors.New("remote profile service unavailable")
	ErrUnexpectedStatus  = errors.New("unexpected response status")
	ErrMalformedResponse = errors.New("malformed response")
)

var tracer = otel.Tracer("squirrelid/pkg/resolver/remote")

// Client is a resolver.Source talking to the remote profile service.
type Client struct {
	agent          string
	profilesURL    string
	nameHistoryURL string
	maxRetries     int
	retryDelay     time.Duration
	batchSize      int
	httpClient     *http.Client
	logger         logger.Logger

	retry    *retryablehttp.Client
	group    singleflight.Group
	inflight flights
}

var _ resolver.Source = (*Client)(nil)

func New(opts ...Option) (*Client, error) {
	c := &Client{
		agent:      DefaultAgent,
		maxRetries: DefaultMaxRetries,
		retryDelay: DefaultRetryDelay,
		batchSize:  MaxBatchSize,
		logger:     logger.NewNoopLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.profilesURL == "" {
		if c.agent == "" {
			return nil, fmt.Errorf("%w: agent must not be empty", ErrInvalidConfig)
		}
		c.profilesURL = fmt.Sprintf(profilesURLFormat, c.agent)
	}
	if c.nameHistoryURL == "" {
		c.nameHistoryURL = nameHistoryURLFormat
	}
	if strings.Count(c.nameHistoryURL, "%s") != 1 {
		return nil, fmt.Errorf("%w: name history URL must contain exactly one %%s", ErrInvalidConfig)
	}
	if c.maxRetries < 0 {
		return nil, fmt.Errorf("%w: max retries must be >= 0, got %d", ErrInvalidConfig, c.maxRetries)
	}
	if c.retryDelay <= 0 {
		return nil, fmt.Errorf("%w: retry delay must be > 0, got %s", ErrInvalidConfig, c.retryDelay)
	}
	if c.batchSize < 1 || c.batchSize > MaxBatchSize {
		return nil, fmt.Errorf("%w: batch size must be between 1 and %d, got %d", ErrInvalidConfig, MaxBatchSize, c.batchSize)
	}

	c.retry = c.newRetryClient()
	c.inflight = flights{
		waiters: map[string]int{},
		cancels: map[string]context.CancelFunc{},
	}

	return c, nil
}

func (c *Client) newRetryClient() *retryablehttp.Client {
	hc := &http.Client{Timeout: defaultHTTPTimeout}
	if c.httpClient != nil {
		copied := *c.httpClient
		hc = &copied
	}
	base := hc.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	hc.Transport = otelhttp.NewTransport(base)

	rc := retryablehttp.NewClient()
	rc.HTTPClient = hc
	rc.Logger = logger.RetryableHTTPLogger{Logger: c.logger}
	rc.RetryMax = c.maxRetries
	rc.RetryWaitMin = c.retryDelay
	rc.RetryWaitMax = maxRetryWait(c.retryDelay, c.maxRetries)
	rc.Backoff = retryablehttp.DefaultBackoff
	rc.CheckRetry = retryablehttp.DefaultRetryPolicy
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.RequestLogHook = func(_ retryablehttp.Logger, req *http.Request, attempt int) {
		if attempt == 0 {
			return
		}
		retriesCounter.Inc()
		c.logger.WarnWithContext(req.Context(), "retrying remote request",
			zap.String("url", req.URL.String()),
			zap.Int("attempt", attempt),
		)
	}
	return rc
}

// maxRetryWait is wide enough that the doubling is never clamped before the
// last retry. It saturates instead of overflowing.
func maxRetryWait(delay time.Duration, retries int) time.Duration {
	wait := delay
	for i := 0; i < min(retries, 16); i++ {
		if wait > math.MaxInt64/2 {
			return math.MaxInt64
		}
		wait *= 2
	}
	return wait
}

// IdealRequestLimit is the number of names sent per request.
func (c *Client) IdealRequestLimit() int {
	return c.batchSize
}

func (c *Client) FindByName(ctx context.Context, name string) (*profile.Profile, error) {
	key := profile.NameKey(name)
	return c.share(ctx, "name:"+key, func(ctx context.Context) (*profile.Profile, error) {
		found, err := c.postNames(ctx, []string{name})
		if err != nil {
			return nil, err
		}
		for i := range found {
			if profile.NameKey(found[i].Name) == key {
				return &found[i], nil
			}
		}
		return nil, nil
	})
}

func (c *Client) FindAllByName(ctx context.Context, names []string) ([]profile.Profile, error) {
	var found []profile.Profile
	err := c.VisitAllByName(ctx, names, func(p profile.Profile) bool {
		found = append(found, p)
		return true
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// VisitAllByName sends one request per batch of names, in order, and stops
// sending once visit returns false.
func (c *Client) VisitAllByName(ctx context.Context, names []string, visit resolver.VisitFunc) error {
	for _, chunk := range utils.Chunk(utils.Uniq(names), c.batchSize) {
		found, err := c.postNames(ctx, chunk)
		if err != nil {
			return err
		}
		for _, p := range found {
			if !visit(p) {
				return nil
			}
		}
	}
	return nil
}

func (c *Client) FindByUUID(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	return c.share(ctx, "uuid:"+id.String(), func(ctx context.Context) (*profile.Profile, error) {
		return c.getNameHistory(ctx, id)
	})
}

// share runs lookup once for all concurrent callers of key. The shared call is
// detached from each caller's cancellation: a caller that gives up returns at
// once, and the call itself is cancelled only when no caller is left waiting.
func (c *Client) share(ctx context.Context, key string, lookup func(context.Context) (*profile.Profile, error)) (*profile.Profile, error) {
	for {
		c.inflight.join(key)
		ch := c.group.DoChan(key, func() (interface{}, error) {
			callCtx := c.inflight.start(ctx, key)
			defer c.inflight.finish(key)
			return lookup(callCtx)
		})

		select {
		case res := <-ch:
			c.inflight.leave(key, false)
			if res.Shared {
				deduplicatedCounter.Inc()
			}
			if res.Err != nil {
				// joined a call every other caller had already abandoned
				if errors.Is(res.Err, context.Canceled) && ctx.Err() == nil {
					continue
				}
				return nil, res.Err
			}
			return res.Val.(*profile.Profile), nil
		case <-ctx.Done():
			c.inflight.leave(key, true)
			return nil, fmt.Errorf("remote lookup %s: %w", key, ctx.Err())
		}
	}
}

// flights counts the callers waiting on each shared lookup and holds the
// cancel func of the call running for it.
type flights struct {
	mu      sync.Mutex
	waiters map[string]int
	cancels map[string]context.CancelFunc
}

func (f *flights) join(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.waiters[key]++
}

// leave drops a waiter. When the last waiter abandons the lookup the running
// call is cancelled.
func (f *flights) leave(key string, abandon bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.waiters[key]--
	if f.waiters[key] > 0 {
		return
	}
	delete(f.waiters, key)
	if cancel, ok := f.cancels[key]; ok && abandon {
		cancel()
	}
}

// start derives the context of the call running for key. It keeps the values
// of ctx, request ids and spans included, but none of its cancellation.
func (f *flights) start(ctx context.Context, key string) context.Context {
	callCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.waiters[key] <= 0 {
		cancel()
	}
	f.cancels[key] = cancel
	return callCtx
}

func (f *flights) finish(key string) {
	f.mu.Lock()
	cancel := f.cancels[key]
	delete(f.cancels, key)
	f.mu.Unlock()
	cancel()
}

func (c *Client) FindAllByUUID(ctx context.Context, ids []uuid.UUID) ([]profile.Profile, error) {
	var found []profile.Profile
	err := c.VisitAllByUUID(ctx, ids, func(p profile.Profile) bool {
		found = append(found, p)
		return true
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (c *Client) VisitAllByUUID(ctx context.Context, ids []uuid.UUID, visit resolver.VisitFunc) error {
	for _, id := range utils.Uniq(ids) {
		p, err := c.FindByUUID(ctx, id)
		if err != nil {
			return err
		}
		if p != nil && !visit(*p) {
			return nil
		}
	}
	return nil
}

func (c *Client) postNames(ctx context.Context, names []string) ([]profile.Profile, error) {
	ctx, span := tracer.Start(ctx, "remote.postNames", trace.WithAttributes(attribute.Int("names", len(names))))
	defer span.End()

	body, err := json.Marshal(names)
	if err != nil {
		return nil, err
	}

	resp, raw, err := c.do(ctx, http.MethodPost, c.profilesURL, body)
	if err != nil {
		c.fail(ctx, span, endpointProfiles, err)
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		err := statusError(resp)
		c.fail(ctx, span, endpointProfiles, err)
		return nil, err
	}

	payload := c.array(ctx, raw)
	found := make([]profile.Profile, 0, len(names))
	payload.ForEach(func(_, entry gjson.Result) bool {
		p, err := decodeProfile(entry)
		if err != nil {
			decodeFailuresCounter.Inc()
			c.logger.WarnWithContext(ctx, "skipping undecodable profile entry",
				zap.String("entry", entry.Raw),
				zap.Error(err),
			)
			return true
		}
		found = append(found, p)
		return true
	})

	outcome := outcomeFound
	if len(found) == 0 {
		outcome = outcomeUnknown
	}
	requestsCounter.WithLabelValues(endpointProfiles, outcome).Inc()
	span.SetAttributes(attribute.Int("found", len(found)))

	return found, nil
}

func (c *Client) getNameHistory(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	ctx, span := tracer.Start(ctx, "remote.getNameHistory", trace.WithAttributes(attribute.String("id", id.String())))
	defer span.End()

	resp, raw, err := c.do(ctx, http.MethodGet, fmt.Sprintf(c.nameHistoryURL, profile.Dashless(id)), nil)
	if err != nil {
		c.fail(ctx, span, endpointNameHistory, err)
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNoContent, http.StatusNotFound:
		requestsCounter.WithLabelValues(endpointNameHistory, outcomeUnknown).Inc()
		return nil, nil
	default:
		err := statusError(resp)
		c.fail(ctx, span, endpointNameHistory, err)
		return nil, err
	}

	payload := c.array(ctx, raw)
	var current *profile.Profile
	payload.ForEach(func(_, entry gjson.Result) bool {
		p, err := profile.New(id, entry.Get("name").String())
		if err != nil {
			decodeFailuresCounter.Inc()
			c.logger.WarnWithContext(ctx, "skipping undecodable name history entry",
				zap.String("entry", entry.Raw),
				zap.Error(err),
			)
			return true
		}
		current = &p
		return true
	})

	outcome := outcomeFound
	if current == nil {
		outcome = outcomeUnknown
	}
	requestsCounter.WithLabelValues(endpointNameHistory, outcome).Inc()

	return current, nil
}

// do sends a request tagged with a fresh request id and returns the response
// along with its body, which is read and closed here. Retries happen inside:
// transport errors, retryable statuses and 200 responses whose body cannot be
// read or is not valid JSON all count against the same retry budget.
func (c *Client) do(ctx context.Context, method, url string, body []byte) (*http.Response, []byte, error) {
	requestID := ulid.Make().String()
	ctx = logger.ContextWithRequestID(ctx, requestID)

	var reqBody interface{}
	if body != nil {
		reqBody = bytes.NewReader(body)
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	req.Header.Set(requestIDHeader, requestID)
	req.Header.Set("User-Agent", build.UserAgent())
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	var payload []byte
	req.SetResponseHandler(func(resp *http.Response) error {
		if resp.StatusCode != http.StatusOK {
			return nil
		}
		raw, err := readJSON(resp.Body)
		if err != nil {
			return err
		}
		payload = raw
		return nil
	})

	resp, err := c.retry.Do(req)
	if resp != nil {
		resp.Body.Close()
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, nil, fmt.Errorf("remote request %s: %w", requestID, ctxErr)
		}
		return nil, nil, fmt.Errorf("%w: request %s: %w", ErrRemoteUnavailable, requestID, err)
	}
	return resp, payload, nil
}

func (c *Client) fail(ctx context.Context, span trace.Span, endpoint string, err error) {
	requestsCounter.WithLabelValues(endpoint, outcomeError).Inc()
	telemetry.TraceError(span, err)
	c.logger.ErrorWithContext(ctx, "remote request failed",
		zap.String("endpoint", endpoint),
		zap.Error(err),
	)
}

// statusError classifies a non-successful response. Retryable statuses only
// get here once retries ran out.
func statusError(resp *http.Response) error {
	requestID := resp.Request.Header.Get(requestIDHeader)
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: request %s: status %d", ErrRemoteUnavailable, requestID, resp.StatusCode)
	}
	return fmt.Errorf("%w: request %s: status %d", ErrUnexpectedStatus, requestID, resp.StatusCode)
}

func readJSON(r io.Reader) ([]byte, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformedResponse)
	}
	return raw, nil
}

// array parses a validated body. Anything but an array holds no profiles.
func (c *Client) array(ctx context.Context, raw []byte) gjson.Result {
	payload := gjson.ParseBytes(raw)
	if !payload.IsArray() {
		c.logger.WarnWithContext(ctx, "ignoring remote response that is not an array",
			zap.String("body", payload.Raw),
		)
		return gjson.Result{}
	}
	return payload
}

func decodeProfile(entry gjson.Result) (profile.Profile, error) {
	rawID := entry.Get("id")
	if rawID.Type != gjson.String {
		return profile.Profile{}, fmt.Errorf("%w: missing id", profile.ErrInvalidProfile)
	}
	id, err := profile.ParseID(rawID.String())
	if err != nil {
		return profile.Profile{}, err
	}
	return profile.New(id, entry.Get("name").String())
}
