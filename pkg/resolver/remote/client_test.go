package remote_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enginehub/squirrelid/pkg/logger"
	"github.com/enginehub/squirrelid/pkg/profile"
	"github.com/enginehub/squirrelid/pkg/resolver/remote"
)

var (
	notch      = profile.MustNew(uuid.MustParse("069a79f4-44e9-4726-a5be-fca90e38aaf5"), "Notch")
	jeb        = profile.MustNew(uuid.MustParse("853c80ef-3c37-49fd-aa49-938b674adae6"), "jeb_")
	dinnerbone = profile.MustNew(uuid.MustParse("61699b2e-d327-4a01-9f1e-0ea8c3f06bc6"), "Dinnerbone")

	sortProfiles = cmpopts.SortSlices(func(a, b profile.Profile) bool { return a.Name < b.Name })
)

// fakeService mimics the remote profile endpoints for a fixed set of profiles.
type fakeService struct {
	mu          sync.Mutex
	profiles    map[string]profile.Profile
	batches     [][]string
	historyHits atomic.Int32
	requestIDs  []string
}

func newFakeService(profiles ...profile.Profile) *fakeService {
	s := &fakeService{profiles: map[string]profile.Profile{}}
	for _, p := range profiles {
		s.profiles[profile.NameKey(p.Name)] = p
	}
	return s
}

func (s *fakeService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requestIDs = append(s.requestIDs, r.Header.Get("X-Request-Id"))
	s.mu.Unlock()

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/profiles":
		var names []string
		if err := json.NewDecoder(r.Body).Decode(&names); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		s.mu.Lock()
		s.batches = append(s.batches, names)
		s.mu.Unlock()

		out := []map[string]string{}
		for _, name := range names {
			if p, ok := s.profiles[profile.NameKey(name)]; ok {
				out = append(out, map[string]string{"id": profile.Dashless(p.ID), "name": p.Name})
			}
		}
		_ = json.NewEncoder(w).Encode(out)
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/history/"):
		s.historyHits.Add(1)
		dashless := strings.TrimPrefix(r.URL.Path, "/history/")
		for _, p := range s.profiles {
			if profile.Dashless(p.ID) == dashless {
				fmt.Fprintf(w, `[{"name":"old_%s"},{"name":%q,"changedToAt":1423059891000}]`, p.Name, p.Name)
				return
			}
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (s *fakeService) batchSizes() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	sizes := make([]int, 0, len(s.batches))
	for _, b := range s.batches {
		sizes = append(sizes, len(b))
	}
	return sizes
}

func newClient(t *testing.T, srv *httptest.Server, opts ...remote.Option) *remote.Client {
	t.Helper()
	opts = append([]remote.Option{
		remote.WithProfilesURL(srv.URL + "/profiles"),
		remote.WithNameHistoryURL(srv.URL + "/history/%s"),
		remote.WithRetryDelay(time.Millisecond),
		remote.WithHTTPClient(srv.Client()),
	}, opts...)
	c, err := remote.New(opts...)
	require.NoError(t, err)
	return c
}

func TestNewValidatesOptions(t *testing.T) {
	tests := []struct {
		name string
		opt  remote.Option
	}{
		{name: "negative_retries", opt: remote.WithMaxRetries(-1)},
		{name: "zero_delay", opt: remote.WithRetryDelay(0)},
		{name: "zero_batch", opt: remote.WithBatchSize(0)},
		{name: "oversized_batch", opt: remote.WithBatchSize(remote.MaxBatchSize + 1)},
		{name: "history_without_placeholder", opt: remote.WithNameHistoryURL("http://localhost/names")},
		{name: "empty_agent", opt: remote.WithAgent("")},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := remote.New(test.opt)
			require.ErrorIs(t, err, remote.ErrInvalidConfig)
		})
	}

	c, err := remote.New(remote.WithMaxRetries(0), remote.WithBatchSize(1))
	require.NoError(t, err)
	require.Equal(t, 1, c.IdealRequestLimit())
}

func TestFindAllByNameBatches(t *testing.T) {
	svc := newFakeService(notch, jeb, dinnerbone)
	srv := httptest.NewServer(svc)
	t.Cleanup(srv.Close)
	c := newClient(t, srv)

	names := []string{"notch", "JEB_", "Dinnerbone"}
	for i := 0; len(names) < 250; i++ {
		names = append(names, fmt.Sprintf("ghost%d", i))
	}

	found, err := c.FindAllByName(context.Background(), names)
	require.NoError(t, err)
	require.Equal(t, []int{100, 100, 50}, svc.batchSizes())
	if diff := cmp.Diff([]profile.Profile{notch, jeb, dinnerbone}, found, sortProfiles); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}

	for _, id := range svc.requestIDs {
		_, err := ulid.ParseStrict(id)
		require.NoError(t, err)
	}
}

func TestFindAllByNameDeduplicates(t *testing.T) {
	svc := newFakeService(notch)
	srv := httptest.NewServer(svc)
	t.Cleanup(srv.Close)
	c := newClient(t, srv, remote.WithBatchSize(2))

	found, err := c.FindAllByName(context.Background(), []string{"Notch", "Notch", "Notch"})
	require.NoError(t, err)
	require.Equal(t, []profile.Profile{notch}, found)
	require.Equal(t, []int{1}, svc.batchSizes())
}

func TestVisitAllByNameStopsRemainingBatches(t *testing.T) {
	svc := newFakeService(notch, jeb, dinnerbone)
	srv := httptest.NewServer(svc)
	t.Cleanup(srv.Close)
	c := newClient(t, srv, remote.WithBatchSize(1))

	var visited []profile.Profile
	err := c.VisitAllByName(context.Background(), []string{"Notch", "jeb_", "Dinnerbone"}, func(p profile.Profile) bool {
		visited = append(visited, p)
		return false
	})
	require.NoError(t, err)
	require.Equal(t, []profile.Profile{notch}, visited)
	require.Equal(t, []int{1}, svc.batchSizes())
}

func TestFindByName(t *testing.T) {
	srv := httptest.NewServer(newFakeService(notch))
	t.Cleanup(srv.Close)
	c := newClient(t, srv)

	p, err := c.FindByName(context.Background(), "NOTCH")
	require.NoError(t, err)
	require.Equal(t, &notch, p)

	p, err = c.FindByName(context.Background(), "nobody")
	require.NoError(t, err)
	require.Nil(t, p)
}

func TestDecodeSkipsBadEntries(t *testing.T) {
	l, logs := logger.NewObserverLogger("debug")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[
			{"name":"NoID"},
			{"id":"not-a-uuid","name":"BadID"},
			{"id":"069a79f444e94726a5befca90e38aaf5"},
			{"id":"853c80ef3c3749fdaa49938b674adae6","name":"jeb_"}
		]`)
	}))
	t.Cleanup(srv.Close)
	c := newClient(t, srv, remote.WithLogger(l))

	found, err := c.FindAllByName(context.Background(), []string{"NoID", "BadID", "Notch", "jeb_"})
	require.NoError(t, err)
	require.Equal(t, []profile.Profile{jeb}, found)
	require.Equal(t, 3, logs.FilterMessage("skipping undecodable profile entry").Len())
}

func TestNonArrayResponseHoldsNoProfiles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"error":"nope"}`)
	}))
	t.Cleanup(srv.Close)
	c := newClient(t, srv)

	found, err := c.FindAllByName(context.Background(), []string{"Notch"})
	require.NoError(t, err)
	require.Empty(t, found)
}

func TestRetriesMalformedBody(t *testing.T) {
	var attempts atomic.Int32
	svc := newFakeService(notch)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch attempts.Add(1) {
		case 1:
			fmt.Fprint(w, `[{"id":"069a79f444e94726a5befca90e38aaf5","na`)
		case 2:
			// promises more body than it sends
			w.Header().Set("Content-Length", "512")
			fmt.Fprint(w, `[`)
		default:
			svc.ServeHTTP(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	c := newClient(t, srv)

	found, err := c.FindAllByName(context.Background(), []string{"Notch"})
	require.NoError(t, err)
	require.Equal(t, []profile.Profile{notch}, found)
	require.EqualValues(t, 3, attempts.Load())
}

func TestMalformedBodyRetriesExhausted(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts.Add(1)
		fmt.Fprint(w, `[{"name":"Notch"`)
	}))
	t.Cleanup(srv.Close)
	c := newClient(t, srv, remote.WithMaxRetries(2))

	_, err := c.FindByUUID(context.Background(), notch.ID)
	require.ErrorIs(t, err, remote.ErrMalformedResponse)
	require.ErrorIs(t, err, remote.ErrRemoteUnavailable)
	require.EqualValues(t, 3, attempts.Load())
}

func TestFindByUUIDUsesLatestName(t *testing.T) {
	svc := newFakeService(notch, jeb)
	srv := httptest.NewServer(svc)
	t.Cleanup(srv.Close)
	c := newClient(t, srv)

	p, err := c.FindByUUID(context.Background(), jeb.ID)
	require.NoError(t, err)
	require.Equal(t, &jeb, p)

	p, err = c.FindByUUID(context.Background(), dinnerbone.ID)
	require.NoError(t, err)
	require.Nil(t, p)

	found, err := c.FindAllByUUID(context.Background(), []uuid.UUID{notch.ID, dinnerbone.ID, jeb.ID, notch.ID})
	require.NoError(t, err)
	if diff := cmp.Diff([]profile.Profile{notch, jeb}, found, sortProfiles); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	require.EqualValues(t, 5, svc.historyHits.Load())
}

func TestFindByUUIDNotFoundStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)
	c := newClient(t, srv)

	p, err := c.FindByUUID(context.Background(), notch.ID)
	require.NoError(t, err)
	require.Nil(t, p)
}

func TestRetriesTransientFailures(t *testing.T) {
	l, logs := logger.NewObserverLogger("debug")
	var attempts atomic.Int32
	svc := newFakeService(notch)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch attempts.Add(1) {
		case 1:
			w.WriteHeader(http.StatusInternalServerError)
		case 2:
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			svc.ServeHTTP(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	c := newClient(t, srv, remote.WithLogger(l))

	found, err := c.FindAllByName(context.Background(), []string{"Notch"})
	require.NoError(t, err)
	require.Equal(t, []profile.Profile{notch}, found)
	require.EqualValues(t, 3, attempts.Load())

	retries := logs.FilterMessage("retrying remote request").All()
	require.Len(t, retries, 2)
	require.Contains(t, retries[0].ContextMap(), "request_id")
}

func TestRetriesExhausted(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)
	c := newClient(t, srv, remote.WithMaxRetries(2))

	_, err := c.FindAllByName(context.Background(), []string{"Notch"})
	require.ErrorIs(t, err, remote.ErrRemoteUnavailable)
	require.EqualValues(t, 3, attempts.Load())
}

func TestTransportErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c := newClient(t, srv, remote.WithMaxRetries(1))

	_, err := c.FindByUUID(context.Background(), notch.ID)
	require.ErrorIs(t, err, remote.ErrRemoteUnavailable)
}

func TestUnexpectedStatusIsNotRetried(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	t.Cleanup(srv.Close)
	c := newClient(t, srv)

	_, err := c.FindAllByName(context.Background(), []string{"Notch"})
	require.ErrorIs(t, err, remote.ErrUnexpectedStatus)
	require.EqualValues(t, 1, attempts.Load())
}

func TestCancellationDuringBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	c := newClient(t, srv, remote.WithRetryDelay(time.Minute))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := c.FindAllByName(ctx, []string{"Notch"})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.False(t, errors.Is(err, remote.ErrRemoteUnavailable))
	require.Less(t, time.Since(start), 10*time.Second)
}

func TestConcurrentSingleLookupsShareRequest(t *testing.T) {
	release := make(chan struct{})
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		<-release
		fmt.Fprintf(w, `[{"name":%q}]`, notch.Name)
	}))
	t.Cleanup(srv.Close)
	c := newClient(t, srv)

	const callers = 5
	var wg sync.WaitGroup
	results := make([]*profile.Profile, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := c.FindByUUID(context.Background(), notch.ID)
			assert.NoError(t, err)
			results[i] = p
		}()
	}

	require.Eventually(t, func() bool { return hits.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	require.EqualValues(t, 1, hits.Load())
	for _, p := range results {
		require.Equal(t, &notch, p)
	}
}

func TestCancelledCallerDoesNotFailOthers(t *testing.T) {
	release := make(chan struct{})
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		<-release
		fmt.Fprintf(w, `[{"name":%q}]`, notch.Name)
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })
	c := newClient(t, srv)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.FindByUUID(firstCtx, notch.ID)
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return hits.Load() == 1 }, time.Second, time.Millisecond)

	second := make(chan *profile.Profile, 1)
	go func() {
		p, err := c.FindByUUID(context.Background(), notch.ID)
		assert.NoError(t, err)
		second <- p
	}()
	time.Sleep(50 * time.Millisecond)

	cancelFirst()
	select {
	case err := <-firstErr:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled caller is still waiting")
	}

	release <- struct{}{}
	select {
	case p := <-second:
		require.Equal(t, &notch, p)
	case <-time.After(5 * time.Second):
		t.Fatal("remaining caller never got a result")
	}
	require.EqualValues(t, 1, hits.Load())
}

func TestCancelledFollowerReturnsImmediately(t *testing.T) {
	release := make(chan struct{})
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		<-release
		fmt.Fprintf(w, `[{"name":%q}]`, notch.Name)
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })
	c := newClient(t, srv)

	first := make(chan *profile.Profile, 1)
	go func() {
		p, err := c.FindByUUID(context.Background(), notch.ID)
		assert.NoError(t, err)
		first <- p
	}()
	require.Eventually(t, func() bool { return hits.Load() == 1 }, time.Second, time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err := c.FindByUUID(ctx, notch.ID)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(start), time.Second)

	release <- struct{}{}
	require.Equal(t, &notch, <-first)
	require.EqualValues(t, 1, hits.Load())
}

func TestLookupAbandonedByAllCallersIsCancelled(t *testing.T) {
	aborted := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
		close(aborted)
	}))
	t.Cleanup(srv.Close)
	c := newClient(t, srv)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.FindByName(ctx, "Notch")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	select {
	case <-aborted:
	case <-time.After(5 * time.Second):
		t.Fatal("shared request kept running after every caller left")
	}
}
