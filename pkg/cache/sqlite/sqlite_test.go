package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enginehub/squirrelid/pkg/cache/sqlcommon"
	"github.com/enginehub/squirrelid/pkg/logger"
	"github.com/enginehub/squirrelid/pkg/profile"
)

var (
	notch = profile.MustNew(uuid.MustParse("069a79f4-44e9-4726-a5be-fca90e38aaf5"), "Notch")
	jeb   = profile.MustNew(uuid.MustParse("853c80ef-3c37-49fd-aa49-938b674adae6"), "jeb_")
)

func newCache(t *testing.T) (*Cache, string) {
	t.Helper()
	uri := filepath.Join(t.TempDir(), "cache.db")
	c, err := New(context.Background(), uri, sqlcommon.NewConfig())
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c, uri
}

func TestPrepareDSN(t *testing.T) {
	tests := map[string]struct {
		uri  string
		want string
	}{
		"defaults_added": {
			uri:  "cache.db",
			want: "cache.db?_pragma=journal_mode%28WAL%29&_pragma=busy_timeout%28100%29",
		},
		"journal_mode_kept": {
			uri:  "cache.db?_pragma=journal_mode(DELETE)",
			want: "cache.db?_pragma=journal_mode%28DELETE%29&_pragma=busy_timeout%28100%29",
		},
		"busy_timeout_kept": {
			uri:  "cache.db?_pragma=busy_timeout(500)",
			want: "cache.db?_pragma=busy_timeout%28500%29&_pragma=journal_mode%28WAL%29",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := PrepareDSN(test.uri)
			require.NoError(t, err)
			require.Equal(t, test.want, got)
		})
	}
}

func TestPutAndGet(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t)

	c.Put(ctx, notch)
	c.Put(ctx, notch)

	got, ok := c.GetIfPresent(ctx, notch.ID)
	require.True(t, ok)
	require.Equal(t, notch, got)

	_, ok = c.GetIfPresent(ctx, jeb.ID)
	require.False(t, ok)
}

func TestLastWriteWins(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t)

	c.PutAll(ctx, []profile.Profile{notch, jeb, notch.WithName("Notch2")})

	got := c.GetAllPresent(ctx, []uuid.UUID{notch.ID, jeb.ID, uuid.New()})
	require.Equal(t, map[uuid.UUID]profile.Profile{
		notch.ID: notch.WithName("Notch2"),
		jeb.ID:   jeb,
	}, got)
}

func TestByName(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t)
	c.PutAll(ctx, []profile.Profile{notch, jeb})

	got, ok := c.GetIfPresentByName(ctx, "notch")
	require.True(t, ok)
	require.Equal(t, notch, got)

	all := c.GetAllPresentByName(ctx, []string{"NOTCH", "jeb_", "Dinnerbone"})
	require.Equal(t, map[string]profile.Profile{"NOTCH": notch, "jeb_": jeb}, all)
}

func TestNameMovesToNewID(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t)
	stale := profile.MustNew(uuid.MustParse("00000000-0000-0000-0000-00000000000f"), "Alice")
	current := profile.MustNew(uuid.MustParse("00000000-0000-0000-0000-000000000001"), "Alice")

	c.Put(ctx, stale)
	c.Put(ctx, current)

	got, ok := c.GetIfPresentByName(ctx, "alice")
	require.True(t, ok)
	require.Equal(t, current, got)

	_, ok = c.GetIfPresent(ctx, stale.ID)
	require.False(t, ok)

	// within one batch the later profile keeps the name
	c.PutAll(ctx, []profile.Profile{current.WithName("Bob"), stale.WithName("bob")})
	got, ok = c.GetIfPresentByName(ctx, "Bob")
	require.True(t, ok)
	require.Equal(t, stale.WithName("bob"), got)
	require.Len(t, c.GetAllPresent(ctx, []uuid.UUID{stale.ID, current.ID}), 1)
}

func TestLargeBatchIsChunked(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t)

	var profiles []profile.Profile
	for i := 0; i < sqlcommon.MaxParamsPerQuery+20; i++ {
		profiles = append(profiles, profile.MustNew(uuid.New(), fmt.Sprintf("player%d", i)))
	}
	c.PutAll(ctx, profiles)

	got := c.GetAllPresent(ctx, profile.IDs(profiles))
	require.Len(t, got, len(profiles))
}

func TestSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	c, uri := newCache(t)
	c.Put(ctx, notch)
	c.Close()

	reopened, err := New(ctx, uri, sqlcommon.NewConfig())
	require.NoError(t, err)
	t.Cleanup(reopened.Close)

	got, ok := reopened.GetIfPresent(ctx, notch.ID)
	require.True(t, ok)
	require.Equal(t, notch, got)
}

func TestConcurrentWriters(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := profile.MustNew(uuid.New(), fmt.Sprintf("player%d", i))
			c.Put(ctx, p)
			_, ok := c.GetIfPresent(ctx, p.ID)
			assert.True(t, ok)
		}()
	}
	wg.Wait()
}

func TestFailuresAreLogged(t *testing.T) {
	ctx := context.Background()
	log, logs := logger.NewObserverLogger("warn")
	uri := filepath.Join(t.TempDir(), "cache.db")
	c, err := New(ctx, uri, sqlcommon.NewConfig(sqlcommon.WithLogger(log)))
	require.NoError(t, err)

	c.Close()
	c.Put(ctx, notch)
	require.Empty(t, c.GetAllPresent(ctx, []uuid.UUID{notch.ID}))

	require.Equal(t, 2, logs.FilterMessage("profile cache request failed").Len())
}

func TestMigrate(t *testing.T) {
	uri := filepath.Join(t.TempDir(), "cache.db")
	require.NoError(t, Migrate(context.Background(), uri, sqlcommon.NewConfig(), 0))
}
