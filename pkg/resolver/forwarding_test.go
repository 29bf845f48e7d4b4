package resolver_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/enginehub/squirrelid/internal/mocks"
	"github.com/enginehub/squirrelid/pkg/cache"
	"github.com/enginehub/squirrelid/pkg/cache/memory"
	"github.com/enginehub/squirrelid/pkg/profile"
	"github.com/enginehub/squirrelid/pkg/resolver"
)

func TestCacheForwardingPopulatesCache(t *testing.T) {
	ctx := context.Background()
	c := memory.New()
	src, err := resolver.NewCacheForwardingSource(resolver.NewHashMapSource(notch, jeb, dinnerbone), c)
	require.NoError(t, err)

	found, err := src.FindAllByName(ctx, []string{"Notch", "Grumm"})
	require.NoError(t, err)
	require.Equal(t, []profile.Profile{notch}, found)

	p, err := src.FindByUUID(ctx, jeb.ID)
	require.NoError(t, err)
	require.Equal(t, &jeb, p)

	err = src.VisitAllByName(ctx, []string{"Dinnerbone"}, func(profile.Profile) bool { return true })
	require.NoError(t, err)

	got := c.GetAllPresent(ctx, []uuid.UUID{notch.ID, jeb.ID, dinnerbone.ID})
	require.Equal(t, map[uuid.UUID]profile.Profile{notch.ID: notch, jeb.ID: jeb, dinnerbone.ID: dinnerbone}, got)
}

func TestCacheForwardingSkipsMisses(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	c := mocks.NewMockCache(ctrl)
	inner := mocks.NewMockSource(ctrl)
	boom := errors.New("remote unavailable")

	inner.EXPECT().FindByName(gomock.Any(), "Grumm").Return(nil, nil)
	inner.EXPECT().FindAllByUUID(gomock.Any(), gomock.Any()).Return(nil, boom)
	inner.EXPECT().IdealRequestLimit().Return(100)
	// no cache writes are expected

	src, err := resolver.NewCacheForwardingSource(inner, c)
	require.NoError(t, err)

	p, err := src.FindByName(ctx, "Grumm")
	require.NoError(t, err)
	require.Nil(t, p)

	_, err = src.FindAllByUUID(ctx, []uuid.UUID{notch.ID})
	require.ErrorIs(t, err, boom)

	require.Equal(t, 100, src.IdealRequestLimit())
}

func TestCacheForwardingStreamsThroughCache(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	c := mocks.NewMockCache(ctrl)

	gomock.InOrder(
		c.EXPECT().Put(gomock.Any(), notch),
		c.EXPECT().Put(gomock.Any(), jeb),
	)

	src, err := resolver.NewCacheForwardingSource(resolver.NewHashMapSource(notch, jeb), c)
	require.NoError(t, err)
	var visited []profile.Profile
	err = src.VisitAllByUUID(ctx, []uuid.UUID{notch.ID, jeb.ID}, func(p profile.Profile) bool {
		visited = append(visited, p)
		return true
	})
	require.NoError(t, err)
	require.Equal(t, []profile.Profile{notch, jeb}, visited)
}

func TestNewCacheForwardingSourceValidates(t *testing.T) {
	tests := map[string]struct {
		src   resolver.Source
		cache cache.Cache
	}{
		"nil_source": {src: nil, cache: memory.New()},
		"nil_cache":  {src: resolver.NewHashMapSource(), cache: nil},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := resolver.NewCacheForwardingSource(test.src, test.cache)
			require.ErrorIs(t, err, resolver.ErrInvalidConfig)
		})
	}
}
