package doctors

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelinkhq/carelink-api/internal/auth"
	"github.com/carelinkhq/carelink-api/internal/users"
)

func newTestCache(t *testing.T) (*DirectoryCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewDirectoryCache(client, time.Minute, nil), mr
}

func sampleDoctors() []*users.User {
	return []*users.User{
		{ID: "d1", Name: "Dr. Asha Rao", Role: auth.RoleDoctor, Specialization: "cardiology", Rating: 4.5},
		{ID: "d2", Name: "Dr. Ben Ortiz", Role: auth.RoleDoctor, Specialization: "dermatology", Rating: 4.1},
	}
}

func TestCacheRoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()
	filter := users.DoctorFilter{Specialization: "cardiology"}

	_, ok := cache.Get(ctx, filter)
	assert.False(t, ok)

	cache.Set(ctx, filter, sampleDoctors())

	cached, ok := cache.Get(ctx, filter)
	require.True(t, ok)
	require.Len(t, cached, 2)
	assert.Equal(t, "d1", cached[0].ID)
}

func TestCacheKeysDifferPerFilter(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	cache.Set(ctx, users.DoctorFilter{Specialization: "cardiology"}, sampleDoctors())

	_, ok := cache.Get(ctx, users.DoctorFilter{Specialization: "dermatology"})
	assert.False(t, ok)
}

func TestCacheInvalidateDropsAllListings(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	cache.Set(ctx, users.DoctorFilter{}, sampleDoctors())
	cache.Set(ctx, users.DoctorFilter{Specialization: "cardiology"}, sampleDoctors())

	cache.Invalidate(ctx)

	_, ok := cache.Get(ctx, users.DoctorFilter{})
	assert.False(t, ok)
	_, ok = cache.Get(ctx, users.DoctorFilter{Specialization: "cardiology"})
	assert.False(t, ok)
}

func TestCacheExpires(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()
	filter := users.DoctorFilter{}

	cache.Set(ctx, filter, sampleDoctors())
	mr.FastForward(2 * time.Minute)

	_, ok := cache.Get(ctx, filter)
	assert.False(t, ok)
}

func TestNilCacheIsNoop(t *testing.T) {
	var cache *DirectoryCache
	ctx := context.Background()

	_, ok := cache.Get(ctx, users.DoctorFilter{})
	assert.False(t, ok)
	cache.Set(ctx, users.DoctorFilter{}, sampleDoctors())
	cache.Invalidate(ctx)
}
