package traveltime

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kilchi555/driving-team-app-sub004/internal/domain"
	"github.com/Kilchi555/driving-team-app-sub004/pkg/types"
)

type fakeCache struct {
	values map[string]string
	getErr error
	setErr error
	sets   map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string]string), sets: make(map[string]string)}
}

func (f *fakeCache) Get(_ context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	v, ok := f.values[key]
	if !ok {
		return "", ErrCacheMiss
	}
	return v, nil
}

func (f *fakeCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.sets[key] = value
	return nil
}

type fakeRouting struct {
	minutes int
	err     error
	calls   int
}

func (f *fakeRouting) Resolve(context.Context, string, string, time.Time) (int, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return f.minutes, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func window(t *testing.T, start, end string) PeakWindow {
	t.Helper()
	s, err := types.NewTimeStringFromString(start)
	require.NoError(t, err)
	e, err := types.NewTimeStringFromString(end)
	require.NoError(t, err)
	return PeakWindow{Start: s, End: e}
}

func newTestService(t *testing.T, cache Cache, routing RoutingClient) *Service {
	return NewService(
		cache,
		routing,
		window(t, "07:00", "09:00"),
		window(t, "16:30", "18:30"),
		24*time.Hour,
		nil,
		nopLogger{},
	)
}

func dayAt(hour, minute int) time.Time {
	return time.Date(2025, 3, 3, hour, minute, 0, 0, time.UTC)
}

func TestBucketFor(t *testing.T) {
	svc := newTestService(t, newFakeCache(), &fakeRouting{})

	tests := []struct {
		name      string
		departure time.Time
		want      domain.TimeBucket
	}{
		{name: "morning peak start", departure: dayAt(7, 0), want: domain.BucketMorningPeak},
		{name: "inside morning peak", departure: dayAt(8, 30), want: domain.BucketMorningPeak},
		{name: "morning peak end is exclusive", departure: dayAt(9, 0), want: domain.BucketOffPeak},
		{name: "midday", departure: dayAt(12, 0), want: domain.BucketOffPeak},
		{name: "evening peak", departure: dayAt(17, 0), want: domain.BucketEveningPeak},
		{name: "late night", departure: dayAt(23, 0), want: domain.BucketOffPeak},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.BucketFor(tt.departure))
		})
	}
}

func TestResolve_SamePostalCode(t *testing.T) {
	routing := &fakeRouting{minutes: 40}
	svc := newTestService(t, newFakeCache(), routing)

	minutes, err := svc.Resolve(context.Background(), "8001", "8001", dayAt(12, 0))
	require.NoError(t, err)
	assert.Equal(t, 0, minutes)
	assert.Equal(t, 0, routing.calls)
}

func TestResolve_CacheHit(t *testing.T) {
	cache := newFakeCache()
	cache.values["traveltime:8001:8400:off_peak"] = "40"
	routing := &fakeRouting{minutes: 99}
	svc := newTestService(t, cache, routing)

	minutes, err := svc.Resolve(context.Background(), "8001", "8400", dayAt(12, 0))
	require.NoError(t, err)
	assert.Equal(t, 40, minutes)
	assert.Equal(t, 0, routing.calls)
}

func TestResolve_CacheMissCallsProviderAndStores(t *testing.T) {
	cache := newFakeCache()
	routing := &fakeRouting{minutes: 35}
	svc := newTestService(t, cache, routing)

	minutes, err := svc.Resolve(context.Background(), "8001", "8400", dayAt(8, 0))
	require.NoError(t, err)
	assert.Equal(t, 35, minutes)
	assert.Equal(t, 1, routing.calls)
	assert.Equal(t, "35", cache.sets["traveltime:8001:8400:morning_peak"])
}

func TestResolve_DirectionalKeys(t *testing.T) {
	cache := newFakeCache()
	routing := &fakeRouting{minutes: 35}
	svc := newTestService(t, cache, routing)

	_, err := svc.Resolve(context.Background(), "8001", "8400", dayAt(12, 0))
	require.NoError(t, err)
	_, err = svc.Resolve(context.Background(), "8400", "8001", dayAt(12, 0))
	require.NoError(t, err)

	// Обратное направление не переиспользует кеш прямого
	assert.Equal(t, 2, routing.calls)
	assert.Contains(t, cache.sets, "traveltime:8001:8400:off_peak")
	assert.Contains(t, cache.sets, "traveltime:8400:8001:off_peak")
}

func TestResolve_CacheErrorFallsThroughToProvider(t *testing.T) {
	cache := newFakeCache()
	cache.getErr = errors.New("redis down")
	routing := &fakeRouting{minutes: 25}
	svc := newTestService(t, cache, routing)

	minutes, err := svc.Resolve(context.Background(), "8001", "8400", dayAt(12, 0))
	require.NoError(t, err)
	assert.Equal(t, 25, minutes)
	assert.Equal(t, 1, routing.calls)
}

func TestResolve_ProviderFailure(t *testing.T) {
	routing := &fakeRouting{err: errors.New("routing down")}
	svc := newTestService(t, newFakeCache(), routing)

	_, err := svc.Resolve(context.Background(), "8001", "8400", dayAt(12, 0))
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestResolve_CorruptCacheValueFallsThrough(t *testing.T) {
	cache := newFakeCache()
	cache.values["traveltime:8001:8400:off_peak"] = "not-a-number"
	routing := &fakeRouting{minutes: 30}
	svc := newTestService(t, cache, routing)

	minutes, err := svc.Resolve(context.Background(), "8001", "8400", dayAt(12, 0))
	require.NoError(t, err)
	assert.Equal(t, 30, minutes)
	assert.Equal(t, 1, routing.calls)
}
