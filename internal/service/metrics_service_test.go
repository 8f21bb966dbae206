package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cirqle/cirqle-api/internal/models"
	appErrors "github.com/cirqle/cirqle-api/pkg/errors"
)

func TestMetricsServiceCounters(t *testing.T) {
	m := NewMetricsService()

	m.ObserveBooking(BookingOutcomeRecorded)
	m.ObserveBooking(BookingOutcomeSlotTaken)
	m.ObserveBooking(BookingOutcomeSlotTaken)
	m.ObserveEmail(models.EmailWelcome, true)
	m.ObserveEmail(models.EmailWelcome, false)
	m.ObserveFlowStep("SELECTING_TIME")
	m.ObserveHTTPRequest(http.MethodGet, "/api/v1/hosts/:username", http.StatusOK, 20*time.Millisecond)
	m.ObserveStoreCall("bookings.create", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.bookings.WithLabelValues(BookingOutcomeSlotTaken)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.bookings.WithLabelValues(BookingOutcomeRecorded)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.emails.WithLabelValues("welcome", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.flowSteps.WithLabelValues("SELECTING_TIME")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestTotal.WithLabelValues("GET", "/api/v1/hosts/:username", "200")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "cirqle_bookings_total"))
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var m *MetricsService
	assert.NotPanics(t, func() {
		m.ObserveBooking(BookingOutcomeFailed)
		m.ObserveEmail(models.EmailContact, true)
		m.ObserveFlowStep("CONFIRMED")
		m.ObserveStoreCall("x", time.Second)
		m.RecordCacheOperation(true, time.Millisecond)
	})
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

type memoryCache struct {
	values  map[string]interface{}
	deleted []string
	getErr  error
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.getErr != nil {
		return c.getErr
	}
	v, ok := c.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	*(dest.(*string)) = v.(string)
	return nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.values[key] = value
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.values, k)
		c.deleted = append(c.deleted, k)
	}
	return nil
}

func TestCacheServiceHitRatio(t *testing.T) {
	m := NewMetricsService()
	repo := &memoryCache{values: map[string]interface{}{}}
	cache := NewCacheService(repo, m, 0, nil, true)
	ctx := context.Background()

	var out string
	assert.False(t, cache.Get(ctx, HostKey("Ada"), &out))
	cache.Set(ctx, HostKey("Ada"), "cached", 0)
	assert.True(t, cache.Get(ctx, "host:ada", &out))
	assert.Equal(t, "cached", out)
	assert.Equal(t, 0.5, testutil.ToFloat64(m.cacheHitRatio))

	cache.Forget(ctx, HostKey("ADA"))
	assert.Equal(t, []string{"host:ada"}, repo.deleted)
	assert.False(t, cache.Get(ctx, "host:ada", &out))

	cache.Set(ctx, "host:bob", "x", time.Minute)
	cache.Forget(ctx, "host:bob")
	assert.Empty(t, repo.values)
}

func TestCacheServiceDisabledAndFailing(t *testing.T) {
	repo := &memoryCache{values: map[string]interface{}{"k": "v"}}
	var out string

	disabled := NewCacheService(repo, nil, 0, nil, false)
	assert.False(t, disabled.Enabled())
	assert.False(t, disabled.Get(context.Background(), "k", &out))

	var missing *CacheService
	assert.False(t, missing.Enabled())
	assert.False(t, missing.Get(context.Background(), "k", &out))
	missing.Set(context.Background(), "k", "v", 0)

	repo.getErr = context.DeadlineExceeded
	failing := NewCacheService(repo, nil, 0, nil, true)
	assert.False(t, failing.Get(context.Background(), "k", &out))
}
