//go:build integration

package redis_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/kislikjeka/warungku/internal/infra/redis"
	"github.com/kislikjeka/warungku/internal/module/report"
	"github.com/kislikjeka/warungku/pkg/logger"
)

func startRedis(t *testing.T, ctx context.Context) string {
	t.Helper()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	return fmt.Sprintf("redis://%s:%s/0", host, port.Port())
}

func TestReportCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	client, err := redis.NewClient(ctx, startRedis(t, ctx), "")
	require.NoError(t, err)
	defer client.Close()

	cache := redis.NewReportCache(client, time.Minute, logger.Discard())

	_, ok, err := cache.Get(ctx, 2024, time.July)
	require.NoError(t, err)
	assert.False(t, ok)

	r := report.Aggregate(2024, time.July, time.UTC, nil)
	r.Summary.TotalIncome = decimal.NewFromInt(125000)
	stored, err := cache.Set(ctx, r, 0)
	require.NoError(t, err)
	require.True(t, stored)

	got, ok, err := cache.Get(ctx, 2024, time.July)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.Summary.TotalIncome.Equal(decimal.NewFromInt(125000)))
	assert.Len(t, got.Daily, 31)

	require.NoError(t, cache.Invalidate(ctx, 2024, time.July))
	_, ok, err = cache.Get(ctx, 2024, time.July)
	require.NoError(t, err)
	assert.False(t, ok)

	stored, err = cache.Set(ctx, r, 1)
	require.NoError(t, err)
	require.True(t, stored)
	require.NoError(t, cache.Clear(ctx))
	_, ok, err = cache.Get(ctx, 2024, time.July)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReportCache_StaleBuildIsNotStored(t *testing.T) {
	ctx := context.Background()
	client, err := redis.NewClient(ctx, startRedis(t, ctx), "")
	require.NoError(t, err)
	defer client.Close()

	cache := redis.NewReportCache(client, time.Minute, logger.Discard())

	version, err := cache.Version(ctx, 2024, time.August)
	require.NoError(t, err)
	assert.Equal(t, int64(0), version)

	// a transaction lands while the report for version 0 is being built
	require.NoError(t, cache.Invalidate(ctx, 2024, time.August))

	r := report.Aggregate(2024, time.August, time.UTC, nil)
	stored, err := cache.Set(ctx, r, version)
	require.NoError(t, err)
	assert.False(t, stored)

	_, ok, err := cache.Get(ctx, 2024, time.August)
	require.NoError(t, err)
	assert.False(t, ok)

	version, err = cache.Version(ctx, 2024, time.August)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	stored, err = cache.Set(ctx, r, version)
	require.NoError(t, err)
	assert.True(t, stored)

	_, ok, err = cache.Get(ctx, 2024, time.August)
	require.NoError(t, err)
	assert.True(t, ok)

	// other months keep their own counter
	other, err := cache.Version(ctx, 2024, time.September)
	require.NoError(t, err)
	assert.Equal(t, int64(0), other)
}
