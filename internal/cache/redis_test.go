package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/joshi-samarth/AirlineManagementSystem/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func TestFlightsKey(t *testing.T) {
	assert.Equal(t, "cache:flights:from=delhi", flightsKey("from=delhi"))
}

func startRedis(t *testing.T) *RedisCache {
	t.Helper()
	if os.Getenv("AIRBOOKING_INTEGRATION") != "1" {
		t.Skip("set AIRBOOKING_INTEGRATION=1 to run redis integration tests")
	}
	ctx := context.Background()

	container, err := tcredis.RunContainer(ctx, testcontainers.WithImage("docker.io/redis:7"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := redis.ParseURL(uri)
	require.NoError(t, err)

	c := NewRedisCacheFromClient(redis.NewClient(opts), time.Minute)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestRedisCache_FlightsRoundTripAndInvalidate(t *testing.T) {
	c := startRedis(t)
	ctx := context.Background()

	got, err := c.GetFlights(ctx, "all")
	require.NoError(t, err)
	assert.Nil(t, got)

	flights := []domain.Flight{{ID: 1, FlightNumber: "6E-100", Price: domain.Money(450000)}}
	require.NoError(t, c.SetFlights(ctx, "all", flights))
	require.NoError(t, c.SetFlights(ctx, "from=goa", nil))

	got, err = c.GetFlights(ctx, "all")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.Money(450000), got[0].Price)

	empty, err := c.GetFlights(ctx, "from=goa")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	require.NoError(t, c.InvalidateFlights(ctx))
	got, err = c.GetFlights(ctx, "all")
	require.NoError(t, err)
	assert.Nil(t, got)
}
