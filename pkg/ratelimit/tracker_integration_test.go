//go:build integration

package ratelimit

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupRedis starts a Redis container and returns a client
func setupRedis(t *testing.T) (*redis.Client, func()) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	redisC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}

	host, err := redisC.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	port, err := redisC.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: host + ":" + port.Port()})

	return client, func() {
		client.Close()
		redisC.Terminate(ctx)
	}
}

func TestTracker_SharedCooldown(t *testing.T) {
	client, cleanup := setupRedis(t)
	defer cleanup()

	ctx := context.Background()
	first := NewTracker(0, client, zerolog.Nop())
	second := NewTracker(0, client, zerolog.Nop())

	err := first.UpdateFromResponse(ctx, &http.Response{
		StatusCode: http.StatusTooManyRequests,
		Header:     http.Header{"Retry-After": {"10"}},
	})
	if err != nil {
		t.Fatalf("UpdateFromResponse() error = %v", err)
	}

	state, err := second.GetState(ctx)
	if err != nil {
		t.Fatalf("GetState() error = %v", err)
	}
	if !state.IsCoolingDown() {
		t.Fatal("second tracker does not see the shared cool-down")
	}
	if state.TimeUntilReset() < 8*time.Second {
		t.Errorf("TimeUntilReset() = %v, want ~10s", state.TimeUntilReset())
	}
}

func TestTracker_NoStateInRedis(t *testing.T) {
	client, cleanup := setupRedis(t)
	defer cleanup()

	tracker := NewTracker(0, client, zerolog.Nop())
	state, err := tracker.GetState(context.Background())
	if err != nil {
		t.Fatalf("GetState() error = %v", err)
	}
	if state.IsCoolingDown() {
		t.Error("empty Redis must not report a cool-down")
	}
}
