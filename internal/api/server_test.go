package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bist-screener/pkg/config"
	"bist-screener/pkg/logger"
)

func testConfig(port string) *config.Config {
	return &config.Config{Port: port, Env: "development"}
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	server := New(testConfig("0"), logger.NewNop(), http.NewServeMux())

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- server.Run(ctx)
	}()

	// Give the listener a moment to come up, then request shutdown
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down after context cancel")
	}
}

func TestRun_ListenFailure(t *testing.T) {
	server := New(testConfig("not-a-port"), logger.NewNop(), http.NewServeMux())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := server.Run(ctx)
	require.Error(t, err)
}
