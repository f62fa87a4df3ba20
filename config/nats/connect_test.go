package nats

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConnect_KeyValue(t *testing.T) {
	url := os.Getenv("NATS_URL")
	if url == "" {
		t.Skip("NATS_URL not set")
	}

	conn, err := Connect(url)
	require.NoError(t, err)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	kv, err := conn.KeyValue(ctx, "quality-agent-test", time.Minute)
	require.NoError(t, err)

	_, err = kv.Put(ctx, "k", []byte("v"))
	require.NoError(t, err)

	entry, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("v"), entry.Value())
}

func TestConnect_Unreachable(t *testing.T) {
	_, err := Connect("nats://127.0.0.1:1")
	require.Error(t, err)
}
