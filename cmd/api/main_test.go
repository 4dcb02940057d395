package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invdash/internal/store/kv"
)

func TestRun_ReleasesStoreWhenStartupFails(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("OTEL_SDK_DISABLED", "true")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("STORE_BACKEND", "badger")
	t.Setenv("STORE_BADGER_DIR", dir)
	t.Setenv("MINIO_ENDPOINT", "localhost:9000")
	t.Setenv("MINIO_ACCESS_KEY", "")
	t.Setenv("MINIO_SECRET_KEY", "")

	err := run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "initialize object storage")

	// badger holds a directory lock until closed.
	s, err := kv.Open(dir)
	require.NoError(t, err)
	assert.NoError(t, s.Close())
}

func TestRun_UnknownBackend(t *testing.T) {
	t.Setenv("OTEL_SDK_DISABLED", "true")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("STORE_BACKEND", "tape")

	err := run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown store backend "tape"`)
}
