package commands

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alex-sviridov/webserver/internal/config"
	"github.com/alex-sviridov/webserver/internal/connector"
	"github.com/alex-sviridov/webserver/internal/redis"
)

// fakeStore is an in-memory output store.
type fakeStore struct {
	records map[string]redis.StackOutputs
	ttl     time.Duration
	closed  bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: map[string]redis.StackOutputs{}}
}

func (s *fakeStore) PushStackOutputs(ctx context.Context, outputs redis.StackOutputs, ttl time.Duration) error {
	s.records[outputs.Stack] = outputs
	s.ttl = ttl
	return nil
}

func (s *fakeStore) GetStackOutputs(ctx context.Context, name string) (*redis.StackOutputs, error) {
	rec, ok := s.records[name]
	if !ok {
		return nil, redis.ErrOutputsNotFound
	}
	return &rec, nil
}

func (s *fakeStore) ListStackOutputs(ctx context.Context) ([]redis.StackOutputs, error) {
	var all []redis.StackOutputs
	for _, name := range []string{"alpha", "beta", "demo"} {
		if rec, ok := s.records[name]; ok {
			all = append(all, rec)
		}
	}
	return all, nil
}

func (s *fakeStore) Close() error {
	s.closed = true
	return nil
}

// useStore routes newOutputStore to store for the duration of the test.
func useStore(t *testing.T, store redis.ClientInterface) {
	t.Helper()
	orig := newOutputStore
	newOutputStore = func(ctx context.Context, address string) (redis.ClientInterface, error) {
		return store, nil
	}
	t.Cleanup(func() { newOutputStore = orig })
}

// useConnector routes newConnector to conn for the duration of the test.
func useConnector(t *testing.T, conn connector.Connector) {
	t.Helper()
	orig := newConnector
	newConnector = func(engine string, log *slog.Logger, dryrun bool) (connector.Connector, error) {
		return conn, nil
	}
	t.Cleanup(func() { newConnector = orig })
}

func writeScript(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, config.BootstrapScriptPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/bash\necho ok\n"), 0o644))
	return dir
}
