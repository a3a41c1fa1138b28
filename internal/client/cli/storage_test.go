package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/tavernauth/internal/client/config"
	"github.com/dmitrijs2005/tavernauth/internal/client/repositories/metadata"
)

func TestOpenStorage(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		backend string
		dsn     string
	}{
		{config.BackendSQLite, filepath.Join(dir, "session.db")},
		{config.BackendFile, filepath.Join(dir, "session.json")},
		{config.BackendMemory, ""},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			repo, closeFn, err := openStorage(ctx, &config.Config{StorageBackend: tt.backend, StorageDSN: tt.dsn})
			require.NoError(t, err)
			t.Cleanup(func() { _ = closeFn() })

			require.NoError(t, repo.Set(ctx, "authToken", []byte("a")))
			got, err := repo.Get(ctx, "authToken")
			require.NoError(t, err)
			assert.Equal(t, "a", string(got))
		})
	}
}

func TestOpenStorage_Errors(t *testing.T) {
	ctx := context.Background()

	_, _, err := openStorage(ctx, &config.Config{StorageBackend: "etcd"})
	assert.ErrorIs(t, err, metadata.ErrUnsupportedBackend)

	_, _, err = openStorage(ctx, &config.Config{StorageBackend: config.BackendRedis, StorageDSN: "not a url"})
	assert.Error(t, err)
}
