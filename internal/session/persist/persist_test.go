package persist_test

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/ecoshopper/internal/catalog"
	"github.com/rshade/ecoshopper/internal/config"
	"github.com/rshade/ecoshopper/internal/session"
	"github.com/rshade/ecoshopper/internal/session/persist"
)

// backends returns a fresh instance of every adapter.
func backends(t *testing.T) map[string]persist.Backend {
	t.Helper()
	ctx := context.Background()

	sqliteDB, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	sqliteDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqliteDB.Close() })
	sqliteBackend, err := persist.NewSQLite(ctx, sqliteDB)
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	out := map[string]persist.Backend{
		"memory": persist.NewMemory(),
		"file":   persist.NewFile(filepath.Join(t.TempDir(), "session.json")),
		"sqlite": sqliteBackend,
		"redis":  persist.NewRedis(client, "test"),
	}
	t.Cleanup(func() {
		for _, b := range out {
			_ = b.Close()
		}
	})
	return out
}

func TestBackends_Contract(t *testing.T) {
	ctx := context.Background()

	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			got, err := b.Load(ctx, session.AllKeys())
			require.NoError(t, err)
			assert.Empty(t, got, "fresh backend has no keys")

			require.NoError(t, b.Save(ctx, map[string][]byte{
				session.KeyTheme:      []byte("dark"),
				session.KeyPreference: []byte("80"),
			}))
			require.NoError(t, b.Save(ctx, map[string][]byte{
				session.KeyPreference: []byte("90"),
			}))

			got, err = b.Load(ctx, session.AllKeys())
			require.NoError(t, err)
			assert.Equal(t, map[string][]byte{
				session.KeyTheme:      []byte("dark"),
				session.KeyPreference: []byte("90"),
			}, got)

			got, err = b.Load(ctx, []string{session.KeyTheme})
			require.NoError(t, err)
			assert.Len(t, got, 1)

			got, err = b.Load(ctx, nil)
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestBackends_DriveStore(t *testing.T) {
	ctx := context.Background()
	p := catalog.Default().All()[0]

	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := session.New(ctx, b)
			s.AddToCart(p)
			s.AddToCart(p)
			s.RecordProductView(10, 0.5, true)
			s.SubmitFeedback(session.Feedback{ProductID: p.ID, Vote: session.VoteUp, Comment: "nice"})
			s.Close()

			reloaded := session.New(ctx, b)
			assert.Equal(t, s.Snapshot(), reloaded.Snapshot())
			assert.Equal(t, 2, reloaded.Cart()[0].Quantity)
		})
	}
}

func TestFile_Corruption(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	f := persist.NewFile(path)

	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))
	_, err := f.Load(ctx, session.AllKeys())
	require.ErrorIs(t, err, persist.ErrSnapshotCorrupted)

	// The store falls back to defaults and the next save repairs the file.
	s := session.New(ctx, f)
	assert.Equal(t, session.DefaultSnapshot(), s.Snapshot())
	s.ToggleTheme()
	s.Close()

	got, err := f.Load(ctx, session.AllKeys())
	require.NoError(t, err)
	assert.Equal(t, []byte("dark"), got[session.KeyTheme])
}

func TestFile_VersionMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version": 99, "entries": {}}`), 0o600))

	_, err := persist.NewFile(path).Load(context.Background(), session.AllKeys())
	require.ErrorIs(t, err, persist.ErrSnapshotCorrupted)
}

func TestFile_WritesReadableDocumentAndReleasesLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	f := persist.NewFile(path)

	require.NoError(t, f.Save(context.Background(), map[string][]byte{session.KeyTheme: []byte("light")}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version": 1, "entries": {"ecoshopper_theme": "light"}}`, string(data))
	assert.NoFileExists(t, path+".lock")
	assert.NoFileExists(t, path+".tmp")
	assert.Equal(t, path, f.Path())
}

func TestFile_StaleLockIsBroken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	lock := path + ".lock"

	// A lock owned by a PID that cannot exist, aged past the stale threshold.
	require.NoError(t, os.WriteFile(lock, []byte("999999999"), 0o600))
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(lock, old, old))

	require.NoError(t, persist.NewFile(path).Save(context.Background(),
		map[string][]byte{session.KeyTheme: []byte("dark")}))
}

func TestRedis_Namespacing(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	r := persist.NewRedis(client, "shopper-1")
	t.Cleanup(func() { _ = r.Close() })

	require.NoError(t, r.Save(context.Background(), map[string][]byte{session.KeyTheme: []byte("dark")}))

	v, err := mr.Get("shopper-1:" + session.KeyTheme)
	require.NoError(t, err)
	assert.Equal(t, "dark", v)
	require.NoError(t, r.Save(context.Background(), nil))
}

func TestOpenRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	r, err := persist.OpenRedis(context.Background(), "redis://"+mr.Addr()+"/0", "ns")
	require.NoError(t, err)
	require.NoError(t, r.Close())

	_, err = persist.OpenRedis(context.Background(), "not a url", "ns")
	require.Error(t, err)
}

func TestOpenRedis_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := persist.OpenRedis(context.Background(), "redis://"+addr, "ns")
	require.Error(t, err)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	mr := miniredis.RunT(t)

	tests := []struct {
		name    string
		storage config.StorageConfig
		wantErr error
	}{
		{"memory", config.StorageConfig{Backend: config.BackendMemory}, nil},
		{"file", config.StorageConfig{Backend: config.BackendFile, Path: filepath.Join(dir, "s.json")}, nil},
		{"sqlite", config.StorageConfig{Backend: config.BackendSQLite, Path: filepath.Join(dir, "db", "s.db")}, nil},
		{"redis", config.StorageConfig{Backend: config.BackendRedis, RedisURL: "redis://" + mr.Addr()}, nil},
		{"unknown", config.StorageConfig{Backend: "tape"}, persist.ErrUnknownBackend},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Storage = tt.storage

			b, err := persist.Open(ctx, cfg)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			t.Cleanup(func() { _ = b.Close() })

			require.NoError(t, b.Save(ctx, map[string][]byte{session.KeyPreference: []byte("1")}))
			got, err := b.Load(ctx, []string{session.KeyPreference})
			require.NoError(t, err)
			assert.Equal(t, []byte("1"), got[session.KeyPreference])
		})
	}
}

func TestOpen_DefaultPathUsesConfigDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.EnvHome, dir)

	cfg := config.Default()
	b, err := persist.Open(context.Background(), cfg)
	require.NoError(t, err)
	require.NoError(t, b.Save(context.Background(), map[string][]byte{session.KeyTheme: []byte("dark")}))

	assert.FileExists(t, filepath.Join(dir, "session.json"))
}
