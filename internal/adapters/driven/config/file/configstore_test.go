package file

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
	assert.Empty(t, store.Keys())
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, DefaultDirName, "config.toml"), store.Path())
}

func TestNewConfigStore_WithNestedDirectory(t *testing.T) {
	nestedPath := filepath.Join(t.TempDir(), "nested", "deep", "path")

	store, err := NewConfigStore(nestedPath)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(nestedPath, "config.toml"), store.Path())

	info, err := os.Stat(nestedPath)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
}

func TestNewConfigStore_MkdirAllError(t *testing.T) {
	store, err := NewConfigStore("/dev/null/cannot/create/dirs")

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("this is not valid TOML {{{[["), 0600)
	require.NoError(t, err)

	store, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_ReadsNestedTables(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[api]
base_url = "https://ghe.example.com/api/v3"
requests_per_second = 2
timeout_seconds = 15

[search]
page_size = 30
debounce_ms = 100
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "https://ghe.example.com/api/v3", store.GetString("api.base_url"))
	assert.InDelta(t, 2.0, store.GetFloat("api.requests_per_second"), 0.0001)
	assert.Equal(t, 15, store.GetInt("api.timeout_seconds"))
	assert.Equal(t, 30, store.GetInt("search.page_size"))
	assert.Equal(t, 100, store.GetInt("search.debounce_ms"))
	assert.Equal(t, []string{
		"api.base_url",
		"api.requests_per_second",
		"api.timeout_seconds",
		"search.debounce_ms",
		"search.page_size",
	}, store.Keys())
}

func TestConfigStore_WritesNestedTables(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("search.page_size", int64(25)))
	require.NoError(t, store.Set("api.token", "ghp_abc"))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[search]")
	assert.Contains(t, string(raw), "[api]")
	assert.NotContains(t, string(raw), `"search.page_size"`)
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("api.base_url", "http://localhost:8080"))

	val, ok := store.Get("api.base_url")
	assert.True(t, ok)
	assert.Equal(t, "http://localhost:8080", val)
}

func TestConfigStore_Get_NotFound(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	val, ok := store.Get("missing")
	assert.False(t, ok)
	assert.Nil(t, val)
	assert.Empty(t, store.GetString("missing"))
	assert.Zero(t, store.GetInt("missing"))
	assert.Zero(t, store.GetFloat("missing"))
}

func TestConfigStore_TypeMismatch(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("search.page_size", "fifty"))
	require.NoError(t, store.Set("api.base_url", int64(3)))

	assert.Zero(t, store.GetInt("search.page_size"))
	assert.Zero(t, store.GetFloat("search.page_size"))
	assert.Empty(t, store.GetString("api.base_url"))
}

func TestConfigStore_GetFloat(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("a.float", 0.5))
	require.NoError(t, store.Set("a.int64", int64(3)))
	require.NoError(t, store.Set("a.int", 4))

	assert.InDelta(t, 0.5, store.GetFloat("a.float"), 0.0001)
	assert.InDelta(t, 3.0, store.GetFloat("a.int64"), 0.0001)
	assert.InDelta(t, 4.0, store.GetFloat("a.int"), 0.0001)
}

func TestConfigStore_Persistence(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("api.token", "ghp_secret"))
	require.NoError(t, store.Set("search.page_size", int64(42)))
	require.NoError(t, store.Set("api.requests_per_second", 1.5))

	store2, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "ghp_secret", store2.GetString("api.token"))
	assert.Equal(t, 42, store2.GetInt("search.page_size"))
	assert.InDelta(t, 1.5, store2.GetFloat("api.requests_per_second"), 0.0001)
}

func TestConfigStore_Unset(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("api.token", "ghp_secret"))
	require.NoError(t, store.Unset("api.token"))
	require.NoError(t, store.Unset("api.token"))

	store2, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	_, ok := store2.Get("api.token")
	assert.False(t, ok)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("api.token", "value"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("# Just a comment\n\n"), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	val, ok := store.Get("any_key")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestConfigStore_Set_KeyConflict(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("api.base_url", "http://localhost"))
	err = store.Set("api", "flat")
	assert.Error(t, err)

	_, ok := store.Get("api")
	assert.False(t, ok, "failed set must not stay in memory")
}

func TestConfigStore_Set_WriteFileError(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("test", "value"))

	// Replace the file with a directory to cause write error
	require.NoError(t, os.Remove(store.Path()))
	require.NoError(t, os.Mkdir(store.Path(), 0700))

	assert.Error(t, store.Set("another", "value"))
}

func TestConfigStore_SetWithUnmarshallableValue(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, store.Set("channel", make(chan int)))
}

func TestConfigStore_Load_InvalidTOML(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("valid", "data"))

	require.NoError(t, os.WriteFile(store.Path(), []byte("invalid toml syntax ][}{"), 0600))

	assert.Error(t, store.Load())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			key := "key" + string(rune('0'+id))
			_ = store.Set(key, id)
			_ = store.GetInt(key)
			_ = store.GetFloat(key)
			_ = store.GetString(key)
			_ = store.Keys()
		}(i)
	}
	wg.Wait()

	assert.Len(t, store.Keys(), 10)
}

func TestNestMap(t *testing.T) {
	nested, err := nestMap(map[string]any{
		"api.base_url":     "u",
		"search.page_size": int64(5),
		"top":              true,
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"api":    map[string]any{"base_url": "u"},
		"search": map[string]any{"page_size": int64(5)},
		"top":    true,
	}, nested)

	assert.Equal(t, map[string]any{
		"api.base_url":     "u",
		"search.page_size": int64(5),
		"top":              true,
	}, flattenMap(nested, ""))
}

func TestConfigStore_Watch(t *testing.T) {
	t.Run("reloads on external write", func(t *testing.T) {
		store, err := NewConfigStore(t.TempDir())
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		changes, err := store.Watch(ctx)
		require.NoError(t, err)
		require.NotNil(t, changes)

		go func() {
			time.Sleep(50 * time.Millisecond)
			os.WriteFile(store.Path(), []byte("[search]\npage_size = 25\n"), 0600)
		}()

		select {
		case <-changes:
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for config reload")
		}
		// The first event may arrive before the write completes.
		assert.Eventually(t, func() bool {
			return store.GetInt("search.page_size") == 25
		}, 2*time.Second, 20*time.Millisecond)
	})

	t.Run("ignores other files in the directory", func(t *testing.T) {
		dir := t.TempDir()
		store, err := NewConfigStore(dir)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		changes, err := store.Watch(ctx)
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0600))

		select {
		case <-changes:
			t.Fatal("unexpected reload for unrelated file")
		case <-time.After(200 * time.Millisecond):
		}
	})

	t.Run("broken file keeps previous values", func(t *testing.T) {
		store, err := NewConfigStore(t.TempDir())
		require.NoError(t, err)
		require.NoError(t, store.Set("search.page_size", 40))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		changes, err := store.Watch(ctx)
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(store.Path(), []byte("[search\n"), 0600))

		select {
		case <-changes:
			t.Fatal("unexpected signal for unparsable file")
		case <-time.After(200 * time.Millisecond):
		}
		assert.Equal(t, 40, store.GetInt("search.page_size"))
	})

	t.Run("closes channel on context cancellation", func(t *testing.T) {
		store, err := NewConfigStore(t.TempDir())
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		changes, err := store.Watch(ctx)
		require.NoError(t, err)

		cancel()

		select {
		case _, ok := <-changes:
			assert.False(t, ok, "channel should be closed")
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for channel close")
		}
	})

	t.Run("missing directory", func(t *testing.T) {
		dir := t.TempDir()
		store, err := NewConfigStore(dir)
		require.NoError(t, err)
		require.NoError(t, os.RemoveAll(dir))

		_, err = store.Watch(context.Background())
		assert.Error(t, err)
	})
}

func TestConfigStore_handleEvent(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	other := filepath.Join(filepath.Dir(store.Path()), "other.toml")

	tests := []struct {
		name   string
		path   string
		op     fsnotify.Op
		reload bool
	}{
		{"write", store.Path(), fsnotify.Write, true},
		{"create", store.Path(), fsnotify.Create, true},
		{"remove", store.Path(), fsnotify.Remove, true},
		{"rename", store.Path(), fsnotify.Rename, true},
		{"chmod only", store.Path(), fsnotify.Chmod, false},
		{"write and chmod", store.Path(), fsnotify.Write | fsnotify.Chmod, true},
		{"other file", other, fsnotify.Write, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := fsnotify.Event{Name: tt.path, Op: tt.op}
			assert.Equal(t, tt.reload, store.handleEvent(event))
		})
	}
}
