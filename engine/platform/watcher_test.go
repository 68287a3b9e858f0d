package platform

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/anywindow/engine/core"
)

type chanPoster chan core.EventContext

func (p chanPoster) Post(event core.EventContext) {
	p <- event
}

func TestConfigWatcherReload(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `title = "before"`)

	poster := make(chanPoster, 8)
	cw, err := NewConfigWatcher(path, poster)
	require.NoError(t, err)
	defer cw.Close()

	// unrelated files in the same directory are ignored
	require.NoError(t, os.WriteFile(dir+"/other.toml", []byte(`title = "other"`), 0o644))
	require.NoError(t, os.WriteFile(path, []byte(`title = "after"`), 0o644))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case ev := <-poster:
			require.Equal(t, core.EVENT_CODE_CONFIG_RELOADED, ev.Type)
			re, ok := ev.Data.(*ConfigReloadedEvent)
			require.True(t, ok)
			assert.NotEqual(t, "other", re.Config.Title)
			if re.Config.Title == "after" {
				return
			}
		case <-deadline:
			t.Fatal("no reload event for the rewritten config")
		}
	}
}

func TestConfigWatcherSkipsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `title = "ok"`)

	poster := make(chanPoster, 8)
	cw, err := NewConfigWatcher(path, poster)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`width = "wide"`), 0o644))
	select {
	case ev := <-poster:
		t.Fatalf("unexpected event %s for an invalid config", ev.Type)
	case <-time.After(300 * time.Millisecond):
	}

	require.NoError(t, cw.Close())
	assert.NoError(t, cw.Close(), "close is idempotent")
}

func TestConfigWatcherNeedsPath(t *testing.T) {
	_, err := NewConfigWatcher("", make(chanPoster))
	assert.Error(t, err)
}
