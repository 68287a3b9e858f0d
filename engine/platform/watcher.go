package platform

import (
	"errors"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/anywindow/engine/core"
)

// ConfigWatcher reloads a WindowConfig file when it changes and posts
// EVENT_CODE_CONFIG_RELOADED to the event loop.
type ConfigWatcher struct {
	path   string
	poster EventPoster

	fsnotify *fsnotify.Watcher
	done     chan struct{}
	closing  sync.Once
	wg       sync.WaitGroup
}

// NewConfigWatcher starts watching path. The parent directory is watched so
// that editors replacing the file through a rename are still picked up.
func NewConfigWatcher(path string, poster EventPoster) (*ConfigWatcher, error) {
	if path == "" {
		return nil, errors.New("config watcher needs a file path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsWatch.Add(filepath.Dir(abs)); err != nil {
		fsWatch.Close()
		return nil, err
	}

	cw := &ConfigWatcher{
		path:     abs,
		poster:   poster,
		fsnotify: fsWatch,
		done:     make(chan struct{}),
	}
	cw.wg.Add(1)
	go cw.start()
	return cw, nil
}

func (cw *ConfigWatcher) start() {
	defer cw.wg.Done()
	for {
		select {
		case e, ok := <-cw.fsnotify.Events:
			if !ok {
				return
			}
			if filepath.Clean(e.Name) != cw.path {
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				cw.reload()
			}

		case err, ok := <-cw.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("config watcher: %s", err)

		case <-cw.done:
			return
		}
	}
}

func (cw *ConfigWatcher) reload() {
	cfg, err := LoadWindowConfig(cw.path)
	if err != nil {
		// half-written files show up as parse errors; the next write retries
		core.LogWarn("config reload skipped: %s", err)
		return
	}
	core.LogInfo("config reloaded from %s", cw.path)
	cw.poster.Post(core.EventContext{
		Type: core.EVENT_CODE_CONFIG_RELOADED,
		Data: &ConfigReloadedEvent{Config: cfg},
	})
}

// Close stops the watcher and waits for its goroutine to exit.
func (cw *ConfigWatcher) Close() error {
	var err error
	cw.closing.Do(func() {
		close(cw.done)
		err = cw.fsnotify.Close()
		cw.wg.Wait()
	})
	return err
}
