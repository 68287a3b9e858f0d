/*
This is an example of application that will use the
engine package to test things out
*/
package main

import (
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/anywindow/engine"
	"github.com/spaghettifunk/anywindow/engine/backends"
	"github.com/spaghettifunk/anywindow/engine/core"
	"github.com/spaghettifunk/anywindow/engine/platform"
	"github.com/spaghettifunk/anywindow/engine/platform/desktop"
	"github.com/spaghettifunk/anywindow/testbed"
)

const defaultConfigPath = "anywindow.toml"

func main() {
	path := os.Getenv("ANYWINDOW_CONFIG")
	if path == "" {
		path = defaultConfigPath
	}

	cfg, err := platform.LoadWindowConfig(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			core.LogWarn("using default window config: %s", err)
		}
		cfg = platform.NewWindowConfig()
	}
	if level, err := cfg.Level(); err == nil {
		core.SetLogLevel(level)
	}

	loop, err := desktop.NewEventsLoop()
	if err != nil {
		core.LogFatal(err.Error())
	}
	defer loop.Terminate()

	if cfg.Watch && cfg.Path() != "" {
		watcher, err := platform.NewConfigWatcher(cfg.Path(), loop)
		if err != nil {
			core.LogWarn("config hot reload disabled: %s", err)
		} else {
			defer watcher.Close()
		}
	}

	e := engine.New(backends.New(), loop, cfg, testbed.NewFactory(cfg, loop))

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	// stop the frame loop on sigterm and friends
	go func() {
		<-sigCh
		e.RequestClose()
	}()

	engine.Launch(e)
}
