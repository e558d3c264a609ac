package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/config"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 200 * time.Millisecond

var errNothingToWatch = errors.New("nothing to watch: use a scene file or a config file")

// watchedFiles returns the absolute paths whose changes trigger a re-render
func watchedFiles(cfg config.Config, configPath string) ([]string, error) {
	var files []string
	scenePath, err := scene.ResolvePath(cfg.Scene, cfg.ScenesDir)
	if err != nil {
		return nil, err
	}
	for _, path := range []string{scenePath, configPath} {
		if path == "" {
			continue
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, err
		}
		files = append(files, abs)
	}
	if len(files) == 0 {
		return nil, errNothingToWatch
	}
	return files, nil
}

// runWatch renders once, then again after every change to the scene file
// or the config file until ctx is cancelled. Render errors are logged and
// do not stop watching.
func runWatch(ctx context.Context, cfg config.Config, configPath string, reload func() (config.Config, error), logger *slog.Logger, out io.Writer) error {
	files, err := watchedFiles(cfg, configPath)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Editors often replace files on save, so watch the directories
	targets := make(map[string]bool)
	for _, file := range files {
		targets[file] = true
		if err := watcher.Add(filepath.Dir(file)); err != nil {
			return err
		}
		logger.Info("watching", "file", file)
	}

	render := func() {
		if _, err := runRender(ctx, cfg, logger, out); err != nil && ctx.Err() == nil {
			logger.Warn("render failed, waiting for changes", "error", err)
		}
	}
	render()

	debounce := time.NewTimer(watchDebounce)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !targets[filepath.Clean(event.Name)] || !event.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			logger.Debug("change detected", "file", event.Name, "op", event.Op.String())
			debounce.Reset(watchDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)
		case <-debounce.C:
			if configPath != "" {
				next, err := reload()
				if err != nil {
					logger.Warn("config reload failed, keeping previous settings", "error", err)
				} else {
					cfg = next
				}
			}
			render()
		}
	}
}
