// Package watcher monitors a folder for newly created photos and hands
// qualifying files to a caller-supplied handler.
package watcher

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// PhotoEvent describes a newly detected photo. Events are ephemeral;
// nothing about a processed file is persisted across runs.
type PhotoEvent struct {
	Path       string
	DetectedAt time.Time
}

// Handler receives one PhotoEvent per qualifying file. It is called
// from the watcher's goroutines; GUI callers must dispatch to the GUI
// thread themselves.
type Handler func(PhotoEvent)

// acceptedExtensions are the photo formats worth popping up for.
var acceptedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// Watcher subscribes to file-creation events on a single directory and
// filters them down to decodable photos. It runs until its context is
// cancelled.
type Watcher struct {
	dir     string
	handler Handler
	logger  zerolog.Logger
	fsw     *fsnotify.Watcher

	// seen de-duplicates create events per path for the lifetime of
	// the run. fsnotify can report the same file more than once when
	// writers create-then-rename.
	seen mapset.Set[string]

	stability stabilityParams
}

// New creates a Watcher on dir, creating the directory first if it does
// not exist. Failure to create or subscribe is a startup error.
func New(dir string, handler Handler, logger zerolog.Logger) (*Watcher, error) {
	if dir == "" {
		return nil, fmt.Errorf("watch folder cannot be empty")
	}
	if handler == nil {
		return nil, fmt.Errorf("handler cannot be nil")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create watch folder %q: %w", dir, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create filesystem watcher: %w", err)
	}

	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch folder %q: %w", dir, err)
	}

	return &Watcher{
		dir:       dir,
		handler:   handler,
		logger:    logger,
		fsw:       fsw,
		seen:      mapset.NewSet[string](),
		stability: defaultStabilityParams,
	}, nil
}

// Run delivers events until ctx is cancelled or the underlying watcher
// closes. Each qualifying file is processed on its own goroutine so a
// burst of photos never blocks event delivery.
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info().Str("folder", w.dir).Msg("watching for new photos")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			if !accepts(event.Name) {
				continue
			}
			// Add reports false when the path was already seen.
			if !w.seen.Add(event.Name) {
				continue
			}

			w.logger.Info().Str("file", filepath.Base(event.Name)).Msg("new photo detected")
			go w.process(event.Name)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error().Err(err).Msg("watcher error")
		}
	}
}

// Close stops event delivery. Safe to call after Run returns.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// process waits for the file to finish being written, verifies it
// decodes as an image, and invokes the handler. Failures are local to
// this file; the watcher keeps running.
func (w *Watcher) process(path string) {
	if !waitForStable(path, w.stability) {
		w.logger.Error().Str("file", filepath.Base(path)).Msg("file never became readable")
		w.seen.Remove(path)
		return
	}

	if err := verifyImage(path); err != nil {
		w.logger.Error().Err(err).Str("file", filepath.Base(path)).Msg("skipping undecodable image")
		w.seen.Remove(path)
		return
	}

	w.handler(PhotoEvent{Path: path, DetectedAt: time.Now()})
}

// accepts reports whether the file extension is a supported photo
// format. Matching is case-insensitive.
func accepts(path string) bool {
	return acceptedExtensions[strings.ToLower(filepath.Ext(path))]
}

// verifyImage checks that the file header decodes as a known image
// format without reading the whole file.
func verifyImage(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %q: %w", path, err)
	}
	defer f.Close()

	if _, _, err := image.DecodeConfig(f); err != nil {
		return fmt.Errorf("failed to decode %q: %w", path, err)
	}
	return nil
}
