package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"lexis/internal/config"
	"lexis/internal/source"
)

// DefaultDebounce is how long the watcher waits for a burst of writes to settle.
const DefaultDebounce = 150 * time.Millisecond

// WatchOptions configures Watch.
type WatchOptions struct {
	Options
	Debounce time.Duration
	// OnResults is called after the initial run and after every batch of
	// changes, from the watcher goroutine. fileSet holds the files of the batch.
	OnResults func(batch int, fileSet *source.FileSet, results []FileResult)
}

// pending собирает изменённые исходники между срабатываниями таймера.
type pending struct {
	cfg     config.Config
	changed map[string]struct{}
}

func newPending(cfg config.Config) *pending {
	return &pending{cfg: cfg, changed: make(map[string]struct{})}
}

// note records an event; it reports whether the event concerns a source file.
func (p *pending) note(ev fsnotify.Event) bool {
	if !p.cfg.IsSource(ev.Name) || hidden(filepath.Base(ev.Name)) {
		return false
	}
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	p.changed[filepath.Clean(ev.Name)] = struct{}{}
	return true
}

// drain returns the changed paths in sorted order and resets the set.
func (p *pending) drain() []string {
	out := make([]string, 0, len(p.changed))
	for path := range p.changed {
		out = append(out, path)
	}
	sort.Strings(out)
	p.changed = make(map[string]struct{})
	return out
}

// Watch diagnoses every source under roots, then re-diagnoses changed files
// until ctx is done. Removed files are reported with an empty result so
// callers can clear them. Watching works on the OS filesystem only.
func Watch(ctx context.Context, roots []string, opts WatchOptions) error {
	opts.Options = opts.Options.withDefaults()
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	log := opts.Logger.WithField("phase", "watch")

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	paths, err := ExpandTargets(opts.Fs, roots, opts.Config)
	if err != nil {
		return err
	}
	for _, root := range roots {
		if err := addDirs(w, root, opts.Config); err != nil {
			return err
		}
	}

	batch := 0
	run := func(paths []string) error {
		var existing, removed []string
		for _, p := range paths {
			if _, err := opts.Fs.Stat(p); err != nil {
				removed = append(removed, p)
				continue
			}
			existing = append(existing, p)
		}
		fileSet := source.NewFileSetFs(opts.Fs)
		results, err := Diagnose(ctx, fileSet, existing, opts.Options)
		if err != nil {
			return err
		}
		for _, p := range removed {
			results = append(results, FileResult{Path: p})
		}
		log.WithFields(logrus.Fields{"batch": batch, "files": len(existing), "removed": len(removed)}).Info("diagnosed")
		if opts.OnResults != nil {
			opts.OnResults(batch, fileSet, results)
		}
		batch++
		return nil
	}
	if err := run(paths); err != nil {
		return err
	}

	changes := newPending(opts.Config)
	timer := time.NewTimer(opts.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := addDirs(w, ev.Name, opts.Config); err != nil {
						log.WithError(err).Warn("cannot watch new directory")
					}
					continue
				}
			}
			if changes.note(ev) {
				log.WithField("file", ev.Name).WithField("op", ev.Op.String()).Debug("change")
				timer.Reset(opts.Debounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Warn("watcher error")
		case <-timer.C:
			if err := run(changes.drain()); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
		}
	}
}

// addDirs watches root and every non-hidden, non-excluded directory below it.
func addDirs(w *fsnotify.Watcher, root string, cfg config.Config) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}
	if !info.IsDir() {
		return w.Add(filepath.Dir(root))
	}
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		rel, _ := filepath.Rel(root, path)
		if path != root && (hidden(d.Name()) || cfg.Excluded(rel)) {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}
