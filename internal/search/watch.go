package search

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/karrick/godirwalk"
	"go.uber.org/zap"
)

// WatchOptions configures a Watch call. The embedded Config is interpreted
// exactly as in Search: type toggles, the hidden rule, exact/substring
// matching and the depth limit all apply to created entries.
type WatchOptions struct {
	Config    Config
	Recursive bool          // watch subdirectories, including ones created later
	Timeout   time.Duration // stop after this long; 0 means run until canceled
	Out       io.Writer     // matched paths, newline-terminated; defaults to os.Stdout
	Logger    *zap.Logger   // diagnostics; defaults to a no-op logger
}

// Watch prints the path of every entry created under root that the search
// configuration would print. It blocks until the context is canceled or the
// timeout elapses; a canceled context is reported as the context's error.
//
// When Recursive is set, directories created inside the depth bound join the
// watch set, so later creations beneath them are seen too. Entries created
// in a new directory before its watch attaches can be missed; this is an
// inherent race of inotify-style watching.
func Watch(ctx context.Context, root string, opts WatchOptions) error {
	if err := opts.Config.Validate(); err != nil {
		return err
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	ws := &watchState{
		cfg:     opts.Config,
		out:     opts.Out,
		logger:  opts.Logger,
		watcher: watcher,
	}
	if err := ws.addTree(root, 0, opts.Recursive); err != nil {
		return err
	}

	ws.logger.Debug("watching",
		zap.String("root", root),
		zap.String("pattern", opts.Config.Pattern),
		zap.Bool("recursive", opts.Recursive),
		zap.Duration("timeout", opts.Timeout),
	)

	var timeout <-chan time.Time
	if opts.Timeout > 0 {
		timer := time.NewTimer(opts.Timeout)
		defer timer.Stop()
		timeout = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timeout:
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) {
				continue
			}
			if err := ws.handleCreate(root, ev.Name, opts.Recursive); err != nil {
				return err
			}
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			ws.logger.Warn("watch error", zap.Error(werr))
		}
	}
}

type watchState struct {
	cfg     Config
	out     io.Writer
	logger  *zap.Logger
	watcher *fsnotify.Watcher
}

// addTree registers dir with the watcher and, when recursive, descends into
// existing subdirectories inside the depth bound. depth is the depth of
// dir's entries, 0 at the root. Unreadable subtrees are skipped with a
// warning, mirroring the walker's default policy; only a failure on the root
// itself is fatal.
func (ws *watchState) addTree(dir string, depth int, recursive bool) error {
	if err := ws.watcher.Add(dir); err != nil {
		if depth == 0 {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
		ws.logger.Warn("skipping unwatchable directory", zap.String("path", dir), zap.Error(err))
		return nil
	}
	if !recursive || !ws.mayDescend(depth) {
		return nil
	}

	dirents, err := godirwalk.ReadDirents(dir, nil)
	if err != nil {
		if depth == 0 {
			return fmt.Errorf("listing %s: %w", dir, err)
		}
		ws.logger.Warn("skipping unreadable directory", zap.String("path", dir), zap.Error(err))
		return nil
	}
	for _, de := range dirents {
		if !de.IsDir() {
			continue
		}
		child := dir + string(os.PathSeparator) + de.Name()
		if err := ws.addTree(child, depth+1, recursive); err != nil {
			return err
		}
	}
	return nil
}

// handleCreate classifies a newly created path, prints it when it matches
// and extends the watch set when it is a directory inside the depth bound.
func (ws *watchState) handleCreate(root, path string, recursive bool) error {
	depth := relDepth(root, path)
	if depth < 0 {
		return nil
	}
	if ws.cfg.MaxDepth != Unbounded && depth > ws.cfg.MaxDepth {
		return nil
	}

	info, err := os.Lstat(path)
	if err != nil {
		// Created and gone again before we could look at it.
		ws.logger.Debug("created entry vanished", zap.String("path", path), zap.Error(err))
		return nil
	}

	d := Classify(ws.cfg, filepath.Base(path), kindOfMode(info.Mode()))
	if d.Print {
		if _, err := fmt.Fprintln(ws.out, path); err != nil {
			return fmt.Errorf("%w: writing %s: %v", errSink, path, err)
		}
	}
	if d.Recurse && recursive && ws.mayDescend(depth) {
		if err := ws.watcher.Add(path); err != nil {
			ws.logger.Warn("skipping unwatchable directory", zap.String("path", path), zap.Error(err))
		}
	}
	return nil
}

func (ws *watchState) mayDescend(depth int) bool {
	return ws.cfg.MaxDepth == Unbounded || depth < ws.cfg.MaxDepth
}

func kindOfMode(mode os.FileMode) Kind {
	switch {
	case mode.IsDir():
		return KindDir
	case mode.IsRegular():
		return KindFile
	default:
		return KindOther
	}
}

// relDepth returns the depth of path below root, 0 for a direct child, or -1
// when path is not under root. Both strings are compared as composed by the
// watcher, without cleaning.
func relDepth(root, path string) int {
	sep := string(os.PathSeparator)
	root = strings.TrimSuffix(root, sep)
	if !strings.HasPrefix(path, root+sep) {
		return -1
	}
	return strings.Count(path[len(root)+1:], sep)
}
