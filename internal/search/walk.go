package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/karrick/godirwalk"
	"go.uber.org/zap"
)

// ErrorHandling selects what the walker does when a subdirectory discovered
// during recursion cannot be listed. An unopenable starting directory always
// fails the run regardless of mode.
type ErrorHandling int

const (
	// ErrorHandlingSkip logs a warning, skips the unreadable subtree and
	// keeps iterating over its siblings.
	ErrorHandlingSkip ErrorHandling = iota
	// ErrorHandlingStop aborts the walk on the first listing failure.
	ErrorHandlingStop
)

// Stats counts what one traversal saw.
type Stats struct {
	DirsScanned int64 // directories successfully listed
	EntriesSeen int64 // entries classified
	Matched     int64 // paths written to the sink
	Skipped     int64 // unreadable subtrees skipped
}

// Options configures a Search call beyond the filtering rules.
type Options struct {
	Config        Config
	ErrorHandling ErrorHandling
	Out           io.Writer   // matched paths, newline-terminated; defaults to os.Stdout
	Logger        *zap.Logger // diagnostics; defaults to a no-op logger
}

// errSink marks a failure writing to the output sink. Unlike a listing
// failure it is never skippable: without a working sink the run is pointless.
var errSink = errors.New("output sink failed")

// Search walks the tree rooted at root depth-first, writing the path of
// every matching entry to opts.Out. Child paths are composed as parent +
// separator + name and never cleaned, so output always begins with root
// exactly as the caller spelled it.
//
// Entries at the depth limit are printed; recursion below the limit never
// happens. The returned Stats are valid even when err is non-nil.
func Search(ctx context.Context, root string, opts Options) (Stats, error) {
	if err := opts.Config.Validate(); err != nil {
		return Stats{}, err
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	w := &walker{
		cfg:     opts.Config,
		mode:    opts.ErrorHandling,
		out:     opts.Out,
		logger:  opts.Logger,
		scratch: make([]byte, godirwalk.MinimumScratchBufferSize),
	}

	w.logger.Debug("starting search",
		zap.String("root", root),
		zap.String("pattern", opts.Config.Pattern),
		zap.Int("max_depth", opts.Config.MaxDepth),
		zap.Bool("exact_match", opts.Config.ExactMatch),
		zap.Bool("show_dirs", opts.Config.ShowDirs),
		zap.Bool("show_files", opts.Config.ShowFiles),
		zap.Bool("show_hidden", opts.Config.ShowHidden),
	)

	err := w.walk(ctx, root, 0)

	w.logger.Debug("search finished",
		zap.Int64("dirs_scanned", w.stats.DirsScanned),
		zap.Int64("entries_seen", w.stats.EntriesSeen),
		zap.Int64("matched", w.stats.Matched),
		zap.Int64("skipped", w.stats.Skipped),
		zap.Error(err),
	)
	return w.stats, err
}

// walker carries the per-run state through the recursion. The scratch buffer
// backs godirwalk's readdir syscalls and is safely reused across calls
// because each listing is fully materialized before the next one starts.
type walker struct {
	cfg     Config
	mode    ErrorHandling
	out     io.Writer
	logger  *zap.Logger
	scratch []byte
	stats   Stats
}

// walk lists one directory and processes its entries. depth is the number of
// descents below the starting directory; the caller guarantees the depth
// bound still permits this listing.
func (w *walker) walk(ctx context.Context, dir string, depth int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// godirwalk never yields "." or "..", and enumeration order is whatever
	// the filesystem returns.
	dirents, err := godirwalk.ReadDirents(dir, w.scratch)
	if err != nil {
		return fmt.Errorf("listing %s: %w", dir, err)
	}
	w.stats.DirsScanned++

	for _, de := range dirents {
		name := de.Name()
		w.stats.EntriesSeen++

		// Composed verbatim; the output contract forbids cleaning the path.
		child := dir + string(os.PathSeparator) + name

		d := Classify(w.cfg, name, kindOf(de))
		if d.Print {
			if _, werr := fmt.Fprintln(w.out, child); werr != nil {
				return fmt.Errorf("%w: writing %s: %v", errSink, child, werr)
			}
			w.stats.Matched++
		}
		if d.Recurse && w.mayDescend(depth) {
			if err := w.walk(ctx, child, depth+1); err != nil {
				if w.mode == ErrorHandlingStop || errors.Is(err, errSink) || ctx.Err() != nil {
					return err
				}
				w.logger.Warn("skipping unreadable directory",
					zap.String("path", child),
					zap.Error(err),
				)
				w.stats.Skipped++
			}
		}
	}
	return nil
}

// mayDescend reports whether recursion from a listing at depth is still
// inside the depth bound.
func (w *walker) mayDescend(depth int) bool {
	return w.cfg.MaxDepth == Unbounded || depth < w.cfg.MaxDepth
}

func kindOf(de *godirwalk.Dirent) Kind {
	switch {
	case de.IsDir():
		return KindDir
	case de.IsRegular():
		return KindFile
	default:
		return KindOther
	}
}
