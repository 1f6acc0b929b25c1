package search

import (
	"context"

	internal "github.com/scourfs/scour/internal/search"
)

// Re-export the engine's types so callers never import the internal package.
type (
	// Config holds the filtering rules for one search.
	Config = internal.Config

	// Decision is the classifier's verdict for a single directory entry.
	Decision = internal.Decision

	// Kind is the coarse entry type the classifier cares about.
	Kind = internal.Kind

	// Options configures a Search call beyond the filtering rules.
	Options = internal.Options

	// Stats counts what one traversal saw.
	Stats = internal.Stats

	// ErrorHandling selects skip-vs-stop behavior for unreadable subtrees.
	ErrorHandling = internal.ErrorHandling

	// WatchOptions configures a Watch call.
	WatchOptions = internal.WatchOptions
)

// Unbounded disables the depth limit.
const Unbounded = internal.Unbounded

const (
	KindDir   = internal.KindDir
	KindFile  = internal.KindFile
	KindOther = internal.KindOther
)

const (
	ErrorHandlingSkip = internal.ErrorHandlingSkip
	ErrorHandlingStop = internal.ErrorHandlingStop
)

// DefaultConfig returns the out-of-the-box configuration: unlimited depth,
// files and directories shown, hidden files suppressed, empty pattern.
func DefaultConfig() Config {
	return internal.DefaultConfig()
}

// Classify decides whether one directory entry is printed and whether the
// walker may descend into it.
func Classify(cfg Config, name string, kind Kind) Decision {
	return internal.Classify(cfg, name, kind)
}

// Search walks the tree rooted at root depth-first and writes every matching
// path to the configured sink.
func Search(ctx context.Context, root string, opts Options) (Stats, error) {
	return internal.Search(ctx, root, opts)
}

// Watch prints the path of every entry created under root that the search
// configuration would print, until the context is canceled or the timeout
// elapses.
func Watch(ctx context.Context, root string, opts WatchOptions) error {
	return internal.Watch(ctx, root, opts)
}
