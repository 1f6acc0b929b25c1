// Package search exposes scour's directory search engine for library use.
//
// The engine has two pieces: a pure classifier that decides whether a single
// directory entry is printed or descended into, and a recursive walker that
// drives the traversal and owns all I/O. The walker prints each matching
// path to the configured sink, composed from the starting directory exactly
// as given, one per line.
//
//	cfg := search.DefaultConfig()
//	cfg.Pattern = "report"
//	stats, err := search.Search(context.Background(), ".", search.Options{Config: cfg})
//
// Unreadable subdirectories are skipped with a warning by default; pass
// ErrorHandlingStop to abort on the first listing failure instead:
//
//	opts := search.Options{Config: cfg, ErrorHandling: search.ErrorHandlingStop}
//
// Watch mode prints matches as they are created:
//
//	err := search.Watch(ctx, ".", search.WatchOptions{Config: cfg, Recursive: true})
package search
