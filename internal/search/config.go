// Package search implements the directory search engine behind the scour
// command: a pure classifier that decides whether a single entry is printed
// or descended into, and a recursive walker that drives the traversal and
// owns all I/O.
package search

import "fmt"

// Unbounded disables the depth limit.
const Unbounded = -1

// Config holds the filtering rules for one search. It is immutable for the
// duration of a traversal and safe to share by value.
type Config struct {
	// MaxDepth bounds recursion. Unbounded means no limit; 0 restricts the
	// search to the starting directory's direct children. Depth d means d
	// directory-traversal steps below the starting directory.
	MaxDepth int

	// ExactMatch requires file names to equal Pattern exactly instead of
	// merely containing it. Directory names are always substring-matched.
	ExactMatch bool

	ShowDirs  bool // print matching directories
	ShowFiles bool // print matching regular files

	// ShowHidden controls whether dot-files are eligible for printing.
	// Directories are exempt: a hidden directory may still be printed and
	// is always descended into.
	ShowHidden bool

	// Pattern is the name filter. Empty matches every name in substring
	// mode and no name in exact mode.
	Pattern string
}

// DefaultConfig returns the configuration used when no flags are given:
// unlimited depth, files and directories shown, hidden files suppressed,
// substring matching against the empty pattern. Each call returns a fresh
// value; there is no shared default.
func DefaultConfig() Config {
	return Config{
		MaxDepth:  Unbounded,
		ShowDirs:  true,
		ShowFiles: true,
	}
}

// Validate reports whether the configuration is usable.
func (c Config) Validate() error {
	if c.MaxDepth < Unbounded {
		return fmt.Errorf("max depth %d: must be %d (unbounded) or non-negative", c.MaxDepth, Unbounded)
	}
	return nil
}
