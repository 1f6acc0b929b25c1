package search

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Kind is the coarse entry type the classifier cares about.
type Kind int

const (
	KindDir   Kind = iota
	KindFile       // regular file
	KindOther      // symlink, socket, device, fifo, anything else
)

// Decision is the classifier's verdict for a single directory entry.
type Decision struct {
	Print   bool // write the entry's path to the output sink
	Recurse bool // descend into the entry (directories only)
}

// Classify decides whether one directory entry is printed and whether the
// walker may descend into it. name is the entry's base name, never "." or
// "..". Classify is pure and cannot fail; the depth bound is the caller's
// concern, so Recurse is unconditionally true for directories.
//
// Two asymmetries are deliberate: hidden-name suppression applies only to
// files (a hidden directory is still printable and always traversed), and
// ExactMatch applies only to files (directory names are substring-matched).
func Classify(cfg Config, name string, kind Kind) Decision {
	switch kind {
	case KindDir:
		return Decision{
			Print:   cfg.ShowDirs && contains(name, cfg.Pattern),
			Recurse: true,
		}
	case KindFile:
		if !cfg.ShowFiles {
			return Decision{}
		}
		if !cfg.ShowHidden && strings.HasPrefix(name, ".") {
			return Decision{}
		}
		if cfg.ExactMatch {
			return Decision{Print: norm.NFC.String(name) == norm.NFC.String(cfg.Pattern)}
		}
		return Decision{Print: contains(name, cfg.Pattern)}
	default:
		return Decision{}
	}
}

// contains reports whether name contains pattern, comparing NFC-normalized
// forms so composed and decomposed spellings of the same text match.
func contains(name, pattern string) bool {
	if pattern == "" {
		return true
	}
	return strings.Contains(norm.NFC.String(name), norm.NFC.String(pattern))
}
