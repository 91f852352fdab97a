// Package press is the build orchestration core: it sequences the
// preparation steps, schedules the generation tasks under the requested
// execution mode, and aggregates partial failures into a single tagged
// build outcome.
package press

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Mode selects the scheduling strategy for the generation stage. It changes
// only how the three generation steps are scheduled, never which steps run
// or their success/failure semantics.
type Mode string

const (
	ModeParallel   Mode = "parallel"
	ModeSequential Mode = "sequential"
)

// ParseMode converts a CLI flag value into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(s)) {
	case ModeParallel:
		return ModeParallel, nil
	case ModeSequential, "":
		return ModeSequential, nil
	}
	return "", fmt.Errorf("invalid mode %q (expected parallel or sequential)", s)
}

// DefaultDestName is the destination subdirectory used when no destination
// is given.
const DefaultDestName = "site"

// Request describes one build invocation. Immutable once the build starts.
type Request struct {
	SourceDir string
	DestDir   string
	Mode      Mode
}

// Normalize returns the request with both directories ending in a path
// separator, the destination defaulted to <source>/site/ when unset, and
// the mode defaulted to sequential. Normalizing an already normalized
// request returns it unchanged.
func (r Request) Normalize() Request {
	r.SourceDir = ensureTrailingSep(r.SourceDir)
	if r.DestDir == "" {
		r.DestDir = r.SourceDir + DefaultDestName
	}
	r.DestDir = ensureTrailingSep(r.DestDir)
	if r.Mode == "" {
		r.Mode = ModeSequential
	}
	return r
}

func ensureTrailingSep(dir string) string {
	sep := string(filepath.Separator)
	if dir == "" || strings.HasSuffix(dir, sep) {
		return dir
	}
	return dir + sep
}
