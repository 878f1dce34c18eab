// Package discovery implements confkit's hierarchical discovery & walk
// engine: given a starting directory, it walks upward looking for a named
// configuration directory at each level, under four distinct policy
// modes, with cycle, depth, and root-marker controls.
//
// The upward-walk shape and its marker-priority bookkeeping generalize a
// single-purpose "walk from a start path to the filesystem root testing
// for project markers at each directory" routine into this multi-mode
// engine.
package discovery

import (
	"path/filepath"

	"github.com/confkit/confkit/internal/corelog"
	"github.com/confkit/confkit/internal/fsx"
)

// Mode selects one of the four walk policies of the configuration core
type Mode string

const (
	ModeDisabled Mode = "disabled"
	ModeExplicit Mode = "explicit"
	ModeRootOnly Mode = "root-only"
	ModeEnabled  Mode = "enabled"
)

// DefaultRootMarkers is the default root-markers set: files whose presence
// in a directory halts the upward walk.
var DefaultRootMarkers = []string{".git", "package.json", "Cargo.toml", "go.mod", "pyproject.toml", "pom.xml"}

// DefaultMaxDepth is the default walk depth ceiling.
const DefaultMaxDepth = 10

// Options configures a single Walk call.
type Options struct {
	StartingDir   string
	ConfigDirName string
	MaxDepth      int      // 0 means DefaultMaxDepth
	StopAt        []string // basenames that halt the walk once reached
	RootMarkers   []string // nil means DefaultRootMarkers
	StopAtRoot    bool
	Mode          Mode
	Logger        corelog.Logger // optional; corelog.Noop{} if nil
}

// DiscoveredConfigDir is one directory the walk visited.
type DiscoveredConfigDir struct {
	Path   string // absolute, normalized, no ".." segments
	Level  int    // 0 = starting directory, increasing upward
	Marker string // root marker that matched at this level, if any
}

// Walker runs Walk against a Filesystem, so tests can supply
// fsx.NewMem()-backed instances instead of touching the real disk.
type Walker struct {
	FS fsx.Filesystem
}

func New(fs fsx.Filesystem) *Walker {
	return &Walker{FS: fs}
}

// Walk never returns an error for ordinary filesystem conditions (missing
// directories, permission issues) — those are swallowed and logged at
// debug; the returned slice may simply be shorter than the caller hoped.
// Walk only returns an error for a malformed starting directory.
func (w *Walker) Walk(opts Options) ([]DiscoveredConfigDir, error) {
	logger := opts.Logger
	if logger == nil {
		logger = corelog.Noop{}
	}

	start, err := filepath.Abs(opts.StartingDir)
	if err != nil {
		return nil, err
	}
	start = filepath.Clean(start)

	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	markers := opts.RootMarkers
	if markers == nil {
		markers = DefaultRootMarkers
	}
	stopAt := make(map[string]bool, len(opts.StopAt))
	for _, s := range opts.StopAt {
		stopAt[s] = true
	}

	var results []DiscoveredConfigDir
	visited := map[string]bool{}

	current := start
	level := 0
	for {
		canon := canonicalize(current)
		if visited[canon] {
			logger.Debug(corelog.Fmt("discovery: stopping, cycle detected at %s", current))
			break
		}
		visited[canon] = true

		marker := findRootMarker(w.FS, current, markers)

		candidate := filepath.Join(current, opts.ConfigDirName)
		if w.FS.Exists(candidate) {
			if w.FS.IsDirectoryReadable(candidate) {
				results = append(results, DiscoveredConfigDir{
					Path:   filepath.Clean(candidate),
					Level:  level,
					Marker: marker,
				})
			} else {
				logger.Debug(corelog.Fmt("discovery: %s exists but is not readable, skipping", candidate))
			}
		}

		if opts.Mode == ModeDisabled || opts.Mode == ModeExplicit {
			break
		}
		if opts.Mode == ModeRootOnly && len(results) > 0 {
			break
		}

		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		if level+1 >= maxDepth {
			break
		}
		if stopAt[filepath.Base(current)] {
			break
		}
		if opts.StopAtRoot && marker != "" {
			// root-marker directory is included (already recorded above)
			// but its parents are not, per the configuration core ordering.
			break
		}

		current = parent
		level++
	}

	return results, nil
}

func findRootMarker(fs fsx.Filesystem, dir string, markers []string) string {
	for _, m := range markers {
		if fs.Exists(filepath.Join(dir, m)) {
			return m
		}
	}
	return ""
}

// canonicalize best-effort resolves symlinks for cycle detection; if
// resolution fails (path doesn't exist, permission error) it falls back to
// the cleaned absolute path so the walk can still make progress.
func canonicalize(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	return filepath.Clean(path)
}
