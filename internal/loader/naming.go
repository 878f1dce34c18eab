package loader

import (
	"strings"

	"github.com/confkit/confkit/internal/fsx"
)

// CandidatePaths expands the five naming patterns against the extension
// priority table, for a given app name, rooted at dir. The returned list
// is in the priority order a resolver should probe: pattern 1 before
// pattern 2, and within a pattern, higher-priority extensions first (ts
// before json before yaml).
func CandidatePaths(dir, app string) []string {
	var out []string
	for _, pattern := range NamingPatterns {
		if pattern == ".{app}rc" {
			out = append(out, joinDir(dir, strings.ReplaceAll(pattern, "{app}", app)))
			continue
		}
		for _, e := range ExtensionPriority {
			p := strings.ReplaceAll(pattern, "{app}", app)
			p = strings.ReplaceAll(p, "{ext}", e.Ext)
			out = append(out, joinDir(dir, p))
		}
	}
	return out
}

func joinDir(dir, rel string) string {
	if dir == "" {
		return rel
	}
	return dir + "/" + rel
}

// ResolveCandidate probes dir for the first readable file among the five
// naming patterns x extension-priority table, in priority order, and
// returns its path relative to dir (suitable for Options.ConfigFileName)
// plus true. Returns ("", false) when none of the candidates are
// readable.
func ResolveCandidate(fs fsx.Filesystem, dir, app string) (string, bool) {
	for _, full := range CandidatePaths(dir, app) {
		if fs.IsFileReadable(full) {
			rel := strings.TrimPrefix(full, dir+"/")
			return rel, true
		}
	}
	return "", false
}
