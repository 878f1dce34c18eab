// Package loader implements the per-directory loader of the configuration core: given
// a config directory and file name, it locates, reads, and parses a single
// configuration file, with alt-extension fallback and path-field
// resolution. It also implements the five-pattern config file layout and
// extension priority table of the configuration core
package loader

// Format is one of the four formats the parser trait understands.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatJS   Format = "js"
	FormatTS   Format = "ts"
)

// ExtensionPriority maps a file extension (without the dot) to its Format,
// in the order extensions are tried: ts, mts, cts, js, mjs, cjs, json,
// yaml, yml.
var ExtensionPriority = []struct {
	Ext    string
	Format Format
}{
	{"ts", FormatTS},
	{"mts", FormatTS},
	{"cts", FormatTS},
	{"js", FormatJS},
	{"mjs", FormatJS},
	{"cjs", FormatJS},
	{"json", FormatJSON},
	{"yaml", FormatYAML},
	{"yml", FormatYAML},
}

// FormatPriorityRank ranks formats highest-first for directories that
// contain multiple candidate files: TypeScript, then JavaScript, then
// JSON, then YAML.
var FormatPriorityRank = map[Format]int{
	FormatTS:   0,
	FormatJS:   1,
	FormatJSON: 2,
	FormatYAML: 3,
}

// NamingPatterns is the five config-file naming patterns tried, in
// priority order 1->5. "{app}" is substituted by the caller.
var NamingPatterns = []string{
	"{app}.config.{ext}",
	"{app}.conf.{ext}",
	".{app}/config.{ext}",
	".{app}rc.{ext}",
	".{app}rc",
}

func isYAMLExt(ext string) bool {
	return ext == "yaml" || ext == "yml"
}

func otherYAMLExt(ext string) string {
	if ext == "yaml" {
		return "yml"
	}
	if ext == "yml" {
		return "yaml"
	}
	return ""
}
