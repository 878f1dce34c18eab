package loader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/confkit/confkit/internal/corelog"
	"github.com/confkit/confkit/internal/document"
	"github.com/confkit/confkit/internal/fsx"
)

// PathFieldKind describes how a field's string value(s) should be resolved
// relative to the directory a document was loaded from.
type PathFieldKind int

const (
	// PathFieldScalar resolves a single string value.
	PathFieldScalar PathFieldKind = iota
	// PathFieldArrayElements resolves every string member of an array value.
	PathFieldArrayElements
	// PathFieldMapValues resolves every string value in a map.
	PathFieldMapValues
)

type PathFieldSpec struct {
	Path string // dot path into the document
	Kind PathFieldKind
}

// Options configures a single directory load.
type Options struct {
	ConfigDir      string
	ConfigFileName string
	Parser         Parser
	FormatOverride Format // non-empty pins the format, ignoring extension-based inference
	PathFields     []PathFieldSpec
	// LegacyArrayAsMapDocument accepts a root-level array as a
	// maps-of-indices document instead of rejecting it. Default false.
	LegacyArrayAsMapDocument bool
	Logger                   corelog.Logger
}

// Result is the outcome of loading a single directory's config file.
type Result struct {
	Value      *document.Document
	Path       string // the file actually read, "" if none found/loaded
	Format     Format
	Diagnostic string // non-empty when Value is nil but this wasn't a hard error
}

// LoadDirectory implements per-directory loader: build the
// candidate path, try the sibling yaml/yml extension once on failure,
// parse, reject non-Document roots (unless LegacyArrayAsMapDocument),
// resolve path fields. All filesystem/parse errors are swallowed into a
// diagnostic result, never returned as an error — the walker's caller must
// never see them.
func LoadDirectory(fs fsx.Filesystem, opts Options) Result {
	logger := opts.Logger
	if logger == nil {
		logger = corelog.Noop{}
	}

	candidate := filepath.Join(opts.ConfigDir, opts.ConfigFileName)
	path, ok := resolveReadablePath(fs, candidate)
	if !ok {
		logger.Debug(corelog.Fmt("loader: no readable file at %s", candidate))
		return Result{Diagnostic: "not_found"}
	}

	text, err := fs.ReadFile(path)
	if err != nil {
		logger.Debug(corelog.Fmt("loader: read %s failed: %v", path, err))
		return Result{Diagnostic: "read_error"}
	}

	format := opts.FormatOverride
	if format == "" {
		format = inferFormat(path)
	}

	val, err := opts.Parser.Parse(format, text)
	if err != nil {
		logger.Debug(corelog.Fmt("loader: parse %s failed: %v", path, err))
		return Result{Diagnostic: "parse_error"}
	}

	doc, isDoc := val.Document()
	if !isDoc {
		if arr, isArr := val.Array(); isArr && opts.LegacyArrayAsMapDocument {
			doc = arrayAsMapDocument(arr)
		} else {
			logger.Debug(corelog.Fmt("loader: %s did not parse to a document at its root", path))
			return Result{Diagnostic: "root_not_document"}
		}
	}

	if len(opts.PathFields) > 0 {
		resolvePathFields(doc, opts.ConfigDir, opts.PathFields)
	}

	return Result{Value: doc, Path: path, Format: format}
}

// resolveReadablePath tries candidate as-is, then (only when its extension
// is yaml/yml) the sibling extension once, per the configuration core
func resolveReadablePath(fs fsx.Filesystem, candidate string) (string, bool) {
	if fs.IsFileReadable(candidate) {
		return candidate, true
	}
	ext := strings.TrimPrefix(filepath.Ext(candidate), ".")
	if !isYAMLExt(ext) {
		return "", false
	}
	alt := otherYAMLExt(ext)
	altPath := strings.TrimSuffix(candidate, "."+ext) + "." + alt
	if fs.IsFileReadable(altPath) {
		return altPath, true
	}
	return "", false
}

func inferFormat(path string) Format {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	for _, e := range ExtensionPriority {
		if e.Ext == ext {
			return e.Format
		}
	}
	return FormatYAML
}

func arrayAsMapDocument(arr []document.Value) *document.Document {
	doc := document.NewDocument()
	for i, v := range arr {
		doc.Set(fmt.Sprintf("%d", i), v)
	}
	return doc
}

func resolvePathFields(doc *document.Document, baseDir string, fields []PathFieldSpec) {
	for _, f := range fields {
		segs := document.SplitPath(f.Path)
		v, ok := getAtPath(doc, segs)
		if !ok {
			continue
		}
		var resolved document.Value
		switch f.Kind {
		case PathFieldArrayElements:
			arr, isArr := v.Array()
			if !isArr {
				continue
			}
			out := make([]document.Value, len(arr))
			for i, item := range arr {
				if s, isStr := item.String(); isStr {
					out[i] = document.String(ResolvePath(baseDir, s))
				} else {
					out[i] = item
				}
			}
			resolved = document.Array(out)
		case PathFieldMapValues:
			inner, isDoc := v.Document()
			if !isDoc {
				continue
			}
			outDoc := document.NewDocument()
			for _, k := range inner.Keys() {
				iv, _ := inner.Get(k)
				if s, isStr := iv.String(); isStr {
					outDoc.Set(k, document.String(ResolvePath(baseDir, s)))
				} else {
					outDoc.Set(k, iv)
				}
			}
			resolved = document.FromDocument(outDoc)
		default: // PathFieldScalar
			s, isStr := v.String()
			if !isStr {
				continue
			}
			resolved = document.String(ResolvePath(baseDir, s))
		}
		document.SafeSet(doc, segs, resolved)
	}
}

func getAtPath(doc *document.Document, segs []string) (document.Value, bool) {
	cur := doc
	for i, seg := range segs {
		v, ok := cur.Get(seg)
		if !ok {
			return document.Value{}, false
		}
		if i == len(segs)-1 {
			return v, true
		}
		next, isDoc := v.Document()
		if !isDoc {
			return document.Value{}, false
		}
		cur = next
	}
	return document.Value{}, false
}

// ResolvePath rewrites a relative string value to <configDir>/<value>,
// leaves absolute paths unchanged, canonicalizes file:// inputs to plain
// paths, and returns http(s):// inputs unchanged. ResolvePath only
// rewrites; it never rejects a value.
func ResolvePath(baseDir, value string) string {
	if strings.HasPrefix(value, "file://") {
		value = strings.TrimPrefix(value, "file://")
	}
	if IsRemoteInput(value) {
		return value
	}
	if filepath.IsAbs(value) {
		return filepath.Clean(value)
	}
	return filepath.Join(baseDir, value)
}

// IsRemoteInput reports whether value is an http(s):// URL. It only
// reports: path-field resolution in LoadDirectory keeps such values as
// they are and does not reject them or raise a diagnostic.
func IsRemoteInput(value string) bool {
	return strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://")
}
