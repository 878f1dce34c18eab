// Package confcore is confkit's public surface: create/configure/read/
// validate entrypoints, wiring the discovery walker, per-directory
// loader, merger, schema validator, and security validator together in
// order (discovery upward, merge in reverse so the innermost directory
// wins). MCP-vs-file arbitration lives in internal/resolver, not here.
//
// The CLI wiring in internal/confcore/cobra.go only registers the
// configuration flags and binds them to Viper; loading and validation
// happen through Instance.Read and Instance.Validate.
package confcore

import (
	"context"
	"fmt"

	"github.com/confkit/confkit/internal/corelog"
	"github.com/confkit/confkit/internal/corerr"
	"github.com/confkit/confkit/internal/discovery"
	"github.com/confkit/confkit/internal/document"
	"github.com/confkit/confkit/internal/expand"
	"github.com/confkit/confkit/internal/fsx"
	"github.com/confkit/confkit/internal/loader"
	"github.com/confkit/confkit/internal/merge"
	"github.com/confkit/confkit/internal/schema"
	"github.com/confkit/confkit/internal/security"
)

// Options configures a new Instance, per create(options).
type Options struct {
	AppName    string
	FS         fsx.Filesystem
	Descriptor schema.Descriptor
	Discovery  discovery.Options
	Parser     loader.Parser
	PathFields []loader.PathFieldSpec
	Overlap    merge.OverlapTable
	Security   security.Config
	// SecurityPolicy, when non-empty, builds a production-profile Rego
	// policy overlay from raw module sources keyed by name (see
	// security.NewPolicyOverlay). Ignored outside the production profile.
	SecurityPolicy map[string]string
	Logger         corelog.Logger
	Expander       expand.Expander
	LegacyArray    bool
}

// Instance is confkit's running configuration core.
type Instance struct {
	opts      Options
	logger    corelog.Logger
	validator *schema.Validator
	security  *security.Validator
}

// Create builds an Instance from Options, filling in the ambient-stack
// defaults (corelog.Default()'s stderr logger at Info level, an OS
// filesystem, the built-in parser, app name "app") a host did not supply.
func Create(opts Options) *Instance {
	if opts.Logger == nil {
		opts.Logger = corelog.Default()
	}
	if opts.FS == nil {
		opts.FS = fsx.NewOS()
	}
	if opts.Parser == nil {
		opts.Parser = &loader.BuiltinParser{}
	}
	if opts.AppName == "" {
		opts.AppName = "app"
	}

	sec := security.NewValidator(opts.Security)
	if len(opts.SecurityPolicy) > 0 {
		sec.Overlay = security.NewPolicyOverlay("", opts.SecurityPolicy)
	}

	return &Instance{
		opts:      opts,
		logger:    opts.Logger,
		validator: &schema.Validator{Descriptor: opts.Descriptor, FS: opts.FS, Logger: opts.Logger},
		security:  sec,
	}
}

// Result is what instance.read returns: the merged Document tagged with
// the provenance fields the configuration core requires.
type Result struct {
	Value                *document.Document
	ConfigDirectory      string
	DiscoveredConfigDirs []string
	ResolvedConfigDirs   []string
	Warnings             []string
	SecurityFindings     []security.Event
}

// Read implements instance.read(args) -> Document: discover the directory
// hierarchy upward from the starting directory, load each directory's
// config file, merge them (lowest precedence first so the innermost
// directory wins), and tag the result with provenance.
func (i *Instance) Read(startingDir string) (*Result, error) {
	opts := i.opts.Discovery
	opts.StartingDir = startingDir
	if opts.Logger == nil {
		opts.Logger = i.logger
	}

	walker := discovery.New(i.opts.FS)
	dirs, err := walker.Walk(opts)
	if err != nil {
		return nil, corerr.Wrap(corerr.CodeOperationFailed, "discovery walk failed", err)
	}

	var docs []*document.Document
	var discoveredPaths []string
	var resolvedPaths []string
	var warnings []string

	// Reverse order: the configuration core requires discovery's upward list to be
	// consumed in reverse so the innermost (last-discovered) directory has
	// the highest precedence once merged.
	for idx := len(dirs) - 1; idx >= 0; idx-- {
		d := dirs[idx]
		discoveredPaths = append(discoveredPaths, d.Path)

		fileName, ok := loader.ResolveCandidate(i.opts.FS, d.Path, i.opts.AppName)
		if !ok {
			continue
		}

		result := loader.LoadDirectory(i.opts.FS, loader.Options{
			ConfigDir:                d.Path,
			ConfigFileName:           fileName,
			Parser:                   i.opts.Parser,
			PathFields:               i.opts.PathFields,
			LegacyArrayAsMapDocument: i.opts.LegacyArray,
			Logger:                   i.logger,
		})
		if result.Diagnostic != "" {
			warnings = append(warnings, fmt.Sprintf("%s: %s", d.Path, result.Diagnostic))
		}
		if result.Value != nil {
			docs = append(docs, result.Value)
			resolvedPaths = append(resolvedPaths, d.Path)
		}
	}

	merged, mergeDiag := merge.Merge(docs, i.opts.Overlap)
	for path, parents := range mergeDiag.ParentRuleApplications {
		if len(parents) > 1 {
			i.logger.Verbose(corelog.Fmt("overlap rule at %q applied to %d distinct array paths", path, len(parents)))
		}
	}
	if merged == nil {
		merged = document.NewDocument()
	}

	document.SafeSetDotted(merged, "configDirectory", document.String(startingDir))
	document.SafeSet(merged, []string{"discoveredConfigDirs"}, document.Array(stringsToValues(discoveredPaths)))
	document.SafeSet(merged, []string{"resolvedConfigDirs"}, document.Array(stringsToValues(resolvedPaths)))

	findings := schema.RunFieldRules(i.opts.Descriptor, merged, i.security, security.SourceMerged)
	if i.security.Config.IsProduction() {
		denies, err := i.security.CheckPolicyOverlay(context.Background(), "", merged.ToMap())
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("policy overlay: %v", err))
		} else {
			findings = append(findings, denies...)
		}
	}

	return &Result{
		Value:                merged,
		ConfigDirectory:      startingDir,
		DiscoveredConfigDirs: discoveredPaths,
		ResolvedConfigDirs:   resolvedPaths,
		Warnings:             warnings,
		SecurityFindings:     findings,
	}, nil
}

// Validate implements instance.validate(document) -> void.
func (i *Instance) Validate(doc *document.Document) error {
	return i.validator.Validate(doc, schema.DirectoryCheck{})
}

// Security exposes the wired security.Validator so a host can run
// field rules against specific fields after Read.
func (i *Instance) Security() *security.Validator { return i.security }

// Descriptor exposes the schema.Descriptor an Instance was created with, so
// a host can pass it to resolver.Config when arbitrating an MCP runtime
// configuration against this Instance's file-based one.
func (i *Instance) Descriptor() schema.Descriptor { return i.opts.Descriptor }

func stringsToValues(in []string) []document.Value {
	out := make([]document.Value, len(in))
	for i, s := range in {
		out[i] = document.String(s)
	}
	return out
}
