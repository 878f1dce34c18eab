// Package resolver implements the Invocation Resolver of the configuration core:
// arbitration between an MCP-supplied runtime configuration and a
// filesystem-hierarchical one, plus the check_config diagnostic surface.
package resolver

import (
	"fmt"
	"strings"

	"github.com/confkit/confkit/internal/corerr"
	"github.com/confkit/confkit/internal/document"
	"github.com/confkit/confkit/internal/schema"
	"github.com/confkit/confkit/internal/security"
)

// SourceKind identifies where a ResolvedConfig's value came from.
type SourceKind string

const (
	MCPSource  SourceKind = "mcp"
	FileSource SourceKind = "file"
)

// InvocationContext is InvocationContext.
type InvocationContext struct {
	RuntimeConfig    *document.Document
	WorkingDirectory string
	TargetFile       string

	// CLIConfig carries field values a host parsed from its own CLI flags,
	// keyed the same way the schema's Fields() are (dot paths). When set
	// alongside WorkingDirectory, Resolve compares each field against the
	// file-resolved value and records a cross-source override finding for
	// any field both sources supplied.
	CLIConfig map[string]any
}

// FileConfigResult is what a wired resolve_file_config function must
// produce: the merged document plus the ordered parent paths it was
// merged from (empty/singleton means non-hierarchical).
type FileConfigResult struct {
	Value   *document.Document
	Parents []string
}

// FileConfigResolver resolves a working directory (optionally preferring a
// target file's directory first) to a FileConfigResult.
type FileConfigResolver func(dir string) (FileConfigResult, error)

// Config is resolver config.
type Config struct {
	Schema            schema.Descriptor
	ResolveFileConfig FileConfigResolver
	Security          *security.Validator
}

// ResolvedConfig is ResolvedConfig.
type ResolvedConfig struct {
	Value                 *document.Document
	Source                SourceKind
	Hierarchical          bool
	Parents               []string
	ResolutionExplanation string
	SecurityFindings      []security.Event
}

// Resolve implements four-step arbitration. MCP-vs-file
// arbitration happens before any filesystem I/O per ordering
// guarantee: the RuntimeConfig branch never touches cfg.ResolveFileConfig.
func Resolve(ctx InvocationContext, cfg Config) (*ResolvedConfig, error) {
	if ctx.RuntimeConfig != nil {
		if failures := cfg.Schema.Validate(ctx.RuntimeConfig); len(failures) > 0 {
			fields := make([]corerr.FieldError, len(failures))
			for i, f := range failures {
				fields[i] = corerr.FieldError{Field: f.Field, Tag: f.Tag, Param: f.Param, Value: f.Value}
			}
			return nil, corerr.WithDetail(corerr.CodeMCPInvalidConfig, "runtime configuration failed schema validation",
				&corerr.ValidationDetail{Fields: fields})
		}

		var findings []security.Event
		findings = append(findings, schema.RunFieldRules(cfg.Schema, ctx.RuntimeConfig, cfg.Security, security.SourceCLI)...)
		findings = append(findings, schema.RunFieldRules(cfg.Schema, ctx.RuntimeConfig, cfg.Security, security.SourceMerged)...)

		return &ResolvedConfig{
			Value:                 ctx.RuntimeConfig,
			Source:                MCPSource,
			Hierarchical:          false,
			ResolutionExplanation: "resolved from the MCP runtime configuration",
			SecurityFindings:      findings,
		}, nil
	}

	if ctx.WorkingDirectory != "" {
		if cfg.ResolveFileConfig == nil {
			return nil, corerr.New(corerr.CodeMCPMissingResolver,
				"file-config resolution was requested but no resolve_file_config function was wired")
		}

		dir := ctx.WorkingDirectory
		var result FileConfigResult
		var err error
		if ctx.TargetFile != "" {
			result, err = cfg.ResolveFileConfig(dirOf(ctx.TargetFile))
			if err != nil || result.Value == nil {
				result, err = cfg.ResolveFileConfig(dir)
			}
		} else {
			result, err = cfg.ResolveFileConfig(dir)
		}
		if err != nil {
			return nil, err
		}

		// A singleton Parents list describes one file, not a hierarchy: the
		// directory that file lives in is not an ancestor of itself.
		hierarchical := len(result.Parents) > 1

		var findings []security.Event
		findings = append(findings, schema.RunFieldRules(cfg.Schema, result.Value, cfg.Security, security.SourceConfig)...)
		findings = append(findings, crossSourceFindings(cfg, ctx.CLIConfig, result.Value)...)
		findings = append(findings, schema.RunFieldRules(cfg.Schema, result.Value, cfg.Security, security.SourceMerged)...)

		return &ResolvedConfig{
			Value:                 result.Value,
			Source:                FileSource,
			Hierarchical:          hierarchical,
			Parents:               result.Parents,
			ResolutionExplanation: explain(result),
			SecurityFindings:      findings,
		}, nil
	}

	return nil, corerr.New(corerr.CodeMCPMissingContext,
		"invocation context has neither runtime_config nor working_directory")
}

// crossSourceFindings compares every field cliConfig supplies against its
// file-resolved value, recording an override event for each field present
// in both, per the configured security validator.
func crossSourceFindings(cfg Config, cliConfig map[string]any, fileValue *document.Document) []security.Event {
	if cfg.Security == nil || len(cliConfig) == 0 || fileValue == nil {
		return nil
	}
	checks := make([]security.CrossSourceCheck, 0, len(cliConfig))
	for field, cliValue := range cliConfig {
		fileVal, filePresent := document.GetPath(fileValue, field)
		checks = append(checks, security.CrossSourceCheck{
			Field:       field,
			CLIValue:    cliValue,
			CLIPresent:  true,
			FileValue:   fileVal.ToAny(),
			FilePresent: filePresent,
		})
	}
	return cfg.Security.CheckCrossSource(checks).All()
}

func explain(result FileConfigResult) string {
	switch len(result.Parents) {
	case 0:
		return "resolved from a single configuration file"
	case 1:
		return fmt.Sprintf("resolved from %s", result.Parents[0])
	default:
		return fmt.Sprintf("merged from %d files: %s", len(result.Parents), strings.Join(result.Parents, ", "))
	}
}

func dirOf(targetFile string) string {
	idx := strings.LastIndexAny(targetFile, "/\\")
	if idx < 0 {
		return "."
	}
	return targetFile[:idx]
}
