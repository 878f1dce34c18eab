package resolver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/confkit/confkit/internal/document"
	"github.com/confkit/confkit/internal/security"
)

// ResolveConfigParams is the input to the "resolve-config" MCP tool.
type ResolveConfigParams struct {
	RuntimeConfig    map[string]any `json:"runtimeConfig,omitempty"`
	WorkingDirectory string         `json:"workingDirectory,omitempty"`
	TargetFile       string         `json:"targetFile,omitempty"`
}

// ResolveConfigResult is the output of the "resolve-config" MCP tool.
type ResolveConfigResult struct {
	Value                 map[string]any   `json:"value"`
	Source                string           `json:"source"`
	Hierarchical          bool             `json:"hierarchical"`
	Parents               []string         `json:"parents,omitempty"`
	ResolutionExplanation string           `json:"resolutionExplanation"`
	SecurityFindings      []security.Event `json:"securityFindings,omitempty"`
}

// CheckConfigParams is the input to the "check-config" MCP tool.
type CheckConfigParams struct {
	ResolveConfigParams
	Verbose bool `json:"verbose,omitempty"`
}

// CheckConfigResult is the output of the "check-config" MCP tool.
type CheckConfigResult struct {
	Resolved   ResolveConfigResult `json:"resolved"`
	Provenance []FieldProvenance   `json:"provenance,omitempty"`
	Warnings   []string            `json:"warnings,omitempty"`
}

// RegisterTools registers the "resolve-config" and "check-config" tools on
// server: one mcp.AddTool handler closure per tool, each closing over the
// shared Config.
func RegisterTools(server *mcp.Server, cfg Config) error {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "resolve-config",
		Description: "Resolve the active configuration document from either an MCP-supplied runtime configuration or the filesystem hierarchy, and report its provenance.",
	}, resolveConfigHandler(cfg))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "check-config",
		Description: "Produce a sanitized diagnostic view of the resolved configuration, optionally with verbose per-field provenance.",
	}, checkConfigHandler(cfg))

	return nil
}

func resolveConfigHandler(cfg Config) mcp.ToolHandlerFor[ResolveConfigParams, ResolveConfigResult] {
	return func(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[ResolveConfigParams]) (*mcp.CallToolResultFor[ResolveConfigResult], error) {
		resolved, err := resolveFromParams(params.Arguments, cfg)
		if err != nil {
			return nil, err
		}
		return &mcp.CallToolResultFor[ResolveConfigResult]{
			Content: []mcp.Content{
				&mcp.TextContent{Text: resolved.ResolutionExplanation},
			},
			StructuredContent: toResolveConfigResult(resolved),
		}, nil
	}
}

func checkConfigHandler(cfg Config) mcp.ToolHandlerFor[CheckConfigParams, CheckConfigResult] {
	return func(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[CheckConfigParams]) (*mcp.CallToolResultFor[CheckConfigResult], error) {
		resolved, err := resolveFromParams(params.Arguments.ResolveConfigParams, cfg)
		if err != nil {
			return nil, err
		}
		report := CheckConfig(resolved, params.Arguments.Verbose, cfg.Security)

		warnings := make([]string, len(report.Warnings))
		for i, w := range report.Warnings {
			warnings[i] = w.Details
		}
		return &mcp.CallToolResultFor[CheckConfigResult]{
			Content: []mcp.Content{
				&mcp.TextContent{Text: resolved.ResolutionExplanation},
			},
			StructuredContent: CheckConfigResult{
				Resolved:   toResolveConfigResult(resolved),
				Provenance: report.Provenance,
				Warnings:   warnings,
			},
		}, nil
	}
}

func resolveFromParams(p ResolveConfigParams, cfg Config) (*ResolvedConfig, error) {
	ictx := InvocationContext{
		WorkingDirectory: p.WorkingDirectory,
		TargetFile:       p.TargetFile,
	}
	if p.RuntimeConfig != nil {
		v, err := document.FromAny(p.RuntimeConfig)
		if err != nil {
			return nil, err
		}
		doc, _ := v.Document()
		ictx.RuntimeConfig = doc
	}
	return Resolve(ictx, cfg)
}

func toResolveConfigResult(resolved *ResolvedConfig) ResolveConfigResult {
	var value map[string]any
	if resolved.Value != nil {
		value = resolved.Value.ToMap()
	}
	return ResolveConfigResult{
		Value:                 value,
		Source:                string(resolved.Source),
		Hierarchical:          resolved.Hierarchical,
		Parents:               resolved.Parents,
		ResolutionExplanation: resolved.ResolutionExplanation,
		SecurityFindings:      resolved.SecurityFindings,
	}
}
