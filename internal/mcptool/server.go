// Package mcptool exposes the adapter as Model Context Protocol tools.
package mcptool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/Adityahash12/agent-api-adapter/internal/adapter"
	"github.com/Adityahash12/agent-api-adapter/internal/apperr"
)

// Server identity reported to MCP clients.
const (
	ServerName    = "agent-api-adapter"
	ServerVersion = "1.0.0"
)

// Tool names.
const (
	ToolTransform = "api_transform"
	ToolGenerate  = "generate_mapping"
)

func objectSchema(description string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "object", Description: description}
}

// TransformTool describes api_transform.
func TransformTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        ToolTransform,
		Description: "Transform raw API responses into a validated agent-friendly schema",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"rawApiResponse": objectSchema("Raw upstream API response"),
				"mappingConfig":  objectSchema("Target property to source key; null marks an unresolved target"),
				"targetSchema":   objectSchema("JSON Schema of the agent-facing shape"),
			},
			Required: []string{"rawApiResponse", "mappingConfig", "targetSchema"},
		},
	}
}

// GenerateTool describes generate_mapping.
func GenerateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        ToolGenerate,
		Description: "Infer a field mapping from a sample API response to a target JSON Schema",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"sampleApiResponse": objectSchema("Sample upstream API response"),
				"targetSchema":      objectSchema("JSON Schema of the agent-facing shape"),
				"explain":           {Type: "boolean", Description: "Include per-property match details"},
			},
			Required: []string{"sampleApiResponse", "targetSchema"},
		},
	}
}

// NewServer returns an MCP server with both tools registered.
func NewServer(svc *adapter.Service, logger zerolog.Logger) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: ServerName, Version: ServerVersion}, nil)

	h := &handlers{svc: svc, logger: logger.With().Str("component", "mcp").Logger()}

	server.AddTool(TransformTool(), h.transform)
	server.AddTool(GenerateTool(), h.generate)

	return server
}

// Serve runs the server over stdio until the client disconnects or ctx ends.
func Serve(ctx context.Context, svc *adapter.Service, logger zerolog.Logger) error {
	return NewServer(svc, logger).Run(ctx, &mcp.StdioTransport{})
}

type handlers struct {
	svc    *adapter.Service
	logger zerolog.Logger
}

// Arguments are decoded from the raw message so member order survives.
func (h *handlers) transform(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var in adapter.TransformRequest
	if err := decodeArguments(req, &in); err != nil {
		return h.errorResult(ToolTransform, err), nil
	}

	out, err := h.svc.TransformAndValidate(h.logger.WithContext(ctx), in)
	if err != nil {
		return h.errorResult(ToolTransform, err), nil
	}

	return textResult(out)
}

func (h *handlers) generate(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var in adapter.GenerateRequest
	if err := decodeArguments(req, &in); err != nil {
		return h.errorResult(ToolGenerate, err), nil
	}

	out, err := h.svc.GenerateMapping(h.logger.WithContext(ctx), in)
	if err != nil {
		return h.errorResult(ToolGenerate, err), nil
	}

	return textResult(out)
}

func decodeArguments(req *mcp.CallToolRequest, dst any) error {
	if req == nil || req.Params == nil || len(req.Params.Arguments) == 0 {
		return nil
	}

	if err := json.Unmarshal(req.Params.Arguments, dst); err != nil {
		return apperr.InvalidArgumentf("invalid arguments: %v", err)
	}

	return nil
}

func (h *handlers) errorResult(tool string, err error) *mcp.CallToolResult {
	h.logger.Warn().Err(err).Str("tool", tool).Str("kind", apperr.Kind(err)).Msg("tool call rejected")

	res := &mcp.CallToolResult{}
	res.SetError(fmt.Errorf("%s: %w", apperr.Kind(err), err))

	return res
}

func textResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode tool result: %w", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(b)}},
	}, nil
}
