package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/netlens/netlens/internal/trace"
)

// AddTraceTool registers the netlens_trace tool with an MCP server.
// This function is composable - it can be combined with other tool
// registrations.
func AddTraceTool(s *server.MCPServer, loader *DesignLoader) {
	tool := mcp.NewTool(
		"netlens_trace",
		mcp.WithDescription("Trace the extended net (XNET) of a schematic signal: follow the signal through series passives (resistors, capacitors, inductors, ferrite beads) until it terminates at power/ground rails or active devices. Returns the reached components aggregated by part number with a topology fingerprint."),
		mcp.WithString("design",
			mcp.Required(),
			mcp.Description("Absolute path to the design file (.SchDoc, .PrjPcb, .dsn, or .cpm)")),
		mcp.WithString("operation",
			mcp.Required(),
			mcp.Description("Query shape: 'net' to start from a net name, 'pin' to start from a REFDES.PIN spec")),
		mcp.WithString("target",
			mcp.Required(),
			mcp.Description("Net name (e.g. 'SDA') or pin spec (e.g. 'U1.7') to trace from")),
		mcp.WithArray("skip_types",
			mcp.Description("Refdes prefixes to exclude from results (e.g. ['TP', 'MH'])")),
		mcp.WithBoolean("include_dns",
			mcp.Description("Include do-not-stuff components (default: false)")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createTraceHandler(loader))
}

// createTraceHandler creates the handler function for netlens_trace.
func createTraceHandler(loader *DesignLoader) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		var args TraceRequest
		args.Design, _ = argsMap["design"].(string)
		args.Operation, _ = argsMap["operation"].(string)
		args.Target, _ = argsMap["target"].(string)
		if args.Design == "" {
			return mcp.NewToolResultError("design parameter is required"), nil
		}
		if args.Operation != "net" && args.Operation != "pin" {
			return mcp.NewToolResultError(fmt.Sprintf("invalid operation: %q (must be 'net' or 'pin')", args.Operation)), nil
		}
		if args.Target == "" {
			return mcp.NewToolResultError("target parameter is required"), nil
		}
		if skipTypes, ok := argsMap["skip_types"].([]interface{}); ok {
			for _, st := range skipTypes {
				if s, ok := st.(string); ok {
					args.SkipTypes = append(args.SkipTypes, s)
				}
			}
		}
		if includeDNS, ok := argsMap["include_dns"].(bool); ok {
			args.IncludeDNS = includeDNS
		}

		loader.Queries.Inc()
		design, err := loader.Load(args.Design)
		if err != nil {
			// Decode failures are input errors, not handler failures.
			return mcp.NewToolResultError(err.Error()), nil
		}

		opts := trace.Options{SkipTypes: args.SkipTypes, IncludeDNS: args.IncludeDNS}
		var result *trace.Result
		if args.Operation == "net" {
			result, err = trace.FromNet(design.Model, args.Target, opts)
		} else {
			result, err = trace.FromPin(design.Model, args.Target, opts)
		}
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		jsonData, err := json.Marshal(result)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response: %w", err)
		}
		return mcp.NewToolResultText(string(jsonData)), nil
	}
}
