package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/netlens/netlens/internal/netlist"
)

// AddNetsTool registers the netlens_nets tool with an MCP server.
func AddNetsTool(s *server.MCPServer, loader *DesignLoader) {
	tool := mcp.NewTool(
		"netlens_nets",
		mcp.WithDescription("List a design's nets with their endpoint counts, or fetch one component's full pin table. Use this to find valid net names and designators before tracing."),
		mcp.WithString("design",
			mcp.Required(),
			mcp.Description("Absolute path to the design file")),
		mcp.WithString("filter",
			mcp.Description("Case-insensitive substring filter on net names")),
		mcp.WithString("refdes",
			mcp.Description("Return this component's detail instead of the net listing")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createNetsHandler(loader))
}

func createNetsHandler(loader *DesignLoader) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		var args NetsRequest
		args.Design, _ = argsMap["design"].(string)
		args.Filter, _ = argsMap["filter"].(string)
		args.Refdes, _ = argsMap["refdes"].(string)
		if args.Design == "" {
			return mcp.NewToolResultError("design parameter is required"), nil
		}

		design, err := loader.Load(args.Design)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		response := &NetsResponse{}
		if args.Refdes != "" {
			refdes := netlist.Canonical(args.Refdes)
			comp, ok := design.Model.Components[refdes]
			if !ok {
				return mcp.NewToolResultError(fmt.Sprintf("unknown component %q", args.Refdes)), nil
			}
			detail := componentDetail(refdes, comp)
			response.Component = &detail
		} else {
			for _, name := range design.Model.NetNames() {
				if args.Filter != "" && !strings.Contains(strings.ToLower(name), strings.ToLower(args.Filter)) {
					continue
				}
				pins := 0
				for _, pinList := range design.Model.Nets[name] {
					pins += len(pinList)
				}
				response.Nets = append(response.Nets, NetSummary{Name: name, PinCount: pins})
			}
		}

		jsonData, err := json.Marshal(response)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response: %w", err)
		}
		return mcp.NewToolResultText(string(jsonData)), nil
	}
}
