package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// AddSearchTool registers the netlens_search tool with an MCP server.
func AddSearchTool(s *server.MCPServer, loader *DesignLoader) {
	tool := mcp.NewTool(
		"netlens_search",
		mcp.WithDescription("Find components in a design by part number, description, comment, or value. Returns matching components with their pin tables, ranked by relevance."),
		mcp.WithString("design",
			mcp.Required(),
			mcp.Description("Absolute path to the design file")),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query matched against whole words (e.g. 'STM32F405RGT6', '10k pull-up', '0.1uF')")),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (default: 10)")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createSearchHandler(loader))
}

func createSearchHandler(loader *DesignLoader) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		var args SearchRequest
		args.Design, _ = argsMap["design"].(string)
		args.Query, _ = argsMap["query"].(string)
		if args.Design == "" {
			return mcp.NewToolResultError("design parameter is required"), nil
		}
		if args.Query == "" {
			return mcp.NewToolResultError("query parameter is required"), nil
		}
		if limit, ok := argsMap["limit"].(float64); ok {
			args.Limit = int(limit)
		}

		design, err := loader.Load(args.Design)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		response, err := design.Index.Search(args.Query, args.Limit)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		jsonData, err := json.Marshal(response)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response: %w", err)
		}
		return mcp.NewToolResultText(string(jsonData)), nil
	}
}
