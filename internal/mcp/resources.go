package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hurttlocker/msgvault/internal/archive"
)

func registerStatsResource(s *server.MCPServer, store *archive.Store) {
	resource := mcp.NewResource(
		"msgvault://archive/stats",
		"Archive Statistics",
		mcp.WithResourceDescription("Archived conversation, group, mapping, and run counts plus database size."),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(resource, func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		text, err := store.StatsJSON(ctx)
		if err != nil {
			return nil, fmt.Errorf("reading stats resource: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: req.Params.URI, MIMEType: "application/json", Text: text},
		}, nil
	})
}

func registerRecentRunsResource(s *server.MCPServer, store *archive.Store) {
	resource := mcp.NewResource(
		"msgvault://archive/recent",
		"Recent Conversations",
		mcp.WithResourceDescription("The most recently archived conversations, newest first."),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(resource, func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		records, err := store.ListConversations(ctx, 20)
		if err != nil {
			return nil, fmt.Errorf("reading recent resource: %w", err)
		}

		payload := map[string]interface{}{
			"conversations": records,
			"count":         len(records),
		}
		data, _ := json.MarshalIndent(payload, "", "  ")
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: req.Params.URI, MIMEType: "application/json", Text: string(data)},
		}, nil
	})
}
