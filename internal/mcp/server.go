// Package mcp provides a Model Context Protocol server for Msgvault.
//
// It exposes the export pipeline, style analysis, text anonymization, and
// the archive as MCP tools, and archive statistics and recent runs as MCP
// resources. Supports stdio transport for desktop MCP clients.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hurttlocker/msgvault/internal/archive"
	"github.com/hurttlocker/msgvault/internal/contact"
	"github.com/hurttlocker/msgvault/internal/export"
	"github.com/hurttlocker/msgvault/internal/privacy"
	"github.com/hurttlocker/msgvault/internal/style"
)

// ServerConfig holds configuration for the MCP server.
type ServerConfig struct {
	Store   *archive.Store // optional archive; archive tools are skipped when nil
	DataDir string         // default export output directory
	Version string         // version string for MCP server info
	Privacy privacy.Config
}

// dbMu serializes tool calls that touch the archive database.
// The mcp-go library dispatches handlers concurrently via goroutines, and
// SQLite supports only one writer at a time. A global mutex ensures export
// runs complete before stats queries see their data.
var dbMu sync.Mutex

// NewServer creates a configured MCP server with all Msgvault tools and
// resources.
func NewServer(cfg ServerConfig) *server.MCPServer {
	ver := cfg.Version
	if ver == "" {
		ver = "dev"
	}

	s := server.NewMCPServer(
		"Msgvault",
		ver,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(true, false),
	)

	registerExportTool(s, cfg)
	registerStyleTool(s, cfg)
	registerAnonymizeTool(s)

	if cfg.Store != nil {
		registerArchiveStatsTool(s, cfg.Store)
		registerArchiveListTool(s, cfg.Store)
		registerStatsResource(s, cfg.Store)
		registerRecentRunsResource(s, cfg.Store)
	}

	return s
}

// --- Tools ---

func registerExportTool(s *server.MCPServer, cfg ServerConfig) {
	tool := mcp.NewTool("msgvault_export",
		mcp.WithDescription("Consolidate message transcripts per contact, optimize them for language-model consumption, anonymize sensitive data, and write LLM-ready JSON files plus master index files."),
		mcp.WithString("transcripts_dir",
			mcp.Required(),
			mcp.Description("Directory containing per-number transcript .txt files"),
		),
		mcp.WithString("contacts_file",
			mcp.Required(),
			mcp.Description("YAML file listing contacts with their phone numbers"),
		),
		mcp.WithString("output_dir",
			mcp.Description("Output directory for exported files (default: configured data directory)"),
		),
		mcp.WithNumber("min_messages",
			mcp.Description("Minimum raw message count for a contact to be exported (default: 10)"),
		),
		mcp.WithNumber("recent_count",
			mcp.Description("Number of trailing messages in the recent-interactions window (default: 75)"),
		),
		mcp.WithBoolean("privacy",
			mcp.Description("Anonymize names, numbers, emails, handles, and credentials (default: server setting)"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		transcriptsDir, err := req.RequireString("transcripts_dir")
		if err != nil {
			return mcp.NewToolResultError("transcripts_dir is required"), nil
		}
		contactsFile, err := req.RequireString("contacts_file")
		if err != nil {
			return mcp.NewToolResultError("contacts_file is required"), nil
		}

		opts := export.Options{
			TranscriptsDir: transcriptsDir,
			OutputDir:      cfg.DataDir,
			Privacy:        cfg.Privacy,
			Archive:        cfg.Store,
		}
		if out, err := req.RequireString("output_dir"); err == nil && out != "" {
			opts.OutputDir = out
		}
		if opts.OutputDir == "" {
			return mcp.NewToolResultError("output_dir is required when no data directory is configured"), nil
		}
		if v, err := req.RequireFloat("min_messages"); err == nil && v > 0 {
			opts.MinMessages = int(v)
		}
		if v, err := req.RequireFloat("recent_count"); err == nil && v > 0 {
			opts.RecentCount = int(v)
		}
		if v, err := req.RequireBool("privacy"); err == nil {
			opts.Privacy.Enabled = v
		}

		contacts, err := contact.Load(contactsFile)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("loading contacts: %v", err)), nil
		}

		result, err := export.NewEngine(opts).Export(ctx, contacts)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("export failed: %v", err)), nil
		}

		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("formatting result: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerStyleTool(s *server.MCPServer, cfg ServerConfig) {
	tool := mcp.NewTool("msgvault_style",
		mcp.WithDescription("Analyze the user's writing style toward one contact from their exported recent interactions: length, capitalization, punctuation, emoji, vocabulary, emotional tone, and response patterns, with style-matching recommendations."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("contact_name",
			mcp.Required(),
			mcp.Description("Contact name as it appears in the export directory"),
		),
		mcp.WithString("data_dir",
			mcp.Description("Export directory to read from (default: configured data directory)"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("contact_name")
		if err != nil {
			return mcp.NewToolResultError("contact_name is required"), nil
		}

		dataDir := cfg.DataDir
		if dir, err := req.RequireString("data_dir"); err == nil && dir != "" {
			dataDir = dir
		}
		if dataDir == "" {
			return mcp.NewToolResultError("data_dir is required when no data directory is configured"), nil
		}

		profile, err := style.AnalyzeContact(dataDir, name)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("analyzing style: %v", err)), nil
		}

		data, err := json.MarshalIndent(profile, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("formatting profile: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerAnonymizeTool(s *server.MCPServer) {
	tool := mcp.NewTool("msgvault_anonymize",
		mcp.WithDescription("Redact phone numbers, emails, social handles, usernames, and credentials from a piece of text, returning the redacted text and the placeholder mapping. Credential values are never included in the mapping."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Text to anonymize"),
		),
		mcp.WithString("contact_name",
			mcp.Description("Contact name to redact from the text, if known"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := req.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError("text is required"), nil
		}
		contactName := ""
		if v, err := req.RequireString("contact_name"); err == nil {
			contactName = v
		}

		anonymizer := privacy.NewAnonymizer(privacy.Config{Enabled: true})
		redacted, mapping := anonymizer.AnonymizeText(text, contactName)

		data, err := json.MarshalIndent(map[string]interface{}{
			"anonymized_text": redacted,
			"mapping":         mapping,
		}, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("formatting result: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerArchiveStatsTool(s *server.MCPServer, store *archive.Store) {
	tool := mcp.NewTool("msgvault_archive_stats",
		mcp.WithDescription("Show archive statistics: archived conversations, message groups, mapping entries, export runs, and database size."),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		text, err := store.StatsJSON(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("reading stats: %v", err)), nil
		}
		return mcp.NewToolResultText(text), nil
	})
}

func registerArchiveListTool(s *server.MCPServer, store *archive.Store) {
	tool := mcp.NewTool("msgvault_archive_list",
		mcp.WithDescription("List archived conversations, newest first."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of conversations to return (default: 20, max: 100)"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		limit := 20
		if v, err := req.RequireFloat("limit"); err == nil && v > 0 {
			limit = int(v)
			if limit > 100 {
				limit = 100
			}
		}

		records, err := store.ListConversations(ctx, limit)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("listing conversations: %v", err)), nil
		}

		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("formatting conversations: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	})
}
