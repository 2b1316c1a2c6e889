// Package archive provides the SQLite archive of export runs.
//
// Every exported conversation is recorded with its metadata, message
// groups, and privacy-mapping entry counts so past runs can be inspected
// without re-reading the JSON artifacts.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hurttlocker/msgvault/internal/consolidate"
	"github.com/hurttlocker/msgvault/internal/privacy"
)

// DefaultDBPath is the default database location.
const DefaultDBPath = "~/.msgvault/msgvault.db"

// Config holds configuration for Open.
type Config struct {
	DBPath string
}

// Store is a SQLite-backed archive.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Stats holds observability statistics about the archive.
type Stats struct {
	ConversationCount int64
	GroupCount        int64
	MappingEntryCount int64
	RunCount          int64
	DBSizeBytes       int64
}

// ConversationRecord is one archived conversation row.
type ConversationRecord struct {
	ID            int64
	RunID         string
	ContactName   string
	TotalMessages int
	SentMessages  int
	ReceivedCount int
	DateRange     string
	ArchivedAt    time.Time
}

// Open creates a SQLite-backed archive Store.
// Pass ":memory:" for in-memory databases (testing).
func Open(cfg Config) (*Store, error) {
	if cfg.DBPath == "" {
		cfg.DBPath = expandPath(DefaultDBPath)
	}

	// Create parent directory for non-memory databases
	if cfg.DBPath != ":memory:" {
		dir := filepath.Dir(cfg.DBPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, dbPath: cfg.DBPath}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS conversations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			contact_name TEXT NOT NULL,
			total_messages INTEGER NOT NULL DEFAULT 0,
			sent_messages INTEGER NOT NULL DEFAULT 0,
			received_messages INTEGER NOT NULL DEFAULT 0,
			date_range TEXT NOT NULL DEFAULT '',
			archived_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conversations_run ON conversations(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_conversations_contact ON conversations(contact_name)`,
		`CREATE TABLE IF NOT EXISTS message_groups (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			conversation_id INTEGER NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			timestamp TEXT NOT NULL DEFAULT '',
			sender TEXT NOT NULL DEFAULT 'unknown',
			content TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_groups_conversation ON message_groups(conversation_id)`,
		`CREATE TABLE IF NOT EXISTS mapping_entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			conversation_id INTEGER NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
			category TEXT NOT NULL,
			placeholder TEXT NOT NULL,
			value TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_mapping_conversation ON mapping_entries(conversation_id)`,
	}

	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing migration: %w", err)
		}
	}
	return nil
}

// SaveConversation archives one exported conversation. The mapping may
// be nil when anonymization is disabled; credential values are already
// absent from mappings by construction.
func (s *Store) SaveConversation(ctx context.Context, runID string, doc consolidate.Document, mapping *privacy.Mapping) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO conversations (run_id, contact_name, total_messages, sent_messages, received_messages, date_range, archived_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID,
		doc.Contact.Name,
		doc.ConversationMetadata.TotalMessages,
		doc.ConversationMetadata.SentMessages,
		doc.ConversationMetadata.ReceivedMessages,
		doc.ConversationMetadata.DateRange,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting conversation: %w", err)
	}
	conversationID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading conversation id: %w", err)
	}

	for i, g := range doc.Messages {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO message_groups (conversation_id, position, timestamp, sender, content) VALUES (?, ?, ?, ?, ?)`,
			conversationID, i, g.Timestamp, string(g.Sender), g.Content,
		); err != nil {
			return 0, fmt.Errorf("inserting message group: %w", err)
		}
	}

	if mapping != nil {
		categories := map[string]map[string]string{
			"phone":        mapping.Phones,
			"email":        mapping.Emails,
			"organization": mapping.Organizations,
			"social_media": mapping.SocialMedia,
			"address":      mapping.Addresses,
			"credential":   mapping.Credentials,
		}
		for category, entries := range categories {
			for placeholder, value := range entries {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO mapping_entries (conversation_id, category, placeholder, value) VALUES (?, ?, ?, ?)`,
					conversationID, category, placeholder, value,
				); err != nil {
					return 0, fmt.Errorf("inserting mapping entry: %w", err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing conversation: %w", err)
	}
	return conversationID, nil
}

// ListConversations returns archived conversations, newest first.
func (s *Store) ListConversations(ctx context.Context, limit int) ([]*ConversationRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, contact_name, total_messages, sent_messages, received_messages, date_range, archived_at
		 FROM conversations ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying conversations: %w", err)
	}
	defer rows.Close()

	var out []*ConversationRecord
	for rows.Next() {
		var r ConversationRecord
		var archivedAt string
		if err := rows.Scan(&r.ID, &r.RunID, &r.ContactName, &r.TotalMessages, &r.SentMessages, &r.ReceivedCount, &r.DateRange, &archivedAt); err != nil {
			return nil, fmt.Errorf("scanning conversation: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, archivedAt); err == nil {
			r.ArchivedAt = t
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}

// Stats returns archive counters.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	counts := []struct {
		query string
		dest  *int64
	}{
		{"SELECT COUNT(*) FROM conversations", &stats.ConversationCount},
		{"SELECT COUNT(*) FROM message_groups", &stats.GroupCount},
		{"SELECT COUNT(*) FROM mapping_entries", &stats.MappingEntryCount},
		{"SELECT COUNT(DISTINCT run_id) FROM conversations", &stats.RunCount},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("counting: %w", err)
		}
	}

	if s.dbPath != ":memory:" {
		if info, err := os.Stat(s.dbPath); err == nil {
			stats.DBSizeBytes = info.Size()
		}
	}

	return stats, nil
}

// StatsJSON renders stats for tool output.
func (s *Store) StatsJSON(ctx context.Context) (string, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(map[string]int64{
		"conversations":   stats.ConversationCount,
		"message_groups":  stats.GroupCount,
		"mapping_entries": stats.MappingEntryCount,
		"runs":            stats.RunCount,
		"db_size_bytes":   stats.DBSizeBytes,
	}, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// expandPath expands ~ to home directory.
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
