// Package export runs the full per-contact pipeline and writes the
// LLM-ready artifacts: one directory per contact with the conversation
// document, recent-interactions window, and privacy mapping, plus the
// master files under _llm_ready/.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/hurttlocker/msgvault/internal/archive"
	"github.com/hurttlocker/msgvault/internal/consolidate"
	"github.com/hurttlocker/msgvault/internal/contact"
	"github.com/hurttlocker/msgvault/internal/optimize"
	"github.com/hurttlocker/msgvault/internal/privacy"
	"github.com/hurttlocker/msgvault/internal/recent"
)

// Artifact filenames inside each contact directory.
const (
	ConversationFilename   = "conversation_llm.json"
	PrivacyMappingFilename = "privacy_mapping.json"
	MasterDirName          = "_llm_ready"
)

// DefaultMinMessages is the minimum raw message count for a contact to
// be exported.
const DefaultMinMessages = 10

// Options configures an export run.
type Options struct {
	TranscriptsDir string
	OutputDir      string
	MinMessages    int              // default DefaultMinMessages
	RecentCount    int              // default recent.DefaultCount
	Optimize       optimize.Options // grouping window and similarity threshold
	Privacy        privacy.Config
	Archive        *archive.Store   // optional, conversations are archived when set
	Now            func() time.Time // injectable clock, nil for time.Now
}

// ExportError records a non-fatal per-contact failure.
type ExportError struct {
	Contact string
	Message string
}

// Result summarizes an export run.
type Result struct {
	RunID             string
	Exported          int
	SkippedBelowMin   int
	FilteredNoName    int
	MasterIndexPath   string
	SummariesPath     string
	MasterMappingPath string
	Errors            []ExportError
}

// Engine runs exports. One Anonymizer lives for the Engine's lifetime so
// placeholders stay consistent across contacts and runs.
type Engine struct {
	opts       Options
	anonymizer *privacy.Anonymizer
}

// NewEngine creates an export engine.
func NewEngine(opts Options) *Engine {
	if opts.MinMessages <= 0 {
		opts.MinMessages = DefaultMinMessages
	}
	if opts.RecentCount <= 0 {
		opts.RecentCount = recent.DefaultCount
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Engine{
		opts:       opts,
		anonymizer: privacy.NewAnonymizer(opts.Privacy),
	}
}

// Export runs the pipeline for every contact and writes all artifacts.
// Per-contact failures are accumulated in the result; only an unusable
// output directory is fatal.
func (e *Engine) Export(ctx context.Context, contacts []contact.Contact) (*Result, error) {
	if err := os.MkdirAll(e.opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	result := &Result{RunID: uuid.NewString()}
	var entries []contactEntry

	for _, c := range contacts {
		if c.Name == "" {
			result.FilteredNoName++
			continue
		}

		entry, err := e.exportContact(ctx, result.RunID, c)
		if err != nil {
			result.Errors = append(result.Errors, ExportError{Contact: c.Name, Message: err.Error()})
			fmt.Fprintf(os.Stderr, "Warning: skipping %s: %v\n", c.Name, err)
			continue
		}
		if entry == nil {
			result.SkippedBelowMin++
			continue
		}

		entries = append(entries, *entry)
		result.Exported++
	}

	if err := e.writeMasterFiles(result, entries); err != nil {
		return nil, err
	}

	return result, nil
}

// contactEntry carries everything the master files need about one
// exported contact.
type contactEntry struct {
	Name        string // real name; placeholders are applied at render time
	Document    consolidate.Document
	Mapping     *privacy.Mapping
	Analysis    recent.Analysis
	FilePath    string
	RecentPath  string
	LastMessage *LastMessageInfo
}

func (e *Engine) exportContact(ctx context.Context, runID string, c contact.Contact) (*contactEntry, error) {
	consolidator := &consolidate.Consolidator{Dir: e.opts.TranscriptsDir}
	merged := consolidator.Consolidate(c.PhoneNumbers)

	if len(merged.Messages) < e.opts.MinMessages {
		return nil, nil
	}

	optimized := optimize.Optimize(merged.Messages, e.opts.Optimize)
	metadata := consolidate.GenerateMetadata(optimized, merged.PhoneUsage, e.opts.Now)

	doc := consolidate.Document{
		Contact: consolidate.ContactInfo{
			Name:         c.Name,
			PhoneNumbers: c.PhoneNumbers,
			Emails:       c.Emails,
			Organization: c.Organization,
			Title:        c.Title,
			Addresses:    c.Addresses,
		},
		ConversationMetadata: metadata,
		Messages:             optimized,
	}

	anonDoc, mapping := e.anonymizer.Anonymize(doc, c.Name)

	window := recent.Extract(merged.Messages, e.opts.RecentCount)
	window = e.anonymizer.AnonymizeGroups(window, c.Name, mapping)
	recentDoc := recent.NewDocument(anonDoc.Contact, window, e.opts.RecentCount, e.opts.Now)

	contactDir := filepath.Join(e.opts.OutputDir, contact.SafeName(c.Name))
	if err := os.MkdirAll(contactDir, 0755); err != nil {
		return nil, fmt.Errorf("creating contact directory: %w", err)
	}

	filePath := filepath.Join(contactDir, ConversationFilename)
	if err := writeJSON(filePath, anonDoc); err != nil {
		return nil, err
	}
	recentPath := filepath.Join(contactDir, recent.RecentInteractionsFilename)
	if err := writeJSON(recentPath, recentDoc); err != nil {
		return nil, err
	}
	if mapping != nil {
		if err := writeJSON(filepath.Join(contactDir, PrivacyMappingFilename), mapping); err != nil {
			return nil, err
		}
	}

	if e.opts.Archive != nil {
		if _, err := e.opts.Archive.SaveConversation(ctx, runID, anonDoc, mapping); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: archiving %s failed: %v\n", c.Name, err)
		}
	}

	return &contactEntry{
		Name:        c.Name,
		Document:    anonDoc,
		Mapping:     mapping,
		Analysis:    recent.AnalyzePatterns(window),
		FilePath:    filePath,
		RecentPath:  recentPath,
		LastMessage: lastMessageInfo(anonDoc.Messages),
	}, nil
}

// LastMessageInfo summarizes the final timeline entry for the index.
type LastMessageInfo struct {
	Date    string `json:"last_message_date"`
	Sender  string `json:"last_message_sender"`
	Preview string `json:"last_message_preview"`
}

func lastMessageInfo(groups []optimize.Group) *LastMessageInfo {
	if len(groups) == 0 {
		return nil
	}
	last := groups[len(groups)-1]
	preview := last.Content
	if runes := []rune(preview); len(runes) > 100 {
		preview = string(runes[:100])
	}
	return &LastMessageInfo{
		Date:    last.Timestamp,
		Sender:  string(last.Sender),
		Preview: preview,
	}
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}
