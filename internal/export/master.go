package export

import (
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/hurttlocker/msgvault/internal/consolidate"
	"github.com/hurttlocker/msgvault/internal/privacy"
	"github.com/hurttlocker/msgvault/internal/recent"
)

// Master artifact filenames under _llm_ready/.
const (
	MasterIndexFilename   = "master_index.json"
	SummariesFilename     = "conversation_summaries.json"
	MasterMappingFilename = "privacy_mapping.json"
)

type masterIndex struct {
	Metadata      indexMetadata `json:"metadata"`
	Conversations []indexEntry  `json:"conversations"`
}

type indexMetadata struct {
	TotalConversations         int          `json:"total_conversations"`
	GeneratedAt                string       `json:"generated_at"`
	Format                     string       `json:"format"`
	MinMessageCount            int          `json:"min_message_count"`
	PrivacyEnabled             bool         `json:"privacy_enabled"`
	IncludesRecentInteractions bool         `json:"includes_recent_interactions"`
	RecentInteractionsCount    int          `json:"recent_interactions_count"`
	OverallStats               overallStats `json:"overall_stats"`
}

type overallStats struct {
	TotalMessagesAllConversations  int             `json:"total_messages_all_conversations"`
	TotalSentMessages              int             `json:"total_sent_messages"`
	TotalReceivedMessages          int             `json:"total_received_messages"`
	AverageMessagesPerConversation float64         `json:"average_messages_per_conversation"`
	MostActiveContacts             []activeContact `json:"most_active_contacts"`
}

type activeContact struct {
	ContactName  string `json:"contact_name"`
	MessageCount int    `json:"message_count"`
}

type indexEntry struct {
	ContactName              string           `json:"contact_name"`
	FilePath                 string           `json:"file_path"`
	RecentInteractionsFile   string           `json:"recent_interactions_file"`
	PhoneNumbers             []string         `json:"phone_numbers"`
	Emails                   []string         `json:"emails,omitempty"`
	Organization             string           `json:"organization,omitempty"`
	TotalMessages            int              `json:"total_messages"`
	SentMessages             int              `json:"sent_messages"`
	ReceivedMessages         int              `json:"received_messages"`
	DateRange                string           `json:"date_range"`
	MostActiveNumber         string           `json:"most_active_number"`
	RecentInteractionSummary recentSummary    `json:"recent_interaction_summary"`
	LastMessage              *LastMessageInfo `json:"last_message,omitempty"`
}

type recentSummary struct {
	MessagesAnalyzed int     `json:"messages_analyzed"`
	ResponsePairs    int     `json:"response_pairs"`
	InteractionRatio float64 `json:"interaction_ratio"`
	TimespanHours    float64 `json:"timespan_hours"`
}

type conversationSummaries struct {
	Metadata  summariesMetadata `json:"metadata"`
	Summaries []summaryEntry    `json:"summaries"`
}

type summariesMetadata struct {
	Format             string `json:"format"`
	GeneratedAt        string `json:"generated_at"`
	TotalConversations int    `json:"total_conversations"`
}

type summaryEntry struct {
	ContactName            string               `json:"contact_name"`
	FilePath               string               `json:"file_path"`
	RecentInteractionsFile string               `json:"recent_interactions_file"`
	ConversationMetadata   consolidate.Metadata `json:"conversation_metadata"`
	InteractionAnalysis    recent.Analysis      `json:"interaction_analysis"`
}

type masterMapping struct {
	Metadata mappingMetadata             `json:"metadata"`
	Global   privacy.GlobalMappings      `json:"global_mappings"`
	Mappings map[string]*privacy.Mapping `json:"mappings"`
}

type mappingMetadata struct {
	GeneratedAt        string `json:"generated_at"`
	TotalConversations int    `json:"total_conversations"`
	Note               string `json:"note"`
}

// writeMasterFiles assembles and writes the master index, the summaries
// file, and, when anonymization is on, the combined privacy mapping. The
// combined mapping is keyed by real contact name so conversations can be
// de-anonymized later.
func (e *Engine) writeMasterFiles(result *Result, entries []contactEntry) error {
	masterDir := filepath.Join(e.opts.OutputDir, MasterDirName)
	if err := os.MkdirAll(masterDir, 0755); err != nil {
		return err
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Document.Contact.Name < entries[j].Document.Contact.Name
	})

	generatedAt := e.opts.Now().Format("2006-01-02T15:04:05")

	index := masterIndex{
		Metadata: indexMetadata{
			TotalConversations:         len(entries),
			GeneratedAt:                generatedAt,
			Format:                     "llm_ready_conversations",
			MinMessageCount:            e.opts.MinMessages,
			PrivacyEnabled:             e.anonymizer.Enabled(),
			IncludesRecentInteractions: true,
			RecentInteractionsCount:    e.opts.RecentCount,
		},
		Conversations: []indexEntry{},
	}
	summaries := conversationSummaries{
		Metadata: summariesMetadata{
			Format:             "llm_conversation_summaries",
			GeneratedAt:        generatedAt,
			TotalConversations: len(entries),
		},
		Summaries: []summaryEntry{},
	}

	stats := overallStats{MostActiveContacts: []activeContact{}}
	for _, entry := range entries {
		meta := entry.Document.ConversationMetadata
		stats.TotalMessagesAllConversations += meta.TotalMessages
		stats.TotalSentMessages += meta.SentMessages
		stats.TotalReceivedMessages += meta.ReceivedMessages
		stats.MostActiveContacts = append(stats.MostActiveContacts, activeContact{
			ContactName:  entry.Document.Contact.Name,
			MessageCount: meta.TotalMessages,
		})

		index.Conversations = append(index.Conversations, indexEntry{
			ContactName:            entry.Document.Contact.Name,
			FilePath:               entry.FilePath,
			RecentInteractionsFile: entry.RecentPath,
			PhoneNumbers:           entry.Document.Contact.PhoneNumbers,
			Emails:                 entry.Document.Contact.Emails,
			Organization:           entry.Document.Contact.Organization,
			TotalMessages:          meta.TotalMessages,
			SentMessages:           meta.SentMessages,
			ReceivedMessages:       meta.ReceivedMessages,
			DateRange:              meta.DateRange,
			MostActiveNumber:       meta.MostActiveNumber,
			RecentInteractionSummary: recentSummary{
				MessagesAnalyzed: entry.Analysis.MessageCount,
				ResponsePairs:    entry.Analysis.ResponsePairs,
				InteractionRatio: entry.Analysis.InteractionRatio,
				TimespanHours:    entry.Analysis.TimespanHours,
			},
			LastMessage: entry.LastMessage,
		})

		summaries.Summaries = append(summaries.Summaries, summaryEntry{
			ContactName:            entry.Document.Contact.Name,
			FilePath:               entry.FilePath,
			RecentInteractionsFile: entry.RecentPath,
			ConversationMetadata:   meta,
			InteractionAnalysis:    entry.Analysis,
		})
	}
	if len(entries) > 0 {
		stats.AverageMessagesPerConversation = round1(float64(stats.TotalMessagesAllConversations) / float64(len(entries)))
	}
	sort.SliceStable(stats.MostActiveContacts, func(i, j int) bool {
		return stats.MostActiveContacts[i].MessageCount > stats.MostActiveContacts[j].MessageCount
	})
	if len(stats.MostActiveContacts) > 10 {
		stats.MostActiveContacts = stats.MostActiveContacts[:10]
	}
	index.Metadata.OverallStats = stats

	result.MasterIndexPath = filepath.Join(masterDir, MasterIndexFilename)
	if err := writeJSON(result.MasterIndexPath, index); err != nil {
		return err
	}
	result.SummariesPath = filepath.Join(masterDir, SummariesFilename)
	if err := writeJSON(result.SummariesPath, summaries); err != nil {
		return err
	}

	if e.anonymizer.Enabled() {
		combined := masterMapping{
			Metadata: mappingMetadata{
				GeneratedAt:        generatedAt,
				TotalConversations: len(entries),
				Note:               "Keep this file secure. It maps placeholders back to real data.",
			},
			Global:   e.anonymizer.GlobalMappings(),
			Mappings: map[string]*privacy.Mapping{},
		}
		for _, entry := range entries {
			if entry.Mapping != nil {
				combined.Mappings[entry.Name] = entry.Mapping
			}
		}
		result.MasterMappingPath = filepath.Join(masterDir, MasterMappingFilename)
		if err := writeJSON(result.MasterMappingPath, combined); err != nil {
			return err
		}
	}

	return nil
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
