// Package recent builds the recent-interactions window: the newest slice
// of a conversation with minimal cleaning, plus interaction pattern
// analysis. Unlike the optimizer, short replies are kept because "ok"
// and "yes" carry pattern signal.
package recent

import (
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/hurttlocker/msgvault/internal/consolidate"
	"github.com/hurttlocker/msgvault/internal/optimize"
	"github.com/hurttlocker/msgvault/internal/transcript"
)

// DefaultCount is the number of trailing messages in the window.
const DefaultCount = 75

// RecentInteractionsFilename is the per-contact artifact the window is
// written to and read back from.
const RecentInteractionsFilename = "conversation_recent_interactions.json"

// System artifacts stripped even under minimal cleaning.
var artifactREs = []*regexp.Regexp{
	regexp.MustCompile(`\(Read by .+?\)`),
	regexp.MustCompile(`\(Delivered.+?\)`),
	regexp.MustCompile(`This message responded to an earlier message\.?`),
	regexp.MustCompile(`Replied to ".+?"`),
	regexp.MustCompile(`Reacted to ".+?" with .+`),
	regexp.MustCompile(`Emphasized ".+?"`),
	regexp.MustCompile(`Liked ".+?"`),
	regexp.MustCompile(`Loved ".+?"`),
	regexp.MustCompile(`Laughed at ".+?"`),
	regexp.MustCompile(`Questioned ".+?"`),
	regexp.MustCompile(`Disliked ".+?"`),
	regexp.MustCompile(`Tapback: .+`),
	regexp.MustCompile(`\[.+?\]`),
}

// MinimalClean strips system artifacts and normalizes whitespace while
// keeping the message otherwise as written.
func MinimalClean(content string) string {
	for _, re := range artifactREs {
		content = re.ReplaceAllString(content, "")
	}
	return strings.Join(strings.Fields(content), " ")
}

// Extract returns the newest count messages with minimal cleaning.
// Messages that clean to empty are dropped; count <= 0 uses DefaultCount.
func Extract(messages []transcript.Message, count int) []optimize.Group {
	if count <= 0 {
		count = DefaultCount
	}
	if len(messages) > count {
		messages = messages[len(messages)-count:]
	}

	var out []optimize.Group
	for _, msg := range messages {
		content := MinimalClean(msg.Content)
		if content == "" {
			continue
		}
		out = append(out, optimize.Group{
			Timestamp: msg.Timestamp,
			Sender:    msg.Sender,
			Content:   content,
			Metadata:  msg.Metadata,
		})
	}
	return out
}

// Analysis summarizes interaction patterns over the recent window.
type Analysis struct {
	MessageCount            int     `json:"message_count"`
	UserMessages            int     `json:"user_messages"`
	ContactMessages         int     `json:"contact_messages"`
	ResponsePairs           int     `json:"response_pairs"`
	UserAvgMessageLength    float64 `json:"user_avg_message_length"`
	ContactAvgMessageLength float64 `json:"contact_avg_message_length"`
	TimespanHours           float64 `json:"timespan_hours"`
	InteractionRatio        float64 `json:"interaction_ratio"`
}

// AnalyzePatterns derives interaction stats from a recent window.
func AnalyzePatterns(messages []optimize.Group) Analysis {
	if len(messages) == 0 {
		return Analysis{}
	}

	a := Analysis{MessageCount: len(messages)}
	userChars, contactChars := 0, 0
	for _, m := range messages {
		switch m.Sender {
		case transcript.SenderMe:
			a.UserMessages++
			userChars += len(m.Content)
		case transcript.SenderContact:
			a.ContactMessages++
			contactChars += len(m.Content)
		}
	}

	for i := 0; i < len(messages)-1; i++ {
		if messages[i].Sender != messages[i+1].Sender {
			a.ResponsePairs++
		}
	}

	if a.UserMessages > 0 {
		a.UserAvgMessageLength = round1(float64(userChars) / float64(a.UserMessages))
		a.InteractionRatio = round2(float64(a.ContactMessages) / float64(a.UserMessages))
	}
	if a.ContactMessages > 0 {
		a.ContactAvgMessageLength = round1(float64(contactChars) / float64(a.ContactMessages))
	}

	a.TimespanHours = round2(timespanHours(messages))

	return a
}

func timespanHours(messages []optimize.Group) float64 {
	first, err := parseISO(messages[0].Timestamp)
	if err != nil {
		return 0
	}
	last, err := parseISO(messages[len(messages)-1].Timestamp)
	if err != nil {
		return 0
	}
	return last.Sub(first).Hours()
}

func parseISO(ts string) (time.Time, error) {
	return time.Parse("2006-01-02T15:04:05", ts)
}

// Document is the on-disk recent-interactions artifact.
type Document struct {
	Format              string                   `json:"format"`
	Purpose             string                   `json:"purpose"`
	Contact             consolidate.ContactInfo  `json:"contact"`
	InteractionAnalysis Analysis                 `json:"interaction_analysis"`
	RecentMessages      []optimize.Group         `json:"recent_messages"`
	Metadata            Meta                     `json:"metadata"`
}

// Meta records how the window was produced.
type Meta struct {
	TotalMessagesAnalyzed int    `json:"total_messages_analyzed"`
	MessagesRequested     int    `json:"messages_requested"`
	GeneratedAt           string `json:"generated_at"`
}

// NewDocument assembles a recent-interactions document. now is injectable
// for tests; pass nil for time.Now.
func NewDocument(info consolidate.ContactInfo, window []optimize.Group, requested int, now func() time.Time) Document {
	if now == nil {
		now = time.Now
	}
	if requested <= 0 {
		requested = DefaultCount
	}
	return Document{
		Format:              "recent_interactions_analysis",
		Purpose:             "Communication pattern analysis with preserved formatting",
		Contact:             info,
		InteractionAnalysis: AnalyzePatterns(window),
		RecentMessages:      window,
		Metadata: Meta{
			TotalMessagesAnalyzed: len(window),
			MessagesRequested:     requested,
			GeneratedAt:           now().Format("2006-01-02T15:04:05"),
		},
	}
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
