package recent

import (
	"fmt"
	"testing"
	"time"

	"github.com/hurttlocker/msgvault/internal/consolidate"
	"github.com/hurttlocker/msgvault/internal/optimize"
	"github.com/hurttlocker/msgvault/internal/transcript"
)

func TestMinimalCleanKeepsShortReplies(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ok", "ok"},
		{"yes", "yes"},
		{"on my way (Read by them 10:05 AM)", "on my way"},
		{"Loved \"sounds good\"", ""},
		{"[attachment] see this", "see this"},
		{"lots   of    spaces", "lots of spaces"},
	}
	for _, tt := range tests {
		if got := MinimalClean(tt.in); got != tt.want {
			t.Errorf("MinimalClean(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtractWindow(t *testing.T) {
	var messages []transcript.Message
	for i := 0; i < 100; i++ {
		messages = append(messages, transcript.Message{
			Timestamp: fmt.Sprintf("2024-01-15T10:%02d:00", i%60),
			Sender:    transcript.SenderMe,
			Content:   fmt.Sprintf("message number %d", i),
		})
	}

	window := Extract(messages, 10)
	if len(window) != 10 {
		t.Fatalf("window size = %d, want 10", len(window))
	}
	if window[len(window)-1].Content != "message number 99" {
		t.Errorf("window does not end at newest message: %q", window[len(window)-1].Content)
	}

	if got := Extract(messages, 0); len(got) != DefaultCount {
		t.Errorf("default window size = %d, want %d", len(got), DefaultCount)
	}
}

func TestExtractKeepsReceiptMetadata(t *testing.T) {
	messages := []transcript.Message{
		{
			Timestamp: "2024-01-15T10:00:00",
			Sender:    transcript.SenderMe,
			Content:   "on my way",
			Metadata:  []string{"(Read by them after 2 minutes)"},
		},
		{Timestamp: "2024-01-15T10:01:00", Sender: transcript.SenderContact, Content: "see you soon"},
	}

	window := Extract(messages, 10)
	if len(window) != 2 {
		t.Fatalf("window size = %d, want 2", len(window))
	}
	if len(window[0].Metadata) != 1 || window[0].Metadata[0] != "(Read by them after 2 minutes)" {
		t.Errorf("metadata = %v", window[0].Metadata)
	}
	if window[1].Metadata != nil {
		t.Errorf("metadata without receipts = %v, want nil", window[1].Metadata)
	}
}

func TestExtractDropsEmptyAfterCleaning(t *testing.T) {
	messages := []transcript.Message{
		{Timestamp: "2024-01-15T10:00:00", Sender: transcript.SenderMe, Content: "Loved \"great news\""},
		{Timestamp: "2024-01-15T10:01:00", Sender: transcript.SenderContact, Content: "still here"},
	}
	window := Extract(messages, 10)
	if len(window) != 1 || window[0].Content != "still here" {
		t.Errorf("window = %+v", window)
	}
}

func TestAnalyzePatterns(t *testing.T) {
	window := []optimize.Group{
		{Timestamp: "2024-01-15T10:00:00", Sender: transcript.SenderContact, Content: "hey, how was the trip?"},
		{Timestamp: "2024-01-15T10:05:00", Sender: transcript.SenderMe, Content: "good!"},
		{Timestamp: "2024-01-15T11:00:00", Sender: transcript.SenderContact, Content: "glad to hear"},
		{Timestamp: "2024-01-15T12:00:00", Sender: transcript.SenderMe, Content: "same"},
	}

	a := AnalyzePatterns(window)
	if a.MessageCount != 4 || a.UserMessages != 2 || a.ContactMessages != 2 {
		t.Errorf("counts = %+v", a)
	}
	if a.ResponsePairs != 3 {
		t.Errorf("response pairs = %d, want 3", a.ResponsePairs)
	}
	if a.UserAvgMessageLength != 4.5 {
		t.Errorf("user avg length = %v, want 4.5", a.UserAvgMessageLength)
	}
	if a.InteractionRatio != 1 {
		t.Errorf("interaction ratio = %v, want 1", a.InteractionRatio)
	}
	if a.TimespanHours != 2 {
		t.Errorf("timespan hours = %v, want 2", a.TimespanHours)
	}
}

func TestAnalyzePatternsEmpty(t *testing.T) {
	if a := AnalyzePatterns(nil); a.MessageCount != 0 {
		t.Errorf("empty analysis = %+v", a)
	}
}

func TestNewDocument(t *testing.T) {
	now := func() time.Time { return time.Date(2024, 2, 14, 12, 0, 0, 0, time.UTC) }
	window := []optimize.Group{
		{Timestamp: "2024-01-15T10:00:00", Sender: transcript.SenderMe, Content: "hello there"},
	}

	doc := NewDocument(consolidate.ContactInfo{Name: "[[PERSON_1]]"}, window, 0, now)
	if doc.Format != "recent_interactions_analysis" {
		t.Errorf("format = %q", doc.Format)
	}
	if doc.Metadata.MessagesRequested != DefaultCount {
		t.Errorf("messages requested = %d", doc.Metadata.MessagesRequested)
	}
	if doc.Metadata.TotalMessagesAnalyzed != 1 {
		t.Errorf("messages analyzed = %d", doc.Metadata.TotalMessagesAnalyzed)
	}
	if doc.Metadata.GeneratedAt != "2024-02-14T12:00:00" {
		t.Errorf("generated at = %q", doc.Metadata.GeneratedAt)
	}
	if doc.Contact.Name != "[[PERSON_1]]" {
		t.Errorf("contact = %+v", doc.Contact)
	}
}
