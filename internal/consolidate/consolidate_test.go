package consolidate

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hurttlocker/msgvault/internal/optimize"
	"github.com/hurttlocker/msgvault/internal/transcript"
)

func writeTranscript(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func TestConsolidateMergesNumbers(t *testing.T) {
	dir := t.TempDir()
	writeTranscript(t, dir, "+15551234567.txt", `Jan 15, 2024 10:30:00 AM
Me
message from first number
`)
	// Second number stored without the plus prefix.
	writeTranscript(t, dir, "15559876543.txt", `Jan 15, 2024 9:00:00 AM
+15559876543
earlier message from second number
`)

	c := &Consolidator{Dir: dir}
	result := c.Consolidate([]string{"+15551234567", "+15559876543"})

	if len(result.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(result.Messages))
	}

	// Sorted ascending by timestamp string across numbers.
	if result.Messages[0].Content != "earlier message from second number" {
		t.Errorf("first message = %q, want the 9 AM one", result.Messages[0].Content)
	}

	if result.PhoneUsage["+15551234567"] != 1 || result.PhoneUsage["+15559876543"] != 1 {
		t.Errorf("phone usage = %v", result.PhoneUsage)
	}
}

func TestConsolidateMissingFilesContributeNothing(t *testing.T) {
	dir := t.TempDir()
	writeTranscript(t, dir, "+15551234567.txt", `Jan 15, 2024 10:30:00 AM
Me
only real transcript
`)

	c := &Consolidator{Dir: dir}
	result := c.Consolidate([]string{"+15551234567", "+15550000000"})

	if len(result.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(result.Messages))
	}
	if _, ok := result.PhoneUsage["+15550000000"]; ok {
		t.Error("missing number should not appear in phone usage")
	}
}

func TestConsolidateStableOrderForEqualTimestamps(t *testing.T) {
	dir := t.TempDir()
	writeTranscript(t, dir, "+15551234567.txt", `Jan 15, 2024 10:30:00 AM
Me
from number one
`)
	writeTranscript(t, dir, "+15559876543.txt", `Jan 15, 2024 10:30:00 AM
Me
from number two
`)

	c := &Consolidator{Dir: dir}
	result := c.Consolidate([]string{"+15551234567", "+15559876543"})

	if len(result.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(result.Messages))
	}
	// Input order is preserved for equal timestamps.
	if result.Messages[0].Content != "from number one" {
		t.Errorf("first message = %q", result.Messages[0].Content)
	}
}

func fixedNow() time.Time {
	return time.Date(2024, 2, 14, 12, 0, 0, 0, time.UTC)
}

func TestGenerateMetadata(t *testing.T) {
	groups := []optimize.Group{
		{Timestamp: "2024-01-15T10:00:00", Sender: transcript.SenderMe, Content: "hello out there"},
		{Timestamp: "2024-01-20T10:00:00", Sender: transcript.SenderContact, Content: "hello back"},
		{Timestamp: "2024-02-01T10:00:00", Sender: transcript.SenderMe, Content: "checking in again"},
	}
	usage := map[string]int{"+15551234567": 2, "+15559876543": 1}

	md := GenerateMetadata(groups, usage, fixedNow)

	if md.TotalMessages != 3 || md.SentMessages != 2 || md.ReceivedMessages != 1 {
		t.Errorf("counts = %d/%d/%d", md.TotalMessages, md.SentMessages, md.ReceivedMessages)
	}
	if md.DateRange != "2024-01-15 to present" {
		t.Errorf("date range = %q", md.DateRange)
	}
	if md.ConversationSpanDays != 30 {
		t.Errorf("span days = %d, want 30", md.ConversationSpanDays)
	}
	if md.MessageFrequencyPerDay != 0.1 {
		t.Errorf("frequency = %v, want 0.1", md.MessageFrequencyPerDay)
	}
	if md.MostActiveNumber != "+15551234567" {
		t.Errorf("most active = %q", md.MostActiveNumber)
	}
}

func TestGenerateMetadataEmpty(t *testing.T) {
	md := GenerateMetadata(nil, nil, fixedNow)
	if md.TotalMessages != 0 || md.DateRange != "Unknown" {
		t.Errorf("empty metadata = %+v", md)
	}
}

func TestGenerateMetadataRawTimestampFallback(t *testing.T) {
	groups := []optimize.Group{
		{Timestamp: "sometime in March", Sender: transcript.SenderMe, Content: "odd timestamp"},
	}

	md := GenerateMetadata(groups, nil, fixedNow)

	if md.DateRange != "sometime in March to present" {
		t.Errorf("date range = %q", md.DateRange)
	}
	if md.ConversationSpanDays != 0 {
		t.Errorf("span days = %d, want 0", md.ConversationSpanDays)
	}
	if md.MostActiveNumber != "unknown" {
		t.Errorf("most active = %q", md.MostActiveNumber)
	}
}

func TestMostActiveNumberTieBreak(t *testing.T) {
	usage := map[string]int{"+15559999999": 5, "+15551111111": 5}
	if got := mostActiveNumber(usage); got != "+15551111111" {
		t.Errorf("tie break = %q, want lexicographically smallest", got)
	}
}
