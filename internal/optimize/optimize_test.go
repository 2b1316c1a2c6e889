package optimize

import (
	"strings"
	"testing"
	"time"

	"github.com/hurttlocker/msgvault/internal/transcript"
)

func TestCleanContentSystemArtifacts(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"lunch sounds good (Read by them after 1 minute)", "lunch sounds good"},
		{"on my way (Delivered quietly)", "on my way"},
		{`Liked "the plan for tomorrow"`, ""},
		{`Loved "that photo"`, ""},
		{"Tapback: heart on the last message", ""},
		{"[image attachment] see this house", "see this house"},
		{"This message responded to an earlier message. still want to go?", "still want to go?"},
		{`Replied to "old message" sounds great to me`, "sounds great to me"},
	}

	for _, tt := range tests {
		if got := CleanContent(tt.in); got != tt.want {
			t.Errorf("CleanContent(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCleanContentStoplistAndShort(t *testing.T) {
	for _, in := range []string{"ok", "OK", "lol", "Thanks", "hi", "no", "ab", "x", ""} {
		if got := CleanContent(in); got != "" {
			t.Errorf("CleanContent(%q) = %q, want empty", in, got)
		}
	}

	// Not on the stoplist and long enough, so it survives.
	if got := CleanContent("okay then, see you soon"); got != "okay then, see you soon" {
		t.Errorf("got %q", got)
	}
}

func TestCleanContentPunctuationRuns(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"wait........ what", "wait... what"},
		{"no way!!!!!", "no way!"},
		{"are you serious??", "are you serious?"},
	}

	for _, tt := range tests {
		if got := CleanContent(tt.in); got != tt.want {
			t.Errorf("CleanContent(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCleanContentWhitespace(t *testing.T) {
	if got := CleanContent("  spaced   out\t\ttext  "); got != "spaced out text" {
		t.Errorf("got %q", got)
	}
}

func TestProcessEmojisTable(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"that's hilarious 😂", "that's hilarious (laughing)"},
		{"love it ❤️", "love it (heart)"},
		{"😍 amazing", "(heart eyes) amazing"},
		{"sounds good 👍", "sounds good (thumbs up)"},
		{"sounds good 🙂", "sounds good"},
		{"😂😂😂 stop it", "(laughing) stop it"},
	}

	for _, tt := range tests {
		if got := processEmojis(tt.in); got != tt.want {
			t.Errorf("processEmojis(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestProcessEmojisUnknownAndStandalone(t *testing.T) {
	// Unmapped emoji collapse to a single generic tag.
	got := processEmojis("look 🦄🦄")
	if got != "look (emoji)" {
		t.Errorf("got %q", got)
	}

	// A message that is nothing but emoji is dropped.
	if got := processEmojis("🦄"); got != "" {
		t.Errorf("standalone emoji: got %q, want empty", got)
	}
}

func TestOptimizeGroupsSameSenderWithinWindow(t *testing.T) {
	messages := []transcript.Message{
		{Timestamp: "2024-01-15T10:00:00", Sender: transcript.SenderMe, Content: "heading out now"},
		{Timestamp: "2024-01-15T10:04:00", Sender: transcript.SenderMe, Content: "traffic looks fine"},
		{Timestamp: "2024-01-15T10:08:00", Sender: transcript.SenderMe, Content: "there in twenty"},
		{Timestamp: "2024-01-15T10:09:00", Sender: transcript.SenderContact, Content: "see you then, drive safe"},
	}

	groups := Optimize(messages, Options{})

	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d: %+v", len(groups), groups)
	}
	if groups[0].Content != "heading out now traffic looks fine there in twenty" {
		t.Errorf("merged content = %q", groups[0].Content)
	}
	if groups[0].Timestamp != "2024-01-15T10:00:00" {
		t.Errorf("group timestamp = %q, want first message's", groups[0].Timestamp)
	}
	if groups[1].Sender != transcript.SenderContact {
		t.Errorf("second group sender = %q", groups[1].Sender)
	}
}

func TestOptimizeWindowMeasuredFromGroupStart(t *testing.T) {
	// Each message is 6 minutes after the previous, but the third is 12
	// minutes after the group start and must open a new group.
	messages := []transcript.Message{
		{Timestamp: "2024-01-15T10:00:00", Sender: transcript.SenderMe, Content: "first message here"},
		{Timestamp: "2024-01-15T10:06:00", Sender: transcript.SenderMe, Content: "second message here"},
		{Timestamp: "2024-01-15T10:12:00", Sender: transcript.SenderMe, Content: "third message here"},
	}

	groups := Optimize(messages, Options{})

	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d: %+v", len(groups), groups)
	}
	if !strings.Contains(groups[0].Content, "second") {
		t.Errorf("second message should merge into first group: %q", groups[0].Content)
	}
	if groups[1].Content != "third message here" {
		t.Errorf("third group = %q", groups[1].Content)
	}
}

func TestOptimizeNearDuplicateSuppressed(t *testing.T) {
	messages := []transcript.Message{
		{Timestamp: "2024-01-15T10:00:00", Sender: transcript.SenderMe, Content: "meet me at the coffee shop"},
		{Timestamp: "2024-01-15T10:01:00", Sender: transcript.SenderMe, Content: "Meet me at the coffee shop"},
		{Timestamp: "2024-01-15T10:02:00", Sender: transcript.SenderMe, Content: "the one on 5th street"},
	}

	groups := Optimize(messages, Options{})

	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	want := "meet me at the coffee shop the one on 5th street"
	if groups[0].Content != want {
		t.Errorf("content = %q, want %q", groups[0].Content, want)
	}
}

func TestOptimizeUnparseableTimestampStartsNewGroup(t *testing.T) {
	messages := []transcript.Message{
		{Timestamp: "2024-01-15T10:00:00", Sender: transcript.SenderMe, Content: "first message here"},
		{Timestamp: "garbled timestamp", Sender: transcript.SenderMe, Content: "second message here"},
	}

	groups := Optimize(messages, Options{})

	if len(groups) != 2 {
		t.Fatalf("expected 2 groups (fail-safe split), got %d", len(groups))
	}
}

func TestOptimizeFiltersTinyGroups(t *testing.T) {
	messages := []transcript.Message{
		{Timestamp: "2024-01-15T10:00:00", Sender: transcript.SenderMe, Content: "!!!"},
		{Timestamp: "2024-01-15T11:00:00", Sender: transcript.SenderMe, Content: "a real message"},
	}

	groups := Optimize(messages, Options{})

	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d: %+v", len(groups), groups)
	}
	if groups[0].Content != "a real message" {
		t.Errorf("content = %q", groups[0].Content)
	}
}

func TestOptimizeCustomWindow(t *testing.T) {
	messages := []transcript.Message{
		{Timestamp: "2024-01-15T10:00:00", Sender: transcript.SenderMe, Content: "first message here"},
		{Timestamp: "2024-01-15T10:02:00", Sender: transcript.SenderMe, Content: "second message here"},
	}

	groups := Optimize(messages, Options{Window: time.Minute})
	if len(groups) != 2 {
		t.Fatalf("1-minute window: expected 2 groups, got %d", len(groups))
	}
}

func TestIsSimilar(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"meet at noon", "meet at noon!", true},
		{"meet", "meet at the coffee shop on 5th", false},
		{"totally different", "something else entirely", false},
	}

	for _, tt := range tests {
		if got := isSimilar(tt.a, tt.b, 0.8); got != tt.want {
			t.Errorf("isSimilar(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
