package style

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hurttlocker/msgvault/internal/optimize"
	"github.com/hurttlocker/msgvault/internal/recent"
	"github.com/hurttlocker/msgvault/internal/transcript"
)

func userMsg(content string) optimize.Group {
	return optimize.Group{Sender: transcript.SenderMe, Content: content}
}

func contactMsg(content string) optimize.Group {
	return optimize.Group{Sender: transcript.SenderContact, Content: content}
}

func TestAnalyzeEmptyProfile(t *testing.T) {
	p := Analyze([]optimize.Group{contactMsg("only the contact talked")})

	if p.BasicStats.MessageCount != 0 || p.BasicStats.AverageLength != 0 {
		t.Errorf("empty profile stats = %+v", p.BasicStats)
	}
	if p.Examples == nil || len(p.Examples) != 0 {
		t.Errorf("empty profile examples = %v", p.Examples)
	}
	if p.Recommendations == nil || len(p.Recommendations) != 0 {
		t.Errorf("empty profile recommendations = %v", p.Recommendations)
	}
}

func TestAnalyzeBasicStats(t *testing.T) {
	p := Analyze([]optimize.Group{
		userMsg("four word message here"),
		userMsg("ok"),
	})

	if p.BasicStats.MessageCount != 2 {
		t.Errorf("message count = %d", p.BasicStats.MessageCount)
	}
	if p.BasicStats.AverageLength != 12 {
		t.Errorf("average length = %d, want 12", p.BasicStats.AverageLength)
	}
	if p.BasicStats.AverageWords != 2.5 {
		t.Errorf("average words = %v, want 2.5", p.BasicStats.AverageWords)
	}
	if p.BasicStats.ShortestMessage != 2 || p.BasicStats.LongestMessage != 22 {
		t.Errorf("shortest/longest = %d/%d", p.BasicStats.ShortestMessage, p.BasicStats.LongestMessage)
	}
}

func TestCapitalStyleThresholds(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{0.9, "consistent"},
		{0.6, "frequent"},
		{0.3, "occasional"},
		{0.1, "rare"},
	}
	for _, tt := range tests {
		if got := capitalStyle(tt.ratio); got != tt.want {
			t.Errorf("capitalStyle(%v) = %q, want %q", tt.ratio, got, tt.want)
		}
	}
}

func TestPunctuationStyle(t *testing.T) {
	expressive := Analyze([]optimize.Group{userMsg("this is great!"), userMsg("so fun!")})
	if got := expressive.FormattingPatterns.Punctuation.PunctuationStyle; got != "expressive" {
		t.Errorf("punctuation style = %q, want expressive", got)
	}

	formal := Analyze([]optimize.Group{userMsg("Understood."), userMsg("I will be there.")})
	if got := formal.FormattingPatterns.Punctuation.PunctuationStyle; got != "formal" {
		t.Errorf("punctuation style = %q, want formal", got)
	}

	minimal := Analyze([]optimize.Group{userMsg("sounds good"), userMsg("see you there")})
	if got := minimal.FormattingPatterns.Punctuation.PunctuationStyle; got != "minimal" {
		t.Errorf("punctuation style = %q, want minimal", got)
	}
}

func TestEmojiAnalysis(t *testing.T) {
	p := Analyze([]optimize.Group{
		userMsg("love this 😀😀"),
		userMsg("no emoji here"),
	})

	e := p.FormattingPatterns.Emojis
	if !e.UsesEmojis {
		t.Error("emoji usage not detected")
	}
	if e.TotalEmojis != 2 || e.UniqueEmojis != 1 {
		t.Errorf("total/unique = %d/%d", e.TotalEmojis, e.UniqueEmojis)
	}
	if e.EmojiFrequency != 0.5 {
		t.Errorf("frequency = %v", e.EmojiFrequency)
	}
	if e.EmojiStyle != "moderate" {
		t.Errorf("style = %q", e.EmojiStyle)
	}
	if len(e.MostCommonEmojis) != 1 || e.MostCommonEmojis[0].Count != 2 {
		t.Errorf("most common = %v", e.MostCommonEmojis)
	}
}

func TestSpecialAndSpacing(t *testing.T) {
	p := Analyze([]optimize.Group{
		userMsg("whaaat is happening??"),
		userMsg("fine  (I guess)"),
	})

	sc := p.FormattingPatterns.SpecialChars
	if !sc.UsesMultiplePunctuation || !sc.UsesRepeatedLetters || !sc.UsesParentheses {
		t.Errorf("special chars = %+v", sc)
	}
	if sc.UsesAsterisks {
		t.Error("asterisks falsely detected")
	}
	if !p.FormattingPatterns.Spacing.UsesMultipleSpaces {
		t.Error("multiple spaces not detected")
	}
}

func TestLanguagePatterns(t *testing.T) {
	p := Analyze([]optimize.Group{
		userMsg("lol gonna be late btw"),
		userMsg("gonna grab food first"),
	})

	lang := p.LanguagePatterns
	if !lang.UsesAbbreviations || !lang.UsesSlang {
		t.Errorf("language flags = %+v", lang)
	}
	if lang.TotalWords != 9 {
		t.Errorf("total words = %d, want 9", lang.TotalWords)
	}
	if len(lang.MostCommonWords) == 0 || lang.MostCommonWords[0].Value != "gonna" {
		t.Errorf("most common words = %v", lang.MostCommonWords)
	}
}

func TestEmotionalStyle(t *testing.T) {
	enthusiastic := Analyze([]optimize.Group{
		userMsg("this is amazing!"),
		userMsg("so excited!"),
	})
	if got := enthusiastic.EmotionalPatterns.EmotionalStyle; got != "enthusiastic" {
		t.Errorf("emotional style = %q, want enthusiastic", got)
	}

	positive := Analyze([]optimize.Group{
		userMsg("that was a good time, great food"),
		userMsg("love that place"),
	})
	if got := positive.EmotionalPatterns.EmotionalStyle; got != "positive" {
		t.Errorf("emotional style = %q, want positive", got)
	}
}

func TestResponsePatterns(t *testing.T) {
	p := Analyze([]optimize.Group{
		contactMsg("hey, how was the trip?"),
		userMsg("really good, long flight though"),
		contactMsg("glad you're back"),
		userMsg("me too"),
	})

	r := p.ResponsePatterns
	if r.ConversationStyle != "responder" {
		t.Errorf("conversation style = %q", r.ConversationStyle)
	}
	if !r.PrefersResponding {
		t.Error("prefers responding = false")
	}
	if r.InitiationRatio != 0 {
		t.Errorf("initiation ratio = %v", r.InitiationRatio)
	}
}

func TestRepresentativeExamples(t *testing.T) {
	few := []string{"one", "two here", "three of them"}
	if got := representativeExamples(few); len(got) != 3 {
		t.Errorf("examples for small input = %v", got)
	}

	var many []optimize.Group
	contents := []string{
		"a", "bb cc", "longer message here", "even longer message right here",
		"the longest message of the entire set by far", "mid size one",
		"final note", "closing message",
	}
	for _, c := range contents {
		many = append(many, userMsg(c))
	}

	p := Analyze(many)
	if len(p.Examples) == 0 || len(p.Examples) > 5 {
		t.Errorf("examples = %v", p.Examples)
	}
	// The two most recent messages are always candidates.
	found := false
	for _, e := range p.Examples {
		if e == "closing message" {
			found = true
		}
	}
	if !found {
		t.Errorf("most recent message missing from examples: %v", p.Examples)
	}

	seen := make(map[string]bool)
	for _, e := range p.Examples {
		if seen[e] {
			t.Errorf("duplicate example %q", e)
		}
		seen[e] = true
	}
}

func TestRecommendations(t *testing.T) {
	p := Analyze([]optimize.Group{
		userMsg("ok cool"),
		userMsg("yeah sure"),
	})

	// Short lowercase unpunctuated messages should trigger the concise,
	// lowercase, and no-punctuation recommendations.
	wantSubstrings := []string{"short and concise", "minimal capitalization", "ending punctuation"}
	for _, want := range wantSubstrings {
		found := false
		for _, rec := range p.Recommendations {
			if strings.Contains(rec, want) {
				found = true
			}
		}
		if !found {
			t.Errorf("missing recommendation containing %q in %v", want, p.Recommendations)
		}
	}
}

func TestAnalyzeContactFromFile(t *testing.T) {
	dir := t.TempDir()
	contactDir := filepath.Join(dir, "Jane Smith")
	if err := os.MkdirAll(contactDir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	payload := map[string]interface{}{
		"contact_name": "Jane Smith",
		"recent_messages": []map[string]string{
			{"timestamp": "2024-01-15T10:00:00", "sender": "me", "content": "running late, be there soon!"},
			{"timestamp": "2024-01-15T10:01:00", "sender": "contact", "content": "no worries"},
		},
	}
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(filepath.Join(contactDir, recent.RecentInteractionsFilename), data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	p, err := AnalyzeContact(dir, "Jane Smith")
	if err != nil {
		t.Fatalf("AnalyzeContact: %v", err)
	}
	if p.BasicStats.MessageCount != 1 {
		t.Errorf("message count = %d", p.BasicStats.MessageCount)
	}

	if _, err := AnalyzeContact(dir, "Nobody"); err == nil {
		t.Error("expected error for missing contact")
	}
}
