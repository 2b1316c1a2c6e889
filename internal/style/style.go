// Package style profiles a user's messaging style from their recent
// interactions so generated replies can match how they actually write.
package style

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/hurttlocker/msgvault/internal/optimize"
	"github.com/hurttlocker/msgvault/internal/transcript"
)

// Profile is the full style analysis for one contact's conversation.
type Profile struct {
	BasicStats         BasicStats `json:"basic_stats"`
	FormattingPatterns Formatting `json:"formatting_patterns"`
	LanguagePatterns   Language   `json:"language_patterns"`
	EmotionalPatterns  Emotional  `json:"emotional_patterns"`
	ResponsePatterns   Response   `json:"response_patterns"`
	TimingPatterns     Timing     `json:"timing_patterns"`
	Examples           []string   `json:"examples"`
	Recommendations    []string   `json:"recommendations"`
}

type BasicStats struct {
	MessageCount    int     `json:"message_count"`
	AverageLength   int     `json:"average_length"`
	AverageWords    float64 `json:"average_words"`
	ShortestMessage int     `json:"shortest_message"`
	LongestMessage  int     `json:"longest_message"`
	TotalCharacters int     `json:"total_characters"`
	TotalWords      int     `json:"total_words"`
}

type Formatting struct {
	Capitalization Capitalization `json:"capitalization"`
	Punctuation    Punctuation    `json:"punctuation"`
	Emojis         Emojis         `json:"emojis"`
	SpecialChars   SpecialChars   `json:"special_chars"`
	Spacing        Spacing        `json:"spacing"`
	Structure      Structure      `json:"structure"`
}

type Capitalization struct {
	StartsCapitalRatio float64 `json:"starts_capital_ratio"`
	UsesAllCaps        bool    `json:"uses_all_caps"`
	AllCapsFrequency   float64 `json:"all_caps_frequency"`
	CapitalStyle       string  `json:"capital_style"`
}

type Punctuation struct {
	Periods                  int     `json:"periods"`
	Exclamations             int     `json:"exclamations"`
	Questions                int     `json:"questions"`
	Commas                   int     `json:"commas"`
	Ellipsis                 int     `json:"ellipsis"`
	EndsWithPunctuationRatio float64 `json:"ends_with_punctuation_ratio"`
	PunctuationStyle         string  `json:"punctuation_style"`
	UsesEllipsis             bool    `json:"uses_ellipsis"`
}

type Emojis struct {
	UsesEmojis       bool        `json:"uses_emojis"`
	EmojiFrequency   float64     `json:"emoji_frequency"`
	TotalEmojis      int         `json:"total_emojis"`
	UniqueEmojis     int         `json:"unique_emojis"`
	MostCommonEmojis []Frequency `json:"most_common_emojis"`
	EmojiStyle       string      `json:"emoji_style"`
}

type SpecialChars struct {
	UsesMultiplePunctuation bool `json:"uses_multiple_punctuation"`
	UsesRepeatedLetters     bool `json:"uses_repeated_letters"`
	UsesAsterisks           bool `json:"uses_asterisks"`
	UsesParentheses         bool `json:"uses_parentheses"`
}

type Spacing struct {
	UsesMultipleSpaces      bool    `json:"uses_multiple_spaces"`
	UsesLineBreaks          bool    `json:"uses_line_breaks"`
	AverageSpacesPerMessage float64 `json:"average_spaces_per_message"`
}

type Structure struct {
	SingleWordRatio      float64 `json:"single_word_ratio"`
	ShortMessageRatio    float64 `json:"short_message_ratio"`
	LongMessageRatio     float64 `json:"long_message_ratio"`
	PrefersShortMessages bool    `json:"prefers_short_messages"`
}

type Language struct {
	TotalWords            int         `json:"total_words"`
	UniqueWords           int         `json:"unique_words"`
	VocabularyRichness    float64     `json:"vocabulary_richness"`
	UsesAbbreviations     bool        `json:"uses_abbreviations"`
	AbbreviationFrequency float64     `json:"abbreviation_frequency"`
	UsesSlang             bool        `json:"uses_slang"`
	SlangFrequency        float64     `json:"slang_frequency"`
	MostCommonWords       []Frequency `json:"most_common_words"`
}

type Emotional struct {
	PositiveIndicators int     `json:"positive_indicators"`
	NegativeIndicators int     `json:"negative_indicators"`
	EnthusiasmLevel    float64 `json:"enthusiasm_level"`
	EmotionalStyle     string  `json:"emotional_style"`
}

type Response struct {
	InitiationRatio   float64 `json:"initiation_ratio"`
	PrefersResponding bool    `json:"prefers_responding"`
	ConversationStyle string  `json:"conversation_style"`
}

// Timing is a placeholder block until group timestamps carry enough
// signal for hour-of-day analysis.
type Timing struct {
	HasTimingData    bool   `json:"has_timing_data"`
	MessageFrequency string `json:"message_frequency"`
}

// Frequency is one value with its occurrence count.
type Frequency struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

var (
	allCapsRE = regexp.MustCompile(`\b[A-Z]{2,}\b`)
	wordRE    = regexp.MustCompile(`\b\w+\b`)
	multiRE   = regexp.MustCompile(`[!?]{2,}`)
	emojiRE   = regexp.MustCompile(`[\x{1F600}-\x{1F64F}\x{1F300}-\x{1F5FF}\x{1F680}-\x{1F6FF}\x{1F1E0}-\x{1F1FF}\x{2600}-\x{26FF}\x{2700}-\x{27BF}]`)

	abbreviationRE = regexp.MustCompile(`\b(lol|omg|btw|tbh|nvm|idk|imo|fyi|asap|ttyl|brb|wtf|smh|irl|dm|rn|af|fr|ngl)\b`)
	slangRE        = regexp.MustCompile(`\b(gonna|wanna|gotta|kinda|sorta|yeah|yep|nah|sup|hey|yo|dude|bro|sis|bestie|lowkey|highkey|deadass|facts|bet)\b`)
)

var positiveWords = []string{"good", "great", "awesome", "cool", "nice", "love", "like", "happy", "fun", "yes", "yeah"}
var negativeWords = []string{"bad", "hate", "no", "nah", "sucks", "terrible", "awful", "annoying", "sad", "mad"}

// Analyze profiles the user's side of a recent-interactions window.
// With no user messages it returns a defined empty profile.
func Analyze(messages []optimize.Group) Profile {
	var userMessages []string
	for _, m := range messages {
		if m.Sender == transcript.SenderMe {
			userMessages = append(userMessages, m.Content)
		}
	}

	if len(userMessages) == 0 {
		return Profile{
			Examples:        []string{},
			Recommendations: []string{},
			TimingPatterns:  Timing{MessageFrequency: "unknown"},
		}
	}

	p := Profile{
		BasicStats: analyzeBasicStats(userMessages),
		FormattingPatterns: Formatting{
			Capitalization: analyzeCapitalization(userMessages),
			Punctuation:    analyzePunctuation(userMessages),
			Emojis:         analyzeEmojis(userMessages),
			SpecialChars:   analyzeSpecialChars(userMessages),
			Spacing:        analyzeSpacing(userMessages),
			Structure:      analyzeStructure(userMessages),
		},
		LanguagePatterns:  analyzeLanguage(userMessages),
		EmotionalPatterns: analyzeEmotional(userMessages),
		ResponsePatterns:  analyzeResponses(messages),
		TimingPatterns:    Timing{MessageFrequency: "unknown"},
		Examples:          representativeExamples(userMessages),
	}
	p.Recommendations = recommendations(p)
	return p
}

func analyzeBasicStats(msgs []string) BasicStats {
	stats := BasicStats{MessageCount: len(msgs)}
	shortest, longest := len(msgs[0]), len(msgs[0])
	for _, msg := range msgs {
		stats.TotalCharacters += len(msg)
		stats.TotalWords += len(strings.Fields(msg))
		if len(msg) < shortest {
			shortest = len(msg)
		}
		if len(msg) > longest {
			longest = len(msg)
		}
	}
	stats.ShortestMessage = shortest
	stats.LongestMessage = longest
	stats.AverageLength = int(math.Round(float64(stats.TotalCharacters) / float64(len(msgs))))
	stats.AverageWords = round1(float64(stats.TotalWords) / float64(len(msgs)))
	return stats
}

func analyzeCapitalization(msgs []string) Capitalization {
	startsCapital, allCaps := 0, 0
	for _, msg := range msgs {
		if msg != "" && msg[0] >= 'A' && msg[0] <= 'Z' {
			startsCapital++
		}
		if allCapsRE.MatchString(msg) {
			allCaps++
		}
	}
	ratio := float64(startsCapital) / float64(len(msgs))
	return Capitalization{
		StartsCapitalRatio: round2(ratio),
		UsesAllCaps:        allCaps > 0,
		AllCapsFrequency:   round2(float64(allCaps) / float64(len(msgs))),
		CapitalStyle:       capitalStyle(ratio),
	}
}

func capitalStyle(ratio float64) string {
	switch {
	case ratio > 0.8:
		return "consistent"
	case ratio > 0.5:
		return "frequent"
	case ratio > 0.2:
		return "occasional"
	default:
		return "rare"
	}
}

func analyzePunctuation(msgs []string) Punctuation {
	p := Punctuation{}
	endsWithPunct := 0
	for _, msg := range msgs {
		p.Periods += strings.Count(msg, ".")
		p.Exclamations += strings.Count(msg, "!")
		p.Questions += strings.Count(msg, "?")
		p.Commas += strings.Count(msg, ",")
		if strings.Contains(msg, "...") {
			p.Ellipsis++
		}
		if msg != "" && strings.ContainsRune(".!?", rune(msg[len(msg)-1])) {
			endsWithPunct++
		}
	}
	p.EndsWithPunctuationRatio = round2(float64(endsWithPunct) / float64(len(msgs)))
	p.PunctuationStyle = punctStyle(p)
	p.UsesEllipsis = p.Ellipsis > 0
	return p
}

func punctStyle(p Punctuation) string {
	total := p.Periods + p.Exclamations + p.Questions + p.Commas + p.Ellipsis
	switch {
	case total == 0:
		return "minimal"
	case p.Exclamations > p.Periods:
		return "expressive"
	case p.Periods > p.Exclamations:
		return "formal"
	default:
		return "balanced"
	}
}

func analyzeEmojis(msgs []string) Emojis {
	withEmojis := 0
	counts := make(map[string]int)
	var order []string
	total := 0
	for _, msg := range msgs {
		found := emojiRE.FindAllString(msg, -1)
		if len(found) > 0 {
			withEmojis++
		}
		for _, e := range found {
			if counts[e] == 0 {
				order = append(order, e)
			}
			counts[e]++
			total++
		}
	}
	ratio := float64(withEmojis) / float64(len(msgs))
	return Emojis{
		UsesEmojis:       withEmojis > 0,
		EmojiFrequency:   round2(ratio),
		TotalEmojis:      total,
		UniqueEmojis:     len(counts),
		MostCommonEmojis: mostCommon(counts, order, 5),
		EmojiStyle:       emojiStyle(ratio),
	}
}

func emojiStyle(ratio float64) string {
	switch {
	case ratio > 0.5:
		return "frequent"
	case ratio > 0.2:
		return "moderate"
	case ratio > 0:
		return "occasional"
	default:
		return "none"
	}
}

func analyzeSpecialChars(msgs []string) SpecialChars {
	sc := SpecialChars{}
	for _, msg := range msgs {
		if multiRE.MatchString(msg) {
			sc.UsesMultiplePunctuation = true
		}
		if hasRepeatedLetters(msg) {
			sc.UsesRepeatedLetters = true
		}
		if strings.Contains(msg, "*") {
			sc.UsesAsterisks = true
		}
		if strings.Contains(msg, "(") && strings.Contains(msg, ")") {
			sc.UsesParentheses = true
		}
	}
	return sc
}

// hasRepeatedLetters reports a letter repeated three or more times in a
// row ("soooo", "hmmm").
func hasRepeatedLetters(s string) bool {
	run := 0
	var prev rune
	for _, r := range s {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if isLetter && r == prev {
			run++
			if run >= 3 {
				return true
			}
		} else if isLetter {
			prev = r
			run = 1
		} else {
			prev = 0
			run = 0
		}
	}
	return false
}

func analyzeSpacing(msgs []string) Spacing {
	s := Spacing{}
	spaces := 0
	for _, msg := range msgs {
		if strings.Contains(msg, "  ") {
			s.UsesMultipleSpaces = true
		}
		if strings.Contains(msg, "\n") {
			s.UsesLineBreaks = true
		}
		spaces += strings.Count(msg, " ")
	}
	s.AverageSpacesPerMessage = round1(float64(spaces) / float64(len(msgs)))
	return s
}

func analyzeStructure(msgs []string) Structure {
	singleWord, short, long := 0, 0, 0
	for _, msg := range msgs {
		words := len(strings.Fields(msg))
		if words == 1 {
			singleWord++
		}
		if words <= 3 {
			short++
		}
		if words > 10 {
			long++
		}
	}
	n := float64(len(msgs))
	return Structure{
		SingleWordRatio:      round2(float64(singleWord) / n),
		ShortMessageRatio:    round2(float64(short) / n),
		LongMessageRatio:     round2(float64(long) / n),
		PrefersShortMessages: short > long,
	}
}

func analyzeLanguage(msgs []string) Language {
	allText := strings.ToLower(strings.Join(msgs, " "))
	words := wordRE.FindAllString(allText, -1)

	counts := make(map[string]int)
	var order []string
	for _, w := range words {
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}

	abbreviations := abbreviationRE.FindAllString(allText, -1)
	slang := slangRE.FindAllString(allText, -1)

	lang := Language{
		TotalWords:        len(words),
		UniqueWords:       len(counts),
		UsesAbbreviations: len(abbreviations) > 0,
		UsesSlang:         len(slang) > 0,
		MostCommonWords:   mostCommon(counts, order, 10),
	}
	if len(words) > 0 {
		lang.VocabularyRichness = round2(float64(len(counts)) / float64(len(words)))
		lang.AbbreviationFrequency = round3(float64(len(abbreviations)) / float64(len(words)))
		lang.SlangFrequency = round3(float64(len(slang)) / float64(len(words)))
	}
	return lang
}

func analyzeEmotional(msgs []string) Emotional {
	allText := strings.ToLower(strings.Join(msgs, " "))

	positive, negative := 0, 0
	for _, w := range positiveWords {
		positive += strings.Count(allText, w)
	}
	for _, w := range negativeWords {
		negative += strings.Count(allText, w)
	}

	enthusiasm := 0
	for _, msg := range msgs {
		lower := strings.ToLower(msg)
		if strings.Contains(msg, "!") || strings.Contains(lower, "excited") || strings.Contains(lower, "amazing") {
			enthusiasm++
		}
	}

	return Emotional{
		PositiveIndicators: positive,
		NegativeIndicators: negative,
		EnthusiasmLevel:    round2(float64(enthusiasm) / float64(len(msgs))),
		EmotionalStyle:     emotionalStyle(positive, negative, enthusiasm, len(msgs)),
	}
}

func emotionalStyle(positive, negative, enthusiasm, messageCount int) string {
	switch {
	case float64(enthusiasm) > float64(messageCount)*0.3:
		return "enthusiastic"
	case positive > negative*2:
		return "positive"
	case negative > positive*2:
		return "direct"
	default:
		return "balanced"
	}
}

func analyzeResponses(all []optimize.Group) Response {
	if len(all) == 0 {
		return Response{}
	}

	initiations := 0
	userCount := 0
	for i, msg := range all {
		if msg.Sender != transcript.SenderMe {
			continue
		}
		userCount++
		if i == 0 || all[i-1].Sender == transcript.SenderMe {
			continue
		}
		// A message after a gap with no contact reply counts as an
		// initiation; following the contact counts as a response.
		if all[i-1].Sender != transcript.SenderContact {
			initiations++
		}
	}

	r := Response{}
	if userCount > 0 {
		r.InitiationRatio = round2(float64(initiations) / float64(userCount))
	}
	r.PrefersResponding = float64(initiations) < float64(userCount)/2
	if float64(initiations) > float64(userCount)/2 {
		r.ConversationStyle = "initiator"
	} else {
		r.ConversationStyle = "responder"
	}
	return r
}

// representativeExamples picks short/medium/long percentile samples plus
// the two most recent messages, deduplicated, capped at five.
func representativeExamples(msgs []string) []string {
	if len(msgs) <= 5 {
		return append([]string(nil), msgs...)
	}

	byLength := append([]string(nil), msgs...)
	sort.SliceStable(byLength, func(i, j int) bool { return len(byLength[i]) < len(byLength[j]) })

	candidates := []string{
		byLength[len(byLength)/4],
		byLength[len(byLength)/2],
		byLength[3*len(byLength)/4],
	}
	candidates = append(candidates, msgs[len(msgs)-2:]...)

	seen := make(map[string]struct{})
	var examples []string
	for _, c := range candidates {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		examples = append(examples, c)
		if len(examples) == 5 {
			break
		}
	}
	return examples
}

func recommendations(p Profile) []string {
	var recs []string

	if p.BasicStats.AverageLength < 20 {
		recs = append(recs, "Keep messages short and concise")
	} else if p.BasicStats.AverageLength > 100 {
		recs = append(recs, "User tends to write longer, more detailed messages")
	}

	switch p.FormattingPatterns.Capitalization.CapitalStyle {
	case "rare":
		recs = append(recs, "Use minimal capitalization, even at sentence starts")
	case "consistent":
		recs = append(recs, "Always capitalize sentence starts properly")
	}

	switch p.FormattingPatterns.Punctuation.PunctuationStyle {
	case "minimal":
		recs = append(recs, "Avoid ending punctuation on most messages")
	case "expressive":
		recs = append(recs, "Use exclamation points for enthusiasm")
	}

	switch p.FormattingPatterns.Emojis.EmojiStyle {
	case "frequent":
		recs = append(recs, "Include emojis regularly to match user's style")
	case "none":
		recs = append(recs, "Avoid using emojis")
	}

	if p.LanguagePatterns.UsesAbbreviations {
		recs = append(recs, "Use common text abbreviations like 'lol', 'btw', etc.")
	}
	if p.LanguagePatterns.UsesSlang {
		recs = append(recs, "Include casual slang and informal language")
	}

	return recs
}

// mostCommon returns the top n values by count. Ties keep first-seen
// order so repeated runs produce identical output.
func mostCommon(counts map[string]int, order []string, n int) []Frequency {
	sorted := append([]string(nil), order...)
	sort.SliceStable(sorted, func(i, j int) bool { return counts[sorted[i]] > counts[sorted[j]] })

	if len(sorted) > n {
		sorted = sorted[:n]
	}
	out := make([]Frequency, len(sorted))
	for i, v := range sorted {
		out[i] = Frequency{Value: v, Count: counts[v]}
	}
	return out
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
