package optimize

import (
	"regexp"
	"strings"
)

// Exporter bookkeeping that leaks into message text.
var systemArtifactREs = []*regexp.Regexp{
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

// Acknowledgment-only messages that carry no conversational signal.
var shortMeaningless = map[string]struct{}{
	"ok": {}, "okay": {}, "k": {}, "kk": {}, "lol": {}, "haha": {},
	"yeah": {}, "yes": {}, "no": {}, "np": {}, "yep": {}, "nope": {},
	"sure": {}, "cool": {}, "nice": {}, "alright": {}, "ty": {}, "thx": {},
	"thanks": {}, "hmm": {}, "mhm": {}, "yup": {}, "nah": {}, "sup": {},
	"hey": {}, "hi": {}, "hello": {}, "bye": {},
}

var (
	ellipsisRunRE = regexp.MustCompile(`[.]{3,}`)
	bangRunRE     = regexp.MustCompile(`[!]{2,}`)
	questionRunRE = regexp.MustCompile(`[?]{2,}`)
)

// CleanContent normalizes one message's text for downstream analysis.
// Returns "" for messages that should be dropped entirely.
func CleanContent(content string) string {
	content = strings.Join(strings.Fields(content), " ")
	if content == "" {
		return ""
	}

	content = processEmojis(content)

	for _, re := range systemArtifactREs {
		content = re.ReplaceAllString(content, "")
	}

	content = strings.Join(strings.Fields(content), " ")

	if _, ok := shortMeaningless[strings.ToLower(content)]; ok {
		return ""
	}
	if len(strings.TrimSpace(content)) <= 2 {
		return ""
	}

	content = ellipsisRunRE.ReplaceAllString(content, "...")
	content = bangRunRE.ReplaceAllString(content, "!")
	content = questionRunRE.ReplaceAllString(content, "?")

	return strings.TrimSpace(content)
}
