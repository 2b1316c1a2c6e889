package optimize

import (
	"regexp"
	"strings"
)

// emojiReplacement maps a literal emoji to a short text tag. Ordered so
// multi-rune sequences match before their base emoji.
type emojiReplacement struct {
	emoji string
	tag   string
}

var emojiReplacements = []emojiReplacement{
	{"😂", "(laughing)"},
	{"🤣", "(laughing)"},
	{"❤️", "(heart)"},
	{"❤", "(heart)"},
	{"😍", "(heart eyes)"},
	{"👍", "(thumbs up)"},
	{"👎", "(thumbs down)"},
	{"🔥", "(fire)"},
	{"👏", "(clapping)"},
	{"🙏", "(praying)"},
	{"😢", "(crying)"},
	{"🙂", ""},
	{"😉", ""},
	{"😀", ""},
	{"😁", ""},
	{"😘", "(kiss)"},
	{"🤔", "(thinking)"},
	{"🙄", "(eye roll)"},
	{"🤷‍♂️", "(shrug)"},
	{"🤷‍♀️", "(shrug)"},
	{"🤷", "(shrug)"},
	{"🤩", "(amazed)"},
	{"🥳", "(party)"},
}

// Anything emoji-shaped that survives the replacement table.
var unknownEmojiRE = regexp.MustCompile(`[\x{1F300}-\x{1F5FF}\x{1F600}-\x{1F64F}\x{1F680}-\x{1F6FF}\x{1F700}-\x{1FAFF}\x{2600}-\x{27BF}\x{2B00}-\x{2BFF}\x{FE0F}\x{200D}]`)

var emojiTagRunRE = regexp.MustCompile(`\(emoji\)(\s*\(emoji\))+`)

// processEmojis converts emojis to short text tags, collapses consecutive
// duplicates, and drops messages that were nothing but emoji.
func processEmojis(content string) string {
	if content == "" {
		return content
	}

	// Collapse runs of the same emoji before translating so
	// "😂😂😂" reads as a single "(laughing)".
	for _, r := range emojiReplacements {
		doubled := r.emoji + r.emoji
		for strings.Contains(content, doubled) {
			content = strings.ReplaceAll(content, doubled, r.emoji)
		}
	}

	for _, r := range emojiReplacements {
		content = strings.ReplaceAll(content, r.emoji, r.tag)
	}

	// Remaining emoji become a generic tag; runs collapse to one.
	content = unknownEmojiRE.ReplaceAllString(content, "(emoji)")
	content = emojiTagRunRE.ReplaceAllString(content, "(emoji)")

	if strings.TrimSpace(content) == "(emoji)" {
		return ""
	}

	return strings.Join(strings.Fields(content), " ")
}
