// Package optimize condenses a raw message timeline for language-model
// consumption: content cleaning, emoji translation, consecutive-message
// grouping, and near-duplicate suppression.
package optimize

import (
	"strings"
	"time"

	"github.com/hurttlocker/msgvault/internal/transcript"
)

// Group is a run of consecutive same-sender messages merged into one entry.
// Timestamp is the first message's timestamp. Metadata stays empty during
// grouping; the recent-interactions window carries receipt annotations
// through it.
type Group struct {
	Timestamp string            `json:"timestamp"`
	Sender    transcript.Sender `json:"sender"`
	Content   string            `json:"content"`
	Metadata  []string          `json:"metadata,omitempty"`
}

// Options tunes grouping behavior.
type Options struct {
	Window              time.Duration // max gap from the group's first message
	SimilarityThreshold float64       // containment length ratio above which content is a near-duplicate
}

const (
	DefaultWindow              = 10 * time.Minute
	DefaultSimilarityThreshold = 0.8
)

func (o Options) withDefaults() Options {
	if o.Window <= 0 {
		o.Window = DefaultWindow
	}
	if o.SimilarityThreshold <= 0 {
		o.SimilarityThreshold = DefaultSimilarityThreshold
	}
	return o
}

// startsNewGroup reports whether curr is too far from the group's first
// timestamp. Unparseable timestamps start a new group rather than risk
// merging unrelated messages.
func startsNewGroup(groupStart, curr string, window time.Duration) bool {
	prev, err := parseAnyTimestamp(groupStart)
	if err != nil {
		return true
	}
	next, err := parseAnyTimestamp(curr)
	if err != nil {
		return true
	}
	return next.Sub(prev) > window
}

// parseAnyTimestamp accepts both the parser's ISO output and raw exporter
// timestamps that failed ISO conversion upstream.
func parseAnyTimestamp(ts string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02T15:04:05", ts); err == nil {
		return t, nil
	}
	return transcript.ParseTimestamp(ts)
}

// isSimilar reports near-duplication: the shorter string is contained in
// the longer and covers more than threshold of its length.
func isSimilar(a, b string, threshold float64) bool {
	shorter, longer := a, b
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(longer) == 0 {
		return false
	}
	return strings.Contains(longer, shorter) &&
		float64(len(shorter))/float64(len(longer)) > threshold
}

// groupMessages cleans each message and merges consecutive same-sender
// messages inside the time window, suppressing near-duplicate additions.
func groupMessages(messages []transcript.Message, opts Options) []Group {
	var groups []Group
	var current *Group

	for _, msg := range messages {
		cleaned := CleanContent(msg.Content)
		if cleaned == "" {
			continue
		}

		if current == nil ||
			current.Sender != msg.Sender ||
			startsNewGroup(current.Timestamp, msg.Timestamp, opts.Window) {
			if current != nil {
				groups = append(groups, *current)
			}
			current = &Group{Timestamp: msg.Timestamp, Sender: msg.Sender, Content: cleaned}
			continue
		}

		existing := strings.ToLower(current.Content)
		addition := strings.ToLower(cleaned)
		if !strings.Contains(existing, addition) &&
			!isSimilar(existing, addition, opts.SimilarityThreshold) {
			current.Content += " " + cleaned
		}
	}

	if current != nil {
		groups = append(groups, *current)
	}

	return groups
}

// Optimize cleans, groups, and filters a message timeline.
// Groups whose merged content is under 3 characters are dropped.
func Optimize(messages []transcript.Message, opts Options) []Group {
	opts = opts.withDefaults()

	grouped := groupMessages(messages, opts)

	filtered := make([]Group, 0, len(grouped))
	for _, g := range grouped {
		if len(strings.TrimSpace(g.Content)) >= 3 {
			filtered = append(filtered, g)
		}
	}
	return filtered
}
