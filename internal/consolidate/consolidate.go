// Package consolidate merges a contact's transcripts from all of their
// phone numbers into a single timeline and derives conversation metadata.
package consolidate

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hurttlocker/msgvault/internal/transcript"
)

// Result is a contact's merged timeline plus per-number message counts.
type Result struct {
	Messages   []transcript.Message
	PhoneUsage map[string]int
}

// Consolidator merges per-number transcript files from an export directory.
type Consolidator struct {
	Dir    string
	Parser *transcript.Parser
}

func (c *Consolidator) parser() *transcript.Parser {
	if c.Parser != nil {
		return c.Parser
	}
	return &transcript.Parser{}
}

// Consolidate reads every number's transcript and merges them into one
// timeline sorted by timestamp string. Valid ISO timestamps sort
// chronologically; unparsed raw timestamps sort by raw value. Numbers
// with no transcript on disk contribute nothing.
func (c *Consolidator) Consolidate(phoneNumbers []string) Result {
	result := Result{PhoneUsage: make(map[string]int)}

	for _, number := range phoneNumbers {
		candidates := []string{
			number + ".txt",
			strings.ReplaceAll(number, "+", "") + ".txt",
		}

		for _, name := range candidates {
			path := filepath.Join(c.Dir, name)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			messages, err := c.parser().ParseFile(path)
			if err != nil {
				continue
			}
			result.Messages = append(result.Messages, messages...)
			result.PhoneUsage[number] = len(messages)
			break
		}
	}

	sort.SliceStable(result.Messages, func(i, j int) bool {
		return result.Messages[i].Timestamp < result.Messages[j].Timestamp
	})

	return result
}
