package transcript

import (
	"os"
	"regexp"
	"strings"
	"time"
)

// Layouts matching the exporter's two timestamp shapes.
var timestampLayouts = []string{
	"Jan 2, 2006 3:04:05 PM",
	"1/2/06 3:04:05 PM",
	"1/2/2006 3:04:05 PM",
}

var innerSpaceRE = regexp.MustCompile(`\s+`)

// ParseTimestamp parses an exporter timestamp string.
func ParseTimestamp(raw string) (time.Time, error) {
	normalized := innerSpaceRE.ReplaceAllString(strings.TrimSpace(raw), " ")
	var firstErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, normalized)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// toISO converts an exporter timestamp to ISO-8601. Unparseable timestamps
// are passed through unchanged so no message is lost to a format drift.
func toISO(raw string) string {
	t, err := ParseTimestamp(raw)
	if err != nil {
		return raw
	}
	return t.Format("2006-01-02T15:04:05")
}

// Parser scans transcript text into messages.
// The zero value uses the exporter's TxtClassifier.
type Parser struct {
	Classifier LineClassifier
}

func (p *Parser) classifier() LineClassifier {
	if p.Classifier != nil {
		return p.Classifier
	}
	return TxtClassifier{}
}

// ParseFile parses a transcript file. Malformed content yields an empty
// slice, never an error; only the read itself can fail.
func (p *Parser) ParseFile(path string) ([]Message, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return p.Parse(string(data)), nil
}

// Parse scans transcript text into messages. Blocks that carry only
// receipts or a sender line produce no message.
func (p *Parser) Parse(content string) []Message {
	classifier := p.classifier()

	var messages []Message
	var timestamp string
	sender := SenderUnknown
	var parts []string
	var meta []string
	inBlock := false

	flush := func() {
		if !inBlock || len(parts) == 0 {
			return
		}
		messages = append(messages, Message{
			Timestamp: toISO(timestamp),
			Sender:    sender,
			Content:   strings.Join(parts, " "),
			Metadata:  meta,
		})
	}

	for _, line := range strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		cl := classifier.Classify(line)
		switch cl.Kind {
		case LineTimestamp:
			flush()
			timestamp = cl.Value
			sender = SenderUnknown
			parts = parts[:0]
			meta = nil
			inBlock = true
		case LineSender:
			sender = cl.Sender
		case LineReceipt:
			if inBlock {
				meta = append(meta, cl.Value)
			}
		case LineContent:
			if inBlock {
				parts = append(parts, cl.Value)
			}
		}
	}
	flush()

	return messages
}
