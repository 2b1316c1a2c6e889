// Package transcript parses exported message transcripts into structured
// message records.
//
// A transcript is a plain-text file of timestamp-delimited blocks. Each block
// opens with a timestamp line, followed by a sender line and one or more
// content lines. Line roles are decided by a LineClassifier so that other
// export formats can plug in their own heuristics without touching the
// scanning loop.
package transcript

// Sender identifies which side of the conversation produced a message.
type Sender string

const (
	SenderMe      Sender = "me"
	SenderContact Sender = "contact"
	SenderUnknown Sender = "unknown"
)

// Message is one parsed message block.
type Message struct {
	Timestamp string   `json:"timestamp"` // ISO-8601 when parseable, raw text otherwise
	Sender    Sender   `json:"sender"`
	Content   string   `json:"content"`
	Metadata  []string `json:"metadata,omitempty"` // receipt/delivery annotations, in line order
}

// LineKind is the role a classifier assigns to a transcript line.
type LineKind int

const (
	// LineContent is ordinary message text.
	LineContent LineKind = iota
	// LineTimestamp opens a new message block. Value carries the timestamp.
	LineTimestamp
	// LineSender names the current block's sender. Value carries the sender.
	LineSender
	// LineReceipt is a delivery/read annotation. Value carries the line;
	// it lands in Message.Metadata, never in Content.
	LineReceipt
)

// ClassifiedLine is a classifier's verdict on a single line.
type ClassifiedLine struct {
	Kind   LineKind
	Value  string // timestamp text, sender, or receipt line per Kind
	Sender Sender // set for LineSender
}

// LineClassifier decides the role of each transcript line.
type LineClassifier interface {
	Classify(line string) ClassifiedLine
}
