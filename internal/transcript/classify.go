package transcript

import (
	"regexp"
	"strings"
)

// Timestamp line shapes produced by the exporter. Trailing text on a
// timestamp line ("(Read by ...)" annotations) is discarded.
var timestampPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(\w{3}\s+\d{1,2},\s+\d{4}\s+\d{1,2}:\d{2}:\d{2}\s+[AP]M)`),
	regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{2,4}\s+\d{1,2}:\d{2}:\d{2}\s+[AP]M)`),
}

// TxtClassifier classifies lines from the exporter's plain-text format:
// timestamp lines open blocks, a literal "Me" line marks the user's side,
// lines starting with "+" or "1" are the contact's number, and
// "(Read by them"/"(Delivered" lines are receipts.
type TxtClassifier struct{}

// Classify implements LineClassifier.
func (TxtClassifier) Classify(line string) ClassifiedLine {
	for _, re := range timestampPatterns {
		if m := re.FindStringSubmatch(line); m != nil {
			return ClassifiedLine{Kind: LineTimestamp, Value: m[1]}
		}
	}

	if line == "Me" || line == "me" {
		return ClassifiedLine{Kind: LineSender, Value: line, Sender: SenderMe}
	}

	// A bare phone number line. The number itself is not message content.
	if strings.HasPrefix(line, "+") || strings.HasPrefix(line, "1") {
		return ClassifiedLine{Kind: LineSender, Value: line, Sender: SenderContact}
	}

	if strings.HasPrefix(line, "(Read by them") || strings.HasPrefix(line, "(Delivered") {
		return ClassifiedLine{Kind: LineReceipt, Value: line}
	}

	return ClassifiedLine{Kind: LineContent, Value: line}
}
