package consolidate

import (
	"math"
	"time"

	"github.com/hurttlocker/msgvault/internal/optimize"
	"github.com/hurttlocker/msgvault/internal/transcript"
)

// Metadata summarizes a consolidated conversation. Computed over the
// optimized message groups, not the raw timeline.
type Metadata struct {
	TotalMessages          int            `json:"total_messages"`
	SentMessages           int            `json:"sent_messages"`
	ReceivedMessages       int            `json:"received_messages"`
	DateRange              string         `json:"date_range"`
	ConversationSpanDays   int            `json:"conversation_span_days"`
	MessageFrequencyPerDay float64        `json:"message_frequency_per_day"`
	MostActiveNumber       string         `json:"most_active_number"`
	PhoneNumberUsage       map[string]int `json:"phone_number_usage"`
}

// GenerateMetadata derives conversation stats from optimized groups.
// now is injectable so span calculations stay deterministic in tests;
// pass nil for time.Now.
func GenerateMetadata(groups []optimize.Group, phoneUsage map[string]int, now func() time.Time) Metadata {
	if len(groups) == 0 {
		return Metadata{DateRange: "Unknown"}
	}
	if now == nil {
		now = time.Now
	}

	md := Metadata{
		TotalMessages:    len(groups),
		PhoneNumberUsage: phoneUsage,
		MostActiveNumber: mostActiveNumber(phoneUsage),
	}

	for _, g := range groups {
		switch g.Sender {
		case transcript.SenderMe:
			md.SentMessages++
		case transcript.SenderContact:
			md.ReceivedMessages++
		}
	}

	first := ""
	for _, g := range groups {
		if g.Timestamp == "" {
			continue
		}
		if first == "" || g.Timestamp < first {
			first = g.Timestamp
		}
	}

	switch {
	case first == "":
		md.DateRange = "Unknown"
	default:
		if t, err := time.Parse("2006-01-02T15:04:05", first); err == nil {
			md.ConversationSpanDays = int(now().Sub(t).Hours() / 24)
			md.DateRange = t.Format("2006-01-02") + " to present"
		} else {
			md.DateRange = first + " to present"
		}
	}

	span := md.ConversationSpanDays
	if span < 1 {
		span = 1
	}
	md.MessageFrequencyPerDay = round2(float64(md.TotalMessages) / float64(span))

	return md
}

// mostActiveNumber picks the number with the highest message count.
// Ties break toward the lexicographically smallest number so repeated
// runs produce identical output.
func mostActiveNumber(phoneUsage map[string]int) string {
	best := "unknown"
	bestCount := -1
	for number, count := range phoneUsage {
		if count > bestCount || (count == bestCount && number < best) {
			best = number
			bestCount = count
		}
	}
	return best
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
