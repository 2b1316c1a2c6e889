package privacy

import "regexp"

// Detector categories.
const (
	CategoryEmail        = "email"
	CategoryPartialEmail = "partial_email"
	CategoryPhone        = "phone"
	CategorySocial       = "social_media"
	CategoryUsername     = "username"
	CategoryCredential   = "credential"
)

// Detector is one sensitive-data pattern. Patterns with a capture group
// redact the captured value; Platform is a hint recorded for social
// handles so mappings stay reviewable.
type Detector struct {
	Category string
	Platform string
	Pattern  *regexp.Regexp
}

var (
	emailDetector = Detector{
		Category: CategoryEmail,
		Pattern:  regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`),
	}
	// Catches partial addresses like user@gmail with no TLD.
	partialEmailDetector = Detector{
		Category: CategoryPartialEmail,
		Pattern:  regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\b`),
	}
	phoneDetector = Detector{
		Category: CategoryPhone,
		Pattern:  regexp.MustCompile(`\b(?:\+\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`),
	}
)

// Profile links and handles. The bare @mention detector goes last so the
// platform-specific URLs claim their handles first.
var socialDetectors = []Detector{
	{Category: CategorySocial, Platform: "twitter", Pattern: regexp.MustCompile(`(?:twitter\.com|x\.com)/([A-Za-z0-9_]+)`)},
	{Category: CategorySocial, Platform: "instagram", Pattern: regexp.MustCompile(`(?:instagram\.com)/([A-Za-z0-9_\.]+)`)},
	{Category: CategorySocial, Platform: "linkedin", Pattern: regexp.MustCompile(`(?:linkedin\.com/in)/([A-Za-z0-9_-]+)`)},
	{Category: CategorySocial, Platform: "facebook", Pattern: regexp.MustCompile(`(?:facebook\.com)/([A-Za-z0-9\.]+)`)},
	{Category: CategorySocial, Platform: "github", Pattern: regexp.MustCompile(`(?:github\.com)/([A-Za-z0-9_-]+)`)},
	{Category: CategorySocial, Platform: "mention", Pattern: regexp.MustCompile(`@([A-Za-z0-9_]+)`)},
}

// Usernames mentioned in prose rather than linked.
var usernameDetectors = []Detector{
	{Category: CategoryUsername, Platform: "github", Pattern: regexp.MustCompile(`(?i)github\s+username\s+is\s+([A-Za-z0-9_-]{3,})`)},
	{Category: CategoryUsername, Platform: "github", Pattern: regexp.MustCompile(`(?i)gh\s+username\s+is\s+([A-Za-z0-9_-]{3,})`)},
	{Category: CategoryUsername, Platform: "github", Pattern: regexp.MustCompile(`(?i)github\s+user\s+is\s+([A-Za-z0-9_-]{3,})`)},
	{Category: CategoryUsername, Platform: "twitter", Pattern: regexp.MustCompile(`(?i)twitter\s+handle\s+is\s+@?([A-Za-z0-9_]{3,})`)},
	{Category: CategoryUsername, Platform: "instagram", Pattern: regexp.MustCompile(`(?i)instagram\s+(?:is|username)\s+@?([A-Za-z0-9_\.]{3,})`)},
	{Category: CategoryUsername, Platform: "instagram", Pattern: regexp.MustCompile(`(?i)ig\s+(?:is|username)\s+@?([A-Za-z0-9_\.]{3,})`)},
	{Category: CategoryUsername, Platform: "linkedin", Pattern: regexp.MustCompile(`(?i)linkedin\s+(?:is|profile)\s+([A-Za-z0-9_-]{3,})`)},
	{Category: CategoryUsername, Platform: "facebook", Pattern: regexp.MustCompile(`(?i)facebook\s+(?:is|username)\s+([A-Za-z0-9\.]{3,})`)},
	{Category: CategoryUsername, Platform: "discord", Pattern: regexp.MustCompile(`(?i)discord\s+(?:is|tag)\s+([A-Za-z0-9_#\.]{3,})`)},
	{Category: CategoryUsername, Platform: "telegram", Pattern: regexp.MustCompile(`(?i)telegram\s+(?:is|username)\s+@?([A-Za-z0-9_]{3,})`)},
	{Category: CategoryUsername, Platform: "", Pattern: regexp.MustCompile(`(?i)my\s+username\s+(?:is|:)\s+([A-Za-z0-9_\.-]{3,})`)},
	{Category: CategoryUsername, Platform: "", Pattern: regexp.MustCompile(`(?i)username\s+(?:is|:)\s+([A-Za-z0-9_\.-]{3,})`)},
	{Category: CategoryUsername, Platform: "github", Pattern: regexp.MustCompile(`(?i)my\s+github\s+username\s+is\s+([A-Za-z0-9_-]{3,})`)},
	{Category: CategoryUsername, Platform: "twitter", Pattern: regexp.MustCompile(`(?i)my\s+twitter\s+(?:handle|username)\s+is\s+@?([A-Za-z0-9_]{3,})`)},
}

// Credential mentions. Captured values are redacted but never stored.
var credentialDetectors = []Detector{
	{Category: CategoryCredential, Pattern: regexp.MustCompile(`(?i)password\s+(?:is|:)\s+([A-Za-z0-9!@#$%^&*()_+\-=\[\]{}|;:,.<>?]{6,})`)},
	{Category: CategoryCredential, Pattern: regexp.MustCompile(`(?i)pwd\s+(?:is|:)\s+([A-Za-z0-9!@#$%^&*()_+\-=\[\]{}|;:,.<>?]{6,})`)},
	{Category: CategoryCredential, Pattern: regexp.MustCompile(`(?i)credentials\s+(?:are|is|:)\s+([A-Za-z0-9!@#$%^&*()_+\-=\[\]{}|;:,.<>?]{6,})`)},
	{Category: CategoryCredential, Pattern: regexp.MustCompile(`(?i)login\s+(?:is|:)\s+([A-Za-z0-9!@#$%^&*()_+\-=\[\]{}|;:,.<>?]{6,})`)},
	{Category: CategoryCredential, Pattern: regexp.MustCompile(`(?i)passw[o0]rd\s*[=:]\s*([A-Za-z0-9!@#$%^&*()_+\-=\[\]{}|;:,.<>?]{6,})`)},
	{Category: CategoryCredential, Pattern: regexp.MustCompile(`(?i)the\s+password\s+(?:is|:)\s+([A-Za-z0-9!@#$%^&*()_+\-=\[\]{}|;:,.<>?]{6,})`)},
}
