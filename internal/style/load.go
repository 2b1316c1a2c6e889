package style

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hurttlocker/msgvault/internal/contact"
	"github.com/hurttlocker/msgvault/internal/optimize"
	"github.com/hurttlocker/msgvault/internal/recent"
)

type recentFile struct {
	RecentMessages []optimize.Group `json:"recent_messages"`
}

// AnalyzeContact profiles a contact by reading their recent-interactions
// file under dataDir.
func AnalyzeContact(dataDir, contactName string) (Profile, error) {
	path := filepath.Join(dataDir, contact.SafeName(contactName), recent.RecentInteractionsFilename)

	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("reading recent interactions for %s: %w", contactName, err)
	}

	var f recentFile
	if err := json.Unmarshal(data, &f); err != nil {
		return Profile{}, fmt.Errorf("parsing recent interactions for %s: %w", contactName, err)
	}

	return Analyze(f.RecentMessages), nil
}
