// Package contact loads the contact list and normalizes phone numbers to
// E.164-style form so transcript filenames can be matched to contacts.
package contact

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var unsafeNameRE = regexp.MustCompile(`[\\/*?:"<>|]`)

// SafeName replaces filesystem-unsafe characters in a contact name so it
// can serve as a directory name.
func SafeName(name string) string {
	return unsafeNameRE.ReplaceAllString(name, "_")
}

// Contact is one entry from the contact list.
type Contact struct {
	Name         string   `yaml:"name" json:"name"`
	PhoneNumbers []string `yaml:"phone_numbers" json:"phone_numbers"`
	Emails       []string `yaml:"emails" json:"emails"`
	Organization string   `yaml:"organization" json:"organization"`
	Title        string   `yaml:"title" json:"title"`
	Addresses    []string `yaml:"addresses" json:"addresses"`
}

// contactFile is the on-disk shape of the contact list.
type contactFile struct {
	Contacts []Contact `yaml:"contacts"`
}

// Load reads a YAML contact list.
func Load(path string) ([]Contact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading contacts file: %w", err)
	}

	var f contactFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing contacts file: %w", err)
	}

	for i := range f.Contacts {
		for j, num := range f.Contacts[i].PhoneNumbers {
			f.Contacts[i].PhoneNumbers[j] = NormalizePhone(num)
		}
	}

	return f.Contacts, nil
}

// NormalizePhone converts a phone number to a "+"-prefixed digit string.
// Ten digits are assumed to be US numbers. Numbers already carrying an
// international prefix pass through unchanged.
func NormalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)

	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if d == "" {
		return raw
	}

	switch {
	case len(d) == 10:
		return "+1" + d
	case len(d) == 11 && strings.HasPrefix(d, "1"):
		return "+" + d
	case len(d) > 11 && strings.HasPrefix(d, "1"):
		return "+" + d
	case strings.HasPrefix(raw, "+"):
		return raw
	default:
		return "+" + d
	}
}
