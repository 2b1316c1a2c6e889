// Package privacy anonymizes conversation documents for language-model
// consumption while keeping a reversible placeholder mapping.
//
// An Anonymizer owns the identifier registries, so the same person,
// organization, handle, or address receives the same placeholder in every
// document it processes. Detected credential values are redacted without
// ever being written to the mapping.
package privacy

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/hurttlocker/msgvault/internal/consolidate"
	"github.com/hurttlocker/msgvault/internal/optimize"
)

// Config controls anonymization behavior.
type Config struct {
	Enabled bool
}

// Anonymizer issues placeholders and tracks cross-document identity.
type Anonymizer struct {
	cfg Config

	persons   map[string]int
	orgs      map[string]int
	socials   map[string]int
	addresses map[string]int
}

// NewAnonymizer returns an Anonymizer with empty registries.
func NewAnonymizer(cfg Config) *Anonymizer {
	return &Anonymizer{
		cfg:       cfg,
		persons:   make(map[string]int),
		orgs:      make(map[string]int),
		socials:   make(map[string]int),
		addresses: make(map[string]int),
	}
}

// Enabled reports whether this Anonymizer rewrites documents.
func (a *Anonymizer) Enabled() bool { return a.cfg.Enabled }

func nextID(registry map[string]int, key string) int {
	if id, ok := registry[key]; ok {
		return id
	}
	id := len(registry) + 1
	registry[key] = id
	return id
}

func (a *Anonymizer) personID(name string) int {
	return nextID(a.persons, name)
}

// PersonPlaceholder returns the stable placeholder for a contact name,
// or the name itself when anonymization is disabled.
func (a *Anonymizer) PersonPlaceholder(name string) string {
	if !a.cfg.Enabled {
		return name
	}
	return fmt.Sprintf("[[PERSON_%d]]", a.personID(name))
}

func (a *Anonymizer) orgPlaceholder(org string) string {
	return fmt.Sprintf("[[ORGANIZATION_%d]]", nextID(a.orgs, org))
}

func (a *Anonymizer) socialPlaceholder(handle string) string {
	return fmt.Sprintf("[[SOCIAL_MEDIA_%d]]", nextID(a.socials, handle))
}

func (a *Anonymizer) addressPlaceholder(addr string) string {
	return fmt.Sprintf("[[ADDRESS_%d]]", nextID(a.addresses, addr))
}

// Phone and email placeholders are hierarchical: person ID, then a
// per-contact ordinal.
func phonePlaceholder(personID, index int) string {
	return fmt.Sprintf("[[PHONE_%d_%d]]", personID, index)
}

func emailPlaceholder(personID, index int) string {
	return fmt.Sprintf("[[EMAIL_%d_%d]]", personID, index)
}

// GlobalMappings snapshots every registry for the master mapping file.
func (a *Anonymizer) GlobalMappings() GlobalMappings {
	return GlobalMappings{
		Persons:       a.persons,
		Organizations: a.orgs,
		SocialMedia:   a.socials,
		Addresses:     a.addresses,
	}
}

// Anonymize rewrites a conversation document, returning the anonymized
// copy and the placeholder mapping. With anonymization disabled the
// document is returned unchanged with a nil mapping.
func (a *Anonymizer) Anonymize(doc consolidate.Document, contactName string) (consolidate.Document, *Mapping) {
	if !a.cfg.Enabled {
		return doc, nil
	}

	personID := a.personID(contactName)
	m := newMapping(contactName, personID, a.PersonPlaceholder(contactName))

	out := copyDocument(doc)

	// Contact block. The original is deep-copied before any placeholder
	// lands in the document.
	original := copyContactInfo(doc.Contact)
	m.OriginalData.Contact = &original

	out.Contact.Name = m.PersonPlaceholder
	for i, phone := range out.Contact.PhoneNumbers {
		placeholder := phonePlaceholder(personID, i+1)
		m.Phones[placeholder] = phone
		out.Contact.PhoneNumbers[i] = placeholder
	}
	for i, email := range out.Contact.Emails {
		placeholder := emailPlaceholder(personID, i+1)
		m.Emails[placeholder] = email
		out.Contact.Emails[i] = placeholder
	}
	if out.Contact.Organization != "" {
		placeholder := a.orgPlaceholder(out.Contact.Organization)
		m.Organizations[placeholder] = out.Contact.Organization
		out.Contact.Organization = placeholder
	}
	// Addresses are too identifying to keep even as placeholders. They
	// are dropped from the document and survive only in the mapping.
	for _, addr := range out.Contact.Addresses {
		m.Addresses[a.addressPlaceholder(addr)] = addr
	}
	out.Contact.Addresses = nil

	// Metadata block: phones get placeholders, reusing any issued above.
	originalMD := out.ConversationMetadata
	m.OriginalData.Metadata = &originalMD

	if out.ConversationMetadata.MostActiveNumber != "" {
		out.ConversationMetadata.MostActiveNumber = a.phoneFor(m, personID, out.ConversationMetadata.MostActiveNumber)
	}
	if len(out.ConversationMetadata.PhoneNumberUsage) > 0 {
		usage := make(map[string]int, len(out.ConversationMetadata.PhoneNumberUsage))
		for _, phone := range sortedKeys(out.ConversationMetadata.PhoneNumberUsage) {
			usage[a.phoneFor(m, personID, phone)] = out.ConversationMetadata.PhoneNumberUsage[phone]
		}
		out.ConversationMetadata.PhoneNumberUsage = usage
	}

	// Message content.
	for i := range out.Messages {
		out.Messages[i].Content = a.anonymizeContent(out.Messages[i].Content, m, contactName, personID)
	}

	return out, m
}

// AnonymizeGroups rewrites a standalone group list (recent interactions),
// extending the contact's existing mapping. Returns the input unchanged
// when anonymization is disabled.
func (a *Anonymizer) AnonymizeGroups(groups []optimize.Group, contactName string, m *Mapping) []optimize.Group {
	if !a.cfg.Enabled || m == nil {
		return groups
	}

	out := make([]optimize.Group, len(groups))
	copy(out, groups)
	for i := range out {
		out[i].Content = a.anonymizeContent(out[i].Content, m, contactName, m.PersonID)
	}
	return out
}

// AnonymizeText rewrites a free-form string, returning the redacted text
// and the mapping built while redacting. The text is returned unchanged
// with a nil mapping when anonymization is disabled.
func (a *Anonymizer) AnonymizeText(text, contactName string) (string, *Mapping) {
	if !a.cfg.Enabled {
		return text, nil
	}
	personID := a.personID(contactName)
	m := newMapping(contactName, personID, a.PersonPlaceholder(contactName))
	return a.anonymizeContent(text, m, contactName, personID), m
}

// phoneFor finds the placeholder already issued for a phone value, or
// issues the next one. The linear scan is fine at per-contact cardinality.
func (a *Anonymizer) phoneFor(m *Mapping, personID int, phone string) string {
	for _, placeholder := range sortedKeys(m.Phones) {
		if m.Phones[placeholder] == phone {
			return placeholder
		}
	}
	placeholder := phonePlaceholder(personID, len(m.Phones)+1)
	m.Phones[placeholder] = phone
	return placeholder
}

// anonymizeContent applies every redaction step to one message. A failure
// in any detector category is logged and skipped so the remaining
// categories still run.
func (a *Anonymizer) anonymizeContent(content string, m *Mapping, contactName string, personID int) string {
	// Contact name, case-insensitive, then the bare first name as a
	// whole word so "met with Jane yesterday" is still covered.
	if contactName != "" {
		nameRE, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(contactName))
		if err == nil {
			content = nameRE.ReplaceAllString(content, m.PersonPlaceholder)
		}
		firstName := strings.Fields(contactName)
		if len(firstName) > 0 && firstName[0] != contactName && len(firstName[0]) > 1 {
			firstRE, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(firstName[0]) + `\b`)
			if err == nil {
				content = firstRE.ReplaceAllString(content, m.PersonPlaceholder)
			}
		}
	}

	for _, placeholder := range sortedKeys(m.Organizations) {
		if org := m.Organizations[placeholder]; len(org) > 2 {
			content = strings.ReplaceAll(content, org, placeholder)
		}
	}
	for _, placeholder := range sortedKeys(m.Phones) {
		content = strings.ReplaceAll(content, m.Phones[placeholder], placeholder)
	}
	for _, placeholder := range sortedKeys(m.Emails) {
		content = strings.ReplaceAll(content, m.Emails[placeholder], placeholder)
	}

	content = a.guarded(CategoryPhone, content, func(c string) string {
		return a.redactNewPhones(c, m, personID)
	})
	content = a.guarded(CategoryEmail, content, func(c string) string {
		return a.redactNewEmails(c, m, personID)
	})
	content = a.guarded(CategoryPartialEmail, content, func(c string) string {
		return a.redactPartialEmails(c, m, personID)
	})
	content = a.guarded(CategorySocial, content, func(c string) string {
		return a.redactSocial(c, m)
	})
	content = a.guarded(CategoryUsername, content, func(c string) string {
		return a.redactUsernames(c, m)
	})
	content = a.guarded(CategoryCredential, content, func(c string) string {
		return a.redactCredentials(c, m)
	})

	return content
}

// guarded runs one detector category, falling back to its input if the
// category panics. The other categories still apply.
func (a *Anonymizer) guarded(category, content string, fn func(string) string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Warning: %s detector failed: %v\n", category, r)
			out = content
		}
	}()
	return fn(content)
}

func (a *Anonymizer) redactNewPhones(content string, m *Mapping, personID int) string {
	for _, match := range phoneDetector.Pattern.FindAllString(content, -1) {
		known := false
		for _, phone := range m.Phones {
			if strings.Contains(phone, match) {
				known = true
				break
			}
		}
		if known {
			continue
		}
		placeholder := phonePlaceholder(personID, len(m.Phones)+1)
		m.Phones[placeholder] = match
		content = strings.ReplaceAll(content, match, placeholder)
	}
	return content
}

func (a *Anonymizer) redactNewEmails(content string, m *Mapping, personID int) string {
	for _, match := range emailDetector.Pattern.FindAllString(content, -1) {
		known := false
		for _, email := range m.Emails {
			if email == match {
				known = true
				break
			}
		}
		if known {
			continue
		}
		placeholder := emailPlaceholder(personID, len(m.Emails)+1)
		m.Emails[placeholder] = match
		content = strings.ReplaceAll(content, match, placeholder)
	}
	return content
}

func (a *Anonymizer) redactPartialEmails(content string, m *Mapping, personID int) string {
	for _, match := range partialEmailDetector.Pattern.FindAllString(content, -1) {
		handled := false
		for _, email := range m.Emails {
			if strings.Contains(email, match) {
				handled = true
				break
			}
		}
		if handled {
			continue
		}
		placeholder := emailPlaceholder(personID, len(m.Emails)+1)
		m.Emails[placeholder] = match
		content = strings.ReplaceAll(content, match, placeholder)
	}
	return content
}

func (a *Anonymizer) redactSocial(content string, m *Mapping) string {
	for _, d := range socialDetectors {
		for _, match := range d.Pattern.FindAllStringSubmatch(content, -1) {
			full, handle := match[0], match[1]
			placeholder := a.socialPlaceholder(handle)
			m.SocialMedia[placeholder] = full
			content = strings.ReplaceAll(content, full, placeholder)
		}
	}
	return content
}

func (a *Anonymizer) redactUsernames(content string, m *Mapping) string {
	for _, d := range usernameDetectors {
		for _, match := range d.Pattern.FindAllStringSubmatch(content, -1) {
			full, username := match[0], match[1]
			if username == "" {
				continue
			}
			placeholder := a.socialPlaceholder(username)
			m.SocialMedia[placeholder] = username
			// Keep the surrounding context, redact only the handle.
			content = strings.ReplaceAll(content, full, strings.ReplaceAll(full, username, placeholder))
		}
	}
	return content
}

func (a *Anonymizer) redactCredentials(content string, m *Mapping) string {
	for _, d := range credentialDetectors {
		for _, match := range d.Pattern.FindAllStringSubmatch(content, -1) {
			value := match[1]
			// Overlapping patterns can re-capture an already issued
			// placeholder.
			if strings.Contains(value, "[[CREDENTIALS]]") {
				continue
			}
			key := fmt.Sprintf("[[CREDENTIALS]]_%d", len(m.Credentials)+1)
			m.Credentials[key] = CredentialNote
			content = strings.ReplaceAll(content, value, "[[CREDENTIALS]]")
		}
	}
	return content
}

func copyContactInfo(c consolidate.ContactInfo) consolidate.ContactInfo {
	out := c
	out.PhoneNumbers = append([]string(nil), c.PhoneNumbers...)
	out.Emails = append([]string(nil), c.Emails...)
	out.Addresses = append([]string(nil), c.Addresses...)
	return out
}

func copyDocument(doc consolidate.Document) consolidate.Document {
	out := doc
	out.Contact = copyContactInfo(doc.Contact)
	out.Messages = append([]optimize.Group(nil), doc.Messages...)
	if doc.ConversationMetadata.PhoneNumberUsage != nil {
		usage := make(map[string]int, len(doc.ConversationMetadata.PhoneNumberUsage))
		for k, v := range doc.ConversationMetadata.PhoneNumberUsage {
			usage[k] = v
		}
		out.ConversationMetadata.PhoneNumberUsage = usage
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
