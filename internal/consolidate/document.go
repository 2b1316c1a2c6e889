package consolidate

import "github.com/hurttlocker/msgvault/internal/optimize"

// ContactInfo is the contact block of a conversation document.
type ContactInfo struct {
	Name         string   `json:"name"`
	PhoneNumbers []string `json:"phone_numbers"`
	Emails       []string `json:"emails,omitempty"`
	Organization string   `json:"organization,omitempty"`
	Title        string   `json:"title,omitempty"`
	Addresses    []string `json:"addresses,omitempty"`
}

// Document is a complete per-contact conversation artifact: contact
// identity, derived metadata, and the optimized message groups.
type Document struct {
	Contact              ContactInfo      `json:"contact"`
	ConversationMetadata Metadata         `json:"conversation_metadata"`
	Messages             []optimize.Group `json:"messages"`
}
