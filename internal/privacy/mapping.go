package privacy

import "github.com/hurttlocker/msgvault/internal/consolidate"

// CredentialNote is stored in place of a detected credential. The value
// itself never enters the mapping.
const CredentialNote = "Password redacted for security"

// OriginalData preserves the pre-anonymization contact and metadata
// blocks for restoration.
type OriginalData struct {
	Contact  *consolidate.ContactInfo `json:"contact,omitempty"`
	Metadata *consolidate.Metadata    `json:"metadata,omitempty"`
}

// Mapping records every placeholder issued for one contact's document,
// keyed placeholder to original value. Addresses are deleted from the
// document but kept here; credentials are the one exception to the
// placeholder/value rule (see CredentialNote).
type Mapping struct {
	Name              string            `json:"name"`
	PersonID          int               `json:"person_id"`
	PersonPlaceholder string            `json:"person_placeholder"`
	Phones            map[string]string `json:"phones"`
	Emails            map[string]string `json:"emails"`
	Organizations     map[string]string `json:"organizations"`
	SocialMedia       map[string]string `json:"social_media"`
	Addresses         map[string]string `json:"addresses"`
	Credentials       map[string]string `json:"credentials"`
	OriginalData      OriginalData      `json:"original_data"`
}

func newMapping(name string, personID int, personPlaceholder string) *Mapping {
	return &Mapping{
		Name:              name,
		PersonID:          personID,
		PersonPlaceholder: personPlaceholder,
		Phones:            make(map[string]string),
		Emails:            make(map[string]string),
		Organizations:     make(map[string]string),
		SocialMedia:       make(map[string]string),
		Addresses:         make(map[string]string),
		Credentials:       make(map[string]string),
	}
}

// GlobalMappings aggregates identifier registries across every contact
// anonymized by one Anonymizer, for the master mapping file.
type GlobalMappings struct {
	Persons       map[string]int `json:"global_person_mapping"`
	Organizations map[string]int `json:"global_organization_mapping"`
	SocialMedia   map[string]int `json:"global_social_media_mapping"`
	Addresses     map[string]int `json:"global_address_mapping"`
}
