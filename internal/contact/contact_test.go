package contact

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"5551234567", "+15551234567"},
		{"15551234567", "+15551234567"},
		{"+15551234567", "+15551234567"},
		{"(555) 123-4567", "+15551234567"},
		{"555.123.4567", "+15551234567"},
		{"+442071234567", "+442071234567"},
		{"442071234567", "+442071234567"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizePhone(tt.in); got != tt.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "contacts.yaml")
	content := `contacts:
  - name: Jane Smith
    phone_numbers:
      - "5551234567"
      - "+15559876543"
    emails:
      - jane@example.com
    organization: Acme Corp
    title: Engineer
    addresses:
      - 123 Main St, Springfield
  - name: Bob Jones
    phone_numbers:
      - "(555) 111-2222"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	contacts, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(contacts) != 2 {
		t.Fatalf("expected 2 contacts, got %d", len(contacts))
	}

	jane := contacts[0]
	if jane.Name != "Jane Smith" {
		t.Errorf("name = %q", jane.Name)
	}
	if jane.PhoneNumbers[0] != "+15551234567" {
		t.Errorf("phone not normalized on load: %q", jane.PhoneNumbers[0])
	}
	if jane.Organization != "Acme Corp" || len(jane.Addresses) != 1 {
		t.Errorf("unexpected contact fields: %+v", jane)
	}

	if contacts[1].PhoneNumbers[0] != "+15551112222" {
		t.Errorf("second contact phone = %q", contacts[1].PhoneNumbers[0])
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing contacts file")
	}
}
