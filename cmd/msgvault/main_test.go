package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseExportFlags(t *testing.T) {
	f, err := parseExportFlags([]string{
		"--transcripts", "/data/messages",
		"-c", "people.yaml",
		"--min-messages", "5",
		"--no-privacy",
		"--no-archive",
	})
	if err != nil {
		t.Fatalf("parseExportFlags: %v", err)
	}
	if f.resolve.CLITranscriptsDir != "/data/messages" {
		t.Errorf("transcripts = %q", f.resolve.CLITranscriptsDir)
	}
	if f.resolve.CLIContactsFile != "people.yaml" {
		t.Errorf("contacts = %q", f.resolve.CLIContactsFile)
	}
	if f.resolve.CLIMinMessages != "5" {
		t.Errorf("min messages = %q", f.resolve.CLIMinMessages)
	}
	if f.resolve.CLIPrivacy != "false" {
		t.Errorf("privacy = %q", f.resolve.CLIPrivacy)
	}
	if !f.noArchive {
		t.Error("no-archive not set")
	}
}

func TestParseExportFlagsErrors(t *testing.T) {
	if _, err := parseExportFlags([]string{"--bogus"}); err == nil {
		t.Error("expected error for unknown flag")
	}
	if _, err := parseExportFlags([]string{"--transcripts"}); err == nil {
		t.Error("expected error for missing value")
	}
}

func TestRunExportRequiresTranscriptsDir(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "config.yaml")
	err := runExport([]string{"--config", missing, "--no-archive"})
	if err == nil || !strings.Contains(err.Error(), "transcripts") {
		t.Fatalf("expected transcripts error, got %v", err)
	}
}

func TestRunStyleRequiresContact(t *testing.T) {
	if err := runStyle(nil); err == nil {
		t.Fatal("expected usage error")
	}
}

func TestRunExportEndToEnd(t *testing.T) {
	transcripts := t.TempDir()
	output := t.TempDir()

	transcript := strings.Join([]string{
		"Jan 15, 2024 10:00:00 AM",
		"Me",
		"hey are we still on for tonight",
		"",
		"Jan 15, 2024 10:20:00 AM",
		"+15551234567",
		"yes! see you at seven",
		"",
	}, "\n")
	if err := os.WriteFile(filepath.Join(transcripts, "+15551234567.txt"), []byte(transcript), 0644); err != nil {
		t.Fatalf("writing transcript: %v", err)
	}

	contactsFile := filepath.Join(transcripts, "contacts.yaml")
	contactsYAML := `contacts:
  - name: Jane Smith
    phone_numbers:
      - "+15551234567"
`
	if err := os.WriteFile(contactsFile, []byte(contactsYAML), 0644); err != nil {
		t.Fatalf("writing contacts: %v", err)
	}

	err := runExport([]string{
		"--config", filepath.Join(t.TempDir(), "missing.yaml"),
		"--transcripts", transcripts,
		"--contacts", contactsFile,
		"--output", output,
		"--min-messages", "2",
		"--no-archive",
	})
	if err != nil {
		t.Fatalf("runExport: %v", err)
	}

	if _, err := os.Stat(filepath.Join(output, "Jane Smith", "conversation_llm.json")); err != nil {
		t.Errorf("conversation file missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(output, "_llm_ready", "master_index.json")); err != nil {
		t.Errorf("master index missing: %v", err)
	}
}
