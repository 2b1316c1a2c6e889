package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/hurttlocker/msgvault/internal/archive"
	"github.com/hurttlocker/msgvault/internal/config"
	"github.com/hurttlocker/msgvault/internal/contact"
	"github.com/hurttlocker/msgvault/internal/export"
	"github.com/hurttlocker/msgvault/internal/mcp"
	"github.com/hurttlocker/msgvault/internal/optimize"
	"github.com/hurttlocker/msgvault/internal/privacy"
	"github.com/hurttlocker/msgvault/internal/style"
)

const version = "0.1.0-dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(0)
	}

	switch os.Args[1] {
	case "export":
		if err := runExport(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "style":
		if err := runStyle(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "stats":
		if err := runStats(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "list":
		if err := runList(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "config":
		if err := runConfig(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "mcp":
		if err := runMCP(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "version", "--version", "-v":
		fmt.Printf("msgvault %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

type exportFlags struct {
	resolve   config.ResolveOptions
	noArchive bool
}

func parseExportFlags(args []string) (exportFlags, error) {
	var f exportFlags

	valueFlags := map[string]*string{
		"--transcripts":  &f.resolve.CLITranscriptsDir,
		"-t":             &f.resolve.CLITranscriptsDir,
		"--contacts":     &f.resolve.CLIContactsFile,
		"-c":             &f.resolve.CLIContactsFile,
		"--output":       &f.resolve.CLIOutputDir,
		"-o":             &f.resolve.CLIOutputDir,
		"--db":           &f.resolve.CLIDBPath,
		"--min-messages": &f.resolve.CLIMinMessages,
		"--recent":       &f.resolve.CLIRecentCount,
		"--config":       &f.resolve.ConfigPath,
	}

	for i := 0; i < len(args); i++ {
		switch arg := args[i]; arg {
		case "--privacy":
			f.resolve.CLIPrivacy = "true"
		case "--no-privacy":
			f.resolve.CLIPrivacy = "false"
		case "--no-archive":
			f.noArchive = true
		default:
			dst, ok := valueFlags[arg]
			if !ok {
				return f, fmt.Errorf("unknown flag: %s", arg)
			}
			if i+1 >= len(args) {
				return f, fmt.Errorf("%s requires a value", arg)
			}
			i++
			*dst = args[i]
		}
	}

	return f, nil
}

func runExport(args []string) error {
	flags, err := parseExportFlags(args)
	if err != nil {
		return err
	}

	resolved, err := config.ResolveConfig(flags.resolve)
	if err != nil {
		return err
	}
	if resolved.TranscriptsDir.Value == "" {
		return fmt.Errorf("no transcripts directory configured (use --transcripts)")
	}

	contacts, err := contact.Load(resolved.ContactsFile.Value)
	if err != nil {
		return err
	}

	opts := export.Options{
		TranscriptsDir: resolved.TranscriptsDir.Value,
		OutputDir:      resolved.OutputDir.Value,
		MinMessages:    resolved.MinMessages.Int(export.DefaultMinMessages),
		RecentCount:    resolved.RecentCount.Int(0),
		Optimize: optimize.Options{
			Window:              time.Duration(resolved.GroupWindowMinutes.Int(10)) * time.Minute,
			SimilarityThreshold: resolved.SimilarityThreshold.Float(0),
		},
		Privacy: privacy.Config{Enabled: resolved.PrivacyEnabled.Bool(true)},
	}

	if !flags.noArchive {
		store, err := archive.Open(archive.Config{DBPath: resolved.DBPath.Value})
		if err != nil {
			return fmt.Errorf("opening archive: %w", err)
		}
		defer store.Close()
		opts.Archive = store
	}

	fmt.Printf("Exporting %d contacts from %s...\n", len(contacts), opts.TranscriptsDir)

	result, err := export.NewEngine(opts).Export(context.Background(), contacts)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("Run %s complete:\n", result.RunID)
	fmt.Printf("  Exported:              %d\n", result.Exported)
	fmt.Printf("  Skipped below minimum: %d\n", result.SkippedBelowMin)
	fmt.Printf("  Filtered (no name):    %d\n", result.FilteredNoName)
	fmt.Printf("  Master index:          %s\n", result.MasterIndexPath)
	for _, e := range result.Errors {
		fmt.Fprintf(os.Stderr, "  Error (%s): %s\n", e.Contact, e.Message)
	}
	return nil
}

func runStyle(args []string) error {
	var name string
	resolve := config.ResolveOptions{}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--data", "-d":
			if i+1 >= len(args) {
				return fmt.Errorf("--data requires a value")
			}
			i++
			resolve.CLIOutputDir = args[i]
		case "--config":
			if i+1 >= len(args) {
				return fmt.Errorf("--config requires a value")
			}
			i++
			resolve.ConfigPath = args[i]
		default:
			if strings.HasPrefix(args[i], "-") {
				return fmt.Errorf("unknown flag: %s", args[i])
			}
			name = args[i]
		}
	}
	if name == "" {
		return fmt.Errorf("usage: msgvault style <contact name> [--data <dir>]")
	}

	resolved, err := config.ResolveConfig(resolve)
	if err != nil {
		return err
	}

	profile, err := style.AnalyzeContact(resolved.OutputDir.Value, name)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func runStats(args []string) error {
	store, err := openArchive(args)
	if err != nil {
		return err
	}
	defer store.Close()

	text, err := store.StatsJSON(context.Background())
	if err != nil {
		return err
	}
	fmt.Println(text)
	return nil
}

func runList(args []string) error {
	store, err := openArchive(args)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.ListConversations(context.Background(), 50)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No archived conversations.")
		return nil
	}
	for _, r := range records {
		fmt.Printf("%6d  %s  %-24s  %5d messages  run %s\n",
			r.ID, r.ArchivedAt.Format("2006-01-02 15:04"), r.ContactName, r.TotalMessages, r.RunID)
	}
	return nil
}

func runConfig(args []string) error {
	resolve := config.ResolveOptions{}
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--config":
			if i+1 >= len(args) {
				return fmt.Errorf("--config requires a value")
			}
			i++
			resolve.ConfigPath = args[i]
		default:
			return fmt.Errorf("unknown flag: %s", args[i])
		}
	}

	resolved, err := config.ResolveConfig(resolve)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(resolved, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func runMCP(args []string) error {
	resolve := config.ResolveOptions{}
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--db":
			if i+1 >= len(args) {
				return fmt.Errorf("--db requires a value")
			}
			i++
			resolve.CLIDBPath = args[i]
		case "--data", "-d":
			if i+1 >= len(args) {
				return fmt.Errorf("--data requires a value")
			}
			i++
			resolve.CLIOutputDir = args[i]
		case "--config":
			if i+1 >= len(args) {
				return fmt.Errorf("--config requires a value")
			}
			i++
			resolve.ConfigPath = args[i]
		default:
			return fmt.Errorf("unknown flag: %s", args[i])
		}
	}

	resolved, err := config.ResolveConfig(resolve)
	if err != nil {
		return err
	}

	store, err := archive.Open(archive.Config{DBPath: resolved.DBPath.Value})
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer store.Close()

	srv := mcp.NewServer(mcp.ServerConfig{
		Store:   store,
		DataDir: resolved.OutputDir.Value,
		Version: version,
		Privacy: privacy.Config{Enabled: resolved.PrivacyEnabled.Bool(true)},
	})
	return server.ServeStdio(srv)
}

func openArchive(args []string) (*archive.Store, error) {
	resolve := config.ResolveOptions{}
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--db":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("--db requires a value")
			}
			i++
			resolve.CLIDBPath = args[i]
		case "--config":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("--config requires a value")
			}
			i++
			resolve.ConfigPath = args[i]
		default:
			return nil, fmt.Errorf("unknown flag: %s", args[i])
		}
	}

	resolved, err := config.ResolveConfig(resolve)
	if err != nil {
		return nil, err
	}
	return archive.Open(archive.Config{DBPath: resolved.DBPath.Value})
}

func printUsage() {
	fmt.Printf(`msgvault %s — LLM-ready message transcript exporter

Usage:
  msgvault <command> [arguments]

Commands:
  export              Consolidate, optimize, and anonymize transcripts per contact
  style <contact>     Analyze the user's writing style toward a contact
  list                List archived conversations
  stats               Show archive statistics
  config              Print resolved configuration with provenance
  mcp                 Run the MCP server over stdio
  version             Print version

Export Flags:
  -t, --transcripts   Directory of per-number transcript .txt files
  -c, --contacts      Contacts YAML file (default: contacts.yaml)
  -o, --output        Output directory (default: llm_export)
      --db            Archive database path
      --min-messages  Minimum messages for a contact to be exported
      --recent        Recent-interactions window size
      --privacy       Anonymize exported data (default)
      --no-privacy    Keep real names, numbers, and emails
      --no-archive    Skip writing to the archive database
      --config        Config file path (default: ~/.msgvault/config.yaml)

Flags:
  -h, --help          Show this help message
  -v, --version       Print version
`, version)
}
