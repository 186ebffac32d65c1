package cli_test

import (
	"testing"

	"github.com/wrenfold-docs/markdowndoc/internal/cli"
	"github.com/wrenfold-docs/markdowndoc/pkg/docerr"
)

func testInfo() cli.BuildInfo {
	return cli.BuildInfo{Version: "test-version", Commit: "test-commit", Date: "test-date"}
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	if cmd == nil {
		t.Fatal("NewRootCommand returned nil")
	}
	if cmd.Use != "markdowndoc" {
		t.Errorf("expected Use to be %q, got %q", "markdowndoc", cmd.Use)
	}
	if cmd.Short == "" {
		t.Error("expected Short description to be set")
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	expected := []string{"extract", "edit", "catalog", "lint", "validate", "toc", "mv", "version"}
	for _, name := range expected {
		subCmd, _, err := cmd.Find([]string{name})
		if err != nil {
			t.Errorf("expected subcommand %q to exist, got error: %v", name, err)
			continue
		}
		if subCmd.Name() != name {
			t.Errorf("expected subcommand name %q, got %q", name, subCmd.Name())
		}
	}
}

func TestEditCommandHasVerbSubcommands(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	expected := []string{"replace", "delete", "append-to", "prepend-to", "insert-after", "insert-before"}
	for _, name := range expected {
		_, _, err := cmd.Find([]string{"edit", name})
		if err != nil {
			t.Errorf("expected edit subcommand %q to exist, got error: %v", name, err)
		}
	}
}

func TestUniversalFlagsRegisteredOnLint(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	lintCmd, _, err := cmd.Find([]string{"lint"})
	if err != nil {
		t.Fatalf("lint command not found: %v", err)
	}

	expectedFlags := []string{
		"path", "staged", "no-ignore", "format", "quiet", "dry-run",
		"backup", "no-backup", "config",
	}
	for _, flagName := range expectedFlags {
		if lintCmd.Flags().Lookup(flagName) == nil {
			t.Errorf("expected flag %q to exist on lint command", flagName)
		}
	}
	// lint resolves no heading pattern, so match flags don't apply.
	if lintCmd.Flags().Lookup("max-matches") != nil {
		t.Error("did not expect a pattern-matching flag on lint, which has no pattern argument")
	}
}

func TestExtractHasMatchFlagsButNoWriteFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	extractCmd, _, err := cmd.Find([]string{"extract"})
	if err != nil {
		t.Fatalf("extract command not found: %v", err)
	}

	for _, flagName := range []string{"case-sensitive", "all", "max-matches"} {
		if extractCmd.Flags().Lookup(flagName) == nil {
			t.Errorf("expected match flag %q to exist on extract command", flagName)
		}
	}
	for _, flagName := range []string{"dry-run", "backup", "with"} {
		if extractCmd.Flags().Lookup(flagName) != nil {
			t.Errorf("did not expect write flag %q on the read-only extract command", flagName)
		}
	}
}

func TestReadOnlyCommandsOmitWriteFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	catalogCmd, _, err := cmd.Find([]string{"catalog"})
	if err != nil {
		t.Fatalf("catalog command not found: %v", err)
	}

	for _, flagName := range []string{"dry-run", "backup", "with"} {
		if catalogCmd.Flags().Lookup(flagName) != nil {
			t.Errorf("did not expect write flag %q on a read-only command", flagName)
		}
	}
}

func TestExitCodeMapsDocerrCodes(t *testing.T) {
	t.Parallel()

	if got := cli.ExitCode(nil); got != cli.ExitSuccess {
		t.Errorf("ExitCode(nil) = %d, want %d", got, cli.ExitSuccess)
	}
	if got := cli.ExitCode(docerr.New(docerr.MultipleMatches, "edit", "ambiguous")); got != 2 {
		t.Errorf("ExitCode(MultipleMatches) = %d, want 2", got)
	}
}
