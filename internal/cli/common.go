package cli

import (
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/wrenfold-docs/markdowndoc/pkg/config"
	"github.com/wrenfold-docs/markdowndoc/pkg/docerr"
	"github.com/wrenfold-docs/markdowndoc/pkg/edit"
	"github.com/wrenfold-docs/markdowndoc/pkg/fsutil"
	"github.com/wrenfold-docs/markdowndoc/pkg/reporter"
)

// errLintFindings signals a non-zero exit purely because findings were
// reported at error severity; the findings themselves were already printed
// by the reporter, so the top-level error handler in cmd/markdowndoc skips
// logging it again.
var errLintFindings = errors.New("lint findings at error severity")

// commonFlags holds the universal flags shared across every subcommand, per
// spec §6's CLI surfaces section.
type commonFlags struct {
	path           string
	staged         bool
	noIgnore       bool
	format         string
	quiet          bool
	dryRun         bool
	backup         bool
	noBackup       bool
	caseSensitive  bool
	all            bool
	maxMatches     int
	allowDuplicate bool
	with           string
	withString     string
	configPath     string
}

// registerCommonFlags registers the flags every command shares, plus two
// optional groups: withMatch (pattern-resolution flags: --case-sensitive,
// --all, --max-matches — needed by anything that resolves a heading
// pattern to a section set, read-only or not) and withWrite (flags that
// only make sense when the command writes to disk: --dry-run,
// --backup/--no-backup, --allow-duplicate, --with/--with-string).
func registerCommonFlags(cmd *cobra.Command, f *commonFlags, withMatch, withWrite bool) {
	cmd.Flags().StringVar(&f.path, "path", ".", "project root or file/directory to operate on")
	cmd.Flags().BoolVar(&f.staged, "staged", false, "restrict to files staged in the git index")
	cmd.Flags().BoolVar(&f.noIgnore, "no-ignore", false, "disable .markdown-doc-ignore filtering")
	cmd.Flags().StringVar(&f.format, "format", "plain", "output format: plain, json, markdown, sarif")
	cmd.Flags().BoolVarP(&f.quiet, "quiet", "q", false, "suppress non-essential output")
	cmd.Flags().StringVar(&f.configPath, "config", config.DefaultConfigFileName, "path to .markdown-doc.toml")

	if withMatch {
		cmd.Flags().BoolVar(&f.caseSensitive, "case-sensitive", false, "match heading patterns case-sensitively")
		cmd.Flags().BoolVar(&f.all, "all", false, "apply to every matching section instead of requiring exactly one")
		cmd.Flags().IntVar(&f.maxMatches, "max-matches", 0, "cap the number of sections an ambiguous pattern may resolve to")
	}

	if withWrite {
		cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "compute the result without writing")
		cmd.Flags().BoolVar(&f.backup, "backup", true, "write a .bak sidecar before overwriting")
		cmd.Flags().BoolVar(&f.noBackup, "no-backup", false, "disable backup sidecar files")
		cmd.Flags().BoolVar(&f.allowDuplicate, "allow-duplicate", false, "disable the duplicate-content guard")
		cmd.Flags().StringVar(&f.with, "with", "", "payload source: a file path, or - for stdin")
		cmd.Flags().StringVar(&f.withString, "with-string", "", "payload as a literal string (escapes: \\n \\t \\\\ \\\")")
	}
}

// backupConfig resolves the --backup/--no-backup flags into an
// fsutil.BackupConfig.
func (f *commonFlags) backupConfig() fsutil.BackupConfig {
	cfg := fsutil.DefaultBackupConfig()
	cfg.Enabled = f.backup && !f.noBackup
	return cfg
}

// editOptions builds pkg/edit.Options from the universal flags.
func (f *commonFlags) editOptions() edit.Options {
	return edit.Options{
		CaseSensitive:  f.caseSensitive,
		All:            f.all,
		MaxMatches:     f.maxMatches,
		AllowDuplicate: f.allowDuplicate,
		DryRun:         f.dryRun,
		Backup:         f.backupConfig(),
	}
}

// loadPayload resolves the payload from --with/--with-string per spec §6's
// PayloadSource conventions: --with - reads stdin, --with PATH reads a
// file, --with-string is a literal (escaped) string. Exactly one must be
// set.
func (f *commonFlags) loadPayload(cmd *cobra.Command) ([]byte, error) {
	switch {
	case f.with == "-":
		return edit.LoadPayload(edit.PayloadStdin, "", cmd.InOrStdin())
	case f.with != "":
		return edit.LoadPayload(edit.PayloadFile, f.with, nil)
	case f.withString != "":
		return edit.LoadPayload(edit.PayloadInline, f.withString, nil)
	default:
		return nil, docerr.New(docerr.PayloadEscape, "edit", "one of --with or --with-string is required")
	}
}

// loadConfig loads the .markdown-doc.toml at f.configPath relative to
// f.path, falling back to defaults when absent (config.Load's contract).
func (f *commonFlags) loadConfig() (*config.Config, error) {
	return config.Load(configFilePath(f.path, f.configPath))
}

func configFilePath(root, configPath string) string {
	if configPath == "" {
		configPath = config.DefaultConfigFileName
	}
	if os.IsPathSeparator(configPath[0]) {
		return configPath
	}
	return root + string(os.PathSeparator) + configPath
}

// reporterOptions builds pkg/reporter.Options from the universal flags,
// shared by lint and validate, the two commands that render a
// *runner.Result through the reporter package.
func (f *commonFlags) reporterOptions(w io.Writer) reporter.Options {
	return reporter.Options{
		Writer:      w,
		Format:      mustFormat(f.format),
		ShowContext: !f.quiet,
		WorkingDir:  f.path,
	}
}

// exitError wraps an error that should set the process exit code without
// cobra printing "Error: ..." twice; callers translate docerr codes via
// exitCodeForError.
type exitError struct {
	err  error
	code int
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func newExitError(err error, code int) error {
	return &exitError{err: err, code: code}
}

// exitCodeForError resolves an error into its process exit code: an
// *exitError anywhere in the chain supplies its own code; otherwise a
// (possibly wrapped) *docerr.Error maps through docerr.Code.ExitCode();
// anything else is a generic failure, code 1.
func exitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ee *exitError
	if asExitError(err, &ee) {
		return ee.code
	}
	if de, ok := docerr.As(err); ok {
		return de.Code.ExitCode()
	}
	return ExitGenericFailure
}

// ExitCode resolves a command's returned error into its process exit code,
// per spec §6's 0-6 contract. A nil error is ExitSuccess.
func ExitCode(err error) int {
	return exitCodeForError(err)
}

// ShouldLog reports whether cmd/markdowndoc's top-level handler should log
// err. It returns false for errLintFindings, since the reporter already
// printed the findings that caused the non-zero exit.
func ShouldLog(err error) bool {
	return err != nil && !errors.Is(err, errLintFindings)
}

func asExitError(err error, target **exitError) bool {
	for err != nil {
		if ee, ok := err.(*exitError); ok {
			*target = ee
			return true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = unwrapper.Unwrap()
	}
	return false
}
