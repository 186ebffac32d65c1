package cli

import "github.com/wrenfold-docs/markdowndoc/pkg/runner"

// Process exit codes, per spec §6's exit-code contract. Operation-specific
// failures (SectionNotFound, MultipleMatches, BadRegex, ...) are tagged
// with a docerr.Code at the point they're raised and resolved to their
// documented 0-6 code through docerr.Code.ExitCode(); this file covers the
// two cases no docerr.Code applies to: a clean run, and an error that
// reached the CLI without ever being tagged.
const (
	// ExitSuccess is a clean run: no findings, or an operation applied
	// without a validation/resolution/IO failure.
	ExitSuccess = 0

	// ExitGenericFailure covers errors with no docerr.Code attached (e.g.
	// discovery/config failures) and lint/validate runs whose findings
	// include at least one error-severity diagnostic.
	ExitGenericFailure = 1
)

// ExitCodeForLintResult maps a lint/validate run's outcome to an exit code:
// 1 ("not found / lint errors / validation failures" per spec §6) when any
// finding is error-severity, 0 otherwise. Warnings alone do not change the
// exit code.
func ExitCodeForLintResult(result *runner.Result) int {
	if result == nil {
		return ExitSuccess
	}
	if result.HasFailures() {
		return ExitGenericFailure
	}
	return ExitSuccess
}
