package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/lightcone/internal/consistency"
	"github.com/roach88/lightcone/internal/ir"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	HistoryOptions
}

// HistoryVerdict is the check result for one history.
type HistoryVerdict struct {
	Name    string               `json:"name"`
	Hash    string               `json:"hash"`
	Level   ir.ConsistencyLevel  `json:"level"`
	Valid   bool                 `json:"valid"` // verdict at Level
	Reports []consistency.Report `json:"reports"`
}

// CheckResult holds the verdicts of every checked history.
type CheckResult struct {
	SchemaVersion string           `json:"schema_version"`
	Valid         bool             `json:"valid"`
	Histories     []HistoryVerdict `json:"histories"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check [history-path]",
		Short: "Check histories against the consistency levels",
		Long: `Check one or more histories against linearizability, sequential
consistency and serializability.

The path may be a .cue file, a .yaml/.yml file or a directory of them.
Every level is reported; with --level only that level is checked.

Exit codes:
  0 - Every history is valid at its selected level
  1 - A history is invalid at its selected level
  2 - Command error (missing path, unloadable history, etc.)

Examples:
  lightcone check ./histories
  lightcone check --sample --format json
  lightcone check history.cue --name late_write --level serializable`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, pathArg(args), cmd)
		},
	}

	opts.addFlags(cmd)
	return cmd
}

func pathArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func runCheck(opts *CheckOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	histories, err := LoadHistories(path, &opts.HistoryOptions)
	if err != nil {
		return reportError(formatter, err)
	}
	formatter.VerboseLog("Loaded %d history(ies)", len(histories))

	result := CheckResult{SchemaVersion: ir.SchemaVersion, Valid: true, Histories: make([]HistoryVerdict, 0, len(histories))}
	for _, h := range histories {
		verdict, err := checkHistory(h, opts.Level != "")
		if err != nil {
			return reportError(formatter, err)
		}
		formatter.VerboseLog("%s hash %s", verdict.Name, verdict.Hash)
		result.Histories = append(result.Histories, verdict)
		result.Valid = result.Valid && verdict.Valid
	}

	if err := formatter.Success(result); err != nil {
		return err
	}

	if !result.Valid {
		return NewExitError(ExitFailure, "history is not valid at its selected level")
	}
	return nil
}

// checkHistory reports every level, or only h.Level when onlySelected.
func checkHistory(h ir.History, onlySelected bool) (HistoryVerdict, error) {
	hash, err := ir.HistoryHash(h)
	if err != nil {
		return HistoryVerdict{}, err
	}

	var reports []consistency.Report
	if onlySelected {
		reports = []consistency.Report{consistency.Check(h.Events, h.Level)}
	} else {
		reports = consistency.CheckAll(h.Events)
	}

	return HistoryVerdict{
		Name:    h.Name,
		Hash:    hash,
		Level:   h.Level,
		Valid:   consistency.Validate(h.Events, h.Level),
		Reports: reports,
	}, nil
}

// WriteText prints each history with one line per checked level.
func (result CheckResult) WriteText(w io.Writer) {
	for _, v := range result.Histories {
		fmt.Fprintf(w, "%s (%s)\n", v.Name, v.Level)
		for _, r := range v.Reports {
			fmt.Fprintf(w, "  %s %s\n", mark(r.Valid), r.Level.Title())
			writeViolations(w, r.Violations)
		}
	}
}
