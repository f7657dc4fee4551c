package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/lightcone/internal/consistency"
)

// ValuesOptions holds flags for the values command.
type ValuesOptions struct {
	*RootOptions
	HistoryOptions
}

// StoreStep is one event in system-time order with the register value
// in effect just before it.
type StoreStep struct {
	ID         int     `json:"id"`
	Label      string  `json:"label"`
	SystemTime float64 `json:"system_time"`
	Before     int64   `json:"before"`
}

// ValuesResult is the store-value sequence of one history.
type ValuesResult struct {
	Name   string      `json:"name"`
	Values []int64     `json:"values"`
	Final  int64       `json:"final"`
	Steps  []StoreStep `json:"steps"`
}

// ValuesReport is the values output for every loaded history.
type ValuesReport []ValuesResult

// WriteText prints one block per history.
func (rs ValuesReport) WriteText(w io.Writer) {
	for _, r := range rs {
		fmt.Fprintf(w, "%s\n", r.Name)
		for _, s := range r.Steps {
			fmt.Fprintf(w, "  %10.3f  %-14s store=%d\n", s.SystemTime, s.Label, s.Before)
		}
		fmt.Fprintf(w, "  final=%d\n", r.Final)
	}
}

// NewValuesCommand creates the values command.
func NewValuesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValuesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "values [history-path]",
		Short: "Print the register value before each event",
		Long: `Replay each history in system-time order and print the register
value in effect immediately before every event, plus the final value.

Examples:
  lightcone values --sample
  lightcone values ./histories --name late_write --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValues(opts, pathArg(args), cmd)
		},
	}

	opts.addFlags(cmd)
	return cmd
}

func runValues(opts *ValuesOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	histories, err := LoadHistories(path, &opts.HistoryOptions)
	if err != nil {
		return reportError(formatter, err)
	}

	results := make(ValuesReport, 0, len(histories))
	for _, h := range histories {
		values := consistency.StoreValues(h.Events)
		ordered := h.Events.BySystemTime()
		steps := make([]StoreStep, len(ordered))
		for i, e := range ordered {
			steps[i] = StoreStep{ID: e.ID, Label: eventLabel(e), SystemTime: e.SystemTime, Before: values[i]}
		}
		results = append(results, ValuesResult{
			Name:   h.Name,
			Values: values,
			Final:  consistency.FinalValue(h.Events),
			Steps:  steps,
		})
	}

	return formatter.Success(results)
}
