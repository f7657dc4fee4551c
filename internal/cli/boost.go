package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/roach88/lightcone/internal/frame"
	"github.com/roach88/lightcone/internal/session"
)

// BoostOptions holds flags for the boost command.
type BoostOptions struct {
	*RootOptions
	HistoryOptions
	Stretch float64
}

// NewBoostCommand creates the boost command.
func NewBoostCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BoostOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "boost [history-path]",
		Short: "View a history from a moving reference frame",
		Long: `Reproject every event's system time into the reference frame given
by a stretch factor and check the boosted history.

A stretch of 1 is the rest frame. Values below 1 contract and read as a
negative velocity; values from sqrt(2) up sit on the light cone.

Examples:
  lightcone boost --sample --stretch 0.5
  lightcone boost history.cue --name late_write --stretch 1.2 --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBoost(opts, pathArg(args), cmd)
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().Float64Var(&opts.Stretch, "stretch", frame.IdentityStretch, "stretch factor (>= 0)")

	return cmd
}

func runBoost(opts *BoostOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	h, err := LoadHistory(path, &opts.HistoryOptions)
	if err != nil {
		return reportError(formatter, err)
	}

	s := session.New(h, session.WithLogger(newLogger(opts.RootOptions, cmd)))
	if _, err := s.Apply(session.Boost{Stretch: opts.Stretch}); err != nil {
		code := ErrCodeRejected
		if errors.Is(err, frame.ErrInvalidStretch) {
			code = ErrCodeInvalidFlag
		}
		return reportError(formatter, &LoadError{Code: code, Message: err.Error()})
	}

	view, err := newSnapshotView(s.Snapshot())
	if err != nil {
		return reportError(formatter, err)
	}
	return formatter.Success(view)
}
