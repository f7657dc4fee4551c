package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/lightcone/internal/session"
	"github.com/roach88/lightcone/internal/timeline"
)

// PlayOptions holds flags for the play command.
type PlayOptions struct {
	*RootOptions
	HistoryOptions
	Script string // signal script; "-" or empty reads stdin
	Width  float64
}

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "play [history-path]",
		Short: "Replay a script of gestures through a session",
		Long: `Feed a script of gestures through an interactive session and print the
final snapshot. One gesture per line:

  down <index>        press on the event at index
  move <location>     drag the pressed event
  up                  release
  boost <stretch>     set the stretch factor
  handle <dx> <dy>    drag the basis handle
  level <name>        select a consistency level

Blank lines and lines starting with # are ignored. Rejected gestures are
logged to stderr and the script continues.

Examples:
  lightcone play --sample --script drag.txt
  printf 'down 2\nmove 359\nup\n' | lightcone play --sample`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(opts, pathArg(args), cmd)
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().StringVar(&opts.Script, "script", "-", "gesture script file (- for stdin)")
	cmd.Flags().Float64Var(&opts.Width, "width", timeline.DefaultWidth, "timeline width in location units")

	return cmd
}

func runPlay(opts *PlayOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd)

	h, err := LoadHistory(path, &opts.HistoryOptions)
	if err != nil {
		return reportError(formatter, err)
	}
	space, err := timeline.NewSpace(opts.Width)
	if err != nil {
		return reportError(formatter, &LoadError{Code: ErrCodeInvalidFlag, Message: err.Error()})
	}

	signals, err := readScript(opts.Script, cmd.InOrStdin())
	if err != nil {
		return reportError(formatter, &LoadError{Code: ErrCodeLoadFailed, Message: err.Error()})
	}
	logger.Debug("script loaded", "signals", len(signals))

	s := session.New(h, session.WithSpace(space), session.WithLogger(logger))
	for _, sig := range signals {
		if err := s.Enqueue(sig); err != nil {
			return reportError(formatter, err)
		}
	}
	s.Stop()

	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := s.Run(ctx); err != nil {
		return WrapExitError(ExitFailure, "session interrupted", err)
	}

	view, err := newSnapshotView(s.Snapshot())
	if err != nil {
		return reportError(formatter, err)
	}
	return formatter.Success(view)
}

func readScript(path string, stdin io.Reader) ([]session.Signal, error) {
	if path == "" || path == "-" {
		return session.ParseScript(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening script: %w", err)
	}
	defer f.Close()
	return session.ParseScript(f)
}
