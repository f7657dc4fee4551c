package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"cuelang.org/go/cue/token"
	"github.com/spf13/cobra"

	"github.com/roach88/lightcone/internal/compiler"
	"github.com/roach88/lightcone/internal/ir"
	"github.com/roach88/lightcone/internal/testutil"
)

// Error code constants - unified across all CLI commands.
// History validation codes (E120-E127) come from compiler.Validate.
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeNoInput      = "E002" // Neither a path nor --sample given
	ErrCodeNoHistories  = "E003" // Path holds no histories
	ErrCodeLoadFailed   = "E004" // CUE/YAML load or compile failed
	ErrCodeNotFound     = "E005" // Path or history name not found
	ErrCodeAmbiguous    = "E006" // Several histories, none selected
	ErrCodeInvalidFlag  = "E007" // Flag value out of range
	ErrCodeInvalidInput = "E008" // History fails ingestion validation
	ErrCodeRejected     = "E009" // Gesture rejected by the session
)

// LoadError represents an error that occurred while loading histories.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available

	// Validation holds ingestion errors for ErrCodeInvalidInput.
	Validation []compiler.ValidationError
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.positioned())
}

// positioned prefixes Message with the CUE position when there is one.
func (e *LoadError) positioned() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Message)
	}
	return e.Message
}

// HistoryOptions are the flags shared by commands that read histories.
type HistoryOptions struct {
	Sample bool   // use the built-in sample history
	Name   string // select one history by name
	Level  string // override the history's consistency level
}

func (o *HistoryOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.Sample, "sample", false, "use the built-in sample history")
	cmd.Flags().StringVar(&o.Name, "name", "", "select a history by name")
	cmd.Flags().StringVar(&o.Level, "level", "", "consistency level (linearizable|sequential|serializable)")
}

// LoadHistories resolves the histories a command operates on: the sample
// when --sample is set, otherwise every history at path (narrowed by
// --name). Each result is checked with compiler.Validate; the first
// invalid history fails the whole load.
func LoadHistories(path string, opts *HistoryOptions) ([]ir.History, error) {
	var (
		histories []ir.History
		err       error
	)
	switch {
	case opts.Sample:
		histories = []ir.History{testutil.SampleHistory()}
	case path == "":
		return nil, &LoadError{Code: ErrCodeNoInput, Message: "a history path or --sample is required"}
	default:
		histories, err = compiler.LoadHistories(path)
		if err != nil {
			return nil, convertLoadError(err)
		}
	}

	if opts.Name != "" {
		histories, err = selectByName(histories, opts.Name)
		if err != nil {
			return nil, err
		}
	}

	if opts.Level != "" {
		level, err := ir.ParseConsistencyLevel(opts.Level)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeInvalidFlag, Message: err.Error()}
		}
		for i := range histories {
			histories[i] = histories[i].WithLevel(level)
		}
	}

	for _, h := range histories {
		if errs := compiler.Validate(h); len(errs) > 0 {
			return nil, &LoadError{
				Code:       ErrCodeInvalidInput,
				Message:    fmt.Sprintf("history %q is invalid: %d error(s)", h.Name, len(errs)),
				Validation: errs,
			}
		}
	}
	return histories, nil
}

// LoadHistory is LoadHistories for commands that need exactly one history.
func LoadHistory(path string, opts *HistoryOptions) (ir.History, error) {
	histories, err := LoadHistories(path, opts)
	if err != nil {
		return ir.History{}, err
	}
	if len(histories) > 1 {
		names := make([]string, len(histories))
		for i, h := range histories {
			names[i] = h.Name
		}
		return ir.History{}, &LoadError{
			Code:    ErrCodeAmbiguous,
			Message: fmt.Sprintf("%d histories found (%s): select one with --name", len(histories), strings.Join(names, ", ")),
		}
	}
	return histories[0], nil
}

func selectByName(histories []ir.History, name string) ([]ir.History, error) {
	for _, h := range histories {
		if h.Name == name {
			return []ir.History{h}, nil
		}
	}
	return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("no history named %q", name)}
}

// convertLoadError maps a compiler error to a LoadError with position info.
func convertLoadError(err error) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    ErrCodeLoadFailed,
			Message: fmt.Sprintf("%s: %s", compileErr.Field, compileErr.Message),
			Pos:     compileErr.Pos,
		}
	}
	if errors.Is(err, fs.ErrNotExist) {
		return &LoadError{Code: ErrCodeNotFound, Message: err.Error()}
	}
	if errors.Is(err, compiler.ErrNoHistories) {
		return &LoadError{Code: ErrCodeNoHistories, Message: err.Error()}
	}
	return &LoadError{Code: ErrCodeLoadFailed, Message: err.Error()}
}

// reportError writes err through the formatter and converts it to an
// ExitError. Load errors exit with ExitCommandError.
func reportError(f *OutputFormatter, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		if f.isJSON() {
			var details any
			if len(loadErr.Validation) > 0 {
				details = loadErr.Validation
			}
			_ = f.Error(loadErr.Code, loadErr.positioned(), details)
		} else {
			_ = f.Error(loadErr.Code, loadErr.positioned(), nil)
			for _, v := range loadErr.Validation {
				fmt.Fprintf(f.Writer, "  %s\n", v.Error())
			}
		}
		return WrapExitError(ExitCommandError, "failed to load history", err)
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		_ = f.Error(ErrCodeGeneric, exitErr.Error(), nil)
		return exitErr
	}
	_ = f.Error(ErrCodeGeneric, err.Error(), nil)
	return WrapExitError(ExitCommandError, "command failed", err)
}
