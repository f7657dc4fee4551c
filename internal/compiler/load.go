package compiler

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/roach88/lightcone/internal/ir"
)

// ErrNoHistories is returned when a path holds no .cue, .yaml or .yml file.
var ErrNoHistories = errors.New("no history files found")

// LoadHistories reads every history at path. A .cue file or a directory of
// .cue files is compiled as one CUE instance; .yaml and .yml files each hold
// one history. A directory may mix both. Only the top level of a directory
// is scanned.
//
// Results are sorted by name. Two histories with the same name are an error.
func LoadHistories(path string) ([]ir.History, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("history path: %w", err)
	}

	var cueFiles, yamlFiles []string
	if info.IsDir() {
		cueFiles, yamlFiles, err = scanDir(path)
		if err != nil {
			return nil, err
		}
	} else {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".cue":
			cueFiles = []string{path}
		case ".yaml", ".yml":
			yamlFiles = []string{path}
		default:
			return nil, fmt.Errorf("%s: unsupported history file type", path)
		}
	}
	if len(cueFiles) == 0 && len(yamlFiles) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoHistories, path)
	}

	var out []ir.History
	if len(cueFiles) > 0 {
		hs, err := loadCUE(cueFiles)
		if err != nil {
			return nil, err
		}
		out = append(out, hs...)
	}
	for _, f := range yamlFiles {
		h, err := LoadYAML(f)
		if err != nil {
			return nil, err
		}
		out = append(out, *h)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	for i := 1; i < len(out); i++ {
		if out[i].Name == out[i-1].Name {
			return nil, fmt.Errorf("duplicate history name %q", out[i].Name)
		}
	}
	return out, nil
}

func scanDir(dir string) (cueFiles, yamlFiles []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("error scanning directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		p := filepath.Join(dir, entry.Name())
		switch strings.ToLower(filepath.Ext(p)) {
		case ".cue":
			cueFiles = append(cueFiles, p)
		case ".yaml", ".yml":
			yamlFiles = append(yamlFiles, p)
		}
	}
	return cueFiles, yamlFiles, nil
}

// loadCUE builds files (all in one directory) as a single instance and
// compiles its "history" field.
func loadCUE(files []string) ([]ir.History, error) {
	cfg := &load.Config{Dir: filepath.Dir(files[0])}
	args := make([]string, len(files))
	for i, f := range files {
		args[i] = filepath.Base(f)
	}

	instances := load.Instances(args, cfg)
	if len(instances) == 0 {
		return nil, fmt.Errorf("no CUE instances loaded")
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, formatCUEError(inst.Err)
	}

	value := cuecontext.New().BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return CompileHistories(value)
}
