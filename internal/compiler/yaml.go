package compiler

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/lightcone/internal/ir"
)

// DecodeYAML parses a single history from YAML.
//
//	name: sample
//	consistencyLevel: linearizable
//	events:
//	  - {id: 0, clientPid: A, clientOperation: WRITE, opValue: 3, clientSend: 0, clientAck: 10, systemTime: 5}
//	  - {id: 3, clientPid: A, clientOperation: CAS, opValue: [2, 3], clientSend: 30, clientAck: 40, systemTime: 35}
//
// Unknown fields are rejected (catches typos like "clientAk:").
// An omitted consistencyLevel defaults to linearizable, matching the CUE schema.
func DecodeYAML(data []byte) (*ir.History, error) {
	var h ir.History
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&h); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if h.Level == "" {
		h.Level = ir.Linearizable
	}
	return &h, nil
}

// LoadYAML reads and decodes a YAML history file. The file name is used as
// the history name when the document does not set one.
func LoadYAML(path string) (*ir.History, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}
	h, err := DecodeYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if h.Name == "" {
		h.Name = trimExt(path)
	}
	return h, nil
}

func trimExt(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
