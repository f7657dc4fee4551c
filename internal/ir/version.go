package ir

// Version constants for the history schema and tool.
const (
	// SchemaVersion is the history definition schema version.
	SchemaVersion = "1"

	// ToolVersion is the lightcone version.
	ToolVersion = "0.1.0"
)
