package ir

// Version constants for the document format and engine.
const (
	// DocumentVersion is the emitted document schema version.
	DocumentVersion = "1"

	// EngineVersion is the graphsmith engine version.
	EngineVersion = "0.1.0"
)
