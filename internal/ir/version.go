package ir

// Version constants for the rule-set schema and engine.
const (
	// IRVersion is the rule-set schema version.
	IRVersion = "1"

	// EngineVersion is the fizzbuzz engine version.
	EngineVersion = "0.1.0"
)
