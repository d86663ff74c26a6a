package differ

import "github.com/defistate/fusionamm-go/engine"

// Logger defines a standard interface for structured, leveled logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type ProtocolDiff struct {
	Meta engine.ProtocolMeta `json:"meta"`

	// what is the current slot of the protocol's data?
	SyncedSlot *uint64 `json:"syncedSlot,omitempty"`

	// Schema is the decode contract for Data.
	// Examples:
	// "fusionamm/poolView@v1"
	Schema engine.ProtocolSchema `json:"schema"`

	// Data is the protocol diff, shaped by Schema.
	Data any `json:"data,omitempty"`

	// Error is populated if this protocol is out-of-sync or failed for this slot.
	Error string `json:"error,omitempty"`
}

// --
// StateDiff represents a summary of changes FromSlot to ToSlot.
type StateDiff struct {
	Timestamp uint64                             `json:"timestamp"`
	FromSlot  uint64                             `json:"fromSlot"`
	ToSlot    engine.SlotSummary                 `json:"toSlot"`
	Protocols map[engine.ProtocolID]ProtocolDiff `json:"protocols"`
}
