package engine

type ProtocolName string
type ProtocolID string

// ProtocolSchema defines the decode contract for a protocol's data
type ProtocolSchema string

type ProtocolMeta struct {
	Name ProtocolName `json:"name"`           // human label
	Tags []string     `json:"tags,omitempty"` // "clmm", "orderbook", etc.
}

type ProtocolState struct {
	Meta ProtocolMeta `json:"meta"`

	// what is the current slot of the protocol's data?
	SyncedSlot *uint64 `json:"syncedSlot,omitempty"`

	// Schema is the decode contract for Data.
	// Example:
	// "fusionamm/poolView@v1"
	Schema ProtocolSchema `json:"schema"`

	// Data is the protocol view, shaped by Schema.
	Data any `json:"data,omitempty"`

	// Error is populated if this protocol is out-of-sync or failed for this slot.
	Error string `json:"error,omitempty"`
}

// SlotSummary contains only the essential slot information for clients.
type SlotSummary struct {
	Slot       uint64 `json:"slot"`
	ParentSlot uint64 `json:"parentSlot"`
	Blockhash  string `json:"blockhash"`
	BlockTime  int64  `json:"blockTime"`
	ReceivedAt int64  `json:"receivedAt"` // The Unix nanosecond timestamp when the engine started processing the slot.
}

// State is the main data structure broadcast to subscribers.
type State struct {
	Cluster   string                       `json:"cluster"`
	Timestamp uint64                       `json:"timestamp"`
	Slot      SlotSummary                  `json:"slot"`
	Protocols map[ProtocolID]ProtocolState `json:"protocols"`
}

func (state *State) HasErrors() bool {
	// Check protocol-level errors
	for _, pr := range state.Protocols {
		if pr.Error != "" {
			return true
		}
	}
	return false
}
