package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/defistate/fusionamm-go/protocols/fusionamm"
)

// Snapshot is a decoded pool-state capture, the JSON shape emitted by the
// state engine for one cluster at one slot.
type Snapshot struct {
	Cluster string               `json:"cluster"`
	Slot    uint64               `json:"slot"`
	Pools   []fusionamm.PoolView `json:"pools"`
}

func loadSnapshot(path string) (*Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if len(snap.Pools) == 0 {
		return nil, fmt.Errorf("snapshot %s holds no pools", path)
	}
	return &snap, nil
}

// findPool selects the pool view by address; an empty address is allowed when
// the snapshot holds exactly one pool.
func (s *Snapshot) findPool(address string) (*fusionamm.PoolView, error) {
	if address == "" {
		if len(s.Pools) == 1 {
			return &s.Pools[0], nil
		}
		return nil, fmt.Errorf("snapshot holds %d pools, --pool is required", len(s.Pools))
	}
	for i := range s.Pools {
		if s.Pools[i].Address == address {
			return &s.Pools[i], nil
		}
	}
	return nil, fmt.Errorf("pool %s not found in snapshot", address)
}
