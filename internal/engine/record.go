package engine

import (
	"encoding/json"
	"time"
)

// RecordSet is the full persisted lowest-BIN state, keyed by canonical item
// identity. It is loaded once per cycle, mutated in place, and written back
// atomically.
type RecordSet map[string]*ItemRecord

// ItemRecord holds the running lowest-BIN estimate for one item identity.
// Timestamps are unix seconds; a zero LastUpdated means the record has never
// been stamped (or was flattened) and is treated as fresh by the decay pass.
type ItemRecord struct {
	Lbin        float64                    `json:"lbin"`
	LastUpdated int64                      `json:"timestamp,omitempty"`
	Modifiers   map[string]*ModifierRecord `json:"attributes,omitempty"`
	Combos      map[string]float64         `json:"attribute_combos,omitempty"`
	Levels      map[string]*ModifierRecord `json:"levels,omitempty"`
}

// ModifierRecord is the lowest implied unit price seen for one modifier (or
// pet level) on one identity. On the wire it is either the full
// {"lbin": …, "timestamp": …} object or, once flattened by Clean, a bare
// number.
type ModifierRecord struct {
	Lbin        float64
	LastUpdated int64
}

type modifierWire struct {
	Lbin      float64 `json:"lbin"`
	Timestamp int64   `json:"timestamp"`
}

func (m ModifierRecord) MarshalJSON() ([]byte, error) {
	if m.LastUpdated == 0 {
		return json.Marshal(m.Lbin)
	}
	return json.Marshal(modifierWire{Lbin: m.Lbin, Timestamp: m.LastUpdated})
}

func (m *ModifierRecord) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '{' {
		var w modifierWire
		if err := json.Unmarshal(data, &w); err != nil {
			return err
		}
		m.Lbin = w.Lbin
		m.LastUpdated = w.Timestamp
		return nil
	}
	var price float64
	if err := json.Unmarshal(data, &price); err != nil {
		return err
	}
	*m = ModifierRecord{Lbin: price}
	return nil
}

// Observation is one processed auction entry, discarded after folding.
type Observation struct {
	Identity   string
	Price      float64
	Modifiers  map[string]int
	PetLevel   string
	ObservedAt time.Time
}

func newItemRecord(price float64, ts int64) *ItemRecord {
	return &ItemRecord{
		Lbin:        price,
		LastUpdated: ts,
		Modifiers:   make(map[string]*ModifierRecord),
		Combos:      make(map[string]float64),
		Levels:      make(map[string]*ModifierRecord),
	}
}

// ensureMaps backfills nil sub-maps on records that came off the wire, so the
// fold path never branches on presence.
func (r *ItemRecord) ensureMaps() {
	if r.Modifiers == nil {
		r.Modifiers = make(map[string]*ModifierRecord)
	}
	if r.Combos == nil {
		r.Combos = make(map[string]float64)
	}
	if r.Levels == nil {
		r.Levels = make(map[string]*ModifierRecord)
	}
}
