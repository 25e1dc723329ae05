package engine

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDecay_RetentionEviction(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	e := testEngine(now)

	set := RecordSet{
		"ITEM": {
			Lbin:        1_000_000,
			LastUpdated: now.Unix(),
			Modifiers: map[string]*ModifierRecord{
				"stale": {Lbin: 500, LastUpdated: now.Add(-8 * 24 * time.Hour).Unix()},
				"fresh": {Lbin: 700, LastUpdated: now.Add(-6 * 24 * time.Hour).Unix()},
			},
		},
	}

	stats := e.Decay(set)
	rec := set["ITEM"]
	if _, ok := rec.Modifiers["stale"]; ok {
		t.Fatal("stale modifier survived the retention window")
	}
	fresh, ok := rec.Modifiers["fresh"]
	if !ok {
		t.Fatal("fresh modifier evicted")
	}
	if fresh.Lbin != 1_700 {
		t.Fatalf("fresh modifier lbin=%v want=1700", fresh.Lbin)
	}
	if stats.ModifiersEvicted != 1 {
		t.Fatalf("modifiers evicted=%d want=1", stats.ModifiersEvicted)
	}
}

func TestDecay_ItemEvictionAndInflation(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	e := testEngine(now)

	set := RecordSet{
		"STALE":  {Lbin: 2_000_000, LastUpdated: now.Add(-8 * 24 * time.Hour).Unix()},
		"LIVING": {Lbin: 2_000_000, LastUpdated: now.Add(-1 * 24 * time.Hour).Unix()},
	}

	stats := e.Decay(set)
	if _, ok := set["STALE"]; ok {
		t.Fatal("stale item survived the retention window")
	}
	if got := set["LIVING"].Lbin; got != 2_001_000 {
		t.Fatalf("living lbin=%v want=2001000", got)
	}
	if stats.ItemsEvicted != 1 || stats.ItemsInflated != 1 {
		t.Fatalf("stats=%+v want 1 evicted, 1 inflated", stats)
	}
}

func TestDecay_CeilingExemption(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	e := testEngine(now)

	set := RecordSet{
		"MUSEUM_PIECE": {Lbin: 200_000_000, LastUpdated: now.Add(-30 * 24 * time.Hour).Unix()},
	}

	e.Decay(set)
	rec, ok := set["MUSEUM_PIECE"]
	if !ok {
		t.Fatal("high-value item evicted")
	}
	if rec.Lbin != 200_000_000 {
		t.Fatalf("high-value item inflated: %v want=200000000", rec.Lbin)
	}
}

func TestDecay_ZeroTimestampIsFresh(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	e := testEngine(now)

	set := RecordSet{
		"MERGED": {
			Lbin: 5_000,
			Modifiers: map[string]*ModifierRecord{
				"flat": {Lbin: 100},
			},
		},
	}

	e.Decay(set)
	rec, ok := set["MERGED"]
	if !ok {
		t.Fatal("unstamped item evicted")
	}
	if rec.Lbin != 6_000 {
		t.Fatalf("lbin=%v want=6000", rec.Lbin)
	}
	if got := rec.Modifiers["flat"].Lbin; got != 1_100 {
		t.Fatalf("flat modifier lbin=%v want=1100", got)
	}
}

func TestClean_FlattensModifiersOnWire(t *testing.T) {
	set := RecordSet{
		"ITEM": {
			Lbin:        1_000,
			LastUpdated: 1_700_000_000,
			Modifiers: map[string]*ModifierRecord{
				"veteran": {Lbin: 250, LastUpdated: 1_700_000_000},
			},
		},
	}

	Clean(set)
	data, err := json.Marshal(set)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var wire map[string]struct {
		Lbin       float64            `json:"lbin"`
		Timestamp  int64              `json:"timestamp"`
		Attributes map[string]float64 `json:"attributes"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		t.Fatalf("flattened payload not bare numbers: %v", err)
	}
	if got := wire["ITEM"].Attributes["veteran"]; got != 250 {
		t.Fatalf("veteran=%v want=250", got)
	}
	if wire["ITEM"].Timestamp != 1_700_000_000 {
		t.Fatalf("item timestamp=%d want=1700000000", wire["ITEM"].Timestamp)
	}
}
