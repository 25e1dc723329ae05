package engine

import "time"

// DecayStats summarizes one maintenance pass.
type DecayStats struct {
	ItemsEvicted     int
	ItemsInflated    int
	ModifiersEvicted int
}

// Decay applies the between-cycle maintenance pass and must run before new
// observations are folded, so inflation only ever touches prices that were
// not re-confirmed this cycle. Items above the value ceiling are left
// untouched. Items and modifiers unseen beyond the retention window are
// evicted; everything else is inflated by the configured increment. A zero
// timestamp counts as fresh.
func (e *Engine) Decay(set RecordSet) DecayStats {
	now := e.clock().Unix()
	window := int64(e.Config.RetentionWindow / time.Second)
	inc := e.Config.PriceIncrement

	var stats DecayStats
	for id, rec := range set {
		if rec.Lbin > e.Config.ValueCeiling {
			continue
		}
		if rec.LastUpdated != 0 && now-rec.LastUpdated > window {
			delete(set, id)
			stats.ItemsEvicted++
			continue
		}
		if rec.Lbin != 0 {
			rec.Lbin += inc
			stats.ItemsInflated++
		}
		stats.ModifiersEvicted += decayModifiers(rec.Modifiers, now, window, inc)
		stats.ModifiersEvicted += decayModifiers(rec.Levels, now, window, inc)
	}
	return stats
}

func decayModifiers(m map[string]*ModifierRecord, now, window int64, inc float64) int {
	evicted := 0
	for name, mod := range m {
		if mod.LastUpdated != 0 && now-mod.LastUpdated > window {
			delete(m, name)
			evicted++
			continue
		}
		mod.Lbin += inc
	}
	return evicted
}

// Clean flattens per-modifier and per-level records to bare prices by
// dropping their freshness bookkeeping. It shapes the outbound payload after
// the cycle's save; the item-level timestamp is kept for the next cycle's
// eviction decision, so Clean must not run on state that is still to be
// persisted.
func Clean(set RecordSet) {
	for _, rec := range set {
		flattenModifiers(rec.Modifiers)
		flattenModifiers(rec.Levels)
	}
}

func flattenModifiers(m map[string]*ModifierRecord) {
	for _, mod := range m {
		mod.LastUpdated = 0
	}
}
