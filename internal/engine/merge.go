package engine

// Merge backfills identities present in supplemental but absent from
// authoritative. Imported records are stamped to now, and any flattened
// modifier or level prices are re-wrapped with a fresh timestamp. Identities
// already in authoritative are never overridden: supplemental data fills
// gaps, it does not undercut live observations. Returns the number of
// records imported.
func (e *Engine) Merge(authoritative, supplemental RecordSet) int {
	now := e.clock().Unix()
	imported := 0
	for id, rec := range supplemental {
		if _, ok := authoritative[id]; ok {
			continue
		}
		rec.LastUpdated = now
		stampModifiers(rec.Modifiers, now)
		stampModifiers(rec.Levels, now)
		authoritative[id] = rec
		imported++
	}
	return imported
}

func stampModifiers(m map[string]*ModifierRecord, now int64) {
	for _, mod := range m {
		mod.LastUpdated = now
	}
}
