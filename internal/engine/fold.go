package engine

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// armorFamilies are the item-id prefixes whose pieces share an attribute
// market; modifier prices observed on FAMILY_PIECE items are rolled up onto
// the bare PIECE record as well.
var armorFamilies = map[string]struct{}{
	"FERVOR":  {},
	"AURORA":  {},
	"TERROR":  {},
	"CRIMSON": {},
	"HOLLOW":  {},
	"MOLTEN":  {},
}

const minComboModifiers = 2

// Fold folds one auction observation into the record set: whole-item lbin,
// per-modifier implied prices, combo tracking, pet levels and the armor-piece
// rollup. Out-of-contract inputs (empty identity, non-positive price, tier
// below 1) return an error so the caller can skip the one observation and
// continue the batch.
func (e *Engine) Fold(set RecordSet, obs Observation) error {
	if obs.Identity == "" {
		return errors.New("observation has no identity")
	}
	if obs.Price <= 0 {
		return fmt.Errorf("observation price must be positive, got %v", obs.Price)
	}
	at := obs.ObservedAt
	if at.IsZero() {
		at = e.clock()
	}
	ts := at.Unix()
	tol := e.Config.TolerancePct

	// Validate every modifier before touching the set, so a bad tier
	// leaves no partial fold behind.
	names := make([]string, 0, len(obs.Modifiers))
	for name := range obs.Modifiers {
		names = append(names, name)
	}
	sort.Strings(names)

	candidates := make(map[string]float64, len(names))
	qualifying := true
	for _, name := range names {
		tier := obs.Modifiers[name]
		if tier > e.Config.ComboTierCap {
			qualifying = false
		}
		candidate, err := ModifierPrice(obs.Price, tier)
		if err != nil {
			return fmt.Errorf("modifier %s: %w", name, err)
		}
		candidates[name] = candidate
	}

	rec := set[obs.Identity]
	if rec == nil {
		rec = newItemRecord(obs.Price, ts)
		set[obs.Identity] = rec
	} else {
		rec.ensureMaps()
		if obs.Price < rec.Lbin {
			rec.Lbin = obs.Price
			rec.LastUpdated = ts
		} else if withinPct(obs.Price, rec.Lbin, tol) {
			rec.LastUpdated = ts
		}
	}

	for _, name := range names {
		foldModifier(rec.Modifiers, name, candidates[name], ts, tol)
		e.foldArmorPiece(set, obs.Identity, name, candidates[name], ts)
	}

	if qualifying && len(names) >= minComboModifiers {
		key := strings.Join(names, " ")
		if cur, ok := rec.Combos[key]; !ok || obs.Price < cur {
			rec.Combos[key] = obs.Price
		}
	}

	if obs.PetLevel != "" {
		foldModifier(rec.Levels, obs.PetLevel, obs.Price, ts, tol)
	}
	return nil
}

// foldModifier applies the per-modifier update rule: a price at or below the
// stored one replaces it and refreshes the timestamp; a price within
// tolerance only refreshes the timestamp; anything worse is ignored.
func foldModifier(m map[string]*ModifierRecord, name string, candidate float64, ts int64, tol float64) {
	cur, ok := m[name]
	if !ok || candidate <= cur.Lbin {
		m[name] = &ModifierRecord{Lbin: candidate, LastUpdated: ts}
		return
	}
	if withinPct(candidate, cur.Lbin, tol) {
		cur.LastUpdated = ts
	}
}

func (e *Engine) foldArmorPiece(set RecordSet, identity, name string, candidate float64, ts int64) {
	family, piece, ok := strings.Cut(identity, "_")
	if !ok || piece == "" {
		return
	}
	if _, ok := armorFamilies[family]; !ok {
		return
	}
	rec := set[piece]
	if rec == nil {
		rec = newItemRecord(0, 0)
		set[piece] = rec
	} else {
		rec.ensureMaps()
	}
	foldModifier(rec.Modifiers, name, candidate, ts, e.Config.TolerancePct)
}
