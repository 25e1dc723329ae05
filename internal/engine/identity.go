package engine

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zhenga8533/hsb-economy-api/internal/codec"
)

const (
	petMarker  = "PET"
	runeMarker = "RUNE"
)

type petInfo struct {
	Type string `json:"type"`
	Tier string `json:"tier"`
}

// ResolveIdentity produces the canonical identity string for a decoded item
// descriptor. Pets and runes get composite identities so that, say, a
// LEGENDARY and a COMMON pet of the same type price independently; every
// other item keys on its raw id.
func ResolveIdentity(tag *codec.ItemTag) (string, error) {
	id := tag.ExtraAttributes.ID
	if id == "" {
		return "", errors.New("item tag carries no id")
	}

	switch id {
	case petMarker:
		if tag.ExtraAttributes.PetInfo == "" {
			return "", errors.New("pet item carries no pet info")
		}
		var info petInfo
		if err := json.Unmarshal([]byte(tag.ExtraAttributes.PetInfo), &info); err != nil {
			return "", fmt.Errorf("parse pet info: %w", err)
		}
		if info.Tier == "" || info.Type == "" {
			return "", errors.New("pet info misses tier or type")
		}
		return info.Tier + "_" + info.Type, nil
	case runeMarker:
		for name, level := range tag.ExtraAttributes.Runes {
			return fmt.Sprintf("%s_%d", name, level), nil
		}
		return "", errors.New("rune item carries no rune entry")
	}
	return id, nil
}
