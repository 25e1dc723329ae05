// Package codec decodes the auction feed's opaque item descriptors:
// base64 → gzip → NBT compound.
package codec

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"fmt"

	"github.com/Tnze/go-mc/nbt"
)

// ItemPayload mirrors the NBT layout of an auction's item_bytes blob: a
// single-element item list under "i".
type ItemPayload struct {
	Items []Item `nbt:"i"`
}

type Item struct {
	Tag ItemTag `nbt:"tag"`
}

type ItemTag struct {
	Display         Display         `nbt:"display"`
	ExtraAttributes ExtraAttributes `nbt:"ExtraAttributes"`
}

type Display struct {
	Name string `nbt:"Name"`
}

// ExtraAttributes is the feed's bag of item-specific fields. PetInfo is a
// nested JSON blob, not NBT.
type ExtraAttributes struct {
	ID         string           `nbt:"id"`
	PetInfo    string           `nbt:"petInfo"`
	Runes      map[string]int32 `nbt:"runes"`
	Attributes map[string]int32 `nbt:"attributes"`
}

// DecodeItemBytes decodes an auction's base64 item payload and returns the
// single item's tag. Any structural failure is returned as an error so the
// caller can skip the one auction and continue its batch.
func DecodeItemBytes(encoded string) (*ItemTag, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("base64 decode item bytes: %w", err)
	}
	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decompress item bytes: %w", err)
	}
	defer zr.Close()

	var payload ItemPayload
	if _, err := nbt.NewDecoder(zr).Decode(&payload); err != nil {
		return nil, fmt.Errorf("parse item nbt: %w", err)
	}
	if len(payload.Items) == 0 {
		return nil, fmt.Errorf("item nbt holds no items")
	}
	return &payload.Items[0].Tag, nil
}
