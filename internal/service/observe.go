package service

import (
	"context"
	"strings"
	"time"

	"github.com/zhenga8533/hsb-economy-api/internal/client/hypixel"
	"github.com/zhenga8533/hsb-economy-api/internal/codec"
	"github.com/zhenga8533/hsb-economy-api/internal/engine"
)

// AuctionFeed is the slice of the feed client the auction cycles need.
type AuctionFeed interface {
	ActiveAuctions(ctx context.Context, page int) (*hypixel.AuctionsPage, error)
	EndedAuctions(ctx context.Context) (*hypixel.AuctionsPage, error)
}

type BazaarFeed interface {
	Bazaar(ctx context.Context) (*hypixel.BazaarReply, error)
}

// Sender delivers a finished payload downstream.
type Sender interface {
	Send(ctx context.Context, url string, items any) error
}

// StateStore is the locked file persistence the cycles load and save through.
type StateStore interface {
	Load(name string, v any) (bool, error)
	Save(name string, v any) error
}

// buildObservation converts one BIN auction into an engine observation.
// A structural error means the one auction is skipped, never the batch.
func buildObservation(a hypixel.Auction, observedAt time.Time) (engine.Observation, error) {
	tag, err := codec.DecodeItemBytes(a.ItemBytes)
	if err != nil {
		return engine.Observation{}, err
	}
	identity, err := engine.ResolveIdentity(tag)
	if err != nil {
		return engine.Observation{}, err
	}

	obs := engine.Observation{
		Identity:   identity,
		Price:      a.SalePrice(),
		Modifiers:  make(map[string]int, len(tag.ExtraAttributes.Attributes)),
		ObservedAt: observedAt,
	}
	for name, tier := range tag.ExtraAttributes.Attributes {
		obs.Modifiers[name] = int(tier)
	}
	if tag.ExtraAttributes.PetInfo != "" {
		obs.PetLevel = petLevel(tag.Display.Name)
	}
	return obs, nil
}

// petLevel pulls the level out of a pet's display name, e.g.
// "§7[Lvl 100] §6Griffin" yields "100".
func petLevel(displayName string) string {
	fields := strings.Fields(displayName)
	if len(fields) < 2 {
		return ""
	}
	level := strings.TrimSuffix(fields[1], "]")
	if level == fields[1] || level == "" {
		return ""
	}
	return level
}
