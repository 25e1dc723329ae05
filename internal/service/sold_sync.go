package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/zhenga8533/hsb-economy-api/internal/engine"
	"github.com/zhenga8533/hsb-economy-api/internal/repository"
)

// SoldAuctionService owns the authoritative record set: it decays the
// previous cycle's state, folds the recently sold auctions, backfills
// identities only seen among active listings, persists, and delivers the
// flattened payload downstream.
type SoldAuctionService struct {
	Engine       *engine.Engine
	Store        StateStore
	Feed         AuctionFeed
	Delivery     Sender
	History      repository.HistoryRepository
	Logger       *zap.Logger
	AuctionURL   string
	TrackedItems []string
}

func (s *SoldAuctionService) Run(ctx context.Context) (CycleResult, error) {
	started := time.Now()
	var res CycleResult

	set := engine.RecordSet{}
	if _, err := s.Store.Load(soldStateFile, &set); err != nil {
		return res, err
	}

	// Decay strictly before folding, so inflation only touches prices not
	// re-confirmed this cycle.
	decay := s.Engine.Decay(set)
	res.ItemsEvicted = decay.ItemsEvicted
	res.ModifiersEvicted = decay.ModifiersEvicted

	data, err := s.Feed.EndedAuctions(ctx)
	if err != nil {
		return res, err
	}
	res.Pages = 1
	for _, a := range data.Auctions {
		if !a.BIN {
			continue
		}
		at := time.UnixMilli(a.Timestamp)
		if a.Timestamp == 0 {
			at = time.Now()
		}
		obs, err := buildObservation(a, at)
		if err != nil {
			res.Skipped++
			if s.Logger != nil {
				s.Logger.Debug("auction skipped", zap.String("uuid", a.UUID), zap.Error(err))
			}
			continue
		}
		if err := s.Engine.Fold(set, obs); err != nil {
			res.Skipped++
			if s.Logger != nil {
				s.Logger.Debug("auction skipped", zap.String("uuid", a.UUID), zap.Error(err))
			}
			continue
		}
		res.Observations++
	}

	// Backfill identities with no recent sales from the active listings;
	// existing records are never overridden.
	activeSet := engine.RecordSet{}
	if _, err := s.Store.Load(activeStateFile, &activeSet); err != nil {
		return res, err
	}
	res.MergedIn = s.Engine.Merge(set, activeSet)

	res.Items = len(set)
	if err := s.Store.Save(soldStateFile, set); err != nil {
		return res, err
	}

	// Flatten only after the save: the persisted file keeps modifier
	// timestamps for the next cycle's eviction pass.
	engine.Clean(set)
	if s.Delivery != nil {
		if err := s.Delivery.Send(ctx, s.AuctionURL, set); err != nil && s.Logger != nil {
			s.Logger.Warn("auction delivery failed", zap.Error(err))
		}
	}

	recordCycle(ctx, s.History, s.Logger, "sold", started, res, set, s.TrackedItems)
	if s.Logger != nil {
		s.Logger.Info("sold auctions synced",
			zap.Int("observations", res.Observations),
			zap.Int("skipped", res.Skipped),
			zap.Int("merged_in", res.MergedIn),
			zap.Int("items_evicted", res.ItemsEvicted),
			zap.Int("modifiers_evicted", res.ModifiersEvicted),
			zap.Int("items", res.Items),
		)
	}
	return res, nil
}
