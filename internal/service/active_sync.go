package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/zhenga8533/hsb-economy-api/internal/engine"
	"github.com/zhenga8533/hsb-economy-api/internal/repository"
)

const (
	activeStateFile     = "auction_active.json"
	soldStateFile       = "auction.json"
	activeWatermarkFile = "auction_active_watermark.json"
)

// CycleResult summarizes one ingestion cycle.
type CycleResult struct {
	Pages            int
	Observations     int
	Skipped          int
	Items            int
	ItemsEvicted     int
	ModifiersEvicted int
	MergedIn         int
}

// ActiveAuctionService folds currently listed BIN auctions into the active
// record set. Paging is bounded and short-circuits at the previous run's
// watermark, so each run only walks auctions it has not seen.
type ActiveAuctionService struct {
	Engine       *engine.Engine
	Store        StateStore
	Feed         AuctionFeed
	History      repository.HistoryRepository
	Logger       *zap.Logger
	MaxPages     int
	TrackedItems []string
}

func (s *ActiveAuctionService) Run(ctx context.Context) (CycleResult, error) {
	started := time.Now()
	var res CycleResult

	var watermark int64
	if _, err := s.Store.Load(activeWatermarkFile, &watermark); err != nil {
		return res, err
	}

	set := engine.RecordSet{}
	if _, err := s.Store.Load(activeStateFile, &set); err != nil {
		return res, err
	}

	decay := s.Engine.Decay(set)
	res.ItemsEvicted = decay.ItemsEvicted
	res.ModifiersEvicted = decay.ModifiersEvicted

	first, err := s.Feed.ActiveAuctions(ctx, 0)
	if err != nil {
		return res, err
	}
	pages := first.TotalPages
	if s.MaxPages > 0 && pages > s.MaxPages {
		pages = s.MaxPages
	}

	// The newest BIN on page 0 becomes the next run's watermark.
	newWatermark := watermark
	for _, a := range first.Auctions {
		if a.BIN {
			if a.Start > newWatermark {
				newWatermark = a.Start
			}
			break
		}
	}

	now := time.Now()
	caughtUp := false
	for page := 0; page < pages && !caughtUp; page++ {
		data := first
		if page > 0 {
			if data, err = s.Feed.ActiveAuctions(ctx, page); err != nil {
				return res, err
			}
		}
		res.Pages++
		for _, a := range data.Auctions {
			if !a.BIN {
				continue
			}
			if watermark > 0 && a.Start <= watermark {
				caughtUp = true
				break
			}
			obs, err := buildObservation(a, now)
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
	}

	res.Items = len(set)
	if err := s.Store.Save(activeStateFile, set); err != nil {
		return res, err
	}
	if err := s.Store.Save(activeWatermarkFile, newWatermark); err != nil {
		return res, err
	}

	recordCycle(ctx, s.History, s.Logger, "active", started, res, set, s.TrackedItems)
	if s.Logger != nil {
		s.Logger.Info("active auctions synced",
			zap.Int("pages", res.Pages),
			zap.Int("observations", res.Observations),
			zap.Int("skipped", res.Skipped),
			zap.Int("items", res.Items),
		)
	}
	return res, nil
}
