package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/zhenga8533/hsb-economy-api/internal/engine"
	"github.com/zhenga8533/hsb-economy-api/internal/models"
	"github.com/zhenga8533/hsb-economy-api/internal/repository"
)

// recordCycle archives a cycle run and the tracked items' estimates. The
// archive is best-effort; failures are logged, never fatal to the cycle.
func recordCycle(ctx context.Context, repo repository.HistoryRepository, logger *zap.Logger, kind string, started time.Time, res CycleResult, set engine.RecordSet, tracked []string) {
	if repo == nil {
		return
	}
	run := &models.CycleRun{
		Kind:             kind,
		StartedAt:        started,
		FinishedAt:       time.Now(),
		Pages:            res.Pages,
		Observations:     res.Observations,
		Skipped:          res.Skipped,
		Items:            res.Items,
		ItemsEvicted:     res.ItemsEvicted,
		ModifiersEvicted: res.ModifiersEvicted,
		MergedIn:         res.MergedIn,
	}
	if err := repo.InsertCycleRun(ctx, run); err != nil {
		if logger != nil {
			logger.Warn("archive cycle run failed", zap.String("kind", kind), zap.Error(err))
		}
		return
	}

	snaps := make([]models.ItemPriceSnapshot, 0, len(tracked))
	for _, id := range tracked {
		rec, ok := set[id]
		if !ok {
			continue
		}
		attrs := make(map[string]float64, len(rec.Modifiers))
		for name, mod := range rec.Modifiers {
			attrs[name] = mod.Lbin
		}
		raw, err := json.Marshal(attrs)
		if err != nil {
			continue
		}
		snaps = append(snaps, models.ItemPriceSnapshot{
			CycleRunID: run.ID,
			ItemID:     id,
			Lbin:       decimal.NewFromFloat(rec.Lbin),
			Attributes: datatypes.JSON(raw),
		})
	}
	if err := repo.InsertItemPriceSnapshots(ctx, snaps); err != nil && logger != nil {
		logger.Warn("archive item snapshots failed", zap.String("kind", kind), zap.Error(err))
	}
}
