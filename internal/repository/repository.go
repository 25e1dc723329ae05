package repository

import (
	"context"
	"time"

	"github.com/zhenga8533/hsb-economy-api/internal/models"
)

type ListHistoryParams struct {
	ItemID string
	Since  *time.Time
	Limit  int
}

// HistoryRepository is the optional price-history archive. A nil repository
// disables archiving; callers must tolerate that.
type HistoryRepository interface {
	InsertCycleRun(ctx context.Context, run *models.CycleRun) error
	InsertItemPriceSnapshots(ctx context.Context, items []models.ItemPriceSnapshot) error
	ListItemPriceHistory(ctx context.Context, params ListHistoryParams) ([]models.ItemPriceSnapshot, error)
	LatestCycleRun(ctx context.Context, kind string) (*models.CycleRun, error)
}
