package gormrepository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/zhenga8533/hsb-economy-api/internal/models"
	"github.com/zhenga8533/hsb-economy-api/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) InsertCycleRun(ctx context.Context, run *models.CycleRun) error {
	if s == nil || s.db == nil || run == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(run).Error
}

func (s *Store) InsertItemPriceSnapshots(ctx context.Context, items []models.ItemPriceSnapshot) error {
	if s == nil || s.db == nil || len(items) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).CreateInBatches(items, 100).Error
}

func (s *Store) ListItemPriceHistory(ctx context.Context, params repository.ListHistoryParams) ([]models.ItemPriceSnapshot, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.ItemPriceSnapshot{})
	if itemID := strings.TrimSpace(params.ItemID); itemID != "" {
		query = query.Where("item_id = ?", itemID)
	}
	if params.Since != nil && !params.Since.IsZero() {
		query = query.Where("created_at >= ?", *params.Since)
	}
	limit := params.Limit
	if limit <= 0 || limit > 1000 {
		limit = 200
	}
	var items []models.ItemPriceSnapshot
	if err := query.Order("created_at DESC").Limit(limit).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) LatestCycleRun(ctx context.Context, kind string) (*models.CycleRun, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var run models.CycleRun
	err := s.db.WithContext(ctx).
		Where("kind = ?", kind).
		Order("finished_at DESC").
		First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}
