package service

import (
	"context"

	"go.uber.org/zap"
)

// BazaarService reduces the bazaar product feed to per-product
// [instant-sell, instant-buy] pairs and delivers them. No persistence and no
// decay: the bazaar always quotes every product.
type BazaarService struct {
	Feed      BazaarFeed
	Delivery  Sender
	Logger    *zap.Logger
	BazaarURL string
}

func (s *BazaarService) Run(ctx context.Context) (int, error) {
	reply, err := s.Feed.Bazaar(ctx)
	if err != nil {
		return 0, err
	}

	products := make(map[string][2]float64, len(reply.Products))
	for id, product := range reply.Products {
		products[id] = [2]float64{
			product.QuickStatus.SellPrice,
			product.QuickStatus.BuyPrice,
		}
	}

	if s.Delivery != nil {
		if err := s.Delivery.Send(ctx, s.BazaarURL, products); err != nil && s.Logger != nil {
			s.Logger.Warn("bazaar delivery failed", zap.Error(err))
		}
	}
	if s.Logger != nil {
		s.Logger.Info("bazaar synced", zap.Int("products", len(products)))
	}
	return len(products), nil
}
