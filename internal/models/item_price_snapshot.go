package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ItemPriceSnapshot is one tracked item's lbin estimate at the end of a
// cycle, with the flattened attribute prices alongside.
type ItemPriceSnapshot struct {
	ID         uint64          `gorm:"primaryKey;autoIncrement"`
	CycleRunID uint64          `gorm:"not null;index"`
	ItemID     string          `gorm:"type:varchar(120);not null;index"`
	Lbin       decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	Attributes datatypes.JSON  `gorm:"type:jsonb"`
	CreatedAt  time.Time       `gorm:"type:timestamptz;autoCreateTime;index"`
}

func (ItemPriceSnapshot) TableName() string {
	return "item_price_snapshots"
}
