package models

import "time"

// CycleRun records one ingestion cycle for the optional history archive.
type CycleRun struct {
	ID               uint64    `gorm:"primaryKey;autoIncrement"`
	Kind             string    `gorm:"type:varchar(20);not null;index"`
	StartedAt        time.Time `gorm:"type:timestamptz;not null"`
	FinishedAt       time.Time `gorm:"type:timestamptz;not null;index"`
	Pages            int       `gorm:"not null;default:0"`
	Observations     int       `gorm:"not null;default:0"`
	Skipped          int       `gorm:"not null;default:0"`
	Items            int       `gorm:"not null;default:0"`
	ItemsEvicted     int       `gorm:"not null;default:0"`
	ModifiersEvicted int       `gorm:"not null;default:0"`
	MergedIn         int       `gorm:"not null;default:0"`
}

func (CycleRun) TableName() string {
	return "cycle_runs"
}
