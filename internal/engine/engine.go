package engine

import "time"

// Config carries the engine's tunables. Zero fields are replaced with the
// defaults below by New.
type Config struct {
	// RetentionWindow is how long an unseen item or modifier survives
	// before the decay pass evicts it.
	RetentionWindow time.Duration
	// PriceIncrement is added to every price not re-confirmed this cycle,
	// modelling passive market drift.
	PriceIncrement float64
	// ValueCeiling exempts very expensive items from decay and eviction
	// entirely; their listings are too sparse for freshness to mean much.
	ValueCeiling float64
	// TolerancePct is the relative tolerance under which a worse price
	// still counts as corroborating evidence and refreshes the timestamp.
	TolerancePct float64
	// ComboTierCap disqualifies an item from combo tracking when any of
	// its modifiers exceeds this tier; rare high-tier rolls would
	// otherwise dominate combo pricing.
	ComboTierCap int
}

const (
	defaultRetentionWindow = 7 * 24 * time.Hour
	defaultPriceIncrement  = 1_000
	defaultValueCeiling    = 100_000_000
	defaultTolerancePct    = 0.05
	defaultComboTierCap    = 5
)

func DefaultConfig() Config {
	return Config{
		RetentionWindow: defaultRetentionWindow,
		PriceIncrement:  defaultPriceIncrement,
		ValueCeiling:    defaultValueCeiling,
		TolerancePct:    defaultTolerancePct,
		ComboTierCap:    defaultComboTierCap,
	}
}

// Engine folds auction observations into a RecordSet and applies the
// between-cycle maintenance passes. All methods are synchronous and touch
// only the set they are handed; callers own locking and persistence.
type Engine struct {
	Config Config
	// Now is the clock used for stamping and staleness checks,
	// overridable in tests.
	Now func() time.Time
}

func New(cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.RetentionWindow <= 0 {
		cfg.RetentionWindow = def.RetentionWindow
	}
	if cfg.PriceIncrement <= 0 {
		cfg.PriceIncrement = def.PriceIncrement
	}
	if cfg.ValueCeiling <= 0 {
		cfg.ValueCeiling = def.ValueCeiling
	}
	if cfg.TolerancePct <= 0 {
		cfg.TolerancePct = def.TolerancePct
	}
	if cfg.ComboTierCap <= 0 {
		cfg.ComboTierCap = def.ComboTierCap
	}
	return &Engine{Config: cfg, Now: time.Now}
}

func (e *Engine) clock() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}
