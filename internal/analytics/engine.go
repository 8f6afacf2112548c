package analytics

import (
	"github.com/google/uuid"
)

// DefaultSLATarget is the SLA percentage drawn as the target line.
const DefaultSLATarget = 95.0

// Ranking and chart sizes
const (
	overviewDays       = 10
	overviewTopN       = 5
	delaysDays         = 10
	delaysTopN         = 8
	sellerChartSize    = 10
	cepListSize        = 50
	zoneChartSize      = 8
	rankSellersDelays  = 15
	rankZonesDelays    = 10
	rankSellersVolume  = 15
	historicalSellers  = 10
	defaultPage        = 1
	defaultPageSize    = 50
	defaultHistoryMode = "week"
)

// Engine builds dashboard views. The zero value is not usable; call NewEngine.
type Engine struct {
	slaTarget float64
	newID     func() string
}

// Option configures an Engine
type Option func(*Engine)

// WithSLATarget overrides the target drawn on SLA trend lines.
func WithSLATarget(target float64) Option {
	return func(e *Engine) {
		if target > 0 {
			e.slaTarget = target
		}
	}
}

// WithIDGenerator replaces the uuid generator used for seller, zone and CEP ids.
func WithIDGenerator(gen func() string) Option {
	return func(e *Engine) {
		if gen != nil {
			e.newID = gen
		}
	}
}

// NewEngine creates a view engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		slaTarget: DefaultSLATarget,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SLATarget returns the configured target.
func (e *Engine) SLATarget() float64 {
	return e.slaTarget
}

func (e *Engine) target() *float64 {
	t := e.slaTarget
	return &t
}
