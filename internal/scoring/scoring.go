// Package scoring converts activity submissions into point values and point
// values into token amounts. Everything here is pure; the only side effects
// are the unknown-subtype warning log and counter.
package scoring

import (
	"log"
	"math"

	"example.com/rewards/internal/domain"
)

// Calculator scores submissions against an immutable multiplier table.
type Calculator struct {
	table  Multipliers
	logger *log.Logger
}

// Option configures optional Calculator behaviour.
type Option func(*Calculator)

// WithLogger overrides the logger used for subtype warnings.
func WithLogger(logger *log.Logger) Option {
	return func(c *Calculator) {
		c.logger = logger
	}
}

// NewCalculator constructs a Calculator over the given table.
func NewCalculator(table Multipliers, opts ...Option) *Calculator {
	c := &Calculator{
		table:  table,
		logger: log.New(log.Writer(), "[scoring] ", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Score maps one submission to a non-negative point total.
//
// An unrecognized sub-category is not an error: it falls back to the neutral
// multiplier 1.0 so a new subtype never zeroes out legitimate activity. The
// fallback is logged as a warning and counted.
func (c *Calculator) Score(sub domain.ActivitySubmission) (int64, error) {
	if err := sub.Validate(); err != nil {
		return 0, err
	}

	raw, subtype := rawScore(sub)
	subMult, known := c.table.subtypeFor(sub.Type, subtype)
	if !known {
		c.logger.Printf("warning: unknown subtype %q for %s, using neutral multiplier", subtype, sub.Type)
		recordUnknownSubtype(sub.Type)
	}

	// One floor over the fully combined value.
	points := math.Floor(raw * subMult * c.table.globalFor(sub.Type))
	if points < 0 {
		points = 0
	}
	return int64(points), nil
}
