// Package numerator provides domain contracts for order auto-numbering.
package numerator

// Strategy defines the numbering generation strategy.
type Strategy int

const (
	// StrategyStrict uses UPSERT ... RETURNING for every number.
	// Numbers are sequential without gaps.
	StrategyStrict Strategy = iota

	// StrategyCached reserves ranges of numbers in memory.
	// Faster, but a restart leaves gaps.
	StrategyCached
)

// Options configures number generation.
type Options struct {
	Strategy Strategy
	// RangeSize is the number of values reserved at once by StrategyCached.
	// Default is 50.
	RangeSize int64
}

// DefaultOptions returns strict numbering.
func DefaultOptions() *Options {
	return &Options{Strategy: StrategyStrict}
}

// Config holds numbering configuration.
type Config struct {
	// Prefix leads every number ("ORD").
	Prefix string

	// DateLayout is a time layout rendered between prefix and sequence.
	// The sequence starts over whenever the rendered date changes. Empty
	// omits the date part and never resets.
	DateLayout string

	// PadWidth is the minimum sequence width (default 4).
	PadWidth int
}

// OrderConfig returns the sales order scheme: PREFIX-YYYYMMDD-NNNN, reset daily.
func OrderConfig(prefix string) Config {
	return Config{
		Prefix:     prefix,
		DateLayout: "20060102",
		PadWidth:   4,
	}
}
