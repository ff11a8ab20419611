package finality

import "time"

// Config holds the thresholds governing promotion between finality states.
type Config struct {
	// MinAnchorConfirmations is the number of distinct anchors that must
	// transitively reference a string before it may finalize.
	MinAnchorConfirmations int
	// MinTestimonies is the number of accepted testimonies (cryptographic
	// or AI) a string must accumulate before it may finalize.
	MinTestimonies int
	// FinalityTimeout bounds how long a string may remain non-terminal
	// before ProcessExpirations moves it to Expired.
	FinalityTimeout time.Duration
	// RequireParentFinality, when true, blocks a string from reaching
	// Final until every one of its parents is also Final.
	RequireParentFinality bool
}

// DefaultConfig returns conservative defaults suitable for a single-region
// deployment; production callers are expected to tune these against their
// own validator count and network latency.
func DefaultConfig() Config {
	return Config{
		MinAnchorConfirmations: 2,
		MinTestimonies:         1,
		FinalityTimeout:        30 * time.Second,
		RequireParentFinality:  true,
	}
}
