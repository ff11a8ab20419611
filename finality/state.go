// Package finality implements the finality state machine (spec §4.3,
// component C3): every string starts Pending, may pass through Tentative,
// and settles in exactly one terminal state (Final, Rejected, Expired).
// Transitions are monotonic — a string never leaves a terminal state, and
// Pending never follows Tentative.
//
// Grounded on original_source/crates/rope-consensus/src/finality_engine.rs
// for the transition rules and the payload each state carries, and on the
// vocabulary of the teacher's confidence/threshold packages
// (RecordPoll/Finalized) generalized here into anchor-confirmation and
// testimony-count driven promotion.
package finality

import (
	"time"

	"github.com/latticenet/core/ids"
)

// State is a string's position in the finality state machine.
type State byte

const (
	// Pending is the initial state of every registered string.
	Pending State = iota
	// Tentative is reached once an anchor confirmation or a testimony-count
	// update leaves the string with a positive confidence score, but it has
	// not yet accumulated enough anchor confirmations and testimonies to
	// finalize.
	Tentative
	// Final is a terminal state: the string has accumulated the configured
	// minimum anchor confirmations and testimonies, and (if required) every
	// parent is also Final.
	Final
	// Rejected is a terminal state reached when a string is explicitly
	// rejected (e.g. a conflicting testimony, an invalid parent chain).
	Rejected
	// Expired is a terminal state reached when a string sits in Pending or
	// Tentative past its finality timeout without accumulating enough
	// confirmations to finalize.
	Expired
)

func (s State) String() string {
	switch s {
	case Pending:
		return "Pending"
	case Tentative:
		return "Tentative"
	case Final:
		return "Final"
	case Rejected:
		return "Rejected"
	case Expired:
		return "Expired"
	default:
		return "Unknown"
	}
}

// Terminal reports whether s is one a string can never leave.
func (s State) Terminal() bool {
	return s == Final || s == Rejected || s == Expired
}

// StateInfo is the payload-carrying snapshot of a string's finality state,
// mirroring finality_engine.rs's FinalityState enum variants:
// Tentative{anchor_confirmations, testimony_count, confidence},
// Final{anchor_id, finalized_at, total_testimonies}, Rejected{reason,
// rejected_at}, Expired{expired_at}. Only the fields relevant to State are
// meaningful; the others are left at their zero value.
type StateInfo struct {
	State State

	// AnchorConfirmations, TestimonyCount and Confidence are populated when
	// State == Tentative (and remain at their last Tentative values once a
	// string reaches Final). Confidence is the 0-99 score computed by
	// calculate_confidence: 40*min(anchors/MinAnchorConfirmations,1) +
	// 40*min(testimonies/MinTestimonies,1) + 20*[parents final], capped at
	// 99 until the string actually finalizes.
	AnchorConfirmations int
	TestimonyCount      int
	Confidence          float64

	// FinalAnchorID, FinalizedAt and TotalTestimonies are populated when
	// State == Final: the anchor whose confirmation tipped the string over
	// the finality thresholds, when that happened, and how many testimonies
	// it had accumulated at that point.
	FinalAnchorID    ids.StringID
	FinalizedAt      time.Time
	TotalTestimonies int

	// RejectReason and RejectedAt are populated when State == Rejected.
	RejectReason string
	RejectedAt   time.Time

	// ExpiredAt is populated when State == Expired.
	ExpiredAt time.Time
}
