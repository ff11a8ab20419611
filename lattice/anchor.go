package lattice

import (
	"time"

	"github.com/latticenet/core/ids"
)

// Anchor is a distinguished string serving as a periodic synchronization
// point: its round number, the strings it strongly sees, and the
// testimony count accumulated under it.
type Anchor struct {
	ID              ids.StringID
	Round           uint64
	StronglySees    []ids.StringID
	TestimonyCount  int
	ObservedAt      time.Time
}

// anchorPolicy holds the configurable anchor-promotion parameters.
type anchorPolicy struct {
	// Interval is the minimum wall-clock gap since the last anchor before
	// a new one may be declared.
	Interval time.Duration
	// SuperMajorityNum/Den express the virtual-voting "strongly sees ≥2/3
	// of the previous round's anchors" fraction (default 2/3).
	SuperMajorityNum int
	SuperMajorityDen int
}

func defaultAnchorPolicy() anchorPolicy {
	return anchorPolicy{
		Interval:         0, // set by caller; zero means "no wait" (useful in tests)
		SuperMajorityNum: 2,
		SuperMajorityDen: 3,
	}
}

// stronglySees returns those of candidateAnchors that are ancestors of id,
// via backward BFS over recorded parents.
func (l *Lattice) stronglySees(id ids.StringID, candidateAnchors []ids.StringID) []ids.StringID {
	var seen []ids.StringID
	for _, a := range candidateAnchors {
		if l.isAncestorLocked(a, id) {
			seen = append(seen, a)
		}
	}
	return seen
}

// maybePromoteAnchor evaluates the anchor policy against the
// just-inserted string rec and, if satisfied, declares a new anchor,
// advances the round counter, and notifies the finality engine.
//
// Caller must hold no lattice locks; maybePromoteAnchor acquires what it
// needs internally (anchorsMu, then stringsMu for reads).
func (l *Lattice) maybePromoteAnchor(rec *stringRecord) {
	l.anchorsMu.Lock()
	defer l.anchorsMu.Unlock()

	isGenesis := len(l.anchors) == 0
	if !isGenesis {
		last := l.anchors[len(l.anchors)-1]
		if rec.ObservedAt.Sub(last.ObservedAt) < l.policy.Interval {
			return
		}
	}

	var sees []ids.StringID
	round := uint64(1)
	if !isGenesis {
		prevRound := l.anchors[len(l.anchors)-1]
		prevRoundAnchorIDs := l.anchorsInRound(prevRound.Round)
		sees = l.stronglySees(rec.ID(), prevRoundAnchorIDs)
		need := (len(prevRoundAnchorIDs)*l.policy.SuperMajorityNum + l.policy.SuperMajorityDen - 1) / l.policy.SuperMajorityDen
		if len(sees) < need {
			return
		}
		round = prevRound.Round + 1
	}

	anchor := Anchor{
		ID:             rec.ID(),
		Round:          round,
		StronglySees:   sees,
		ObservedAt:     rec.ObservedAt,
	}
	l.anchors = append(l.anchors, anchor)

	if l.notifier != nil {
		refs := l.ancestorsOf(anchor.ID)
		l.notifier.RecordAnchor(anchor.ID, anchor.Round, refs)
	}
	if l.metrics != nil {
		l.metrics.AnchorsDeclared.Inc()
	}
}

func (l *Lattice) anchorsInRound(round uint64) []ids.StringID {
	var out []ids.StringID
	for _, a := range l.anchors {
		if a.Round == round {
			out = append(out, a.ID)
		}
	}
	return out
}

// Anchors returns a snapshot of every anchor declared so far.
func (l *Lattice) Anchors() []Anchor {
	l.anchorsMu.RLock()
	defer l.anchorsMu.RUnlock()
	out := make([]Anchor, len(l.anchors))
	copy(out, l.anchors)
	return out
}
