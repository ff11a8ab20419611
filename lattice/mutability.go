package lattice

import "time"

// MutabilityKind selects one of the five mutability classes a string can
// carry, determining whether and how erasure (C7) may remove it.
type MutabilityKind byte

const (
	Immutable MutabilityKind = iota
	OwnerErasable
	TimeBound
	ConditionalErasure
	GDPRCompliant
)

func (k MutabilityKind) String() string {
	switch k {
	case Immutable:
		return "Immutable"
	case OwnerErasable:
		return "OwnerErasable"
	case TimeBound:
		return "TimeBound"
	case ConditionalErasure:
		return "ConditionalErasure"
	case GDPRCompliant:
		return "GDPRCompliant"
	default:
		return "Unknown"
	}
}

// Mutability carries a MutabilityKind plus whichever payload that kind
// needs: a TTL for TimeBound, a predicate id for ConditionalErasure.
type Mutability struct {
	Kind        MutabilityKind
	TTL         time.Duration
	PredicateID string
}

// Erasable reports whether this mutability class ever permits erasure
// (independent of whether the erasure's specific proof is satisfied).
func (m Mutability) Erasable() bool {
	return m.Kind != Immutable
}
