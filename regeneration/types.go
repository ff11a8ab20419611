// Package regeneration implements damage classification and multi-source
// repair for strings whose erasure fragments have partially decayed.
//
// Grounded on original_source/crates/rope-protocols/src/regeneration.rs.
package regeneration

import (
	"time"

	"github.com/latticenet/core/ids"
)

// DamageLevel classifies how much of a string's erasure-coded fragment set
// has been lost.
type DamageLevel byte

const (
	// DamageNone means every fragment is accounted for.
	DamageNone DamageLevel = iota
	// DamagePartial means fragments were lost but at least K (the
	// complement's data-shard count) still survive — reconstruction is
	// still possible without help.
	DamagePartial
	// DamageCritical means fewer than K fragments survive; repair
	// requires recruiting fresh holders before content can be
	// reconstructed at all.
	DamageCritical
	// DamageTotal means zero fragments survive and the content is
	// unrecoverable from erasure complements alone.
	DamageTotal
)

func (d DamageLevel) String() string {
	switch d {
	case DamageNone:
		return "none"
	case DamagePartial:
		return "partial"
	case DamageCritical:
		return "critical"
	case DamageTotal:
		return "total"
	default:
		return "unknown"
	}
}

// Classify derives a DamageLevel from how many of the k+m fragments survive.
func Classify(surviving, k, m int) DamageLevel {
	switch {
	case surviving >= k+m:
		return DamageNone
	case surviving >= k:
		return DamagePartial
	case surviving > 0:
		return DamageCritical
	default:
		return DamageTotal
	}
}

// Request describes one in-flight regeneration attempt for a string.
type Request struct {
	Target      ids.StringID
	Damage      DamageLevel
	Surviving   map[int][]byte // fragment index -> bytes, as collected so far
	K, M        int
	RequestedAt time.Time
}

// NewRequest starts tracking a regeneration attempt.
func NewRequest(target ids.StringID, k, m int, surviving map[int][]byte) *Request {
	r := &Request{Target: target, Surviving: surviving, K: k, M: m, RequestedAt: time.Now()}
	r.Damage = Classify(len(surviving), k, m)
	return r
}

// AddFragment records a freshly recovered fragment and re-classifies
// damage.
func (r *Request) AddFragment(idx int, data []byte) {
	if r.Surviving == nil {
		r.Surviving = make(map[int][]byte)
	}
	r.Surviving[idx] = data
	r.Damage = Classify(len(r.Surviving), r.K, r.M)
}

// Ready reports whether enough fragments have been recovered to attempt
// reconstruction.
func (r *Request) Ready() bool {
	return len(r.Surviving) >= r.K
}
