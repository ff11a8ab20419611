package lattice

import (
	"sync"
	"time"

	"github.com/latticenet/core/content"
	"github.com/latticenet/core/ids"
	"github.com/latticenet/core/log"
)

// FinalityNotifier is implemented by the finality engine (C3). The lattice
// owns strings/complements/tombstones/anchors exclusively; it only ever
// reaches into finality through this narrow, event-shaped interface, never
// by sharing state directly (spec §3 "Ownership").
type FinalityNotifier interface {
	RegisterString(id ids.StringID, parents []ids.StringID)
	RecordAnchor(anchorID ids.StringID, round uint64, referencedIDs []ids.StringID)
}

// SignatureVerifier verifies a creator's signature over a string's
// canonical encoding. Left abstract so the lattice never depends on a
// specific signature scheme.
type SignatureVerifier interface {
	Verify(msg, sig, pubKey []byte) bool
}

// OESVerifier checks whether a string's OES generation falls inside the
// acceptance window around the lattice's current view of the OES
// generation counter (spec §4.2 step 3: |S.generation − current| ≤ W).
type OESVerifier interface {
	AcceptGeneration(claimed uint64) bool
	VerifyProof(proof []byte, generation uint64) bool
}

// Config holds the lattice's tunable parameters.
type Config struct {
	// PendingWatermark is the max number of non-final strings before
	// add_string starts returning ErrBackpressureFull.
	PendingWatermark int
	// AnchorInterval is the minimum wall-clock gap between anchors.
	AnchorInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		PendingWatermark: 100_000,
		AnchorInterval:   2 * time.Second,
	}
}

// stringRecord is the lattice's local wrapper around a String, carrying
// the locally-observed insertion time used for anchor interval checks
// (wall time is never part of the canonical encoding, so it doesn't
// perturb the StringID).
type stringRecord struct {
	*String
	id         ids.StringID
	ObservedAt time.Time
}

func (r *stringRecord) ID() ids.StringID { return r.id }

// Lattice is the append-only causal DAG of strings. Each per-structure
// lock is taken on its own and released before the next is taken, with
// two exceptions: anchorsMu is held while stringsMu is read during anchor
// promotion, and MarkErased holds stringsMu, complementsMu and erasedMu
// together, in that order. No path takes them in the reverse order, so
// concurrent callers cannot deadlock.
type Lattice struct {
	log      log.Logger
	metrics  *Metrics
	notifier FinalityNotifier
	sigVerify SignatureVerifier
	oesVerify OESVerifier
	policy   anchorPolicy
	cfg      Config

	stringsMu sync.RWMutex
	strings   map[ids.StringID]*stringRecord

	complementsMu sync.RWMutex
	complements   map[ids.StringID]*content.Complement

	dagMu    sync.RWMutex
	children map[ids.StringID][]ids.StringID
	tips     map[ids.StringID]struct{}

	pendingMu sync.Mutex
	pending   map[ids.StringID]struct{}

	finalizedMu sync.RWMutex
	finalized   map[ids.StringID]struct{}

	erasedMu sync.RWMutex
	erased   map[ids.StringID]struct{}

	anchorsMu sync.RWMutex
	anchors   []Anchor
}

// New constructs an empty lattice.
func New(cfg Config, notifier FinalityNotifier, sigVerify SignatureVerifier, oesVerify OESVerifier, m *Metrics, logger log.Logger) *Lattice {
	if logger == nil {
		logger = log.NewNoOpLogger()
	}
	policy := defaultAnchorPolicy()
	policy.Interval = cfg.AnchorInterval
	return &Lattice{
		log:         logger,
		metrics:     m,
		notifier:    notifier,
		sigVerify:   sigVerify,
		oesVerify:   oesVerify,
		policy:      policy,
		cfg:         cfg,
		strings:     make(map[ids.StringID]*stringRecord),
		complements: make(map[ids.StringID]*content.Complement),
		children:    make(map[ids.StringID][]ids.StringID),
		tips:        make(map[ids.StringID]struct{}),
		pending:     make(map[ids.StringID]struct{}),
		finalized:   make(map[ids.StringID]struct{}),
		erased:      make(map[ids.StringID]struct{}),
	}
}

// AddString validates and appends s to the lattice. It is idempotent: a
// second call with a structure that re-hashes to an id already present
// returns that id without modifying any state.
func (l *Lattice) AddString(s *String, complement *content.Complement) (ids.StringID, error) {
	id := s.ID()

	l.stringsMu.RLock()
	_, exists := l.strings[id]
	l.stringsMu.RUnlock()
	if exists {
		return id, nil
	}

	l.pendingMu.Lock()
	tooFull := len(l.pending) >= l.cfg.PendingWatermark
	l.pendingMu.Unlock()
	if tooFull {
		l.bumpRejected()
		return ids.StringID{}, ErrBackpressureFull
	}

	if s.Replication < 3 || s.Replication > 10 {
		l.bumpRejected()
		return ids.StringID{}, ErrReplicationRange
	}

	for _, p := range s.Parents {
		if IsGenesisParent(p) {
			continue
		}
		l.erasedMu.RLock()
		_, tomb := l.erased[p]
		l.erasedMu.RUnlock()
		if tomb {
			l.bumpRejected()
			return ids.StringID{}, ErrParentErased
		}
		l.stringsMu.RLock()
		_, ok := l.strings[p]
		l.stringsMu.RUnlock()
		if !ok {
			l.bumpRejected()
			return ids.StringID{}, ErrMissingParent
		}
	}

	if l.sigVerify != nil && !l.sigVerify.Verify(s.Canonical(), s.Signature, s.CreatorPublicKey) {
		l.bumpRejected()
		return ids.StringID{}, ErrInvalidSignature
	}

	if l.oesVerify != nil {
		if !l.oesVerify.AcceptGeneration(s.OESGeneration) || !l.oesVerify.VerifyProof(s.OESProof, s.OESGeneration) {
			l.bumpRejected()
			return ids.StringID{}, ErrInvalidOESProof
		}
	}

	rec := &stringRecord{String: s, id: id, ObservedAt: time.Now()}

	l.stringsMu.Lock()
	l.strings[id] = rec
	l.stringsMu.Unlock()

	if complement != nil {
		l.complementsMu.Lock()
		l.complements[id] = complement
		l.complementsMu.Unlock()
	}

	l.dagMu.Lock()
	l.tips[id] = struct{}{}
	for _, p := range s.Parents {
		delete(l.tips, p)
		l.children[p] = append(l.children[p], id)
	}
	l.dagMu.Unlock()

	l.pendingMu.Lock()
	l.pending[id] = struct{}{}
	l.pendingMu.Unlock()

	l.bumpAdded()
	l.log.Debug("string added", "id", id, "parents", len(s.Parents))

	if l.notifier != nil {
		l.notifier.RegisterString(id, s.Parents)
	}

	l.maybePromoteAnchor(rec)

	return id, nil
}

func (l *Lattice) bumpAdded()    { l.bump(func() { l.metrics.StringsAdded.Inc() }) }
func (l *Lattice) bumpRejected() { l.bump(func() { l.metrics.StringsRejected.Inc() }) }
func (l *Lattice) bumpTombstone() {
	l.bump(func() { l.metrics.Tombstones.Inc() })
}

func (l *Lattice) bump(f func()) {
	if l.metrics == nil {
		return
	}
	f()
}

// GetString returns the string for id, or ok=false if unknown or
// tombstoned.
func (l *Lattice) GetString(id ids.StringID) (*String, bool) {
	l.erasedMu.RLock()
	_, tomb := l.erased[id]
	l.erasedMu.RUnlock()
	if tomb {
		return nil, false
	}
	l.stringsMu.RLock()
	rec, ok := l.strings[id]
	l.stringsMu.RUnlock()
	if !ok {
		return nil, false
	}
	return rec.String, true
}

// GetComplement returns the complement for id, or ok=false if unknown,
// tombstoned, or never stored.
func (l *Lattice) GetComplement(id ids.StringID) (*content.Complement, bool) {
	l.erasedMu.RLock()
	_, tomb := l.erased[id]
	l.erasedMu.RUnlock()
	if tomb {
		return nil, false
	}
	l.complementsMu.RLock()
	c, ok := l.complements[id]
	l.complementsMu.RUnlock()
	return c, ok
}

// Contains reports whether id is a known, non-tombstoned string.
func (l *Lattice) Contains(id ids.StringID) bool {
	_, ok := l.GetString(id)
	return ok
}

// MarkFinalized records id in the lattice's finalized set and removes it
// from the pending set that drives backpressure. Nothing in this module
// calls it; the finality engine does not hold a lattice reference.
func (l *Lattice) MarkFinalized(id ids.StringID) {
	l.finalizedMu.Lock()
	l.finalized[id] = struct{}{}
	l.finalizedMu.Unlock()

	l.pendingMu.Lock()
	delete(l.pending, id)
	l.pendingMu.Unlock()
}

// MarkErased atomically removes id's content and complement and inserts a
// tombstone. Children already present in the DAG are not retroactively
// removed, but any future AddString whose parents include id fails with
// ErrParentErased.
func (l *Lattice) MarkErased(id ids.StringID) error {
	l.stringsMu.Lock()
	rec, ok := l.strings[id]
	if !ok {
		l.stringsMu.Unlock()
		return ErrMissingParent
	}
	if !rec.Mutability.Erasable() {
		l.stringsMu.Unlock()
		return ErrNotErasable
	}
	l.complementsMu.Lock()
	l.erasedMu.Lock()
	delete(l.strings, id)
	delete(l.complements, id)
	l.erased[id] = struct{}{}
	l.erasedMu.Unlock()
	l.complementsMu.Unlock()
	l.stringsMu.Unlock()

	l.bumpTombstone()
	l.log.Debug("string erased", "id", id)
	return nil
}

// IsAncestor reports whether a is an ancestor of b by backward BFS along
// parent edges.
func (l *Lattice) IsAncestor(a, b ids.StringID) bool {
	return l.isAncestorLocked(a, b)
}

func (l *Lattice) isAncestorLocked(a, b ids.StringID) bool {
	if a == b {
		return true
	}
	visited := map[ids.StringID]struct{}{b: {}}
	queue := []ids.StringID{b}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		l.stringsMu.RLock()
		rec, ok := l.strings[cur]
		l.stringsMu.RUnlock()
		if !ok {
			continue
		}
		for _, p := range rec.Parents {
			if p == a {
				return true
			}
			if _, seen := visited[p]; seen {
				continue
			}
			visited[p] = struct{}{}
			queue = append(queue, p)
		}
	}
	return false
}

// ancestorsOf returns the full transitive ancestor set of id (not
// including id itself), used to compute which strings an anchor
// transitively references.
func (l *Lattice) ancestorsOf(id ids.StringID) []ids.StringID {
	visited := map[ids.StringID]struct{}{id: {}}
	queue := []ids.StringID{id}
	var out []ids.StringID
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		l.stringsMu.RLock()
		rec, ok := l.strings[cur]
		l.stringsMu.RUnlock()
		if !ok {
			continue
		}
		for _, p := range rec.Parents {
			if IsGenesisParent(p) {
				continue
			}
			if _, seen := visited[p]; seen {
				continue
			}
			visited[p] = struct{}{}
			out = append(out, p)
			queue = append(queue, p)
		}
	}
	return out
}

// Tips returns the current DAG tips (strings with no recorded children).
func (l *Lattice) Tips() []ids.StringID {
	l.dagMu.RLock()
	defer l.dagMu.RUnlock()
	out := make([]ids.StringID, 0, len(l.tips))
	for t := range l.tips {
		out = append(out, t)
	}
	return out
}

// PendingCount returns the number of strings not yet finalized, for
// backpressure decisions.
func (l *Lattice) PendingCount() int {
	l.pendingMu.Lock()
	defer l.pendingMu.Unlock()
	return len(l.pending)
}
