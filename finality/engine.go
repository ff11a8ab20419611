package finality

import (
	"sync"
	"time"

	"github.com/latticenet/core/ids"
	"github.com/latticenet/core/log"
)

// record is the engine's private bookkeeping for a single string. Its
// fields back every variant of StateInfo; which ones are meaningful
// depends on state, exactly as in finality_engine.rs's
// StringFinalityInfo + FinalityState pair.
type record struct {
	id                  ids.StringID
	parents             []ids.StringID
	state               State
	anchorConfirmations int
	testimonyCount      int
	registeredAt        time.Time

	confidence float64

	finalAnchorID    ids.StringID
	finalizedAt      time.Time
	totalTestimonies int

	rejectReason string
	rejectedAt   time.Time

	expiredAt time.Time
}

// Engine drives the finality state machine for every string registered
// with it. It is safe for concurrent use.
type Engine struct {
	cfg     Config
	log     log.Logger
	metrics *Metrics

	mu      sync.Mutex
	records map[ids.StringID]*record
}

// New constructs an Engine. logger and m may be nil.
func New(cfg Config, m *Metrics, logger log.Logger) *Engine {
	if logger == nil {
		logger = log.NewNoOpLogger()
	}
	return &Engine{
		cfg:     cfg,
		log:     logger,
		metrics: m,
		records: make(map[ids.StringID]*record),
	}
}

// RegisterString enrolls id in Pending state. Implements
// lattice.FinalityNotifier. Idempotent: re-registering an id already known
// is a no-op.
func (e *Engine) RegisterString(id ids.StringID, parents []ids.StringID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.records[id]; ok {
		return
	}
	e.records[id] = &record{
		id:           id,
		parents:      append([]ids.StringID(nil), parents...),
		state:        Pending,
		registeredAt: time.Now(),
	}
	e.bump(e.metricsRegistered)
	e.log.Debug("string registered with finality engine", "id", id)
}

// RecordAnchor increments the anchor-confirmation count of every string in
// referencedIDs (plus the anchor itself) and attempts promotion, with
// anchorID as the candidate Final.FinalAnchorID should the thresholds now
// be met. Implements lattice.FinalityNotifier.
func (e *Engine) RecordAnchor(anchorID ids.StringID, round uint64, referencedIDs []ids.StringID) {
	e.mu.Lock()
	defer e.mu.Unlock()

	touch := append([]ids.StringID{anchorID}, referencedIDs...)
	for _, id := range touch {
		rec, ok := e.records[id]
		if !ok || rec.state.Terminal() {
			continue
		}
		rec.anchorConfirmations++
		e.tryPromoteLocked(rec, &anchorID)
	}
}

// UpdateTestimonyCount sets id's accumulated testimony count and attempts
// promotion. Called by the testimony collector whenever a new testimony
// for id is accepted. Per check_tentative_state in the original, a
// testimony update alone can raise confidence and promote Pending into
// Tentative, but — lacking an anchor id to record — can never itself
// finalize a string.
func (e *Engine) UpdateTestimonyCount(id ids.StringID, count int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	rec, ok := e.records[id]
	if !ok {
		return ErrUnknownString
	}
	if rec.state.Terminal() {
		return nil
	}
	if count > rec.testimonyCount {
		rec.testimonyCount = count
	}
	e.tryPromoteLocked(rec, nil)
	return nil
}

// RejectString forces id into the terminal Rejected state, recording
// reason on the resulting StateInfo per reject_string(string_id, reason)
// in the original.
func (e *Engine) RejectString(id ids.StringID, reason string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	rec, ok := e.records[id]
	if !ok {
		return ErrUnknownString
	}
	if rec.state.Terminal() {
		return ErrAlreadyTerminal
	}
	rec.state = Rejected
	rec.rejectReason = reason
	rec.rejectedAt = time.Now()
	e.bump(e.metricsRejected)
	e.log.Warn("string rejected", "id", id, "reason", reason)
	return nil
}

// ProcessExpirations moves every non-terminal string registered before
// now-minus-timeout into the Expired state. Returns the ids expired.
func (e *Engine) ProcessExpirations(now time.Time) []ids.StringID {
	e.mu.Lock()
	defer e.mu.Unlock()

	var expired []ids.StringID
	for id, rec := range e.records {
		if rec.state.Terminal() {
			continue
		}
		if now.Sub(rec.registeredAt) >= e.cfg.FinalityTimeout {
			rec.state = Expired
			rec.expiredAt = now
			expired = append(expired, id)
			e.bump(e.metricsExpired)
			e.log.Warn("string expired without finalizing", "id", id)
		}
	}
	return expired
}

// State returns id's current finality state.
func (e *Engine) State(id ids.StringID) (State, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	rec, ok := e.records[id]
	if !ok {
		return Pending, false
	}
	return rec.state, true
}

// Info returns id's full finality state payload — the confidence score
// behind a Tentative verdict, the anchor and testimony count behind a
// Final one, or the reason behind a Rejected one.
func (e *Engine) Info(id ids.StringID) (StateInfo, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	rec, ok := e.records[id]
	if !ok {
		return StateInfo{}, false
	}
	return StateInfo{
		State:               rec.state,
		AnchorConfirmations: rec.anchorConfirmations,
		TestimonyCount:      rec.testimonyCount,
		Confidence:          rec.confidence,
		FinalAnchorID:       rec.finalAnchorID,
		FinalizedAt:         rec.finalizedAt,
		TotalTestimonies:    rec.totalTestimonies,
		RejectReason:        rec.rejectReason,
		RejectedAt:          rec.rejectedAt,
		ExpiredAt:           rec.expiredAt,
	}, true
}

// confidence computes calculate_confidence's 0-99 score: 40 points for
// anchor confirmations (scaled to MinAnchorConfirmations), 40 for
// testimony count (scaled to MinTestimonies), and 20 for parent finality,
// capped at 99 until the string actually reaches Final.
func confidence(anchorConfirmations, testimonyCount int, parentsFinal bool, cfg Config) float64 {
	anchorRatio := 1.0
	if cfg.MinAnchorConfirmations > 0 {
		anchorRatio = float64(anchorConfirmations) / float64(cfg.MinAnchorConfirmations)
	}
	if anchorRatio > 1 {
		anchorRatio = 1
	}
	testimonyRatio := 1.0
	if cfg.MinTestimonies > 0 {
		testimonyRatio = float64(testimonyCount) / float64(cfg.MinTestimonies)
	}
	if testimonyRatio > 1 {
		testimonyRatio = 1
	}
	score := 40*anchorRatio + 40*testimonyRatio
	if parentsFinal {
		score += 20
	}
	if score > 99 {
		score = 99
	}
	return score
}

// parentsFinalLocked reports whether every one of parents is itself Final,
// treating an empty (genesis) parent id as always final. Always true when
// the engine is configured not to require parent finality.
func (e *Engine) parentsFinalLocked(parents []ids.StringID) bool {
	if !e.cfg.RequireParentFinality {
		return true
	}
	for _, p := range parents {
		if p == ids.Empty {
			continue
		}
		pr, ok := e.records[p]
		if !ok || pr.state != Final {
			return false
		}
	}
	return true
}

// tryPromoteLocked evaluates whether rec can advance and, if so, advances
// it: to Final when every threshold is met and an anchorID is available to
// record (finalization only ever happens from RecordAnchor, mirroring
// check_and_update_finality), or to Tentative — carrying the freshly
// computed confidence score — whenever that score is positive, mirroring
// check_tentative_state. Never skips Tentative on the way to Final.
func (e *Engine) tryPromoteLocked(rec *record, anchorID *ids.StringID) {
	if rec.state.Terminal() {
		return
	}

	parentsFinal := e.parentsFinalLocked(rec.parents)
	score := confidence(rec.anchorConfirmations, rec.testimonyCount, parentsFinal, e.cfg)

	meetsFinal := rec.anchorConfirmations >= e.cfg.MinAnchorConfirmations &&
		rec.testimonyCount >= e.cfg.MinTestimonies &&
		parentsFinal

	if meetsFinal && anchorID != nil {
		if rec.state == Pending {
			// meetsFinal implies parentsFinal, so score > 0: count the
			// Tentative step this single event passes through.
			rec.confidence = score
			e.bump(e.metricsTentative)
			e.log.Debug("string promoted to tentative", "id", rec.id, "confidence", score)
		}
		rec.state = Final
		rec.finalAnchorID = *anchorID
		rec.finalizedAt = time.Now()
		rec.totalTestimonies = rec.testimonyCount
		e.bump(e.metricsFinalized)
		e.log.Debug("string finalized", "id", rec.id)
		return
	}

	if score > 0 {
		wasPending := rec.state == Pending
		rec.state = Tentative
		rec.confidence = score
		if wasPending {
			e.bump(e.metricsTentative)
			e.log.Debug("string promoted to tentative", "id", rec.id, "confidence", score)
		}
	}
}

func (e *Engine) bump(f func()) {
	if e.metrics == nil {
		return
	}
	f()
}

func (e *Engine) metricsRegistered() { e.metrics.Registered.Inc() }
func (e *Engine) metricsTentative()  { e.metrics.Tentative.Inc() }
func (e *Engine) metricsFinalized()  { e.metrics.Finalized.Inc() }
func (e *Engine) metricsRejected()   { e.metrics.Rejected.Inc() }
func (e *Engine) metricsExpired()    { e.metrics.Expired.Inc() }
