package testimony

import (
	"math"
	"sync"
	"time"

	"github.com/latticenet/core/ids"
	"github.com/latticenet/core/set"
	"github.com/latticenet/core/utils/bag"
)

// Collection accumulates every testimony submitted for a single target
// string: the cryptographic attestor quorum and the AI testimonies'
// verdict tally and running confidence statistics.
//
// Confidence statistics use Welford's online algorithm so the running mean
// and variance are exact and never require replaying the full history,
// matching how the original AI testimony accumulator is meant to scale
// across many agents without retaining every past score.
type Collection struct {
	Target ids.StringID
	Q      int // required distinct attestors for crypto quorum

	mu         sync.Mutex
	attestors  set.Set[ids.NodeID]
	aiCount    int
	confMean   float64
	confM2     float64
	verdicts   bag.Bag[Verdict]
	maxRisk    RiskLevel
	evidence   set.Set[ids.StringID]
	firstSeen  time.Time
	quorumAt   time.Time
}

// NewCollection constructs an empty collection requiring q distinct
// cryptographic attestors to reach quorum.
func NewCollection(target ids.StringID, q int) *Collection {
	return &Collection{
		Target:    target,
		Q:         q,
		attestors: set.Of[ids.NodeID](),
		verdicts:  bag.New[Verdict](),
		evidence:  set.Of[ids.StringID](),
	}
}

// AddCrypto records a cryptographic testimony from t.Attestor and reports
// whether the quorum is now reached. A second testimony from an attestor
// already recorded is rejected with ErrDuplicateTestimony (spec §4.4.1:
// "each node may testify once per target").
func (c *Collection) AddCrypto(t CryptoTestimony) (quorumReached bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.attestors.Contains(t.Attestor) {
		return false, ErrDuplicateTestimony
	}
	if c.firstSeen.IsZero() {
		c.firstSeen = t.ObservedAt
	}
	c.attestors.Add(t.Attestor)
	reached := c.attestors.Len() >= c.Q
	if reached && c.quorumAt.IsZero() {
		c.quorumAt = t.ObservedAt
	}
	return reached, nil
}

// QuorumLatency returns the elapsed time between the first cryptographic
// testimony recorded for this target and the one that reached quorum. The
// second return is false until quorum has been reached.
func (c *Collection) QuorumLatency() (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.quorumAt.IsZero() {
		return 0, false
	}
	return c.quorumAt.Sub(c.firstSeen), true
}

// AddAI records an AI testimony: tallies its verdict, folds its confidence
// into the running mean/variance, and tracks the highest risk level seen.
func (c *Collection) AddAI(t AITestimony) error {
	if t.Confidence < 0 || t.Confidence > 1 {
		return ErrInvalidConfidence
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.aiCount++
	delta := t.Confidence - c.confMean
	c.confMean += delta / float64(c.aiCount)
	delta2 := t.Confidence - c.confMean
	c.confM2 += delta * delta2

	c.verdicts.Add(t.Verdict)
	if t.Risk.Level > c.maxRisk {
		c.maxRisk = t.Risk.Level
	}
	for _, e := range t.Evidence {
		c.evidence.Add(e)
	}
	return nil
}

// QuorumReached reports whether the cryptographic attestor quorum has been
// met.
func (c *Collection) QuorumReached() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attestors.Len() >= c.Q
}

// AttestorCount returns the number of distinct cryptographic attestors
// recorded so far.
func (c *Collection) AttestorCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attestors.Len()
}

// ConfidenceMean returns the running mean confidence across every AI
// testimony recorded so far, or 0 if none have been recorded.
func (c *Collection) ConfidenceMean() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.confMean
}

// ConfidenceStdDev returns the population standard deviation of the
// confidence scores recorded so far.
func (c *Collection) ConfidenceStdDev() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.aiCount == 0 {
		return 0
	}
	return math.Sqrt(c.confM2 / float64(c.aiCount))
}

// ApprovalCount returns how many AI testimonies carried an approving
// verdict (Approve or ConditionalApprove).
func (c *Collection) ApprovalCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.verdicts.Count(VerdictApprove) + c.verdicts.Count(VerdictConditionalApprove)
}

// RejectionCount returns how many AI testimonies carried Reject.
func (c *Collection) RejectionCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.verdicts.Count(VerdictReject)
}

// AICount returns the total number of AI testimonies recorded.
func (c *Collection) AICount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aiCount
}

// MaxRisk returns the highest RiskLevel seen across every AI testimony
// recorded, or the zero value if none have been recorded.
func (c *Collection) MaxRisk() RiskLevel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.maxRisk
}
