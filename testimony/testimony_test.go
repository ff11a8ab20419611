package testimony

import (
	"testing"
	"time"

	"github.com/latticenet/core/ids"
	"github.com/stretchr/testify/require"
)

// TestCryptoQuorum exercises spec scenario S3: Q=2f+1 distinct attestors
// are required before a target reaches cryptographic quorum, and a repeat
// attestor is rejected rather than counted twice.
func TestCryptoQuorum(t *testing.T) {
	target := ids.StringID{1}
	coll := NewCollection(target, 3) // f=1, Q=2f+1=3

	nodes := []ids.NodeID{{1}, {2}, {3}}
	for i, n := range nodes[:2] {
		reached, err := coll.AddCrypto(CryptoTestimony{Target: target, Attestor: n, ObservedAt: time.Now()})
		require.NoError(t, err)
		require.False(t, reached, "quorum should not be reached after %d attestors", i+1)
	}

	reached, err := coll.AddCrypto(CryptoTestimony{Target: target, Attestor: nodes[2], ObservedAt: time.Now()})
	require.NoError(t, err)
	require.True(t, reached)
	require.True(t, coll.QuorumReached())

	_, err = coll.AddCrypto(CryptoTestimony{Target: target, Attestor: nodes[0], ObservedAt: time.Now()})
	require.ErrorIs(t, err, ErrDuplicateTestimony)
	require.Equal(t, 3, coll.AttestorCount(), "a duplicate attestor must not inflate the count")
}

func TestCryptoQuorumLatency(t *testing.T) {
	target := ids.StringID{9}
	coll := NewCollection(target, 2)

	start := time.Unix(1000, 0)
	_, ok := coll.QuorumLatency()
	require.False(t, ok, "latency is undefined before quorum is reached")

	reached, err := coll.AddCrypto(CryptoTestimony{Target: target, Attestor: ids.NodeID{1}, ObservedAt: start})
	require.NoError(t, err)
	require.False(t, reached)

	reached, err = coll.AddCrypto(CryptoTestimony{Target: target, Attestor: ids.NodeID{2}, ObservedAt: start.Add(5 * time.Second)})
	require.NoError(t, err)
	require.True(t, reached)

	latency, ok := coll.QuorumLatency()
	require.True(t, ok)
	require.Equal(t, 5*time.Second, latency)
}

func TestCollectorFeedsQuorumLatencyMetric(t *testing.T) {
	m := NewMetrics(nil)
	collector := NewCollector(2, nil, m, nil)

	target := ids.StringID{10}
	start := time.Unix(2000, 0)
	_, err := collector.SubmitCrypto(CryptoTestimony{Target: target, Attestor: ids.NodeID{1}, ObservedAt: start})
	require.NoError(t, err)
	_, err = collector.SubmitCrypto(CryptoTestimony{Target: target, Attestor: ids.NodeID{2}, ObservedAt: start.Add(2 * time.Second)})
	require.NoError(t, err)

	require.Equal(t, float64(2), m.QuorumLatency.Read())
}

func mkAI(verdict Verdict, confidence float64, risk RiskLevel) AITestimony {
	return AITestimony{
		Base:       CryptoTestimony{ObservedAt: time.Now()},
		Verdict:    verdict,
		Confidence: confidence,
		Risk:       RiskAssessment{Level: risk, Score: 10},
	}
}

// TestAIPolicyGating exercises spec scenario S4: a standard-tier action
// needs 3 approvals at mean confidence >= 0.8 and risk no worse than
// Medium; it is not satisfied until all three conditions hold together,
// and the distinguished NotUnanimous/InsufficientApprovals-style failure
// the policy reports along the way names exactly what's missing.
func TestAIPolicyGating(t *testing.T) {
	target := ids.StringID{2}
	coll := NewCollection(target, 1)
	policy := Standard()

	require.NoError(t, coll.AddAI(mkAI(VerdictApprove, 0.85, RiskLow)))
	result := policy.Evaluate(coll)
	require.Equal(t, PolicyInsufficientApprovals, result.Kind, "not enough approvals yet")
	require.Equal(t, 1, result.ApprovalsGot)
	require.Equal(t, 3, result.ApprovalsNeeded)
	require.False(t, result.Valid())

	require.NoError(t, coll.AddAI(mkAI(VerdictApprove, 0.82, RiskMedium)))
	result = policy.Evaluate(coll)
	require.Equal(t, PolicyInsufficientApprovals, result.Kind)
	require.Equal(t, 2, result.ApprovalsGot)

	require.NoError(t, coll.AddAI(mkAI(VerdictApprove, 0.95, RiskLow)))
	result = policy.Evaluate(coll)
	require.True(t, result.Valid())
	require.Equal(t, PolicyValid, result.Kind)
	require.InDelta(t, (0.85+0.82+0.95)/3, coll.ConfidenceMean(), 1e-9)
}

// TestAIPolicyInsufficientConfidence exercises the InsufficientConfidence
// variant: enough approvals, but mean confidence below the floor.
func TestAIPolicyInsufficientConfidence(t *testing.T) {
	target := ids.StringID{5}
	coll := NewCollection(target, 1)
	policy := LowValue() // MinApprovals=2, MinConfidence=0.7

	require.NoError(t, coll.AddAI(mkAI(VerdictApprove, 0.5, RiskLow)))
	require.NoError(t, coll.AddAI(mkAI(VerdictApprove, 0.5, RiskLow)))

	result := policy.Evaluate(coll)
	require.Equal(t, PolicyInsufficientConfidence, result.Kind)
	require.InDelta(t, 0.5, result.ConfidenceGot, 1e-9)
	require.InDelta(t, 0.7, result.ConfidenceNeeded, 1e-9)
}

func TestAIPolicyRiskCeiling(t *testing.T) {
	target := ids.StringID{3}
	coll := NewCollection(target, 1)
	policy := HighValue()

	for i := 0; i < 5; i++ {
		require.NoError(t, coll.AddAI(mkAI(VerdictApprove, 0.95, RiskLow)))
	}
	require.True(t, policy.Satisfied(coll))

	require.NoError(t, coll.AddAI(mkAI(VerdictApprove, 0.95, RiskHigh)))
	result := policy.Evaluate(coll)
	require.Equal(t, PolicyRiskTooHigh, result.Kind, "risk ceiling for HighValue is Low")
	require.Equal(t, RiskHigh, result.RiskGot)
	require.Equal(t, RiskLow, result.RiskMax)
}

// TestAIPolicyUnanimousRequirement exercises spec scenario S3: a critical
// action requires unanimous approval, and a single rejection produces a
// NotUnanimous{rejections:1} result rather than a bare false.
func TestAIPolicyUnanimousRequirement(t *testing.T) {
	target := ids.StringID{4}
	coll := NewCollection(target, 1)
	policy := Critical()

	for i := 0; i < 7; i++ {
		require.NoError(t, coll.AddAI(mkAI(VerdictApprove, 0.99, RiskLow)))
	}
	require.True(t, policy.Satisfied(coll))

	require.NoError(t, coll.AddAI(mkAI(VerdictReject, 0.99, RiskLow)))
	result := policy.Evaluate(coll)
	require.Equal(t, PolicyNotUnanimous, result.Kind, "critical actions require unanimous approval")
	require.Equal(t, 1, result.Rejections)
}

func TestInvalidConfidenceRejected(t *testing.T) {
	target := ids.StringID{5}
	coll := NewCollection(target, 1)
	err := coll.AddAI(mkAI(VerdictApprove, 1.5, RiskLow))
	require.ErrorIs(t, err, ErrInvalidConfidence)
}

func TestCollectorNotifiesOnUpdate(t *testing.T) {
	var gotID ids.StringID
	var gotCount int
	collector := NewCollector(2, func(id ids.StringID, count int) {
		gotID = id
		gotCount = count
	}, NewMetrics(nil), nil)

	target := ids.StringID{6}
	_, err := collector.SubmitCrypto(CryptoTestimony{Target: target, Attestor: ids.NodeID{1}, ObservedAt: time.Now()})
	require.NoError(t, err)
	require.Equal(t, target, gotID)
	require.Equal(t, 1, gotCount)

	ai := mkAI(VerdictApprove, 0.9, RiskLow)
	ai.Base.Target = target
	require.NoError(t, collector.SubmitAI(ai))
	require.Equal(t, 2, gotCount, "crypto attestor + AI testimony both count toward the combined total")
}

func TestEncodeDecodeTagRoundTrip(t *testing.T) {
	ct := CryptoTestimony{Target: ids.StringID{7}, Attestor: ids.NodeID{8}, Signature: []byte("sig"), ObservedAt: time.Unix(1000, 0)}
	blob := EncodeCrypto(ct)
	tag, err := PeekTag(blob)
	require.NoError(t, err)
	require.Equal(t, tagCryptoTestimony, tag)

	ai := mkAI(VerdictConditionalApprove, 0.77, RiskMedium)
	ai.Base = ct
	aiBlob := EncodeAI(ai)
	tag, err = PeekTag(aiBlob)
	require.NoError(t, err)
	require.Equal(t, tagAITestimony, tag)
}
