// Package testimony implements the Testimony Consensus protocol (spec §4.4,
// component C4): cryptographic attestations gated by a Q=2f+1 quorum, and
// AI testimonies carrying a semantic verdict, a running-mean confidence
// score, and a risk assessment, combined under a per-action-classification
// policy.
//
// Grounded on original_source/crates/rope-consensus/src/ai_testimony.rs
// (AITestimony field layout, verdict/risk enums) and
// original_source/crates/rope-smartchain/src/testimony_policy.rs (policy
// presets by action classification); the quorum-set shape is generalized
// from the teacher's poll package (Add/Vote/Len) onto set.Set.
package testimony

import (
	"time"

	"github.com/latticenet/core/ids"
)

// CryptoTestimony is a bare cryptographic attestation: a node vouching for
// a target string (e.g. "I hold a replica", "I verified this signature").
type CryptoTestimony struct {
	Target     ids.StringID
	Attestor   ids.NodeID
	Signature  []byte
	ObservedAt time.Time
}

// AgentType classifies the kind of AI agent issuing a semantic testimony.
type AgentType byte

const (
	AgentValidation AgentType = iota + 1
	AgentContract
	AgentAnomaly
	AgentCompliance
	AgentOracle
	AgentExecution
	AgentAudit
	AgentPersonal
	AgentInsurance
	AgentCustom
)

func (t AgentType) String() string {
	switch t {
	case AgentValidation:
		return "Validation"
	case AgentContract:
		return "Contract"
	case AgentAnomaly:
		return "Anomaly"
	case AgentCompliance:
		return "Compliance"
	case AgentOracle:
		return "Oracle"
	case AgentExecution:
		return "Execution"
	case AgentAudit:
		return "Audit"
	case AgentPersonal:
		return "Personal"
	case AgentInsurance:
		return "Insurance"
	case AgentCustom:
		return "Custom"
	default:
		return "Unknown"
	}
}

// Verdict is the semantic outcome of an AI agent's evaluation.
type Verdict byte

const (
	VerdictApprove Verdict = iota + 1
	VerdictReject
	VerdictAbstain
	VerdictNeedsMoreInfo
	VerdictConditionalApprove
)

func (v Verdict) String() string {
	switch v {
	case VerdictApprove:
		return "Approve"
	case VerdictReject:
		return "Reject"
	case VerdictAbstain:
		return "Abstain"
	case VerdictNeedsMoreInfo:
		return "NeedsMoreInfo"
	case VerdictConditionalApprove:
		return "ConditionalApprove"
	default:
		return "Unknown"
	}
}

// IsApproval reports whether v counts toward a policy's min_approvals.
func (v Verdict) IsApproval() bool {
	return v == VerdictApprove || v == VerdictConditionalApprove
}

// RiskLevel is a coarse bucket derived from a numeric risk score.
type RiskLevel byte

const (
	RiskLow RiskLevel = iota + 1
	RiskMedium
	RiskHigh
	RiskCritical
)

func (r RiskLevel) String() string {
	switch r {
	case RiskLow:
		return "Low"
	case RiskMedium:
		return "Medium"
	case RiskHigh:
		return "High"
	case RiskCritical:
		return "Critical"
	default:
		return "Unknown"
	}
}

// RiskLevelFromScore buckets a 0-100 risk score the same way the original
// AI testimony scheme does.
func RiskLevelFromScore(score uint8) RiskLevel {
	switch {
	case score <= 25:
		return RiskLow
	case score <= 50:
		return RiskMedium
	case score <= 75:
		return RiskHigh
	default:
		return RiskCritical
	}
}

// RiskAssessment is an AI agent's structured risk evaluation of the action
// its testimony covers.
type RiskAssessment struct {
	Level RiskLevel
	Score uint8 // 0-100
}

// AITestimony is a semantic, AI-issued testimony layered on top of a base
// CryptoTestimony: a verdict, a confidence score, and a risk assessment.
type AITestimony struct {
	Base       CryptoTestimony
	AgentID    ids.NodeID
	AgentType  AgentType
	Verdict    Verdict
	Confidence float64 // 0.0-1.0
	Risk       RiskAssessment
	Evidence   []ids.StringID
}
