package testimony

import "time"

// ActionClassification buckets the action a testimony collection is being
// gathered for, determining which policy preset applies.
type ActionClassification byte

const (
	ClassInformational ActionClassification = iota + 1
	ClassLowValue
	ClassStandard
	ClassHighValue
	ClassCritical
)

// Policy defines the testimony requirements for one action classification:
// which agent types must weigh in, how many approvals and what confidence
// floor are required, the acceptable risk ceiling, and whether any
// rejection vetoes the whole action.
//
// Grounded on original_source/crates/rope-smartchain/src/testimony_policy.rs;
// the five presets below mirror its informational/low_value/standard/
// high_value/critical tiers.
type Policy struct {
	Classification    ActionClassification
	RequiredAgents    []AgentType
	MinApprovals      int
	MinConfidence     float64
	MaxRiskLevel      RiskLevel
	Timeout           time.Duration
	AllowConditional  bool
	RequireUnanimous  bool
}

func Informational() Policy {
	return Policy{
		Classification: ClassInformational,
		RequiredAgents: []AgentType{AgentValidation},
		MinApprovals:   1,
		MinConfidence:  0.5,
		MaxRiskLevel:   RiskLow,
		Timeout:        5 * time.Second,
	}
}

func LowValue() Policy {
	return Policy{
		Classification:   ClassLowValue,
		RequiredAgents:   []AgentType{AgentValidation, AgentAnomaly},
		MinApprovals:     2,
		MinConfidence:    0.7,
		MaxRiskLevel:     RiskMedium,
		Timeout:          10 * time.Second,
		AllowConditional: true,
	}
}

func Standard() Policy {
	return Policy{
		Classification:   ClassStandard,
		RequiredAgents:   []AgentType{AgentValidation, AgentCompliance, AgentAnomaly},
		MinApprovals:     3,
		MinConfidence:    0.8,
		MaxRiskLevel:     RiskMedium,
		Timeout:          30 * time.Second,
		AllowConditional: true,
	}
}

func HighValue() Policy {
	return Policy{
		Classification:   ClassHighValue,
		RequiredAgents:   []AgentType{AgentValidation, AgentCompliance, AgentAnomaly, AgentAudit},
		MinApprovals:     5,
		MinConfidence:    0.9,
		MaxRiskLevel:     RiskLow,
		Timeout:          60 * time.Second,
		AllowConditional: true,
	}
}

func Critical() Policy {
	return Policy{
		Classification:   ClassCritical,
		RequiredAgents:   []AgentType{AgentValidation, AgentCompliance, AgentAnomaly, AgentAudit, AgentContract},
		MinApprovals:     7,
		MinConfidence:    0.95,
		MaxRiskLevel:     RiskLow,
		Timeout:          5 * time.Minute,
		RequireUnanimous: true,
	}
}

// PolicyOutcomeKind distinguishes why a policy evaluation failed (or that
// it passed), mirroring testimony_policy.rs's PolicyValidationResult enum.
type PolicyOutcomeKind byte

const (
	PolicyValid PolicyOutcomeKind = iota
	PolicyInsufficientApprovals
	PolicyInsufficientConfidence
	PolicyRiskTooHigh
	PolicyNotUnanimous
)

func (k PolicyOutcomeKind) String() string {
	switch k {
	case PolicyValid:
		return "Valid"
	case PolicyInsufficientApprovals:
		return "InsufficientApprovals"
	case PolicyInsufficientConfidence:
		return "InsufficientConfidence"
	case PolicyRiskTooHigh:
		return "RiskTooHigh"
	case PolicyNotUnanimous:
		return "NotUnanimous"
	default:
		return "Unknown"
	}
}

// PolicyResult is the distinguished outcome of evaluating a Collection
// against a Policy. Only the fields relevant to Kind are populated, per
// testimony_policy.rs:237-255's InsufficientApprovals{got,needed} /
// InsufficientConfidence{got,needed} / RiskTooHigh{got,max} /
// NotUnanimous{rejections} variants.
type PolicyResult struct {
	Kind PolicyOutcomeKind

	ApprovalsGot     int
	ApprovalsNeeded  int
	ConfidenceGot    float64
	ConfidenceNeeded float64
	RiskGot          RiskLevel
	RiskMax          RiskLevel
	Rejections       int
}

// Valid reports whether the evaluation passed every requirement.
func (r PolicyResult) Valid() bool { return r.Kind == PolicyValid }

// Evaluate checks c against p's requirements in the same order as the
// original's validate_consensus: approvals, then confidence, then risk,
// then (if required) unanimity, returning the first requirement c fails
// with the counts/thresholds that drove the verdict.
func (p Policy) Evaluate(c *Collection) PolicyResult {
	if approvals := c.ApprovalCount(); approvals < p.MinApprovals {
		return PolicyResult{
			Kind:            PolicyInsufficientApprovals,
			ApprovalsGot:    approvals,
			ApprovalsNeeded: p.MinApprovals,
		}
	}
	if confidence := c.ConfidenceMean(); confidence < p.MinConfidence {
		return PolicyResult{
			Kind:             PolicyInsufficientConfidence,
			ConfidenceGot:    confidence,
			ConfidenceNeeded: p.MinConfidence,
		}
	}
	if risk := c.MaxRisk(); risk > p.MaxRiskLevel {
		return PolicyResult{
			Kind:    PolicyRiskTooHigh,
			RiskGot: risk,
			RiskMax: p.MaxRiskLevel,
		}
	}
	if p.RequireUnanimous {
		if rejections := c.RejectionCount(); rejections > 0 {
			return PolicyResult{Kind: PolicyNotUnanimous, Rejections: rejections}
		}
	}
	return PolicyResult{Kind: PolicyValid}
}

// Satisfied reports whether c meets p's requirements, discarding the
// specific reason. Prefer Evaluate when the caller needs to act on why a
// collection failed (e.g. surfacing InsufficientApprovals to a requester).
func (p Policy) Satisfied(c *Collection) bool {
	return p.Evaluate(c).Valid()
}
