package invocation

import (
	"context"
	"time"

	"github.com/latticenet/core/ids"
	"github.com/latticenet/core/testimony"
)

// ValidationContext is the environment an agent validates a condition
// against: who requested it, any historical or oracle data supplied, and
// a running risk estimate if one has already been computed.
type ValidationContext struct {
	Timestamp      time.Time
	Requester      ids.NodeID
	HistoricalData map[string]any
	OracleData     map[string]any
	RiskScore      *float64
}

// ValidationResult is one agent's verdict on a single condition.
type ValidationResult struct {
	Satisfied  bool
	Confidence float64
	Reason     string
	Evidence   []ids.StringID
	Signature  []byte
}

// Agent validates contract conditions. Implementations wrap a specific AI
// testimony backend (see testimony.AgentType for the category it claims to
// serve).
type Agent interface {
	AgentID() ids.NodeID
	AgentType() testimony.AgentType
	ValidateCondition(ctx context.Context, cond Condition, vctx ValidationContext) ValidationResult
}
