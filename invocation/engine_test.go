package invocation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/latticenet/core/ids"
	"github.com/latticenet/core/testimony"
)

type stubAgent struct {
	id         ids.NodeID
	agentType  testimony.AgentType
	satisfied  bool
	confidence float64
}

func (a stubAgent) AgentID() ids.NodeID            { return a.id }
func (a stubAgent) AgentType() testimony.AgentType { return a.agentType }
func (a stubAgent) ValidateCondition(ctx context.Context, cond Condition, vctx ValidationContext) ValidationResult {
	return ValidationResult{Satisfied: a.satisfied, Confidence: a.confidence}
}

type stubTool struct {
	name       string
	handles    ActionType
	succeed    bool
	trustScore uint8
	auditDue   time.Time
	healthy    bool
}

func newStubTool(name string, handles ActionType, succeed bool) stubTool {
	return stubTool{
		name:       name,
		handles:    handles,
		succeed:    succeed,
		trustScore: 80,
		auditDue:   time.Now().Add(24 * time.Hour),
		healthy:    true,
	}
}

func (t stubTool) Name() string { return t.name }

func (t stubTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Category:   CategoryCustom,
		TrustScore: t.trustScore,
		Audit:      AuditInfo{NextAuditDue: t.auditDue},
		Active:     true,
	}
}

func (t stubTool) SupportsAction(at ActionType) bool { return at == t.handles }

func (t stubTool) Execute(ctx context.Context, action Action) (ExecutionResult, error) {
	return ExecutionResult{Success: t.succeed}, nil
}

func (t stubTool) HealthCheck(ctx context.Context) ToolHealth {
	return ToolHealth{Healthy: t.healthy}
}

func (t stubTool) RateLimits() RateLimits { return DefaultRateLimits() }

func testContract(approvalThreshold float64) *Contract {
	return &Contract{
		ID:      ids.StringID{0x01},
		Parties: []Party{{NodeID: ids.NodeID{0x02}, Role: RolePrimary}},
		Conditions: []Condition{
			{
				ID:                ids.StringID{0x03},
				Type:              ConditionValueThreshold,
				RequiredAgents:    []testimony.AgentType{testimony.AgentValidation},
				ApprovalThreshold: approvalThreshold,
			},
		},
		Actions: []Action{
			{ID: ids.StringID{0x04}, Type: ActionPayment, Target: TargetProtocol{Name: "ledger"}},
		},
	}
}

func TestProcessContractHappyPath(t *testing.T) {
	e := New(NewToolRegistry(), nil, NewMetrics(nil), nil)
	e.RegisterAgent(stubAgent{id: ids.NodeID{0x10}, agentType: testimony.AgentValidation, satisfied: true, confidence: 0.9})
	require.NoError(t, e.toolRegistry.Register(newStubTool("ledger-tool", ActionPayment, true)))

	result, err := e.ProcessContract(context.Background(), testContract(0.5))
	require.NoError(t, err)
	require.Equal(t, StatusCompleted, result.Status)
	require.Len(t, result.ConditionResults, 1)
	require.True(t, result.ConditionResults[0].Satisfied)
	require.Len(t, result.ActionResults, 1)
	require.True(t, result.ActionResults[0].Success)

	record, ok := e.GetRecord(result.InvocationID)
	require.True(t, ok)
	require.Equal(t, StatusCompleted, record.Status)
}

func TestProcessContractConditionsNotMet(t *testing.T) {
	e := New(NewToolRegistry(), nil, NewMetrics(nil), nil)
	e.RegisterAgent(stubAgent{id: ids.NodeID{0x10}, agentType: testimony.AgentValidation, satisfied: false, confidence: 0.1})
	require.NoError(t, e.toolRegistry.Register(newStubTool("ledger-tool", ActionPayment, true)))

	result, err := e.ProcessContract(context.Background(), testContract(0.5))
	require.NoError(t, err)
	require.Equal(t, StatusConditionsNotMet, result.Status)
	require.Empty(t, result.ActionResults)
}

func TestProcessContractNoSuitableAgent(t *testing.T) {
	e := New(NewToolRegistry(), nil, NewMetrics(nil), nil)
	_, err := e.ProcessContract(context.Background(), testContract(0.5))
	require.ErrorIs(t, err, ErrNoSuitableAgents)
}

func TestProcessContractNoSuitableTool(t *testing.T) {
	e := New(NewToolRegistry(), nil, NewMetrics(nil), nil)
	e.RegisterAgent(stubAgent{id: ids.NodeID{0x10}, agentType: testimony.AgentValidation, satisfied: true, confidence: 0.9})

	_, err := e.ProcessContract(context.Background(), testContract(0.5))
	require.ErrorIs(t, err, ErrNoSuitableTool)
}

func TestProcessContractSecurityPolicyViolation(t *testing.T) {
	caller := ids.NodeID{0x02}
	policy := DenyListSecurityPolicy{Denied: map[ids.NodeID]bool{caller: true}}

	e := New(NewToolRegistry(), policy, NewMetrics(nil), nil)
	e.RegisterAgent(stubAgent{id: ids.NodeID{0x10}, agentType: testimony.AgentValidation, satisfied: true, confidence: 0.9})
	require.NoError(t, e.toolRegistry.Register(newStubTool("ledger-tool", ActionPayment, true)))

	_, err := e.ProcessContract(context.Background(), testContract(0.5))
	require.ErrorIs(t, err, ErrSecurityPolicyViolation)
}

func TestInvocationIDDeterministic(t *testing.T) {
	contractID := ids.StringID{0xAB, 0xCD}
	a := invocationIDFor(contractID)
	b := invocationIDFor(contractID)
	require.Equal(t, a, b)

	other := invocationIDFor(ids.StringID{0xEF})
	require.NotEqual(t, a, other)
}
