package invocation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRegisterRejectsLowTrustScore(t *testing.T) {
	r := NewToolRegistry()
	tool := newStubTool("sketchy", ActionPayment, true)
	tool.trustScore = 49

	err := r.Register(tool)
	require.ErrorIs(t, err, ErrInsufficientTrustScore)
}

func TestRegisterRejectsExpiredAudit(t *testing.T) {
	r := NewToolRegistry()
	tool := newStubTool("stale", ActionPayment, true)
	tool.auditDue = time.Now().Add(-time.Hour)

	err := r.Register(tool)
	require.ErrorIs(t, err, ErrAuditExpired)
}

func TestRegisterAcceptsVettedTool(t *testing.T) {
	r := NewToolRegistry()
	require.NoError(t, r.Register(newStubTool("ledger-tool", ActionPayment, true)))
}

func TestFindBestToolForActionPrefersHigherScore(t *testing.T) {
	r := NewToolRegistry()

	low := newStubTool("low-trust", ActionPayment, true)
	low.trustScore = 60
	high := newStubTool("high-trust", ActionPayment, true)
	high.trustScore = 90

	require.NoError(t, r.Register(low))
	require.NoError(t, r.Register(high))

	best, ok := r.FindBestToolForAction(Action{Type: ActionPayment})
	require.True(t, ok)
	require.Equal(t, "high-trust", best.Name())
}

func TestFindBestToolForActionFactorsHealth(t *testing.T) {
	r := NewToolRegistry()

	healthy := newStubTool("healthy-tool", ActionPayment, true)
	healthy.trustScore = 60
	unhealthy := newStubTool("unhealthy-tool", ActionPayment, true)
	unhealthy.trustScore = 70
	unhealthy.healthy = false

	require.NoError(t, r.Register(healthy))
	require.NoError(t, r.Register(unhealthy))

	r.UpdateHealth(context.Background(), healthy)
	r.UpdateHealth(context.Background(), unhealthy)

	// healthy: 60 + 50 = 110, unhealthy: 70 + 0 = 70
	best, ok := r.FindBestToolForAction(Action{Type: ActionPayment})
	require.True(t, ok)
	require.Equal(t, "healthy-tool", best.Name())
}

func TestFindBestToolForActionNoMatch(t *testing.T) {
	r := NewToolRegistry()
	require.NoError(t, r.Register(newStubTool("ledger-tool", ActionPayment, true)))

	_, ok := r.FindBestToolForAction(Action{Type: ActionContractCall})
	require.False(t, ok)
}

func TestFindByCategory(t *testing.T) {
	r := NewToolRegistry()
	require.NoError(t, r.Register(newStubTool("ledger-tool", ActionPayment, true)))

	found := r.FindByCategory(CategoryCustom)
	require.Len(t, found, 1)

	require.Empty(t, r.FindByCategory(CategoryBanking))
}
