package erasure

import (
	"testing"
	"time"

	"github.com/latticenet/core/ids"
	"github.com/stretchr/testify/require"
)

func mkRequest(id byte, strs []ids.StringID, reason Reason) Request {
	var rid ids.StringID
	rid[0] = id
	return Request{ID: rid, StringIDs: strs, Reason: reason, Timestamp: time.Now()}
}

func TestLegalOrderRequiresAuthProof(t *testing.T) {
	c := New(ids.NodeID{1}, 2, nil, NewMetrics(nil), nil)
	req := mkRequest(1, []ids.StringID{{2}}, Reason{Kind: ReasonLegalOrder, Detail: "case-123"})
	_, err := c.Submit(req)
	require.ErrorIs(t, err, ErrMissingLegalAuth)

	req.AuthorizationProof = []byte("court-order-signature")
	id, err := c.Submit(req)
	require.NoError(t, err)
	status, ok := c.GetStatus(id)
	require.True(t, ok)
	require.Equal(t, StatusPendingAuthorization, status)
}

// TestErasureCompletesAtConfirmationQuorum exercises an owner-initiated
// erasure reaching its required confirmation count and invoking the
// wired eraser callback for each confirmed string.
func TestErasureCompletesAtConfirmationQuorum(t *testing.T) {
	erasedCalls := map[ids.StringID]int{}
	c := New(ids.NodeID{1}, 2, func(id ids.StringID) error {
		erasedCalls[id]++
		return nil
	}, NewMetrics(nil), nil)

	target := ids.StringID{9}
	req := mkRequest(2, []ids.StringID{target}, Reason{Kind: ReasonOwnerRequest})
	id, err := c.Submit(req)
	require.NoError(t, err)

	require.NoError(t, c.Authorize(id))

	status, err := c.AddConfirmation(Confirmation{RequestID: id, ConfirmerID: ids.NodeID{10}, ErasedStrings: []ids.StringID{target}, Timestamp: time.Now()})
	require.NoError(t, err)
	require.Equal(t, StatusInProgress, status)
	require.True(t, c.IsErased(target))

	status, err = c.AddConfirmation(Confirmation{RequestID: id, ConfirmerID: ids.NodeID{11}, ErasedStrings: []ids.StringID{target}, Timestamp: time.Now()})
	require.NoError(t, err)
	require.Equal(t, StatusCompleted, status)
	require.Equal(t, 2, erasedCalls[target])

	_, err = c.AddConfirmation(Confirmation{RequestID: id, ConfirmerID: ids.NodeID{10}, ErasedStrings: []ids.StringID{target}})
	require.ErrorIs(t, err, ErrDuplicateConfirmer)
}

func TestConfirmationBeforeAuthorizationRejected(t *testing.T) {
	c := New(ids.NodeID{1}, 1, nil, NewMetrics(nil), nil)
	req := mkRequest(3, []ids.StringID{{4}}, Reason{Kind: ReasonTTLExpired})
	id, err := c.Submit(req)
	require.NoError(t, err)

	_, err = c.AddConfirmation(Confirmation{RequestID: id, ConfirmerID: ids.NodeID{5}, ErasedStrings: []ids.StringID{{4}}})
	require.ErrorIs(t, err, ErrNotAuthorized)
}

func TestDenyThenAuthorizeRejected(t *testing.T) {
	c := New(ids.NodeID{1}, 1, nil, NewMetrics(nil), nil)
	req := mkRequest(6, []ids.StringID{{7}}, Reason{Kind: ReasonSystemMaintenance})
	id, err := c.Submit(req)
	require.NoError(t, err)

	require.NoError(t, c.Deny(id))
	require.ErrorIs(t, c.Authorize(id), ErrAlreadyDecided)
}

func TestPartiallyCompletedWhenNotAllStringsConfirmed(t *testing.T) {
	c := New(ids.NodeID{1}, 1, nil, NewMetrics(nil), nil)
	a, b := ids.StringID{20}, ids.StringID{21}
	req := mkRequest(7, []ids.StringID{a, b}, Reason{Kind: ReasonOwnerRequest})
	id, err := c.Submit(req)
	require.NoError(t, err)
	require.NoError(t, c.Authorize(id))

	status, err := c.AddConfirmation(Confirmation{RequestID: id, ConfirmerID: ids.NodeID{22}, ErasedStrings: []ids.StringID{a}})
	require.NoError(t, err)
	require.Equal(t, StatusPartiallyCompleted, status)
}

func TestAuditTrailReflectsStatus(t *testing.T) {
	c := New(ids.NodeID{1}, 1, nil, NewMetrics(nil), nil)
	req := mkRequest(8, []ids.StringID{{30}}, Reason{Kind: ReasonPrivacyPolicyChange})
	id, err := c.Submit(req)
	require.NoError(t, err)
	require.NoError(t, c.Deny(id))

	trail := c.AuditTrail()
	require.Len(t, trail, 1)
	require.Equal(t, StatusDenied, trail[0].Status)
	require.Equal(t, 1, trail[0].StringCount)
}
