package finality

import (
	"testing"
	"time"

	"github.com/latticenet/core/ids"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		MinAnchorConfirmations: 2,
		MinTestimonies:         1,
		FinalityTimeout:        50 * time.Millisecond,
		RequireParentFinality:  true,
	}
}

// TestFinalityHappyPath exercises spec scenario S1: a string accumulates
// enough anchor confirmations and testimonies and (with no non-final
// parents) finalizes.
func TestFinalityHappyPath(t *testing.T) {
	e := New(testConfig(), NewMetrics(nil), nil)
	id := ids.StringID{1}

	e.RegisterString(id, nil)
	st, ok := e.State(id)
	require.True(t, ok)
	require.Equal(t, Pending, st)

	e.RecordAnchor(ids.StringID{0xA1}, 1, []ids.StringID{id})
	st, _ = e.State(id)
	require.Equal(t, Tentative, st)
	info, ok := e.Info(id)
	require.True(t, ok)
	require.InDelta(t, 40.0, info.Confidence, 0.01, "20 pts for half the anchor threshold, 0 for testimonies, 20 for no parents")

	require.NoError(t, e.UpdateTestimonyCount(id, 1))
	st, _ = e.State(id)
	require.Equal(t, Tentative, st, "one anchor confirmation is not yet enough to finalize")
	info, _ = e.Info(id)
	require.InDelta(t, 80.0, info.Confidence, 0.01, "anchor 1/2 + full testimony credit + parent credit")

	anchor2 := ids.StringID{0xA2}
	e.RecordAnchor(anchor2, 2, []ids.StringID{id})
	st, _ = e.State(id)
	require.Equal(t, Final, st)
	info, _ = e.Info(id)
	require.Equal(t, anchor2, info.FinalAnchorID)
	require.Equal(t, 1, info.TotalTestimonies)
	require.False(t, info.FinalizedAt.IsZero())
}

// TestFinalityRequiresParentFinality exercises spec scenario S2: a string
// cannot finalize while RequireParentFinality is set and its parent has
// not itself finalized.
func TestFinalityRequiresParentFinality(t *testing.T) {
	e := New(testConfig(), NewMetrics(nil), nil)
	parent := ids.StringID{2}
	child := ids.StringID{3}

	e.RegisterString(parent, nil)
	e.RegisterString(child, []ids.StringID{parent})

	require.NoError(t, e.UpdateTestimonyCount(child, 1))
	e.RecordAnchor(ids.StringID{0xB1}, 1, []ids.StringID{child})
	e.RecordAnchor(ids.StringID{0xB2}, 2, []ids.StringID{child})

	st, _ := e.State(child)
	require.Equal(t, Tentative, st, "child cannot finalize before its parent does")

	require.NoError(t, e.UpdateTestimonyCount(parent, 1))
	e.RecordAnchor(ids.StringID{0xB3}, 3, []ids.StringID{parent})
	e.RecordAnchor(ids.StringID{0xB4}, 4, []ids.StringID{parent})
	st, _ = e.State(parent)
	require.Equal(t, Final, st)

	e.RecordAnchor(ids.StringID{0xB5}, 5, []ids.StringID{child})
	st, _ = e.State(child)
	require.Equal(t, Final, st, "child finalizes once its parent has and its own thresholds are met")
}

func TestFinalityRejectIsTerminal(t *testing.T) {
	e := New(testConfig(), NewMetrics(nil), nil)
	id := ids.StringID{4}
	e.RegisterString(id, nil)

	require.NoError(t, e.RejectString(id, "invalid content"))
	st, _ := e.State(id)
	require.Equal(t, Rejected, st)

	err := e.RejectString(id, "invalid content")
	require.ErrorIs(t, err, ErrAlreadyTerminal)

	e.RecordAnchor(ids.StringID{0xC1}, 1, []ids.StringID{id})
	st, _ = e.State(id)
	require.Equal(t, Rejected, st, "a terminal state is never left")
}

func TestFinalityRejectReasonIsRecorded(t *testing.T) {
	e := New(testConfig(), NewMetrics(nil), nil)
	id := ids.StringID{6}
	e.RegisterString(id, nil)

	require.NoError(t, e.RejectString(id, "conflicting testimony"))
	info, ok := e.Info(id)
	require.True(t, ok)
	require.Equal(t, Rejected, info.State)
	require.Equal(t, "conflicting testimony", info.RejectReason)
	require.False(t, info.RejectedAt.IsZero())
}

func TestFinalityExpiration(t *testing.T) {
	e := New(testConfig(), NewMetrics(nil), nil)
	id := ids.StringID{5}
	e.RegisterString(id, nil)

	expired := e.ProcessExpirations(time.Now())
	require.Empty(t, expired)

	expired = e.ProcessExpirations(time.Now().Add(time.Second))
	require.Contains(t, expired, id)
	st, _ := e.State(id)
	require.Equal(t, Expired, st)
	info, ok := e.Info(id)
	require.True(t, ok)
	require.False(t, info.ExpiredAt.IsZero())
}

func TestUnknownStringErrors(t *testing.T) {
	e := New(testConfig(), NewMetrics(nil), nil)
	err := e.UpdateTestimonyCount(ids.StringID{9}, 1)
	require.ErrorIs(t, err, ErrUnknownString)

	err = e.RejectString(ids.StringID{9}, "reason")
	require.ErrorIs(t, err, ErrUnknownString)
}
