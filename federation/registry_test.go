package federation

import (
	"testing"
	"time"

	"github.com/latticenet/core/ids"
	"github.com/stretchr/testify/require"
)

func TestQuorumMatchesByzantineFraction(t *testing.T) {
	require.Equal(t, 0, Quorum(0))
	require.Equal(t, 1, Quorum(1))
	require.Equal(t, 3, Quorum(4))   // f=1, Q=3
	require.Equal(t, 13, Quorum(21)) // f=6, Q=13
}

func TestValidatorRegistration(t *testing.T) {
	r := New(100, 10, time.Hour, NewMetrics(nil), nil)

	require.NoError(t, r.RegisterValidator(ids.NodeID{1}, 1000, 500))
	v, ok := r.GetValidator(ids.NodeID{1})
	require.True(t, ok)
	require.EqualValues(t, 1000, v.Stake)

	require.ErrorIs(t, r.RegisterValidator(ids.NodeID{1}, 1000, 500), ErrAlreadyRegistered)
}

func TestInsufficientStakeRejected(t *testing.T) {
	r := New(1000, 10, time.Hour, NewMetrics(nil), nil)
	require.ErrorIs(t, r.RegisterValidator(ids.NodeID{2}, 500, 500), ErrInsufficientStake)
}

// TestSlashing exercises spec scenario S7: a 50% double-sign slash halves
// the validator's stake and records one slashing event.
func TestSlashing(t *testing.T) {
	r := New(100, 10, time.Hour, NewMetrics(nil), nil)
	require.NoError(t, r.RegisterValidator(ids.NodeID{1}, 1000, 500))

	slashed, err := r.Slash(ids.NodeID{1}, SlashDoubleSign)
	require.NoError(t, err)
	require.EqualValues(t, 500, slashed)

	v, _ := r.GetValidator(ids.NodeID{1})
	require.EqualValues(t, 500, v.Stake)
	require.EqualValues(t, 1, v.SlashingEvents)
}

func TestSlashBelowMinimumDeactivates(t *testing.T) {
	r := New(600, 10, time.Hour, NewMetrics(nil), nil)
	require.NoError(t, r.RegisterValidator(ids.NodeID{1}, 1000, 0))
	r.NextEpoch() // activate it
	v, _ := r.GetValidator(ids.NodeID{1})
	require.True(t, v.Active)

	_, err := r.Slash(ids.NodeID{1}, SlashDoubleSign) // 50% of 1000 = 500, leaves 500 < 600
	require.NoError(t, err)
	v, _ = r.GetValidator(ids.NodeID{1})
	require.False(t, v.Active)
}

func TestMissedAttestationAutoSlashesAfterThreshold(t *testing.T) {
	r := New(100, 10, time.Hour, NewMetrics(nil), nil)
	require.NoError(t, r.RegisterValidator(ids.NodeID{1}, 1000, 0))

	var slashed bool
	for i := 0; i < maxMissedAttestations; i++ {
		var err error
		slashed, err = r.RecordMissedAttestation(ids.NodeID{1})
		require.NoError(t, err)
	}
	require.True(t, slashed)

	v, _ := r.GetValidator(ids.NodeID{1})
	require.EqualValues(t, 1, v.SlashingEvents)
}

// TestEpochTransitionSelectsTopStake exercises the original's top-N
// selection: with max 3 validators, only the 3 highest-stake ones become
// active.
func TestEpochTransitionSelectsTopStake(t *testing.T) {
	r := New(100, 3, time.Hour, NewMetrics(nil), nil)
	for i := byte(1); i <= 5; i++ {
		require.NoError(t, r.RegisterValidator(ids.NodeID{i}, uint64(i)*1000, 0))
	}

	epoch := r.NextEpoch()
	require.Len(t, epoch.Validators, 3)

	active := map[ids.NodeID]bool{}
	for _, id := range epoch.Validators {
		active[id] = true
	}
	require.True(t, active[ids.NodeID{5}])
	require.True(t, active[ids.NodeID{4}])
	require.True(t, active[ids.NodeID{3}])
	require.False(t, active[ids.NodeID{2}])
}

func TestDistributeRewardsProportionalToStake(t *testing.T) {
	r := New(100, 10, time.Hour, NewMetrics(nil), nil)
	require.NoError(t, r.RegisterValidator(ids.NodeID{1}, 1000, 0))
	require.NoError(t, r.RegisterValidator(ids.NodeID{2}, 3000, 0))
	r.NextEpoch()

	amounts := r.DistributeRewards(4000)
	require.EqualValues(t, 1000, amounts[ids.NodeID{1}])
	require.EqualValues(t, 3000, amounts[ids.NodeID{2}])

	claimed, err := r.ClaimRewards(ids.NodeID{1})
	require.NoError(t, err)
	require.EqualValues(t, 1000, claimed)

	claimedAgain, err := r.ClaimRewards(ids.NodeID{1})
	require.NoError(t, err)
	require.EqualValues(t, 0, claimedAgain)
}

func TestSelectCommitteeDrawsDistinctActiveValidators(t *testing.T) {
	r := New(100, 10, time.Hour, NewMetrics(nil), nil)
	require.NoError(t, r.RegisterValidator(ids.NodeID{1}, 1000, 0))
	require.NoError(t, r.RegisterValidator(ids.NodeID{2}, 2000, 0))
	require.NoError(t, r.RegisterValidator(ids.NodeID{3}, 3000, 0))
	r.NextEpoch()

	committee, err := r.SelectCommittee(2, 42)
	require.NoError(t, err)
	require.Len(t, committee, 2)
	require.NotEqual(t, committee[0], committee[1])

	again, err := r.SelectCommittee(2, 42)
	require.NoError(t, err)
	require.Equal(t, committee, again, "the same seed must draw the same committee")
}

func TestSelectCommitteeRejectsOversizedRequest(t *testing.T) {
	r := New(100, 10, time.Hour, NewMetrics(nil), nil)
	require.NoError(t, r.RegisterValidator(ids.NodeID{1}, 1000, 0))
	r.NextEpoch()

	_, err := r.SelectCommittee(2, 1)
	require.ErrorIs(t, err, ErrInsufficientValidators)
}
