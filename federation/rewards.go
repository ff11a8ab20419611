package federation

import "github.com/latticenet/core/ids"

// DistributeRewards splits pool across the currently active validator set
// in proportion to stake, crediting each validator's accumulated Rewards
// and returning the per-validator amounts actually distributed. Grounded
// on original_source/crates/rope-economics/src/rewards.rs's
// calculate_epoch_rewards (stake-proportional split); remainder from
// integer division is left undistributed rather than awarded arbitrarily
// to avoid favoring whichever validator is iterated last.
func (r *Registry) DistributeRewards(pool uint64) map[ids.NodeID]uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	totalStake := uint64(0)
	for _, v := range r.validators {
		if v.Active {
			totalStake += v.Stake
		}
	}

	out := make(map[ids.NodeID]uint64)
	if totalStake == 0 {
		return out
	}

	var distributed uint64
	for _, v := range r.validators {
		if !v.Active {
			continue
		}
		share := (pool * v.Stake) / totalStake
		if share == 0 {
			continue
		}
		v.Rewards += share
		out[v.NodeID] = share
		distributed += share
	}

	r.currentEpoch.RewardsDistributed += distributed
	r.bumpRewardsDistributed()
	return out
}

// ClaimRewards zeroes out and returns a validator's accumulated rewards.
func (r *Registry) ClaimRewards(nodeID ids.NodeID) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.validators[nodeID]
	if !ok {
		return 0, ErrValidatorNotFound
	}
	amount := v.Rewards
	v.Rewards = 0
	return amount, nil
}

func (r *Registry) bumpRewardsDistributed() {
	if r.metrics != nil {
		r.metrics.RewardsDistributed.Inc()
	}
}
