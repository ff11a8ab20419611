package federation

import (
	"bytes"
	"sort"
	"sync"
	"time"

	"github.com/latticenet/core/ids"
	"github.com/latticenet/core/log"
	safemath "github.com/latticenet/core/utils/math"
	"github.com/latticenet/core/utils/sampler"
)

// Quorum returns Q = 2f+1 for a validator set of size n, where
// f = floor((n-1)/3) is the maximum number of Byzantine validators the set
// can tolerate. This is the single implementation of the spec's quorum
// fraction; nothing recomputes it independently.
func Quorum(n int) int {
	if n <= 0 {
		return 0
	}
	f := (n - 1) / 3
	return 2*f + 1
}

// Registry is the validator set: staking, epoch rotation, slashing, and
// reward bookkeeping.
type Registry struct {
	log     log.Logger
	metrics *Metrics

	minStake      uint64
	maxValidators int
	epochLength   time.Duration
	slashingRates SlashingRates

	mu             sync.RWMutex
	validators     map[ids.NodeID]*Validator
	currentEpoch   Epoch
	epochHistory   []Epoch
	slashingEvents []SlashingEvent
}

// New constructs a Registry with its genesis epoch already open.
func New(minStake uint64, maxValidators int, epochLength time.Duration, m *Metrics, logger log.Logger) *Registry {
	if logger == nil {
		logger = log.NewNoOpLogger()
	}
	now := time.Now()
	return &Registry{
		log:           logger,
		metrics:       m,
		minStake:      minStake,
		maxValidators: maxValidators,
		epochLength:   epochLength,
		slashingRates: DefaultSlashingRates(),
		validators:    make(map[ids.NodeID]*Validator),
		currentEpoch: Epoch{
			Number:    0,
			StartTime: now,
			EndTime:   now.Add(epochLength),
		},
	}
}

// RegisterValidator admits a new validator with the given initial stake
// and commission rate (basis points, clamped to [0, 10000]).
func (r *Registry) RegisterValidator(nodeID ids.NodeID, stake uint64, commissionBps uint16) error {
	if stake < r.minStake {
		return ErrInsufficientStake
	}
	if commissionBps > 10000 {
		commissionBps = 10000
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.validators[nodeID]; ok {
		return ErrAlreadyRegistered
	}
	r.validators[nodeID] = &Validator{
		NodeID:        nodeID,
		Stake:         stake,
		CommissionBps: commissionBps,
		RegisteredAt:  time.Now(),
	}
	r.bumpRegistered()
	r.log.Debug("validator registered", "node", nodeID, "stake", stake)
	return nil
}

// AddStake increases a validator's stake and returns its new total.
func (r *Registry) AddStake(nodeID ids.NodeID, amount uint64) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.validators[nodeID]
	if !ok {
		return 0, ErrValidatorNotFound
	}
	newStake, err := safemath.Add64(v.Stake, amount)
	if err != nil {
		return 0, err
	}
	v.Stake = newStake
	return v.Stake, nil
}

// WithdrawStake decreases a validator's stake, deactivating it if the
// remaining stake falls below the registry minimum.
func (r *Registry) WithdrawStake(nodeID ids.NodeID, amount uint64) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.validators[nodeID]
	if !ok {
		return 0, ErrValidatorNotFound
	}
	if v.Stake < amount {
		return 0, ErrInsufficientStake
	}
	newStake, err := safemath.Sub64(v.Stake, amount)
	if err != nil {
		return 0, err
	}
	if newStake < r.minStake {
		v.Active = false
	}
	v.Stake = newStake
	return v.Stake, nil
}

// RecordAttestation notes that nodeID provided an attestation this epoch,
// resetting its missed-attestation streak.
func (r *Registry) RecordAttestation(nodeID ids.NodeID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.validators[nodeID]
	if !ok {
		return ErrValidatorNotFound
	}
	v.TotalAttestations++
	v.MissedAttestations = 0
	return nil
}

// RecordMissedAttestation notes a missed attestation, automatically
// slashing for downtime once the consecutive-miss threshold is reached.
// The returned bool reports whether a slash was triggered.
func (r *Registry) RecordMissedAttestation(nodeID ids.NodeID) (bool, error) {
	r.mu.Lock()
	v, ok := r.validators[nodeID]
	if !ok {
		r.mu.Unlock()
		return false, ErrValidatorNotFound
	}
	v.MissedAttestations++
	shouldSlash := v.MissedAttestations >= maxMissedAttestations
	r.mu.Unlock()

	if !shouldSlash {
		return false, nil
	}
	if _, err := r.Slash(nodeID, SlashDowntime); err != nil {
		return false, err
	}
	return true, nil
}

// Slash penalizes a validator per reason's configured rate, recording a
// SlashingEvent and deactivating the validator if its remaining stake
// falls below the registry minimum.
func (r *Registry) Slash(nodeID ids.NodeID, reason SlashingReason) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.validators[nodeID]
	if !ok {
		return 0, ErrValidatorNotFound
	}

	rate := uint64(r.slashingRates.rateFor(reason))
	amount, err := safemath.Mul64(v.Stake, rate)
	if err != nil {
		return 0, err
	}
	amount /= 10000

	v.Stake, err = safemath.Sub64(v.Stake, amount)
	if err != nil {
		return 0, err
	}
	v.SlashingEvents++
	if v.Stake < r.minStake {
		v.Active = false
	}

	r.slashingEvents = append(r.slashingEvents, SlashingEvent{
		ValidatorID: nodeID,
		Reason:      reason,
		Amount:      amount,
		Timestamp:   time.Now(),
		Epoch:       r.currentEpoch.Number,
	})
	r.bumpSlashed()
	r.log.Warn("validator slashed", "node", nodeID, "reason", reason, "amount", amount)
	return amount, nil
}

// NextEpoch archives the current epoch and selects the top maxValidators
// validators by stake (meeting minStake) as the new active set.
func (r *Registry) NextEpoch() Epoch {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.epochHistory = append(r.epochHistory, r.currentEpoch)

	eligible := make([]*Validator, 0, len(r.validators))
	for _, v := range r.validators {
		if v.Stake >= r.minStake {
			eligible = append(eligible, v)
		}
	}
	sort.Slice(eligible, func(i, j int) bool { return eligible[i].Stake > eligible[j].Stake })

	n := r.maxValidators
	if n > len(eligible) {
		n = len(eligible)
	}
	active := eligible[:n]

	activeSet := make(map[ids.NodeID]bool, n)
	activeIDs := make([]ids.NodeID, 0, n)
	var totalStake uint64
	for _, v := range active {
		activeSet[v.NodeID] = true
		activeIDs = append(activeIDs, v.NodeID)
		totalStake += v.Stake
	}
	for _, v := range r.validators {
		v.Active = activeSet[v.NodeID]
	}

	now := time.Now()
	r.currentEpoch = Epoch{
		Number:    r.currentEpoch.Number + 1,
		StartTime: now,
		EndTime:   now.Add(r.epochLength),
		Validators: activeIDs,
		TotalStake: totalStake,
	}
	r.bumpEpoch()
	return r.currentEpoch
}

// CurrentEpoch returns a copy of the active epoch.
func (r *Registry) CurrentEpoch() Epoch {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.currentEpoch
}

// GetValidator returns a copy of a validator's state.
func (r *Registry) GetValidator(nodeID ids.NodeID) (Validator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.validators[nodeID]
	if !ok {
		return Validator{}, false
	}
	return *v, true
}

// ActiveValidators returns a copy of every currently active validator.
func (r *Registry) ActiveValidators() []Validator {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Validator, 0, len(r.validators))
	for _, v := range r.validators {
		if v.Active {
			out = append(out, *v)
		}
	}
	return out
}

// SelectCommittee draws size distinct active validators, weighted by
// stake and without replacement, for a single consensus round (proposer
// rotation or an attestation committee on an epoch whose active set is
// too large to poll in full). seed makes the draw reproducible for
// testing; production callers should derive it from the round number.
func (r *Registry) SelectCommittee(size int, seed int64) ([]ids.NodeID, error) {
	active := r.ActiveValidators()
	if size > len(active) {
		return nil, ErrInsufficientValidators
	}

	sort.Slice(active, func(i, j int) bool {
		return bytes.Compare(active[i].NodeID[:], active[j].NodeID[:]) < 0
	})

	weights := make([]uint64, len(active))
	for i, v := range active {
		weights[i] = v.Stake
	}

	w := sampler.NewWeightedWithoutReplacement(sampler.NewSource(seed))
	if err := w.Initialize(weights); err != nil {
		return nil, err
	}
	indices, ok := w.Sample(size)
	if !ok {
		return nil, ErrInsufficientValidators
	}

	committee := make([]ids.NodeID, size)
	for i, idx := range indices {
		committee[i] = active[idx].NodeID
	}
	return committee, nil
}

// TotalVotingPower sums every validator's voting power.
func (r *Registry) TotalVotingPower() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var total uint64
	for _, v := range r.validators {
		total += v.VotingPower()
	}
	return total
}

// QuorumThreshold returns the stake-weighted quorum threshold, 2/3+1 of
// total voting power.
func (r *Registry) QuorumThreshold() uint64 {
	total := r.TotalVotingPower()
	return (total*2)/3 + 1
}

func (r *Registry) bumpRegistered() {
	if r.metrics != nil {
		r.metrics.ValidatorsRegistered.Inc()
	}
}

func (r *Registry) bumpSlashed() {
	if r.metrics != nil {
		r.metrics.SlashingEvents.Inc()
	}
}

func (r *Registry) bumpEpoch() {
	if r.metrics != nil {
		r.metrics.EpochTransitions.Inc()
	}
}
