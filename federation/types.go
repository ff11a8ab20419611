// Package federation implements the validator registry: stake-weighted
// registration, epoch-based rotation, slashing, and reward distribution.
//
// Grounded on original_source/crates/rope-protocols/src/federation.rs
// (registry shape) and rope-economics/src/{slashing,rewards}.rs (rate and
// distribution details); vocabulary also carried over from the deleted
// teacher package validators/validators.go (Set/Manager shape generalized
// into Registry, "light" weight generalized into stake).
package federation

import (
	"time"

	"github.com/latticenet/core/ids"
)

// Validator is a registered staking participant.
type Validator struct {
	NodeID              ids.NodeID
	Stake               uint64
	CommissionBps       uint16 // 0-10000 = 0.00%-100.00%
	RegisteredAt        time.Time
	Active              bool
	MissedAttestations  uint32
	TotalAttestations   uint64
	SlashingEvents       uint32
	Rewards              uint64
}

// VotingPower is the validator's stake if active, else zero.
func (v Validator) VotingPower() uint64 {
	if !v.Active {
		return 0
	}
	return v.Stake
}

// Epoch is one rotation window of the active validator set.
type Epoch struct {
	Number             uint64
	StartTime          time.Time
	EndTime            time.Time
	Validators         []ids.NodeID
	TotalStake         uint64
	StringsFinalized   uint64
	RewardsDistributed uint64
}

// SlashingReason classifies why a validator was penalized.
type SlashingReason byte

const (
	SlashDoubleSign SlashingReason = iota
	SlashDowntime
	SlashInvalidAttestation
	SlashMaliciousBehavior
)

// SlashingEvent is a recorded penalty applied to a validator.
type SlashingEvent struct {
	ValidatorID ids.NodeID
	Reason      SlashingReason
	Amount      uint64
	Timestamp   time.Time
	Epoch       uint64
}

// SlashingRates holds the basis-point penalty for each slashing reason.
type SlashingRates struct {
	DoubleSign         uint16
	Downtime           uint16
	InvalidAttestation uint16
	MaliciousBehavior  uint16
}

// DefaultSlashingRates matches the original's default penalty schedule:
// 50% for double-signing, 1% for downtime, 10% for an invalid
// attestation, 100% for confirmed malicious behavior.
func DefaultSlashingRates() SlashingRates {
	return SlashingRates{
		DoubleSign:         5000,
		Downtime:           100,
		InvalidAttestation: 1000,
		MaliciousBehavior:  10000,
	}
}

func (r SlashingRates) rateFor(reason SlashingReason) uint16 {
	switch reason {
	case SlashDoubleSign:
		return r.DoubleSign
	case SlashDowntime:
		return r.Downtime
	case SlashInvalidAttestation:
		return r.InvalidAttestation
	default:
		return r.MaliciousBehavior
	}
}

// maxMissedAttestations is the consecutive-miss threshold that triggers an
// automatic downtime slash.
const maxMissedAttestations = 100
