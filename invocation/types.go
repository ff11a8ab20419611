// Package invocation implements the contract execution engine: conditions
// are validated by AI testimony agents, and once every condition is
// satisfied, actions are dispatched to vetted tools from a registry.
//
// Grounded on
// original_source/crates/rope-smartchain/src/{invocation_engine,testimony_agent,tool_registry}.rs.
package invocation

import (
	"time"

	"github.com/latticenet/core/ids"
	"github.com/latticenet/core/testimony"
)

// PartyRole is a contract party's role.
type PartyRole byte

const (
	RolePrimary PartyRole = iota
	RoleCounterParty
	RoleWitness
	RoleGuarantor
	RoleCustom
)

// Party is one signatory to a contract.
type Party struct {
	NodeID    ids.NodeID
	PublicKey []byte
	Role      PartyRole
	Signature []byte
}

// ConditionType classifies what a Condition checks.
type ConditionType byte

const (
	ConditionTemporal ConditionType = iota
	ConditionValueThreshold
	ConditionExternalEvent
	ConditionMultiSig
	ConditionInsuranceClaim
	ConditionCompliance
	ConditionCustom
)

// ConditionStatus is the lifecycle state of a single condition.
type ConditionStatus byte

const (
	ConditionPending ConditionStatus = iota
	ConditionEvaluating
	ConditionSatisfied
	ConditionNotSatisfied
	ConditionError
)

// Condition is one clause of a contract that must be validated by AI
// testimony agents before its actions may execute.
type Condition struct {
	ID                ids.StringID
	Type              ConditionType
	Parameters        map[string]any
	RequiredAgents    []testimony.AgentType
	ApprovalThreshold float64
	Status            ConditionStatus
}

// ActionType classifies what an Action does once dispatched to a tool.
type ActionType byte

const (
	ActionAssetTransfer ActionType = iota
	ActionPayment
	ActionTokenOperation
	ActionStateUpdate
	ActionContractCall
	ActionExternalCall
	ActionCustom
)

// ActionStatus is the lifecycle state of a single action.
type ActionStatus byte

const (
	ActionPendingStatus ActionStatus = iota
	ActionExecuting
	ActionCompleted
	ActionFailed
)

// TargetProtocol names the execution surface an Action is dispatched to.
type TargetProtocol struct {
	Name     string
	Endpoint string
}

// Action is one effect to carry out once a contract's conditions are met.
type Action struct {
	ID         ids.StringID
	Type       ActionType
	Target     TargetProtocol
	Parameters map[string]any
	Status     ActionStatus
}

// ContractState is the overall lifecycle state of a contract.
type ContractState byte

const (
	ContractDraft ContractState = iota
	ContractActive
	ContractExecuting
	ContractCompleted
	ContractTerminated
)

// Metadata carries descriptive, non-semantic contract information.
type Metadata struct {
	Name        string
	Description string
	CreatedAt   time.Time
	ExpiresAt   *time.Time
	Version     string
	Tags        []string
}

// Contract is a digitized agreement: parties, the conditions gating
// execution, and the actions to carry out once every condition holds.
type Contract struct {
	ID         ids.StringID
	Parties    []Party
	Conditions []Condition
	Actions    []Action
	Metadata   Metadata
	State      ContractState
}
