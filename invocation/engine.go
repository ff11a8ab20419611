package invocation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/latticenet/core/hash"
	"github.com/latticenet/core/ids"
	"github.com/latticenet/core/internal/retry"
	"github.com/latticenet/core/log"
	"github.com/latticenet/core/testimony"
)

// Phase tracks where a contract is in the invocation pipeline.
type Phase byte

const (
	PhaseValidatingConditions Phase = iota
	PhaseExecutingActions
	PhaseConditionsNotMet
	PhaseCompleted
)

// Status is the terminal outcome of a processed contract.
type Status byte

const (
	StatusCompleted Status = iota
	StatusConditionsNotMet
	StatusPartialFailure
)

type invocationState struct {
	invocationID ids.StringID
	contractID   ids.StringID
	phase        Phase
	startedAt    time.Time
	completedAt  *time.Time
}

// Record is the durable audit entry for one processed contract.
type Record struct {
	InvocationID     ids.StringID
	ContractID       ids.StringID
	Status           Status
	ConditionResults []ValidationResult
	ActionResults    []ExecutionResult
	StartedAt        time.Time
	CompletedAt      time.Time
}

// Result is what ProcessContract returns to its caller.
type Result struct {
	InvocationID     ids.StringID
	Status           Status
	ConditionResults []ValidationResult
	ActionResults    []ExecutionResult
}

// Engine orchestrates AI testimony validation and tool execution for
// digitized contracts.
type Engine struct {
	log            log.Logger
	metrics        *Metrics
	toolRegistry   *ToolRegistry
	securityPolicy SecurityPolicy

	mu     sync.RWMutex
	agents map[ids.NodeID]Agent

	pendingMu sync.Mutex
	pending   map[ids.StringID]*invocationState

	completedMu sync.Mutex
	completed   []Record
}

// New constructs an invocation Engine bound to toolRegistry. policy may be
// nil, in which case every action is allowed (AllowAllSecurityPolicy),
// matching the original's default construction.
func New(toolRegistry *ToolRegistry, policy SecurityPolicy, m *Metrics, logger log.Logger) *Engine {
	if logger == nil {
		logger = log.NewNoOpLogger()
	}
	if policy == nil {
		policy = AllowAllSecurityPolicy{}
	}
	return &Engine{
		log:            logger,
		metrics:        m,
		toolRegistry:   toolRegistry,
		securityPolicy: policy,
		agents:         make(map[ids.NodeID]Agent),
		pending:        make(map[ids.StringID]*invocationState),
	}
}

// RegisterAgent adds an AI testimony agent to the pool available for
// condition validation.
func (e *Engine) RegisterAgent(a Agent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.agents[a.AgentID()] = a
}

func invocationIDFor(contractID ids.StringID) ids.StringID {
	d := hash.Sum(contractID[:])
	var id ids.StringID
	copy(id[:], d[:])
	return id
}

// ProcessContract validates every condition with suitable agents and, if
// all are satisfied, executes every action via the tool registry,
// returning the aggregated result and recording it for audit.
func (e *Engine) ProcessContract(ctx context.Context, contract *Contract) (*Result, error) {
	invocationID := invocationIDFor(contract.ID)
	now := time.Now()

	e.pendingMu.Lock()
	e.pending[invocationID] = &invocationState{
		invocationID: invocationID,
		contractID:   contract.ID,
		phase:        PhaseValidatingConditions,
		startedAt:    now,
	}
	e.pendingMu.Unlock()

	allMet := true
	conditionResults := make([]ValidationResult, 0, len(contract.Conditions))
	for _, cond := range contract.Conditions {
		result, err := e.validateCondition(ctx, cond, contract)
		if err != nil {
			return nil, err
		}
		if !result.Satisfied {
			allMet = false
			e.bumpConditionFailed()
		}
		conditionResults = append(conditionResults, result)
	}

	e.setPendingPhase(invocationID, phaseAfterConditions(allMet))

	var caller ids.NodeID
	if len(contract.Parties) > 0 {
		caller = contract.Parties[0].NodeID
	}

	actionResults := make([]ExecutionResult, 0)
	if allMet {
		for _, action := range contract.Actions {
			result, err := e.executeAction(ctx, caller, action)
			if err != nil {
				return nil, err
			}
			if !result.Success {
				e.bumpActionFailed()
			} else {
				e.bumpActionExecuted()
			}
			actionResults = append(actionResults, result)
		}
	}

	status := finalStatus(allMet, actionResults)
	completedAt := time.Now()

	e.pendingMu.Lock()
	delete(e.pending, invocationID)
	e.pendingMu.Unlock()

	record := Record{
		InvocationID:     invocationID,
		ContractID:       contract.ID,
		Status:           status,
		ConditionResults: conditionResults,
		ActionResults:    actionResults,
		StartedAt:        now,
		CompletedAt:      completedAt,
	}
	e.completedMu.Lock()
	e.completed = append(e.completed, record)
	e.completedMu.Unlock()
	e.bumpContractProcessed()

	return &Result{
		InvocationID:     invocationID,
		Status:           status,
		ConditionResults: conditionResults,
		ActionResults:    actionResults,
	}, nil
}

func phaseAfterConditions(allMet bool) Phase {
	if allMet {
		return PhaseExecutingActions
	}
	return PhaseConditionsNotMet
}

func finalStatus(allMet bool, results []ExecutionResult) Status {
	if !allMet {
		return StatusConditionsNotMet
	}
	for _, r := range results {
		if !r.Success {
			return StatusPartialFailure
		}
	}
	return StatusCompleted
}

func (e *Engine) setPendingPhase(id ids.StringID, phase Phase) {
	e.pendingMu.Lock()
	defer e.pendingMu.Unlock()
	if st, ok := e.pending[id]; ok {
		st.phase = phase
	}
}

// validateCondition gathers every registered agent whose type matches
// cond.RequiredAgents and requires the configured approval fraction of
// them to find the condition satisfied.
func (e *Engine) validateCondition(ctx context.Context, cond Condition, contract *Contract) (ValidationResult, error) {
	e.mu.RLock()
	var suitable []Agent
	for _, a := range e.agents {
		if agentTypeRequired(cond.RequiredAgents, a.AgentType()) {
			suitable = append(suitable, a)
		}
	}
	e.mu.RUnlock()

	if len(suitable) == 0 {
		return ValidationResult{}, ErrNoSuitableAgents
	}

	var requester ids.NodeID
	if len(contract.Parties) > 0 {
		requester = contract.Parties[0].NodeID
	}
	vctx := ValidationContext{Timestamp: time.Now(), Requester: requester}

	var approvals int
	var totalConfidence float64
	for _, a := range suitable {
		result := a.ValidateCondition(ctx, cond, vctx)
		if result.Satisfied {
			approvals++
			totalConfidence += result.Confidence
		}
	}

	approvalRate := float64(approvals) / float64(len(suitable))
	satisfied := approvalRate >= cond.ApprovalThreshold
	avgConfidence := 0.0
	if approvals > 0 {
		avgConfidence = totalConfidence / float64(approvals)
	}

	reason := fmt.Sprintf("threshold not met: %.1f%% < %.1f%%", approvalRate*100, cond.ApprovalThreshold*100)
	if satisfied {
		reason = fmt.Sprintf("%d/%d agents approved", approvals, len(suitable))
	}

	return ValidationResult{Satisfied: satisfied, Confidence: avgConfidence, Reason: reason}, nil
}

func agentTypeRequired(required []testimony.AgentType, candidate testimony.AgentType) bool {
	for _, t := range required {
		if t == candidate {
			return true
		}
	}
	return false
}

func (e *Engine) executeAction(ctx context.Context, caller ids.NodeID, action Action) (ExecutionResult, error) {
	if !e.securityPolicy.CanExecute(caller, action) {
		return ExecutionResult{}, ErrSecurityPolicyViolation
	}

	tool, ok := e.toolRegistry.FindBestToolForAction(action)
	if !ok {
		return ExecutionResult{}, ErrNoSuitableTool
	}

	var result ExecutionResult
	op := func() error {
		r, err := tool.Execute(ctx, action)
		result = r
		return err
	}
	if err := retry.Do(ctx, retry.DefaultMaxRetries, op); err != nil {
		return ExecutionResult{Success: false, Error: err.Error()}, nil
	}
	return result, nil
}

// GetStatus returns the phase of a pending invocation, if any.
func (e *Engine) GetStatus(invocationID ids.StringID) (Phase, bool) {
	e.pendingMu.Lock()
	defer e.pendingMu.Unlock()
	st, ok := e.pending[invocationID]
	if !ok {
		return 0, false
	}
	return st.phase, true
}

// GetRecord returns the audit record for a completed invocation.
func (e *Engine) GetRecord(invocationID ids.StringID) (Record, bool) {
	e.completedMu.Lock()
	defer e.completedMu.Unlock()
	for _, r := range e.completed {
		if r.InvocationID == invocationID {
			return r, true
		}
	}
	return Record{}, false
}

func (e *Engine) bumpContractProcessed() {
	if e.metrics != nil {
		e.metrics.ContractsProcessed.Inc()
	}
}

func (e *Engine) bumpConditionFailed() {
	if e.metrics != nil {
		e.metrics.ConditionsFailed.Inc()
	}
}

func (e *Engine) bumpActionExecuted() {
	if e.metrics != nil {
		e.metrics.ActionsExecuted.Inc()
	}
}

func (e *Engine) bumpActionFailed() {
	if e.metrics != nil {
		e.metrics.ActionsFailed.Inc()
	}
}
