package invocation

import "errors"

var (
	// ErrNoSuitableAgents is returned when no registered agent's type
	// matches a condition's RequiredAgents.
	ErrNoSuitableAgents = errors.New("invocation: no suitable agents registered for condition")
	// ErrNoSuitableTool is returned when no registered tool supports an
	// action's type.
	ErrNoSuitableTool = errors.New("invocation: no suitable tool registered for action")
	// ErrInsufficientTrustScore is returned when a tool's declared trust
	// score is below the registry's minimum (50), per register_tool.
	ErrInsufficientTrustScore = errors.New("invocation: tool trust score below minimum of 50")
	// ErrAuditExpired is returned when a tool's audit is no longer
	// current as of registration time, per register_tool.
	ErrAuditExpired = errors.New("invocation: tool audit has expired")
	// ErrSecurityPolicyViolation is returned when SecurityPolicy.CanExecute
	// rejects an action before it reaches a tool.
	ErrSecurityPolicyViolation = errors.New("invocation: security policy violation")
)
