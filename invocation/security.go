package invocation

import "github.com/latticenet/core/ids"

// SecurityPolicy gates whether caller may have action dispatched on its
// behalf, independent of condition validation and tool vetting — per
// invocation_engine.rs's `security_policy.can_execute(&caller,
// &tool_action)` check, which the engine consults immediately before
// handing an action to a tool.
type SecurityPolicy interface {
	CanExecute(caller ids.NodeID, action Action) bool
}

// AllowAllSecurityPolicy permits every action. It is the engine's default
// when no SecurityPolicy is supplied, matching the original's
// SecurityPolicy::default() in the absence of a configured allow/deny
// list.
type AllowAllSecurityPolicy struct{}

// CanExecute always returns true.
func (AllowAllSecurityPolicy) CanExecute(ids.NodeID, Action) bool { return true }

// DenyListSecurityPolicy rejects actions from callers present in its
// denied set, and otherwise allows execution.
type DenyListSecurityPolicy struct {
	Denied map[ids.NodeID]bool
}

// CanExecute reports whether caller is absent from the deny list.
func (p DenyListSecurityPolicy) CanExecute(caller ids.NodeID, _ Action) bool {
	return !p.Denied[caller]
}
