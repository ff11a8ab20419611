// Package erasure implements authorized cryptographic deletion: a request
// naming the strings to erase and why, an authorization gate, a
// confirmation quorum from participating nodes (each one an attestation
// that it destroyed its local key material), and an audit trail.
//
// Grounded on original_source/crates/rope-protocols/src/erasure.rs.
package erasure

import (
	"time"

	"github.com/latticenet/core/ids"
)

// Reason explains why an erasure was requested. Legal orders require
// authorization beyond a plain owner/GDPR request (Reason.RequiresLegalAuth).
type Reason struct {
	Kind ReasonKind
	// Detail carries the reason-specific free text: data subject id for
	// GdprRequest, legal reference for LegalOrder, incident id for
	// SecurityIncident, and so on. Empty for reasons that carry none.
	Detail string
}

// ReasonKind enumerates the erasure trigger categories.
type ReasonKind byte

const (
	ReasonGDPR ReasonKind = iota
	ReasonOwnerRequest
	ReasonTTLExpired
	ReasonLegalOrder
	ReasonContractCondition
	ReasonSystemMaintenance
	ReasonPrivacyPolicyChange
	ReasonSecurityIncident
)

// RequiresLegalAuth reports whether r needs a legal authorization proof
// before it may be carried out.
func (r Reason) RequiresLegalAuth() bool {
	return r.Kind == ReasonLegalOrder
}

// IsUserInitiated reports whether r originates from the data owner rather
// than the system.
func (r Reason) IsUserInitiated() bool {
	return r.Kind == ReasonGDPR || r.Kind == ReasonOwnerRequest
}

// Request is a submitted erasure request awaiting authorization and
// confirmation.
type Request struct {
	ID                  ids.StringID
	StringIDs           []ids.StringID
	RequesterID         ids.NodeID
	Reason              Reason
	Timestamp           time.Time
	AuthorizationProof  []byte
	LegalReference      string
	Cascade             bool
}

// KeyDestructionMethod records how a confirming node destroyed its local
// key material for an erased string.
type KeyDestructionMethod byte

const (
	DestructionSecureWipe KeyDestructionMethod = iota
	DestructionHSM
	DestructionThreshold
)

// KeyDestructionProof attests that a confirming node destroyed the key
// material for one string, without revealing the key itself.
type KeyDestructionProof struct {
	StringID    ids.StringID
	KeyHash     [32]byte
	DestroyedAt time.Time
	Method      KeyDestructionMethod
}

// Confirmation is one node's attestation that it erased the requested
// strings and destroyed their key material.
type Confirmation struct {
	RequestID            ids.StringID
	ErasedStrings        []ids.StringID
	ConfirmerID          ids.NodeID
	Timestamp            time.Time
	Signature            []byte
	KeyDestructionProofs []KeyDestructionProof
}

// Status is the lifecycle state of an erasure request.
type Status byte

const (
	StatusPendingAuthorization Status = iota
	StatusAuthorized
	StatusInProgress
	StatusCompleted
	StatusPartiallyCompleted
	StatusDenied
	StatusExpired
)

func (s Status) String() string {
	switch s {
	case StatusPendingAuthorization:
		return "pending_authorization"
	case StatusAuthorized:
		return "authorized"
	case StatusInProgress:
		return "in_progress"
	case StatusCompleted:
		return "completed"
	case StatusPartiallyCompleted:
		return "partially_completed"
	case StatusDenied:
		return "denied"
	case StatusExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// AuditRecord is the immutable history entry for one erasure request.
type AuditRecord struct {
	RequestID          ids.StringID
	StringCount         int
	Reason              Reason
	RequestedAt         time.Time
	CompletedAt         *time.Time
	Status              Status
	ParticipatingNodes  []ids.NodeID
}
