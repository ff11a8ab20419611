package erasure

import (
	"sync"
	"time"

	"github.com/latticenet/core/ids"
	"github.com/latticenet/core/log"
	"github.com/latticenet/core/set"
)

type requestState struct {
	req        Request
	status     Status
	confirmers set.Set[ids.NodeID]
	erased     set.Set[ids.StringID]
	audit      *AuditRecord
}

// Coordinator drives erasure requests from submission through
// authorization and confirmation quorum to completion, maintaining an
// audit trail throughout.
type Coordinator struct {
	nodeID                ids.NodeID
	requiredConfirmations int
	eraser                func(ids.StringID) error
	log                    log.Logger
	metrics                *Metrics

	mu           sync.Mutex
	requests     map[ids.StringID]*requestState
	erasedGlobal set.Set[ids.StringID]
}

// New constructs a Coordinator. eraser, if non-nil, is called for every
// string id listed in each accepted confirmation (a string confirmed by
// several nodes is passed to it once per confirmation) — wire it to
// lattice.Lattice.MarkErased.
func New(nodeID ids.NodeID, requiredConfirmations int, eraser func(ids.StringID) error, m *Metrics, logger log.Logger) *Coordinator {
	if logger == nil {
		logger = log.NewNoOpLogger()
	}
	return &Coordinator{
		nodeID:                nodeID,
		requiredConfirmations: requiredConfirmations,
		eraser:                eraser,
		log:                   logger,
		metrics:               m,
		requests:              make(map[ids.StringID]*requestState),
		erasedGlobal:          make(set.Set[ids.StringID]),
	}
}

// Submit registers a new erasure request in PendingAuthorization state.
func (c *Coordinator) Submit(req Request) (ids.StringID, error) {
	if req.Reason.RequiresLegalAuth() && len(req.AuthorizationProof) == 0 {
		return ids.StringID{}, ErrMissingLegalAuth
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	rs := &requestState{
		req:        req,
		status:     StatusPendingAuthorization,
		confirmers: make(set.Set[ids.NodeID]),
		erased:     make(set.Set[ids.StringID]),
		audit: &AuditRecord{
			RequestID:   req.ID,
			StringCount: len(req.StringIDs),
			Reason:      req.Reason,
			RequestedAt: req.Timestamp,
			Status:      StatusPendingAuthorization,
		},
	}
	c.requests[req.ID] = rs
	c.bumpSubmitted()
	c.log.Debug("erasure request submitted", "id", req.ID, "reason", req.Reason.Kind)
	return req.ID, nil
}

// Authorize moves a pending request into the Authorized state, allowing
// confirmations to be accepted.
func (c *Coordinator) Authorize(requestID ids.StringID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	rs, ok := c.requests[requestID]
	if !ok {
		return ErrUnknownRequest
	}
	if rs.status != StatusPendingAuthorization {
		return ErrAlreadyDecided
	}
	rs.status = StatusAuthorized
	rs.audit.Status = StatusAuthorized
	c.bumpAuthorized()
	return nil
}

// Deny rejects a pending request.
func (c *Coordinator) Deny(requestID ids.StringID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	rs, ok := c.requests[requestID]
	if !ok {
		return ErrUnknownRequest
	}
	if rs.status != StatusPendingAuthorization {
		return ErrAlreadyDecided
	}
	rs.status = StatusDenied
	rs.audit.Status = StatusDenied
	c.bumpDenied()
	return nil
}

// AddConfirmation records a node's attestation that it erased the
// requested strings. Once requiredConfirmations distinct nodes have
// confirmed, the request completes (fully or partially, depending on
// whether every requested string was reported erased by at least one
// confirmer).
func (c *Coordinator) AddConfirmation(conf Confirmation) (Status, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rs, ok := c.requests[conf.RequestID]
	if !ok {
		return 0, ErrUnknownRequest
	}
	if rs.confirmers.Contains(conf.ConfirmerID) {
		return rs.status, ErrDuplicateConfirmer
	}
	if rs.status != StatusAuthorized && rs.status != StatusInProgress {
		return rs.status, ErrNotAuthorized
	}

	rs.confirmers.Add(conf.ConfirmerID)
	for _, sid := range conf.ErasedStrings {
		rs.erased.Add(sid)
		c.erasedGlobal.Add(sid)
		if c.eraser != nil {
			if err := c.eraser(sid); err != nil {
				c.log.Warn("erasure: lattice rejected erase", "string", sid, "error", err)
			}
		}
	}
	rs.status = StatusInProgress

	if rs.confirmers.Len() >= c.requiredConfirmations {
		if rs.erased.Len() >= len(rs.req.StringIDs) {
			rs.status = StatusCompleted
		} else {
			rs.status = StatusPartiallyCompleted
		}
		now := time.Now()
		rs.audit.CompletedAt = &now
		c.bumpCompleted()
	}
	rs.audit.Status = rs.status
	rs.audit.ParticipatingNodes = rs.confirmers.List()

	return rs.status, nil
}

// IsErased reports whether stringID has been confirmed erased by at least
// one completed confirmation, across any request.
func (c *Coordinator) IsErased(stringID ids.StringID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.erasedGlobal.Contains(stringID)
}

// GetStatus returns the current status of a request.
func (c *Coordinator) GetStatus(requestID ids.StringID) (Status, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rs, ok := c.requests[requestID]
	if !ok {
		return 0, false
	}
	return rs.status, true
}

// AuditTrail returns a snapshot of every request's audit record.
func (c *Coordinator) AuditTrail() []AuditRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]AuditRecord, 0, len(c.requests))
	for _, rs := range c.requests {
		out = append(out, *rs.audit)
	}
	return out
}

func (c *Coordinator) bumpSubmitted() {
	if c.metrics != nil {
		c.metrics.Submitted.Inc()
	}
}

func (c *Coordinator) bumpAuthorized() {
	if c.metrics != nil {
		c.metrics.Authorized.Inc()
	}
}

func (c *Coordinator) bumpDenied() {
	if c.metrics != nil {
		c.metrics.Denied.Inc()
	}
}

func (c *Coordinator) bumpCompleted() {
	if c.metrics != nil {
		c.metrics.Completed.Inc()
	}
}
