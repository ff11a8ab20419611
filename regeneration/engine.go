package regeneration

import (
	"context"
	"fmt"

	"github.com/latticenet/core/content"
	"github.com/latticenet/core/ids"
	"github.com/latticenet/core/internal/retry"
	"github.com/latticenet/core/log"
)

// FragmentSource supplies one erasure fragment of a string's content, if it
// holds it. Multiple sources are tried per missing fragment index; a
// regenerating node typically wires this to its peer set.
type FragmentSource interface {
	Fetch(ctx context.Context, target ids.StringID, index int) ([]byte, error)
}

// Engine drives fragment recruitment and reconstruction for a damaged
// string, backing off between recruitment rounds per fragment so a
// temporarily unresponsive peer set doesn't spin the repair loop hot.
type Engine struct {
	log     log.Logger
	metrics *Metrics
}

// New constructs a regeneration Engine.
func New(m *Metrics, logger log.Logger) *Engine {
	if logger == nil {
		logger = log.NewNoOpLogger()
	}
	return &Engine{log: logger, metrics: m}
}

func missingIndices(req *Request) []int {
	total := req.K + req.M
	missing := make([]int, 0, total)
	for i := 0; i < total; i++ {
		if _, ok := req.Surviving[i]; !ok {
			missing = append(missing, i)
		}
	}
	return missing
}

// Repair attempts to bring req up to K surviving fragments by querying
// sources for each missing index (with bounded exponential backoff across
// the source list), then reconstructs and returns the original content via
// comp.Reconstruct.
func (e *Engine) Repair(ctx context.Context, req *Request, comp *content.Complement, sources []FragmentSource) ([]byte, error) {
	e.bumpRequested()

	if req.Damage == DamageTotal {
		e.bumpFailed()
		return nil, ErrUnrecoverable
	}

	for _, idx := range missingIndices(req) {
		if req.Ready() {
			break
		}
		idx := idx

		op := func() error {
			for _, src := range sources {
				data, err := src.Fetch(ctx, req.Target, idx)
				if err == nil {
					req.AddFragment(idx, data)
					return nil
				}
			}
			return fmt.Errorf("regeneration: fragment %d unavailable from any source", idx)
		}

		if err := retry.Do(ctx, retry.DefaultMaxRetries, op); err != nil {
			e.log.Debug("regeneration: fragment recruitment failed, continuing with remaining fragments",
				"target", req.Target, "index", idx, "error", err)
			continue
		}
	}

	if !req.Ready() {
		e.bumpFailed()
		return nil, ErrRepairExhausted
	}

	reconstructed, err := comp.Reconstruct(req.Surviving)
	if err != nil {
		e.bumpFailed()
		return nil, err
	}

	e.bumpRepaired()
	return reconstructed, nil
}

func (e *Engine) bumpRequested() {
	if e.metrics != nil {
		e.metrics.Requested.Inc()
	}
}

func (e *Engine) bumpRepaired() {
	if e.metrics != nil {
		e.metrics.Repaired.Inc()
	}
}

func (e *Engine) bumpFailed() {
	if e.metrics != nil {
		e.metrics.Failed.Inc()
	}
}
