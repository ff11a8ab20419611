package testimony

import (
	"sync"

	"github.com/latticenet/core/ids"
	"github.com/latticenet/core/log"
)

// Collector fans in testimonies for every target string, maintaining one
// Collection per target and forwarding the combined testimony count to
// whatever finality engine it is wired to.
type Collector struct {
	q         int
	onUpdate  func(id ids.StringID, count int)
	log       log.Logger
	metrics   *Metrics

	mu          sync.Mutex
	collections map[ids.StringID]*Collection
}

// NewCollector constructs a Collector requiring q distinct cryptographic
// attestors per target before quorum. onUpdate, if non-nil, is called
// after every accepted testimony with the target's new combined count
// (crypto attestors + AI testimonies) — wire it to
// finality.Engine.UpdateTestimonyCount.
func NewCollector(q int, onUpdate func(id ids.StringID, count int), m *Metrics, logger log.Logger) *Collector {
	if logger == nil {
		logger = log.NewNoOpLogger()
	}
	return &Collector{
		q:           q,
		onUpdate:    onUpdate,
		log:         logger,
		metrics:     m,
		collections: make(map[ids.StringID]*Collection),
	}
}

func (c *Collector) collectionFor(target ids.StringID) *Collection {
	c.mu.Lock()
	defer c.mu.Unlock()
	coll, ok := c.collections[target]
	if !ok {
		coll = NewCollection(target, c.q)
		c.collections[target] = coll
	}
	return coll
}

// SubmitCrypto accepts a cryptographic testimony and reports whether its
// target just reached quorum.
func (c *Collector) SubmitCrypto(t CryptoTestimony) (quorumReached bool, err error) {
	coll := c.collectionFor(t.Target)
	reached, err := coll.AddCrypto(t)
	if err != nil {
		if c.metrics != nil {
			c.metrics.DuplicatesRejected.Inc()
		}
		return false, err
	}
	if c.metrics != nil {
		c.metrics.CryptoTestimonies.Inc()
		if reached {
			c.metrics.QuorumsReached.Inc()
			if latency, ok := coll.QuorumLatency(); ok && c.metrics.QuorumLatency != nil {
				c.metrics.QuorumLatency.Observe(latency.Seconds())
			}
		}
	}
	c.notify(t.Target, coll)
	return reached, nil
}

// SubmitAI accepts an AI testimony targeting the same string as its base
// cryptographic testimony.
func (c *Collector) SubmitAI(t AITestimony) error {
	coll := c.collectionFor(t.Base.Target)
	if err := coll.AddAI(t); err != nil {
		return err
	}
	if c.metrics != nil {
		c.metrics.AITestimonies.Inc()
	}
	c.notify(t.Base.Target, coll)
	return nil
}

// Collection returns the accumulated collection for target, if any
// testimony has been recorded for it.
func (c *Collector) Collection(target ids.StringID) (*Collection, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	coll, ok := c.collections[target]
	return coll, ok
}

func (c *Collector) notify(target ids.StringID, coll *Collection) {
	if c.onUpdate == nil {
		return
	}
	count := coll.AttestorCount() + coll.AICount()
	c.onUpdate(target, count)
}
