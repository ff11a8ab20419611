package regeneration

import "errors"

var (
	// ErrUnrecoverable is returned when the request is classified
	// DamageTotal (no surviving fragment); Repair returns it without
	// querying any fragment source.
	ErrUnrecoverable = errors.New("regeneration: no surviving fragments, content unrecoverable")
	// ErrRepairExhausted is returned when fragment recruitment gives up
	// (backoff exhausted) before reaching K surviving fragments.
	ErrRepairExhausted = errors.New("regeneration: repair attempts exhausted before reaching K fragments")
)
