// Package retry provides the bounded exponential backoff policy shared by
// every component that fans out to unreliable peers: fragment recruitment
// during regeneration and tool dispatch during contract invocation.
package retry

import (
	"context"

	"github.com/cenkalti/backoff/v4"
)

// DefaultMaxRetries bounds how many times Do will retry op before giving
// up, matching the backoff policy both regeneration and invocation were
// independently using before this package existed.
const DefaultMaxRetries = 3

// Do runs op with exponential backoff, retrying up to maxRetries times or
// until ctx is done, whichever comes first.
func Do(ctx context.Context, maxRetries uint64, op func() error) error {
	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries), ctx)
	return backoff.Retry(op, b)
}
