package schema

import (
	"fmt"
	"strings"
)

// RoutingError reports that the routing step returned content that does
// not parse into a RoutingDecision or that violates its invariants.
// Callers are expected to fall back to an unscoped hybrid retrieval.
type RoutingError struct {
	Reason string
	Err    error
}

func (e *RoutingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("routing failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("routing failed: %s", e.Reason)
}

func (e *RoutingError) Unwrap() error { return e.Err }

// InvalidScopeError reports that the caller supplied video IDs not
// present in the catalog, or an empty set where at least one is
// required. It is not retried.
type InvalidScopeError struct {
	VideoIDs []string
	Reason   string
}

func (e *InvalidScopeError) Error() string {
	if len(e.VideoIDs) == 0 {
		return fmt.Sprintf("invalid video scope: %s", e.Reason)
	}
	return fmt.Sprintf("invalid video scope [%s]: %s", strings.Join(e.VideoIDs, ", "), e.Reason)
}

// ConfigurationError reports a programming error upstream, such as
// mismatched list/weight counts in fusion or a reversed temporal range.
// Fatal for the call.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

// RetrievalExhaustedError reports that every query variant failed.
// Callers should report inability to find relevant content rather than
// answering from an empty context.
type RetrievalExhaustedError struct {
	Failures []error
}

func (e *RetrievalExhaustedError) Error() string {
	return fmt.Sprintf("retrieval exhausted: all %d variant(s) failed", len(e.Failures))
}

func (e *RetrievalExhaustedError) Unwrap() []error { return e.Failures }
