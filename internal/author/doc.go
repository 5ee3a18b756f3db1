// Package author implements the authoring collaborator boundary for the
// Draft stage.
//
// The collaborator is modeled as an explicit capability: an Agent exposes
// Available() for probing and Write() for invocation, and the stage picks
// the first available implementation from a statically known ordered list
// (external-process agent, then the deterministic fallback writer). This
// replaces "try to call, recover on failure" with a probe-then-invoke
// policy.
//
// Write calls are bounded by a deadline but not truly cancelled: the work
// runs on a worker goroutine and a late result is discarded, so agent
// implementations must be effectively idempotent from the pipeline's point
// of view. The fallback writer always succeeds and produces a minimal but
// valid note, letting downstream stages proceed in degraded mode.
package author
