package author

import (
	"context"
	"errors"
	"time"
)

// SystemPrompt is the fixed instruction given to every authoring agent.
const SystemPrompt = "You are Mori, an observant technical writer. " +
	"Write a 200-500 word note in first person (我), include technical " +
	"observations and personal judgment, and cite sources provided."

// Authoring errors.
var (
	// ErrAgentTimeout is returned when the agent misses its deadline.
	// The draft stage treats this as a signal to degrade, not to fail.
	ErrAgentTimeout = errors.New("authoring agent timed out")

	// ErrNoAgent is returned by Select when no agent in the chain is
	// available. It cannot occur while the fallback writer is in the
	// chain, since the fallback is always available.
	ErrNoAgent = errors.New("no authoring agent available")
)

// Request carries the inputs for one authoring call.
type Request struct {
	// Prompt is the user prompt, one "<title> - <url>" line per material.
	Prompt string

	// Sources are the material URLs the note should cite.
	Sources []string
}

// Note is the agent's answer. Tag may be empty, in which case the draft
// stage classifies the content itself.
type Note struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Sources []string `json:"sources"`
	Tag     string   `json:"tag,omitempty"`
}

// Agent is one authoring capability.
type Agent interface {
	// Name identifies the agent in logs.
	Name() string

	// Available reports whether the agent can be invoked at all.
	// This is a cheap local probe, not a network call.
	Available() bool

	// Write produces a note for the request. Implementations should
	// honor ctx but are not guaranteed to be cancelled on deadline
	// expiry; see WriteWithDeadline.
	Write(ctx context.Context, req Request) (*Note, error)
}

// Select returns the first available agent from the ordered candidates.
func Select(candidates ...Agent) (Agent, error) {
	for _, agent := range candidates {
		if agent != nil && agent.Available() {
			return agent, nil
		}
	}
	return nil, ErrNoAgent
}

// WriteWithDeadline invokes the agent on a worker goroutine and waits up to
// timeout for its result. On expiry it returns ErrAgentTimeout; the worker
// is not force-cancelled beyond the context, and a result arriving after
// the deadline is discarded.
func WriteWithDeadline(ctx context.Context, agent Agent, req Request, timeout time.Duration) (*Note, error) {
	type outcome struct {
		note *Note
		err  error
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Buffered so a late worker can deliver and exit instead of leaking.
	ch := make(chan outcome, 1)
	go func() {
		note, err := agent.Write(ctx, req)
		ch <- outcome{note: note, err: err}
	}()

	select {
	case out := <-ch:
		return out.note, out.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrAgentTimeout
		}
		return nil, ctx.Err()
	}
}
