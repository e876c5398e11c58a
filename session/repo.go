package session

import "context"

// Repo is the opaque per-session key-value store. Sessions are addressed by
// the identifier carried in the browser cookie; the store has no knowledge
// of what the values mean.
type Repo interface {
	// Put stores a value under the session.
	Put(ctx context.Context, sessionID, key, value string) error

	// Get returns the value and whether it was present.
	Get(ctx context.Context, sessionID, key string) (string, bool, error)

	// PopOnce returns the value and clears it in the same operation. A
	// second pop observes absent, which is what makes single-use fields
	// like the CSRF state safe under duplicate callback requests.
	PopOnce(ctx context.Context, sessionID, key string) (string, bool, error)

	// ClearAll removes every value held for the session.
	ClearAll(ctx context.Context, sessionID string) error
}
