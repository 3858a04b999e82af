package session

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Update when no policy is live.
	ErrNotFound = errors.New("session policy not found")

	// ErrEmptySessionID rejects operations without a conversation id.
	ErrEmptySessionID = errors.New("session id cannot be empty")

	// ErrNilPolicy rejects Put without a policy.
	ErrNilPolicy = errors.New("policy cannot be nil")

	// ErrStoreClosed is returned after Close.
	ErrStoreClosed = errors.New("session store closed")
)

// Store is a keyed registry of live policies.
type Store interface {
	// Put replaces the policy for id. Nothing of a previous policy survives.
	Put(ctx context.Context, id string, policy *Policy) error

	// Get returns a copy of the policy for id, or nil when none is live.
	Get(ctx context.Context, id string) (*Policy, error)

	// Clear removes the policy for id. Clearing an absent id is not an error.
	Clear(ctx context.Context, id string) error

	// Update runs fn on the live policy for id while holding that id's lock.
	// If fn returns an error the error is passed through; fn is responsible
	// for leaving the policy consistent. Returns ErrNotFound when absent.
	Update(ctx context.Context, id string, fn func(*Policy) error) error

	// Len returns the number of live policies.
	Len() int

	// Close stops background work.
	Close() error
}
