package client

import (
	"context"
	"sync"

	"github.com/namravamja/thinkme/views"
)

// UserSummary is the minimal identity shown in headers and menus.
type UserSummary struct {
	Name  string
	Email string
}

// Session is the resolver's view of the current visitor. HasResolved is
// false until the first identity check completes, so UIs can tell
// "anonymous" apart from "still checking" and avoid flashing the wrong
// state.
type Session struct {
	IsAuthenticated bool
	User            *UserSummary
	HasResolved     bool
}

// IdentityFetcher asks the server who the current session belongs to.
// *Client satisfies it.
type IdentityFetcher interface {
	Me(ctx context.Context) (views.User, error)
}

// GateNotifier is told when the resolver wants the login prompt shown or
// dismissed. The auth gate satisfies it.
type GateNotifier interface {
	OpenLogin()
	CloseLogin()
}

// Resolver maintains the visitor's session state. Concurrent Resolve
// calls are safe: each one takes a generation number, and a result is
// discarded if a newer resolution started in the meantime, so a slow
// stale response can never overwrite a fresh one.
//
// The login prompt is opened at most once per anonymous visit and closed
// at most once on authentication. Reset (logout) re-arms both.
type Resolver struct {
	fetcher  IdentityFetcher
	notifier GateNotifier

	mu          sync.Mutex
	session     Session
	generation  uint64
	openedLogin bool
}

// NewResolver creates a Resolver. notifier may be nil when no prompt UI
// is wired.
func NewResolver(fetcher IdentityFetcher, notifier GateNotifier) *Resolver {
	return &Resolver{fetcher: fetcher, notifier: notifier}
}

// Session returns the current session snapshot.
func (r *Resolver) Session() Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session
}

// Resolve checks the current identity with the server and returns the
// updated session. A failed identity fetch of any kind, rejection or
// transport error, resolves to an anonymous session.
func (r *Resolver) Resolve(ctx context.Context) Session {
	r.mu.Lock()
	r.generation++
	gen := r.generation
	r.mu.Unlock()

	user, err := r.fetcher.Me(ctx)

	r.mu.Lock()
	if gen != r.generation {
		session := r.session
		r.mu.Unlock()
		return session
	}

	var doOpen, doClose bool
	if err == nil {
		r.session = Session{
			IsAuthenticated: true,
			User:            &UserSummary{Name: user.Name, Email: user.Email},
			HasResolved:     true,
		}
		doClose = r.openedLogin
		r.openedLogin = false
	} else {
		// Any failure, auth rejection or transport, means no session.
		r.session = Session{HasResolved: true}
		doOpen = !r.openedLogin
		r.openedLogin = true
	}
	session := r.session
	r.mu.Unlock()

	// Notify outside the lock so the gate can call back into the
	// resolver without deadlocking.
	if r.notifier != nil {
		if doOpen {
			r.notifier.OpenLogin()
		}
		if doClose {
			r.notifier.CloseLogin()
		}
	}
	return session
}

// SetAuthenticated records a successful login without a server round
// trip. It invalidates any in-flight resolution.
func (r *Resolver) SetAuthenticated(user views.User) {
	r.mu.Lock()
	r.generation++
	r.session = Session{
		IsAuthenticated: true,
		User:            &UserSummary{Name: user.Name, Email: user.Email},
		HasResolved:     true,
	}
	doClose := r.openedLogin
	r.openedLogin = false
	r.mu.Unlock()

	if doClose && r.notifier != nil {
		r.notifier.CloseLogin()
	}
}

// Reset clears the session after logout and re-arms the login prompt.
func (r *Resolver) Reset() {
	r.mu.Lock()
	r.generation++
	r.session = Session{HasResolved: true}
	r.openedLogin = false
	r.mu.Unlock()
}
