package client

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/namravamja/thinkme/views"
)

// fakeIdentity scripts the results of successive Me calls.
type fakeIdentity struct {
	mu      sync.Mutex
	results []func() (views.User, error)
	calls   int
}

func (f *fakeIdentity) Me(ctx context.Context) (views.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls >= len(f.results) {
		return views.User{}, &AuthError{Message: "Not authenticated"}
	}
	res := f.results[f.calls]
	f.calls++
	return res()
}

func authenticated(name, email string) func() (views.User, error) {
	return func() (views.User, error) {
		return views.User{Name: name, Email: email}, nil
	}
}

func anonymous() func() (views.User, error) {
	return func() (views.User, error) {
		return views.User{}, &AuthError{Message: "Not authenticated"}
	}
}

func network() func() (views.User, error) {
	return func() (views.User, error) {
		return views.User{}, &NetworkError{Op: "/me", Err: errors.New("connection refused")}
	}
}

// recordingNotifier counts prompt open/close notifications.
type recordingNotifier struct {
	mu     sync.Mutex
	opens  int
	closes int
}

func (n *recordingNotifier) OpenLogin() {
	n.mu.Lock()
	n.opens++
	n.mu.Unlock()
}

func (n *recordingNotifier) CloseLogin() {
	n.mu.Lock()
	n.closes++
	n.mu.Unlock()
}

func (n *recordingNotifier) counts() (int, int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.opens, n.closes
}

func TestResolverStartsUnresolved(t *testing.T) {
	r := NewResolver(&fakeIdentity{}, nil)

	s := r.Session()

	assert.False(t, s.HasResolved)
	assert.False(t, s.IsAuthenticated)
	assert.Nil(t, s.User)
}

func TestResolveAnonymous(t *testing.T) {
	r := NewResolver(&fakeIdentity{results: []func() (views.User, error){anonymous()}}, nil)

	s := r.Resolve(context.Background())

	assert.True(t, s.HasResolved)
	assert.False(t, s.IsAuthenticated)
	assert.Nil(t, s.User)
}

func TestResolveAuthenticated(t *testing.T) {
	fake := &fakeIdentity{results: []func() (views.User, error){
		authenticated("Dana", "dana@example.com"),
	}}
	r := NewResolver(fake, nil)

	s := r.Resolve(context.Background())

	assert.True(t, s.HasResolved)
	assert.True(t, s.IsAuthenticated)
	require.NotNil(t, s.User)
	assert.Equal(t, "Dana", s.User.Name)
	assert.Equal(t, "dana@example.com", s.User.Email)
}

func TestResolveNetworkFailureMeansNoSession(t *testing.T) {
	fake := &fakeIdentity{results: []func() (views.User, error){network()}}
	notifier := &recordingNotifier{}
	r := NewResolver(fake, notifier)

	s := r.Resolve(context.Background())

	assert.True(t, s.HasResolved)
	assert.False(t, s.IsAuthenticated, "an unreachable identity endpoint means no session")
	assert.Nil(t, s.User)

	opens, _ := notifier.counts()
	assert.Equal(t, 1, opens, "an unresolved identity opens the login prompt like any anonymous visit")
}

func TestResolveOpensLoginPromptOnce(t *testing.T) {
	fake := &fakeIdentity{results: []func() (views.User, error){
		anonymous(), anonymous(), anonymous(),
	}}
	notifier := &recordingNotifier{}
	r := NewResolver(fake, notifier)

	r.Resolve(context.Background())
	r.Resolve(context.Background())
	r.Resolve(context.Background())

	opens, closes := notifier.counts()
	assert.Equal(t, 1, opens, "the prompt opens once per anonymous visit")
	assert.Equal(t, 0, closes)
}

func TestResolveClosesPromptOnceOnAuth(t *testing.T) {
	fake := &fakeIdentity{results: []func() (views.User, error){
		anonymous(),
		authenticated("Dana", "dana@example.com"),
		authenticated("Dana", "dana@example.com"),
	}}
	notifier := &recordingNotifier{}
	r := NewResolver(fake, notifier)

	r.Resolve(context.Background())
	r.Resolve(context.Background())
	r.Resolve(context.Background())

	opens, closes := notifier.counts()
	assert.Equal(t, 1, opens)
	assert.Equal(t, 1, closes, "the prompt closes once when authentication lands")
}

func TestResetRearmsPrompt(t *testing.T) {
	fake := &fakeIdentity{results: []func() (views.User, error){
		anonymous(),
		anonymous(),
	}}
	notifier := &recordingNotifier{}
	r := NewResolver(fake, notifier)

	r.Resolve(context.Background())
	r.Reset()
	r.Resolve(context.Background())

	opens, _ := notifier.counts()
	assert.Equal(t, 2, opens, "logout re-arms the prompt")

	s := r.Session()
	assert.True(t, s.HasResolved)
	assert.False(t, s.IsAuthenticated)
}

func TestSetAuthenticatedSkipsRoundTrip(t *testing.T) {
	r := NewResolver(&fakeIdentity{}, nil)

	r.SetAuthenticated(views.User{Name: "Dana", Email: "dana@example.com"})

	s := r.Session()
	assert.True(t, s.IsAuthenticated)
	assert.True(t, s.HasResolved)
	require.NotNil(t, s.User)
	assert.Equal(t, "Dana", s.User.Name)
}

// blockingIdentity lets the test hold a Me call open while a second
// resolution completes, simulating a slow request arriving late.
type blockingIdentity struct {
	release chan struct{}
	stale   func() (views.User, error)
	fresh   func() (views.User, error)
	mu      sync.Mutex
	calls   int
}

func (f *blockingIdentity) Me(ctx context.Context) (views.User, error) {
	f.mu.Lock()
	call := f.calls
	f.calls++
	f.mu.Unlock()

	if call == 0 {
		<-f.release
		return f.stale()
	}
	return f.fresh()
}

func TestResolveDiscardsStaleResult(t *testing.T) {
	fake := &blockingIdentity{
		release: make(chan struct{}),
		stale:   anonymous(),
		fresh:   authenticated("Dana", "dana@example.com"),
	}
	r := NewResolver(fake, nil)

	done := make(chan Session)
	go func() {
		done <- r.Resolve(context.Background())
	}()

	// The second resolution starts after the first is in flight and
	// finishes first.
	for {
		fake.mu.Lock()
		started := fake.calls > 0
		fake.mu.Unlock()
		if started {
			break
		}
	}
	fresh := r.Resolve(context.Background())
	require.True(t, fresh.IsAuthenticated)

	// Release the stale response; it must not overwrite the fresh one.
	close(fake.release)
	<-done

	s := r.Session()
	assert.True(t, s.IsAuthenticated, "a stale response must not win over a fresh one")
}
