package identity

import (
	"context"
	"sync"
)

// Provider is the boundary to an external authentication service.
type Provider interface {
	// CurrentSession returns the active session, or ErrNoActiveSession.
	CurrentSession(ctx context.Context) (*Session, error)

	// OnSessionChange registers a listener for sign-in and sign-out
	// events. The returned function unsubscribes the listener.
	OnSessionChange(fn func(Event)) (unsubscribe func())
}

// MemoryProvider is an in-process Provider, used in tests and local
// development where no external auth service is wired.
type MemoryProvider struct {
	mu        sync.RWMutex
	session   *Session
	listeners map[int]func(Event)
	nextID    int
}

// NewMemoryProvider creates an empty in-process provider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		listeners: make(map[int]func(Event)),
	}
}

func (p *MemoryProvider) CurrentSession(ctx context.Context) (*Session, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.session == nil {
		return nil, ErrNoActiveSession
	}
	s := *p.session
	return &s, nil
}

func (p *MemoryProvider) OnSessionChange(fn func(Event)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.listeners, id)
		p.mu.Unlock()
	}
}

// SignIn installs the session and notifies listeners.
func (p *MemoryProvider) SignIn(s Session) {
	p.mu.Lock()
	p.session = &s
	fns := p.snapshotListeners()
	p.mu.Unlock()

	for _, fn := range fns {
		fn(Event{Type: EventSignedIn, Session: &s})
	}
}

// SignOut clears the session and notifies listeners.
func (p *MemoryProvider) SignOut() {
	p.mu.Lock()
	p.session = nil
	fns := p.snapshotListeners()
	p.mu.Unlock()

	for _, fn := range fns {
		fn(Event{Type: EventSignedOut})
	}
}

func (p *MemoryProvider) snapshotListeners() []func(Event) {
	fns := make([]func(Event), 0, len(p.listeners))
	for _, fn := range p.listeners {
		fns = append(fns, fn)
	}
	return fns
}

// Compile-time interface assertion
var _ Provider = (*MemoryProvider)(nil)
