package session

import "sync"

// Scope owns lazily-built user-scoped service instances. Invalidate discards
// them all; the next Get rebuilds against the new identity.
type Scope struct {
	mu        sync.Mutex
	instances map[string]any
}

func NewScope() *Scope {
	return &Scope{instances: make(map[string]any)}
}

func (s *Scope) Get(key string, build func() any) any {
	s.mu.Lock()
	defer s.mu.Unlock()

	instance, ok := s.instances[key]
	if !ok {
		instance = build()
		s.instances[key] = instance
	}

	return instance
}

func (s *Scope) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.instances = make(map[string]any)
}
