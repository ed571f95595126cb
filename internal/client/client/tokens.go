package client

import "sync"

// TokenStore holds the owner token pair between calls.
type TokenStore interface {
	Tokens() (access, refresh string)
	SetTokens(access, refresh string)
}

// MemoryTokens is a TokenStore for callers without a session.
type MemoryTokens struct {
	mu      sync.Mutex
	access  string
	refresh string
}

func (m *MemoryTokens) Tokens() (string, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.access, m.refresh
}

func (m *MemoryTokens) SetTokens(access, refresh string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access, m.refresh = access, refresh
}
