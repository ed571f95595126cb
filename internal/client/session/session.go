// Package session holds the signed-in owner's state for the lifetime of the
// CLI process.
//
// A Context starts in Init, moves to Authenticated or Unauthenticated once
// Begin has run, flips between those two on sign-in and sign-out, and ends
// in Teardown. After Teardown all credentials are gone and further token
// updates are ignored.
package session

import (
	"fmt"
	"sync"
)

type State int

const (
	Init State = iota
	Authenticated
	Unauthenticated
	Teardown
)

func (s State) String() string {
	switch s {
	case Init:
		return "init"
	case Authenticated:
		return "authenticated"
	case Unauthenticated:
		return "unauthenticated"
	case Teardown:
		return "teardown"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Context is safe for concurrent use. It satisfies client.TokenStore.
type Context struct {
	mu      sync.Mutex
	state   State
	email   string
	access  string
	refresh string
}

func New() *Context {
	return &Context{state: Init}
}

func (c *Context) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Begin resolves Init into Authenticated when tokens were already stored,
// Unauthenticated otherwise. It is a no-op in any other state.
func (c *Context) Begin() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Init {
		c.state = c.resolved()
	}
	return c.state
}

func (c *Context) resolved() State {
	if c.access != "" {
		return Authenticated
	}
	return Unauthenticated
}

func (c *Context) Tokens() (string, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.access, c.refresh
}

func (c *Context) SetTokens(access, refresh string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Teardown {
		return
	}
	c.access, c.refresh = access, refresh
	if c.state != Init {
		c.state = c.resolved()
	}
}

// SignIn records the owner email alongside the tokens already set by the
// client.
func (c *Context) SignIn(email string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Teardown {
		return
	}
	c.email = email
}

func (c *Context) Email() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.email
}

func (c *Context) SignOut() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Teardown {
		return
	}
	c.email, c.access, c.refresh = "", "", ""
	c.state = Unauthenticated
}

func (c *Context) Teardown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.email, c.access, c.refresh = "", "", ""
	c.state = Teardown
}
