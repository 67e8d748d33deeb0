package types

import "sync"

// Context is the process-wide TypeContext of: it interns Type
// values by their canonical string form so that equal types are
// pointer-equal. It is immutable after first use in the sense that entries
// are never removed or mutated, only added.
type Context struct {
	mu    sync.RWMutex
	byKey map[string]Type
}

// Global is the process-wide TypeContext every component shares, mirroring
// "TypeContext is process-wide and immutable after first use".
var Global = NewContext()

func NewContext() *Context {
	return &Context{byKey: make(map[string]Type)}
}

// Intern returns the canonical instance equal to t, registering t if this is
// the first time its canonical form has been seen.
func (c *Context) Intern(t Type) Type {
	key := t.String()

	c.mu.RLock()
	if existing, ok := c.byKey[key]; ok {
		c.mu.RUnlock()
		return existing
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.byKey[key]; ok {
		return existing
	}
	c.byKey[key] = t
	return t
}

// Len reports how many distinct types have been interned; used only by
// tests and diagnostics.
func (c *Context) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byKey)
}
