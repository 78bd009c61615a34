package template

import (
	"maps"
	"time"
)

// Dictionary is the two-level lookup a render context reads static values
// from. Implemented by config.Dictionary.
type Dictionary interface {
	Lookup(section, key string) (string, bool)
}

// Secrets resolves a secret name to its match URL for the proxy: tag.
// Implemented by config.Secrets.
type Secrets interface {
	MatchURL(name string) (string, bool)
}

// MemoryEntry is the immutable snapshot of one past job run.
type MemoryEntry struct {
	Date     string // YYYY-MM-DD
	DateTime string
	Result   string
}

// LoopValue is the value bound to a for-loop variable: an integer index for
// range loops, a memory entry for collection loops.
type LoopValue struct {
	Index  int64
	Memory *MemoryEntry // nil for index values
}

// IndexValue binds an integer range value.
func IndexValue(i int64) LoopValue {
	return LoopValue{Index: i}
}

// MemoryValue binds a memory entry.
func MemoryValue(m MemoryEntry) LoopValue {
	return LoopValue{Memory: &m}
}

// IsIndex reports whether the value is an integer index.
func (v LoopValue) IsIndex() bool {
	return v.Memory == nil
}

// Context carries everything a render can substitute. It is owned by the
// caller, fully populated before Render, and never written by the engine
// except for per-loop-frame copies of LoopVars.
type Context struct {
	Dictionary Dictionary
	Secrets    Secrets

	// Result, Message, and Sender are empty when not applicable to the run.
	Result  string
	Message string
	Sender  string

	// Memories is ordered newest first.
	Memories []MemoryEntry

	LoopVars map[string]LoopValue

	// Pipes overrides the default pipe registry when non-nil.
	Pipes *PipeRegistry

	// Now overrides the clock for date/datetime tags. Tests set this;
	// production leaves it nil for time.Now.
	Now func() time.Time
}

// NewContext returns a context with the given dictionary and nothing else
// populated.
func NewContext(dict Dictionary) *Context {
	return &Context{
		Dictionary: dict,
		LoopVars:   map[string]LoopValue{},
	}
}

// clone copies the context for a for-loop frame. Only LoopVars is deep
// copied: it is the one field the evaluator mutates, and the copy keeps
// bindings from leaking outside the loop.
func (c *Context) clone() *Context {
	dup := *c
	dup.LoopVars = maps.Clone(c.LoopVars)
	if dup.LoopVars == nil {
		dup.LoopVars = map[string]LoopValue{}
	}
	return &dup
}

func (c *Context) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Context) pipes() *PipeRegistry {
	if c.Pipes != nil {
		return c.Pipes
	}
	return defaultPipes
}
