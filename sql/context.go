package sql

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Context carries everything a single query's compilation and execution
// needs that isn't part of the DAG or IR themselves: cancellation, the
// compiled-code target, logging, and compilation policy. It embeds a
// context.Context so it composes with standard deadline/cancellation use.
type Context struct {
	context.Context

	QueryID uuid.UUID
	Log     logrus.FieldLogger

	Options CompilationOptions
	Target  MemoryLevel
	Device  int

	interrupted int32
}

// NewContext builds a Context for one query compilation/execution.
func NewContext(parent context.Context, opts CompilationOptions, target MemoryLevel) *Context {
	id := uuid.New()
	return &Context{
		Context: parent,
		QueryID: id,
		Log:     logrus.WithFields(logrus.Fields{"component": "qkernel", "query_id": id.String()}),
		Options: opts,
		Target:  target,
	}
}

// NewEmptyContext is a convenience constructor for tests.
func NewEmptyContext() *Context {
	return NewContext(context.Background(), DefaultCompilationOptions(), CPU)
}

// Interrupt marks the query as cancelled. The query kernel polls
// Interrupted at fragment boundaries.
func (c *Context) Interrupt() {
	atomic.StoreInt32(&c.interrupted, 1)
}

// Interrupted reports whether Interrupt has been called.
func (c *Context) Interrupted() bool {
	return atomic.LoadInt32(&c.interrupted) != 0
}
