/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package lrucache

import (
	"bytes"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
)

// ErrGoexit is returned to waiting callers when the loading goroutine calls runtime.Goexit.
var ErrGoexit = errors.New("runtime.Goexit was called")

// PanicError is returned to waiting callers when the value loader panics.
type PanicError struct {
	Value interface{}
	Stack []byte
}

func newPanicError(v interface{}) *PanicError {
	stack := debug.Stack()
	// Drop the "goroutine N [status]:" line, it describes a goroutine that may be gone already.
	if nl := bytes.IndexByte(stack, '\n'); nl >= 0 {
		stack = stack[nl+1:]
	}
	return &PanicError{Value: v, Stack: stack}
}

func (p *PanicError) Error() string {
	return fmt.Sprintf("%v\n\n%s", p.Value, p.Stack)
}

// Unwrap returns the panic value if it's an error.
func (p *PanicError) Unwrap() error {
	if err, ok := p.Value.(error); ok {
		return err
	}
	return nil
}

type loadCall[V any] struct {
	done chan struct{}
	val  V
	err  error
}

// singleFlightGroup runs at most one load per key at a time, duplicates wait for its result.
type singleFlightGroup[K comparable, V any] struct {
	mu    sync.Mutex
	calls map[K]*loadCall[V]
}

func (g *singleFlightGroup[K, V]) Do(key K, fn func() (V, error)) (V, error) {
	g.mu.Lock()
	if g.calls == nil {
		g.calls = make(map[K]*loadCall[V])
	}
	if c, ok := g.calls[key]; ok {
		g.mu.Unlock()
		<-c.done
		return c.val, c.err
	}
	c := &loadCall[V]{done: make(chan struct{})}
	g.calls[key] = c
	g.mu.Unlock()

	return g.run(c, key, fn)
}

func (g *singleFlightGroup[K, V]) run(c *loadCall[V], key K, fn func() (V, error)) (val V, err error) {
	returned := false
	var panicErr *PanicError

	defer func() {
		if !returned && panicErr == nil {
			c.err = ErrGoexit
		}
		g.mu.Lock()
		delete(g.calls, key)
		g.mu.Unlock()
		close(c.done)

		if panicErr != nil {
			panic(panicErr.Value)
		}
		val, err = c.val, c.err
	}()

	defer func() {
		if returned {
			return
		}
		if v := recover(); v != nil {
			panicErr = newPanicError(v)
			c.err = panicErr
		}
	}()

	c.val, c.err = fn()
	returned = true
	return c.val, c.err
}
