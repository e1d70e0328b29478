/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package main

import (
	"fmt"
	"io"

	"github.com/acronis/go-lrucache/lrucache"
)

type demoCache interface {
	Get(key string) (int, bool)
	Set(key string, value int)
}

var _ demoCache = (*lrucache.LRUCache[string, int])(nil)

// runDemo runs the demo sequence and writes results of every read to w.
// With capacity 2 the output is: 1, <nil>, 4, <nil>.
func runDemo(w io.Writer, cache demoCache) {
	printGet := func(key string) {
		if val, ok := cache.Get(key); ok {
			_, _ = fmt.Fprintln(w, val)
			return
		}
		_, _ = fmt.Fprintln(w, "<nil>")
	}

	cache.Set("a", 1)
	cache.Set("b", 2)
	printGet("a")
	cache.Set("c", 3)
	printGet("b")
	cache.Set("a", 4)
	printGet("a")
	printGet("d")
}
