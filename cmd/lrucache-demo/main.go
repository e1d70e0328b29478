/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

// Command lrucache-demo runs a short sequence of cache operations and prints results of reads.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
