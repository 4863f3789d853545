package main

import (
	"fmt"
	"os"
)

// main hands off to the cobra command tree. Business logic lives in the
// internal service packages.
func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
