// Command vecidx is the administrative CLI over pkg/vecindex: a debug/ops
// tool for a single vector index, not a network-facing server.
package main

import (
	"fmt"
	"os"

	"github.com/dawsonblock/vecindex/cmd/vecidx/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
