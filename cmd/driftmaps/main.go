// Command driftmaps replays marker lifecycle scenes against the drift maps
// platform channel and prints the resulting engine calls.
package main

import (
	"fmt"
	"os"

	"github.com/go-drift/maps/cmd/driftmaps/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
