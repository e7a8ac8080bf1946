// Package main provides the CLI for the leapdgml debug view converter.
package main

import (
	"os"

	"github.com/leapstack-labs/leapdgml/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
