// Package main is the entry point for the manju CLI.
package main

import (
	"os"

	"github.com/f3rmion/manju/cmd/manju/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
