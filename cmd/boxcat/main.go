// Package main provides the entry point for the boxcat server.
package main

import (
	"os"

	"github.com/boxcat/boxcat/cmd/boxcat/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
