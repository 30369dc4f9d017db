// Package main is the entry point for the manifest-analyzer server.
package main

import (
	"os"

	"github.com/donaldgifford/manifest-analyzer/cmd/manifest-analyzer/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
