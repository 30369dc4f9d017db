// Package main is the entry point for the mfa CLI client.
package main

import (
	"github.com/donaldgifford/manifest-analyzer/cmd/mfa/cmd"
)

func main() {
	cmd.Execute()
}
