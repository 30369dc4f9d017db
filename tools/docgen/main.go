// Package main generates CLI reference documentation for the manifest-analyzer
// server binary and the mfa client.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	servercmd "github.com/donaldgifford/manifest-analyzer/cmd/manifest-analyzer/cmd"
	mfacmd "github.com/donaldgifford/manifest-analyzer/cmd/mfa/cmd"
)

func main() {
	output := flag.String("output", "docs/cli", "output directory for generated markdown")
	flag.Parse()

	roots := map[string]*cobra.Command{
		"manifest-analyzer": servercmd.Root(),
		"mfa":               mfacmd.Root(),
	}

	for name, root := range roots {
		dir := filepath.Join(*output, name)
		if err := os.MkdirAll(dir, 0o750); err != nil {
			log.Fatalf("creating output directory: %v", err)
		}

		root.DisableAutoGenTag = true
		if err := doc.GenMarkdownTree(root, dir); err != nil {
			log.Fatalf("generating %s docs: %v", name, err)
		}
	}

	fmt.Printf("CLI docs generated in %s/\n", *output)
}
