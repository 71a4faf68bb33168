// Command suggestgen builds, serves and publishes field suggestion
// dictionaries from OpenAPI documents, model descriptors or live databases.
package main

import (
	"os"
)

// Build information injected via ldflags at build time.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
