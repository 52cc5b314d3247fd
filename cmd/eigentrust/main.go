// SPDX-License-Identifier: MIT

// Command eigentrust computes EigenTrust global trust vectors.
package main

import (
	"os"

	"github.com/katalvlaran/eigentrust/cli"
)

func main() {
	os.Exit(cli.Execute())
}
