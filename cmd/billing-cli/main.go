// Command billing-cli prices orders and scores charges from the command line.
package main

import (
	"os"

	"github.com/xenking/billing-api/cmd/billing-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
