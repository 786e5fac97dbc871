// Package main is the entry point for the cardprice CLI.
package main

import (
	"os"

	"cardprice/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
