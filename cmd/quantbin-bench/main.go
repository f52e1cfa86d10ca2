// Package main provides the entry point for the quantbin-bench CLI.
package main

import (
	"os"

	"github.com/hupe1980/quantbin/cmd/quantbin-bench/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
