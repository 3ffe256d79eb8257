// Package main is the entry point for the trackbake CLI.
//
// All functionality lives in internal/cli, which defines the cobra
// commands; main only runs the root command and exits with its code.
package main

import (
	"os"

	"github.com/roach88/trackbake/internal/cli"
)

func main() {
	os.Exit(cli.Execute(cli.NewRootCommand()))
}
