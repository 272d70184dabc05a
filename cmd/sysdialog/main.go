// Package main provides the entry point for the sysdialog CLI.
package main

import (
	"fmt"
	"os"

	"github.com/reglet-dev/sysdialog/cmd/sysdialog/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
