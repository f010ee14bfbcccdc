// Package main is the entry point for issuebot.
package main

import (
	"fmt"
	"os"

	"github.com/danielolaszy/issuebot/cmd"
	"github.com/danielolaszy/issuebot/internal/logging"
)

// main runs the root command and exits non-zero on any error.
func main() {
	if err := cmd.Execute(); err != nil {
		logging.Error("command execution failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
