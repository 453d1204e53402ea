// Command smallsh is the entry point for the smallsh shell.
package main

import (
	"os"

	"github.com/Tyler-Rayls/smallsh/pkg/core"
	"github.com/Tyler-Rayls/smallsh/pkg/shell"
)

func main() {
	stdio := core.DefaultStdio()
	os.Exit(shell.Run(stdio, os.Args[1:]))
}
