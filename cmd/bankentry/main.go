package main

import (
	"os"

	"github.com/bankentry-dev/bankentry/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
