package main

import (
	"os"

	"speedrun-go/cmd/deploy/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
