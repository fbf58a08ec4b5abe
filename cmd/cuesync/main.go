package main

import (
	"os"

	"github.com/kmahadev/cuesync/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
