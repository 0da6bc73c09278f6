package main

import (
	"os"

	"github.com/sarawak-explorer/itinerary/internal/cli"
)

var version = "dev"

func main() {
	cli.SetVersion(version)

	// Execute has already printed the error.
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
