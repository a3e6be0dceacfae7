package main

import (
	"fmt"
	"os"

	"github.com/miradorstack/fleetview/internal/cli"
)

var version = "dev"

func main() {
	if err := cli.Run(version); err != nil {
		fmt.Fprintf(os.Stderr, "fleetctl: %v\n", err)
		os.Exit(cli.ExitCode(err))
	}
}
