package main

import (
	"os"

	"github.com/commerce-ops/opsboard/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
