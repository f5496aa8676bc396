package main

import (
	"os"

	"github.com/TongyunK/orderFood-system/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
