package main

import (
	"os"

	"github.com/cs-au-dk/mint/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
