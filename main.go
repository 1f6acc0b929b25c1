package main

import (
	"fmt"
	"os"

	"github.com/scourfs/scour/cmd"
)

func main() {
	// A panic anywhere below should still produce a sane exit status.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "scour: panic: %v\n", r)
			os.Exit(1)
		}
	}()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
