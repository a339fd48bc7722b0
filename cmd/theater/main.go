package main

import (
	"fmt"
	"os"

	"github.com/mehmetkoksal-w/resilience-theater/internal/cli"
)

func main() {
	if err := cli.Run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "theater: %v\n", err)
		os.Exit(1)
	}
}
