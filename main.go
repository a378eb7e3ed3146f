package main

import (
	"os"

	"github.com/StephanAkkerman/Issue-Bot/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
