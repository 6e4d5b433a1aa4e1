package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"

	"github.com/agenthands/neoscope/internal/cli"
)

func main() {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintf(os.Stderr, "hint: %s\n", hint)
		}
		os.Exit(1)
	}
}
