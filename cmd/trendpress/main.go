// Command trendpress runs the AI news collection and publishing pipeline.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/trendpress/trendpress/internal/cli"
)

func main() {
	// Secrets may live in a local .env; absence is fine.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
