package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/roach88/mechshop/internal/cli"
)

func main() {
	// A .env file is optional; when present it seeds the MECHSHOP_*
	// variables that internal/config reads as overrides.
	_ = godotenv.Load()

	os.Exit(cli.Execute())
}
