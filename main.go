package main

import (
	"os"

	"github.com/bibleaquifer/sitegen/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
