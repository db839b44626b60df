package main

import (
	"os"

	"github.com/solatis/querytext/cmd/querytext/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
