package main

import (
	"os"

	"github.com/prosecnetworks/sentinel/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
