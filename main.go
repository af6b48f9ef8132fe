package main

import (
	"os"

	"github.com/zhelev-dev/docview/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
