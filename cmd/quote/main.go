package main

import (
	"fmt"
	"os"

	"github.com/hwalton/wildtubs-configurator/internal/commands"
)

func main() {
	root := commands.NewRootCmd(os.Stdout)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "quote: %v\n", err)
		os.Exit(1)
	}
}
