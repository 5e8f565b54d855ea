package main

import (
	"fmt"
	"os"

	"github.com/roach88/fizzbuzz/internal/cli"
)

var version = "dev"

func main() {
	cli.Version = version

	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
