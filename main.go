package main

import (
	"fmt"
	"os"

	"github.com/Baptistemontan/bench-find-odd/cli"
)

func main() {
	if err := cli.App.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "bench-find-odd:", err)
		os.Exit(1)
	}
}
