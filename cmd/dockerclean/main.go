// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// dockerclean removes docker artifacts that have outlived a grace
// period: stopped containers, dangling images, unused networks and
// dangling volumes.
package main

import (
	"fmt"
	"os"

	"github.com/juju/cmd/v3"
)

// Main hands control to the cmd package. This function is not
// redundant with main, because it provides an entry point for testing
// with arbitrary command line arguments.
func Main(args []string) {
	ctx, err := cmd.DefaultContext()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
	os.Exit(cmd.Main(newCleanCommand(), ctx, args[1:]))
}

func main() {
	Main(os.Args)
}
