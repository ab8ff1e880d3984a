// Package main provides the layoutctl entry point.
package main

import (
	"fmt"
	"os"

	"github.com/hostel-manager/room-designer/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
