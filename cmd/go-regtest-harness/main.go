// Package main provides the go-regtest-harness CLI entry point.
//
// go-regtest-harness provisions and supervises a local regtest network: one
// blockchain backend (chaind) and N payment-channel daemons (lpd), for
// interactive manual testing.
package main

import (
	"fmt"
	"os"
)

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=1.0.0" ./cmd/go-regtest-harness
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
