// Command entangler bootstraps entangled token pairs on a local bbolt ledger.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newCLI().execute(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
