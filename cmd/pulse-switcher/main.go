package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/aswild/pulse-switcher/pkg/switcher"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		// an empty eligible list is an unsuccessful outcome, not a crash
		if errors.Is(err, switcher.ErrNoEligibleDevice) {
			fmt.Fprintln(os.Stderr, "no matching devices found")
		} else {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}
