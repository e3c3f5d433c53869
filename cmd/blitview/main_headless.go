//go:build headless

package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Fprintln(os.Stderr, "blitview: built with the headless tag; rebuild without it to open a window")
	os.Exit(1)
}
