// hashlife runs Game of Life patterns with the HashLife algorithm.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
