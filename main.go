// main is the command-line entrypoint for statsync.
package main

import (
	"fmt"
	"os"

	"statsync/cmd"
	"statsync/internal/runstore"
)

func main() {
	cmd.SetRunManager(runstore.Manager)

	err := cmd.Execute()
	runstore.CloseStores()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
