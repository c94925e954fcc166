// main holds the entry logic for the retroscreen CLI.
package main

import (
	"github.com/pharmakit/retroscreen/cmd"
	"github.com/pharmakit/retroscreen/internal/contract"
	"github.com/pharmakit/retroscreen/internal/runstore"
)

func main() {
	cmd.SetStoreManager(runstore.Manager)

	err := cmd.Execute()

	// Shutdown order matters: flush the store before reporting the outcome.
	runstore.CloseStore()
	if perr := cmd.StopProfiling(); perr != nil {
		contract.LogWarn("Failed to stop profiling", perr)
	}

	if err != nil {
		contract.LogFatal("Command failed", err)
	}
}
