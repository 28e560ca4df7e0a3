// Command ledgerctl edits the daily activity ledger from the terminal,
// working directly on the configured store.
//
//	ledgerctl sleep 22 6
//	ledgerctl meal "Oatmeal" 8
//	ledgerctl work 9 17 --name "Office"
//	ledgerctl show --blocks
//	ledgerctl --date 2025-03-09 show
package main

import (
	"os"
)

func main() {
	root, c := newRootCmd(os.Stdout)
	err := root.Execute()
	// PersistentPostRunE is skipped when a command fails.
	c.close()
	if err != nil {
		os.Exit(1)
	}
}
