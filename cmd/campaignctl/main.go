package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/empathy-ledger/campaign-workflow-api/internal/cli"
)

func main() {
	if err := cli.NewRootCmd(cli.Open).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.New(color.FgRed).Sprint("Error:"), err)
		os.Exit(1)
	}
}
