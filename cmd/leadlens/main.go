// Command leadlens generates and emails sales-activity performance reports.
package main

import (
	"os"

	"github.com/leadlens-io/leadlens/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
