// Command cobolfront is the CLI driver for the COBOL preprocessing and
// analysis front end.
package main

import (
	"fmt"
	"os"

	"github.com/coboltools/frontend/cmd/cobolfront/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
