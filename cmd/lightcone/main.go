// Command lightcone checks two-client register histories against
// linearizability, sequential consistency and serializability.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/lightcone/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err != nil {
		// Commands report their own failures; only surface cobra's
		// usage errors (bad flags, wrong arg count).
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
	}
	os.Exit(cli.GetExitCode(err))
}
