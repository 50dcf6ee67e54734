// Command graphsmith builds prompt graph documents from named recipes.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/graphsmith/internal/cli"
	"github.com/roach88/graphsmith/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitCommandError)
	}

	if err := cli.NewRootCommand(cfg).Execute(); err != nil {
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			// Flag and argument errors have not been printed yet.
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
