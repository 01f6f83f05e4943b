package main

import (
	"fmt"
	"os"

	"github.com/example/casesla/internal/cli"
	"github.com/example/casesla/internal/wire"
)

func main() {
	err := cli.RootCmd().Execute()
	if shutdownErr := wire.Shutdown(); shutdownErr != nil && err == nil {
		err = shutdownErr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
