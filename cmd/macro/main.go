package main

import (
	"os"

	mdwerror "github.com/msto63/fanucmacro/foundation/core/error"

	"github.com/msto63/fanucmacro/cmd/macro/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(mdwerror.GetCode(err).ExitCode())
	}
}
